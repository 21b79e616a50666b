// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/mkisa/guildvote/auth"
	"github.com/mkisa/guildvote/cliparse"
	"github.com/mkisa/guildvote/middleware"
	"github.com/mkisa/guildvote/models"
)

// otpTTL is how long an issued one-time code stays valid.
const otpTTL = 5 * time.Minute

type VerifyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVerifyHandler(db *sql.DB, cfg cliparse.Config) *VerifyHandler {
	return &VerifyHandler{db: db, cfg: cfg}
}

// RequestCode handles POST /api/verify/request
// Issues a one-time code for an eligible registration number. The code is
// returned in the response body for on-screen display; there is no
// delivery channel in this deployment.
func (h *VerifyHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req models.RequestCodeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.RegNo == "" {
		middleware.SoftFailure(w, http.StatusBadRequest, "Registration number is required")
		return
	}

	var voterID, status string
	err := h.db.QueryRow("SELECT id, status FROM voter WHERE reg_no = $1", req.RegNo).Scan(&voterID, &status)
	if err == sql.ErrNoRows {
		middleware.SoftFailure(w, http.StatusOK, "Registration number not found")
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	switch status {
	case models.VoterBlocked:
		middleware.SoftFailure(w, http.StatusOK, "Registration number is blocked")
		return
	case models.VoterVoted:
		middleware.SoftFailure(w, http.StatusOK, "Already voted")
		return
	}

	code, err := auth.GenerateOTP(6)
	if err != nil {
		slog.Error("failed to generate code", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue code")
		return
	}

	// One active code per registration number; a re-request replaces it
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM otp_code WHERE reg_no = $1", req.RegNo); err != nil {
		slog.Error("failed to clear previous code", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue code")
		return
	}
	_, err = tx.Exec(`
		INSERT INTO otp_code (reg_no, code, expires_at)
		VALUES ($1, $2, $3)
	`, req.RegNo, code, time.Now().Add(otpTTL))
	if err != nil {
		slog.Error("failed to store code", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue code")
		return
	}
	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue code")
		return
	}

	appendAudit(h.db, h.cfg, r, "VOTER", voterID, "otp_requested", "")

	slog.Info("code issued", "reg_no", req.RegNo)

	middleware.JSONResponse(w, http.StatusOK, models.RequestCodeResponse{
		Envelope: models.Envelope{Success: true},
		OTP:      code,
	})
}

// ConfirmCode handles POST /api/verify/confirm
// Exchanges a valid (regNo, code) pair for a session token. The roll entry
// moves to VERIFIED and the spent code is discarded.
func (h *VerifyHandler) ConfirmCode(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyCodeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.RegNo == "" || req.Code == "" {
		middleware.SoftFailure(w, http.StatusBadRequest, "Registration number and code are required")
		return
	}

	var voter models.Voter
	var email, program sql.NullString
	err := h.db.QueryRow(`
		SELECT id, reg_no, name, email, program, status
		FROM voter
		WHERE reg_no = $1
	`, req.RegNo).Scan(&voter.ID, &voter.RegNo, &voter.Name, &email, &program, &voter.Status)
	if err == sql.ErrNoRows {
		middleware.SoftFailure(w, http.StatusOK, "Registration number not found")
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	voter.Email = email.String
	voter.Program = program.String

	// Re-check the roll: the voter may have been blocked, or voted from
	// another session, after requesting the code
	switch voter.Status {
	case models.VoterBlocked:
		middleware.SoftFailure(w, http.StatusOK, "Registration number is blocked")
		return
	case models.VoterVoted:
		middleware.SoftFailure(w, http.StatusOK, "Already voted")
		return
	}

	var code string
	var expiresAt time.Time
	err = h.db.QueryRow("SELECT code, expires_at FROM otp_code WHERE reg_no = $1", req.RegNo).Scan(&code, &expiresAt)
	if err == sql.ErrNoRows {
		middleware.SoftFailure(w, http.StatusOK, "Invalid OTP")
		return
	}
	if err != nil {
		slog.Error("failed to query code", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if req.Code != code {
		middleware.SoftFailure(w, http.StatusOK, "Invalid OTP")
		return
	}
	if time.Now().After(expiresAt) {
		middleware.SoftFailure(w, http.StatusOK, "OTP expired")
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM otp_code WHERE reg_no = $1", req.RegNo); err != nil {
		slog.Error("failed to discard code", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	_, err = tx.Exec(`
		INSERT INTO voter_session (token, voter_id, issued_at)
		VALUES ($1, $2, $3)
	`, token, voter.ID, time.Now())
	if err != nil {
		slog.Error("failed to store session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	_, err = tx.Exec("UPDATE voter SET status = $1 WHERE id = $2", models.VoterVerified, voter.ID)
	if err != nil {
		slog.Error("failed to update voter status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	voter.Status = models.VoterVerified
	appendAudit(h.db, h.cfg, r, "VOTER", voter.ID, "voter_verified", "")

	slog.Info("voter verified", "reg_no", req.RegNo)

	middleware.JSONResponse(w, http.StatusOK, models.VerifyCodeResponse{
		Envelope: models.Envelope{Success: true},
		Token:    token,
		Voter:    &voter,
	})
}
