// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mkisa/guildvote/cliparse"
	"github.com/mkisa/guildvote/middleware"
	"github.com/mkisa/guildvote/models"
)

type CandidateHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCandidateHandler(db *sql.DB, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{db: db, cfg: cfg}
}

// ListCandidates handles GET /api/candidates
// With ?status=APPROVED the list is public (it is the voter's ballot);
// unfiltered listing shows pending and rejected nominations and needs a
// staff key.
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	if status != models.CandidateApproved {
		if requireStaff(w, r, h.cfg, models.RoleAdmin, models.RoleOfficer) == "" {
			return
		}
	}

	query := `
		SELECT id, position_id, name, reg_no, manifesto, photo_url, status, reason, created_at
		FROM candidate
	`
	args := []any{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at"

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		var manifesto, photoURL, reason sql.NullString
		if err := rows.Scan(&c.ID, &c.PositionID, &c.Name, &c.RegNo, &manifesto, &photoURL, &c.Status, &reason, &c.CreatedAt); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		c.Manifesto = manifesto.String
		c.PhotoURL = photoURL.String
		c.Reason = reason.String
		candidates = append(candidates, c)
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// SubmitNomination handles POST /api/nominations
// Public: candidates nominate themselves; the nomination waits in
// SUBMITTED until an officer decides it.
func (h *CandidateHandler) SubmitNomination(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitNominationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" || req.RegNo == "" || req.PositionID == "" {
		middleware.SoftFailure(w, http.StatusBadRequest, "Name, registration number, and position are required")
		return
	}

	var exists int
	err := h.db.QueryRow("SELECT COUNT(*) FROM position WHERE id = $1", req.PositionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists == 0 {
		middleware.SoftFailure(w, http.StatusOK, "Position not found")
		return
	}

	candidate := models.Candidate{
		ID:         uuid.NewString(),
		PositionID: req.PositionID,
		Name:       req.Name,
		RegNo:      req.RegNo,
		Manifesto:  req.Manifesto,
		PhotoURL:   req.PhotoURL,
		Status:     models.CandidateSubmitted,
		CreatedAt:  time.Now(),
	}

	_, err = h.db.Exec(`
		INSERT INTO candidate (id, position_id, name, reg_no, manifesto, photo_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, candidate.ID, candidate.PositionID, candidate.Name, candidate.RegNo,
		candidate.Manifesto, candidate.PhotoURL, candidate.Status, candidate.CreatedAt)
	if err != nil {
		slog.Error("failed to insert nomination", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit nomination")
		return
	}

	appendAudit(h.db, h.cfg, r, models.RoleCandidate, req.RegNo, "nomination_submitted", candidate.Name)

	slog.Info("nomination submitted", "candidate_id", candidate.ID, "position_id", req.PositionID)

	middleware.JSONResponse(w, http.StatusCreated, struct {
		models.Envelope
		Candidate models.Candidate `json:"candidate"`
	}{
		Envelope:  models.Envelope{Success: true},
		Candidate: candidate,
	})
}

// UpdateCandidateStatus handles PUT /api/candidates/{id}/status
// The officer's approve/reject decision. Rejections carry a reason.
func (h *CandidateHandler) UpdateCandidateStatus(w http.ResponseWriter, r *http.Request) {
	role := requireStaff(w, r, h.cfg, models.RoleAdmin, models.RoleOfficer)
	if role == "" {
		return
	}

	candidateID := r.PathValue("id")
	if candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id is required")
		return
	}

	var req models.UpdateCandidateStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Status {
	case models.CandidateApproved, models.CandidateRejected:
	default:
		middleware.SoftFailure(w, http.StatusBadRequest, "Status must be APPROVED or REJECTED")
		return
	}
	if req.Status == models.CandidateRejected && req.Reason == "" {
		middleware.SoftFailure(w, http.StatusBadRequest, "Rejection requires a reason")
		return
	}

	res, err := h.db.Exec(`
		UPDATE candidate SET status = $1, reason = $2 WHERE id = $3
	`, req.Status, req.Reason, candidateID)
	if err != nil {
		slog.Error("failed to update candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update candidate")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.SoftFailure(w, http.StatusNotFound, "Candidate not found")
		return
	}

	appendAudit(h.db, h.cfg, r, role, role, "candidate_status_changed", candidateID+" -> "+req.Status)

	slog.Info("candidate status changed", "candidate_id", candidateID, "status", req.Status)

	middleware.JSONResponse(w, http.StatusOK, models.Envelope{Success: true})
}
