// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mkisa/guildvote/cliparse"
	"github.com/mkisa/guildvote/middleware"
	"github.com/mkisa/guildvote/models"
)

type VoterHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoterHandler(db *sql.DB, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{db: db, cfg: cfg}
}

// ListVoters handles GET /api/voters
func (h *VoterHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	if requireStaff(w, r, h.cfg, models.RoleAdmin) == "" {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, reg_no, name, email, program, status
		FROM voter
		ORDER BY reg_no
	`)
	if err != nil {
		slog.Error("failed to query voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		var v models.Voter
		var email, program sql.NullString
		if err := rows.Scan(&v.ID, &v.RegNo, &v.Name, &email, &program, &v.Status); err != nil {
			slog.Error("failed to scan voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		v.Email = email.String
		v.Program = program.String
		voters = append(voters, v)
	}

	middleware.JSONResponse(w, http.StatusOK, voters)
}

// AddVoter handles POST /api/voters
func (h *VoterHandler) AddVoter(w http.ResponseWriter, r *http.Request) {
	if requireStaff(w, r, h.cfg, models.RoleAdmin) == "" {
		return
	}

	var req models.AddVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.RegNo == "" || req.Name == "" {
		middleware.SoftFailure(w, http.StatusBadRequest, "Registration number and name are required")
		return
	}

	_, err := h.db.Exec(`
		INSERT INTO voter (id, reg_no, name, email, program, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), req.RegNo, req.Name, req.Email, req.Program, models.VoterEligible)
	if err != nil {
		// The unique index on reg_no catches duplicates on both dialects
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			middleware.SoftFailure(w, http.StatusOK, "Registration number already on the roll")
			return
		}
		slog.Error("failed to insert voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add voter")
		return
	}

	appendAudit(h.db, h.cfg, r, models.RoleAdmin, models.RoleAdmin, "voter_added", req.RegNo)

	slog.Info("voter added", "reg_no", req.RegNo)

	middleware.JSONResponse(w, http.StatusCreated, models.Envelope{Success: true})
}

// ImportVoters handles POST /api/voters/import
// Bulk-loads the roll from a CSV body: regNo,name,email,program per line.
// Malformed lines and duplicate registration numbers are skipped, not
// fatal; the response reports both counts.
func (h *VoterHandler) ImportVoters(w http.ResponseWriter, r *http.Request) {
	if requireStaff(w, r, h.cfg, models.RoleAdmin) == "" {
		return
	}

	defer r.Body.Close()
	reader := csv.NewReader(r.Body)
	reader.FieldsPerRecord = -1

	imported, skipped := 0, 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(record) < 2 || strings.TrimSpace(record[0]) == "" || strings.TrimSpace(record[1]) == "" {
			skipped++
			continue
		}

		regNo := strings.TrimSpace(record[0])
		name := strings.TrimSpace(record[1])
		email, program := "", ""
		if len(record) > 2 {
			email = strings.TrimSpace(record[2])
		}
		if len(record) > 3 {
			program = strings.TrimSpace(record[3])
		}

		_, err = h.db.Exec(`
			INSERT INTO voter (id, reg_no, name, email, program, status)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.NewString(), regNo, name, email, program, models.VoterEligible)
		if err != nil {
			skipped++
			continue
		}
		imported++
	}

	appendAudit(h.db, h.cfg, r, models.RoleAdmin, models.RoleAdmin, "voters_imported",
		fmt.Sprintf("%d imported, %d skipped", imported, skipped))

	slog.Info("voters imported", "imported", imported, "skipped", skipped)

	middleware.JSONResponse(w, http.StatusOK, models.ImportVotersResponse{
		Envelope: models.Envelope{Success: true},
		Imported: imported,
		Skipped:  skipped,
	})
}

// UpdateVoterStatus handles PUT /api/voters/{id}/status
// The admin's block/unblock lever. Only ELIGIBLE and BLOCKED can be set
// by hand; VERIFIED and VOTED are earned through the flow.
func (h *VoterHandler) UpdateVoterStatus(w http.ResponseWriter, r *http.Request) {
	if requireStaff(w, r, h.cfg, models.RoleAdmin) == "" {
		return
	}

	voterID := r.PathValue("id")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter id is required")
		return
	}

	var req models.UpdateVoterStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Status {
	case models.VoterEligible, models.VoterBlocked:
	default:
		middleware.SoftFailure(w, http.StatusBadRequest, "Status must be ELIGIBLE or BLOCKED")
		return
	}

	res, err := h.db.Exec("UPDATE voter SET status = $1 WHERE id = $2", req.Status, voterID)
	if err != nil {
		slog.Error("failed to update voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update voter")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.SoftFailure(w, http.StatusNotFound, "Voter not found")
		return
	}

	// A blocked voter's outstanding codes and sessions die with the block
	if req.Status == models.VoterBlocked {
		if _, err := h.db.Exec("DELETE FROM voter_session WHERE voter_id = $1", voterID); err != nil {
			slog.Error("failed to drop sessions for blocked voter", "error", err)
		}
	}

	appendAudit(h.db, h.cfg, r, models.RoleAdmin, models.RoleAdmin, "voter_status_changed", voterID+" -> "+req.Status)

	slog.Info("voter status changed", "voter_id", voterID, "status", req.Status)

	middleware.JSONResponse(w, http.StatusOK, models.Envelope{Success: true})
}
