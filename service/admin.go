// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/mkisa/guildvote/cliparse"
	"github.com/mkisa/guildvote/middleware"
	"github.com/mkisa/guildvote/models"
)

type AdminHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg}
}

// AuditLog handles GET /api/audit
// Newest first. The stored ip_hash stays server-side.
func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	if requireStaff(w, r, h.cfg, models.RoleAdmin) == "" {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, actor_type, actor_id, action, details, created_at
		FROM audit_log
		ORDER BY created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query audit log", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	entries := []models.AuditLogEntry{}
	for rows.Next() {
		var e models.AuditLogEntry
		var details sql.NullString
		if err := rows.Scan(&e.ID, &e.ActorType, &e.ActorID, &e.Action, &details, &e.Timestamp); err != nil {
			slog.Error("failed to scan audit entry", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		e.Details = details.String
		entries = append(entries, e)
	}

	middleware.JSONResponse(w, http.StatusOK, entries)
}

// Stats handles GET /api/stats
// Raw counts only; turning counts into winners is the election committee's
// business, not this service's.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if requireStaff(w, r, h.cfg, models.RoleAdmin, models.RoleOfficer) == "" {
		return
	}

	var stats models.Stats
	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM voter", &stats.TotalVoters},
		{"SELECT COUNT(*) FROM voter WHERE status = 'VOTED'", &stats.VotedVoters},
		{"SELECT COUNT(*) FROM voter WHERE status = 'BLOCKED'", &stats.BlockedVoters},
		{"SELECT COUNT(*) FROM position", &stats.TotalPositions},
		{"SELECT COUNT(*) FROM vote", &stats.TotalBallots},
	}
	for _, c := range counts {
		if err := h.db.QueryRow(c.query).Scan(c.dst); err != nil {
			slog.Error("failed to compute stats", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	rows, err := h.db.Query(`
		SELECT candidate_id, COUNT(*)
		FROM vote
		GROUP BY candidate_id
	`)
	if err != nil {
		slog.Error("failed to compute vote counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	stats.VotesByOption = map[string]int{}
	for rows.Next() {
		var candidateID string
		var count int
		if err := rows.Scan(&candidateID, &count); err != nil {
			slog.Error("failed to scan vote count", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		stats.VotesByOption[candidateID] = count
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// Reset handles POST /api/reset
// Wipes every table, then appends a single audit entry recording the wipe.
// Demo convenience; a real election would never carry this endpoint.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if requireStaff(w, r, h.cfg, models.RoleAdmin) == "" {
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Child tables first so the deletes never trip a foreign key
	for _, table := range []string{"vote", "voter_session", "otp_code", "candidate", "position", "voter", "audit_log"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			slog.Error("failed to wipe table", "table", table, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset")
		return
	}

	appendAudit(h.db, h.cfg, r, models.RoleAdmin, models.RoleAdmin, "system_reset", "")

	slog.Warn("system reset", "remote", r.RemoteAddr)

	middleware.JSONResponse(w, http.StatusOK, models.Envelope{Success: true})
}
