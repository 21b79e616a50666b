// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mkisa/guildvote/auth"
	"github.com/mkisa/guildvote/cliparse"
	"github.com/mkisa/guildvote/middleware"
	"github.com/mkisa/guildvote/models"
)

// appendAudit records one audit entry. The caller's IP is stored as a
// salted hash only. Audit failures are logged but never fail the request
// that caused them.
func appendAudit(db *sql.DB, cfg cliparse.Config, r *http.Request, actorType, actorID, action, details string) {
	ipHash := auth.HashIP(middleware.GetClientIP(r), cfg.AuditSalt)
	_, err := db.Exec(`
		INSERT INTO audit_log (id, actor_type, actor_id, action, details, ip_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.NewString(), actorType, actorID, action, details, ipHash, time.Now())
	if err != nil {
		slog.Error("failed to append audit entry", "action", action, "error", err)
	}
}

// requireStaff validates the X-Staff-Key header against the given roles.
// It returns the matching role, or writes a 401 and returns "".
func requireStaff(w http.ResponseWriter, r *http.Request, cfg cliparse.Config, roles ...string) string {
	key := middleware.StaffKey(r)
	for _, role := range roles {
		if auth.ValidateStaffKey(role, key, cfg.StaffKeySalt) == nil {
			return role
		}
	}
	middleware.SoftFailure(w, http.StatusUnauthorized, "Invalid staff key")
	return ""
}

// sessionVoter resolves a session token to the voter that holds it.
func sessionVoter(db *sql.DB, token string) (models.Voter, error) {
	var voter models.Voter
	var email, program sql.NullString
	err := db.QueryRow(`
		SELECT v.id, v.reg_no, v.name, v.email, v.program, v.status
		FROM voter_session s
		JOIN voter v ON v.id = s.voter_id
		WHERE s.token = $1
	`, token).Scan(&voter.ID, &voter.RegNo, &voter.Name, &email, &program, &voter.Status)
	if err != nil {
		return models.Voter{}, err
	}
	voter.Email = email.String
	voter.Program = program.String
	return voter, nil
}
