// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mkisa/guildvote/cliparse"
	"github.com/mkisa/guildvote/middleware"
	"github.com/mkisa/guildvote/models"
)

type BallotHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewBallotHandler(db *sql.DB, cfg cliparse.Config) *BallotHandler {
	return &BallotHandler{db: db, cfg: cfg}
}

// SubmitBallot handles POST /api/ballots
// Casts a full ballot under a verified session token. The whole ballot
// lands in one transaction together with the roll update, so a voter can
// never be half-voted: either every vote is recorded and the voter is
// VOTED, or nothing changed.
func (h *BallotHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)
	if token == "" {
		middleware.SoftFailure(w, http.StatusUnauthorized, "Session token is required")
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter, err := sessionVoter(h.db, token)
	if err == sql.ErrNoRows {
		middleware.SoftFailure(w, http.StatusUnauthorized, "Invalid session token")
		return
	}
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	switch voter.Status {
	case models.VoterVoted:
		middleware.SoftFailure(w, http.StatusOK, "Already voted")
		return
	case models.VoterBlocked:
		middleware.SoftFailure(w, http.StatusOK, "Registration number is blocked")
		return
	case models.VoterVerified:
	default:
		middleware.SoftFailure(w, http.StatusOK, "Voter is not verified")
		return
	}

	if msg := h.validateBallot(req.Votes); msg != "" {
		middleware.SoftFailure(w, http.StatusOK, msg)
		return
	}

	castAt := time.Now()
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	for _, v := range req.Votes {
		_, err = tx.Exec(`
			INSERT INTO vote (id, position_id, candidate_id, cast_at)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), v.PositionID, v.CandidateID, castAt)
		if err != nil {
			slog.Error("failed to insert vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record ballot")
			return
		}
	}

	_, err = tx.Exec("UPDATE voter SET status = $1 WHERE id = $2", models.VoterVoted, voter.ID)
	if err != nil {
		slog.Error("failed to update voter status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record ballot")
		return
	}

	// The token authorized exactly one ballot; retire it
	_, err = tx.Exec("DELETE FROM voter_session WHERE token = $1", token)
	if err != nil {
		slog.Error("failed to retire session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record ballot")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record ballot")
		return
	}

	appendAudit(h.db, h.cfg, r, "VOTER", voter.ID, "ballot_cast", fmt.Sprintf("%d votes", len(req.Votes)))

	slog.Info("ballot cast", "voter_id", voter.ID, "votes", len(req.Votes))

	middleware.JSONResponse(w, http.StatusOK, models.Envelope{Success: true})
}

// validateBallot checks the ballot against the live election: every
// contested position exactly once, every candidate APPROVED and standing
// for the position it is voted under. Returns the rejection message, or
// "" when the ballot is acceptable.
func (h *BallotHandler) validateBallot(votes []models.VoteSelection) string {
	var positionCount int
	if err := h.db.QueryRow("SELECT COUNT(*) FROM position").Scan(&positionCount); err != nil {
		slog.Error("failed to count positions", "error", err)
		return "Ballot could not be checked"
	}
	if positionCount == 0 {
		return "No election is open"
	}
	if len(votes) != positionCount {
		return "Ballot must cover every position exactly once"
	}

	seen := make(map[string]bool, len(votes))
	for _, v := range votes {
		if seen[v.PositionID] {
			return "Ballot must cover every position exactly once"
		}
		seen[v.PositionID] = true

		var status string
		err := h.db.QueryRow(`
			SELECT status FROM candidate
			WHERE id = $1 AND position_id = $2
		`, v.CandidateID, v.PositionID).Scan(&status)
		if err == sql.ErrNoRows {
			return "Candidate is not standing for this position"
		}
		if err != nil {
			slog.Error("failed to query candidate", "error", err)
			return "Ballot could not be checked"
		}
		if status != models.CandidateApproved {
			return "Candidate is not approved"
		}
	}
	return ""
}
