// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"database/sql"
	"net/http"

	"github.com/mkisa/guildvote/cliparse"
	"github.com/mkisa/guildvote/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	verifyHandler := NewVerifyHandler(db, cfg)
	ballotHandler := NewBallotHandler(db, cfg)
	positionHandler := NewPositionHandler(db, cfg)
	candidateHandler := NewCandidateHandler(db, cfg)
	voterHandler := NewVoterHandler(db, cfg)
	adminHandler := NewAdminHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voter verification and ballot casting (public)
	mux.HandleFunc("POST /api/verify/request", middleware.WithLogging(verifyHandler.RequestCode))
	mux.HandleFunc("POST /api/verify/confirm", middleware.WithLogging(verifyHandler.ConfirmCode))
	mux.HandleFunc("POST /api/ballots", middleware.WithLogging(ballotHandler.SubmitBallot))

	// Positions (reads public, writes admin)
	mux.HandleFunc("GET /api/positions", middleware.WithLogging(positionHandler.ListPositions))
	mux.HandleFunc("POST /api/positions", middleware.WithLogging(positionHandler.CreatePosition))
	mux.HandleFunc("PUT /api/positions/{id}", middleware.WithLogging(positionHandler.UpdatePosition))

	// Candidates and nominations
	mux.HandleFunc("GET /api/candidates", middleware.WithLogging(candidateHandler.ListCandidates))
	mux.HandleFunc("POST /api/nominations", middleware.WithLogging(candidateHandler.SubmitNomination))
	mux.HandleFunc("PUT /api/candidates/{id}/status", middleware.WithLogging(candidateHandler.UpdateCandidateStatus))

	// Voter roll (admin)
	mux.HandleFunc("GET /api/voters", middleware.WithLogging(voterHandler.ListVoters))
	mux.HandleFunc("POST /api/voters", middleware.WithLogging(voterHandler.AddVoter))
	mux.HandleFunc("POST /api/voters/import", middleware.WithLogging(voterHandler.ImportVoters))
	mux.HandleFunc("PUT /api/voters/{id}/status", middleware.WithLogging(voterHandler.UpdateVoterStatus))

	// Oversight (staff)
	mux.HandleFunc("GET /api/audit", middleware.WithLogging(adminHandler.AuditLog))
	mux.HandleFunc("GET /api/stats", middleware.WithLogging(adminHandler.Stats))
	mux.HandleFunc("POST /api/reset", middleware.WithLogging(adminHandler.Reset))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("guildvote election service v1"))
	})

	return mux
}
