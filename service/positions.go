// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mkisa/guildvote/cliparse"
	"github.com/mkisa/guildvote/middleware"
	"github.com/mkisa/guildvote/models"
)

type PositionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPositionHandler(db *sql.DB, cfg cliparse.Config) *PositionHandler {
	return &PositionHandler{db: db, cfg: cfg}
}

// ListPositions handles GET /api/positions
// Public: the voter's ballot is built from this list.
func (h *PositionHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, seats, opens_at, closes_at, semester, eligibility_rules
		FROM position
		ORDER BY name
	`)
	if err != nil {
		slog.Error("failed to query positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		var p models.Position
		var opensAt, closesAt sql.NullTime
		var rules sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Seats, &opensAt, &closesAt, &p.Semester, &rules); err != nil {
			slog.Error("failed to scan position", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		p.OpensAt = opensAt.Time
		p.ClosesAt = closesAt.Time
		p.EligibilityRules = rules.String
		positions = append(positions, p)
	}

	middleware.JSONResponse(w, http.StatusOK, positions)
}

// CreatePosition handles POST /api/positions
func (h *PositionHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	if requireStaff(w, r, h.cfg, models.RoleAdmin) == "" {
		return
	}

	var req models.CreatePositionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validatePosition(req); msg != "" {
		middleware.SoftFailure(w, http.StatusBadRequest, msg)
		return
	}

	position := models.Position{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Seats:            req.Seats,
		OpensAt:          req.OpensAt,
		ClosesAt:         req.ClosesAt,
		Semester:         req.Semester,
		EligibilityRules: req.EligibilityRules,
	}

	_, err := h.db.Exec(`
		INSERT INTO position (id, name, seats, opens_at, closes_at, semester, eligibility_rules)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, position.ID, position.Name, position.Seats, position.OpensAt, position.ClosesAt,
		position.Semester, position.EligibilityRules)
	if err != nil {
		slog.Error("failed to insert position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create position")
		return
	}

	appendAudit(h.db, h.cfg, r, models.RoleAdmin, models.RoleAdmin, "position_created", position.Name)

	slog.Info("position created", "position_id", position.ID, "name", position.Name)

	middleware.JSONResponse(w, http.StatusCreated, struct {
		models.Envelope
		Position models.Position `json:"position"`
	}{
		Envelope: models.Envelope{Success: true},
		Position: position,
	})
}

// UpdatePosition handles PUT /api/positions/{id}
func (h *PositionHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	if requireStaff(w, r, h.cfg, models.RoleAdmin) == "" {
		return
	}

	positionID := r.PathValue("id")
	if positionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position id is required")
		return
	}

	var req models.CreatePositionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validatePosition(req); msg != "" {
		middleware.SoftFailure(w, http.StatusBadRequest, msg)
		return
	}

	res, err := h.db.Exec(`
		UPDATE position
		SET name = $1, seats = $2, opens_at = $3, closes_at = $4, semester = $5, eligibility_rules = $6
		WHERE id = $7
	`, req.Name, req.Seats, req.OpensAt, req.ClosesAt, req.Semester, req.EligibilityRules, positionID)
	if err != nil {
		slog.Error("failed to update position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update position")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.SoftFailure(w, http.StatusNotFound, "Position not found")
		return
	}

	appendAudit(h.db, h.cfg, r, models.RoleAdmin, models.RoleAdmin, "position_updated", req.Name)

	slog.Info("position updated", "position_id", positionID)

	middleware.JSONResponse(w, http.StatusOK, models.Envelope{Success: true})
}

func validatePosition(req models.CreatePositionRequest) string {
	if req.Name == "" {
		return "Position name is required"
	}
	if req.Seats < 1 {
		return "Seats must be at least 1"
	}
	switch req.Semester {
	case models.SemesterAdvent, models.SemesterTrinity, models.SemesterEaster:
		return ""
	default:
		return "Unknown semester"
	}
}
