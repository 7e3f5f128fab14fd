// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/julianpaulussen/matelda-server/cliparse"
	"github.com/julianpaulussen/matelda-server/middleware"
	"github.com/julianpaulussen/matelda-server/models"
	"github.com/julianpaulussen/matelda-server/sessions"
)

type PlayerHandler struct {
	mgr *sessions.Manager
	cfg cliparse.Config
}

func NewPlayerHandler(mgr *sessions.Manager, cfg cliparse.Config) *PlayerHandler {
	return &PlayerHandler{mgr: mgr, cfg: cfg}
}

// JoinSession handles POST /sessions/{sid}/players
func (h *PlayerHandler) JoinSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sid")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	// An empty body means a default join as a regular player.
	var req models.JoinSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	player, err := h.mgr.Join(sessionID, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("player joined", "session_id", sessionID, "player_id", player.ID,
		"display_name", player.DisplayName, "role", player.Role)

	middleware.JSONResponse(w, http.StatusCreated, models.JoinSessionResponse{
		PlayerID:    player.ID,
		DisplayName: player.DisplayName,
	})
}

// GetNextBatch handles GET /sessions/{sid}/players/{pid}/next-batch
func (h *PlayerHandler) GetNextBatch(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sid")
	playerID := r.PathValue("pid")
	if sessionID == "" || playerID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id and player_id are required")
		return
	}

	items, err := h.mgr.NextBatch(sessionID, playerID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BatchResponse{Items: items})
}
