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

type LabelHandler struct {
	mgr *sessions.Manager
	cfg cliparse.Config
}

func NewLabelHandler(mgr *sessions.Manager, cfg cliparse.Config) *LabelHandler {
	return &LabelHandler{mgr: mgr, cfg: cfg}
}

// SeedPool handles POST /sessions/{sid}/pool
func (h *LabelHandler) SeedPool(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sid")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	var samples []models.Sample
	if err := middleware.ParseJSONBody(r, &samples); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(samples) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pool cannot be empty")
		return
	}

	saved, err := h.mgr.SeedPool(sessionID, samples)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("pool seeded", "session_id", sessionID, "samples", saved)

	middleware.JSONResponse(w, http.StatusOK, models.SavedResponse{Saved: saved})
}

// GetPool handles GET /sessions/{sid}/pool
func (h *LabelHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sid")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	samples, err := h.mgr.Pool(sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PoolResponse{Samples: samples})
}

// SubmitLabels handles POST /sessions/{sid}/players/{pid}/labels
func (h *LabelHandler) SubmitLabels(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sid")
	playerID := r.PathValue("pid")
	if sessionID == "" || playerID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id and player_id are required")
		return
	}

	var entries []models.LabelEntry
	if err := middleware.ParseJSONBody(r, &entries); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(entries) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "labels cannot be empty")
		return
	}

	saved, err := h.mgr.SubmitLabels(sessionID, playerID, entries)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("labels submitted", "session_id", sessionID, "player_id", playerID, "saved", saved)

	middleware.JSONResponse(w, http.StatusOK, models.SavedResponse{Saved: saved})
}

// GetMergedLabels handles GET /sessions/{sid}/labels
func (h *LabelHandler) GetMergedLabels(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sid")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	merged, err := h.mgr.MergedLabels(sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MergedLabelsResponse{Labels: merged})
}
