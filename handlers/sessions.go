// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/julianpaulussen/matelda-server/cliparse"
	"github.com/julianpaulussen/matelda-server/middleware"
	"github.com/julianpaulussen/matelda-server/models"
	"github.com/julianpaulussen/matelda-server/sessions"
	"github.com/julianpaulussen/matelda-server/store"
)

type SessionHandler struct {
	mgr *sessions.Manager
	cfg cliparse.Config
}

func NewSessionHandler(mgr *sessions.Manager, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{mgr: mgr, cfg: cfg}
}

// respondError maps core errors onto HTTP statuses shared by all handlers:
// unknown ids are 404, violated preconditions are 400, lifecycle conflicts
// are 409, everything else is a 500 with the detail kept server-side.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Session or player not found")
	case errors.Is(err, sessions.ErrEmptyRoster):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Session has no players")
	case errors.Is(err, sessions.ErrInsufficientPool):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Work pool too small for roster")
	case errors.Is(err, sessions.ErrHostTaken):
		middleware.ErrorResponse(w, http.StatusConflict, "Session already has a host")
	case errors.Is(err, store.ErrAlreadyStarted):
		middleware.ErrorResponse(w, http.StatusConflict, "Session already started")
	default:
		slog.Error("session operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
	}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.MinBudget < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "min_budget must be at least 1")
		return
	}

	sess, err := h.mgr.CreateSession(req.MinBudget, req.Dataset)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("session created", "session_id", sess.ID, "min_budget", sess.MinBudget)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sess.ID,
		JoinURL:   h.cfg.BaseURL + "/join/" + sess.ID,
	})
}

// GetSession handles GET /sessions/{sid}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sid")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	state, err := h.mgr.State(sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, state)
}

// StartSession handles POST /sessions/{sid}/start
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sid")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := h.mgr.Start(sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("session started", "session_id", sessionID, "players", len(result.Assignments))

	middleware.JSONResponse(w, http.StatusOK, result)
}

// CompleteSession handles POST /sessions/{sid}/next
func (h *SessionHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sid")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	if err := h.mgr.Complete(sessionID); err != nil {
		respondError(w, err)
		return
	}

	slog.Info("session completed", "session_id", sessionID)

	middleware.JSONResponse(w, http.StatusOK, models.CompleteSessionResponse{
		Status: models.StatusCompleted,
	})
}

// GetProgress handles GET /sessions/{sid}/progress
func (h *SessionHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sid")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	progress, err := h.mgr.Progress(sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, progress)
}
