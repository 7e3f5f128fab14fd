// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/julianpaulussen/matelda-server/cliparse"
	"github.com/julianpaulussen/matelda-server/handlers"
	"github.com/julianpaulussen/matelda-server/middleware"
	"github.com/julianpaulussen/matelda-server/sessions"
)

func NewRouter(mgr *sessions.Manager, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(mgr, cfg)
	playerHandler := handlers.NewPlayerHandler(mgr, cfg)
	labelHandler := handlers.NewLabelHandler(mgr, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session lifecycle
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /sessions/{sid}", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("POST /sessions/{sid}/start", middleware.WithLogging(sessionHandler.StartSession))
	mux.HandleFunc("POST /sessions/{sid}/next", middleware.WithLogging(sessionHandler.CompleteSession))
	mux.HandleFunc("GET /sessions/{sid}/progress", middleware.WithLogging(sessionHandler.GetProgress))

	// Players
	mux.HandleFunc("POST /sessions/{sid}/players", middleware.WithLogging(playerHandler.JoinSession))
	mux.HandleFunc("GET /sessions/{sid}/players/{pid}/next-batch", middleware.WithLogging(playerHandler.GetNextBatch))

	// Pool and labels
	mux.HandleFunc("POST /sessions/{sid}/pool", middleware.WithLogging(labelHandler.SeedPool))
	mux.HandleFunc("GET /sessions/{sid}/pool", middleware.WithLogging(labelHandler.GetPool))
	mux.HandleFunc("POST /sessions/{sid}/players/{pid}/labels", middleware.WithLogging(labelHandler.SubmitLabels))
	mux.HandleFunc("GET /sessions/{sid}/labels", middleware.WithLogging(labelHandler.GetMergedLabels))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("matelda session API v1"))
	})

	return mux
}
