// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the session API.

# Handler Types

Each handler is a struct with manager and config dependencies:

  - SessionHandler: session lifecycle (create, state, start, complete) and progress
  - PlayerHandler: joining and per-player batch retrieval
  - LabelHandler: pool seeding/readback, label submission, merged view

Handlers are created via constructor functions that accept a
*sessions.Manager and Config:

	sessionHandler := handlers.NewSessionHandler(mgr, cfg)

# Session Lifecycle

Sessions progress through three states: lobby → active → completed

	POST /sessions                → CreateSession (returns join_url)
	POST /sessions/{sid}/players  → JoinSession (host or player)
	POST /sessions/{sid}/pool     → SeedPool (lobby only)
	POST /sessions/{sid}/start    → StartSession (one-shot assignment)
	POST /sessions/{sid}/next     → CompleteSession

StartSession is idempotent: repeated calls return the stored assignment
state with 200, never a reshuffle.

# Labeling Flow

Players pull their batch and push labels:

	GET  /sessions/{sid}/players/{pid}/next-batch → GetNextBatch
	POST /sessions/{sid}/players/{pid}/labels     → SubmitLabels (upsert)
	GET  /sessions/{sid}/progress                 → GetProgress
	GET  /sessions/{sid}/labels                   → GetMergedLabels

# Error Mapping

respondError maps core errors for every endpoint: unknown ids → 404,
empty roster / insufficient pool → 400, second host or lifecycle
conflicts → 409, storage failures → 500.
*/
package handlers
