// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Matelda session server.

Matelda is a collaborative error-detection labeling tool for tabular
datasets. This server coordinates multiplayer labeling sessions: players
join with a shared session code, a sampled pool of cells is partitioned
into disjoint per-player batches, labels are collected idempotently, and
the merged label set is handed off to label propagation.

# Starting the Server

The server runs against an embedded sqlite database by default:

	go run main.go

Or against postgres / the file-backed store:

	go run main.go -b postgres -d "postgres://..."
	go run main.go -b file -dir ./sessions

# Configuration

Settings (flags or env, .env supported):

  - PORT (-p): server port (default: 3525)
  - STORE_BACKEND (-b): file, sqlite, or postgres (default: sqlite)
  - DATABASE_URL (-d): postgres connection string or sqlite path
  - STORE_DIR (-dir): session directory for the file backend
  - BASE_URL (-base-url): public base URL for shareable join links

# Architecture

The server uses a handler-based architecture with dependency injection:

  - sessions: lifecycle manager, assignment engine, label merge
  - store: Session Repository (sqlite/postgres and file-JSON backends)
  - handlers: HTTP request handlers (sessions, players, labels)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response and domain types
  - identity: session codes and display-name generation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
