// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP cross-cutting helpers.

# Helpers

  - WithLogging: wraps a handler with start/completion slog entries
  - JSONResponse: writes a JSON body with the given status code
  - ErrorResponse: writes the standard error envelope
  - ParseJSONBody: decodes a JSON request body
  - CORS: allows cross-origin requests from session pages

Handlers are wrapped at route registration time:

	mux.HandleFunc("POST /sessions", middleware.WithLogging(h.CreateSession))
*/
package middleware
