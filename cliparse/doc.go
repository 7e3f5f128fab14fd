// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment.

# Precedence

CLI flags override environment variables, which override defaults:

	matelda-server -p 8080 -b postgres -d "postgres://..."

Environment equivalents: PORT, STORE_BACKEND, DATABASE_URL, STORE_DIR,
BASE_URL. A .env file is loaded by main before parsing.

# Settings

  - Port (-p): server port, default 3525
  - StoreBackend (-b): "file", "sqlite" (default), or "postgres"
  - DatabaseURL (-d): postgres connection string, or sqlite database path
    (default matelda.db)
  - StoreDir (-dir): directory for per-session JSON documents when the
    file backend is selected (default ./sessions)
  - BaseURL (-base-url): public base URL used to build shareable join
    links (default http://localhost:<port>)

The postgres backend requires an explicit DatabaseURL; the other backends
have working defaults for local development.
*/
package cliparse
