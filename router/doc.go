// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP route table using Go 1.22+ routing.

Routes are method-qualified patterns on the stdlib ServeMux, each wrapped
with request logging:

	mux := router.NewRouter(mgr, cfg)

Session lifecycle, player, and label routes are registered against the
three handler types in the handlers package; /health and / serve liveness
checks. See the handlers package for the endpoint semantics.
*/
package router
