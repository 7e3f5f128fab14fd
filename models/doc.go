// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSessionRequest: min_budget, dataset
  - JoinSessionRequest: role
  - LabelEntry: item_id, label_value (submitted as an array)

# Response Types

Types for JSON responses:

  - CreateSessionResponse: session_id, join_url
  - JoinSessionResponse: player_id, display_name
  - SessionStateResponse: session + roster
  - StartSessionResponse: status + per-player assignment counts
  - BatchResponse: items assigned to one player
  - SavedResponse: saved count for pool/label writes
  - ProgressResponse: players, all_done, status
  - MergedLabelsResponse: one row per pool item
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Session: labeling session metadata and lifecycle state
  - Player: roster entry with role and derived status
  - Sample: one labelable cell with fold provenance
  - Assignment: binding of a sample to exactly one player
  - Label: one player's verdict on one sample
  - MergedLabel: latest label per pool item across all players

# Constants

Session status values:

	StatusLobby     = "lobby"
	StatusActive    = "active"
	StatusCompleted = "completed"

Player roles:

	RoleHost   = "host"
	RolePlayer = "player"

Player status values:

	PlayerJoined   = "joined"
	PlayerLabeling = "labeling"
	PlayerDone     = "done"
*/
package models
