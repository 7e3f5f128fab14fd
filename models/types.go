// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Session status constants
const (
	StatusLobby     = "lobby"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Player role constants
const (
	RoleHost   = "host"
	RolePlayer = "player"
)

// Player status constants
const (
	PlayerJoined   = "joined"
	PlayerLabeling = "labeling"
	PlayerDone     = "done"
)

// Request types

type CreateSessionRequest struct {
	MinBudget int    `json:"min_budget"`
	Dataset   string `json:"dataset"`
}

type JoinSessionRequest struct {
	Role string `json:"role"`
}

// One submitted label for one work item.
type LabelEntry struct {
	SampleID string `json:"item_id"`
	Value    string `json:"label_value"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	JoinURL   string `json:"join_url"`
}

type JoinSessionResponse struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
}

type PlayerInfo struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

type SessionStateResponse struct {
	SessionID string       `json:"session_id"`
	Status    string       `json:"status"`
	MinBudget int          `json:"min_budget"`
	Dataset   string       `json:"dataset,omitempty"`
	Players   []PlayerInfo `json:"players"`
}

type PlayerAssignment struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Assigned    int    `json:"assigned"`
}

type StartSessionResponse struct {
	Status      string             `json:"status"`
	Assignments []PlayerAssignment `json:"assignments"`
}

type BatchResponse struct {
	Items []Sample `json:"items"`
}

type SavedResponse struct {
	Saved int `json:"saved"`
}

type PoolResponse struct {
	Samples []Sample `json:"samples"`
}

type ProgressResponse struct {
	Players []PlayerInfo `json:"players"`
	AllDone bool         `json:"all_done"`
	Status  string       `json:"status"`
}

type MergedLabelsResponse struct {
	Labels []MergedLabel `json:"labels"`
}

type CompleteSessionResponse struct {
	Status string `json:"status"`
}

// Domain types

type Session struct {
	ID        string    `json:"session_id"`
	Status    string    `json:"status"`
	MinBudget int       `json:"min_budget"`
	Dataset   string    `json:"dataset,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Player struct {
	ID          string    `json:"player_id"`
	SessionID   string    `json:"session_id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Sample is one labelable cell: a (table, row, column) coordinate plus the
// observed value and the fold provenance attached by the sampler.
type Sample struct {
	ID            string `json:"sample_id"`
	Dataset       string `json:"dataset"`
	Table         string `json:"table"`
	Row           int    `json:"row"`
	Col           string `json:"col"`
	Value         string `json:"val"`
	DomainFold    string `json:"domain_fold,omitempty"`
	CellFold      string `json:"cell_fold,omitempty"`
	CellFoldLabel string `json:"cell_fold_label,omitempty"`
}

type Assignment struct {
	SessionID  string    `json:"session_id"`
	PlayerID   string    `json:"player_id"`
	SampleID   string    `json:"sample_id"`
	Position   int       `json:"position"`
	AssignedAt time.Time `json:"assigned_at"`
}

type Label struct {
	SessionID string    `json:"session_id"`
	PlayerID  string    `json:"player_id"`
	SampleID  string    `json:"sample_id"`
	Value     string    `json:"label_value"`
	LabeledAt time.Time `json:"labeled_at"`
}

// MergedLabel pairs a pool item with the most recent label across all
// players, or a null value if nobody labeled it yet.
type MergedLabel struct {
	Item      Sample     `json:"item"`
	Value     *string    `json:"label_value"`
	PlayerID  string     `json:"player_id,omitempty"`
	LabeledAt *time.Time `json:"labeled_at,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
