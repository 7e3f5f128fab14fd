// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS. The DDL sticks to the
// dialect subset shared by postgres and sqlite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Sessions
CREATE TABLE IF NOT EXISTS session (
    id TEXT PRIMARY KEY,
    status TEXT NOT NULL CHECK (status IN ('lobby', 'active', 'completed')),
    min_budget INTEGER NOT NULL,
    dataset TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Players
CREATE TABLE IF NOT EXISTS player (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    display_name TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('host', 'player')),
    status TEXT NOT NULL CHECK (status IN ('joined', 'labeling', 'done')),
    joined_at TIMESTAMP NOT NULL,
    UNIQUE (session_id, display_name)
);

CREATE INDEX IF NOT EXISTS idx_player_session ON player(session_id);

-- Work-item pool
CREATE TABLE IF NOT EXISTS sample (
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    dataset TEXT NOT NULL,
    table_id TEXT NOT NULL,
    row_index INTEGER NOT NULL,
    col_id TEXT NOT NULL,
    cell_value TEXT NOT NULL,
    domain_fold TEXT,
    cell_fold TEXT,
    cell_fold_label TEXT,
    PRIMARY KEY (session_id, id)
);

CREATE INDEX IF NOT EXISTS idx_sample_position ON sample(session_id, position);

-- Assignments; the primary key makes double-assignment of an item
-- impossible at the schema level.
CREATE TABLE IF NOT EXISTS assignment (
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    player_id TEXT NOT NULL REFERENCES player(id) ON DELETE CASCADE,
    sample_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    assigned_at TIMESTAMP NOT NULL,
    PRIMARY KEY (session_id, sample_id)
);

CREATE INDEX IF NOT EXISTS idx_assignment_player ON assignment(session_id, player_id);

-- Labels, unique per (player, item)
CREATE TABLE IF NOT EXISTS label (
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    player_id TEXT NOT NULL REFERENCES player(id) ON DELETE CASCADE,
    sample_id TEXT NOT NULL,
    label_value TEXT NOT NULL,
    labeled_at TIMESTAMP NOT NULL,
    PRIMARY KEY (player_id, sample_id)
);

CREATE INDEX IF NOT EXISTS idx_label_session ON label(session_id);
`
