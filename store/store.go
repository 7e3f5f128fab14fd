// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/julianpaulussen/matelda-server/cliparse"
	"github.com/julianpaulussen/matelda-server/models"
)

var (
	// ErrNotFound signals that a session or player id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrNameTaken signals a display name collision within a session.
	ErrNameTaken = errors.New("display name already taken")

	// ErrAlreadyStarted signals a start transition on a non-lobby session.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrCorrupted signals an unreadable authoritative session document.
	ErrCorrupted = errors.New("session document corrupted")
)

// Store is the session repository. All durable session state lives behind
// this interface; callers never cache authoritative state in memory.
type Store interface {
	CreateSession(s models.Session) error
	GetSession(id string) (models.Session, error)
	UpdateSessionStatus(id, status string) error

	// CreatePlayer atomically checks display-name uniqueness within the
	// session and inserts, returning ErrNameTaken on collision.
	CreatePlayer(p models.Player) error
	GetPlayer(sessionID, playerID string) (models.Player, error)
	ListPlayers(sessionID string) ([]models.Player, error)
	UpdatePlayerStatus(sessionID, playerID, status string) error

	SavePool(sessionID string, samples []models.Sample) error
	GetPool(sessionID string) ([]models.Sample, error)

	// StartSession performs the one-shot start transition atomically:
	// compare-and-set lobby->active, insert the assignments, and move
	// joined players to labeling. Returns ErrAlreadyStarted if the session
	// is no longer in the lobby, with no partial writes.
	StartSession(sessionID string, assignments []models.Assignment) error
	GetAssignmentsForPlayer(sessionID, playerID string) ([]models.Sample, error)

	// UpsertLabel is idempotent per (player, item): resubmission overwrites
	// the value and timestamp, never duplicates.
	UpsertLabel(l models.Label) error
	GetLabels(sessionID string) ([]models.Label, error)

	Close() error
}

// Open selects and initializes the configured backend.
func Open(cfg cliparse.Config) (Store, error) {
	switch cfg.StoreBackend {
	case "file":
		return NewFileStore(cfg.StoreDir)
	case "sqlite":
		dsn := "file:" + cfg.DatabaseURL + "?_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)"
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// sqlite allows a single writer; let database/sql queue instead of
		// surfacing SQLITE_BUSY to handlers.
		db.SetMaxOpenConns(1)
		return openSQL(db)
	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return openSQL(db)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func openSQL(db *sql.DB) (Store, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return NewSQLStore(db), nil
}
