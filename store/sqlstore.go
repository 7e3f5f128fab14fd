// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/julianpaulussen/matelda-server/models"
)

// SQLStore is the relational Session Repository. Queries use $1..$n
// placeholders, each exactly once and in ascending order, which both
// lib/pq and modernc sqlite bind positionally.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation matches the unique-constraint error text of both
// supported drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func (s *SQLStore) CreateSession(sess models.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO session (id, status, min_budget, dataset, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sess.ID, sess.Status, sess.MinBudget, sess.Dataset, sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *SQLStore) GetSession(id string) (models.Session, error) {
	var sess models.Session
	err := s.db.QueryRow(`
		SELECT id, status, min_budget, dataset, created_at
		FROM session
		WHERE id = $1
	`, id).Scan(&sess.ID, &sess.Status, &sess.MinBudget, &sess.Dataset, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to query session: %w", err)
	}
	return sess, nil
}

func (s *SQLStore) UpdateSessionStatus(id, status string) error {
	res, err := s.db.Exec(`
		UPDATE session SET status = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) CreatePlayer(p models.Player) error {
	_, err := s.db.Exec(`
		INSERT INTO player (id, session_id, display_name, role, status, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.SessionID, p.DisplayName, p.Role, p.Status, p.JoinedAt)
	if isUniqueViolation(err) {
		return ErrNameTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func (s *SQLStore) GetPlayer(sessionID, playerID string) (models.Player, error) {
	var p models.Player
	err := s.db.QueryRow(`
		SELECT id, session_id, display_name, role, status, joined_at
		FROM player
		WHERE session_id = $1 AND id = $2
	`, sessionID, playerID).Scan(&p.ID, &p.SessionID, &p.DisplayName, &p.Role, &p.Status, &p.JoinedAt)
	if err == sql.ErrNoRows {
		return models.Player{}, ErrNotFound
	}
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to query player: %w", err)
	}
	return p, nil
}

func (s *SQLStore) ListPlayers(sessionID string) ([]models.Player, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, display_name, role, status, joined_at
		FROM player
		WHERE session_id = $1
		ORDER BY joined_at, id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.SessionID, &p.DisplayName, &p.Role, &p.Status, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *SQLStore) UpdatePlayerStatus(sessionID, playerID, status string) error {
	res, err := s.db.Exec(`
		UPDATE player SET status = $1 WHERE session_id = $2 AND id = $3
	`, status, sessionID, playerID)
	if err != nil {
		return fmt.Errorf("failed to update player status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update player status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) SavePool(sessionID string, samples []models.Sample) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Whole-pool replace; the manager only allows this in the lobby.
	if _, err := tx.Exec(`DELETE FROM sample WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to clear pool: %w", err)
	}

	for i, sm := range samples {
		_, err := tx.Exec(`
			INSERT INTO sample (session_id, id, position, dataset, table_id, row_index, col_id, cell_value, domain_fold, cell_fold, cell_fold_label)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, sessionID, sm.ID, i, sm.Dataset, sm.Table, sm.Row, sm.Col, sm.Value, sm.DomainFold, sm.CellFold, sm.CellFoldLabel)
		if err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pool: %w", err)
	}
	return nil
}

func (s *SQLStore) GetPool(sessionID string) ([]models.Sample, error) {
	rows, err := s.db.Query(`
		SELECT id, dataset, table_id, row_index, col_id, cell_value, domain_fold, cell_fold, cell_fold_label
		FROM sample
		WHERE session_id = $1
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pool: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// StartSession is the serialized start transition: the status update is a
// compare-and-set on 'lobby', so exactly one of any number of concurrent
// callers inserts assignments.
func (s *SQLStore) StartSession(sessionID string, assignments []models.Assignment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE session SET status = $1 WHERE id = $2 AND status = $3
	`, models.StatusActive, sessionID, models.StatusLobby)
	if err != nil {
		return fmt.Errorf("failed to activate session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to activate session: %w", err)
	}
	if n == 0 {
		// Distinguish a missing session from a lost race.
		var status string
		err := tx.QueryRow(`SELECT status FROM session WHERE id = $1`, sessionID).Scan(&status)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to query session status: %w", err)
		}
		return ErrAlreadyStarted
	}

	for _, a := range assignments {
		_, err := tx.Exec(`
			INSERT INTO assignment (session_id, player_id, sample_id, position, assigned_at)
			VALUES ($1, $2, $3, $4, $5)
		`, a.SessionID, a.PlayerID, a.SampleID, a.Position, a.AssignedAt)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	_, err = tx.Exec(`
		UPDATE player SET status = $1 WHERE session_id = $2 AND status = $3
	`, models.PlayerLabeling, sessionID, models.PlayerJoined)
	if err != nil {
		return fmt.Errorf("failed to update roster status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit start transition: %w", err)
	}
	return nil
}

func (s *SQLStore) GetAssignmentsForPlayer(sessionID, playerID string) ([]models.Sample, error) {
	rows, err := s.db.Query(`
		SELECT sm.id, sm.dataset, sm.table_id, sm.row_index, sm.col_id, sm.cell_value, sm.domain_fold, sm.cell_fold, sm.cell_fold_label
		FROM assignment a
		JOIN sample sm ON sm.session_id = a.session_id AND sm.id = a.sample_id
		WHERE a.session_id = $1 AND a.player_id = $2
		ORDER BY a.position
	`, sessionID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

func (s *SQLStore) UpsertLabel(l models.Label) error {
	_, err := s.db.Exec(`
		INSERT INTO label (session_id, player_id, sample_id, label_value, labeled_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id, sample_id)
		DO UPDATE SET label_value = excluded.label_value, labeled_at = excluded.labeled_at
	`, l.SessionID, l.PlayerID, l.SampleID, l.Value, l.LabeledAt)
	if err != nil {
		return fmt.Errorf("failed to upsert label: %w", err)
	}
	return nil
}

func (s *SQLStore) GetLabels(sessionID string) ([]models.Label, error) {
	rows, err := s.db.Query(`
		SELECT session_id, player_id, sample_id, label_value, labeled_at
		FROM label
		WHERE session_id = $1
		ORDER BY labeled_at, sample_id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer rows.Close()

	labels := []models.Label{}
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.SessionID, &l.PlayerID, &l.SampleID, &l.Value, &l.LabeledAt); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func scanSamples(rows *sql.Rows) ([]models.Sample, error) {
	samples := []models.Sample{}
	for rows.Next() {
		var sm models.Sample
		var domainFold, cellFold, cellFoldLabel sql.NullString
		err := rows.Scan(&sm.ID, &sm.Dataset, &sm.Table, &sm.Row, &sm.Col, &sm.Value,
			&domainFold, &cellFold, &cellFoldLabel)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		sm.DomainFold = domainFold.String
		sm.CellFold = cellFold.String
		sm.CellFoldLabel = cellFoldLabel.String
		samples = append(samples, sm)
	}
	return samples, rows.Err()
}
