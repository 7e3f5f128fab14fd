// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/julianpaulussen/matelda-server/models"
)

// FileStore keeps one JSON document per session and atomically replaces it
// on every mutation (write to a temp file, then rename). A process-wide
// mutex serializes writers; under multiple server processes the SQL
// backend is the safer choice.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// sessionDoc is the full durable snapshot of one session.
type sessionDoc struct {
	Session     models.Session      `json:"session"`
	Players     []models.Player     `json:"players"`
	Pool        []models.Sample     `json:"pool"`
	Assignments []models.Assignment `json:"assignments"`
	Labels      []models.Label      `json:"labels"`
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}

// load reads a session document. A missing file is ErrNotFound; an
// unparsable file is ErrCorrupted, because silently treating the
// authoritative document as empty would lose the whole session.
func (s *FileStore) load(sessionID string) (*sessionDoc, error) {
	raw, err := os.ReadFile(s.path(sessionID))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session document: %w", err)
	}
	var doc sessionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return &doc, nil
}

// save atomically replaces the session document so concurrent readers
// never observe a partial write.
func (s *FileStore) save(doc *sessionDoc) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session document: %w", err)
	}
	raw = append(raw, '\n')

	tmp, err := os.CreateTemp(s.dir, doc.Session.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp document: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp document: %w", err)
	}
	if err := os.Rename(tmpName, s.path(doc.Session.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace session document: %w", err)
	}
	return nil
}

func (s *FileStore) CreateSession(sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(sess.ID)); err == nil {
		return fmt.Errorf("session %s already exists", sess.ID)
	}
	doc := &sessionDoc{
		Session:     sess,
		Players:     []models.Player{},
		Pool:        []models.Sample{},
		Assignments: []models.Assignment{},
		Labels:      []models.Label{},
	}
	return s.save(doc)
}

func (s *FileStore) GetSession(id string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(id)
	if err != nil {
		return models.Session{}, err
	}
	return doc.Session, nil
}

func (s *FileStore) UpdateSessionStatus(id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(id)
	if err != nil {
		return err
	}
	doc.Session.Status = status
	return s.save(doc)
}

func (s *FileStore) CreatePlayer(p models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(p.SessionID)
	if err != nil {
		return err
	}
	for _, existing := range doc.Players {
		if existing.DisplayName == p.DisplayName {
			return ErrNameTaken
		}
	}
	doc.Players = append(doc.Players, p)
	return s.save(doc)
}

func (s *FileStore) GetPlayer(sessionID, playerID string) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(sessionID)
	if err != nil {
		return models.Player{}, err
	}
	for _, p := range doc.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return models.Player{}, ErrNotFound
}

func (s *FileStore) ListPlayers(sessionID string) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	players := make([]models.Player, len(doc.Players))
	copy(players, doc.Players)
	return players, nil
}

func (s *FileStore) UpdatePlayerStatus(sessionID, playerID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(sessionID)
	if err != nil {
		return err
	}
	for i := range doc.Players {
		if doc.Players[i].ID == playerID {
			doc.Players[i].Status = status
			return s.save(doc)
		}
	}
	return ErrNotFound
}

func (s *FileStore) SavePool(sessionID string, samples []models.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(sessionID)
	if err != nil {
		return err
	}
	doc.Pool = make([]models.Sample, len(samples))
	copy(doc.Pool, samples)
	return s.save(doc)
}

func (s *FileStore) GetPool(sessionID string) ([]models.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	pool := make([]models.Sample, len(doc.Pool))
	copy(pool, doc.Pool)
	return pool, nil
}

func (s *FileStore) StartSession(sessionID string, assignments []models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(sessionID)
	if err != nil {
		return err
	}
	if doc.Session.Status != models.StatusLobby {
		return ErrAlreadyStarted
	}
	doc.Session.Status = models.StatusActive
	doc.Assignments = make([]models.Assignment, len(assignments))
	copy(doc.Assignments, assignments)
	for i := range doc.Players {
		if doc.Players[i].Status == models.PlayerJoined {
			doc.Players[i].Status = models.PlayerLabeling
		}
	}
	return s.save(doc)
}

func (s *FileStore) GetAssignmentsForPlayer(sessionID, playerID string) ([]models.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Sample, len(doc.Pool))
	for _, sm := range doc.Pool {
		byID[sm.ID] = sm
	}
	samples := []models.Sample{}
	for _, a := range doc.Assignments {
		if a.PlayerID != playerID {
			continue
		}
		if sm, ok := byID[a.SampleID]; ok {
			samples = append(samples, sm)
		}
	}
	return samples, nil
}

func (s *FileStore) UpsertLabel(l models.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(l.SessionID)
	if err != nil {
		return err
	}
	for i := range doc.Labels {
		if doc.Labels[i].PlayerID == l.PlayerID && doc.Labels[i].SampleID == l.SampleID {
			doc.Labels[i] = l
			return s.save(doc)
		}
	}
	doc.Labels = append(doc.Labels, l)
	return s.save(doc)
}

func (s *FileStore) GetLabels(sessionID string) ([]models.Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	labels := make([]models.Label, len(doc.Labels))
	copy(labels, doc.Labels)
	return labels, nil
}
