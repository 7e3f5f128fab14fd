// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sessions

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianpaulussen/matelda-server/identity"
	"github.com/julianpaulussen/matelda-server/models"
	"github.com/julianpaulussen/matelda-server/store"
)

// ErrHostTaken signals a second host registration on a session.
var ErrHostTaken = errors.New("session already has a host")

// Code-allocation and name-allocation retry bounds. Collisions past the
// first attempt are already rare; the bound just keeps a broken random
// source from looping forever.
const (
	maxCodeAttempts = 5
	maxJoinAttempts = 5
)

// Manager owns the session lifecycle. It is stateless: every operation is
// a short function over the repository, so independent request handlers
// (one per browser tab) can share nothing but the store.
type Manager struct {
	store store.Store
}

func NewManager(st store.Store) *Manager {
	return &Manager{store: st}
}

// CreateSession allocates a fresh collision-checked session code and
// persists the session in the lobby state.
func (m *Manager) CreateSession(minBudget int, dataset string) (models.Session, error) {
	if minBudget < 1 {
		return models.Session{}, fmt.Errorf("min_budget must be at least 1, got %d", minBudget)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := identity.GenerateSessionCode()
		if err != nil {
			return models.Session{}, err
		}
		if _, err := m.store.GetSession(code); err == nil {
			continue // code in use, draw again
		} else if !errors.Is(err, store.ErrNotFound) {
			return models.Session{}, err
		}

		sess := models.Session{
			ID:        code,
			Status:    models.StatusLobby,
			MinBudget: minBudget,
			Dataset:   dataset,
			CreatedAt: time.Now(),
		}
		if err := m.store.CreateSession(sess); err != nil {
			return models.Session{}, err
		}
		return sess, nil
	}
	return models.Session{}, errors.New("failed to allocate a unique session code")
}

// Join registers a new player with a session-unique display name. Roles:
// at most one host per session. Joining is only possible while the session
// is in the lobby; assignment is one-shot, so a late joiner could never
// receive work.
func (m *Manager) Join(sessionID, role string) (models.Player, error) {
	if role == "" {
		role = models.RolePlayer
	}
	if role != models.RoleHost && role != models.RolePlayer {
		return models.Player{}, fmt.Errorf("unknown role %q", role)
	}

	sess, err := m.store.GetSession(sessionID)
	if err != nil {
		return models.Player{}, err
	}
	if sess.Status != models.StatusLobby {
		return models.Player{}, store.ErrAlreadyStarted
	}

	for attempt := 0; attempt < maxJoinAttempts; attempt++ {
		players, err := m.store.ListPlayers(sessionID)
		if err != nil {
			return models.Player{}, err
		}
		existing := make(map[string]bool, len(players))
		for _, p := range players {
			existing[p.DisplayName] = true
			if role == models.RoleHost && p.Role == models.RoleHost {
				return models.Player{}, ErrHostTaken
			}
		}

		player := models.Player{
			ID:          uuid.NewString(),
			SessionID:   sessionID,
			DisplayName: identity.GenerateUniqueName(existing),
			Role:        role,
			Status:      models.PlayerJoined,
			JoinedAt:    time.Now(),
		}
		err = m.store.CreatePlayer(player)
		if errors.Is(err, store.ErrNameTaken) {
			continue // lost the name race, draw again
		}
		if err != nil {
			return models.Player{}, err
		}
		return player, nil
	}
	return models.Player{}, errors.New("failed to allocate a unique display name")
}

// SeedPool stores the host-supplied ordered work-item pool. Lobby only;
// the pool is immutable once assignment has happened. Samples without an
// id get a generated one.
func (m *Manager) SeedPool(sessionID string, samples []models.Sample) (int, error) {
	sess, err := m.store.GetSession(sessionID)
	if err != nil {
		return 0, err
	}
	if sess.Status != models.StatusLobby {
		return 0, store.ErrAlreadyStarted
	}

	for i := range samples {
		if samples[i].ID == "" {
			id, err := identity.GenerateID(8)
			if err != nil {
				return 0, err
			}
			samples[i].ID = id
		}
	}
	if err := m.store.SavePool(sessionID, samples); err != nil {
		return 0, err
	}
	return len(samples), nil
}

// Pool returns the session's work-item pool in seeding order.
func (m *Manager) Pool(sessionID string) ([]models.Sample, error) {
	if _, err := m.store.GetSession(sessionID); err != nil {
		return nil, err
	}
	return m.store.GetPool(sessionID)
}

// Start performs the start transition: it partitions the pool across the
// roster and atomically activates the session. Calling Start on an
// already-active (or completed) session is an idempotent no-op that
// returns the current assignment summary without reshuffling.
func (m *Manager) Start(sessionID string) (models.StartSessionResponse, error) {
	sess, err := m.store.GetSession(sessionID)
	if err != nil {
		return models.StartSessionResponse{}, err
	}
	if sess.Status != models.StatusLobby {
		return m.startSummary(sessionID, sess.Status)
	}

	players, err := m.store.ListPlayers(sessionID)
	if err != nil {
		return models.StartSessionResponse{}, err
	}
	if len(players) == 0 {
		return models.StartSessionResponse{}, ErrEmptyRoster
	}

	pool, err := m.store.GetPool(sessionID)
	if err != nil {
		return models.StartSessionResponse{}, err
	}

	total := sess.MinBudget * len(players)
	batches, err := Assign(players, pool, total)
	if err != nil {
		return models.StartSessionResponse{}, err
	}

	now := time.Now()
	assignments := make([]models.Assignment, 0, total)
	for _, p := range players {
		for i, sm := range batches[p.ID] {
			assignments = append(assignments, models.Assignment{
				SessionID:  sessionID,
				PlayerID:   p.ID,
				SampleID:   sm.ID,
				Position:   i,
				AssignedAt: now,
			})
		}
	}

	err = m.store.StartSession(sessionID, assignments)
	if errors.Is(err, store.ErrAlreadyStarted) {
		// Lost a concurrent start; report the winner's assignment state.
		return m.startSummary(sessionID, models.StatusActive)
	}
	if err != nil {
		return models.StartSessionResponse{}, err
	}
	return m.startSummary(sessionID, models.StatusActive)
}

// startSummary reads back per-player assignment counts from the store, so
// repeated starts report identical state.
func (m *Manager) startSummary(sessionID, status string) (models.StartSessionResponse, error) {
	players, err := m.store.ListPlayers(sessionID)
	if err != nil {
		return models.StartSessionResponse{}, err
	}
	resp := models.StartSessionResponse{
		Status:      status,
		Assignments: []models.PlayerAssignment{},
	}
	for _, p := range players {
		batch, err := m.store.GetAssignmentsForPlayer(sessionID, p.ID)
		if err != nil {
			return models.StartSessionResponse{}, err
		}
		resp.Assignments = append(resp.Assignments, models.PlayerAssignment{
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			Assigned:    len(batch),
		})
	}
	return resp, nil
}

// Complete transitions the session to completed. Host-triggered, no
// preconditions beyond existence.
func (m *Manager) Complete(sessionID string) error {
	if _, err := m.store.GetSession(sessionID); err != nil {
		return err
	}
	return m.store.UpdateSessionStatus(sessionID, models.StatusCompleted)
}

// NextBatch returns the samples assigned to one player in assignment
// order. Before the start transition the batch is empty.
func (m *Manager) NextBatch(sessionID, playerID string) ([]models.Sample, error) {
	if _, err := m.store.GetPlayer(sessionID, playerID); err != nil {
		return nil, err
	}
	return m.store.GetAssignmentsForPlayer(sessionID, playerID)
}

// SubmitLabels upserts a batch of labels for one player and recomputes the
// player's derived completion status. Labels for items outside the
// player's assignment set are accepted and stored; completion is judged on
// coverage of the assigned set only.
func (m *Manager) SubmitLabels(sessionID, playerID string, entries []models.LabelEntry) (int, error) {
	player, err := m.store.GetPlayer(sessionID, playerID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	saved := 0
	for _, e := range entries {
		if e.SampleID == "" {
			continue
		}
		err := m.store.UpsertLabel(models.Label{
			SessionID: sessionID,
			PlayerID:  playerID,
			SampleID:  e.SampleID,
			Value:     e.Value,
			LabeledAt: now,
		})
		if err != nil {
			return saved, err
		}
		saved++
	}

	if err := m.refreshPlayerStatus(sessionID, player); err != nil {
		return saved, err
	}
	return saved, nil
}

// refreshPlayerStatus derives done from label coverage of the assigned
// set. The status is never written independently of the counts, and done
// is never reverted.
func (m *Manager) refreshPlayerStatus(sessionID string, player models.Player) error {
	if player.Status == models.PlayerDone {
		return nil
	}
	assigned, err := m.store.GetAssignmentsForPlayer(sessionID, player.ID)
	if err != nil {
		return err
	}
	if len(assigned) == 0 {
		return nil
	}
	labels, err := m.store.GetLabels(sessionID)
	if err != nil {
		return err
	}
	labeled := make(map[string]bool)
	for _, l := range labels {
		if l.PlayerID == player.ID {
			labeled[l.SampleID] = true
		}
	}
	for _, sm := range assigned {
		if !labeled[sm.ID] {
			return nil
		}
	}
	return m.store.UpdatePlayerStatus(sessionID, player.ID, models.PlayerDone)
}

// State returns the session plus its roster for display.
func (m *Manager) State(sessionID string) (models.SessionStateResponse, error) {
	sess, err := m.store.GetSession(sessionID)
	if err != nil {
		return models.SessionStateResponse{}, err
	}
	players, err := m.store.ListPlayers(sessionID)
	if err != nil {
		return models.SessionStateResponse{}, err
	}
	resp := models.SessionStateResponse{
		SessionID: sess.ID,
		Status:    sess.Status,
		MinBudget: sess.MinBudget,
		Dataset:   sess.Dataset,
		Players:   []models.PlayerInfo{},
	}
	for _, p := range players {
		resp.Players = append(resp.Players, models.PlayerInfo{
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			Role:        p.Role,
			Status:      p.Status,
		})
	}
	return resp, nil
}
