// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sessions

import (
	"github.com/julianpaulussen/matelda-server/models"
)

// Progress reports the roster with per-player status plus the roster-wide
// all_done flag. all_done requires at least one host, at least one
// non-host player, and every non-host player done: label propagation must
// not run on an empty or host-only roster.
func (m *Manager) Progress(sessionID string) (models.ProgressResponse, error) {
	sess, err := m.store.GetSession(sessionID)
	if err != nil {
		return models.ProgressResponse{}, err
	}
	players, err := m.store.ListPlayers(sessionID)
	if err != nil {
		return models.ProgressResponse{}, err
	}

	resp := models.ProgressResponse{
		Players: []models.PlayerInfo{},
		Status:  sess.Status,
	}
	hostCount := 0
	nonHostCount := 0
	nonHostDone := 0
	for _, p := range players {
		resp.Players = append(resp.Players, models.PlayerInfo{
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			Role:        p.Role,
			Status:      p.Status,
		})
		if p.Role == models.RoleHost {
			hostCount++
			continue
		}
		nonHostCount++
		if p.Status == models.PlayerDone {
			nonHostDone++
		}
	}
	resp.AllDone = hostCount > 0 && nonHostCount > 0 && nonHostDone == nonHostCount
	return resp, nil
}

// MergedLabels produces the hand-off artifact for label propagation: one
// row per pool item in pool order, carrying the most recently timestamped
// label across all players, or a null value if nobody labeled the item.
func (m *Manager) MergedLabels(sessionID string) ([]models.MergedLabel, error) {
	if _, err := m.store.GetSession(sessionID); err != nil {
		return nil, err
	}
	pool, err := m.store.GetPool(sessionID)
	if err != nil {
		return nil, err
	}
	labels, err := m.store.GetLabels(sessionID)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]models.Label, len(labels))
	for _, l := range labels {
		cur, ok := latest[l.SampleID]
		if !ok || l.LabeledAt.After(cur.LabeledAt) || l.LabeledAt.Equal(cur.LabeledAt) {
			latest[l.SampleID] = l
		}
	}

	merged := make([]models.MergedLabel, 0, len(pool))
	for _, sm := range pool {
		row := models.MergedLabel{Item: sm, Value: nil}
		if l, ok := latest[sm.ID]; ok {
			value := l.Value
			labeledAt := l.LabeledAt
			row.Value = &value
			row.PlayerID = l.PlayerID
			row.LabeledAt = &labeledAt
		}
		merged = append(merged, row)
	}
	return merged, nil
}
