// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sessions

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/julianpaulussen/matelda-server/models"
)

var (
	// ErrEmptyRoster blocks a start transition with no registered players.
	ErrEmptyRoster = errors.New("session has no players")

	// ErrInsufficientPool blocks a start transition when the pool cannot
	// cover every player's minimum budget.
	ErrInsufficientPool = errors.New("work pool too small for roster")
)

// Assign partitions total items of the pool into per-player batches: the
// pool is shuffled once (a copy; the input order is untouched), then
// consumed contiguously with base = total/n items per player and the first
// total%n players in roster order receiving one extra. Batches are
// pairwise disjoint and together contain exactly total items.
func Assign(players []models.Player, pool []models.Sample, total int) (map[string][]models.Sample, error) {
	n := len(players)
	if n == 0 {
		return nil, ErrEmptyRoster
	}
	if total < 0 {
		return nil, fmt.Errorf("invalid labeling budget %d", total)
	}
	if total > len(pool) {
		return nil, fmt.Errorf("%w: pool has %d items, need %d", ErrInsufficientPool, len(pool), total)
	}

	shuffled := make([]models.Sample, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	base := total / n
	remainder := total % n

	batches := make(map[string][]models.Sample, n)
	idx := 0
	for i, p := range players {
		size := base
		if i < remainder {
			size++
		}
		batch := make([]models.Sample, size)
		copy(batch, shuffled[idx:idx+size])
		batches[p.ID] = batch
		idx += size
	}
	return batches, nil
}
