// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package sessions is the multiplayer coordination core: session lifecycle,
player admission, work assignment, label collection, and result merging.

# Lifecycle

Sessions progress through three states, one-directional:

	lobby -> active -> completed

The Manager is stateless; every operation is a short function over the
store.Store repository. Concurrency correctness is a property of the
storage layer (the start transition and display-name admission are
serialized there), not of in-process locks.

	mgr := sessions.NewManager(st)
	sess, err := mgr.CreateSession(2, "hospital")
	host, err := mgr.Join(sess.ID, models.RoleHost)
	player, err := mgr.Join(sess.ID, models.RolePlayer)
	n, err := mgr.SeedPool(sess.ID, samples)
	result, err := mgr.Start(sess.ID)

# Assignment

Start requires a non-empty roster and a pool of at least
min_budget x players items, then partitions the pool with Assign: one
shuffle, contiguous even split with remainder. Per-player batches are
pairwise disjoint and an item is never assigned twice. The transition is
one-shot; repeated Start calls return the stored assignment state
unchanged.

# Labels

SubmitLabels upserts per (player, item) with last-write-wins timestamps.
A player's done status is derived from label coverage of their assigned
batch and never reverted. Progress reports the roster and the all_done
flag; MergedLabels emits one row per pool item with the latest label
across all players (or null), the input to downstream label propagation.
*/
package sessions
