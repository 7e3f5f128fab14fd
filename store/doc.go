// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the Session Repository: durable, crash-tolerant storage
for sessions, rosters, work-item pools, assignments, and labels.

# Backends

Two interchangeable backends implement the Store interface:

  - SQLStore: five relational tables (session, player, sample, assignment,
    label) on postgres (lib/pq) or sqlite (modernc.org/sqlite). Queries use
    $1..$n placeholders, each exactly once and in ascending order, so one
    query set serves both drivers.
  - FileStore: one JSON document per session, atomically replaced via
    write-to-temp-then-rename. Writers are serialized by an in-process
    mutex; for multi-process deployments use the SQL backend.

Open selects the backend from configuration:

	st, err := store.Open(cfg)

# Guarantees

  - CreatePlayer checks display-name uniqueness within the session and
    inserts atomically (UNIQUE constraint / mutex), returning ErrNameTaken.
  - StartSession is the one-shot start transition: a compare-and-set from
    lobby to active plus the assignment insert and the joined->labeling
    roster flip, all-or-nothing. Concurrent losers get ErrAlreadyStarted.
  - UpsertLabel is idempotent per (player, item); resubmission overwrites.
  - Missing sessions and players surface ErrNotFound, never a default.
  - An unparsable session document surfaces ErrCorrupted rather than being
    treated as empty state.

# Errors

	ErrNotFound       - unknown session or player id
	ErrNameTaken      - display name collision within a session
	ErrAlreadyStarted - start transition on a non-lobby session
	ErrCorrupted      - unreadable authoritative session document
*/
package store
