// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers_test

import (
	"net/http"
	"sync"
	"testing"

	"github.com/julianpaulussen/matelda-server/models"
	"github.com/julianpaulussen/matelda-server/testutil"
)

// Simultaneous start requests from several browser tabs must agree on a
// single shuffle: every response reports the same per-player counts and the
// store holds exactly budget x roster assignments.
func TestConcurrentStart(t *testing.T) {
	mux, st := setupServer(t)
	sid := createSession(t, mux, 2)
	joinSession(t, mux, sid, models.RoleHost)
	alice := joinSession(t, mux, sid, "")
	bob := joinSession(t, mux, sid, "")
	seedPool(t, mux, sid, 20)

	const workers = 10
	results := make([]models.StartSessionResponse, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := do(mux, testutil.MakeRequest("POST", "/sessions/"+sid+"/start", nil, nil))
			if w.Code != http.StatusOK {
				t.Errorf("Worker %d: expected 200, got %d (%s)", i, w.Code, w.Body.String())
				return
			}
			testutil.AssertJSON(t, w, &results[i])
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r.Status != models.StatusActive {
			t.Errorf("Worker %d: expected active, got %q", i, r.Status)
		}
		total := 0
		for _, a := range r.Assignments {
			total += a.Assigned
		}
		if total != 6 {
			t.Errorf("Worker %d: expected 6 assigned items, got %d", i, total)
		}
	}

	// The store holds one batch per player, not one per start attempt.
	for _, p := range []models.JoinSessionResponse{alice, bob} {
		batch, err := st.GetAssignmentsForPlayer(sid, p.PlayerID)
		if err != nil {
			t.Fatalf("GetAssignmentsForPlayer failed: %v", err)
		}
		if len(batch) != 2 {
			t.Errorf("Player %s: expected 2 assigned items, got %d", p.DisplayName, len(batch))
		}
	}
}

// Concurrent joins must each receive a distinct identity.
func TestConcurrentJoins(t *testing.T) {
	mux, _ := setupServer(t)
	sid := createSession(t, mux, 1)

	const workers = 20
	results := make([]models.JoinSessionResponse, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := do(mux, testutil.MakeRequest("POST", "/sessions/"+sid+"/players", nil, nil))
			if w.Code != http.StatusCreated {
				t.Errorf("Worker %d: expected 201, got %d (%s)", i, w.Code, w.Body.String())
				return
			}
			testutil.AssertJSON(t, w, &results[i])
		}(i)
	}
	wg.Wait()

	names := map[string]bool{}
	ids := map[string]bool{}
	for i, r := range results {
		if r.PlayerID == "" {
			continue // join failed, already reported
		}
		if ids[r.PlayerID] {
			t.Errorf("Worker %d: duplicate player id %s", i, r.PlayerID)
		}
		if names[r.DisplayName] {
			t.Errorf("Worker %d: duplicate display name %s", i, r.DisplayName)
		}
		ids[r.PlayerID] = true
		names[r.DisplayName] = true
	}

	w := do(mux, testutil.MakeRequest("GET", "/sessions/"+sid, nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var state models.SessionStateResponse
	testutil.AssertJSON(t, w, &state)
	if len(state.Players) != workers {
		t.Errorf("Expected roster of %d, got %d", workers, len(state.Players))
	}
}

// Concurrent resubmissions of the same (player, item) label stay one row.
func TestConcurrentLabelUpserts(t *testing.T) {
	mux, st := setupServer(t)
	sid := createSession(t, mux, 1)
	joinSession(t, mux, sid, models.RoleHost)
	p := joinSession(t, mux, sid, "")
	seedPool(t, mux, sid, 4)

	w := do(mux, testutil.MakeRequest("POST", "/sessions/"+sid+"/start", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	batch, err := st.GetAssignmentsForPlayer(sid, p.PlayerID)
	if err != nil || len(batch) == 0 {
		t.Fatalf("Failed to fetch batch: %v", err)
	}
	target := batch[0].ID

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entries := []models.LabelEntry{{SampleID: target, Value: "correct"}}
			w := do(mux, testutil.MakeRequest("POST",
				"/sessions/"+sid+"/players/"+p.PlayerID+"/labels", entries, nil))
			if w.Code != http.StatusOK {
				t.Errorf("Worker %d: expected 200, got %d (%s)", i, w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	labels, err := st.GetLabels(sid)
	if err != nil {
		t.Fatalf("GetLabels failed: %v", err)
	}
	count := 0
	for _, l := range labels {
		if l.PlayerID == p.PlayerID && l.SampleID == target {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one label row for the pair, got %d", count)
	}
}
