// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julianpaulussen/matelda-server/models"
	"github.com/julianpaulussen/matelda-server/router"
	"github.com/julianpaulussen/matelda-server/sessions"
	"github.com/julianpaulussen/matelda-server/store"
	"github.com/julianpaulussen/matelda-server/testutil"
)

func setupServer(t *testing.T) (*http.ServeMux, store.Store) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	mgr := sessions.NewManager(st)
	return router.NewRouter(mgr, testutil.GetTestConfig()), st
}

func do(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, mux *http.ServeMux, minBudget int) string {
	t.Helper()
	w := do(mux, testutil.MakeRequest("POST", "/sessions",
		models.CreateSessionRequest{MinBudget: minBudget, Dataset: "beers"}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.CreateSessionResponse
	testutil.AssertJSON(t, w, &resp)
	return resp.SessionID
}

func joinSession(t *testing.T, mux *http.ServeMux, sessionID, role string) models.JoinSessionResponse {
	t.Helper()
	var body interface{}
	if role != "" {
		body = models.JoinSessionRequest{Role: role}
	}
	w := do(mux, testutil.MakeRequest("POST", "/sessions/"+sessionID+"/players", body, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.JoinSessionResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func seedPool(t *testing.T, mux *http.ServeMux, sessionID string, n int) {
	t.Helper()
	samples := make([]models.Sample, n)
	for i := range samples {
		samples[i] = models.Sample{
			ID:      fmt.Sprintf("cell-%03d", i),
			Dataset: "beers",
			Table:   "beers",
			Row:     i,
			Col:     "abv",
			Value:   "5.0",
		}
	}
	w := do(mux, testutil.MakeRequest("POST", "/sessions/"+sessionID+"/pool", samples, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestCreateSessionEndpoint(t *testing.T) {
	mux, _ := setupServer(t)

	w := do(mux, testutil.MakeRequest("POST", "/sessions",
		models.CreateSessionRequest{MinBudget: 3, Dataset: "beers"}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateSessionResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.SessionID) != 6 {
		t.Errorf("Expected 6-character session code, got %q", resp.SessionID)
	}
	if !strings.HasSuffix(resp.JoinURL, "/join/"+resp.SessionID) {
		t.Errorf("Unexpected join URL %q", resp.JoinURL)
	}
}

func TestCreateSessionRejectsBadBudget(t *testing.T) {
	mux, _ := setupServer(t)

	w := do(mux, testutil.MakeRequest("POST", "/sessions",
		models.CreateSessionRequest{MinBudget: 0}, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetSessionNotFound(t *testing.T) {
	mux, _ := setupServer(t)

	w := do(mux, testutil.MakeRequest("GET", "/sessions/NOSUCH", nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestLabelingFlow(t *testing.T) {
	mux, _ := setupServer(t)

	sid := createSession(t, mux, 2)
	host := joinSession(t, mux, sid, models.RoleHost)
	alice := joinSession(t, mux, sid, "")
	bob := joinSession(t, mux, sid, "")
	if host.DisplayName == alice.DisplayName || alice.DisplayName == bob.DisplayName {
		t.Errorf("Display names collide: %q %q %q", host.DisplayName, alice.DisplayName, bob.DisplayName)
	}

	seedPool(t, mux, sid, 10)

	// Pool round-trips in order.
	w := do(mux, testutil.MakeRequest("GET", "/sessions/"+sid+"/pool", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var pool models.PoolResponse
	testutil.AssertJSON(t, w, &pool)
	if len(pool.Samples) != 10 || pool.Samples[0].ID != "cell-000" {
		t.Fatalf("Unexpected pool: %d samples", len(pool.Samples))
	}

	// Start: 2 x 3 players = 6 assigned.
	w = do(mux, testutil.MakeRequest("POST", "/sessions/"+sid+"/start", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var started models.StartSessionResponse
	testutil.AssertJSON(t, w, &started)
	if started.Status != models.StatusActive {
		t.Errorf("Expected active, got %q", started.Status)
	}
	total := 0
	for _, a := range started.Assignments {
		total += a.Assigned
	}
	if total != 6 {
		t.Errorf("Expected 6 assigned items, got %d", total)
	}

	// Each player labels their batch.
	for _, p := range []models.JoinSessionResponse{alice, bob} {
		w = do(mux, testutil.MakeRequest("GET",
			"/sessions/"+sid+"/players/"+p.PlayerID+"/next-batch", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		var batch models.BatchResponse
		testutil.AssertJSON(t, w, &batch)
		if len(batch.Items) != 2 {
			t.Fatalf("Expected batch of 2 for %s, got %d", p.DisplayName, len(batch.Items))
		}

		entries := make([]models.LabelEntry, len(batch.Items))
		for i, sm := range batch.Items {
			entries[i] = models.LabelEntry{SampleID: sm.ID, Value: "correct"}
		}
		w = do(mux, testutil.MakeRequest("POST",
			"/sessions/"+sid+"/players/"+p.PlayerID+"/labels", entries, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		var saved models.SavedResponse
		testutil.AssertJSON(t, w, &saved)
		if saved.Saved != 2 {
			t.Errorf("Expected 2 saved labels, got %d", saved.Saved)
		}
	}

	// Both non-host players done.
	w = do(mux, testutil.MakeRequest("GET", "/sessions/"+sid+"/progress", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var progress models.ProgressResponse
	testutil.AssertJSON(t, w, &progress)
	if !progress.AllDone {
		t.Errorf("Expected all_done after both players finished: %+v", progress.Players)
	}

	// Merged labels cover the whole pool.
	w = do(mux, testutil.MakeRequest("GET", "/sessions/"+sid+"/labels", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var merged models.MergedLabelsResponse
	testutil.AssertJSON(t, w, &merged)
	if len(merged.Labels) != 10 {
		t.Errorf("Expected 10 merged rows, got %d", len(merged.Labels))
	}
	labeled := 0
	for _, row := range merged.Labels {
		if row.Value != nil {
			labeled++
		}
	}
	if labeled < 4 {
		t.Errorf("Expected at least 4 labeled rows, got %d", labeled)
	}

	// Host advances to propagation.
	w = do(mux, testutil.MakeRequest("POST", "/sessions/"+sid+"/next", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var completed models.CompleteSessionResponse
	testutil.AssertJSON(t, w, &completed)
	if completed.Status != models.StatusCompleted {
		t.Errorf("Expected completed, got %q", completed.Status)
	}
}

func TestStartWithoutPlayers(t *testing.T) {
	mux, _ := setupServer(t)
	sid := createSession(t, mux, 1)

	w := do(mux, testutil.MakeRequest("POST", "/sessions/"+sid+"/start", nil, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestStartWithSmallPool(t *testing.T) {
	mux, _ := setupServer(t)
	sid := createSession(t, mux, 5)
	joinSession(t, mux, sid, models.RoleHost)
	joinSession(t, mux, sid, "")
	seedPool(t, mux, sid, 3)

	w := do(mux, testutil.MakeRequest("POST", "/sessions/"+sid+"/start", nil, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestJoinAfterStartConflicts(t *testing.T) {
	mux, _ := setupServer(t)
	sid := createSession(t, mux, 1)
	joinSession(t, mux, sid, models.RoleHost)
	seedPool(t, mux, sid, 2)

	w := do(mux, testutil.MakeRequest("POST", "/sessions/"+sid+"/start", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = do(mux, testutil.MakeRequest("POST", "/sessions/"+sid+"/players", nil, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	w = do(mux, testutil.MakeRequest("POST", "/sessions/"+sid+"/pool",
		[]models.Sample{{ID: "late"}}, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestSecondHostConflicts(t *testing.T) {
	mux, _ := setupServer(t)
	sid := createSession(t, mux, 1)
	joinSession(t, mux, sid, models.RoleHost)

	w := do(mux, testutil.MakeRequest("POST", "/sessions/"+sid+"/players",
		models.JoinSessionRequest{Role: models.RoleHost}, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestEmptyBodiesRejected(t *testing.T) {
	mux, _ := setupServer(t)
	sid := createSession(t, mux, 1)
	p := joinSession(t, mux, sid, "")

	w := do(mux, testutil.MakeRequest("POST", "/sessions/"+sid+"/pool",
		[]models.Sample{}, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = do(mux, testutil.MakeRequest("POST",
		"/sessions/"+sid+"/players/"+p.PlayerID+"/labels", []models.LabelEntry{}, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestLabelsForUnknownPlayer(t *testing.T) {
	mux, _ := setupServer(t)
	sid := createSession(t, mux, 1)

	w := do(mux, testutil.MakeRequest("POST",
		"/sessions/"+sid+"/players/ghost/labels",
		[]models.LabelEntry{{SampleID: "x", Value: "correct"}}, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
