// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/julianpaulussen/matelda-server/cliparse"
	"github.com/julianpaulussen/matelda-server/identity"
	"github.com/julianpaulussen/matelda-server/models"
	"github.com/julianpaulussen/matelda-server/store"
)

// SetupTestStore creates a fresh sqlite-backed store in a per-test temp
// directory. The single connection serializes writers the same way the
// production sqlite backend does.
func SetupTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "matelda_test.db") +
		"?_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := store.CreateSchema(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	st := store.NewSQLStore(db)
	t.Cleanup(func() { st.Close() })
	return st
}

// SetupFileStore creates a file-backed store in a per-test temp directory.
func SetupFileStore(t *testing.T) *store.FileStore {
	t.Helper()

	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3525,
		StoreBackend: "sqlite",
		BaseURL:      "http://localhost:3525",
	}
}

// CreateTestSession creates a session directly in the store and returns it.
// status should be "lobby", "active", or "completed".
func CreateTestSession(t *testing.T, st store.Store, status string, minBudget int) models.Session {
	t.Helper()

	code, err := identity.GenerateSessionCode()
	if err != nil {
		t.Fatalf("Failed to generate session code: %v", err)
	}
	sess := models.Session{
		ID:        code,
		Status:    status,
		MinBudget: minBudget,
		Dataset:   "test-dataset",
		CreatedAt: time.Now(),
	}
	if err := st.CreateSession(sess); err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return sess
}

// AddTestPlayer registers a player with a fixed display name.
func AddTestPlayer(t *testing.T, st store.Store, sessionID, role, name string) models.Player {
	t.Helper()

	status := models.PlayerJoined
	p := models.Player{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		DisplayName: name,
		Role:        role,
		Status:      status,
		JoinedAt:    time.Now(),
	}
	if err := st.CreatePlayer(p); err != nil {
		t.Fatalf("Failed to create test player: %v", err)
	}
	return p
}

// SeedTestPool stores n generated samples and returns them in order.
func SeedTestPool(t *testing.T, st store.Store, sessionID string, n int) []models.Sample {
	t.Helper()

	samples := make([]models.Sample, n)
	for i := range samples {
		samples[i] = models.Sample{
			ID:      fmt.Sprintf("sample-%03d", i),
			Dataset: "test-dataset",
			Table:   "patients",
			Row:     i,
			Col:     "age",
			Value:   fmt.Sprintf("%d", 20+i),
		}
	}
	if err := st.SavePool(sessionID, samples); err != nil {
		t.Fatalf("Failed to seed test pool: %v", err)
	}
	return samples
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
