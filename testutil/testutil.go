// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gatednet/server/auth"
	"github.com/gatednet/server/cliparse"
	"github.com/gatednet/server/db"
)

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The database is removed with the test's temp dir.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := GetTestConfig()
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "gatednet.db")

	conn, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseType:    cliparse.DatabaseSQLite,
		AdminKeySalt:    "test-admin-salt",
		MemberTokenSalt: "test-member-salt",
		SweepInterval:   time.Minute,
	}
}

// CreateTestMember inserts a resident and returns its ID and member token
func CreateTestMember(t *testing.T, conn *sql.DB, cfg cliparse.Config, name, unit string) (memberID, token string) {
	t.Helper()

	memberID = auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO member (id, name, unit, created_at)
		VALUES ($1, $2, $3, $4)
	`, memberID, name, unit, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}

	return memberID, auth.GenerateMemberToken(memberID, cfg.MemberTokenSalt)
}

// CreateTestPoll creates a poll with the given option labels and returns its
// ID and admin key. status should be "open" or "closed".
func CreateTestPoll(t *testing.T, conn *sql.DB, cfg cliparse.Config, status string, labels ...string) (pollID, adminKey string) {
	t.Helper()

	pollID = auth.NewID()
	adminKey = auth.GenerateAdminKey(pollID, cfg.AdminKeySalt)

	now := time.Now().UTC()
	var closedAt *time.Time
	if status == "closed" {
		closedAt = &now
	}

	_, err := conn.Exec(`
		INSERT INTO poll (id, title, description, status, closed_at, created_at)
		VALUES ($1, 'Test Poll', 'A test poll', $2, $3, $4)
	`, pollID, status, closedAt, now)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for i, label := range labels {
		_, err := conn.Exec(`
			INSERT INTO poll_option (poll_id, option_index, label, vote_count)
			VALUES ($1, $2, $3, 0)
		`, pollID, i, label)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
	}

	return pollID, adminKey
}

// SetPollEndsAt overrides a poll's end date
func SetPollEndsAt(t *testing.T, conn *sql.DB, pollID string, endsAt time.Time) {
	t.Helper()

	if _, err := conn.Exec(`UPDATE poll SET ends_at = $1 WHERE id = $2`, endsAt.UTC(), pollID); err != nil {
		t.Fatalf("Failed to set ends_at: %v", err)
	}
}

// OptionCounts returns vote_count per option, ordered by index
func OptionCounts(t *testing.T, conn *sql.DB, pollID string) []int {
	t.Helper()

	rows, err := conn.Query(`
		SELECT vote_count FROM poll_option WHERE poll_id = $1 ORDER BY option_index
	`, pollID)
	if err != nil {
		t.Fatalf("Failed to query option counts: %v", err)
	}
	defer rows.Close()

	var counts []int
	for rows.Next() {
		var c int
		if err := rows.Scan(&c); err != nil {
			t.Fatalf("Failed to scan option count: %v", err)
		}
		counts = append(counts, c)
	}
	return counts
}

// MemberHeaders returns the auth headers for a member
func MemberHeaders(memberID, token string) map[string]string {
	return map[string]string{
		"X-Member-ID":    memberID,
		"X-Member-Token": token,
	}
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
