// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mkisa/guildvote/auth"
	"github.com/mkisa/guildvote/cliparse"
	"github.com/mkisa/guildvote/db"
	"github.com/mkisa/guildvote/models"
)

// SetupTestDB opens a throwaway sqlite database with the full schema.
// Each test gets its own file under t.TempDir, so tests never share state
// and cleanup rides on the test framework.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", "file:"+t.TempDir()+"/guildvote-test.db")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: "sqlite",
		Timeout:      5 * time.Second,
		StaffKeySalt: "test-staff-salt",
		AuditSalt:    "test-audit-salt",
	}
}

// StaffKey derives the access key a staff role would hold under the test
// configuration.
func StaffKey(role string) string {
	return auth.GenerateStaffKey(role, GetTestConfig().StaffKeySalt)
}

// CreateTestVoter puts a voter on the roll and returns the voter ID.
// status should be one of the roll statuses (ELIGIBLE, VERIFIED, VOTED, BLOCKED).
func CreateTestVoter(t *testing.T, conn *sql.DB, regNo, status string) string {
	t.Helper()

	voterID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO voter (id, reg_no, name, email, program, status)
		VALUES ($1, $2, 'Test Voter', 'voter@test.example', 'BSc CS', $3)
	`, voterID, regNo, status)
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voterID
}

// CreateTestPosition creates a contested position and returns its ID.
func CreateTestPosition(t *testing.T, conn *sql.DB, name string) string {
	t.Helper()

	positionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO position (id, name, seats, semester)
		VALUES ($1, $2, 1, $3)
	`, positionID, name, models.SemesterTrinity)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return positionID
}

// CreateTestCandidate files a candidate for a position and returns the
// candidate ID.
func CreateTestCandidate(t *testing.T, conn *sql.DB, positionID, name, status string) string {
	t.Helper()

	candidateID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO candidate (id, position_id, name, reg_no, status, created_at)
		VALUES ($1, $2, $3, 'M24B00/000', $4, $5)
	`, candidateID, positionID, name, status, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// CreateTestSession issues a session token for a voter, bypassing the
// verify endpoints.
func CreateTestSession(t *testing.T, conn *sql.DB, voterID string) string {
	t.Helper()

	token, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("Failed to generate session token: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO voter_session (token, voter_id, issued_at)
		VALUES ($1, $2, $3)
	`, token, voterID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return token
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
