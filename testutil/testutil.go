// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danielhkuo/toasty-votes/auth"
	"github.com/danielhkuo/toasty-votes/cliparse"
	"github.com/danielhkuo/toasty-votes/db"
	"github.com/danielhkuo/toasty-votes/models"
)

// TestTokenSecret signs bearer tokens in tests
const TestTokenSecret = "test-token-secret"

// Session states accepted by CreateTestSession
const (
	StateOpen      = "open"
	StateClosed    = "closed"
	StateExpired   = "expired"
	StatePublished = "published"
)

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The file lives in t.TempDir and is removed with it.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "toasty-test.db")
	database, err := db.Open(context.Background(), cliparse.DatabaseSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	if err := db.Migrate(context.Background(), database); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return database
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                3318,
		DatabaseURL:         "toasty-test.db",
		DatabaseType:        cliparse.DatabaseSQLite,
		TokenSecret:         TestTokenSecret,
		SessionTTL:          24 * time.Hour,
		DefaultSessionTitle: "Toastmasters Vote",
		LogLevel:            "error",
		LogFormat:           "text",
		AllowedOrigins:      []string{"*"},
		RateLimitPerMinute:  10000,
	}
}

// CreateTestUser inserts a user and returns the matching authenticated actor
func CreateTestUser(t *testing.T, database *gorm.DB, username string, admin bool) models.Actor {
	t.Helper()

	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	if admin {
		profile := models.AdminProfile{
			ID:              uuid.NewString(),
			UserID:          user.ID,
			IsPlatformAdmin: true,
		}
		if err := database.Create(&profile).Error; err != nil {
			t.Fatalf("Failed to create admin profile: %v", err)
		}
	}

	return models.Actor{
		UserID:          user.ID,
		Username:        user.Username,
		IsPlatformAdmin: admin,
		Authenticated:   true,
	}
}

// CreateTestSession inserts a session owned by ownerID.
// state should be "open", "closed", "expired", or "published".
func CreateTestSession(t *testing.T, database *gorm.DB, ownerID, state string) models.Session {
	t.Helper()

	code, _ := auth.GenerateCode(6)
	now := time.Now().UTC()
	session := models.Session{
		ID:        uuid.NewString(),
		Title:     "Test Meeting",
		Code:      code,
		OwnerID:   ownerID,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
		IsActive:  true,
	}

	switch state {
	case StateClosed:
		session.PollsClosed = true
	case StateExpired:
		session.CreatedAt = now.Add(-48 * time.Hour)
		session.ExpiresAt = now.Add(-24 * time.Hour)
	case StatePublished:
		session.ShowResults = true
	}

	if err := database.Create(&session).Error; err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return session
}

// AddTestCandidate adds a candidate to a session
func AddTestCandidate(t *testing.T, database *gorm.DB, sessionID string, category models.Category, position int, name string) models.Candidate {
	t.Helper()

	candidate := models.Candidate{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Category:  category,
		Position:  position,
		Name:      name,
	}
	if err := database.Create(&candidate).Error; err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return candidate
}

// AddTestVote records a vote for candidate by voterID
func AddTestVote(t *testing.T, database *gorm.DB, voterID string, candidate models.Candidate) {
	t.Helper()

	vote := models.Vote{
		ID:          uuid.NewString(),
		VoterID:     voterID,
		SessionID:   candidate.SessionID,
		CandidateID: candidate.ID,
		Category:    candidate.Category,
		Timestamp:   time.Now().UTC(),
	}
	if err := database.Create(&vote).Error; err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// AuthHeader returns an Authorization header carrying a token for username
func AuthHeader(t *testing.T, username string) map[string]string {
	t.Helper()

	token, err := auth.GenerateUserToken(username, TestTokenSecret)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
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
