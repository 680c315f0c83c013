// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/toasty-votes/auth"
	"github.com/danielhkuo/toasty-votes/models"
)

func TestWithLogging_PreservesResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"OK", http.StatusOK, "ok"},
		{"Created", http.StatusCreated, `{"votes_recorded":3}`},
		{"SeeOther", http.StatusSeeOther, ""},
		{"NotFound", http.StatusNotFound, "not found"},
		{"InternalError", http.StatusInternalServerError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := WithLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			}))

			req := httptest.NewRequest("POST", "/sessions", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body '%s', got '%s'", tc.body, w.Body.String())
			}
		})
	}
}

func TestWithLogging_ImplicitOK(t *testing.T) {
	handler := WithLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("implicit"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestJSONResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		data       interface{}
		expected   string
	}{
		{
			name:       "close polls",
			statusCode: http.StatusOK,
			data:       models.ClosePollsResponse{Success: true},
			expected:   `{"success":true}`,
		},
		{
			name:       "toggle results",
			statusCode: http.StatusOK,
			data:       models.ToggleResultsResponse{ShowResults: false},
			expected:   `{"show_results":false}`,
		},
		{
			name:       "error response",
			statusCode: http.StatusBadRequest,
			data:       models.ErrorResponse{Error: "Bad Request", Message: "missing field"},
			expected:   `{"error":"Bad Request","message":"missing field"}`,
		},
		{
			name:       "array data",
			statusCode: http.StatusOK,
			data:       []string{"a", "b", "c"},
			expected:   `["a","b","c"]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSONResponse(w, tc.statusCode, tc.data)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
			}

			// Encode adds a trailing newline
			body := strings.TrimSpace(w.Body.String())
			if body != tc.expected {
				t.Errorf("Expected body '%s', got '%s'", tc.expected, body)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		statusCode    int
		message       string
		expectedError string
	}{
		{http.StatusBadRequest, "title is required", "Bad Request"},
		{http.StatusUnauthorized, "Invalid bearer token", "Unauthorized"},
		{http.StatusForbidden, "polls are closed", "Forbidden"},
		{http.StatusNotFound, "session not found", "Not Found"},
		{http.StatusInternalServerError, "database error", "Internal Server Error"},
	}

	for _, tc := range testCases {
		t.Run(tc.expectedError, func(t *testing.T) {
			w := httptest.NewRecorder()

			ErrorResponse(w, tc.statusCode, tc.message)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error != tc.expectedError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectedError, resp.Error)
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
			if resp.Redirect != "" {
				t.Errorf("Expected no redirect, got '%s'", resp.Redirect)
			}
		})
	}
}

func TestRedirectResponse(t *testing.T) {
	w := httptest.NewRecorder()

	RedirectResponse(w, "/sessions/ab12/results", "polls are closed")

	if w.Code != http.StatusSeeOther {
		t.Errorf("Expected status 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/sessions/ab12/results" {
		t.Errorf("Expected Location header, got '%s'", loc)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Redirect != "/sessions/ab12/results" {
		t.Errorf("Expected redirect field, got '%s'", resp.Redirect)
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("valid JSON", func(t *testing.T) {
		body := `{"title":"Club Meeting","candidates":[{"category":"SPEAKER","name":"Alice"}]}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.CreateSessionRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Title != "Club Meeting" {
			t.Errorf("Expected title 'Club Meeting', got '%s'", parsed.Title)
		}
		if len(parsed.Candidates) != 1 || parsed.Candidates[0].Category != models.CategorySpeaker {
			t.Errorf("Unexpected candidates: %+v", parsed.Candidates)
		}
	})

	t.Run("selections map", func(t *testing.T) {
		body := `{"selections":{"SPEAKER":"c1","EVALUATOR":"c2"}}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.CastVotesRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Selections[models.CategoryEvaluator] != "c2" {
			t.Errorf("Unexpected selections: %v", parsed.Selections)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{invalid json}`))

		var parsed models.CreateSessionRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))

		var parsed models.CreateSessionRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for empty body")
		}
	})
}

func TestBearerToken(t *testing.T) {
	testCases := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer alice.sig", "alice.sig"},
		{"bearer alice.sig", "alice.sig"},
		{"Bearer   alice.sig  ", "alice.sig"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := BearerToken(req); got != tc.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

type stubResolver struct {
	actor models.Actor
	err   error
	token string
}

func (s *stubResolver) Resolve(_ context.Context, token string) (models.Actor, error) {
	s.token = token
	return s.actor, s.err
}

func TestAuthenticate(t *testing.T) {
	alice := models.Actor{UserID: "u1", Username: "alice", Authenticated: true}

	testCases := []struct {
		name       string
		resolver   *stubResolver
		header     string
		wantStatus int
		wantActor  models.Actor
	}{
		{"anonymous", &stubResolver{}, "", http.StatusOK, models.Actor{}},
		{"valid token", &stubResolver{actor: alice}, "Bearer alice.sig", http.StatusOK, alice},
		{"invalid token", &stubResolver{err: auth.ErrInvalidToken}, "Bearer alice.bad", http.StatusUnauthorized, models.Actor{}},
		{"store failure", &stubResolver{err: errors.New("disk on fire")}, "Bearer alice.sig", http.StatusInternalServerError, models.Actor{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var seen models.Actor
			called := false
			handler := Authenticate(tc.resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				seen = ActorFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/dashboard", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
			if tc.wantStatus != http.StatusOK {
				if called {
					t.Error("Expected handler not to be called")
				}
				return
			}
			if seen != tc.wantActor {
				t.Errorf("Actor = %+v, want %+v", seen, tc.wantActor)
			}
		})
	}
}

func TestActorFromEmptyContext(t *testing.T) {
	if actor := ActorFrom(context.Background()); actor.Authenticated {
		t.Error("Expected anonymous actor")
	}
}
