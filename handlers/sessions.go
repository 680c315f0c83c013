// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/toasty-votes/middleware"
	"github.com/danielhkuo/toasty-votes/models"
	"github.com/danielhkuo/toasty-votes/voting"
)

type SessionHandler struct {
	svc *voting.Service
}

func NewSessionHandler(svc *voting.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Categories handles GET /categories
func (h *SessionHandler) Categories(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.Categories)
}

// CreateSession handles POST /sessions
// Creates the session and its candidates (platform admins only)
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	actor := middleware.ActorFrom(r.Context())
	session, categories, err := h.svc.CreateSession(r.Context(), actor, req)
	if err != nil {
		writeError(w, r, "", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		Session:    session,
		Categories: categories,
		SharePath:  ballotPath(session.Code),
	})
}

// Ballot handles GET /sessions/{code}
// Returns the session and its candidates, or redirects to results once polls close
func (h *SessionHandler) Ballot(w http.ResponseWriter, r *http.Request) {
	session, ok := loadSession(h.svc, w, r)
	if !ok {
		return
	}

	if session.IsExpired(h.svc.Now()) {
		middleware.ErrorResponse(w, http.StatusForbidden, "This voting session has expired.")
		return
	}
	if session.PollsClosed {
		middleware.RedirectResponse(w, resultsPath(session.Code), "Polls are closed.")
		return
	}

	categories, err := h.svc.CandidatesByCategory(r.Context(), session.ID)
	if err != nil {
		writeError(w, r, session.Code, err)
		return
	}

	actor := middleware.ActorFrom(r.Context())
	hasVoted, err := h.svc.HasVoted(r.Context(), session.ID, actor.UserID)
	if err != nil {
		writeError(w, r, session.Code, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotResponse{
		Session:    session,
		Categories: categories,
		HasVoted:   hasVoted,
	})
}

// Manage handles GET /sessions/{code}/manage
func (h *SessionHandler) Manage(w http.ResponseWriter, r *http.Request) {
	session, ok := loadSession(h.svc, w, r)
	if !ok {
		return
	}

	resp, err := h.svc.Manage(r.Context(), middleware.ActorFrom(r.Context()), session)
	if err != nil {
		writeError(w, r, session.Code, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// ClosePolls handles POST /sessions/{code}/close
func (h *SessionHandler) ClosePolls(w http.ResponseWriter, r *http.Request) {
	session, ok := loadSession(h.svc, w, r)
	if !ok {
		return
	}

	if _, err := h.svc.ClosePolls(r.Context(), middleware.ActorFrom(r.Context()), session); err != nil {
		writeError(w, r, session.Code, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ClosePollsResponse{Success: true})
}

// ToggleResults handles POST /sessions/{code}/toggle-results
func (h *SessionHandler) ToggleResults(w http.ResponseWriter, r *http.Request) {
	session, ok := loadSession(h.svc, w, r)
	if !ok {
		return
	}

	shown, err := h.svc.ToggleShowResults(r.Context(), middleware.ActorFrom(r.Context()), session)
	if err != nil {
		writeError(w, r, session.Code, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ToggleResultsResponse{ShowResults: shown})
}

// loadSession resolves the {code} path parameter, writing the error response on failure
func loadSession(svc *voting.Service, w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	code := pathParam(r, "code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code is required")
		return models.Session{}, false
	}

	session, err := svc.GetByCode(r.Context(), code)
	if err != nil {
		writeError(w, r, code, err)
		return models.Session{}, false
	}
	return session, true
}
