// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/toasty-votes/middleware"
	"github.com/danielhkuo/toasty-votes/models"
	"github.com/danielhkuo/toasty-votes/voting"
)

type VotingHandler struct {
	svc *voting.Service
}

func NewVotingHandler(svc *voting.Service) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// CastVotes handles POST /sessions/{code}/votes
// Body: {"selections": {"SPEAKER": "<candidate_id>", ...}}
func (h *VotingHandler) CastVotes(w http.ResponseWriter, r *http.Request) {
	session, ok := loadSession(h.svc, w, r)
	if !ok {
		return
	}

	var req models.CastVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	n, err := h.svc.CastVotes(r.Context(), middleware.ActorFrom(r.Context()), session, req.Selections)
	if err != nil {
		writeError(w, r, session.Code, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVotesResponse{
		VotesRecorded: n,
		Message:       "Your votes have been recorded!",
	})
}
