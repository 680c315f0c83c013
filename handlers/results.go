// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/toasty-votes/middleware"
	"github.com/danielhkuo/toasty-votes/voting"
)

type ResultsHandler struct {
	svc *voting.Service
}

func NewResultsHandler(svc *voting.Service) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// Results handles GET /sessions/{code}/results
// Sealed results redirect back to the ballot with 303
func (h *ResultsHandler) Results(w http.ResponseWriter, r *http.Request) {
	session, ok := loadSession(h.svc, w, r)
	if !ok {
		return
	}

	resp, err := h.svc.Results(r.Context(), middleware.ActorFrom(r.Context()), session)
	if err != nil {
		writeError(w, r, session.Code, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
