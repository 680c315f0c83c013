// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/toasty-votes/middleware"
	"github.com/danielhkuo/toasty-votes/voting"
)

type DashboardHandler struct {
	svc *voting.Service
}

func NewDashboardHandler(svc *voting.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Dashboard handles GET /dashboard
// Admins get the sessions they own, voters the sessions they voted in
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Dashboard(r.Context(), middleware.ActorFrom(r.Context()))
	if err != nil {
		writeError(w, r, "", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
