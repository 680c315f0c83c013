// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/toasty-votes/auth"
	"github.com/danielhkuo/toasty-votes/middleware"
	"github.com/danielhkuo/toasty-votes/voting"
)

// writeError maps a service error onto a status code. Sealed results
// redirect to the ballot for code; unexpected errors are logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, code string, err error) {
	switch {
	case errors.Is(err, voting.ErrResultsSealed):
		middleware.RedirectResponse(w, ballotPath(code), "Polls are still open. Results are not available yet.")
	case errors.Is(err, auth.ErrInvalidToken):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid bearer token")
	case errors.Is(err, voting.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, voting.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, voting.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

// pathParam reads a route parameter set by either ServeMux or chi
func pathParam(r *http.Request, name string) string {
	if v := r.PathValue(name); v != "" {
		return v
	}
	return chi.URLParam(r, name)
}

func ballotPath(code string) string {
	return "/sessions/" + code
}

func resultsPath(code string) string {
	return "/sessions/" + code + "/results"
}
