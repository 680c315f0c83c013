// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	r.Use(middleware.WithLogging)

Logs completion with method, path, status, request id, and duration_ms, and
records the duration in the toasty_http_request_duration_seconds histogram.

# Authentication

Authenticate resolves "Authorization: Bearer <token>" into a models.Actor
once per request:

	r.Use(middleware.Authenticate(identityService))

	actor := middleware.ActorFrom(r.Context())

No header means the anonymous actor. A token that fails verification is
rejected with 401 before the handler runs.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.RedirectResponse(w, "/sessions/ab12/results", "polls are closed")

Parse JSON request bodies:

	var req models.CastVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
