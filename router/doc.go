// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ToastyVotes API.

# Route Registration

NewRouter builds a chi router with every endpoint, wrapped for tracing:

	handler := router.NewRouter(cfg, votingSvc, identitySvc)

# Middleware

Applied to every route, in order:

  - request ID, real client IP, panic recovery, 60s timeout
  - CORS (CORS_ALLOWED_ORIGINS)
  - per-IP rate limit (RATE_LIMIT_PER_MINUTE, disabled when 0)
  - request logging and duration metrics

Session routes additionally resolve the bearer token into an actor.

# Endpoints

Public:

	GET /health     - Liveness
	GET /metrics    - Prometheus exposition
	GET /categories - Configured categories

Authenticated (anonymous allowed where the operation permits it):

	GET  /dashboard                     - Sessions for the caller
	POST /sessions                      - Create session (platform admins)
	GET  /sessions/{code}               - Ballot
	POST /sessions/{code}/votes         - Cast votes
	GET  /sessions/{code}/results       - Results (303 to ballot while sealed)
	GET  /sessions/{code}/manage        - Owner view
	POST /sessions/{code}/close         - Close polls
	POST /sessions/{code}/toggle-results - Publish or hide results
*/
package router
