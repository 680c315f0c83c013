// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ToastyVotes API.

# Handler Types

Each handler is a thin struct over the voting service:

  - SessionHandler: categories, session creation, ballot view, owner actions
  - VotingHandler: ballot submission
  - ResultsHandler: gated tallies
  - DashboardHandler: per-actor session history

	sessionHandler := handlers.NewSessionHandler(votingSvc)

The request actor is read from the context populated by
middleware.Authenticate. Handlers never decide permissions themselves.

# Session Lifecycle

	POST /sessions                     → CreateSession (platform admins)
	GET  /sessions/{code}              → Ballot
	POST /sessions/{code}/votes        → CastVotes
	POST /sessions/{code}/close        → ClosePolls (owner)
	POST /sessions/{code}/toggle-results → ToggleResults (owner)
	GET  /sessions/{code}/results      → Results

A ballot for a closed session answers 303 to its results; sealed results
answer 303 back to the ballot. Both carry a Location header and a
"redirect" field in the JSON body.

# Errors

Service errors map onto statuses by kind:

	voting.ErrValidation → 400
	voting.ErrForbidden  → 403
	voting.ErrNotFound   → 404

Anything else is logged and returned as 500.
*/
package handlers
