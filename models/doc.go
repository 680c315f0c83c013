// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines persisted, request, response, and domain types.

# Persisted Types

The gorm tags on these types are the schema (see package db):

  - User: username-keyed identity
  - AdminProfile: one-to-one platform admin flag
  - Session: one voting event, looked up by its public code
  - Candidate: a named participant in one category of a session
  - Vote: one voter's choice within one category of a session

Unique indexes:

	session.code
	candidate (session_id, category, position)
	vote (voter_id, session_id, candidate_id)
	vote (voter_id, session_id, category)

# Categories

Categories are a closed set with a fixed display order:

	CategorySpeaker     = "SPEAKER"
	CategoryEvaluator   = "EVALUATOR"
	CategoryTableTopics = "TABLE_TOPICS"

Iterate Categories for ordering; a category only appears in ballots and
results when the session has candidates registered under it.

# Request Types

  - CreateSessionRequest: title, candidates [(category, name)]
  - CastVotesRequest: selections (map[Category]candidate_id)

# Response Types

  - CreateSessionResponse, BallotResponse, ManageSessionResponse
  - CastVotesResponse: votes_recorded
  - ClosePollsResponse: {"success": true}
  - ToggleResultsResponse: {"show_results": bool}
  - ResultsResponse: per-category tallies and winners
  - DashboardResponse
  - ErrorResponse: error, message, redirect
*/
package models
