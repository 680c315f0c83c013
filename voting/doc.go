// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements voting sessions, the vote ledger, the tally, and
the access policy.

# Sessions

A platform admin creates a session with its candidates in one call:

	session, categories, err := svc.CreateSession(ctx, actor, models.CreateSessionRequest{
		Title: "Club Meeting",
		Candidates: []models.CandidateEntry{
			{Category: models.CategorySpeaker, Name: "Alice"},
			{Category: models.CategoryEvaluator, Name: "Carol"},
		},
	})

Names are trimmed and blank entries dropped before positions are numbered
per category from 1. The session gets a random code over [a-z0-9]; on
collision the insert is retried, widening the code after five attempts at a
length, up to ten characters.

Sessions expire TTL after creation (24h by default). Only the owner can close
polls or toggle show_results; both take effect immediately.

# Ledger

CastVotes takes one candidate per active category (a category with at least
one candidate) and records them atomically. A voter votes once per session:

	n, err := svc.CastVotes(ctx, actor, session, map[models.Category]string{
		models.CategorySpeaker:   aliceID,
		models.CategoryEvaluator: carolID,
	})

The pre-check runs inside the transaction and the vote table's unique
indexes on (voter, session, candidate) and (voter, session, category) reject
anything that slips past it.

# Results

Tally lists every candidate with its count, most votes first, and reports
every name tied at the top as a winner. A category with no votes has no
winners. Results returns the tally only when polls are closed, show_results
is on, or the actor is a platform admin; otherwise ErrResultsSealed.

# Errors

Every returned error wraps one of ErrValidation, ErrForbidden, or
ErrNotFound. Anything else is an internal failure.
*/
package voting
