// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/toasty-votes/models"
	"github.com/danielhkuo/toasty-votes/testutil"
)

// TestFullVotingWorkflow walks a meeting from creation to published results:
// 1. Admin creates the session with candidates
// 2. Voters load the ballot and vote
// 3. Results stay sealed for voters while polls are open
// 4. Admin closes polls
// 5. Ballot redirects to results and everyone sees the winners
func TestFullVotingWorkflow(t *testing.T) {
	env := newTestEnv(t)
	sessions := NewSessionHandler(env.svc)
	votes := NewVotingHandler(env.svc)
	results := NewResultsHandler(env.svc)

	// Step 1: create the session
	createReq := models.CreateSessionRequest{
		Title: "Integration Meeting",
		Candidates: []models.CandidateEntry{
			{Category: models.CategorySpeaker, Name: "Alice"},
			{Category: models.CategorySpeaker, Name: "Bob"},
			{Category: models.CategoryEvaluator, Name: "Carol"},
			{Category: models.CategoryEvaluator, Name: "Dan"},
		},
	}
	w := httptest.NewRecorder()
	sessions.CreateSession(w, asActor(testutil.MakeRequest("POST", "/sessions", createReq, nil), env.admin))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create session failed: %d - %s", w.Code, w.Body.String())
	}

	var created models.CreateSessionResponse
	testutil.AssertJSON(t, w, &created)
	code := created.Session.Code
	t.Logf("Step 1 - Created session: %s", code)

	// Step 2: voters read the ballot and vote
	second := testutil.CreateTestUser(t, env.db, "second-voter", false)
	third := testutil.CreateTestUser(t, env.db, "third-voter", false)

	req := asActor(testutil.MakeRequest("GET", "/sessions/"+code, nil, nil), env.voter)
	req.SetPathValue("code", code)
	w = httptest.NewRecorder()
	sessions.Ballot(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 2 - Ballot failed: %d - %s", w.Code, w.Body.String())
	}

	var ballot models.BallotResponse
	testutil.AssertJSON(t, w, &ballot)
	ids := make(map[string]string)
	for _, group := range ballot.Categories {
		for _, c := range group.Candidates {
			ids[c.Name] = c.ID
		}
	}

	ballots := []struct {
		actor     models.Actor
		speaker   string
		evaluator string
	}{
		{env.voter, "Alice", "Carol"},
		{second, "Alice", "Dan"},
		{third, "Bob", "Carol"},
	}
	for _, b := range ballots {
		body := models.CastVotesRequest{Selections: map[models.Category]string{
			models.CategorySpeaker:   ids[b.speaker],
			models.CategoryEvaluator: ids[b.evaluator],
		}}
		w = httptest.NewRecorder()
		votes.CastVotes(w, castRequest(code, body, b.actor))
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Vote by %s failed: %d - %s", b.actor.Username, w.Code, w.Body.String())
		}
	}

	// Step 3: sealed for voters
	w = getResults(results, code, env.voter)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("Step 3 - Expected sealed results, got %d", w.Code)
	}

	// Step 4: close polls
	req = asActor(testutil.MakeRequest("POST", "/sessions/"+code+"/close", nil, nil), env.admin)
	req.SetPathValue("code", code)
	w = httptest.NewRecorder()
	sessions.ClosePolls(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - Close failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 5: ballot redirects, results are public
	req = asActor(testutil.MakeRequest("GET", "/sessions/"+code, nil, nil), third)
	req.SetPathValue("code", code)
	w = httptest.NewRecorder()
	sessions.Ballot(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("Step 5 - Expected redirect to results, got %d", w.Code)
	}

	w = getResults(results, code, env.voter)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Results failed: %d - %s", w.Code, w.Body.String())
	}

	var final models.ResultsResponse
	testutil.AssertJSON(t, w, &final)
	if len(final.Results) != 2 {
		t.Fatalf("Step 5 - Expected 2 categories, got %d", len(final.Results))
	}

	speaker := final.Results[0]
	if speaker.TotalVotes != 3 || len(speaker.Winners) != 1 || speaker.Winners[0] != "Alice" {
		t.Errorf("Step 5 - Unexpected speaker result: %+v", speaker)
	}
	if speaker.Tallies[0].Name != "Alice" || speaker.Tallies[0].Votes != 2 {
		t.Errorf("Step 5 - Expected Alice first with 2 votes, got %+v", speaker.Tallies[0])
	}

	evaluator := final.Results[1]
	if len(evaluator.Winners) != 1 || evaluator.Winners[0] != "Carol" {
		t.Errorf("Step 5 - Unexpected evaluator winners: %v", evaluator.Winners)
	}

	// late ballots are refused
	fourth := testutil.CreateTestUser(t, env.db, "late-voter", false)
	body := models.CastVotesRequest{Selections: map[models.Category]string{
		models.CategorySpeaker:   ids["Bob"],
		models.CategoryEvaluator: ids["Dan"],
	}}
	w = httptest.NewRecorder()
	votes.CastVotes(w, castRequest(code, body, fourth))
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected late ballot to be refused, got %d", w.Code)
	}
}
