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

func getResults(handler *ResultsHandler, code string, actor models.Actor) *httptest.ResponseRecorder {
	req := asActor(testutil.MakeRequest("GET", "/sessions/"+code+"/results", nil, nil), actor)
	req.SetPathValue("code", code)
	w := httptest.NewRecorder()
	handler.Results(w, req)
	return w
}

func TestResultsSealedRedirectsToBallot(t *testing.T) {
	env := newTestEnv(t)
	handler := NewResultsHandler(env.svc)
	m := env.createMeeting(t, testutil.StateOpen)

	for _, actor := range []models.Actor{env.voter, {}} {
		w := getResults(handler, m.session.Code, actor)
		testutil.AssertStatus(t, w, http.StatusSeeOther)
		if loc := w.Header().Get("Location"); loc != "/sessions/"+m.session.Code {
			t.Errorf("Expected Location /sessions/%s, got %s", m.session.Code, loc)
		}

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Redirect != "/sessions/"+m.session.Code {
			t.Errorf("Expected redirect field, got %+v", resp)
		}
	}
}

func TestResultsAdminSeesOpenSession(t *testing.T) {
	env := newTestEnv(t)
	handler := NewResultsHandler(env.svc)
	m := env.createMeeting(t, testutil.StateOpen)

	testutil.AddTestVote(t, env.db, env.voter.UserID, m.alice)

	w := getResults(handler, m.session.Code, env.admin)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.IsAdmin {
		t.Error("Expected is_admin true")
	}
	if len(resp.Results) != 2 {
		t.Fatalf("Expected 2 category results, got %d", len(resp.Results))
	}
	speaker := resp.Results[0]
	if speaker.TotalVotes != 1 || len(speaker.Winners) != 1 || speaker.Winners[0] != "Alice" {
		t.Errorf("Unexpected speaker result: %+v", speaker)
	}
	evaluator := resp.Results[1]
	if evaluator.TotalVotes != 0 || len(evaluator.Winners) != 0 {
		t.Errorf("Expected no evaluator winner, got %+v", evaluator)
	}
}

func TestResultsVisibleWhenClosedOrPublished(t *testing.T) {
	env := newTestEnv(t)
	handler := NewResultsHandler(env.svc)

	for _, state := range []string{testutil.StateClosed, testutil.StatePublished} {
		t.Run(state, func(t *testing.T) {
			m := env.createMeeting(t, state)
			testutil.AddTestVote(t, env.db, env.voter.UserID, m.bob)
			testutil.AddTestVote(t, env.db, env.voter.UserID, m.carol)

			w := getResults(handler, m.session.Code, models.Actor{})
			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.ResultsResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.IsAdmin {
				t.Error("Expected is_admin false for anonymous viewer")
			}
			if got := resp.Results[0].Winners; len(got) != 1 || got[0] != "Bob" {
				t.Errorf("Expected Bob to win speaker, got %v", got)
			}
			if got := resp.Results[1].Winners; len(got) != 1 || got[0] != "Carol" {
				t.Errorf("Expected Carol to win evaluator, got %v", got)
			}
		})
	}
}
