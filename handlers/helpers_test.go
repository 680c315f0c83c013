// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/danielhkuo/toasty-votes/middleware"
	"github.com/danielhkuo/toasty-votes/models"
	"github.com/danielhkuo/toasty-votes/testutil"
	"github.com/danielhkuo/toasty-votes/voting"
)

type testEnv struct {
	db    *gorm.DB
	svc   *voting.Service
	admin models.Actor
	voter models.Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	return &testEnv{
		db:    db,
		svc:   voting.NewService(db, voting.Options{TTL: cfg.SessionTTL, DefaultTitle: cfg.DefaultSessionTitle}),
		admin: testutil.CreateTestUser(t, db, "admin", true),
		voter: testutil.CreateTestUser(t, db, "voter", false),
	}
}

// meeting is a session with two speakers and one evaluator
type meeting struct {
	session models.Session
	alice   models.Candidate
	bob     models.Candidate
	carol   models.Candidate
}

func (e *testEnv) createMeeting(t *testing.T, state string) meeting {
	t.Helper()

	session := testutil.CreateTestSession(t, e.db, e.admin.UserID, state)
	return meeting{
		session: session,
		alice:   testutil.AddTestCandidate(t, e.db, session.ID, models.CategorySpeaker, 1, "Alice"),
		bob:     testutil.AddTestCandidate(t, e.db, session.ID, models.CategorySpeaker, 2, "Bob"),
		carol:   testutil.AddTestCandidate(t, e.db, session.ID, models.CategoryEvaluator, 1, "Carol"),
	}
}

func (m meeting) selections(speaker models.Candidate) models.CastVotesRequest {
	return models.CastVotesRequest{Selections: map[models.Category]string{
		models.CategorySpeaker:   speaker.ID,
		models.CategoryEvaluator: m.carol.ID,
	}}
}

// asActor attaches actor to the request the way middleware.Authenticate does
func asActor(req *http.Request, actor models.Actor) *http.Request {
	return req.WithContext(middleware.WithActor(req.Context(), actor))
}
