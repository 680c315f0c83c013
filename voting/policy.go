// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"fmt"
	"time"

	"github.com/danielhkuo/toasty-votes/models"
)

// Action names a permission checked by Authorize
type Action string

const (
	ActionCreateSession Action = "create_session"
	ActionManageSession Action = "manage_session"
	ActionViewResults   Action = "view_results"
	ActionVote          Action = "vote"
)

// Target is the state an action is checked against
type Target struct {
	Session  *models.Session
	Now      time.Time
	HasVoted bool
}

// Can reports whether actor may perform action on target
func Can(actor models.Actor, action Action, target Target) bool {
	return Authorize(actor, action, target) == nil
}

// Authorize returns nil when actor may perform action on target, otherwise
// an error wrapping ErrForbidden that names the reason.
func Authorize(actor models.Actor, action Action, target Target) error {
	switch action {
	case ActionCreateSession:
		if !actor.Authenticated {
			return ErrNotAuthenticated
		}
		if !actor.IsPlatformAdmin {
			return ErrNotPlatformAdmin
		}
		return nil

	case ActionManageSession:
		if target.Session == nil {
			return ErrSessionNotFound
		}
		if !actor.Authenticated {
			return ErrNotAuthenticated
		}
		if !actor.IsPlatformAdmin {
			return ErrNotPlatformAdmin
		}
		if target.Session.OwnerID != actor.UserID {
			return ErrNotSessionOwner
		}
		return nil

	case ActionViewResults:
		if target.Session == nil {
			return ErrSessionNotFound
		}
		if target.Session.PollsClosed || target.Session.ShowResults || actor.IsPlatformAdmin {
			return nil
		}
		return ErrResultsSealed

	case ActionVote:
		if target.Session == nil {
			return ErrSessionNotFound
		}
		if !actor.Authenticated {
			return ErrNotAuthenticated
		}
		if target.Session.IsExpired(target.Now) {
			return ErrSessionExpired
		}
		if target.HasVoted {
			return ErrAlreadyVoted
		}
		if target.Session.PollsClosed {
			return ErrPollsClosed
		}
		return nil
	}

	return fmt.Errorf("%w: unknown action %q", ErrForbidden, action)
}
