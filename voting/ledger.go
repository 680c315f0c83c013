// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/danielhkuo/toasty-votes/db"
	"github.com/danielhkuo/toasty-votes/events"
	"github.com/danielhkuo/toasty-votes/metrics"
	"github.com/danielhkuo/toasty-votes/models"
)

// CastVotes records one vote per selected category for actor. The whole
// ballot is accepted or rejected as a unit. Returns the number of votes
// recorded.
func (s *Service) CastVotes(ctx context.Context, actor models.Actor, session models.Session, selections map[models.Category]string) (recorded int, err error) {
	ctx, span := s.tracer.Start(ctx, "voting.CastVotes")
	span.SetAttributes(attribute.String("session.code", session.Code))
	defer func() { endSpan(span, err) }()

	now := s.clock.Now()
	var votes []models.Vote

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// re-read flags so a concurrent close is honoured
		var current models.Session
		if err := tx.Where("id = ?", session.ID).First(&current).Error; err != nil {
			if db.IsNotFound(err) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("load session: %w", err)
		}

		voted, err := hasVoted(tx, current.ID, actor.UserID)
		if err != nil {
			return err
		}
		if err := Authorize(actor, ActionVote, Target{Session: &current, Now: now, HasVoted: voted}); err != nil {
			return err
		}

		candidates, err := s.loadCandidates(tx, current.ID)
		if err != nil {
			return err
		}

		votes, err = buildVotes(candidates, selections, actor.UserID, now)
		if err != nil {
			return err
		}

		// the unique indexes catch a ballot that raced past hasVoted
		if err := s.insertVotes(tx, votes); err != nil {
			if db.IsUniqueViolation(err) {
				return ErrDuplicateVote
			}
			return fmt.Errorf("insert votes: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.BallotsRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		if errors.Is(err, ErrValidation) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotFound) {
			s.logger.Info("ballot rejected", "event", "ballot_rejected", "session_id", session.ID, "voter_id", actor.UserID, "reason", err.Error())
		} else {
			s.logger.Error("failed to cast votes", "event", "cast_votes_failed", "session_id", session.ID, "voter_id", actor.UserID, "error", err)
		}
		return 0, err
	}

	for _, v := range votes {
		metrics.VotesCastTotal.WithLabelValues(string(v.Category)).Inc()
	}
	s.logger.Info("votes cast", "event", "votes_cast", "session_id", session.ID, "voter_id", actor.UserID, "votes", len(votes))
	s.publish(ctx, events.SubjectVotesCast, events.Event{
		SessionID:  session.ID,
		Code:       session.Code,
		ActorID:    actor.UserID,
		Votes:      len(votes),
		OccurredAt: now,
	})

	return len(votes), nil
}

// HasVoted reports whether voterID has any vote in the session
func (s *Service) HasVoted(ctx context.Context, sessionID, voterID string) (bool, error) {
	return hasVoted(s.db.WithContext(ctx), sessionID, voterID)
}

func hasVoted(tx *gorm.DB, sessionID, voterID string) (bool, error) {
	if voterID == "" {
		return false, nil
	}
	var n int64
	if err := tx.Model(&models.Vote{}).
		Where("session_id = ? AND voter_id = ?", sessionID, voterID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check existing votes: %w", err)
	}
	return n > 0, nil
}

// buildVotes validates selections against the session's candidates and
// returns one vote per category in display order.
func buildVotes(candidates []models.Candidate, selections map[models.Category]string, voterID string, now time.Time) ([]models.Vote, error) {
	if len(selections) == 0 {
		return nil, ErrEmptySelections
	}

	byID := make(map[string]models.Candidate, len(candidates))
	active := make(map[models.Category]bool)
	for _, c := range candidates {
		byID[c.ID] = c
		active[c.Category] = true
	}

	keys := make([]string, 0, len(selections))
	for c := range selections {
		keys = append(keys, string(c))
	}
	sort.Strings(keys)

	for _, key := range keys {
		category := models.Category(key)
		if !category.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
		}
		if !active[category] {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNotOpen, key)
		}
		c, ok := byID[strings.TrimSpace(selections[category])]
		if !ok || c.Category != category {
			return nil, fmt.Errorf("%w: %s", ErrCandidateMismatch, key)
		}
	}

	votes := make([]models.Vote, 0, len(selections))
	for _, info := range models.Categories {
		if !active[info.Key] {
			continue
		}
		id, ok := selections[info.Key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSelection, info.BallotLabel)
		}
		c := byID[strings.TrimSpace(id)]
		votes = append(votes, models.Vote{
			ID:          uuid.NewString(),
			VoterID:     voterID,
			SessionID:   c.SessionID,
			CandidateID: c.ID,
			Category:    c.Category,
			Timestamp:   now,
		})
	}
	return votes, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyVoted), errors.Is(err, ErrDuplicateVote):
		return "already_voted"
	case errors.Is(err, ErrPollsClosed):
		return "polls_closed"
	case errors.Is(err, ErrSessionExpired):
		return "expired"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
