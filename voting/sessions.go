// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/danielhkuo/toasty-votes/auth"
	"github.com/danielhkuo/toasty-votes/db"
	"github.com/danielhkuo/toasty-votes/events"
	"github.com/danielhkuo/toasty-votes/metrics"
	"github.com/danielhkuo/toasty-votes/models"
)

// CreateSession validates the request, then stores the session and its
// candidates in one transaction. Nothing is persisted on failure.
func (s *Service) CreateSession(ctx context.Context, actor models.Actor, req models.CreateSessionRequest) (session models.Session, categories []models.CategoryCandidates, err error) {
	ctx, span := s.tracer.Start(ctx, "voting.CreateSession")
	defer func() { endSpan(span, err) }()

	if err := Authorize(actor, ActionCreateSession, Target{}); err != nil {
		return models.Session{}, nil, err
	}

	title, err := s.normalizeTitle(req.Title)
	if err != nil {
		return models.Session{}, nil, err
	}

	candidates, err := normalizeCandidates(req.Candidates, nil)
	if err != nil {
		return models.Session{}, nil, err
	}

	now := s.clock.Now()
	session = models.Session{
		ID:        uuid.NewString(),
		Title:     title,
		OwnerID:   actor.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		IsActive:  true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.insertWithCode(tx, &session); err != nil {
			return err
		}
		for i := range candidates {
			candidates[i].ID = uuid.NewString()
			candidates[i].SessionID = session.ID
		}
		if err := tx.Create(&candidates).Error; err != nil {
			return fmt.Errorf("insert candidates: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrValidation) {
			s.logger.Error("failed to create session", "event", "session_create_failed", "owner_id", actor.UserID, "error", err)
		}
		return models.Session{}, nil, err
	}

	span.SetAttributes(attribute.String("session.code", session.Code))
	metrics.SessionsCreatedTotal.Inc()
	s.logger.Info("session created",
		"event", "session_created",
		"session_id", session.ID,
		"code", session.Code,
		"owner_id", actor.UserID,
		"candidates", len(candidates),
	)
	s.publish(ctx, events.SubjectSessionCreated, events.Event{
		SessionID:  session.ID,
		Code:       session.Code,
		ActorID:    actor.UserID,
		OccurredAt: now,
	})

	return session, GroupCandidates(candidates), nil
}

// RegisterCandidates adds candidates to an existing session owned by actor.
// The session must still be open for voting. Positions continue after the
// highest position already used in each category.
func (s *Service) RegisterCandidates(ctx context.Context, actor models.Actor, session models.Session, entries []models.CandidateEntry) ([]models.Candidate, error) {
	if err := Authorize(actor, ActionManageSession, Target{Session: &session}); err != nil {
		return nil, err
	}

	var created []models.Candidate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Session
		if err := tx.Where("id = ?", session.ID).First(&current).Error; err != nil {
			if db.IsNotFound(err) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("load session: %w", err)
		}
		if current.PollsClosed {
			return ErrPollsClosed
		}
		if current.IsExpired(s.clock.Now()) {
			return ErrSessionExpired
		}

		var rows []struct {
			Category models.Category
			MaxPos   int
		}
		if err := tx.Model(&models.Candidate{}).
			Select("category, MAX(position) AS max_pos").
			Where("session_id = ?", session.ID).
			Group("category").
			Scan(&rows).Error; err != nil {
			return fmt.Errorf("load candidate positions: %w", err)
		}

		start := make(map[models.Category]int, len(rows))
		for _, row := range rows {
			start[row.Category] = row.MaxPos
		}

		candidates, err := normalizeCandidates(entries, start)
		if err != nil {
			return err
		}
		for i := range candidates {
			candidates[i].ID = uuid.NewString()
			candidates[i].SessionID = session.ID
		}
		if err := tx.Create(&candidates).Error; err != nil {
			return fmt.Errorf("insert candidates: %w", err)
		}
		created = candidates
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("candidates registered", "event", "candidates_registered", "session_id", session.ID, "count", len(created))
	return created, nil
}

// CandidatesByCategory lists the session's candidates grouped in category order
func (s *Service) CandidatesByCategory(ctx context.Context, sessionID string) ([]models.CategoryCandidates, error) {
	candidates, err := s.loadCandidates(s.db.WithContext(ctx), sessionID)
	if err != nil {
		return nil, err
	}
	return GroupCandidates(candidates), nil
}

// GetByCode finds a session by its share code, ignoring case
func (s *Service) GetByCode(ctx context.Context, code string) (models.Session, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !auth.IsValidCode(code) {
		return models.Session{}, ErrSessionNotFound
	}

	var session models.Session
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&session).Error
	if err != nil {
		if db.IsNotFound(err) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, fmt.Errorf("get session by code: %w", err)
	}
	return session, nil
}

// ClosePolls stops voting on the session. Closing twice is not an error.
func (s *Service) ClosePolls(ctx context.Context, actor models.Actor, session models.Session) (models.Session, error) {
	if err := Authorize(actor, ActionManageSession, Target{Session: &session}); err != nil {
		return models.Session{}, err
	}

	res := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND polls_closed = ?", session.ID, false).
		Update("polls_closed", true)
	if res.Error != nil {
		return models.Session{}, fmt.Errorf("close polls: %w", res.Error)
	}
	session.PollsClosed = true

	if res.RowsAffected > 0 {
		metrics.PollsClosedTotal.Inc()
		s.logger.Info("polls closed", "event", "polls_closed", "session_id", session.ID, "code", session.Code)
		s.publish(ctx, events.SubjectPollsClosed, events.Event{
			SessionID:  session.ID,
			Code:       session.Code,
			ActorID:    actor.UserID,
			OccurredAt: s.clock.Now(),
		})
	}

	return session, nil
}

// ToggleShowResults flips show_results and returns the new value
func (s *Service) ToggleShowResults(ctx context.Context, actor models.Actor, session models.Session) (bool, error) {
	if err := Authorize(actor, ActionManageSession, Target{Session: &session}); err != nil {
		return false, err
	}

	var current models.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Session{}).
			Where("id = ?", session.ID).
			Update("show_results", gorm.Expr("NOT show_results")).Error; err != nil {
			return fmt.Errorf("toggle show_results: %w", err)
		}
		if err := tx.Select("id", "show_results").Where("id = ?", session.ID).First(&current).Error; err != nil {
			if db.IsNotFound(err) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("reload session: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("show results toggled", "event", "results_toggled", "session_id", session.ID, "show_results", current.ShowResults)
	shown := current.ShowResults
	s.publish(ctx, events.SubjectResultsToggled, events.Event{
		SessionID:   session.ID,
		Code:        session.Code,
		ActorID:     actor.UserID,
		ShowResults: &shown,
		OccurredAt:  s.clock.Now(),
	})

	return current.ShowResults, nil
}

// Manage returns the owner's view of a session with vote and voter counts
func (s *Service) Manage(ctx context.Context, actor models.Actor, session models.Session) (models.ManageSessionResponse, error) {
	if err := Authorize(actor, ActionManageSession, Target{Session: &session}); err != nil {
		return models.ManageSessionResponse{}, err
	}

	categories, err := s.CandidatesByCategory(ctx, session.ID)
	if err != nil {
		return models.ManageSessionResponse{}, err
	}

	resp := models.ManageSessionResponse{
		Session:    session,
		Categories: categories,
		Expired:    session.IsExpired(s.clock.Now()),
	}

	tx := s.db.WithContext(ctx)
	if err := tx.Model(&models.Vote{}).Where("session_id = ?", session.ID).Count(&resp.VoteCount).Error; err != nil {
		return models.ManageSessionResponse{}, fmt.Errorf("count votes: %w", err)
	}
	if err := tx.Model(&models.Vote{}).Where("session_id = ?", session.ID).Distinct("voter_id").Count(&resp.VoterCount).Error; err != nil {
		return models.ManageSessionResponse{}, fmt.Errorf("count voters: %w", err)
	}

	return resp, nil
}

// GroupCandidates orders candidates by category then position.
// Categories without candidates are omitted.
func GroupCandidates(candidates []models.Candidate) []models.CategoryCandidates {
	byCategory := make(map[models.Category][]models.Candidate)
	for _, c := range candidates {
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}

	groups := make([]models.CategoryCandidates, 0, len(byCategory))
	for _, info := range models.Categories {
		list := byCategory[info.Key]
		if len(list) == 0 {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].Position < list[j].Position })
		groups = append(groups, models.CategoryCandidates{
			Category:   info.Key,
			Label:      info.BallotLabel,
			Candidates: list,
		})
	}
	return groups
}

func (s *Service) normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSpace(s.defaultTitle)
	}
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// normalizeCandidates trims names, drops blanks, and numbers positions per
// category in order of appearance, starting after start[category].
func normalizeCandidates(entries []models.CandidateEntry, start map[models.Category]int) ([]models.Candidate, error) {
	next := make(map[models.Category]int)
	for c, pos := range start {
		next[c] = pos
	}

	var out []models.Candidate
	for _, e := range entries {
		if !e.Category.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, e.Category)
		}
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		if utf8.RuneCountInString(name) > MaxNameLength {
			return nil, ErrNameTooLong
		}
		next[e.Category]++
		out = append(out, models.Candidate{
			Category: e.Category,
			Position: next[e.Category],
			Name:     name,
		})
	}

	if len(out) == 0 {
		return nil, ErrNoCandidates
	}
	return out, nil
}

// insertWithCode inserts session under a fresh code, retrying on collision.
// Each attempt runs in a savepoint so a rejected insert leaves tx usable.
func (s *Service) insertWithCode(tx *gorm.DB, session *models.Session) error {
	for length := auth.DefaultCodeLength; length <= auth.MaxCodeLength; length++ {
		for attempt := 0; attempt < codeAttemptsPerLength; attempt++ {
			code, err := s.generateCode(length)
			if err != nil {
				return fmt.Errorf("generate session code: %w", err)
			}
			session.Code = code

			err = tx.Transaction(func(sp *gorm.DB) error {
				return sp.Omit("Candidates", "Votes").Create(session).Error
			})
			if err == nil {
				return nil
			}
			if !db.IsUniqueViolation(err) {
				return fmt.Errorf("insert session: %w", err)
			}

			metrics.CodeCollisionsTotal.Inc()
			s.logger.Debug("session code collision", "event", "code_collision", "length", length, "attempt", attempt+1)
		}
	}
	return ErrCodeExhausted
}

func (s *Service) loadCandidates(tx *gorm.DB, sessionID string) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := tx.Where("session_id = ?", sessionID).
		Order("category, position").
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	return candidates, nil
}

func (s *Service) publish(ctx context.Context, subject string, ev events.Event) {
	if err := s.events.Publish(ctx, subject, ev); err != nil {
		s.logger.Warn("failed to publish event", "event", "publish_failed", "subject", subject, "error", err)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
