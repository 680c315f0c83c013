// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/danielhkuo/toasty-votes/models"
)

// open sessions read per page while looking for one that has not expired
const activeScanPage = 50

// Dashboard lists the actor's sessions and the latest session still open for
// voting. Admins see sessions they own; voters see sessions they voted in.
func (s *Service) Dashboard(ctx context.Context, actor models.Actor) (models.DashboardResponse, error) {
	if !actor.Authenticated {
		return models.DashboardResponse{}, ErrNotAuthenticated
	}

	tx := s.db.WithContext(ctx)
	now := s.clock.Now()

	resp := models.DashboardResponse{
		Actor:    actor,
		IsAdmin:  actor.IsPlatformAdmin,
		Sessions: []models.Session{},
	}

	latest, err := s.latestActiveSession(tx, now)
	if err != nil {
		return models.DashboardResponse{}, err
	}
	resp.LatestActiveSession = latest

	if resp.LatestActiveSession != nil {
		voted, err := hasVoted(tx, resp.LatestActiveSession.ID, actor.UserID)
		if err != nil {
			return models.DashboardResponse{}, err
		}
		resp.HasVotedInActive = voted
	}

	query := tx.Order("created_at DESC")
	if actor.IsPlatformAdmin {
		query = query.Where("owner_id = ?", actor.UserID)
	} else {
		voted := tx.Model(&models.Vote{}).Select("DISTINCT session_id").Where("voter_id = ?", actor.UserID)
		query = query.Where("id IN (?)", voted)
	}
	if err := query.Find(&resp.Sessions).Error; err != nil {
		return models.DashboardResponse{}, fmt.Errorf("load dashboard sessions: %w", err)
	}

	return resp, nil
}

// latestActiveSession pages through open sessions newest first and returns
// the first that has not expired, or nil. Expiry is filtered here rather
// than in SQL so SQLite and PostgreSQL compare timestamps the same way.
func (s *Service) latestActiveSession(tx *gorm.DB, now time.Time) (*models.Session, error) {
	for offset := 0; ; offset += activeScanPage {
		var page []models.Session
		if err := tx.Where("is_active = ? AND polls_closed = ?", true, false).
			Order("created_at DESC").
			Order("id").
			Offset(offset).
			Limit(activeScanPage).
			Find(&page).Error; err != nil {
			return nil, fmt.Errorf("load open sessions: %w", err)
		}
		for i := range page {
			if !page[i].IsExpired(now) {
				return &page[i], nil
			}
		}
		if len(page) < activeScanPage {
			return nil, nil
		}
	}
}
