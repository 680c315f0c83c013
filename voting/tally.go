// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"fmt"
	"sort"

	"github.com/danielhkuo/toasty-votes/models"
)

// Results returns the tally for actor, or ErrResultsSealed when the session
// has not been published to them yet.
func (s *Service) Results(ctx context.Context, actor models.Actor, session models.Session) (models.ResultsResponse, error) {
	if err := Authorize(actor, ActionViewResults, Target{Session: &session, Now: s.clock.Now()}); err != nil {
		return models.ResultsResponse{}, err
	}

	results, err := s.ComputeResults(ctx, session.ID)
	if err != nil {
		return models.ResultsResponse{}, err
	}

	return models.ResultsResponse{
		Session: session,
		Results: results,
		IsAdmin: actor.IsPlatformAdmin,
	}, nil
}

// ComputeResults tallies the session's votes. Read-only.
func (s *Service) ComputeResults(ctx context.Context, sessionID string) ([]models.CategoryResult, error) {
	ctx, span := s.tracer.Start(ctx, "voting.ComputeResults")
	defer span.End()

	tx := s.db.WithContext(ctx)

	candidates, err := s.loadCandidates(tx, sessionID)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		CandidateID string
		Votes       int
	}
	if err := tx.Model(&models.Vote{}).
		Select("candidate_id, COUNT(*) AS votes").
		Where("session_id = ?", sessionID).
		Group("candidate_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.CandidateID] = row.Votes
	}

	return Tally(candidates, counts), nil
}

// Tally builds per-category results from candidates and per-candidate vote
// counts. Candidates are ordered by votes descending, then name, then
// position. Winners are every name tied at the top count; a category with no
// votes has no winners.
func Tally(candidates []models.Candidate, counts map[string]int) []models.CategoryResult {
	byCategory := make(map[models.Category][]models.CandidateTally)
	for _, c := range candidates {
		byCategory[c.Category] = append(byCategory[c.Category], models.CandidateTally{
			CandidateID: c.ID,
			Name:        c.Name,
			Position:    c.Position,
			Votes:       counts[c.ID],
		})
	}

	results := make([]models.CategoryResult, 0, len(byCategory))
	for _, info := range models.Categories {
		tallies := byCategory[info.Key]
		if len(tallies) == 0 {
			continue
		}

		sort.Slice(tallies, func(i, j int) bool {
			a, b := tallies[i], tallies[j]
			if a.Votes != b.Votes {
				return a.Votes > b.Votes
			}
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.Position < b.Position
		})

		total := 0
		for _, t := range tallies {
			total += t.Votes
		}

		winners := []string{}
		if top := tallies[0].Votes; top > 0 {
			seen := make(map[string]bool)
			for _, t := range tallies {
				if t.Votes != top {
					break
				}
				if !seen[t.Name] {
					seen[t.Name] = true
					winners = append(winners, t.Name)
				}
			}
		}

		results = append(results, models.CategoryResult{
			Category:   info.Key,
			Label:      info.Label,
			Tallies:    tallies,
			Winners:    winners,
			TotalVotes: total,
		})
	}
	return results
}
