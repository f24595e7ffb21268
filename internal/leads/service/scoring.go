package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"liencrm_backend/internal/events"
	"liencrm_backend/internal/leads/repository"
	"liencrm_backend/internal/leads/transport"
	"liencrm_backend/internal/scoring"
	"liencrm_backend/platform/apperr"
)

// rescoreConcurrency caps parallel score computations during batch runs.
const rescoreConcurrency = 8

// Score computes and persists the investment score of a lead's property.
func (s *Service) Score(ctx context.Context, userID, id uuid.UUID) (transport.ScoreResponse, error) {
	lead, err := s.ownedLead(ctx, userID, id)
	if err != nil {
		return transport.ScoreResponse{}, err
	}
	return s.scoreLead(ctx, lead)
}

// RescoreAll recomputes scores for every lead attached to an active
// property. Individual failures do not abort the batch.
func (s *Service) RescoreAll(ctx context.Context) (transport.BatchRescoreResponse, error) {
	ids, err := s.repo.ListScoreable(ctx)
	if err != nil {
		return transport.BatchRescoreResponse{}, err
	}

	var (
		mu     sync.Mutex
		scored int
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rescoreConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			lead, err := s.repo.GetByID(gctx, id)
			if err == nil {
				_, err = s.scoreLead(gctx, lead)
			}
			mu.Lock()
			if err != nil {
				failed++
				s.log.Error("lead rescore failed", "leadId", id, "error", err)
			} else {
				scored++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return transport.BatchRescoreResponse{}, err
	}

	s.log.Info("lead rescore batch finished", "scored", scored, "failed", failed)
	return transport.BatchRescoreResponse{Scored: scored, Failed: failed}, nil
}

func (s *Service) scoreLead(ctx context.Context, lead repository.Lead) (transport.ScoreResponse, error) {
	if lead.PropertyID == nil {
		return transport.ScoreResponse{}, apperr.Validation("lead has no property attached")
	}

	profile, err := s.profiles.ScoringProfile(ctx, *lead.PropertyID)
	if err != nil {
		return transport.ScoreResponse{}, err
	}

	result := scoring.CalculatePropertyScore(profile, time.Now().UTC())

	updated, err := s.repo.UpdateScore(ctx, repository.ScoreUpdate{
		ID:       lead.ID,
		Score:    result.Score,
		Grade:    result.Grade,
		ScoredAt: time.Now().UTC(),
	})
	if err != nil {
		return transport.ScoreResponse{}, err
	}

	s.eventBus.Publish(ctx, events.LeadScored{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		PropertyID:    *lead.PropertyID,
		Score:         result.Score,
		PreviousScore: lead.Score,
		Grade:         result.Grade,
	})

	return transport.ScoreResponse{
		LeadID:   updated.ID,
		Score:    result.Score,
		Grade:    result.Grade,
		ScoredAt: *updated.ScoredAt,
	}, nil
}
