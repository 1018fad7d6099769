package services

import (
	"context"

	"skillswap-backend/internal/apperrors"
	"skillswap-backend/internal/models"
)

// StatsStore is the storage dependency of the stats service.
type StatsStore interface {
	Collect(ctx context.Context) (*models.PlatformStats, error)
}

// StatsService exposes platform-wide aggregates to administrators
type StatsService struct {
	statsRepo StatsStore
	userRepo  UserStore
}

// NewStatsService creates a new stats service
func NewStatsService(statsRepo StatsStore, userRepo UserStore) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		userRepo:  userRepo,
	}
}

// PlatformStats collects platform statistics; admin-only
func (s *StatsService) PlatformStats(ctx context.Context, actorID string) (*models.PlatformStats, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.New(apperrors.PermissionDenied, "administrator access required")
	}
	return s.statsRepo.Collect(ctx)
}
