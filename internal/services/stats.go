package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventboard/internal/domain"
)

type statsService struct {
	hitRepo        domain.HitRepository
	contextTimeout time.Duration
}

func NewStatsService(hitRepo domain.HitRepository, timeout time.Duration) domain.StatsService {
	return &statsService{
		hitRepo:        hitRepo,
		contextTimeout: timeout,
	}
}

func (s *statsService) RecordHit(ctx context.Context, hit domain.Hit) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	for field, value := range map[string]string{
		"app": hit.App,
		"uri": hit.URI,
		"ip":  hit.IP,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("field %s is required: %w", field, domain.ErrInvalidInput)
		}
	}
	if hit.Timestamp.IsZero() {
		return fmt.Errorf("field timestamp is required: %w", domain.ErrInvalidInput)
	}
	return s.hitRepo.Create(ctx, &hit)
}

func (s *statsService) GetStats(ctx context.Context, f domain.StatsFilter) ([]domain.URIStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if f.Start.IsZero() || f.End.IsZero() {
		return nil, fmt.Errorf("start and end are required: %w", domain.ErrInvalidInput)
	}
	if f.End.Before(f.Start) {
		return nil, fmt.Errorf("end must not be before start: %w", domain.ErrInvalidInput)
	}
	return s.hitRepo.Aggregate(ctx, f)
}
