package services

import (
	"context"
	"fmt"
	"time"

	"eventboard/internal/domain"
)

type compilationService struct {
	compilationRepo domain.CompilationRepository
	eventRepo       domain.EventRepository
	eventService    domain.EventService
	contextTimeout  time.Duration
}

func NewCompilationService(compilationRepo domain.CompilationRepository,
	eventRepo domain.EventRepository,
	eventService domain.EventService,
	timeout time.Duration,
) domain.CompilationService {
	return &compilationService{
		compilationRepo: compilationRepo,
		eventRepo:       eventRepo,
		eventService:    eventService,
		contextTimeout:  timeout,
	}
}

// resolveEvents loads and enriches the compilation's member events.
// Stored ids that no longer resolve are simply absent from the result.
func (s *compilationService) resolveEvents(ctx context.Context, c *domain.Compilation) error {
	c.Events = []*domain.Event{}
	if len(c.EventIDs) == 0 {
		return nil
	}
	events, err := s.eventRepo.ListByIDs(ctx, c.EventIDs)
	if err != nil {
		return fmt.Errorf("load compilation events: %w", err)
	}
	if err := s.eventService.EnrichEvents(ctx, events); err != nil {
		return err
	}
	c.Events = events
	return nil
}

func (s *compilationService) Create(ctx context.Context, in domain.NewCompilation) (*domain.Compilation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.CheckStrings(domain.CompilationConstraints, map[string]*string{"title": in.Title}, true); err != nil {
		return nil, err
	}
	compilation := &domain.Compilation{
		Title:    *in.Title,
		EventIDs: in.Events,
	}
	if in.Pinned != nil {
		compilation.Pinned = *in.Pinned
	}
	if err := s.compilationRepo.Create(ctx, compilation); err != nil {
		return nil, err
	}
	if err := s.resolveEvents(ctx, compilation); err != nil {
		return nil, err
	}
	return compilation, nil
}

func (s *compilationService) Update(ctx context.Context, id int64, patch domain.CompilationPatch) (*domain.Compilation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.CheckStrings(domain.CompilationConstraints, map[string]*string{"title": patch.Title}, false); err != nil {
		return nil, err
	}
	compilation, err := s.compilationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		compilation.Title = *patch.Title
	}
	if patch.Pinned != nil {
		compilation.Pinned = *patch.Pinned
	}
	replaceEvents := patch.Events != nil
	if replaceEvents {
		compilation.EventIDs = patch.Events
	}
	if err := s.compilationRepo.Update(ctx, compilation, replaceEvents); err != nil {
		return nil, err
	}
	if err := s.resolveEvents(ctx, compilation); err != nil {
		return nil, err
	}
	return compilation, nil
}

func (s *compilationService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.compilationRepo.Delete(ctx, id)
}

func (s *compilationService) GetByID(ctx context.Context, id int64) (*domain.Compilation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	compilation, err := s.compilationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveEvents(ctx, compilation); err != nil {
		return nil, err
	}
	return compilation, nil
}

func (s *compilationService) List(ctx context.Context, pinned *bool, page domain.Page) ([]*domain.Compilation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	compilations, err := s.compilationRepo.List(ctx, pinned, page)
	if err != nil {
		return nil, err
	}
	for _, c := range compilations {
		if err := s.resolveEvents(ctx, c); err != nil {
			return nil, err
		}
	}
	return compilations, nil
}
