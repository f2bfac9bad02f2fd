package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventboard/internal/domain"
)

type categoryService struct {
	categoryRepo   domain.CategoryRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewCategoryService(categoryRepo domain.CategoryRepository,
	eventRepo domain.EventRepository,
	timeout time.Duration,
) domain.CategoryService {
	return &categoryService{
		categoryRepo:   categoryRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *categoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.CheckStrings(domain.CategoryConstraints, map[string]*string{"name": &name}, true); err != nil {
		return nil, err
	}
	category := &domain.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.CheckStrings(domain.CategoryConstraints, map[string]*string{"name": &name}, true); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Renaming a category to its own name is allowed; the unique index
	// catches collisions with other categories.
	if existing, err := s.categoryRepo.GetByName(ctx, name); err == nil && existing.ID != id {
		return nil, fmt.Errorf("category name %q already exists: %w", name, domain.ErrConflict)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.eventRepo.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("category %d is referenced by %d events: %w", id, count, domain.ErrConflict)
	}
	return s.categoryRepo.Delete(ctx, id)
}

func (s *categoryService) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryService) List(ctx context.Context, page domain.Page) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.categoryRepo.List(ctx, page)
}
