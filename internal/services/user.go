package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventboard/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

func NewUserService(userRepo domain.UserRepository, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

// validateEmail checks the shape rules applied at registration: a single
// @, local part up to 64 chars, each domain label up to 63 chars. Overall
// length bounds come from the constraint table.
func validateEmail(email string) error {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("email %q is malformed: %w", email, domain.ErrInvalidInput)
	}
	local, host := email[:at], email[at+1:]
	if len(local) > 64 {
		return fmt.Errorf("email local part must not exceed 64 chars: %w", domain.ErrInvalidInput)
	}
	for _, label := range strings.Split(host, ".") {
		if len(label) > 63 {
			return fmt.Errorf("email domain label must not exceed 63 chars: %w", domain.ErrInvalidInput)
		}
	}
	return nil
}

func (s *userService) Create(ctx context.Context, email, name string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	err := domain.CheckStrings(domain.UserConstraints, map[string]*string{
		"name":  &name,
		"email": &email,
	}, true)
	if err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	// Surface the duplicate before the insert; the unique index still
	// backstops concurrent registrations.
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user with email %q already exists: %w", email, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	user := &domain.User{Email: email, Name: name}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.userRepo.Delete(ctx, id)
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, ids []int64, page domain.Page) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.userRepo.List(ctx, ids, page)
}
