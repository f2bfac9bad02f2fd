package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventboard/internal/domain"
)

type requestService struct {
	requestRepo    domain.RequestRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

func NewRequestService(requestRepo domain.RequestRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.RequestService {
	return &requestService{
		requestRepo:    requestRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *requestService) ListByUser(ctx context.Context, userID int64) ([]*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return requests, nil
}

func (s *requestService) Create(ctx context.Context, userID, eventID int64) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Initiator.ID == userID {
		return nil, fmt.Errorf("initiator cannot request participation in own event: %w", domain.ErrConflict)
	}
	if event.State != domain.StatePublished {
		return nil, fmt.Errorf("event %d is not published: %w", eventID, domain.ErrConflict)
	}
	if _, err := s.requestRepo.GetByRequesterAndEvent(ctx, userID, eventID); err == nil {
		return nil, fmt.Errorf("request for event %d already exists: %w", eventID, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	status := domain.RequestPending
	if !event.RequestModeration || event.ParticipantLimit == 0 {
		status = domain.RequestConfirmed
	}
	request := &domain.Request{
		Created:     domain.NewDateTime(time.Now()),
		EventID:     eventID,
		RequesterID: userID,
		Status:      status,
	}
	// The repository rechecks capacity under the event row lock.
	if err := s.requestRepo.Create(ctx, request, event.ParticipantLimit); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *requestService) Cancel(ctx context.Context, userID, requestID int64) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RequesterID != userID {
		return nil, fmt.Errorf("request %d does not belong to user %d: %w", requestID, userID, domain.ErrConflict)
	}
	if request.Status != domain.RequestCanceled {
		if err := s.requestRepo.UpdateStatus(ctx, requestID, domain.RequestCanceled); err != nil {
			return nil, fmt.Errorf("cancel request: %w", err)
		}
		request.Status = domain.RequestCanceled
	}
	return request, nil
}
