package services

import (
	"context"
	"fmt"
	"time"

	"eventboard/internal/domain"
)

type commentService struct {
	commentRepo    domain.CommentRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

func NewCommentService(commentRepo domain.CommentRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.CommentService {
	return &commentService{
		commentRepo:    commentRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *commentService) Create(ctx context.Context, userID, eventID int64, text string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.CheckStrings(domain.CommentConstraints, map[string]*string{"text": &text}, true); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		Text:       text,
		AuthorID:   user.ID,
		AuthorName: user.Name,
		EventID:    eventID,
		Created:    domain.NewDateTime(time.Now()),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) Edit(ctx context.Context, userID, commentID int64, text string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.CheckStrings(domain.CommentConstraints, map[string]*string{"text": &text}, true); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, fmt.Errorf("comment %d does not belong to user %d: %w", commentID, userID, domain.ErrConflict)
	}
	comment.Text = text
	updated := domain.NewDateTime(time.Now())
	comment.LastUpdated = &updated
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, userID, commentID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		event, err := s.eventRepo.GetByID(ctx, comment.EventID)
		if err != nil {
			return err
		}
		if event.Initiator.ID != userID {
			return fmt.Errorf("user %d may not delete comment %d: %w", userID, commentID, domain.ErrConflict)
		}
	}
	return s.commentRepo.Delete(ctx, commentID)
}

func (s *commentService) DeleteByAdmin(ctx context.Context, commentID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, commentID)
}

func (s *commentService) ListByUser(ctx context.Context, userID int64, page domain.Page) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByAuthor(ctx, userID, page)
}

func (s *commentService) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByEvent(ctx, eventID)
}
