package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"eventboard/internal/domain"
)

const (
	// Minimum lead time between "now" and an event's start date.
	createLeadTime  = 2 * time.Hour
	publishLeadTime = 1 * time.Hour
)

type eventService struct {
	eventRepo      domain.EventRepository
	locationRepo   domain.LocationRepository
	categoryRepo   domain.CategoryRepository
	userRepo       domain.UserRepository
	requestRepo    domain.RequestRepository
	stats          domain.StatsClient
	emailService   domain.EmailService
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	locationRepo domain.LocationRepository,
	categoryRepo domain.CategoryRepository,
	userRepo domain.UserRepository,
	requestRepo domain.RequestRepository,
	stats domain.StatsClient,
	emailService domain.EmailService,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		locationRepo:   locationRepo,
		categoryRepo:   categoryRepo,
		userRepo:       userRepo,
		requestRepo:    requestRepo,
		stats:          stats,
		emailService:   emailService,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, userID int64, in domain.NewEvent) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	err := domain.CheckStrings(domain.EventConstraints, map[string]*string{
		"annotation":  in.Annotation,
		"description": in.Description,
		"title":       in.Title,
	}, true)
	if err != nil {
		return nil, err
	}
	if in.EventDate == nil {
		return nil, fmt.Errorf("field eventDate is required: %w", domain.ErrInvalidInput)
	}
	if in.Category == nil {
		return nil, fmt.Errorf("field category is required: %w", domain.ErrInvalidInput)
	}
	if in.Location == nil {
		return nil, fmt.Errorf("field location is required: %w", domain.ErrInvalidInput)
	}
	if in.EventDate.Before(time.Now().Add(createLeadTime)) {
		return nil, fmt.Errorf("event date must be at least %s from now: %w", createLeadTime, domain.ErrInvalidInput)
	}
	if in.ParticipantLimit != nil && *in.ParticipantLimit < 0 {
		return nil, fmt.Errorf("participant limit must not be negative: %w", domain.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, *in.Category)
	if err != nil {
		return nil, err
	}
	location, err := s.locationRepo.GetOrCreate(ctx, in.Location.Lat, in.Location.Lon)
	if err != nil {
		return nil, fmt.Errorf("resolve location: %w", err)
	}

	event := &domain.Event{
		Annotation:        *in.Annotation,
		Description:       *in.Description,
		Title:             *in.Title,
		EventDate:         *in.EventDate,
		Category:          *category,
		Location:          *location,
		Initiator:         user.Short(),
		RequestModeration: true,
		State:             domain.StatePending,
		CreatedOn:         domain.NewDateTime(time.Now()),
	}
	if in.Paid != nil {
		event.Paid = *in.Paid
	}
	if in.ParticipantLimit != nil {
		event.ParticipantLimit = *in.ParticipantLimit
	}
	if in.RequestModeration != nil {
		event.RequestModeration = *in.RequestModeration
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListByUser(ctx context.Context, userID int64, page domain.Page) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByInitiator(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if err := s.EnrichEvents(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *eventService) GetUserEvent(ctx context.Context, userID, eventID int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.EnrichEvents(ctx, []*domain.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

// applyPatch validates the patch and merges it into the event, resolving
// category and location references. State transitions are left to the
// caller since the user and admin rules differ.
func (s *eventService) applyPatch(ctx context.Context, event *domain.Event, patch domain.EventPatch) error {
	err := domain.CheckStrings(domain.EventConstraints, map[string]*string{
		"annotation":  patch.Annotation,
		"description": patch.Description,
		"title":       patch.Title,
	}, false)
	if err != nil {
		return err
	}
	if patch.ParticipantLimit != nil && *patch.ParticipantLimit < 0 {
		return fmt.Errorf("participant limit must not be negative: %w", domain.ErrInvalidInput)
	}
	if patch.Category != nil {
		category, err := s.categoryRepo.GetByID(ctx, *patch.Category)
		if err != nil {
			return err
		}
		event.Category = *category
	}
	if patch.Location != nil {
		location, err := s.locationRepo.GetOrCreate(ctx, patch.Location.Lat, patch.Location.Lon)
		if err != nil {
			return fmt.Errorf("resolve location: %w", err)
		}
		event.Location = *location
	}
	event.Apply(patch)
	return nil
}

func (s *eventService) UpdateByUser(ctx context.Context, userID, eventID int64, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if event.State == domain.StatePublished {
		return nil, fmt.Errorf("published events cannot be changed: %w", domain.ErrConflict)
	}
	if patch.EventDate != nil && patch.EventDate.Before(time.Now().Add(createLeadTime)) {
		return nil, fmt.Errorf("event date must be at least %s from now: %w", createLeadTime, domain.ErrInvalidInput)
	}
	if patch.StateAction != nil {
		switch *patch.StateAction {
		case domain.ActionSendToReview:
			event.State = domain.StatePending
		case domain.ActionCancelReview:
			event.State = domain.StateCanceled
		default:
			return nil, fmt.Errorf("state action %q is not allowed here: %w", *patch.StateAction, domain.ErrInvalidInput)
		}
	}
	if err := s.applyPatch(ctx, event, patch); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if err := s.EnrichEvents(ctx, []*domain.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) UpdateByAdmin(ctx context.Context, eventID int64, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	// The lead-time check uses the patched date when the patch carries one.
	effectiveDate := event.EventDate
	if patch.EventDate != nil {
		effectiveDate = *patch.EventDate
	}
	if effectiveDate.Before(time.Now().Add(publishLeadTime)) {
		return nil, fmt.Errorf("event date must be at least %s from now: %w", publishLeadTime, domain.ErrConflict)
	}

	var moderated *bool
	if patch.StateAction != nil {
		switch *patch.StateAction {
		case domain.ActionPublish:
			if event.State != domain.StatePending {
				return nil, fmt.Errorf("only pending events can be published: %w", domain.ErrConflict)
			}
			event.State = domain.StatePublished
			publishedOn := domain.NewDateTime(time.Now())
			event.PublishedOn = &publishedOn
			published := true
			moderated = &published
		case domain.ActionReject:
			if event.State != domain.StatePending {
				return nil, fmt.Errorf("only pending events can be rejected: %w", domain.ErrConflict)
			}
			event.State = domain.StateCanceled
			rejected := false
			moderated = &rejected
		default:
			return nil, fmt.Errorf("state action %q is not allowed here: %w", *patch.StateAction, domain.ErrInvalidInput)
		}
	}
	if err := s.applyPatch(ctx, event, patch); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if moderated != nil {
		s.notifyModerationResult(ctx, event, *moderated)
	}
	if err := s.EnrichEvents(ctx, []*domain.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

// notifyModerationResult emails the initiator about the moderation
// outcome. Failures are logged and swallowed.
func (s *eventService) notifyModerationResult(ctx context.Context, event *domain.Event, published bool) {
	initiator, err := s.userRepo.GetByID(ctx, event.Initiator.ID)
	if err != nil {
		log.Printf("[EMAIL] Skipping moderation email for event %d: %v", event.ID, err)
		return
	}
	err = s.emailService.SendModerationResult(ctx, &domain.ModerationResultEmailData{
		Email:         initiator.Email,
		InitiatorName: initiator.Name,
		EventTitle:    event.Title,
		Published:     published,
	})
	if err != nil {
		log.Printf("[EMAIL] Moderation email for event %d failed: %v", event.ID, err)
	}
}

func validateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("rangeEnd must not be before rangeStart: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) SearchPublished(ctx context.Context, q domain.PublicSearchQuery) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateRange(q.RangeStart, q.RangeEnd); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.SearchPublished(ctx, domain.PublicSearchFilter{
		Text:       q.Text,
		Categories: q.Categories,
		Paid:       q.Paid,
		RangeStart: q.RangeStart,
		RangeEnd:   q.RangeEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	if err := s.EnrichEvents(ctx, events); err != nil {
		return nil, err
	}

	if q.OnlyAvailable {
		available := events[:0]
		for _, e := range events {
			if e.ParticipantLimit == 0 || e.ConfirmedRequests < e.ParticipantLimit {
				available = append(available, e)
			}
		}
		events = available
	}
	switch q.Sort {
	case domain.SortByEventDate:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].EventDate.Before(events[j].EventDate.Time)
		})
	case domain.SortByViews:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Views < events[j].Views
		})
	}

	// Pagination runs after availability filtering and sorting.
	if q.Page.From >= len(events) {
		return []*domain.Event{}, nil
	}
	events = events[q.Page.From:]
	if len(events) > q.Page.Size {
		events = events[:q.Page.Size]
	}
	return events, nil
}

func (s *eventService) SearchAdmin(ctx context.Context, q domain.AdminSearchQuery) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateRange(q.RangeStart, q.RangeEnd); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.SearchAdmin(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	if err := s.EnrichEvents(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *eventService) GetPublished(ctx context.Context, eventID int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != domain.StatePublished {
		return nil, fmt.Errorf("event %d is not published: %w", eventID, domain.ErrNotFound)
	}
	if err := s.EnrichEvents(ctx, []*domain.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListEventRequests(ctx context.Context, userID, eventID int64) ([]*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Initiator.ID != userID {
		return nil, fmt.Errorf("user %d is not the initiator of event %d: %w", userID, eventID, domain.ErrConflict)
	}
	requests, err := s.requestRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return requests, nil
}

func (s *eventService) ChangeRequestStatuses(ctx context.Context, userID, eventID int64, upd domain.StatusUpdate) (*domain.StatusUpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Initiator.ID != userID {
		return nil, fmt.Errorf("user %d is not the initiator of event %d: %w", userID, eventID, domain.ErrConflict)
	}
	if upd.Status != domain.RequestConfirmed && upd.Status != domain.RequestRejected {
		return nil, fmt.Errorf("status %q is not a valid target: %w", upd.Status, domain.ErrInvalidInput)
	}
	if upd.Status == domain.RequestConfirmed && (!event.RequestModeration || event.ParticipantLimit == 0) {
		return nil, fmt.Errorf("event %d does not require request confirmation: %w", eventID, domain.ErrInvalidInput)
	}
	if upd.Status == domain.RequestConfirmed && event.ParticipantLimit > 0 {
		confirmed, err := s.requestRepo.CountConfirmed(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("count confirmed requests: %w", err)
		}
		if confirmed >= event.ParticipantLimit {
			return nil, fmt.Errorf("participant limit of event %d is reached: %w", eventID, domain.ErrConflict)
		}
	}

	confirmed, rejected, err := s.requestRepo.BulkChangeStatus(ctx,
		eventID, event.ParticipantLimit, upd.Status == domain.RequestConfirmed, upd.RequestIDs)
	if err != nil {
		return nil, err
	}
	return &domain.StatusUpdateResult{
		ConfirmedRequests: confirmed,
		RejectedRequests:  rejected,
	}, nil
}

func (s *eventService) EnrichEvents(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	counts, err := s.requestRepo.CountConfirmedByEvents(ctx, ids)
	if err != nil {
		return fmt.Errorf("count confirmed requests: %w", err)
	}
	views := s.fetchViews(ctx, events)
	for _, e := range events {
		e.ConfirmedRequests = counts[e.ID]
		e.Views = views[eventURI(e.ID)]
	}
	return nil
}

func eventURI(eventID int64) string {
	return fmt.Sprintf("/events/%d", eventID)
}

// fetchViews asks the stats collector for unique view counts over the
// window from the earliest publication to now. Any failure degrades to
// zero views; the primary operation does not depend on the collector.
func (s *eventService) fetchViews(ctx context.Context, events []*domain.Event) map[string]int64 {
	var start time.Time
	uris := make([]string, 0, len(events))
	for _, e := range events {
		if e.PublishedOn == nil {
			continue
		}
		uris = append(uris, eventURI(e.ID))
		if start.IsZero() || e.PublishedOn.Before(start) {
			start = e.PublishedOn.Time
		}
	}
	views := make(map[string]int64, len(uris))
	if len(uris) == 0 {
		return views
	}
	stats, err := s.stats.GetStats(ctx, start, time.Now(), uris, true)
	if err != nil {
		log.Printf("[STATS] View counts unavailable: %v", err)
		return views
	}
	for _, st := range stats {
		views[st.URI] = st.Hits
	}
	return views
}
