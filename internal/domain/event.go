package domain

import (
	"context"
	"time"
)

// EventState is the publication state of an event.
type EventState string

const (
	StatePending   EventState = "PENDING"
	StatePublished EventState = "PUBLISHED"
	StateCanceled  EventState = "CANCELED"
)

// ParseEventState validates a state string coming from a query parameter.
func ParseEventState(s string) (EventState, bool) {
	switch EventState(s) {
	case StatePending, StatePublished, StateCanceled:
		return EventState(s), true
	}
	return "", false
}

// StateAction is the requested state transition carried in an update body.
type StateAction string

const (
	// User actions.
	ActionSendToReview StateAction = "SEND_TO_REVIEW"
	ActionCancelReview StateAction = "CANCEL_REVIEW"
	// Admin actions.
	ActionPublish StateAction = "PUBLISH_EVENT"
	ActionReject  StateAction = "REJECT_EVENT"
)

// EventSort is the ordering requested for public search results.
type EventSort string

const (
	SortByEventDate EventSort = "EVENT_DATE"
	SortByViews     EventSort = "VIEWS"
)

// Location is a lat/lon pair, deduplicated by exact value.
type Location struct {
	ID  int64   `json:"-"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// UserShort is the initiator representation embedded in event responses.
type UserShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Event is a published or pending event with its shared references
// resolved. ConfirmedRequests and Views are response-time enrichment and
// are not stored on the event row.
// swagger:model Event
type Event struct {
	ID                int64      `json:"id"`
	Annotation        string     `json:"annotation"`
	Description       string     `json:"description"`
	Title             string     `json:"title"`
	EventDate         DateTime   `json:"eventDate"`
	Category          Category   `json:"category"`
	Location          Location   `json:"location"`
	Initiator         UserShort  `json:"initiator"`
	Paid              bool       `json:"paid"`
	ParticipantLimit  int        `json:"participantLimit"`
	RequestModeration bool       `json:"requestModeration"`
	State             EventState `json:"state"`
	CreatedOn         DateTime   `json:"createdOn"`
	PublishedOn       *DateTime  `json:"publishedOn,omitempty"`
	ConfirmedRequests int        `json:"confirmedRequests"`
	Views             int64      `json:"views"`
}

// NewEvent is the create-event payload. Pointer fields distinguish
// "absent" from zero values so required-field checks can name what is
// missing.
type NewEvent struct {
	Annotation        *string   `json:"annotation"`
	Description       *string   `json:"description"`
	Title             *string   `json:"title"`
	EventDate         *DateTime `json:"eventDate"`
	Category          *int64    `json:"category"`
	Location          *Location `json:"location"`
	Paid              *bool     `json:"paid"`
	ParticipantLimit  *int      `json:"participantLimit"`
	RequestModeration *bool     `json:"requestModeration"`
}

// EventPatch is the partial-update payload shared by the user and admin
// update endpoints. Nil fields are left untouched.
type EventPatch struct {
	Annotation        *string      `json:"annotation"`
	Description       *string      `json:"description"`
	Title             *string      `json:"title"`
	EventDate         *DateTime    `json:"eventDate"`
	Category          *int64       `json:"category"`
	Location          *Location    `json:"location"`
	Paid              *bool        `json:"paid"`
	ParticipantLimit  *int         `json:"participantLimit"`
	RequestModeration *bool        `json:"requestModeration"`
	StateAction       *StateAction `json:"stateAction"`
}

// Apply merges the patch's scalar fields into the event. Category,
// location, and state changes need resolution against other components
// and are handled by the service; Apply is a pure merge so it can be
// tested without persistence.
func (e *Event) Apply(p EventPatch) {
	if p.Annotation != nil {
		e.Annotation = *p.Annotation
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.EventDate != nil {
		e.EventDate = *p.EventDate
	}
	if p.Paid != nil {
		e.Paid = *p.Paid
	}
	if p.ParticipantLimit != nil {
		e.ParticipantLimit = *p.ParticipantLimit
	}
	if p.RequestModeration != nil {
		e.RequestModeration = *p.RequestModeration
	}
}

// PublicSearchQuery are the filters for the public event search. A nil
// filter means "not constrained". When both range bounds are nil the
// search covers events from now on.
type PublicSearchQuery struct {
	Text          string
	Categories    []int64
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          EventSort
	Page          Page
}

// AdminSearchQuery are the filters for the admin event search.
type AdminSearchQuery struct {
	Users      []int64
	States     []EventState
	Categories []int64
	RangeStart *time.Time
	RangeEnd   *time.Time
	Page       Page
}

// PublicSearchFilter is the storage-level subset of PublicSearchQuery:
// availability, sorting, and pagination are applied by the service after
// enrichment.
type PublicSearchFilter struct {
	Text       string
	Categories []int64
	Paid       *bool
	RangeStart *time.Time
	RangeEnd   *time.Time
}

// EventRepository defines storage operations for events.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	GetByIDAndInitiator(ctx context.Context, id, initiatorID int64) (*Event, error)
	Update(ctx context.Context, e *Event) error
	ListByInitiator(ctx context.Context, initiatorID int64, page Page) ([]*Event, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*Event, error)
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
	// SearchAdmin applies pagination at the storage layer, ordered by id.
	SearchAdmin(ctx context.Context, q AdminSearchQuery) ([]*Event, error)
	// SearchPublished returns all matching published events; the caller
	// sorts, filters by availability, and paginates.
	SearchPublished(ctx context.Context, f PublicSearchFilter) ([]*Event, error)
}

// LocationRepository finds or creates locations by exact coordinates.
type LocationRepository interface {
	GetOrCreate(ctx context.Context, lat, lon float64) (*Location, error)
}

// EventService defines the event lifecycle operations.
type EventService interface {
	Create(ctx context.Context, userID int64, in NewEvent) (*Event, error)
	ListByUser(ctx context.Context, userID int64, page Page) ([]*Event, error)
	GetUserEvent(ctx context.Context, userID, eventID int64) (*Event, error)
	UpdateByUser(ctx context.Context, userID, eventID int64, patch EventPatch) (*Event, error)
	UpdateByAdmin(ctx context.Context, eventID int64, patch EventPatch) (*Event, error)
	SearchPublished(ctx context.Context, q PublicSearchQuery) ([]*Event, error)
	SearchAdmin(ctx context.Context, q AdminSearchQuery) ([]*Event, error)
	GetPublished(ctx context.Context, eventID int64) (*Event, error)
	ListEventRequests(ctx context.Context, userID, eventID int64) ([]*Request, error)
	ChangeRequestStatuses(ctx context.Context, userID, eventID int64, upd StatusUpdate) (*StatusUpdateResult, error)
	// EnrichEvents fills ConfirmedRequests and Views for a batch of
	// events in one pass; events absent from either source stay zero.
	EnrichEvents(ctx context.Context, events []*Event) error
}
