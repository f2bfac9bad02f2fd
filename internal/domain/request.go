package domain

import "context"

// RequestStatus is the state of a participation request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestConfirmed RequestStatus = "CONFIRMED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCanceled  RequestStatus = "CANCELED"
)

// Request is a user's application to participate in an event.
// swagger:model Request
type Request struct {
	ID          int64         `json:"id"`
	Created     DateTime      `json:"created"`
	EventID     int64         `json:"event"`
	RequesterID int64         `json:"requester"`
	Status      RequestStatus `json:"status"`
}

// StatusUpdate is the bulk status-change payload for an event's requests.
type StatusUpdate struct {
	RequestIDs []int64       `json:"requestIds"`
	Status     RequestStatus `json:"status"`
}

// StatusUpdateResult lists the requests confirmed and rejected by a bulk
// status change.
type StatusUpdateResult struct {
	ConfirmedRequests []*Request `json:"confirmedRequests"`
	RejectedRequests  []*Request `json:"rejectedRequests"`
}

// SplitByCapacity partitions pending request ids, in input order, into
// those that fit under the participant limit and the overflow that must
// be auto-rejected. confirmed is the current confirmed count; limit 0
// means unbounded.
func SplitByCapacity(ids []int64, confirmed, limit int) (toConfirm, toReject []int64) {
	for _, id := range ids {
		if limit == 0 || confirmed < limit {
			toConfirm = append(toConfirm, id)
			confirmed++
		} else {
			toReject = append(toReject, id)
		}
	}
	return toConfirm, toReject
}

// RequestRepository defines storage operations for participation requests.
type RequestRepository interface {
	// Create inserts the request after locking the event row and
	// re-checking the confirmed count against participantLimit inside one
	// transaction. Returns ErrConflict when the limit is already reached.
	Create(ctx context.Context, req *Request, participantLimit int) error
	GetByID(ctx context.Context, id int64) (*Request, error)
	GetByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (*Request, error)
	// ListByRequester returns the user's requests for other users' events.
	ListByRequester(ctx context.Context, requesterID int64) ([]*Request, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*Request, error)
	UpdateStatus(ctx context.Context, id int64, status RequestStatus) error
	CountConfirmed(ctx context.Context, eventID int64) (int, error)
	// CountConfirmedByEvents returns confirmed-request counts keyed by
	// event id; events without confirmed requests are absent from the map.
	CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int, error)
	// BulkChangeStatus atomically applies a confirm or reject decision to
	// the given request ids. Inside one transaction it locks the event row,
	// verifies every id is still PENDING (ErrConflict otherwise), recounts
	// confirmed requests, and when confirming splits the ids by remaining
	// capacity (overflow is auto-rejected). Returns the two resulting sets.
	BulkChangeStatus(ctx context.Context, eventID int64, participantLimit int, confirm bool, ids []int64) (confirmed, rejected []*Request, err error)
}

// RequestService defines the requester-facing admission operations.
type RequestService interface {
	ListByUser(ctx context.Context, userID int64) ([]*Request, error)
	Create(ctx context.Context, userID, eventID int64) (*Request, error)
	Cancel(ctx context.Context, userID, requestID int64) (*Request, error)
}
