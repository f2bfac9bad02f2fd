package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventboard/internal/domain"
)

type requestRepository struct {
	DB *sql.DB
}

func NewRequestRepository(db *sql.DB) domain.RequestRepository {
	return &requestRepository{
		DB: db,
	}
}

const requestColumns = `id, created, event_id, requester_id, status`

func scanRequest(row rowScanner) (*domain.Request, error) {
	req := &domain.Request{}
	if err := row.Scan(&req.ID, &req.Created, &req.EventID, &req.RequesterID, &req.Status); err != nil {
		return nil, err
	}
	return req, nil
}

func collectRequests(rows *sql.Rows) ([]*domain.Request, error) {
	defer rows.Close()
	requests := make([]*domain.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// lockEvent takes a row lock on the event so confirmed-count
// check-then-write sequences are serialized per event.
func lockEvent(ctx context.Context, tx *sql.Tx, eventID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("event %d: %w", eventID, domain.ErrNotFound)
	}
	return err
}

func countConfirmedTx(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, eventID int64) (int, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM requests WHERE event_id = $1 AND status = 'CONFIRMED'`,
		eventID,
	).Scan(&count)
	return count, err
}

func (r *requestRepository) Create(ctx context.Context, req *domain.Request, participantLimit int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockEvent(ctx, tx, req.EventID); err != nil {
		return err
	}
	if participantLimit > 0 {
		count, err := countConfirmedTx(ctx, tx, req.EventID)
		if err != nil {
			return err
		}
		if count >= participantLimit {
			return fmt.Errorf("participant limit reached for event %d: %w", req.EventID, domain.ErrConflict)
		}
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO requests (created, event_id, requester_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, req.Created, req.EventID, req.RequesterID, req.Status).Scan(&req.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("request already exists: %w", domain.ErrConflict)
		}
		return err
	}
	return tx.Commit()
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("request %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) GetByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE requester_id = $1 AND event_id = $2`
	req, err := scanRequest(r.DB.QueryRowContext(ctx, query, requesterID, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*domain.Request, error) {
	// Requests the user filed for other users' events; a user never holds
	// a request against their own event.
	query := `
		SELECT r.id, r.created, r.event_id, r.requester_id, r.status
		FROM requests r
		JOIN events e ON e.id = r.event_id
		WHERE r.requester_id = $1 AND e.initiator_id <> $1
		ORDER BY r.id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, requesterID)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (r *requestRepository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE event_id = $1 ORDER BY id ASC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("request %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *requestRepository) CountConfirmed(ctx context.Context, eventID int64) (int, error) {
	return countConfirmedTx(ctx, r.DB, eventID)
}

func (r *requestRepository) CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	if len(eventIDs) == 0 {
		return counts, nil
	}
	query := `
		SELECT event_id, COUNT(*) AS hits
		FROM requests
		WHERE event_id = ANY($1) AND status = 'CONFIRMED'
		GROUP BY event_id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID int64
		var count int
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, err
		}
		counts[eventID] = count
	}
	return counts, rows.Err()
}

func (r *requestRepository) BulkChangeStatus(ctx context.Context, eventID int64, participantLimit int, confirm bool, ids []int64) ([]*domain.Request, []*domain.Request, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	if err := lockEvent(ctx, tx, eventID); err != nil {
		return nil, nil, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE event_id = $1 AND id = ANY($2)`,
		eventID, pq.Array(ids),
	)
	if err != nil {
		return nil, nil, err
	}
	loaded, err := collectRequests(rows)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[int64]*domain.Request, len(loaded))
	for _, req := range loaded {
		if req.Status != domain.RequestPending {
			return nil, nil, fmt.Errorf("request %d is not pending: %w", req.ID, domain.ErrConflict)
		}
		byID[req.ID] = req
	}
	if len(byID) != len(ids) {
		return nil, nil, fmt.Errorf("only pending requests of the event can be updated: %w", domain.ErrConflict)
	}

	var toConfirm, toReject []int64
	if confirm {
		count, err := countConfirmedTx(ctx, tx, eventID)
		if err != nil {
			return nil, nil, err
		}
		if participantLimit > 0 && count >= participantLimit {
			return nil, nil, fmt.Errorf("participant limit reached for event %d: %w", eventID, domain.ErrConflict)
		}
		toConfirm, toReject = domain.SplitByCapacity(ids, count, participantLimit)
	} else {
		toReject = ids
	}

	apply := func(reqIDs []int64, status domain.RequestStatus) ([]*domain.Request, error) {
		if len(reqIDs) == 0 {
			return []*domain.Request{}, nil
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE requests SET status = $1 WHERE id = ANY($2)`, status, pq.Array(reqIDs))
		if err != nil {
			return nil, err
		}
		out := make([]*domain.Request, 0, len(reqIDs))
		for _, id := range reqIDs {
			req := byID[id]
			req.Status = status
			out = append(out, req)
		}
		return out, nil
	}

	confirmed, err := apply(toConfirm, domain.RequestConfirmed)
	if err != nil {
		return nil, nil, err
	}
	rejected, err := apply(toReject, domain.RequestRejected)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return confirmed, rejected, nil
}
