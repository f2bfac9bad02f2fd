package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"eventboard/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `
	e.id, e.annotation, e.description, e.title, e.event_date,
	e.paid, e.participant_limit, e.request_moderation, e.state,
	e.created_on, e.published_on,
	c.id, c.name, l.id, l.lat, l.lon, u.id, u.name`

const eventJoins = `
	FROM events e
	JOIN categories c ON c.id = e.category_id
	JOIN locations l ON l.id = e.location_id
	JOIN users u ON u.id = e.initiator_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var publishedOn sql.NullTime
	err := row.Scan(
		&e.ID, &e.Annotation, &e.Description, &e.Title, &e.EventDate,
		&e.Paid, &e.ParticipantLimit, &e.RequestModeration, &e.State,
		&e.CreatedOn, &publishedOn,
		&e.Category.ID, &e.Category.Name,
		&e.Location.ID, &e.Location.Lat, &e.Location.Lon,
		&e.Initiator.ID, &e.Initiator.Name,
	)
	if err != nil {
		return nil, err
	}
	if publishedOn.Valid {
		d := domain.NewDateTime(publishedOn.Time)
		e.PublishedOn = &d
	}
	return e, nil
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (annotation, description, title, event_date, category_id,
			location_id, initiator_id, paid, participant_limit, request_moderation,
			state, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Annotation, e.Description, e.Title, e.EventDate, e.Category.ID,
		e.Location.ID, e.Initiator.ID, e.Paid, e.ParticipantLimit,
		e.RequestModeration, e.State, e.CreatedOn,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT` + eventColumns + eventJoins + ` WHERE e.id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByIDAndInitiator(ctx context.Context, id, initiatorID int64) (*domain.Event, error) {
	query := `SELECT` + eventColumns + eventJoins + ` WHERE e.id = $1 AND e.initiator_id = $2`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, initiatorID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET annotation = $1, description = $2, title = $3, event_date = $4,
			category_id = $5, location_id = $6, paid = $7, participant_limit = $8,
			request_moderation = $9, state = $10, published_on = $11
		WHERE id = $12
	`
	var publishedOn sql.NullTime
	if e.PublishedOn != nil {
		publishedOn = sql.NullTime{Time: e.PublishedOn.Time, Valid: true}
	}
	result, err := r.DB.ExecContext(ctx, query,
		e.Annotation, e.Description, e.Title, e.EventDate,
		e.Category.ID, e.Location.ID, e.Paid, e.ParticipantLimit,
		e.RequestModeration, e.State, publishedOn, e.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("event %d: %w", e.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *eventRepository) ListByInitiator(ctx context.Context, initiatorID int64, page domain.Page) ([]*domain.Event, error) {
	query := `SELECT` + eventColumns + eventJoins + `
		WHERE e.initiator_id = $1
		ORDER BY e.event_date ASC
		OFFSET $2 LIMIT $3`
	rows, err := r.DB.QueryContext(ctx, query, initiatorID, page.From, page.Size)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}
	query := `SELECT` + eventColumns + eventJoins + ` WHERE e.id = ANY($1) ORDER BY e.id ASC`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *eventRepository) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE category_id = $1`, categoryID).Scan(&count)
	return count, err
}

func (r *eventRepository) SearchAdmin(ctx context.Context, q domain.AdminSearchQuery) ([]*domain.Event, error) {
	whereClauses := []string{}
	args := []any{}
	n := 1
	if len(q.Users) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("e.initiator_id = ANY($%d)", n))
		args = append(args, pq.Array(q.Users))
		n++
	}
	if len(q.States) > 0 {
		states := make([]string, len(q.States))
		for i, s := range q.States {
			states[i] = string(s)
		}
		whereClauses = append(whereClauses, fmt.Sprintf("e.state = ANY($%d)", n))
		args = append(args, pq.Array(states))
		n++
	}
	if len(q.Categories) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("e.category_id = ANY($%d)", n))
		args = append(args, pq.Array(q.Categories))
		n++
	}
	if q.RangeStart != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("e.event_date >= $%d", n))
		args = append(args, *q.RangeStart)
		n++
	}
	if q.RangeEnd != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("e.event_date <= $%d", n))
		args = append(args, *q.RangeEnd)
		n++
	}
	query := `SELECT` + eventColumns + eventJoins
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY e.id ASC OFFSET $%d LIMIT $%d", n, n+1)
	args = append(args, q.Page.From, q.Page.Size)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *eventRepository) SearchPublished(ctx context.Context, f domain.PublicSearchFilter) ([]*domain.Event, error) {
	whereClauses := []string{"e.state = 'PUBLISHED'"}
	args := []any{}
	n := 1
	if f.Text != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(e.annotation ILIKE $%d OR e.description ILIKE $%d)", n, n))
		args = append(args, "%"+f.Text+"%")
		n++
	}
	if len(f.Categories) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("e.category_id = ANY($%d)", n))
		args = append(args, pq.Array(f.Categories))
		n++
	}
	if f.Paid != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("e.paid = $%d", n))
		args = append(args, *f.Paid)
		n++
	}
	if f.RangeStart == nil && f.RangeEnd == nil {
		// No range given: only upcoming events.
		whereClauses = append(whereClauses, fmt.Sprintf("e.event_date >= $%d", n))
		args = append(args, time.Now())
		n++
	}
	if f.RangeStart != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("e.event_date >= $%d", n))
		args = append(args, *f.RangeStart)
		n++
	}
	if f.RangeEnd != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("e.event_date <= $%d", n))
		args = append(args, *f.RangeEnd)
		n++
	}
	query := `SELECT` + eventColumns + eventJoins +
		" WHERE " + strings.Join(whereClauses, " AND ") +
		" ORDER BY e.id ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}
