package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventboard/internal/domain"
)

type compilationRepository struct {
	DB *sql.DB
}

func NewCompilationRepository(db *sql.DB) domain.CompilationRepository {
	return &compilationRepository{
		DB: db,
	}
}

func replaceCompilationEvents(ctx context.Context, tx *sql.Tx, compID int64, eventIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM compilation_events WHERE compilation_id = $1`, compID); err != nil {
		return err
	}
	for _, eventID := range eventIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO compilation_events (compilation_id, event_id) VALUES ($1, $2)`,
			compID, eventID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *compilationRepository) loadEventIDs(ctx context.Context, compID int64) ([]int64, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT event_id FROM compilation_events WHERE compilation_id = $1 ORDER BY event_id ASC`,
		compID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *compilationRepository) Create(ctx context.Context, c *domain.Compilation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO compilations (title, pinned) VALUES ($1, $2) RETURNING id`,
		c.Title, c.Pinned,
	).Scan(&c.ID)
	if err != nil {
		return err
	}
	if err := replaceCompilationEvents(ctx, tx, c.ID, c.EventIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *compilationRepository) GetByID(ctx context.Context, id int64) (*domain.Compilation, error) {
	c := &domain.Compilation{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, pinned FROM compilations WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Pinned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("compilation %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	if c.EventIDs, err = r.loadEventIDs(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *compilationRepository) Update(ctx context.Context, c *domain.Compilation, replaceEvents bool) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE compilations SET title = $1, pinned = $2 WHERE id = $3`,
		c.Title, c.Pinned, c.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("compilation %d: %w", c.ID, domain.ErrNotFound)
	}
	if replaceEvents {
		if err := replaceCompilationEvents(ctx, tx, c.ID, c.EventIDs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *compilationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("compilation %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *compilationRepository) List(ctx context.Context, pinned *bool, page domain.Page) ([]*domain.Compilation, error) {
	var rows *sql.Rows
	var err error
	if pinned != nil {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT id, title, pinned FROM compilations WHERE pinned = $1 ORDER BY id ASC OFFSET $2 LIMIT $3`,
			*pinned, page.From, page.Size,
		)
	} else {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT id, title, pinned FROM compilations ORDER BY id ASC OFFSET $1 LIMIT $2`,
			page.From, page.Size,
		)
	}
	if err != nil {
		return nil, err
	}
	compilations := make([]*domain.Compilation, 0)
	func() {
		defer rows.Close()
		for rows.Next() {
			c := &domain.Compilation{}
			if err = rows.Scan(&c.ID, &c.Title, &c.Pinned); err != nil {
				return
			}
			compilations = append(compilations, c)
		}
		err = rows.Err()
	}()
	if err != nil {
		return nil, err
	}
	// Membership is loaded per compilation; lists are small and paged.
	for _, c := range compilations {
		if c.EventIDs, err = r.loadEventIDs(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return compilations, nil
}
