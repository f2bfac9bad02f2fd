package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventboard/internal/domain"
)

const commentColumns = `c.id, c.text, c.author_id, u.name, c.event_id, c.created, c.last_updated`

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &commentRepository{
		DB: db,
	}
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	c := &domain.Comment{}
	var lastUpdated sql.NullTime
	err := row.Scan(&c.ID, &c.Text, &c.AuthorID, &c.AuthorName, &c.EventID, &c.Created, &lastUpdated)
	if err != nil {
		return nil, err
	}
	if lastUpdated.Valid {
		updated := domain.NewDateTime(lastUpdated.Time)
		c.LastUpdated = &updated
	}
	return c, nil
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	return r.DB.QueryRowContext(ctx,
		`INSERT INTO comments (text, author_id, event_id, created) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Text, c.AuthorID, c.EventID, c.Created,
	).Scan(&c.ID)
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	c, err := scanComment(r.DB.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments c JOIN users u ON u.id = c.author_id WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *commentRepository) Update(ctx context.Context, c *domain.Comment) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE comments SET text = $1, last_updated = $2 WHERE id = $3`,
		c.Text, c.LastUpdated, c.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("comment %d: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("comment %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *commentRepository) collect(rows *sql.Rows) ([]*domain.Comment, error) {
	defer rows.Close()
	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) ListByAuthor(ctx context.Context, authorID int64, page domain.Page) ([]*domain.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.author_id = $1 ORDER BY c.created DESC OFFSET $2 LIMIT $3`,
		authorID, page.From, page.Size,
	)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *commentRepository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.event_id = $1 ORDER BY c.created DESC`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}
