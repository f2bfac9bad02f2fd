package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"eventboard/internal/domain"
)

type hitRepository struct {
	DB *sql.DB
}

func NewHitRepository(db *sql.DB) domain.HitRepository {
	return &hitRepository{
		DB: db,
	}
}

// appID finds or creates the apps row for name. The upsert is a no-op
// update so RETURNING id works on both paths.
func (r *hitRepository) appID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO apps (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`, name,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *hitRepository) Create(ctx context.Context, hit *domain.Hit) error {
	appID, err := r.appID(ctx, hit.App)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO endpoint_hits (app_id, uri, ip, request_timestamp) VALUES ($1, $2, $3, $4)`,
		appID, hit.URI, hit.IP, hit.Timestamp,
	)
	return err
}

func (r *hitRepository) Aggregate(ctx context.Context, f domain.StatsFilter) ([]domain.URIStats, error) {
	count := "COUNT(*)"
	if f.Unique {
		count = "COUNT(DISTINCT h.ip)"
	}
	query := fmt.Sprintf(
		`SELECT a.name, h.uri, %s AS hits
		 FROM endpoint_hits h
		 JOIN apps a ON a.id = h.app_id
		 WHERE h.request_timestamp BETWEEN $1 AND $2`, count)
	args := []interface{}{f.Start, f.End}
	if len(f.URIs) > 0 {
		args = append(args, pq.Array(f.URIs))
		query += fmt.Sprintf(" AND h.uri = ANY($%d)", len(args))
	}
	query += ` GROUP BY a.name, h.uri ORDER BY hits DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stats := make([]domain.URIStats, 0)
	for rows.Next() {
		var s domain.URIStats
		if err := rows.Scan(&s.App, &s.URI, &s.Hits); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
