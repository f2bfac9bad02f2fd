package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventboard/internal/domain"
)

type locationRepository struct {
	DB *sql.DB
}

func NewLocationRepository(db *sql.DB) domain.LocationRepository {
	return &locationRepository{
		DB: db,
	}
}

// GetOrCreate deduplicates locations by exact coordinate match.
func (r *locationRepository) GetOrCreate(ctx context.Context, lat, lon float64) (*domain.Location, error) {
	loc := &domain.Location{Lat: lat, Lon: lon}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM locations WHERE lat = $1 AND lon = $2`, lat, lon,
	).Scan(&loc.ID)
	if errors.Is(err, sql.ErrNoRows) {
		err = r.DB.QueryRowContext(ctx,
			`INSERT INTO locations (lat, lon) VALUES ($1, $2) RETURNING id`, lat, lon,
		).Scan(&loc.ID)
	}
	if err != nil {
		return nil, err
	}
	return loc, nil
}
