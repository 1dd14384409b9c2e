package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/obs"
)

// Postgres-backed implementation of the PointRepository port.
type PostgresPointRepository struct{ DB *sql.DB }

func NewPostgresPointRepository(db *sql.DB) *PostgresPointRepository {
	return &PostgresPointRepository{DB: db}
}

// Return all points stored in the database in seed order.
func (s *PostgresPointRepository) ListPoints(ctx context.Context) (_ []domain.Point, err error) {
	defer obs.Time(ctx, "points.ListPoints")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres point repository: DB is nil")
	}

	query := `
	SELECT
		point_id,
		lat,
		lon
	FROM delivery_points
	ORDER BY position, point_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list points: query delivery_points table: %w", err)
	}
	defer rows.Close()

	points := make([]domain.Point, 0, 64)
	for rows.Next() {
		var p domain.Point
		if err := rows.Scan(&p.ID, &p.Lat, &p.Lon); err != nil {
			return nil, fmt.Errorf("list points: scan row: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list points: row iteration: %w", err)
	}

	return points, nil
}
