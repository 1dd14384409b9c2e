package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/ports"
	"strings"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPointsQuery := `
	CREATE TABLE IF NOT EXISTS delivery_points (
		point_id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		address TEXT NOT NULL DEFAULT ''
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_delivery_points_position
    ON delivery_points(position, point_id);
	`

	statements := []string{
		createPointsQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// PointSeed is one entry of the seed file. Coordinates may be omitted when
// an address is given; those entries are resolved through a Geocoder.
type PointSeed struct {
	ID      string   `json:"id"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Address string   `json:"address"`
}

// Read the seed file and resolve it to points, geocoding address-only entries.
// geocoder may be nil when every entry carries coordinates.
func LoadSeedFile(ctx context.Context, jsonPath string, geocoder ports.Geocoder) ([]domain.Point, []string, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, nil, fmt.Errorf("seed points: read %q: %w", jsonPath, err)
	}

	var data []PointSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, nil, fmt.Errorf("seed points: parse json: %w", err)
	}

	return ResolveSeeds(ctx, data, geocoder)
}

// ResolveSeeds validates seed entries and returns points plus their addresses,
// both in seed order.
func ResolveSeeds(ctx context.Context, data []PointSeed, geocoder ports.Geocoder) ([]domain.Point, []string, error) {
	seen := make(map[string]struct{}, len(data))
	pending := make([]string, 0)
	for i, item := range data {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, nil, fmt.Errorf("seed points: item at index %d: id cannot be empty", i)
		}
		if _, dup := seen[id]; dup {
			return nil, nil, fmt.Errorf("seed points: item at index %d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}

		hasCoords := item.Lat != nil && item.Lon != nil
		addr := normalizeAddress(item.Address)
		if !hasCoords && addr == "" {
			return nil, nil, fmt.Errorf("seed points: item %q: needs lat/lon or an address", id)
		}
		if !hasCoords {
			pending = append(pending, addr)
		}
	}

	resolved := map[string]domain.Point{}
	if len(pending) > 0 {
		if geocoder == nil {
			return nil, nil, fmt.Errorf("seed points: %d entries need geocoding but no geocoder is configured", len(pending))
		}

		var err error
		resolved, err = geocoder.Geocode(ctx, pending)
		if err != nil {
			return nil, nil, fmt.Errorf("seed points: geocode: %w", err)
		}
	}

	points := make([]domain.Point, 0, len(data))
	addresses := make([]string, 0, len(data))
	for _, item := range data {
		id := strings.TrimSpace(item.ID)
		addr := normalizeAddress(item.Address)

		var p domain.Point
		if item.Lat != nil && item.Lon != nil {
			p = domain.Point{ID: id, Lat: *item.Lat, Lon: *item.Lon}
		} else {
			c, ok := resolved[addr]
			if !ok {
				return nil, nil, fmt.Errorf("seed points: item %q: address %q could not be geocoded", id, addr)
			}
			p = domain.Point{ID: id, Lat: c.Lat, Lon: c.Lon}
		}

		if !p.IsFinite() {
			return nil, nil, fmt.Errorf("seed points: item %q: non-finite coordinates", id)
		}
		points = append(points, p)
		addresses = append(addresses, addr)
	}

	return points, addresses, nil
}

// Replace the stored point set. Position keeps the input order, which the
// router relies on for tie-breaking.
func SeedPoints(ctx context.Context, db *sql.DB, points []domain.Point, addresses []string) error {
	if db == nil {
		return errors.New("seed points: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed points: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM delivery_points;`); err != nil {
		return fmt.Errorf("seed points: clear table: %w", err)
	}

	query := `
	INSERT INTO delivery_points (
		point_id,
		position,
		lat,
		lon,
		address
	)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (point_id) DO UPDATE
	SET position = EXCLUDED.position,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		address = EXCLUDED.address;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed points: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range points {
		addr := ""
		if i < len(addresses) {
			addr = addresses[i]
		}
		if _, err := stmt.ExecContext(ctx, p.ID, i, p.Lat, p.Lon, addr); err != nil {
			return fmt.Errorf("seed points: insert point_id=%q: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed points: commit tx: %w", err)
	}

	return nil
}

// normalizeAddress collapses whitespace so geocode keys stay consistent.
func normalizeAddress(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
