package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"rota-inteligente/internal/adapters/cache"
	"rota-inteligente/internal/adapters/geocode"
	"rota-inteligente/internal/adapters/repositories"
	"rota-inteligente/internal/adapters/synthetic"
	"rota-inteligente/internal/config"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/db"
	"rota-inteligente/internal/platform/logging"
	"rota-inteligente/internal/ports"
	"strings"

	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("dbtool", pflag.ExitOnError)
	config.BindFlags(fs)
	useSynthetic := fs.Bool("synthetic", false, "seed generated points instead of the seed file")
	seedPath := fs.String("seed-path", "", "seed file (defaults to seed_path from config)")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if strings.TrimSpace(cfg.Database.URL) == "" {
		slog.Error("database.url is required (ROTA_DATABASE_URL or --database-url)")
		os.Exit(1)
	}

	conn, err := db.Open(cfg.Database.URL)
	if err != nil {
		slog.Error("open database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	path := *seedPath
	if path == "" {
		path = cfg.SeedPath
	}

	if err := initAndSeed(context.Background(), conn, cfg, path, *useSynthetic); err != nil {
		slog.Error("dbtool failed", "error", err)
		conn.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, cfg *config.Config, seedPath string, useSynthetic bool) error {
	slog.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	slog.Info("schema ready")

	var (
		points    []domain.Point
		addresses []string
		err       error
	)

	if useSynthetic {
		points, err = synthetic.Generate(synthetic.Options{
			Count:     cfg.Synthetic.Count,
			Center:    domain.Point{Lat: cfg.Planner.DepotLat, Lon: cfg.Planner.DepotLon},
			LatStdDev: cfg.Synthetic.LatStdDev,
			LonStdDev: cfg.Synthetic.LonStdDev,
			Seed:      cfg.Synthetic.Seed,
		})
		if err != nil {
			return err
		}
		addresses = make([]string, len(points))
	} else {
		var geocoder ports.Geocoder
		if cfg.ORS.APIKey != "" {
			// Address-only seed entries are resolved through ORS, backed by
			// the geocode_cache table so reseeding costs no API calls.
			g, err := geocode.NewORSGeocoder(
				cfg.ORS.APIKey,
				cache.NewSQLGeocodeCache(conn),
				geocode.WithBaseURL(cfg.ORS.BaseURL),
				geocode.WithCountry(cfg.ORS.Country),
			)
			if err != nil {
				return err
			}
			geocoder = g
		}

		points, addresses, err = repositories.LoadSeedFile(ctx, seedPath, geocoder)
		if err != nil {
			return err
		}
	}

	slog.Info("seeding database", "points", len(points), "synthetic", useSynthetic)
	if err := repositories.SeedPoints(ctx, conn, points, addresses); err != nil {
		return err
	}
	slog.Info("seeding complete")

	return nil
}
