package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"rota-inteligente/internal/adapters/repositories"
	"rota-inteligente/internal/adapters/synthetic"
	"rota-inteligente/internal/config"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/db"
	"rota-inteligente/internal/platform/logging"
	"rota-inteligente/internal/ports"
	"rota-inteligente/internal/services"

	"github.com/spf13/pflag"
)

// planner runs one partition-and-route pass and prints the per-courier report.
func main() {
	fs := pflag.NewFlagSet("planner", pflag.ExitOnError)
	config.BindFlags(fs)
	fromDB := fs.Bool("from-db", false, "plan the points stored in Postgres instead of generated ones")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(context.Background(), cfg, *fromDB); err != nil {
		slog.Error("planning failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, fromDB bool) error {
	depot := domain.Point{ID: "depot", Lat: cfg.Planner.DepotLat, Lon: cfg.Planner.DepotLon}

	req := services.PlanDeliveriesRequest{
		Depot:         depot,
		K:             cfg.Planner.K,
		Seed:          cfg.Planner.Seed,
		MaxIterations: cfg.Planner.MaxIterations,
		Workers:       cfg.Planner.Workers,
	}

	var repo ports.PointRepository
	if fromDB {
		if cfg.Database.URL == "" {
			return errors.New("--from-db needs database.url")
		}
		conn, err := db.Open(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer conn.Close()
		repo = repositories.NewPostgresPointRepository(conn)
	} else {
		points, err := synthetic.Generate(synthetic.Options{
			Count:     cfg.Synthetic.Count,
			Center:    depot,
			LatStdDev: cfg.Synthetic.LatStdDev,
			LonStdDev: cfg.Synthetic.LonStdDev,
			Seed:      cfg.Synthetic.Seed,
		})
		if err != nil {
			return err
		}
		req.Points = points
	}

	plan, err := services.PlanDeliveries(ctx, req, repo, nil, nil)
	if err != nil {
		return err
	}

	return writeReport(os.Stdout, plan)
}
