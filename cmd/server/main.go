package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"rota-inteligente/internal/adapters/cache"
	"rota-inteligente/internal/adapters/events"
	"rota-inteligente/internal/adapters/repositories"
	"rota-inteligente/internal/api"
	"rota-inteligente/internal/api/handlers"
	"rota-inteligente/internal/config"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/db"
	"rota-inteligente/internal/platform/logging"
	"syscall"
	"time"

	"github.com/spf13/pflag"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, NATS) behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("server", pflag.ExitOnError)
	config.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	deps := api.Deps{
		Defaults: handlers.PlanDefaults{
			Depot:         domain.Point{ID: "depot", Lat: cfg.Planner.DepotLat, Lon: cfg.Planner.DepotLon},
			K:             cfg.Planner.K,
			Seed:          cfg.Planner.Seed,
			MaxIterations: cfg.Planner.MaxIterations,
			Workers:       cfg.Planner.Workers,
		},
	}

	// Every backing service is optional: without a database the API only
	// plans inline points, without Redis or NATS it skips caching and events.
	var conn *sql.DB
	if cfg.Database.URL != "" {
		conn, err = db.Open(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer conn.Close()
		deps.Repo = repositories.NewPostgresPointRepository(conn)
	} else {
		slog.Warn("database.url not set; GET /points disabled and plans need inline points")
	}

	if client := cache.OpenRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); client != nil {
		defer client.Close()
		ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
		deps.Cache = cache.NewRedisPlanCache(client, ttl)
	}

	if cfg.NATS.URL != "" {
		pub, err := events.Connect(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return err
		}
		defer pub.Close()
		deps.Publisher = pub
	}

	logWiring(deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func logWiring(d api.Deps) {
	slog.Info("adapters wired",
		"points", d.Repo != nil,
		"plan_cache", d.Cache != nil,
		"events", d.Publisher != nil,
	)
}
