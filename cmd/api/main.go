package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"itemkeeper/internal/config"
	hhttp "itemkeeper/internal/handler/http"
	hitem "itemkeeper/internal/handler/http/item"
	"itemkeeper/internal/handler/http/requestid"
	pgRepo "itemkeeper/internal/infra/adapter/persistence/postgres"
	"itemkeeper/internal/infra/db"
	"itemkeeper/internal/observability/logging"
	"itemkeeper/internal/observability/metrics"
	"itemkeeper/internal/observability/system"
	itemUC "itemkeeper/internal/usecase/item"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	reg := metrics.NewRegistry()
	sampler := system.NewSampler(reg, logger)

	svc := &itemUC.Service{
		Repo:    pgRepo.NewItemRepo(database, reg),
		Metrics: reg,
	}
	if err := svc.RefreshCount(context.Background()); err != nil {
		logger.Warn("failed to initialize item count gauge", slog.Any("error", err))
	}

	handler := setupServer(logger, cfg, database, reg, sampler, svc)
	runServer(logger, cfg, database, reg, sampler, handler)
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer wires routes and the middleware chain into a single handler.
func setupServer(
	logger *slog.Logger,
	cfg *config.AppConfig,
	database *sql.DB,
	reg *metrics.Registry,
	sampler *system.Sampler,
	svc *itemUC.Service,
) http.Handler {
	version := getVersion()

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", hhttp.RootHandler{Version: version})
	mux.Handle("GET /health", hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("GET "+metrics.ExpositionPath, metrics.ExpositionHandler(reg, sampler))
	hitem.Register(mux, svc)

	// Middleware order, outermost first: request ID, logging, rate limit,
	// body limit, instrumentation, recovery. Instrumentation wraps recovery
	// so a panic is recorded as a 500 rather than lost.
	chain := http.Handler(mux)
	chain = hhttp.Recover(logger)(chain)
	chain = metrics.Instrument(reg, hhttp.PathLabel)(chain)
	chain = hhttp.LimitRequestBody(cfg.MaxBodyBytes)(chain)
	if cfg.RateLimitEnabled {
		chain = hhttp.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware(chain)
		logger.Info("rate limiting enabled",
			slog.Float64("requests_per_second", cfg.RateLimitRPS),
			slog.Int("burst", cfg.RateLimitBurst))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}
	chain = hhttp.Logging(logger)(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and the background sampler, then handles
// graceful shutdown on SIGINT/SIGTERM.
func runServer(
	logger *slog.Logger,
	cfg *config.AppConfig,
	database *sql.DB,
	reg *metrics.Registry,
	sampler *system.Sampler,
	handler http.Handler,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sampler.Run(gctx, cfg.SampleInterval)
		return nil
	})

	// Pool gauges track the database, not a request, so they refresh on the
	// same cadence as the system sampler.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SampleInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				stats := database.Stats()
				reg.UpdateDBConnectionStats(stats.InUse, stats.Idle)
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
