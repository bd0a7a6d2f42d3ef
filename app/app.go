// Package app wires configuration, storage, messaging, and HTTP into a
// runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Riverside-Racquet-Club/ladder-backend/app/eventbus"
	rankingservice "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/application"
	rankinghandlers "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/handlers"
	"github.com/Riverside-Racquet-Club/ladder-backend/app/shared"
	"github.com/Riverside-Racquet-Club/ladder-backend/config"
	"github.com/Riverside-Racquet-Club/ladder-backend/db/bundb"
)

// App is the assembled service.
type App struct {
	Config         *config.Config
	Logger         *slog.Logger
	DBService      *bundb.DBService
	EventBus       shared.EventBus
	RankingService *rankingservice.RankingService

	registry      *prometheus.Registry
	httpServer    *http.Server
	metricsServer *http.Server
}

// NewApp builds the service from configuration.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := rankingservice.NewMetrics(registry)

	service := rankingservice.NewRankingService(
		dbService.GetDB(),
		dbService.RankingDB,
		bus,
		logger,
		metrics,
	)

	var limiter *rankinghandlers.ClientRateLimiter
	if cfg.HTTP.RateLimit > 0 {
		limiter = rankinghandlers.NewClientRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)
	}

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Mount("/api/rankings", rankinghandlers.Routes(rankinghandlers.NewHandlers(service, logger), limiter))

	a := &App{
		Config:         cfg,
		Logger:         logger,
		DBService:      dbService,
		EventBus:       bus,
		RankingService: service,
		registry:       registry,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	if addr := cfg.Observability.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		a.metricsServer = &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return a, nil
}

// Run serves HTTP until the context is canceled, then shuts down in order:
// servers first, then messaging, then the database.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.Logger.Info("API server listening", slog.String("address", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	if a.metricsServer != nil {
		go func() {
			a.Logger.Info("Metrics server listening", slog.String("address", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("API server shutdown failed", slog.Any("error", err))
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("Metrics server shutdown failed", slog.Any("error", err))
		}
	}

	a.close()
	return nil
}

func (a *App) close() {
	if err := a.EventBus.Close(); err != nil {
		a.Logger.Error("Failed to close event bus", slog.Any("error", err))
	}
	if err := a.DBService.GetDB().Close(); err != nil {
		a.Logger.Error("Failed to close database", slog.Any("error", err))
	}
}
