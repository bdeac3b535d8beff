package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
	"github.com/aryan0dhankhar/rentalregistry/internal/fixtures"
	"github.com/aryan0dhankhar/rentalregistry/internal/handler"
	"github.com/aryan0dhankhar/rentalregistry/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/rentalregistry/internal/observability/metrics"
	"github.com/aryan0dhankhar/rentalregistry/internal/observability/tracing"
	"github.com/aryan0dhankhar/rentalregistry/internal/reliability/circuitbreaker"
	"github.com/aryan0dhankhar/rentalregistry/internal/reliability/retry"
	"github.com/aryan0dhankhar/rentalregistry/internal/repository"
	"github.com/aryan0dhankhar/rentalregistry/internal/security/auth"
	"github.com/aryan0dhankhar/rentalregistry/internal/security/middleware"
	"github.com/aryan0dhankhar/rentalregistry/internal/security/ratelimit"
	"github.com/aryan0dhankhar/rentalregistry/internal/service"
	"github.com/aryan0dhankhar/rentalregistry/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting rental registry",
		slog.String("environment", cfg.Environment),
		slog.String("store", cfg.StoreBackend),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing (no-op without an OTLP endpoint)
	shutdownTracing, err := tracing.Init(ctx, log, "rentalregistry", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Open the storage binding, retrying while the backend comes up
	store, err := retry.Do(ctx, retry.DefaultConfig(), log, "open "+cfg.StoreBackend+" store",
		func(ctx context.Context) (domain.Store, error) {
			return repository.Open(ctx, cfg, log)
		})
	if err != nil {
		log.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	if cfg.SeedFixtures {
		set, err := fixtures.Default()
		if err != nil {
			log.Error("failed to load fixtures", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if _, err := fixtures.Seed(ctx, store, set, log); err != nil {
			log.Error("failed to seed fixtures", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// 5. Registry and handlers
	registry := service.NewRegistry(store, log, service.WithExpiringWindow(cfg.ExpiringWindowDays))
	validator := handler.NewValidator(nil)
	dashboard := handler.NewDashboardHandler(registry, cfg.DashboardCacheTTL, log)

	mux := http.NewServeMux()
	handler.NewPropertyHandler(registry, validator, log).RegisterRoutes(mux)
	handler.NewApartmentHandler(registry, validator, log).RegisterRoutes(mux)
	handler.NewTenantHandler(registry, validator, log).RegisterRoutes(mux)
	handler.NewContractHandler(registry, validator, log).RegisterRoutes(mux)
	dashboard.RegisterRoutes(mux)
	storeBreaker := circuitbreaker.New(3, 1, 15*time.Second)
	storeBreaker.OnStateChange(func(from, to circuitbreaker.State) {
		log.Warn("store circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})
	handler.NewHealthHandler(map[string]handler.Pinger{
		"store": handler.BreakerPinger{Pinger: registry, Breaker: storeBreaker},
	}, log).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	// 6. Security components
	var tokenManager *auth.TokenManager
	if cfg.AuthJWTSecret != "" {
		tokenManager, err = auth.NewTokenManager(cfg.AuthJWTSecret, auth.DefaultIssuer)
		if err != nil {
			log.Error("failed to initialize token manager", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		log.Warn("AUTH_JWT_SECRET not set: write endpoints are unauthenticated")
	}
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)

	// Chain middleware: tracing -> request ID -> CORS -> rate limit -> JWT -> content type -> cache invalidation -> metrics -> mux
	var root http.Handler = metrics.HTTPMetricsMiddleware(mux)
	root = dashboard.InvalidateOnWrite(root)
	root = middleware.JSONContentTypeMiddleware(log)(root)
	root = middleware.JWTMiddleware(tokenManager, log)(root)
	root = middleware.RateLimitMiddleware(rateLimiter, log)(root)
	root = middleware.CORSMiddleware(cfg.CORSAllowedOrigins)(root)
	root = middleware.RequestIDMiddleware(log)(root)
	root = otelhttp.NewHandler(root, "rentalregistry")

	// 7. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Bool("auth", tokenManager != nil),
		slog.Int("rate_limit_per_minute", cfg.RateLimitPerMinute),
		slog.Int("expiring_window_days", registry.ExpiringWindow()),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	rateLimiter.Stop()
	log.Info("server stopped")
}
