// Package dreamservice boots the dream analysis HTTP service.
package dreamservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dreamdive/dreamdive/internal/api"
	"github.com/dreamdive/dreamdive/internal/config"
	"github.com/dreamdive/dreamdive/internal/factory"
	"github.com/dreamdive/dreamdive/internal/health"
	"github.com/dreamdive/dreamdive/internal/interpreter"
	"github.com/dreamdive/dreamdive/internal/logger"
	"github.com/dreamdive/dreamdive/internal/services"
	"github.com/dreamdive/dreamdive/internal/store"
)

// Run starts the dream service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("dream-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("store_driver", cfg.StoreDriver).
		Int("http_port", cfg.HTTPPort).
		Str("gemini_model", cfg.GeminiModel).
		Msg("Dream service starting")

	// Cancellable root context bound to SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, ai, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}

	svcHealth := startHealthCheckers(ctx, cfg, log, st, ai)

	router := api.NewRouter(api.RouterDeps{
		Store:      st,
		Auth:       services.NewAuthService(st),
		Dreams:     services.NewDreamService(st, ai, services.QuotaPolicy{Guest: cfg.GuestQuota, User: cfg.UserQuota}),
		SessionTTL: cfg.SessionTTL,
		Healthy:    svcHealth.IsHealthy,
		Log:        log,
	})

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies constructs the store and the interpreter, failing fast
// when either cannot be configured.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, interpreter.Interpreter, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, nil, err
	}

	ai, err := factory.NewInterpreter(cfg)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Interpreter unavailable")
		return nil, nil, err
	}
	return st, ai, nil
}

// startHealthCheckers starts per-dependency probes and the service-level
// aggregator. Dependencies without a health probe are skipped.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, deps ...any) *health.ServiceChecker {
	names := []string{"store", "interpreter"}
	var checkers []health.Checker
	for i, dep := range deps {
		pinger, ok := dep.(health.HealthPinger)
		if !ok {
			continue
		}
		c := health.NewPingChecker(names[i], pinger, log, cfg.HealthProbeTimeout)
		go c.Start(ctx, cfg.HealthInterval)
		checkers = append(checkers, c)
	}

	svcHealth := health.NewServiceChecker(log, checkers...)
	go svcHealth.Start(ctx, cfg.HealthInterval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second, // analysis calls wait on the model
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}
