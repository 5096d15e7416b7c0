package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	"storefront/internal/session"
	"storefront/internal/telemetry"
)

// sweepInterval is how often expired sessions are purged from stores that
// do not expire entries on their own.
const sweepInterval = 15 * time.Minute

func main() {
	cfg := config.FromEnv()
	logger := logging.NewWithWriter(os.Stdout, "web", cfg.LogLevel)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing, "storefront-web", os.Stdout)
	if err != nil {
		logger.Fatal().Err(err).Msg("init tracing")
	}

	store, closeStore, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.SessionStore).Msg("open session store")
	}
	defer closeStore()

	client := api.New(cfg.BackendURL, cfg.BackendTimeout, logger.With().Str("component", "api").Logger())
	sessions := session.NewManager(store, client.Auth, session.Options{
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	}, logger)

	publisher := events.FromConfig(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	defer publisher.Close()

	deps := httpserver.DepsFromClient(client)
	deps.Sessions = sessions
	deps.Events = publisher
	deps.CORSOrigins = cfg.CORSOrigins
	deps.PollInterval = cfg.PollInterval

	srv, err := httpserver.New(cfg.HTTPAddr, logger, deps)
	if err != nil {
		logger.Fatal().Err(err).Msg("init server")
	}

	go session.RunSweeper(ctx, store, sweepInterval, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("backend", client.BaseURL()).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}
	// Ends the sweeper; Shutdown closes open event streams.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("flush traces")
	}
}

// openSessionStore picks the store named by SESSION_STORE. The returned
// func releases its connections.
func openSessionStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case "", "memory":
		logger.Warn().Msg("using in-memory sessions; they are lost on restart")
		return session.NewMemoryStore(), func() {}, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
		return session.NewPostgresStoreFromPool(pool), pool.Close, nil
	case "redis":
		client, err := session.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
