package main

import (
	"context"
	"flag"
	"os"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logging"
	"storefront/internal/migrate"
)

func main() {
	var (
		down    bool
		version bool
	)
	flag.BoolVar(&down, "down", false, "Revert the last applied migration")
	flag.BoolVar(&version, "version", false, "Print the applied schema version")
	flag.Parse()

	cfg := config.FromEnv()
	logger := logging.NewWithWriter(os.Stdout, "migrate", cfg.LogLevel)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	switch {
	case version:
		v, dirty, err := migrate.Version(ctx, pool)
		if err != nil {
			logger.Fatal().Err(err).Msg("read schema version")
		}
		logger.Info().Uint("version", v).Bool("dirty", dirty).Msg("schema version")
	case down:
		if err := migrate.Rollback(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("rollback migration")
		}
		logger.Info().Msg("last migration reverted")
	default:
		if err := migrate.Apply(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
		logger.Info().Msg("migrations applied")
	}
}
