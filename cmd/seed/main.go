package main

import (
	"context"
	"os"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.NewWithWriter(os.Stdout, "seed", cfg.LogLevel)

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	ctx := context.Background()
	client := api.New(cfg.BackendURL, cfg.BackendTimeout, logger)
	tok, err := client.Auth.Signin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("sign in as admin")
	}

	res, err := seed.Apply(ctx, client.Banks, client.Products, tok.AccessToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed apply")
	}

	logger.Info().
		Int("banks", res.Banks).
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("unchanged", res.Skipped).
		Msg("seed applied")
}
