package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/importer"
	"storefront/internal/logging"
)

func main() {
	var (
		filePath string
		dryRun   bool
	)
	flag.StringVar(&filePath, "file", "", "Path to product CSV (sku,name,price[,description,category,image_url,stock_quantity,is_popular,is_special,is_offer,discount_percentage,is_active])")
	flag.BoolVar(&dryRun, "dry-run", false, "Validate the file without writing to the backend")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := logging.NewWithWriter(os.Stderr, "importer", cfg.LogLevel)
	ctx := context.Background()

	client := api.New(cfg.BackendURL, cfg.BackendTimeout, logger)

	var token string
	if !dryRun {
		if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
			logger.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD are required")
		}
		tok, err := client.Auth.Signin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			logger.Fatal().Err(err).Msg("sign in as admin")
		}
		token = tok.AccessToken
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open file")
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, client.Products, token)
	imp.DryRun = dryRun

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Int("created", res.Created).Int("updated", res.Updated).Msg("import failed")
	}

	if dryRun {
		fmt.Printf("Validated %d products in %s\n", res.Total(), time.Since(start).Truncate(time.Millisecond))
		return
	}
	fmt.Printf("Imported %d products (%d created, %d updated) in %s\n",
		res.Total(), res.Created, res.Updated, time.Since(start).Truncate(time.Millisecond))
}
