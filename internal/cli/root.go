// Package cli is the storefrontctl operator command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/logging"
)

// Env is what every subcommand needs once signed in.
type Env struct {
	Client   *api.Client
	Token    string
	Interval time.Duration
	Logger   zerolog.Logger
}

// Connector signs in and returns a ready Env.
type Connector func(ctx context.Context) (*Env, error)

// FromConfig signs in as the configured admin.
func FromConfig(cfg config.Config) Connector {
	return func(ctx context.Context) (*Env, error) {
		if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
			return nil, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required")
		}
		logger := logging.NewWithWriter(os.Stderr, "storefrontctl", cfg.LogLevel)
		client := api.New(cfg.BackendURL, cfg.BackendTimeout, logger)
		tok, err := client.Auth.Signin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("sign in as admin: %w", err)
		}
		return &Env{
			Client:   client,
			Token:    tok.AccessToken,
			Interval: cfg.PollInterval,
			Logger:   logger,
		}, nil
	}
}

// NewRootCommand builds storefrontctl. connect runs once, before any
// subcommand, so --help never touches the backend.
func NewRootCommand(connect Connector) *cobra.Command {
	var env Env
	root := &cobra.Command{
		Use:   "storefrontctl",
		Short: "Operate the storefront backend from a terminal",
		Long: `storefrontctl signs in with the configured admin account and
inspects or updates orders and contact messages on the ordering backend.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			env = *e
			return nil
		},
	}

	root.AddCommand(
		newTrackCommand(&env),
		newOrdersCommand(&env),
		newConfirmPaymentCommand(&env),
		newMessagesCommand(&env),
	)
	return root
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
