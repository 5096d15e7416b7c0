package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"storefront/internal/domain"
	"storefront/internal/tracking"
)

func newTrackCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "track <order-id>",
		Short: "Follow an order until it is delivered or cancelled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return track(cmd, env, id)
		},
	}
}

func track(cmd *cobra.Command, env *Env, id int64) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	w := out(cmd)
	last := ""
	var final *tracking.Snapshot
	p := &tracking.Poller{
		Interval: env.Interval,
		Fetch: func(ctx context.Context) (*domain.Order, error) {
			return env.Client.Admin.Order(ctx, env.Token, id)
		},
		OnUpdate: func(o *domain.Order) {
			snap := tracking.NewSnapshot(*o)
			key := snap.Status + "/" + snap.PaymentStatus
			if key != last {
				last = key
				printSnapshot(w, snap)
			}
			if snap.Cancelled || tracking.Rank(snap.Status) >= tracking.Rank(string(domain.OrderDelivered)) {
				final = &snap
				cancel()
			}
		},
		Logger: env.Logger,
	}
	p.Run(ctx)

	if final == nil {
		return cmd.Context().Err()
	}
	return nil
}

func printSnapshot(w io.Writer, s tracking.Snapshot) {
	fmt.Fprintf(w, "order #%d: %s (payment %s)\n", s.OrderID, s.Label, s.PaymentStatus)
	if s.Cancelled {
		fmt.Fprintf(w, "  cancelled: %s\n", s.CancellationReason)
		return
	}
	for _, st := range s.Stages {
		mark := " "
		switch {
		case st.Completed:
			mark = "x"
		case st.Processing:
			mark = "~"
		}
		fmt.Fprintf(w, "  [%s] %s\n", mark, st.Title)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid order id %q", s)
	}
	return id, nil
}
