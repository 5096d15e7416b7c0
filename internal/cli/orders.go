package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront/internal/domain"
)

func newOrdersCommand(env *Env) *cobra.Command {
	var (
		status string
		skip   int
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				if _, ok := domain.ParseOrderStatus(status); !ok {
					return fmt.Errorf("unknown status %q", status)
				}
			}
			page, err := env.Client.Admin.Orders(cmd.Context(), env.Token, skip, limit, status)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tPAYMENT\tTOTAL\tCUSTOMER\tPLACED")
			for _, o := range page.Orders {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					o.ID, o.Status, o.PaymentStatus, domain.FormatNaira(o.TotalAmount),
					customer(o), o.CreatedAt.Format("2006-01-02 15:04"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%d of %d orders\n", len(page.Orders), page.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only orders with this status")
	cmd.Flags().IntVar(&skip, "skip", 0, "Orders to skip")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum orders to list")
	return cmd
}

func customer(o domain.Order) string {
	if o.User == nil {
		return fmt.Sprintf("user %d", o.UserID)
	}
	return o.User.Email
}

func newConfirmPaymentCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm-payment <order-id>",
		Short: "Mark an order's bank transfer as received",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := env.Client.Admin.ConfirmPayment(cmd.Context(), env.Token, id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "payment confirmed for order #%d\n", id)
			return nil
		},
	}
}
