package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newMessagesCommand(env *Env) *cobra.Command {
	var (
		unread   bool
		markRead bool
	)
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List contact form messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := env.Client.Contact.List(cmd.Context(), env.Token)
			if err != nil {
				return err
			}
			shown := 0
			for _, m := range msgs {
				if unread && m.IsRead {
					continue
				}
				state := "read"
				if !m.IsRead {
					state = "new"
				}
				fmt.Fprintf(out(cmd), "#%d [%s] %s <%s> %s\n", m.ID, state, m.Name, m.Email, m.CreatedAt.Format("2006-01-02 15:04"))
				fmt.Fprintf(out(cmd), "    %s\n", strings.ReplaceAll(strings.TrimSpace(m.Message), "\n", "\n    "))
				shown++
				if markRead && !m.IsRead {
					if err := env.Client.Contact.MarkRead(cmd.Context(), env.Token, m.ID); err != nil {
						return fmt.Errorf("mark message %d read: %w", m.ID, err)
					}
				}
			}
			if shown == 0 {
				fmt.Fprintln(out(cmd), "no messages")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&unread, "unread", false, "Only unread messages")
	cmd.Flags().BoolVar(&markRead, "mark-read", false, "Mark listed messages as read")
	return cmd
}
