package send

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/replybridge/cmd/replybridge/internal"
	"github.com/tinyland-inc/replybridge/pkg/bus"
)

func NewSendCommand() *cobra.Command {
	var (
		to         []string
		dryRun     bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Broadcast a message to one or more numbers",
		Args:  cobra.MinimumNArgs(1),
		Example: `  replybridge send --to +15551234567 "Sale today"
  replybridge send --to +15551234567 --to +15557654321 --dry-run "Hello"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(to) == 0 {
				return fmt.Errorf("at least one --to number is required")
			}

			cfg, err := internal.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			b, err := internal.NewBridge(cfg, dryRun)
			if err != nil {
				return err
			}

			sids, err := b.Broadcast(cmd.Context(), bus.BroadcastRequest{
				Recipients: to,
				Message:    strings.Join(args, " "),
			})
			if err != nil {
				return fmt.Errorf("failed to send messages: %w", err)
			}

			for i, sid := range sids {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %s\n", to[i], sid)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&to, "to", nil, "Recipient number (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log messages instead of sending them")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: ~/.replybridge/config.json)")

	return cmd
}
