package reply

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/replybridge/cmd/replybridge/internal"
	"github.com/tinyland-inc/replybridge/pkg/reply"
)

func NewReplyCommand() *cobra.Command {
	var configPath string
	var list bool

	cmd := &cobra.Command{
		Use:   "reply [text]",
		Short: "Show the reply the gateway would send for a message",
		Example: `  replybridge reply hello
  replybridge reply "  STATUS "
  replybridge reply --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := internal.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			sel := reply.NewSelector(cfg.Replies.Table, cfg.Replies.Fallback)
			if list {
				printTable(cmd.OutOrStdout(), sel)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("message text is required")
			}
			fmt.Fprintln(cmd.OutOrStdout(), sel.Select(strings.Join(args, " ")))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: ~/.replybridge/config.json)")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List known keywords and their replies")

	return cmd
}

func printTable(w io.Writer, sel *reply.Selector) {
	for _, k := range sel.Keywords() {
		fmt.Fprintf(w, "%-12s %s\n", k, sel.Select(k))
	}
	fmt.Fprintf(w, "%-12s %s\n", "(fallback)", sel.Fallback())
}
