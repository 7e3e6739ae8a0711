package gateway

import (
	"github.com/spf13/cobra"
)

func NewGatewayCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "gateway",
		Aliases: []string{"g"},
		Short:   "Start the webhook and broadcast HTTP gateway",
		Args:    cobra.NoArgs,
		Example: `  replybridge gateway
  replybridge gateway --dry-run --debug
  replybridge gateway --config ./config.json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return gatewayCmd(opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Log outbound messages instead of sending them")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file path (default: ~/.replybridge/config.json)")

	return cmd
}
