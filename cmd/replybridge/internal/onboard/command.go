package onboard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/replybridge/cmd/replybridge/internal"
	"github.com/tinyland-inc/replybridge/pkg/config"
)

func NewOnboardCommand() *cobra.Command {
	var force bool
	var prompt bool
	var path string

	cmd := &cobra.Command{
		Use:     "onboard",
		Aliases: []string{"o"},
		Short:   "Write a default config file",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = internal.GetConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
			cfg := config.DefaultConfig()
			if prompt {
				sid, token, err := readCredentials(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				cfg.Provider.AccountSID, cfg.Provider.AuthToken = sid, token
			}
			if err := config.SaveConfig(path, cfg); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Config written to %s\n", internal.Logo, path)
			fmt.Fprintln(out, "\nNext steps:")
			fmt.Fprintln(out, "  1. Set ACCOUNT_SID and AUTH_TOKEN (config file, environment or .env)")
			fmt.Fprintln(out, "  2. Point the provider's incoming-message webhook at http://<host>:<port>/webhook")
			fmt.Fprintln(out, "  3. Run: replybridge gateway")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")
	cmd.Flags().BoolVarP(&prompt, "credentials", "c", false, "Prompt for the Twilio account SID and auth token")
	cmd.Flags().StringVar(&path, "config", "", "Config file path (default: ~/.replybridge/config.json)")

	return cmd
}

// readCredentials asks for the account SID and auth token, one per line.
func readCredentials(in io.Reader, out io.Writer) (string, string, error) {
	scanner := bufio.NewScanner(in)
	read := func(label string) (string, error) {
		fmt.Fprintf(out, "%s: ", label)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("reading %s: %w", label, err)
			}
			return "", errors.New("no input received")
		}
		v := strings.TrimSpace(scanner.Text())
		if v == "" {
			return "", fmt.Errorf("%s cannot be empty", label)
		}
		return v, nil
	}

	sid, err := read("Account SID")
	if err != nil {
		return "", "", err
	}
	token, err := read("Auth token")
	if err != nil {
		return "", "", err
	}
	fmt.Fprintln(out)
	return sid, token, nil
}
