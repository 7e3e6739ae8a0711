// ReplyBridge - WhatsApp keyword auto-reply and broadcast gateway
// License: MIT
//
// Copyright (c) 2026 ReplyBridge contributors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/replybridge/cmd/replybridge/internal"
	"github.com/tinyland-inc/replybridge/cmd/replybridge/internal/gateway"
	"github.com/tinyland-inc/replybridge/cmd/replybridge/internal/onboard"
	"github.com/tinyland-inc/replybridge/cmd/replybridge/internal/reply"
	"github.com/tinyland-inc/replybridge/cmd/replybridge/internal/send"
	"github.com/tinyland-inc/replybridge/cmd/replybridge/internal/version"
)

func NewReplybridgeCommand() *cobra.Command {
	short := fmt.Sprintf("%s replybridge - WhatsApp auto-reply gateway v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:     "replybridge",
		Short:   short,
		Example: "replybridge gateway --dry-run",
	}

	cmd.AddCommand(
		onboard.NewOnboardCommand(),
		gateway.NewGatewayCommand(),
		reply.NewReplyCommand(),
		send.NewSendCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewReplybridgeCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
