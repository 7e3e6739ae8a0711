package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tinyland-inc/replybridge/cmd/replybridge/internal"
	"github.com/tinyland-inc/replybridge/pkg/gateway"
	"github.com/tinyland-inc/replybridge/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	debug      bool
	dryRun     bool
	configPath string
}

func gatewayCmd(opts options) error {
	if opts.debug {
		logger.SetLevel(logger.DEBUG)
		fmt.Println("🔍 Debug mode enabled")
	}

	cfg, err := internal.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	b, err := internal.NewBridge(cfg, opts.dryRun)
	if err != nil {
		return err
	}
	if opts.dryRun {
		fmt.Println("⚠ Dry run: messages are logged, not sent")
	}

	server := gateway.NewServer(gateway.Config{
		Addr:              cfg.Gateway.Addr(),
		ValidateSignature: cfg.Provider.ValidateSignature,
		AuthToken:         cfg.Provider.AuthToken,
		PublicURL:         cfg.Gateway.PublicURL,
	}, b)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("✓ Gateway started on %s\n", cfg.Gateway.Addr())
	fmt.Println("  POST /webhook, POST /send-whatsapp, GET /health, /ready, /metrics")
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorCF("gateway", "Server error", map[string]any{"error": err.Error()})
			return fmt.Errorf("gateway server: %w", err)
		}
		return nil
	case <-sigChan:
	}

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.WarnCF("gateway", "Graceful shutdown incomplete", map[string]any{"error": err.Error()})
	}
	fmt.Println("✓ Gateway stopped")

	return nil
}
