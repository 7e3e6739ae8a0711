package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/tinyland-inc/replybridge/pkg/bridge"
	"github.com/tinyland-inc/replybridge/pkg/channels"
	"github.com/tinyland-inc/replybridge/pkg/config"
	"github.com/tinyland-inc/replybridge/pkg/reply"
)

const Logo = "📨"

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".replybridge", "config.json")
}

// LoadConfig reads ./.env, then the JSON config at path (or the default
// location when path is empty), then environment overrides.
func LoadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if path == "" {
		path = GetConfigPath()
	}
	return config.LoadConfig(path)
}

// NewChannel returns the Twilio channel, or a stub that only logs when dryRun
// is set.
func NewChannel(cfg *config.Config, dryRun bool) (channels.Channel, error) {
	if dryRun {
		return channels.NewStubChannel(cfg.Webhook.AllowFrom), nil
	}
	ch, err := channels.NewTwilioChannel(channels.TwilioConfig{
		AccountSID: cfg.Provider.AccountSID,
		AuthToken:  cfg.Provider.AuthToken,
		APIBase:    cfg.Provider.APIBase,
		Timeout:    cfg.Provider.Timeout(),
		AllowFrom:  cfg.Webhook.AllowFrom,
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// NewBridge validates cfg and wires the selector and channel into a Bridge.
func NewBridge(cfg *config.Config, dryRun bool) (*bridge.Bridge, error) {
	if err := cfg.Validate(dryRun); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ch, err := NewChannel(cfg, dryRun)
	if err != nil {
		return nil, fmt.Errorf("error creating channel: %w", err)
	}
	return bridge.New(bridge.Options{
		Channel:       ch,
		Selector:      reply.NewSelector(cfg.Replies.Table, cfg.Replies.Fallback),
		SystemAddress: cfg.Provider.SystemAddress,
		ReplyTo:       bridge.ReplyRoute(cfg.Routing.ReplyTo),
		AddressPrefix: cfg.Routing.AddressPrefix,
	})
}

// FormatVersion returns the version string with optional git commit
func FormatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// FormatBuildInfo returns build time and go version info
func FormatBuildInfo() (string, string) {
	build := buildTime
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return build, goVer
}

func GetVersion() string {
	return version
}
