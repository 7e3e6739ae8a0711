package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tinyland-inc/replybridge/pkg/bridge"
	"github.com/tinyland-inc/replybridge/pkg/reply"
)

// DefaultSystemAddress is the Twilio WhatsApp sandbox sender.
const DefaultSystemAddress = "whatsapp:+14155238886"

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so allow_from can contain both "+15551234567" and 15551234567.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

type Config struct {
	Provider ProviderConfig `json:"provider"`
	Gateway  GatewayConfig  `json:"gateway"`
	Replies  RepliesConfig  `json:"replies"`
	Routing  RoutingConfig  `json:"routing"`
	Webhook  WebhookConfig  `json:"webhook"`
}

// ProviderConfig holds the Twilio account used for outbound messages.
// ACCOUNT_SID and AUTH_TOKEN keep the names the service has always used.
type ProviderConfig struct {
	AccountSID        string `env:"ACCOUNT_SID"                             json:"account_sid"`
	AuthToken         string `env:"AUTH_TOKEN"                              json:"auth_token"`
	APIBase           string `env:"REPLYBRIDGE_PROVIDER_API_BASE"           json:"api_base,omitempty"`
	SystemAddress     string `env:"REPLYBRIDGE_PROVIDER_SYSTEM_ADDRESS"     json:"system_address"`
	TimeoutSeconds    int    `env:"REPLYBRIDGE_PROVIDER_TIMEOUT_SECONDS"    json:"timeout_seconds"`
	ValidateSignature bool   `env:"REPLYBRIDGE_PROVIDER_VALIDATE_SIGNATURE" json:"validate_signature"`
}

func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

type GatewayConfig struct {
	Host string `env:"REPLYBRIDGE_GATEWAY_HOST" json:"host"`
	Port int    `env:"PORT"                     json:"port"`
	// PublicURL is the externally visible base URL the provider calls; it is
	// needed to verify webhook signatures behind a proxy.
	PublicURL string `env:"REPLYBRIDGE_GATEWAY_PUBLIC_URL" json:"public_url,omitempty"`
}

func (g GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// RepliesConfig is the keyword table. In the environment the table is written
// as "hello=Hi there;bye=Goodbye", so a reply containing ';' can only be set in
// the JSON file.
type RepliesConfig struct {
	Table    map[string]string `env:"REPLYBRIDGE_REPLIES_TABLE" envSeparator:";" envKeyValSeparator:"=" json:"table"`
	Fallback string            `env:"REPLYBRIDGE_REPLIES_FALLBACK"                                      json:"fallback"`
}

type RoutingConfig struct {
	ReplyTo       string `env:"REPLYBRIDGE_ROUTING_REPLY_TO"       json:"reply_to"` // "sender" | "provider"
	AddressPrefix string `env:"REPLYBRIDGE_ROUTING_ADDRESS_PREFIX" json:"address_prefix"`
}

type WebhookConfig struct {
	AllowFrom FlexibleStringSlice `env:"REPLYBRIDGE_WEBHOOK_ALLOW_FROM" json:"allow_from"`
}

func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			SystemAddress:  DefaultSystemAddress,
			TimeoutSeconds: 15,
		},
		Gateway: GatewayConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		Replies: RepliesConfig{
			Table:    reply.DefaultTable(),
			Fallback: reply.DefaultFallback,
		},
		Routing: RoutingConfig{
			ReplyTo:       string(bridge.RouteSender),
			AddressPrefix: "whatsapp:",
		},
		Webhook: WebhookConfig{
			AllowFrom: FlexibleStringSlice{},
		},
	}
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	if len(data) > 0 {
		// json.Unmarshal merges into an existing map, so a user-supplied reply
		// table would silently keep the default keywords. Reset it first when
		// the file brings its own table.
		var tmp Config
		if err := json.Unmarshal(data, &tmp); err != nil {
			return nil, err
		}
		if len(tmp.Replies.Table) > 0 {
			cfg.Replies.Table = nil
		}

		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks the settings needed to serve traffic. Credentials are only
// required when messages are really delivered.
func (c *Config) Validate(dryRun bool) error {
	var errs []error
	if !dryRun {
		if c.Provider.AccountSID == "" {
			errs = append(errs, errors.New("provider.account_sid (ACCOUNT_SID) is required"))
		}
		if c.Provider.AuthToken == "" {
			errs = append(errs, errors.New("provider.auth_token (AUTH_TOKEN) is required"))
		}
	}
	if c.Provider.SystemAddress == "" {
		errs = append(errs, errors.New("provider.system_address is required"))
	}
	if c.Provider.TimeoutSeconds < 0 {
		errs = append(errs, errors.New("provider.timeout_seconds must not be negative"))
	}
	if c.Gateway.Port <= 0 || c.Gateway.Port > 65535 {
		errs = append(errs, fmt.Errorf("gateway.port %d out of range", c.Gateway.Port))
	}
	if !bridge.ReplyRoute(c.Routing.ReplyTo).Valid() {
		errs = append(errs, fmt.Errorf("routing.reply_to must be %q or %q, got %q",
			bridge.RouteSender, bridge.RouteProvider, c.Routing.ReplyTo))
	}
	return errors.Join(errs...)
}
