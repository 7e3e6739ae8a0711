package channels

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/tinyland-inc/replybridge/pkg/bus"
	"github.com/tinyland-inc/replybridge/pkg/logger"
)

const (
	DefaultTwilioAPIBase = "https://api.twilio.com"
	defaultTwilioTimeout = 15 * time.Second

	messagesPath = "/2010-04-01/Accounts/{accountSid}/Messages.json"
)

// TwilioConfig holds the credentials for the Twilio Programmable Messaging API.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	APIBase    string // defaults to DefaultTwilioAPIBase
	Timeout    time.Duration
	AllowFrom  []string
}

// ProviderError is a send rejected by the provider API.
type ProviderError struct {
	StatusCode int
	Code       int64
	Message    string
	MoreInfo   string
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("provider rejected message (http %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider rejected message (http %d): %s", e.StatusCode, e.Message)
}

type messageResource struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// TwilioChannel sends WhatsApp messages through Twilio's REST API. It holds no
// per-request state and is safe for concurrent use.
type TwilioChannel struct {
	*BaseChannel
	client     *resty.Client
	accountSID string
}

func NewTwilioChannel(cfg TwilioConfig) (*TwilioChannel, error) {
	if cfg.AccountSID == "" {
		return nil, errors.New("twilio account SID is required")
	}
	if cfg.AuthToken == "" {
		return nil, errors.New("twilio auth token is required")
	}
	base := strings.TrimRight(cfg.APIBase, "/")
	if base == "" {
		base = DefaultTwilioAPIBase
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTwilioTimeout
	}

	client := resty.New().
		SetBaseURL(base).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &TwilioChannel{
		BaseChannel: NewBaseChannel("whatsapp", cfg.AllowFrom),
		client:      client,
		accountSID:  cfg.AccountSID,
	}, nil
}

// Send creates one message and returns its SID. It makes exactly one API call.
func (c *TwilioChannel) Send(ctx context.Context, msg bus.OutboundMessage) (string, error) {
	var res messageResource
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("accountSid", c.accountSID).
		SetFormData(map[string]string{
			"From": msg.From,
			"To":   msg.To,
			"Body": msg.Content,
		}).
		SetResult(&res).
		Post(messagesPath)
	if err != nil {
		return "", fmt.Errorf("twilio request: %w", err)
	}

	if resp.IsError() {
		perr := parseProviderError(resp.StatusCode(), resp.Body())
		logger.DebugCF("twilio", "Message rejected", map[string]any{
			"to":     msg.To,
			"status": resp.StatusCode(),
			"code":   perr.Code,
		})
		return "", perr
	}

	sid := res.SID
	if sid == "" {
		sid = gjson.GetBytes(resp.Body(), "sid").String()
	}
	if sid == "" {
		return "", fmt.Errorf("twilio response missing message sid (http %d)", resp.StatusCode())
	}

	logger.DebugCF("twilio", "Message created", map[string]any{
		"sid":    sid,
		"to":     msg.To,
		"status": res.Status,
	})
	return sid, nil
}

func parseProviderError(status int, body []byte) *ProviderError {
	perr := &ProviderError{StatusCode: status}
	if gjson.ValidBytes(body) {
		fields := gjson.GetManyBytes(body, "code", "message", "more_info")
		perr.Code = fields[0].Int()
		perr.Message = fields[1].String()
		perr.MoreInfo = fields[2].String()
	}
	if perr.Message == "" {
		perr.Message = http.StatusText(status)
	}
	return perr
}
