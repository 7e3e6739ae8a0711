package channels

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tinyland-inc/replybridge/pkg/bus"
	"github.com/tinyland-inc/replybridge/pkg/logger"
)

// StubChannel logs messages instead of delivering them. It backs --dry-run and
// tests. FailFor makes sends to the listed addresses fail with a ProviderError.
type StubChannel struct {
	*BaseChannel

	FailFor map[string]bool

	mu   sync.Mutex
	sent []bus.OutboundMessage
}

func NewStubChannel(allowList []string) *StubChannel {
	return &StubChannel{
		BaseChannel: NewBaseChannel("stub", allowList),
	}
}

func (c *StubChannel) Send(ctx context.Context, msg bus.OutboundMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.sent = append(c.sent, msg)
	fail := c.FailFor[msg.To]
	c.mu.Unlock()

	if fail {
		return "", &ProviderError{StatusCode: 400, Code: 21211, Message: "Invalid 'To' Phone Number: " + msg.To}
	}

	sid := "SM" + strings.ReplaceAll(uuid.New().String(), "-", "")
	logger.InfoCF("stub", "Dry-run message", map[string]any{
		"sid":  sid,
		"from": msg.From,
		"to":   msg.To,
		"body": msg.Content,
	})
	return sid, nil
}

// Sent returns a copy of every message passed to Send.
func (c *StubChannel) Sent() []bus.OutboundMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bus.OutboundMessage, len(c.sent))
	copy(out, c.sent)
	return out
}

var (
	_ Channel = (*TwilioChannel)(nil)
	_ Channel = (*StubChannel)(nil)
)
