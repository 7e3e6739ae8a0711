package channels

import (
	"context"
	"errors"
	"strings"

	"github.com/tinyland-inc/replybridge/pkg/bus"
)

// ErrNotAllowed is returned when an inbound sender is not on the allow list.
var ErrNotAllowed = errors.New("sender not allowed")

// Channel is the messaging provider as seen by the bridge: one send operation
// plus an inbound allow list.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg bus.OutboundMessage) (string, error)
	IsAllowed(senderID string) bool
}

// WhatsAppScheme prefixes provider addresses on the WhatsApp network.
const WhatsAppScheme = "whatsapp:"

type BaseChannel struct {
	name      string
	allowList []string
}

func NewBaseChannel(name string, allowList []string) *BaseChannel {
	normalized := make([]string, 0, len(allowList))
	for _, a := range allowList {
		if n := NormalizeAddress(a); n != "" {
			normalized = append(normalized, n)
		}
	}
	return &BaseChannel{
		name:      name,
		allowList: normalized,
	}
}

func (c *BaseChannel) Name() string {
	return c.name
}

// IsAllowed reports whether senderID may talk to the bridge. An empty allow
// list admits everyone. Addresses compare without the whatsapp: scheme, so
// "whatsapp:+1555" and "+1555" are the same sender.
func (c *BaseChannel) IsAllowed(senderID string) bool {
	if len(c.allowList) == 0 {
		return true
	}
	id := NormalizeAddress(senderID)
	for _, allowed := range c.allowList {
		if id == allowed {
			return true
		}
	}
	return false
}

// NormalizeAddress strips the whatsapp: scheme and surrounding whitespace.
func NormalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if len(addr) >= len(WhatsAppScheme) && strings.EqualFold(addr[:len(WhatsAppScheme)], WhatsAppScheme) {
		addr = addr[len(WhatsAppScheme):]
	}
	return strings.TrimSpace(addr)
}

// WithScheme prepends prefix to addr unless addr already carries it.
func WithScheme(prefix, addr string) string {
	addr = strings.TrimSpace(addr)
	if prefix == "" || strings.HasPrefix(strings.ToLower(addr), strings.ToLower(prefix)) {
		return addr
	}
	return prefix + addr
}
