// Package bridge turns inbound chat messages into canned replies and fans
// broadcast messages out to many recipients through a provider channel.
package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/tinyland-inc/replybridge/pkg/bus"
	"github.com/tinyland-inc/replybridge/pkg/channels"
	"github.com/tinyland-inc/replybridge/pkg/fanout"
	"github.com/tinyland-inc/replybridge/pkg/logger"
	"github.com/tinyland-inc/replybridge/pkg/reply"
)

// ErrEmptyMessage is returned by Broadcast when there is no text to send.
var ErrEmptyMessage = errors.New("broadcast message is empty")

// ReplyRoute selects which side of the conversation a reply is addressed to.
type ReplyRoute string

const (
	// RouteSender replies from the system address to whoever wrote in.
	RouteSender ReplyRoute = "sender"
	// RouteProvider sends from the inbound sender to the system address.
	RouteProvider ReplyRoute = "provider"
)

func (r ReplyRoute) Valid() bool {
	return r == RouteSender || r == RouteProvider
}

type Options struct {
	Channel       channels.Channel
	Selector      *reply.Selector
	SystemAddress string     // our own provider address, e.g. "whatsapp:+14155238886"
	ReplyTo       ReplyRoute // defaults to RouteSender
	AddressPrefix string     // prepended to broadcast recipients, e.g. "whatsapp:"
}

// Bridge is built once at startup and shared by every request.
type Bridge struct {
	channel       channels.Channel
	selector      *reply.Selector
	systemAddress string
	replyTo       ReplyRoute
	addressPrefix string
}

func New(opts Options) (*Bridge, error) {
	if opts.Channel == nil {
		return nil, errors.New("bridge: channel is required")
	}
	if opts.SystemAddress == "" {
		return nil, errors.New("bridge: system address is required")
	}
	if opts.Selector == nil {
		opts.Selector = reply.NewSelector(reply.DefaultTable(), "")
	}
	if opts.ReplyTo == "" {
		opts.ReplyTo = RouteSender
	}
	if !opts.ReplyTo.Valid() {
		return nil, fmt.Errorf("bridge: unknown reply route %q", opts.ReplyTo)
	}
	return &Bridge{
		channel:       opts.Channel,
		selector:      opts.Selector,
		systemAddress: opts.SystemAddress,
		replyTo:       opts.ReplyTo,
		addressPrefix: opts.AddressPrefix,
	}, nil
}

// Result describes one delivered reply.
type Result struct {
	SID     string
	Keyword string // empty when the fallback was used
	Message bus.OutboundMessage
}

func (b *Bridge) Allowed(senderID string) bool {
	return b.channel.IsAllowed(senderID)
}

// Reply picks the canned reply for msg and sends it. It makes exactly one send
// attempt and never retries.
func (b *Bridge) Reply(ctx context.Context, msg bus.InboundMessage) (Result, error) {
	keyword, _ := b.selector.Match(msg.Content)
	out := bus.OutboundMessage{
		Channel: b.channel.Name(),
		Content: b.selector.Select(msg.Content),
	}
	switch b.replyTo {
	case RouteProvider:
		out.From, out.To = msg.SenderID, b.systemAddress
	default:
		out.From, out.To = b.systemAddress, msg.SenderID
	}

	sid, err := b.channel.Send(ctx, out)
	if err != nil {
		return Result{Keyword: keyword, Message: out}, fmt.Errorf("send reply to %s: %w", out.To, err)
	}

	logger.InfoCF("bridge", "Reply sent", map[string]any{
		"sid":     sid,
		"to":      out.To,
		"keyword": keyword,
	})
	return Result{SID: sid, Keyword: keyword, Message: out}, nil
}

// Broadcast sends req.Message to every recipient concurrently and waits for
// all sends. It succeeds only if every send succeeds; messages already
// delivered when another send fails are not recalled.
func (b *Bridge) Broadcast(ctx context.Context, req bus.BroadcastRequest) ([]string, error) {
	if req.Message == "" {
		return nil, ErrEmptyMessage
	}
	sids, err := fanout.JoinAll(ctx, len(req.Recipients), func(ctx context.Context, i int) (string, error) {
		out := bus.OutboundMessage{
			Channel: b.channel.Name(),
			From:    b.systemAddress,
			To:      channels.WithScheme(b.addressPrefix, req.Recipients[i]),
			Content: req.Message,
		}
		sid, err := b.channel.Send(ctx, out)
		if err != nil {
			return "", fmt.Errorf("send to %s: %w", out.To, err)
		}
		return sid, nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCF("bridge", "Broadcast sent", map[string]any{
		"count": len(sids),
		"sids":  sids,
	})
	return sids, nil
}
