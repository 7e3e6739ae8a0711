package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tinyland-inc/replybridge/pkg/bridge"
	"github.com/tinyland-inc/replybridge/pkg/bus"
	"github.com/tinyland-inc/replybridge/pkg/channels"
	"github.com/tinyland-inc/replybridge/pkg/logger"
)

// Bridge is the reply/broadcast logic behind the HTTP routes.
type Bridge interface {
	Allowed(senderID string) bool
	Reply(ctx context.Context, msg bus.InboundMessage) (bridge.Result, error)
	Broadcast(ctx context.Context, req bus.BroadcastRequest) ([]string, error)
}

type Handler struct {
	bridge  Bridge
	metrics *Metrics
}

func NewHandler(b Bridge, m *Metrics) *Handler {
	if m == nil {
		m = NewMetrics()
	}
	return &Handler{bridge: b, metrics: m}
}

// HandleWebhook answers the provider's inbound-message callback with exactly
// one reply send.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	// Sends run to completion even if the caller hangs up.
	ctx := context.WithoutCancel(r.Context())
	reqID := RequestIDFromContext(ctx)

	msg, err := parseInbound(w, r)
	if err != nil {
		logger.ErrorCF("gateway", "Invalid request payload", map[string]any{
			"request_id": reqID,
			"error":      err.Error(),
		})
		writeText(w, statusFor(err), "Invalid request payload.")
		return
	}
	msg.Channel = "whatsapp"

	logger.InfoCF("gateway", "Message received", map[string]any{
		"request_id": reqID,
		"from":       msg.SenderID,
		"body":       msg.Content,
		"message_id": msg.MessageID,
	})

	if !h.bridge.Allowed(msg.SenderID) {
		logger.WarnCF("gateway", "Sender not allowed", map[string]any{
			"request_id": reqID,
			"from":       msg.SenderID,
		})
		writeText(w, statusFor(channels.ErrNotAllowed), "Sender not allowed.")
		return
	}

	res, err := h.bridge.Reply(ctx, msg)
	h.metrics.observeReply(res.Keyword)
	h.metrics.observeOperation("reply", err)
	if err != nil {
		logger.ErrorCF("gateway", "Error sending reply", map[string]any{
			"request_id": reqID,
			"to":         res.Message.To,
			"error":      err.Error(),
		})
		writeText(w, http.StatusInternalServerError, "Failed to send reply.")
		return
	}

	logger.InfoCF("gateway", "Reply delivered to provider", map[string]any{
		"request_id": reqID,
		"to":         res.Message.To,
		"sid":        res.SID,
	})
	writeText(w, http.StatusOK, "Reply sent successfully!")
}

// HandleBroadcast sends one message to every number in the request and
// reports success only when every send succeeded.
func (h *Handler) HandleBroadcast(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	reqID := RequestIDFromContext(ctx)

	req, err := parseBroadcast(w, r)
	if err != nil {
		logger.ErrorCF("gateway", "Invalid broadcast request", map[string]any{
			"request_id": reqID,
			"error":      err.Error(),
		})
		writeText(w, statusFor(err), "Invalid request. Provide an array of numbers and a message.")
		return
	}

	sids, err := h.bridge.Broadcast(ctx, req)
	h.metrics.observeOperation("broadcast", err)
	if err != nil {
		logger.ErrorCF("gateway", "Error sending messages", map[string]any{
			"request_id": reqID,
			"recipients": len(req.Recipients),
			"error":      err.Error(),
		})
		writeText(w, http.StatusInternalServerError, "Failed to send messages.")
		return
	}

	logger.InfoCF("gateway", "Messages sent", map[string]any{
		"request_id": reqID,
		"sids":       sids,
	})

	text := fmt.Sprintf("Messages sent successfully! (%d sent)", len(sids))
	if len(sids) > 0 {
		text = fmt.Sprintf("Messages sent successfully! (%d sent: %s)", len(sids), strings.Join(sids, ", "))
	}
	writeText(w, http.StatusOK, text)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	io.WriteString(w, text)
}
