package channels

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tinyland-inc/replybridge/pkg/bus"
)

func TestStubChannel_Send(t *testing.T) {
	c := NewStubChannel(nil)
	sid, err := c.Send(context.Background(), bus.OutboundMessage{From: "a", To: "b", Content: "hi"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.HasPrefix(sid, "SM") || len(sid) != 34 {
		t.Errorf("sid = %q, want SM + 32 hex chars", sid)
	}
	sent := c.Sent()
	if len(sent) != 1 || sent[0].Content != "hi" {
		t.Errorf("Sent() = %+v", sent)
	}
}

func TestStubChannel_FailFor(t *testing.T) {
	c := NewStubChannel(nil)
	c.FailFor = map[string]bool{"bad": true}

	_, err := c.Send(context.Background(), bus.OutboundMessage{To: "bad"})
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if len(c.Sent()) != 1 {
		t.Error("failed attempt should still be recorded")
	}
}

func TestStubChannel_CanceledContext(t *testing.T) {
	c := NewStubChannel(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Send(ctx, bus.OutboundMessage{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
