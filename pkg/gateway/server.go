// Package gateway exposes the bridge over HTTP: the provider webhook, the
// broadcast endpoint, health probes and Prometheus metrics.
package gateway

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tinyland-inc/replybridge/pkg/logger"
)

type Config struct {
	Addr string

	// Webhook signature checking; AuthToken is the provider auth token.
	ValidateSignature bool
	AuthToken         string
	PublicURL         string
}

type Server struct {
	httpServer *http.Server
	metrics    *Metrics
	ready      atomic.Bool
}

func NewServer(cfg Config, b Bridge) *Server {
	s := &Server{metrics: NewMetrics()}
	h := NewHandler(b, s.metrics)

	var webhook http.Handler = http.HandlerFunc(h.HandleWebhook)
	if cfg.ValidateSignature {
		webhook = verifySignature(cfg.AuthToken, cfg.PublicURL, webhook)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /webhook", instrument("/webhook", s.metrics, webhook))
	mux.Handle("POST /send-whatsapp", instrument("/send-whatsapp", s.metrics, http.HandlerFunc(h.HandleBroadcast)))
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ready", s.readyHandler)
	mux.Handle("GET /metrics", s.metrics.Handler())

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           withRequestID(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured address and serves until Stop.
// It returns http.ErrServerClosed after a clean shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	logger.InfoCF("gateway", "Listening", map[string]any{"addr": ln.Addr().String()})
	s.ready.Store(true)
	defer s.ready.Store(false)
	return s.httpServer.Serve(ln)
}

// Stop stops accepting requests and waits for in-flight ones until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	s.ready.Store(false)
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func (s *Server) readyHandler(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeText(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	writeText(w, http.StatusOK, "ready")
}
