package gateway

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tinyland-inc/replybridge/pkg/channels"
	"github.com/tinyland-inc/replybridge/pkg/logger"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// instrument records status and latency for one route.
func instrument(route string, m *Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		elapsed := time.Since(start)
		m.observeRequest(route, rec.status, elapsed)
		logger.DebugCF("http", "Request handled", map[string]any{
			"request_id":  RequestIDFromContext(r.Context()),
			"method":      r.Method,
			"route":       route,
			"status":      rec.status,
			"duration_ms": elapsed.Milliseconds(),
		})
	})
}

// verifySignature rejects webhook calls whose X-Twilio-Signature does not
// match. publicURL, when set, replaces the scheme and host seen locally.
func verifySignature(authToken, publicURL string, next http.Handler) http.Handler {
	publicURL = strings.TrimRight(publicURL, "/")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fullURL := publicURL + r.URL.RequestURI()
		if publicURL == "" {
			fullURL = requestScheme(r) + "://" + r.Host + r.URL.RequestURI()
		}

		sig := r.Header.Get(channels.SignatureHeader)
		var valid bool
		if isJSON(r) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				writeText(w, http.StatusBadRequest, "Invalid request payload.")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			valid = channels.ValidateBodySignature(authToken, fullURL, body, sig)
		} else {
			if err := parseForm(w, r); err != nil {
				writeText(w, statusFor(err), "Invalid request payload.")
				return
			}
			valid = channels.ValidateSignature(authToken, fullURL, r.PostForm, sig)
		}

		if !valid {
			logger.WarnCF("gateway", "Rejected webhook with bad signature", map[string]any{
				"request_id": RequestIDFromContext(r.Context()),
				"url":        fullURL,
			})
			writeText(w, statusFor(errBadSignature), "Invalid signature.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestScheme(r *http.Request) string {
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		return p
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
