// Package trace tags each request with an ID and logs its outcome.
package trace

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"

	// RequestIDHeader is read from trusted callers and echoed on every response.
	RequestIDHeader = "X-Request-ID"

	idPrefix = "req_"
)

// Metrics counts completed requests by status class.
type Metrics struct {
	Requests           int64
	ClientErrors       int64
	ServerErrors       int64
	LastResponseMicros int64
}

type Middleware struct {
	extractIP func(*http.Request) string

	requests     atomic.Int64
	clientErrors atomic.Int64
	serverErrors atomic.Int64
	lastMicros   atomic.Int64
}

// NewMiddleware returns a tracer. extractIP may be nil.
func NewMiddleware(extractIP func(*http.Request) string) *Middleware {
	return &Middleware{extractIP: extractIP}
}

func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := incomingID(r)
		if requestID == "" {
			requestID = GenerateRequestID()
		}
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		r = r.WithContext(ctx)
		w.Header().Set(RequestIDHeader, requestID)

		attrs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		}
		if m.extractIP != nil {
			attrs = append(attrs, "client_ip", m.extractIP(r))
		}
		slog.DebugContext(ctx, "HTTP request started", append(attrs, "content_length", r.ContentLength)...)

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		elapsed := time.Since(start)
		m.record(rw.status, elapsed)

		slog.Log(ctx, levelFor(rw.status), "HTTP request completed", append(attrs,
			"status_code", rw.status,
			"bytes", rw.written,
			"duration_ms", elapsed.Milliseconds(),
		)...)
	})
}

func (m *Middleware) record(status int, elapsed time.Duration) {
	m.requests.Add(1)
	m.lastMicros.Store(elapsed.Microseconds())
	switch {
	case status >= 500:
		m.serverErrors.Add(1)
	case status >= 400:
		m.clientErrors.Add(1)
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

type statusWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// incomingID returns the caller's request ID when it is one of ours.
func incomingID(r *http.Request) string {
	id := r.Header.Get(RequestIDHeader)
	rest, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return ""
	}
	if _, err := uuid.Parse(rest); err != nil {
		return ""
	}
	return id
}

func GenerateRequestID() string {
	return idPrefix + uuid.NewString()
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// FromRequest is GetRequestID for an *http.Request.
func FromRequest(r *http.Request) string {
	return GetRequestID(r.Context())
}

func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		Requests:           m.requests.Load(),
		ClientErrors:       m.clientErrors.Load(),
		ServerErrors:       m.serverErrors.Load(),
		LastResponseMicros: m.lastMicros.Load(),
	}
}
