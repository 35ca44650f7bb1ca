// Package trace tags every request with an id and writes an access log line.
package trace

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"pftracker/internal/log"
)

// HeaderRequestID is echoed back so a browser report can be matched to a log line.
const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

// Middleware stamps requests with an id and logs how each one ended.
type Middleware struct {
	logger   *log.Logger
	clientOf func(*http.Request) string
}

// NewMiddleware logs under the trace component. clientOf may be nil.
func NewMiddleware(logger *log.Logger, clientOf func(*http.Request) string) *Middleware {
	return &Middleware{
		logger:   logger.WithComponent(log.ComponentTrace),
		clientOf: clientOf,
	}
}

func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := GenerateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, id)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		fields := log.NewFields().
			WithHTTPRequest(r.Method, r.URL.Path, r.UserAgent()).
			WithHTTPResponse(sw.status, time.Since(start).Milliseconds())
		fields[log.FieldRequestID] = id
		if m.clientOf != nil {
			fields[log.FieldClientIP] = m.clientOf(r)
		}
		m.logger.Log(ctx, levelFor(sw.status), "HTTP request completed",
			append([]any{log.FieldComponent, m.logger.Component()}, fields.ToSlice()...)...)
	})
}

// levelFor keeps client mistakes at WARN and server faults at ERROR.
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
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// GenerateRequestID returns a short random id prefixed with "req_".
func GenerateRequestID() string {
	return "req_" + uuid.NewString()[:18]
}

// GetRequestID returns the id stored by Middleware, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDFromRequest adapts GetRequestID for log.Middleware.
func RequestIDFromRequest(r *http.Request) string {
	return GetRequestID(r.Context())
}
