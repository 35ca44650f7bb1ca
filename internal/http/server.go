package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"pftracker/internal/log"
	"pftracker/internal/middleware/ratelimit"
	"pftracker/internal/middleware/security"
	"pftracker/internal/middleware/trace"
	"pftracker/internal/render"
	"pftracker/internal/tracker"
	appweb "pftracker/web"
)

// Exporter returns the stored ledger in its durable JSON form.
type Exporter interface {
	Raw(ctx context.Context) (string, error)
	Key() string
}

// Options configures NewServer.
type Options struct {
	Addr               string
	Tracker            *tracker.Tracker
	Exporter           Exporter
	Formatter          *render.Formatter
	Logger             *log.Logger
	RateLimitPerMinute int
	// TrustedProxies are extra CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
	// Ready is consulted by /readyz. Nil means always ready.
	Ready func(context.Context) error
}

type Server struct {
	http.Server
	templates *template.Template
	tracker   *tracker.Tracker
	exporter  Exporter
	formatter *render.Formatter
	logger    *log.Logger
	limiter   *ratelimit.Limiter
	ready     func(context.Context) error

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and wires routes and middleware.
func NewServer(opts Options) (*Server, error) {
	if opts.Tracker == nil {
		return nil, errors.New("tracker is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Formatter == nil {
		opts.Formatter = render.MustFormatter(render.DefaultSymbol, render.DefaultLocale)
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	ips := security.NewClientIPResolver()
	for _, cidr := range opts.TrustedProxies {
		if err := ips.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	s := &Server{
		templates: t,
		tracker:   opts.Tracker,
		exporter:  opts.Exporter,
		formatter: opts.Formatter,
		logger:    opts.Logger.WithComponent(log.ComponentHTTP),
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		ready:     opts.Ready,
	}

	mux := http.NewServeMux()

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /ui/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /transactions.json", s.handleExport)
	mux.HandleFunc("POST /transactions", s.handleCreate)
	mux.HandleFunc("POST /transactions/clear", s.handleClearAll)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDelete)
	mux.HandleFunc("POST /transactions/{id}/delete", s.handleDelete)

	tracer := trace.NewMiddleware(opts.Logger, ips.ClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(ips.ClientIP, s.onRateLimited)

	var handler http.Handler = mux
	handler = limit(handler)
	handler = headers.Middleware(handler)
	handler = log.Middleware(opts.Logger, trace.RequestIDFromRequest)(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:           opts.Addr,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s, nil
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.requestLogger(r).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many changes, please wait a minute").
		Header("Retry-After", "60").
		Write(w)
}

func (s *Server) requestLogger(r *http.Request) *log.Logger {
	return log.FromContext(r.Context(), s.logger).WithComponent(log.ComponentHTTP)
}

// renderDashboard executes the dashboard partial for the current ledger.
func (s *Server) renderDashboard() ([]byte, int, error) {
	snap := s.tracker.Snapshot()
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard", s.formatter.Build(snap)); err != nil {
		return nil, 0, fmt.Errorf("render dashboard: %w", err)
	}
	return buf.Bytes(), len(snap), nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			s.requestLogger(r).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
