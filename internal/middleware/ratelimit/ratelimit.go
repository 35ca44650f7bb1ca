// Package ratelimit caps how many ledger writes one client can make per minute.
package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

const (
	window = time.Minute

	// Clients quiet for this long are forgotten by the sweeper.
	idleTTL = 10 * time.Minute

	defaultWritesPerMinute = 60
	defaultSweepEvery      = 5 * time.Minute
)

// Config sizes a Limiter. Zero fields take the package defaults.
type Config struct {
	RequestsPerMinute int
	SweepEvery        time.Duration
}

// Limiter counts writes per client address in fixed one-minute windows.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*clientWindow
	limit   int
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

type clientWindow struct {
	opened time.Time
	seen   time.Time
	count  int
}

// NewLimiter returns a running limiter. Stop releases its sweeper goroutine.
func NewLimiter(cfg Config) *Limiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = defaultWritesPerMinute
	}
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = defaultSweepEvery
	}

	l := &Limiter{
		windows: make(map[string]*clientWindow),
		limit:   cfg.RequestsPerMinute,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go l.sweepLoop(cfg.SweepEvery)
	return l
}

// Allow records one write by client and reports whether it fits the window.
func (l *Limiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[client]
	if !ok || now.Sub(w.opened) >= window {
		l.windows[client] = &clientWindow{opened: now, seen: now, count: 1}
		return true
	}
	w.count++
	w.seen = now
	return w.count <= l.limit
}

func (l *Limiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.done:
			return
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idleTTL)
	for client, w := range l.windows {
		if w.seen.Before(cutoff) {
			delete(l.windows, client)
		}
	}
}

// ClientCount is the number of clients currently tracked.
func (l *Limiter) ClientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Stop ends the sweeper. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Middleware counts POST, PUT, PATCH and DELETE requests against the client
// returned by clientOf. onLimit answers refused requests; nil means a plain 429.
func (l *Limiter) Middleware(clientOf func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	if onLimit == nil {
		onLimit = func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "too many changes, retry in a minute", http.StatusTooManyRequests)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
			default:
				if !l.Allow(clientOf(r)) {
					onLimit(w, r)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
