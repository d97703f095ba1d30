// Package ratelimit implements a fixed-window request counter keyed by
// client address.
package ratelimit

import (
	"context"
	"net/http"
	"strings"
	"time"

	"notification-relay/internal/common/logger"
)

const (
	DefaultMaxRequests = 100
	DefaultWindow      = time.Hour

	// UnknownClient buckets every request that arrives without
	// X-Forwarded-For.
	UnknownClient = "unknown"
)

// Record is the per-client window state.
type Record struct {
	ClientKey   string
	Count       int
	WindowStart time.Time
}

// Clock returns the current time.
type Clock func() time.Time

// Store applies one attempt atomically and reports whether it was allowed.
type Store interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, Record, error)
	// Sweep deletes records whose window started before cutoff.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

type Options struct {
	MaxRequests int
	Window      time.Duration
	Clock       Clock
	Logger      logger.Logger
}

type Limiter struct {
	store  Store
	max    int
	window time.Duration
	now    Clock
	logger logger.Logger
}

func New(store Store, opts Options) *Limiter {
	if opts.MaxRequests <= 0 {
		opts.MaxRequests = DefaultMaxRequests
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	return &Limiter{
		store:  store,
		max:    opts.MaxRequests,
		window: opts.Window,
		now:    opts.Clock,
		logger: opts.Logger,
	}
}

// Allow counts one attempt for key. A store failure allows the request.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	allowed, rec, err := l.store.Hit(ctx, key, l.now(), l.window, l.max)
	if err != nil {
		l.logger.Warn("rate limit store unavailable, allowing request", map[string]interface{}{
			"clientKey": key,
			"error":     err,
		})
		return true
	}
	if !allowed {
		l.logger.Debug("rate limit exceeded", map[string]interface{}{
			"clientKey":   key,
			"count":       rec.Count,
			"windowStart": rec.WindowStart,
		})
	}
	return allowed
}

// Sweep evicts every record whose window has already ended.
func (l *Limiter) Sweep(ctx context.Context) (int, error) {
	return l.store.Sweep(ctx, l.now().Add(-l.window))
}

// ClientKey returns the first X-Forwarded-For entry or UnknownClient.
func ClientKey(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return UnknownClient
	}
	first, _, _ := strings.Cut(xff, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return UnknownClient
	}
	return first
}

// apply is the window rule shared by the in-process stores. rec is nil for
// a key seen for the first time.
func apply(rec *Record, key string, now time.Time, window time.Duration, limit int) (Record, bool) {
	if rec == nil || now.After(rec.WindowStart.Add(window)) {
		return Record{ClientKey: key, Count: 1, WindowStart: now}, true
	}
	if rec.Count < limit {
		next := *rec
		next.Count++
		return next, true
	}
	return *rec, false
}
