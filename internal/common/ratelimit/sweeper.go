package ratelimit

import (
	"context"
	"time"

	"notification-relay/internal/common/logger"
	"notification-relay/internal/common/metrics"

	"github.com/robfig/cron/v3"
)

// Sweeper runs Limiter.Sweep on a fixed interval.
type Sweeper struct {
	limiter  *Limiter
	interval time.Duration
	logger   logger.Logger
	cron     *cron.Cron
}

func NewSweeper(l *Limiter, interval time.Duration, log logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = l.window
	}
	return &Sweeper{
		limiter:  l,
		interval: interval,
		logger:   log.WithFields(map[string]interface{}{"component": "ratelimit-sweeper"}),
		cron:     cron.New(),
	}
}

func (s *Sweeper) Start() {
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(s.RunOnce))
	s.cron.Start()
	s.logger.Info("rate limit sweeper started", map[string]interface{}{
		"interval": s.interval.String(),
	})
}

// RunOnce performs a single sweep.
func (s *Sweeper) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.limiter.Sweep(ctx)
	if err != nil {
		s.logger.Warn("rate limit sweep failed", map[string]interface{}{"error": err})
		return
	}
	if m, ok := s.limiter.store.(*MemoryStore); ok {
		metrics.RateLimitKeys.Set(float64(m.Len()))
	}
	if removed > 0 {
		s.logger.Debug("rate limit records evicted", map[string]interface{}{"removed": removed})
	}
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
