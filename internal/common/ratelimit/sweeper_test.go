package ratelimit

import (
	"context"
	"testing"
	"time"

	"notification-relay/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

func TestSweeper_RunOnce(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStore()
	l := newTestLimiter(t, store, clock)

	l.Allow(ctx, "a")
	l.Allow(ctx, "b")
	clock.Advance(2 * time.Hour)

	s := NewSweeper(l, time.Minute, logger.NewTestLogger(t))
	s.RunOnce()

	assert.Equal(t, 0, store.Len())
}

func TestSweeper_StartStop(t *testing.T) {
	l := New(NewMemoryStore(), Options{})
	s := NewSweeper(l, 0, logger.NewNoOpLogger())
	assert.Equal(t, DefaultWindow, s.interval)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
