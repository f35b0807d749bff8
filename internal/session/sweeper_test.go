// internal/session/sweeper_test.go
package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"voice-intent/internal/common/logger"
)

func TestSweeper_RemovesExpiredSessions(t *testing.T) {
	clock := newFakeClock()
	store := newTestStore(t, time.Minute, clock)
	store.Get("stale")
	clock.Advance(2 * time.Minute)

	sweeper := NewSweeper(store, 5*time.Millisecond, logger.NewTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestSweeper_StopsOnCancel(t *testing.T) {
	store := newTestStore(t, time.Minute, newFakeClock())
	sweeper := NewSweeper(store, time.Hour, logger.NewNoOpLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}

func TestNewSweeper_DefaultInterval(t *testing.T) {
	sweeper := NewSweeper(newTestStore(t, time.Minute, newFakeClock()), 0, logger.NewNoOpLogger())
	assert.Equal(t, time.Minute, sweeper.interval)
}
