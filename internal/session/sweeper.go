// internal/session/sweeper.go
package session

import (
	"context"
	"time"

	"voice-intent/internal/common/logger"
)

// Sweeper runs Store.Cleanup on a fixed interval until its context is
// cancelled. Lazy expiry in Get already keeps reads correct; the sweeper
// only bounds memory held by abandoned sessions.
type Sweeper struct {
	store    Store
	interval time.Duration
	log      logger.Logger
}

// NewSweeper creates a sweeper; interval <= 0 defaults to one minute.
func NewSweeper(store Store, interval time.Duration, log logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		log:      log.With(map[string]interface{}{"component": "session-sweeper"}),
	}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("session sweeper started", map[string]interface{}{
		"interval": s.interval.String(),
	})
	for {
		select {
		case <-ctx.Done():
			s.log.Info("session sweeper stopped", nil)
			return
		case <-ticker.C:
			s.store.Cleanup()
		}
	}
}
