package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is how often a session timer looks at the clock.
const DefaultPollInterval = 10 * time.Second

// SessionTimer watches a session deadline by polling. Expiry is observed at
// most one poll interval late.
type SessionTimer struct {
	pollInterval time.Duration
	now          func() time.Time
	log          zerolog.Logger
}

// NewSessionTimer creates a SessionTimer. A non-positive interval falls back
// to DefaultPollInterval; a nil now uses time.Now.
func NewSessionTimer(pollInterval time.Duration, now func() time.Time, log zerolog.Logger) *SessionTimer {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if now == nil {
		now = time.Now
	}
	return &SessionTimer{
		pollInterval: pollInterval,
		now:          now,
		log:          log.With().Str("component", "session_timer").Logger(),
	}
}

// Run polls until deadline is reached, then calls onExpire once. It returns
// without calling onExpire if ctx is cancelled first.
func (t *SessionTimer) Run(ctx context.Context, sessionID uuid.UUID, deadline time.Time, onExpire func(ctx context.Context)) {
	log := t.log.With().Str("session_id", sessionID.String()).Logger()
	log.Debug().Time("deadline", deadline).Msg("Session timer started")

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Session timer cancelled")
			return
		case <-ticker.C:
			if t.now().Before(deadline) {
				continue
			}
			log.Info().Msg("Session deadline reached")
			onExpire(ctx)
			return
		}
	}
}
