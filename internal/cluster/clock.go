package cluster

import (
	"sync"
	"time"
)

// Clock issues ordering tokens for critical-section requests. Tokens are
// strictly increasing within the process and never behind wall-clock
// microseconds, so tokens from restarted processes still sort after older ones.
type Clock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewClock returns a Clock reading the system time.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockAt returns a Clock reading time from now. Used by tests.
func NewClockAt(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Next returns a fresh token.
func (c *Clock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UnixMicro()
	if t <= c.last {
		t = c.last + 1
	}
	c.last = t
	return t
}
