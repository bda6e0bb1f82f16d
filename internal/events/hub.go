// Package events fans coordinator events out to live subscribers such as the
// proctor monitor socket.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Type names a coordinator event.
type Type string

const (
	SessionStarted       Type = "session_started"
	SessionEnded         Type = "session_ended"
	StudentEnrolled      Type = "student_enrolled"
	StudentSubmitted     Type = "student_submitted"
	StudentAutoSubmitted Type = "student_auto_submitted"
	CheatingWarning      Type = "cheating_warning"
	StudentTerminated    Type = "student_terminated"
	MarksUpdated         Type = "marks_updated"
)

// Event is one notification. Data carries a type-specific payload.
type Event struct {
	Type      Type      `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	RollNo    string    `json:"roll_no,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub broadcasts events to subscribers. Publishing never blocks; a subscriber
// whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	log    zerolog.Logger
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subs: make(map[uint64]chan Event),
		log:  log.With().Str("component", "event_hub").Logger(),
	}
}

// Publish stamps e (if unset) and delivers it to every subscriber.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- e:
		default:
			h.log.Warn().Uint64("subscriber", id).Str("event", string(e.Type)).Msg("Subscriber buffer full, event dropped")
		}
	}
}

// Subscribe registers a subscriber with the given buffer size. The returned
// function unsubscribes and closes the channel; it is safe to call twice.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
