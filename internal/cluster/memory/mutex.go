package memory

import (
	"context"
	"sync"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
)

// Mutex is an in-process MutualExclusionService. Each key is a one-slot
// channel; waiters block until the holder releases or their context ends.
type Mutex struct {
	mu      sync.Mutex
	slots   map[string]chan struct{}
	holders map[string]int64
}

// NewMutex creates an empty Mutex.
func NewMutex() *Mutex {
	return &Mutex{
		slots:   make(map[string]chan struct{}),
		holders: make(map[string]int64),
	}
}

func (m *Mutex) slot(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.slots[key] = ch
	}
	return ch
}

// RequestCriticalSection blocks until key is free, then records token as the
// holder. A cancelled context yields (false, ctx.Err()).
func (m *Mutex) RequestCriticalSection(ctx context.Context, key string, token int64) (bool, error) {
	ch := m.slot(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	m.mu.Lock()
	m.holders[key] = token
	m.mu.Unlock()
	return true, nil
}

// ReleaseCriticalSection frees key if token holds it. Releasing a key that is
// not held is a no-op.
func (m *Mutex) ReleaseCriticalSection(_ context.Context, key string, token int64) error {
	m.mu.Lock()
	holder, held := m.holders[key]
	if !held {
		m.mu.Unlock()
		return nil
	}
	if holder != token {
		m.mu.Unlock()
		return cluster.ErrNotHolder
	}
	delete(m.holders, key)
	ch := m.slots[key]
	m.mu.Unlock()

	<-ch
	return nil
}

// Holder reports the token currently holding key.
func (m *Mutex) Holder(key string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.holders[key]
	return tok, ok
}
