package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Registry tracks background tasks by key so they can be cancelled
// individually or all at once. A task leaves the registry when its function
// returns.
type Registry struct {
	mu     sync.Mutex
	tasks  map[string]*task
	wg     sync.WaitGroup
	base   context.Context
	cancel context.CancelFunc
	log    zerolog.Logger
}

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRegistry creates an empty Registry. Tasks run under a base context that
// CancelAll cancels, independent of any request context.
func NewRegistry(log zerolog.Logger) *Registry {
	base, cancel := context.WithCancel(context.Background())
	return &Registry{
		tasks:  make(map[string]*task),
		base:   base,
		cancel: cancel,
		log:    log.With().Str("component", "task_registry").Logger(),
	}
}

// Start runs fn in a new goroutine under key. A task already registered under
// key is cancelled and replaced. After CancelAll, Start is a no-op and
// reports false.
func (r *Registry) Start(key string, fn func(ctx context.Context)) bool {
	r.mu.Lock()
	if r.base.Err() != nil {
		r.mu.Unlock()
		return false
	}
	if prev, ok := r.tasks[key]; ok {
		prev.cancel()
		r.log.Debug().Str("task", key).Msg("Replacing running task")
	}
	ctx, cancel := context.WithCancel(r.base)
	t := &task{cancel: cancel, done: make(chan struct{})}
	r.tasks[key] = t
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer close(t.done)
		defer cancel()
		defer r.remove(key, t)
		fn(ctx)
	}()
	return true
}

func (r *Registry) remove(key string, t *task) {
	r.mu.Lock()
	if r.tasks[key] == t {
		delete(r.tasks, key)
	}
	r.mu.Unlock()
}

// Cancel cancels the task under key and reports whether one was running.
// It does not wait for the task to return.
func (r *Registry) Cancel(key string) bool {
	r.mu.Lock()
	t, ok := r.tasks[key]
	if ok {
		delete(r.tasks, key)
	}
	r.mu.Unlock()

	if ok {
		t.cancel()
	}
	return ok
}

// Running reports whether a task is registered under key.
func (r *Registry) Running(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[key]
	return ok
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// CancelAll cancels every task and refuses new ones.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	r.cancel()
	n := len(r.tasks)
	r.mu.Unlock()
	r.log.Info().Int("tasks", n).Msg("Cancelling all background tasks")
}

// Wait blocks until every started task has returned or ctx ends.
func (r *Registry) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
