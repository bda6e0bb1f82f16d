package logger

import (
	"strings"
	"sync"
)

// DefaultRingSize is the number of log lines retained when no size is configured.
const DefaultRingSize = 1000

// RingBuffer keeps the most recent log lines in memory. It implements io.Writer
// so it can sit behind a zerolog writer; each Write is split into lines.
type RingBuffer struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
}

// NewRingBuffer creates a RingBuffer holding at most size lines.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{lines: make([]string, size)}
}

// Write stores every non-empty line of p. It never fails.
func (r *RingBuffer) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\n")
	if text == "" {
		return len(p), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		r.lines[r.next] = line
		r.next = (r.next + 1) % len(r.lines)
		if r.next == 0 {
			r.full = true
		}
	}
	return len(p), nil
}

// Add appends a single line.
func (r *RingBuffer) Add(line string) {
	_, _ = r.Write([]byte(line))
}

// Capacity returns the maximum number of lines retained.
func (r *RingBuffer) Capacity() int {
	return len(r.lines)
}

// Tail returns up to n of the most recent lines, oldest first. When filter is
// non-empty only lines containing it (case-insensitive) are considered.
func (r *RingBuffer) Tail(n int, filter string) []string {
	r.mu.Lock()
	ordered := r.snapshot()
	r.mu.Unlock()

	if filter != "" {
		needle := strings.ToLower(filter)
		kept := ordered[:0]
		for _, line := range ordered {
			if strings.Contains(strings.ToLower(line), needle) {
				kept = append(kept, line)
			}
		}
		ordered = kept
	}

	if n <= 0 || n >= len(ordered) {
		return ordered
	}
	return ordered[len(ordered)-n:]
}

// snapshot copies the buffer in chronological order. Caller holds r.mu.
func (r *RingBuffer) snapshot() []string {
	if !r.full {
		out := make([]string, r.next)
		copy(out, r.lines[:r.next])
		return out
	}
	out := make([]string, 0, len(r.lines))
	out = append(out, r.lines[r.next:]...)
	out = append(out, r.lines[:r.next]...)
	return out
}
