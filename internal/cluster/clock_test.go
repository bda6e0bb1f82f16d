package cluster

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_StrictlyIncreasingUnderFrozenTime(t *testing.T) {
	frozen := time.Unix(1700000000, 0)
	c := NewClockAt(func() time.Time { return frozen })

	prev := c.Next()
	assert.Equal(t, frozen.UnixMicro(), prev)
	for i := 0; i < 100; i++ {
		next := c.Next()
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestClock_FollowsWallClock(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := NewClockAt(func() time.Time { return now })
	_ = c.Next()

	now = now.Add(time.Second)
	assert.Equal(t, now.UnixMicro(), c.Next())
}

func TestClock_NeverMovesBackward(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := NewClockAt(func() time.Time { return now })

	first := c.Next()
	now = now.Add(-time.Minute)
	assert.Equal(t, first+1, c.Next())
}

func TestClock_UniqueAcrossGoroutines(t *testing.T) {
	c := NewClock()

	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{})
		wg   sync.WaitGroup
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				tok := c.Next()
				mu.Lock()
				seen[tok] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 8*200)
}
