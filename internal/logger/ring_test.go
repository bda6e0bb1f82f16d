package logger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferKeepsMostRecentLines(t *testing.T) {
	ring := NewRingBuffer(3)
	for i := 1; i <= 5; i++ {
		ring.Add(fmt.Sprintf("line %d", i))
	}

	assert.Equal(t, []string{"line 3", "line 4", "line 5"}, ring.Tail(0, ""))
	assert.Equal(t, []string{"line 5"}, ring.Tail(1, ""))
}

func TestRingBufferSplitsMultilineWrites(t *testing.T) {
	ring := NewRingBuffer(10)
	n, err := ring.Write([]byte("first\nsecond\n"))
	require.NoError(t, err)
	assert.Equal(t, 13, n)
	assert.Equal(t, []string{"first", "second"}, ring.Tail(10, ""))
}

func TestRingBufferFilterIsCaseInsensitive(t *testing.T) {
	ring := NewRingBuffer(10)
	ring.Add("INF component=submission_service submitted")
	ring.Add("WRN component=cheat_worker first offense")
	ring.Add("INF component=submission_service auto-submitted")

	got := ring.Tail(10, "SUBMISSION_SERVICE")
	assert.Len(t, got, 2)
	assert.Empty(t, ring.Tail(10, "marks"))
}

func TestRingBufferDefaultsCapacity(t *testing.T) {
	assert.Equal(t, DefaultRingSize, NewRingBuffer(0).Capacity())
}
