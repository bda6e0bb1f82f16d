package memory

import (
	"context"
	"testing"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBalancer_RoundRobinEchoesScore(t *testing.T) {
	b := NewLocalBalancer(2)
	ctx := context.Background()

	r1, err := b.RouteSubmission(ctx, model.Submission{RollNo: "S1", Score: 30}, 4)
	require.NoError(t, err)
	assert.True(t, r1.Success)
	assert.Equal(t, 30, r1.FinalScore)
	assert.Contains(t, r1.Message, "worker-1")

	r2, err := b.RouteSubmission(ctx, model.Submission{RollNo: "S2"}, 3)
	require.NoError(t, err)
	assert.Contains(t, r2.Message, "worker-2")

	r3, err := b.RouteSubmission(ctx, model.Submission{RollNo: "S3"}, 2)
	require.NoError(t, err)
	assert.Contains(t, r3.Message, "worker-1")
}

func TestLocalBalancer_AtLeastOneWorker(t *testing.T) {
	b := NewLocalBalancer(0)
	r, err := b.RouteSubmission(context.Background(), model.Submission{Score: 10}, 0)
	require.NoError(t, err)
	assert.Contains(t, r.Message, "worker-1")
}
