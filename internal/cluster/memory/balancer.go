package memory

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
)

// LocalBalancer is a LoadBalancer that accepts every submission, assigning
// workers round-robin and echoing the coordinator's score.
type LocalBalancer struct {
	workers []string
	next    atomic.Uint64
}

// NewLocalBalancer creates a balancer over n named workers (at least one).
func NewLocalBalancer(n int) *LocalBalancer {
	if n < 1 {
		n = 1
	}
	workers := make([]string, n)
	for i := range workers {
		workers[i] = fmt.Sprintf("worker-%d", i+1)
	}
	return &LocalBalancer{workers: workers}
}

// RouteSubmission assigns sub to the next worker.
func (b *LocalBalancer) RouteSubmission(ctx context.Context, sub model.Submission, load int) (model.RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return model.RouteResult{}, err
	}
	i := b.next.Add(1) - 1
	worker := b.workers[i%uint64(len(b.workers))]
	return model.RouteResult{
		Success:    true,
		Message:    fmt.Sprintf("Submission processed by %s (load %d).", worker, load),
		FinalScore: sub.Score,
	}, nil
}
