// Package memory provides in-process implementations of the cluster
// collaborators. They back the default single-node configuration and the
// development cluster.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
)

// Store is a map-backed ConsistencyService. Roles are accepted but not
// enforced.
type Store struct {
	mu      sync.RWMutex
	records map[string]model.StudentRecord
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{records: make(map[string]model.StudentRecord)}
}

// ReadStudentRecord returns a copy of the record for rollNo.
func (s *Store) ReadStudentRecord(ctx context.Context, rollNo string, _ cluster.Role) (*model.StudentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[rollNo]
	if !ok {
		return nil, cluster.ErrRecordNotFound
	}
	return &rec, nil
}

// WriteStudentRecord stores rec under rollNo, replacing any previous value.
func (s *Store) WriteStudentRecord(ctx context.Context, rollNo string, rec *model.StudentRecord, _ cluster.Role) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil {
		return cluster.ErrWriteRejected
	}
	stored := *rec
	stored.RollNo = rollNo

	s.mu.Lock()
	s.records[rollNo] = stored
	s.mu.Unlock()
	return nil
}

// ReadAllStudentRecords returns every record ordered by roll number.
func (s *Store) ReadAllStudentRecords(ctx context.Context, _ cluster.Role) ([]model.StudentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]model.StudentRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].RollNo < out[j].RollNo })
	return out, nil
}
