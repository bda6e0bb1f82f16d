// Package cluster declares the contracts of the collaborators the coordinator
// delegates to: the replicated student-record store, the critical-section
// arbiter and the submission load balancer. Adapters live in the sub-packages.
package cluster

import (
	"context"
	"errors"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
)

// Role identifies the caller presented to the consistency service.
type Role string

const (
	RoleSystem  Role = "system"
	RoleTeacher Role = "teacher"
)

var (
	// ErrRecordNotFound is returned when no record exists for a roll number.
	ErrRecordNotFound = errors.New("student record not found")
	// ErrWriteRejected is returned when the store refuses a write.
	ErrWriteRejected = errors.New("student record write rejected")
	// ErrNotHolder is returned when a release presents a token that does not
	// hold the critical section.
	ErrNotHolder = errors.New("critical section held by another token")
)

// ConsistencyService owns the durable StudentRecord rows.
type ConsistencyService interface {
	ReadStudentRecord(ctx context.Context, rollNo string, role Role) (*model.StudentRecord, error)
	WriteStudentRecord(ctx context.Context, rollNo string, rec *model.StudentRecord, role Role) error
	ReadAllStudentRecords(ctx context.Context, role Role) ([]model.StudentRecord, error)
}

// MutualExclusionService grants exclusive access to a named resource. The same
// token must be presented on release.
type MutualExclusionService interface {
	RequestCriticalSection(ctx context.Context, key string, token int64) (granted bool, err error)
	ReleaseCriticalSection(ctx context.Context, key string, token int64) error
}

// LoadBalancer routes a scored submission to a worker; its answer is final.
type LoadBalancer interface {
	RouteSubmission(ctx context.Context, sub model.Submission, load int) (model.RouteResult, error)
}
