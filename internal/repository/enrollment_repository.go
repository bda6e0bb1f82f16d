package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/google/uuid"
)

// EnrollmentRepository is the student registry: the in-memory table of
// enrollments keyed by roll number. Every method is atomic on its own; nothing
// is serialized across calls.
type EnrollmentRepository struct {
	mu          sync.RWMutex
	enrollments map[string]*model.StudentEnrollment
}

// NewEnrollmentRepository creates an empty EnrollmentRepository.
func NewEnrollmentRepository() *EnrollmentRepository {
	return &EnrollmentRepository{enrollments: make(map[string]*model.StudentEnrollment)}
}

// Enroll inserts an active enrollment. A roll number that is already present
// is rejected without touching the stored entry.
func (r *EnrollmentRepository) Enroll(rollNo, name string, sessionID uuid.UUID, at time.Time) (*model.StudentEnrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.enrollments[rollNo]; exists {
		return nil, ErrAlreadyEnrolled
	}
	e := &model.StudentEnrollment{
		RollNo:    rollNo,
		Name:      name,
		SessionID: sessionID,
		StartTime: at,
		Status:    model.StudentStatusActive,
	}
	r.enrollments[rollNo] = e
	out := *e
	return &out, nil
}

// Get returns a copy of the enrollment for rollNo.
func (r *EnrollmentRepository) Get(rollNo string) (*model.StudentEnrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.enrollments[rollNo]
	if !ok {
		return nil, ErrEnrollmentNotFound
	}
	out := *e
	return &out, nil
}

// MarkStatus moves an enrollment out of active. Terminal enrollments are never
// changed again; the caller gets ErrTerminalStatus instead. Submitted states
// also record the submission time.
func (r *EnrollmentRepository) MarkStatus(rollNo string, status model.StudentStatus, at time.Time) (*model.StudentEnrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.enrollments[rollNo]
	if !ok {
		return nil, ErrEnrollmentNotFound
	}
	if e.Status.IsTerminal() {
		return nil, ErrTerminalStatus
	}

	e.Status = status
	if status == model.StudentStatusSubmitted || status == model.StudentStatusAutoSubmitted {
		e.SubmissionTime = &at
	}
	out := *e
	return &out, nil
}

// ListBySession returns the enrollments of a session ordered by start time.
// An empty statusFilter matches every status.
func (r *EnrollmentRepository) ListBySession(sessionID uuid.UUID, statusFilter model.StudentStatus) []model.StudentEnrollment {
	r.mu.RLock()
	out := make([]model.StudentEnrollment, 0)
	for _, e := range r.enrollments {
		if e.SessionID != sessionID {
			continue
		}
		if statusFilter != "" && e.Status != statusFilter {
			continue
		}
		out = append(out, *e)
	}
	r.mu.RUnlock()

	sortEnrollments(out)
	return out
}

// List returns every enrollment ordered by start time.
func (r *EnrollmentRepository) List() []model.StudentEnrollment {
	r.mu.RLock()
	out := make([]model.StudentEnrollment, 0, len(r.enrollments))
	for _, e := range r.enrollments {
		out = append(out, *e)
	}
	r.mu.RUnlock()

	sortEnrollments(out)
	return out
}

// CountByStatus counts enrollments whose status is one of statuses.
func (r *EnrollmentRepository) CountByStatus(statuses ...model.StudentStatus) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.enrollments {
		for _, s := range statuses {
			if e.Status == s {
				n++
				break
			}
		}
	}
	return n
}

func sortEnrollments(list []model.StudentEnrollment) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].StartTime.Equal(list[j].StartTime) {
			return list[i].RollNo < list[j].RollNo
		}
		return list[i].StartTime.Before(list[j].StartTime)
	})
}
