package repository

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentRepository_EnrollRejectsDuplicate(t *testing.T) {
	repo := NewEnrollmentRepository()
	sid := uuid.New()
	start := time.Now()

	e, err := repo.Enroll("S1", "Asha", sid, start)
	require.NoError(t, err)
	assert.Equal(t, model.StudentStatusActive, e.Status)

	_, err = repo.Enroll("S1", "Someone Else", uuid.New(), start.Add(time.Second))
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	got, err := repo.Get("S1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, sid, got.SessionID)
	assert.True(t, got.StartTime.Equal(start))
}

func TestEnrollmentRepository_ConcurrentEnrollOneWinner(t *testing.T) {
	repo := NewEnrollmentRepository()
	sid := uuid.New()

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Enroll("S1", "Asha", sid, time.Now()); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestEnrollmentRepository_MarkStatusIsMonotone(t *testing.T) {
	repo := NewEnrollmentRepository()
	_, err := repo.Enroll("S1", "Asha", uuid.New(), time.Now())
	require.NoError(t, err)

	at := time.Now()
	e, err := repo.MarkStatus("S1", model.StudentStatusSubmitted, at)
	require.NoError(t, err)
	assert.Equal(t, model.StudentStatusSubmitted, e.Status)
	require.NotNil(t, e.SubmissionTime)

	for _, next := range []model.StudentStatus{
		model.StudentStatusActive,
		model.StudentStatusAutoSubmitted,
		model.StudentStatusTerminated,
	} {
		_, err = repo.MarkStatus("S1", next, time.Now())
		assert.ErrorIs(t, err, ErrTerminalStatus)
	}

	got, err := repo.Get("S1")
	require.NoError(t, err)
	assert.Equal(t, model.StudentStatusSubmitted, got.Status)
}

func TestEnrollmentRepository_TerminatedHasNoSubmissionTime(t *testing.T) {
	repo := NewEnrollmentRepository()
	_, err := repo.Enroll("S1", "Asha", uuid.New(), time.Now())
	require.NoError(t, err)

	e, err := repo.MarkStatus("S1", model.StudentStatusTerminated, time.Now())
	require.NoError(t, err)
	assert.Nil(t, e.SubmissionTime)
}

func TestEnrollmentRepository_UnknownRoll(t *testing.T) {
	repo := NewEnrollmentRepository()

	_, err := repo.Get("nobody")
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)

	_, err = repo.MarkStatus("nobody", model.StudentStatusSubmitted, time.Now())
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestEnrollmentRepository_ListAndCount(t *testing.T) {
	repo := NewEnrollmentRepository()
	s1, s2 := uuid.New(), uuid.New()
	base := time.Now()

	_, _ = repo.Enroll("B", "Bo", s1, base.Add(2*time.Second))
	_, _ = repo.Enroll("A", "Al", s1, base.Add(time.Second))
	_, _ = repo.Enroll("C", "Cy", s2, base)
	_, err := repo.MarkStatus("B", model.StudentStatusAutoSubmitted, base)
	require.NoError(t, err)

	all := repo.ListBySession(s1, "")
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].RollNo)
	assert.Equal(t, "B", all[1].RollNo)

	active := repo.ListBySession(s1, model.StudentStatusActive)
	require.Len(t, active, 1)
	assert.Equal(t, "A", active[0].RollNo)

	assert.Len(t, repo.List(), 3)
	assert.Equal(t, 2, repo.CountByStatus(model.StudentStatusActive))
	assert.Equal(t, 1, repo.CountByStatus(model.StudentStatusSubmitted, model.StudentStatusAutoSubmitted))
}
