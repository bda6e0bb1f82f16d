package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/logger"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/repository"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/worker"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminFixture(t *testing.T) (*AdminService, *logger.RingBuffer, *repository.EnrollmentRepository, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: t0}
	ring := logger.NewRingBuffer(2000)
	enrollments := repository.NewEnrollmentRepository()
	scoring := worker.NewScoringWorker(nil, 8, time.Second, zerolog.Nop())
	svc := NewAdminService(ring, enrollments, scoring, worker.NewRegistry(zerolog.Nop()), WithNow(clock.Now))
	return svc, ring, enrollments, clock
}

func TestGetSystemLogs_DefaultsAndCap(t *testing.T) {
	svc, ring, _, _ := newAdminFixture(t)
	for i := 0; i < 1500; i++ {
		ring.Add(fmt.Sprintf("line %d", i))
	}

	logs := svc.GetSystemLogs(0, "")
	require.Len(t, logs.LogLines, DefaultLogLines)
	assert.Equal(t, "line 1499", logs.LogLines[DefaultLogLines-1])
	assert.Equal(t, t0.Unix(), logs.Timestamp)

	assert.Len(t, svc.GetSystemLogs(5000, "").LogLines, MaxLogLines)
	assert.Len(t, svc.GetSystemLogs(3, "").LogLines, 3)
}

func TestGetSystemLogs_Filter(t *testing.T) {
	svc, ring, _, _ := newAdminFixture(t)
	ring.Add(`{"level":"info","message":"Student started exam"}`)
	ring.Add(`{"level":"error","message":"Failed to persist submission result"}`)
	ring.Add(`{"level":"info","message":"Marks updated"}`)

	logs := svc.GetSystemLogs(10, "ERROR")
	require.Len(t, logs.LogLines, 1)
	assert.Contains(t, logs.LogLines[0], "persist submission")
}

func TestGetSystemLogs_NoBuffer(t *testing.T) {
	svc := NewAdminService(nil, repository.NewEnrollmentRepository(), nil, worker.NewRegistry(zerolog.Nop()))
	logs := svc.GetSystemLogs(10, "")
	assert.NotNil(t, logs.LogLines)
	assert.Empty(t, logs.LogLines)
}

func TestGetServerMetrics(t *testing.T) {
	svc, _, enrollments, clock := newAdminFixture(t)
	sid := uuid.New()
	for _, roll := range []string{"S1", "S2", "S3"} {
		_, err := enrollments.Enroll(roll, roll, sid, t0)
		require.NoError(t, err)
	}
	_, err := enrollments.MarkStatus("S1", model.StudentStatusSubmitted, t0)
	require.NoError(t, err)
	_, err = enrollments.MarkStatus("S2", model.StudentStatusTerminated, t0)
	require.NoError(t, err)

	clock.Advance(90 * time.Second)
	m := svc.GetServerMetrics()
	assert.Equal(t, 1, m.ActiveStudents)
	assert.Equal(t, 1, m.CompletedSubmissions)
	assert.Equal(t, 0, m.PendingRequests)
	assert.Positive(t, m.Goroutines)
	assert.NotZero(t, m.HeapSysBytes)
	assert.Equal(t, "1m30s", m.Uptime)
}

func TestGetActiveConnections(t *testing.T) {
	svc, _, enrollments, _ := newAdminFixture(t)
	assert.Empty(t, svc.GetActiveConnections())

	_, err := enrollments.Enroll("S1", "Asha", uuid.New(), t0)
	require.NoError(t, err)

	conns := svc.GetActiveConnections()
	require.Len(t, conns, 1)
	assert.Equal(t, model.ConnectionInfo{
		ClientID:       "S1",
		ConnectionType: "student",
		ConnectedSince: t0,
		Status:         model.StudentStatusActive,
	}, conns[0])
}
