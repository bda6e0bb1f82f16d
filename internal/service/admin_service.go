package service

import (
	"runtime"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/logger"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/repository"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/worker"
)

// Log tail bounds for GetSystemLogs.
const (
	DefaultLogLines = 50
	MaxLogLines     = 1000
)

// AdminService serves the administrative views: logs, metrics and
// connections.
type AdminService struct {
	ring        *logger.RingBuffer
	enrollments *repository.EnrollmentRepository
	scoring     *worker.ScoringWorker
	tasks       *worker.Registry
	startedAt   time.Time
	opts        options
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	ring *logger.RingBuffer,
	enrollments *repository.EnrollmentRepository,
	scoring *worker.ScoringWorker,
	tasks *worker.Registry,
	opts ...Option,
) *AdminService {
	o := buildOptions(opts)
	return &AdminService{
		ring:        ring,
		enrollments: enrollments,
		scoring:     scoring,
		tasks:       tasks,
		startedAt:   o.now(),
		opts:        o,
	}
}

// GetSystemLogs returns the last lastN buffered log lines, optionally
// filtered by a case-insensitive substring. lastN defaults to 50 and is
// capped at 1000.
func (s *AdminService) GetSystemLogs(lastN int, filter string) model.SystemLogs {
	if lastN <= 0 {
		lastN = DefaultLogLines
	}
	if lastN > MaxLogLines {
		lastN = MaxLogLines
	}

	lines := []string{}
	if s.ring != nil {
		lines = s.ring.Tail(lastN, filter)
	}
	return model.SystemLogs{
		LogLines:  lines,
		Timestamp: s.opts.now().Unix(),
	}
}

// GetServerMetrics returns a snapshot of coordinator load.
func (s *AdminService) GetServerMetrics() model.ServerMetrics {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	pending := 0
	if s.scoring != nil {
		pending = s.scoring.Pending()
	}

	return model.ServerMetrics{
		ActiveStudents: s.enrollments.CountByStatus(model.StudentStatusActive),
		CompletedSubmissions: s.enrollments.CountByStatus(
			model.StudentStatusSubmitted,
			model.StudentStatusAutoSubmitted,
		),
		PendingRequests: pending,
		BackgroundTasks: s.tasks.Len(),
		Goroutines:      runtime.NumGoroutine(),
		HeapAllocBytes:  mem.HeapAlloc,
		HeapSysBytes:    mem.HeapSys,
		Uptime:          s.opts.now().Sub(s.startedAt).Round(time.Second).String(),
	}
}

// GetActiveConnections lists one entry per enrolled student.
func (s *AdminService) GetActiveConnections() []model.ConnectionInfo {
	list := s.enrollments.List()
	out := make([]model.ConnectionInfo, 0, len(list))
	for _, e := range list {
		out = append(out, model.ConnectionInfo{
			ClientID:       e.RollNo,
			ConnectionType: "student",
			ConnectedSince: e.StartTime,
			Status:         e.Status,
		})
	}
	return out
}
