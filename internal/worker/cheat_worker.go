package worker

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/events"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/repository"
	"github.com/rs/zerolog"
)

// Default cheating check cadence: every check sleeps in [90s, 120s).
const (
	DefaultCheatMinInterval    = 90 * time.Second
	DefaultCheatIntervalSpread = 30 * time.Second
	DefaultCheatProbability    = 0.10
)

// Detector decides whether a given check of a student flags cheating.
type Detector interface {
	Detect(rollNo string, check int) bool
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(rollNo string, check int) bool

func (f DetectorFunc) Detect(rollNo string, check int) bool { return f(rollNo, check) }

// RandomDetector flags a check with a fixed probability, drawing from a
// source seeded by the roll number and the current time.
type RandomDetector struct {
	Probability float64
	Now         func() time.Time
}

func (d RandomDetector) Detect(rollNo string, check int) bool {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	seed := uint64(now().UnixNano()) ^ uint64(check)
	r := rand.New(rand.NewPCG(uint64(hash32(rollNo)), seed))
	return r.Float64() < d.Probability
}

// EnrollmentStore is the part of the student registry the monitor touches.
type EnrollmentStore interface {
	Get(rollNo string) (*model.StudentEnrollment, error)
	MarkStatus(rollNo string, status model.StudentStatus, at time.Time) (*model.StudentEnrollment, error)
}

// CheckInterval returns the sleep before a check: min plus a deterministic
// offset in [0, spread) derived from the roll number and check index.
func CheckInterval(rollNo string, check int, min, spread time.Duration) time.Duration {
	secs := int64(spread / time.Second)
	if secs <= 0 {
		return min
	}
	offset := int64(hash32(fmt.Sprintf("%s:%d", rollNo, check))) % secs
	return min + time.Duration(offset)*time.Second
}

func hash32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// CheatingMonitor runs the per-student cheating checks and penalty
// escalation. One Run call watches one student.
type CheatingMonitor struct {
	records     cluster.ConsistencyService
	enrollments EnrollmentStore
	detector    Detector
	hub         *events.Hub
	interval    func(rollNo string, check int) time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

// MonitorOption customises a CheatingMonitor.
type MonitorOption func(*CheatingMonitor)

// WithInterval overrides the check interval function.
func WithInterval(fn func(rollNo string, check int) time.Duration) MonitorOption {
	return func(m *CheatingMonitor) { m.interval = fn }
}

// WithMonitorClock overrides the monitor's clock.
func WithMonitorClock(now func() time.Time) MonitorOption {
	return func(m *CheatingMonitor) { m.now = now }
}

// NewCheatingMonitor creates a monitor with the default [90s, 120s) cadence.
func NewCheatingMonitor(records cluster.ConsistencyService, enrollments EnrollmentStore, detector Detector, hub *events.Hub, log zerolog.Logger, opts ...MonitorOption) *CheatingMonitor {
	m := &CheatingMonitor{
		records:     records,
		enrollments: enrollments,
		detector:    detector,
		hub:         hub,
		interval: func(rollNo string, check int) time.Duration {
			return CheckInterval(rollNo, check, DefaultCheatMinInterval, DefaultCheatIntervalSpread)
		},
		now: time.Now,
		log: log.With().Str("component", "cheat_worker").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run watches rollNo until its enrollment leaves active, the session deadline
// passes, the student is terminated or ctx is cancelled.
func (m *CheatingMonitor) Run(ctx context.Context, rollNo string, sessionEnd time.Time) {
	log := m.log.With().Str("roll_no", rollNo).Logger()
	log.Debug().Msg("Cheating monitor started")
	defer log.Debug().Msg("Cheating monitor stopped")

	for check := 1; ; check++ {
		timer := time.NewTimer(m.interval(rollNo, check))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if !m.now().Before(sessionEnd) {
			return
		}
		e, err := m.enrollments.Get(rollNo)
		if err != nil || e.Status != model.StudentStatusActive {
			return
		}
		if !m.detector.Detect(rollNo, check) {
			continue
		}
		if stop := m.escalate(ctx, log, rollNo, e.SessionID.String()); stop {
			return
		}
	}
}

// escalate applies the penalty for one detected incident. It reports whether
// the monitor should stop.
func (m *CheatingMonitor) escalate(ctx context.Context, log zerolog.Logger, rollNo, sessionID string) bool {
	rec, err := m.records.ReadStudentRecord(ctx, rollNo, cluster.RoleSystem)
	if err != nil {
		log.Warn().Err(err).Msg("Cheating detected but record read failed, skipping this check")
		return false
	}

	rec.CheatingCount++
	if rec.CheatingCount < 2 {
		rec.ESEMarks /= 2
		log.Warn().Int("cheating_count", rec.CheatingCount).Int("ese_marks", rec.ESEMarks).Msg("Cheating warning issued, end-term marks halved")
		if err := m.records.WriteStudentRecord(ctx, rollNo, rec, cluster.RoleSystem); err != nil {
			log.Error().Err(err).Msg("Failed to persist cheating warning")
		}
		m.hub.Publish(events.Event{
			Type:      events.CheatingWarning,
			SessionID: sessionID,
			RollNo:    rollNo,
			Data:      map[string]int{"cheating_count": rec.CheatingCount, "ese_marks": rec.ESEMarks},
		})
		return false
	}

	if _, err := m.enrollments.MarkStatus(rollNo, model.StudentStatusTerminated, m.now()); err != nil {
		if errors.Is(err, repository.ErrTerminalStatus) {
			log.Info().Msg("Student left the exam before termination, penalty dropped")
		} else {
			log.Error().Err(err).Msg("Failed to terminate student locally")
		}
		return true
	}

	rec.Status = model.StudentStatusTerminated
	rec.ESEMarks = 0
	log.Warn().Int("cheating_count", rec.CheatingCount).Msg("Student terminated for repeated cheating")
	if err := m.records.WriteStudentRecord(ctx, rollNo, rec, cluster.RoleSystem); err != nil {
		log.Error().Err(err).Msg("Failed to persist termination, record may still show active")
	}
	m.hub.Publish(events.Event{
		Type:      events.StudentTerminated,
		SessionID: sessionID,
		RollNo:    rollNo,
		Data:      map[string]int{"cheating_count": rec.CheatingCount},
	})
	return true
}
