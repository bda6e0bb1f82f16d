package service

import (
	"context"
	"errors"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/config"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/events"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultReleaseTimeout bounds the critical-section release issued on exit.
const DefaultReleaseTimeout = 5 * time.Second

// MarksUpdate holds the three marks a proctor may overwrite.
type MarksUpdate struct {
	ISA       int
	MSE       int
	ESE       int
	UpdatedBy string
}

// MarksService applies proctor mark corrections inside a critical section
// keyed by roll number.
type MarksService struct {
	records        cluster.ConsistencyService
	mutex          cluster.MutualExclusionService
	clock          *cluster.Clock
	acquireTimeout time.Duration
	hub            *events.Hub
	log            zerolog.Logger
}

// NewMarksService creates a new MarksService. A non-positive acquireTimeout
// leaves the acquisition bounded only by the caller's context.
func NewMarksService(
	records cluster.ConsistencyService,
	mutex cluster.MutualExclusionService,
	clock *cluster.Clock,
	acquireTimeout time.Duration,
	hub *events.Hub,
	log zerolog.Logger,
) *MarksService {
	return &MarksService{
		records:        records,
		mutex:          mutex,
		clock:          clock,
		acquireTimeout: acquireTimeout,
		hub:            hub,
		log:            log.With().Str("component", "marks_service").Logger(),
	}
}

// UpdateMarks overwrites isa, mse and ese marks of a student and returns the
// record as stored afterwards. Every granted critical section is released
// before returning, whatever the outcome.
func (s *MarksService) UpdateMarks(ctx context.Context, rollNo string, upd MarksUpdate) (*model.StudentRecord, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "marks.update")
	defer span.End()

	key := config.CacheKey.MarksResourceKey(rollNo)
	token := s.clock.Next()
	span.SetAttributes(attribute.String("exam.roll_no", rollNo), attribute.Int64("exam.cs_token", token))
	log := s.log.With().Str("roll_no", rollNo).Int64("token", token).Logger()

	acquireCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.acquireTimeout > 0 {
		acquireCtx, cancel = context.WithTimeout(ctx, s.acquireTimeout)
	}
	granted, err := s.mutex.RequestCriticalSection(acquireCtx, key, token)
	cancel()
	if err != nil {
		// The arbiter may have granted before failing; release what we may hold.
		s.release(key, token, log)
		span.RecordError(err)
		span.SetStatus(codes.Error, "acquire critical section")
		log.Warn().Err(err).Msg("Critical section request failed")
		return nil, wrap(ErrLockUnavailable, err)
	}
	if !granted {
		span.SetStatus(codes.Error, "critical section denied")
		log.Warn().Msg("Critical section denied")
		return nil, ErrLockUnavailable
	}
	defer s.release(key, token, log)

	rec, err := s.records.ReadStudentRecord(ctx, rollNo, cluster.RoleTeacher)
	if err != nil {
		if errors.Is(err, cluster.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "read record")
		log.Error().Err(err).Msg("Failed to read record for marks update")
		return nil, wrap(ErrUpdateFailed, err)
	}

	rec.ISAMarks = upd.ISA
	rec.MSEMarks = upd.MSE
	rec.ESEMarks = upd.ESE
	if err := s.records.WriteStudentRecord(ctx, rollNo, rec, cluster.RoleTeacher); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write record")
		log.Error().Err(err).Msg("Failed to write updated marks")
		return nil, wrap(ErrUpdateFailed, err)
	}

	// Report what the store now holds, still inside the critical section.
	if stored, err := s.records.ReadStudentRecord(ctx, rollNo, cluster.RoleTeacher); err == nil {
		rec = stored
	} else {
		log.Warn().Err(err).Msg("Failed to re-read record after marks update, returning written copy")
	}

	log.Info().
		Str("updated_by", upd.UpdatedBy).
		Int("isa", upd.ISA).
		Int("mse", upd.MSE).
		Int("ese", upd.ESE).
		Msg("Marks updated")
	s.hub.Publish(events.Event{
		Type:   events.MarksUpdated,
		RollNo: rollNo,
		Data:   rec,
	})
	return rec, nil
}

// release runs on a fresh context so a cancelled caller still frees the key.
func (s *MarksService) release(key string, token int64, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultReleaseTimeout)
	defer cancel()
	if err := s.mutex.ReleaseCriticalSection(ctx, key, token); err != nil {
		log.Warn().Err(err).Msg("Failed to release critical section")
	}
}
