package service

import (
	"context"
	"errors"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/config"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/events"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/repository"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/worker"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ExamService serves the participant path: joining the active session,
// fetching questions and checking status.
type ExamService struct {
	sessions    *repository.SessionRepository
	enrollments *repository.EnrollmentRepository
	bank        *repository.QuestionBank
	records     cluster.ConsistencyService
	tasks       *worker.Registry
	monitor     *worker.CheatingMonitor
	hub         *events.Hub
	opts        options
	log         zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	sessions *repository.SessionRepository,
	enrollments *repository.EnrollmentRepository,
	bank *repository.QuestionBank,
	records cluster.ConsistencyService,
	tasks *worker.Registry,
	monitor *worker.CheatingMonitor,
	hub *events.Hub,
	log zerolog.Logger,
	opts ...Option,
) *ExamService {
	return &ExamService{
		sessions:    sessions,
		enrollments: enrollments,
		bank:        bank,
		records:     records,
		tasks:       tasks,
		monitor:     monitor,
		hub:         hub,
		opts:        buildOptions(opts),
		log:         log.With().Str("component", "exam_service").Logger(),
	}
}

// StartExam enrolls a student in the active session. The student's initial
// record is registered with the consistency service before the enrollment is
// created, and the student's cheating monitor starts once enrolled.
func (s *ExamService) StartExam(ctx context.Context, rollNo, name string) (*model.StartExamResult, error) {
	now := s.opts.now()
	session, ok := s.sessions.Active()
	if !ok || !session.IsOpen(now) {
		return nil, ErrNoActiveSession
	}
	if _, err := s.enrollments.Get(rollNo); err == nil {
		return nil, ErrAlreadyEnrolled
	}

	if err := s.records.WriteStudentRecord(ctx, rollNo, model.NewStudentRecord(rollNo, name), cluster.RoleSystem); err != nil {
		s.log.Error().Err(err).Str("roll_no", rollNo).Msg("Failed to register student record")
		return nil, wrap(ErrRegistrationFailed, err)
	}

	if _, err := s.enrollments.Enroll(rollNo, name, session.ID, now); err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, wrap(&Error{Kind: ErrInternal, Message: "System error during registration."}, err)
	}

	// The session may have ended while the record was being registered, after
	// its sweep listed the active students.
	if current, err := s.sessions.GetByID(session.ID); err != nil || current.Status != model.SessionStatusActive {
		s.closeLateEnrollment(ctx, rollNo, name, session.ID)
		return nil, ErrNoActiveSession
	}

	endTime := session.EndTime
	s.tasks.Start(config.CacheKey.StudentTaskKey(rollNo), func(ctx context.Context) {
		s.monitor.Run(ctx, rollNo, endTime)
	})

	s.log.Info().Str("roll_no", rollNo).Str("session_id", session.ID.String()).Msg("Student started exam")
	s.hub.Publish(events.Event{
		Type:      events.StudentEnrolled,
		SessionID: session.ID.String(),
		RollNo:    rollNo,
		Data:      map[string]string{"student_name": name},
	})

	return &model.StartExamResult{SessionID: session.ID, ExamEndTime: session.EndTime}, nil
}

// closeLateEnrollment auto-submits a student enrolled into a session that
// ended meanwhile, with score 0, the way the session sweep closes students it
// could not route. If the sweep already closed the student nothing is done.
func (s *ExamService) closeLateEnrollment(ctx context.Context, rollNo, name string, sessionID uuid.UUID) {
	log := s.log.With().Str("roll_no", rollNo).Str("session_id", sessionID.String()).Logger()
	if _, err := s.enrollments.MarkStatus(rollNo, model.StudentStatusAutoSubmitted, s.opts.now()); err != nil {
		return
	}
	log.Warn().Msg("Session ended during enrollment, student auto-submitted")

	rec := model.NewStudentRecord(rollNo, name)
	rec.Status = model.StudentStatusAutoSubmitted
	if err := s.records.WriteStudentRecord(context.WithoutCancel(ctx), rollNo, rec, cluster.RoleSystem); err != nil {
		log.Error().Err(err).Msg("Failed to persist auto-submission of late enrollment")
	}
	s.hub.Publish(events.Event{
		Type:      events.StudentAutoSubmitted,
		SessionID: sessionID.String(),
		RollNo:    rollNo,
		Data:      map[string]int{"score": 0},
	})
}

// GetQuestions returns the question paper, without correct answers, to an
// enrolled student along with the time left in the session.
func (s *ExamService) GetQuestions(rollNo string, sessionID uuid.UUID) (*model.QuestionPaper, error) {
	if _, err := s.enrollments.Get(rollNo); err != nil {
		return nil, ErrStudentNotActive
	}
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	return &model.QuestionPaper{
		Questions:     s.bank.ForStudents(),
		TimeRemaining: session.Remaining(s.opts.now()).Seconds(),
	}, nil
}

// GetStatus merges the student's durable record with the time left in their
// session.
func (s *ExamService) GetStatus(ctx context.Context, rollNo string) (*model.StudentStatusView, error) {
	enrollment, err := s.enrollments.Get(rollNo)
	if err != nil {
		return nil, ErrStudentNotActive
	}

	rec, err := s.records.ReadStudentRecord(ctx, rollNo, cluster.RoleSystem)
	if err != nil {
		if errors.Is(err, cluster.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.log.Error().Err(err).Str("roll_no", rollNo).Msg("Failed to read student status")
		return nil, wrap(ErrRecordsUnavailable, err)
	}

	view := &model.StudentStatusView{Student: *rec}
	if session, err := s.sessions.GetByID(enrollment.SessionID); err == nil {
		view.TimeRemaining = session.Remaining(s.opts.now()).Seconds()
	}
	return view, nil
}
