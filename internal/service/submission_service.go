package service

import (
	"context"
	"errors"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/config"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/events"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/repository"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/telemetry"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/worker"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SubmissionService scores submissions, routes them through the load
// balancer and, once accepted, closes the student's enrollment.
type SubmissionService struct {
	enrollments *repository.EnrollmentRepository
	bank        *repository.QuestionBank
	balancer    cluster.LoadBalancer
	tasks       *worker.Registry
	scoring     *worker.ScoringWorker
	hub         *events.Hub
	opts        options
	log         zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	enrollments *repository.EnrollmentRepository,
	bank *repository.QuestionBank,
	balancer cluster.LoadBalancer,
	tasks *worker.Registry,
	scoring *worker.ScoringWorker,
	hub *events.Hub,
	log zerolog.Logger,
	opts ...Option,
) *SubmissionService {
	return &SubmissionService{
		enrollments: enrollments,
		bank:        bank,
		balancer:    balancer,
		tasks:       tasks,
		scoring:     scoring,
		hub:         hub,
		opts:        buildOptions(opts),
		log:         log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit handles a student's submission. The load signal is the number of
// students still active. The balancer's result is returned as-is; only an
// accepted submission changes state.
func (s *SubmissionService) Submit(ctx context.Context, rollNo string, sessionID uuid.UUID, answers []model.Answer, submitType model.SubmitType) (model.RouteResult, error) {
	load := s.enrollments.CountByStatus(model.StudentStatusActive)
	return s.submit(ctx, rollNo, sessionID, answers, submitType, load, model.PriorityNormal)
}

func (s *SubmissionService) submit(ctx context.Context, rollNo string, sessionID uuid.UUID, answers []model.Answer, submitType model.SubmitType, load, priority int) (model.RouteResult, error) {
	if submitType == "" {
		submitType = model.SubmitTypeManual
	}
	ctx, span := telemetry.Tracer().Start(ctx, "submission.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("exam.roll_no", rollNo),
		attribute.String("exam.submit_type", string(submitType)),
		attribute.Int("exam.load", load),
	)
	log := s.log.With().Str("roll_no", rollNo).Str("submit_type", string(submitType)).Logger()

	enrollment, err := s.enrollments.Get(rollNo)
	if err != nil {
		return model.RouteResult{}, ErrStudentNotActive
	}
	if enrollment.Status.IsTerminal() {
		return model.RouteResult{}, ErrAlreadySubmitted
	}

	score := s.bank.Score(answers)
	sub := model.Submission{
		RollNo:     rollNo,
		SessionID:  sessionID,
		Answers:    answers,
		SubmitType: submitType,
		Priority:   priority,
		Score:      score,
	}

	result, err := s.balancer.RouteSubmission(ctx, sub, load)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "route submission")
		log.Error().Err(err).Msg("Submission routing failed")
		return model.RouteResult{}, wrap(ErrSubmissionFailed, err)
	}
	span.SetAttributes(attribute.Bool("exam.accepted", result.Success))
	if !result.Success {
		log.Warn().Str("message", result.Message).Msg("Load balancer rejected submission")
		return result, nil
	}

	status := model.StudentStatusSubmitted
	eventType := events.StudentSubmitted
	if submitType == model.SubmitTypeAuto {
		status = model.StudentStatusAutoSubmitted
		eventType = events.StudentAutoSubmitted
	}
	if _, err := s.enrollments.MarkStatus(rollNo, status, s.opts.now()); err != nil {
		if errors.Is(err, repository.ErrTerminalStatus) {
			log.Warn().Msg("Submission accepted by balancer but student already left active")
			return model.RouteResult{}, ErrAlreadySubmitted
		}
		return model.RouteResult{}, ErrStudentNotActive
	}

	s.tasks.Cancel(config.CacheKey.StudentTaskKey(rollNo))
	s.scoring.Enqueue(worker.ScoreJob{
		RollNo: rollNo,
		Name:   enrollment.Name,
		Score:  score,
		Status: status,
	})

	log.Info().Int("score", score).Int("final_score", result.FinalScore).Msg("Submission accepted")
	s.hub.Publish(events.Event{
		Type:      eventType,
		SessionID: enrollment.SessionID.String(),
		RollNo:    rollNo,
		Data:      map[string]int{"score": score},
	})
	return result, nil
}
