package service

import (
	"context"
	"errors"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/config"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/events"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/repository"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/worker"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SweepResult counts what a sweep did.
type SweepResult struct {
	// Routed students were accepted by the load balancer.
	Routed int `json:"routed"`
	// Forced students were closed locally after the balancer failed or refused.
	Forced int `json:"forced"`
}

// Sweeper closes every student still active when a session ends.
type Sweeper struct {
	enrollments *repository.EnrollmentRepository
	submissions *SubmissionService
	tasks       *worker.Registry
	scoring     *worker.ScoringWorker
	hub         *events.Hub
	opts        options
	log         zerolog.Logger
}

// NewSweeper creates a new Sweeper.
func NewSweeper(
	enrollments *repository.EnrollmentRepository,
	submissions *SubmissionService,
	tasks *worker.Registry,
	scoring *worker.ScoringWorker,
	hub *events.Hub,
	log zerolog.Logger,
	opts ...Option,
) *Sweeper {
	return &Sweeper{
		enrollments: enrollments,
		submissions: submissions,
		tasks:       tasks,
		scoring:     scoring,
		hub:         hub,
		opts:        buildOptions(opts),
		log:         log.With().Str("component", "session_sweeper").Logger(),
	}
}

// Sweep auto-submits an empty answer sheet for every active student of the
// session at low priority and zero load. Students the balancer does not
// accept are still marked auto_submitted with score 0.
func (s *Sweeper) Sweep(ctx context.Context, sessionID uuid.UUID) SweepResult {
	var res SweepResult
	for _, e := range s.enrollments.ListBySession(sessionID, model.StudentStatusActive) {
		log := s.log.With().Str("roll_no", e.RollNo).Logger()

		result, err := s.submissions.submit(ctx, e.RollNo, sessionID, nil, model.SubmitTypeAuto, 0, model.PriorityLow)
		switch {
		case err == nil && result.Success:
			res.Routed++
			continue
		case errors.Is(err, ErrConflict):
			// Submitted or terminated since the listing.
			continue
		case err != nil:
			log.Warn().Err(err).Msg("Auto-submission routing failed, closing locally")
		default:
			log.Warn().Str("message", result.Message).Msg("Auto-submission refused by balancer, closing locally")
		}

		if s.forceAutoSubmit(e) {
			res.Forced++
		}
	}

	s.log.Info().
		Str("session_id", sessionID.String()).
		Int("routed", res.Routed).
		Int("forced", res.Forced).
		Msg("Session sweep complete")
	return res
}

func (s *Sweeper) forceAutoSubmit(e model.StudentEnrollment) bool {
	if _, err := s.enrollments.MarkStatus(e.RollNo, model.StudentStatusAutoSubmitted, s.opts.now()); err != nil {
		return false
	}
	s.tasks.Cancel(config.CacheKey.StudentTaskKey(e.RollNo))
	s.scoring.Enqueue(worker.ScoreJob{
		RollNo: e.RollNo,
		Name:   e.Name,
		Score:  0,
		Status: model.StudentStatusAutoSubmitted,
	})
	s.hub.Publish(events.Event{
		Type:      events.StudentAutoSubmitted,
		SessionID: e.SessionID.String(),
		RollNo:    e.RollNo,
		Data:      map[string]int{"score": 0},
	})
	return true
}
