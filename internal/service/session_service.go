package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/config"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/events"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/repository"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/worker"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionService handles the proctor's session lifecycle.
type SessionService struct {
	sessions *repository.SessionRepository
	sweeper  *Sweeper
	tasks    *worker.Registry
	timer    *worker.SessionTimer
	hub      *events.Hub
	opts     options
	log      zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	sessions *repository.SessionRepository,
	sweeper *Sweeper,
	tasks *worker.Registry,
	timer *worker.SessionTimer,
	hub *events.Hub,
	log zerolog.Logger,
	opts ...Option,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		sweeper:  sweeper,
		tasks:    tasks,
		timer:    timer,
		hub:      hub,
		opts:     buildOptions(opts),
		log:      log.With().Str("component", "session_service").Logger(),
	}
}

// StartSession opens a new session unless one is already active and starts
// its deadline timer.
func (s *SessionService) StartSession(title string, durationMinutes int) (*model.ExamSession, string, error) {
	now := s.opts.now()
	session := &model.ExamSession{
		ID:              uuid.New(),
		Title:           title,
		CreatedAt:       now,
		EndTime:         now.Add(time.Duration(durationMinutes) * time.Minute),
		DurationMinutes: durationMinutes,
		Status:          model.SessionStatusActive,
	}
	if err := s.sessions.CreateIfNoneActive(session); err != nil {
		if errors.Is(err, repository.ErrActiveSessionExists) {
			return nil, "", ErrSessionAlreadyActive
		}
		return nil, "", wrap(ErrUpdateFailed, err)
	}

	id := session.ID
	s.tasks.Start(config.CacheKey.SessionTaskKey(id.String()), func(ctx context.Context) {
		s.timer.Run(ctx, id, session.EndTime, func(ctx context.Context) {
			s.expire(ctx, id)
		})
	})

	s.log.Info().
		Str("session_id", id.String()).
		Str("title", title).
		Int("duration_minutes", durationMinutes).
		Msg("Exam session started")
	s.hub.Publish(events.Event{
		Type:      events.SessionStarted,
		SessionID: id.String(),
		Data:      session,
	})
	return session, fmt.Sprintf("Exam session '%s' started successfully.", title), nil
}

// expire ends a session whose deadline passed. Only the caller that flips the
// status sweeps, so a concurrent EndSession and deadline sweep once.
func (s *SessionService) expire(ctx context.Context, id uuid.UUID) {
	flipped, err := s.sessions.MarkEnded(id, s.opts.now())
	if err != nil || !flipped {
		return
	}
	s.log.Info().Str("session_id", id.String()).Msg("Exam session expired")
	res := s.sweeper.Sweep(context.WithoutCancel(ctx), id)
	s.publishEnded(id, "expired", res)
}

// EndSession ends the session now, stops its timer and auto-submits every
// student still active before returning. Ending an already ended session is a
// no-op returning an empty SweepResult.
func (s *SessionService) EndSession(ctx context.Context, id uuid.UUID) (SweepResult, error) {
	if _, err := s.sessions.GetByID(id); err != nil {
		return SweepResult{}, ErrSessionNotFound
	}

	flipped, err := s.sessions.MarkEnded(id, s.opts.now())
	if err != nil {
		return SweepResult{}, ErrSessionNotFound
	}
	s.tasks.Cancel(config.CacheKey.SessionTaskKey(id.String()))
	if !flipped {
		// Already ended; whoever flipped it owns the sweep.
		return SweepResult{}, nil
	}

	s.log.Info().Str("session_id", id.String()).Msg("Exam session ended by proctor")
	res := s.sweeper.Sweep(ctx, id)
	s.publishEnded(id, "ended_by_proctor", res)
	return res, nil
}

func (s *SessionService) publishEnded(id uuid.UUID, reason string, res SweepResult) {
	s.hub.Publish(events.Event{
		Type:      events.SessionEnded,
		SessionID: id.String(),
		Data: map[string]any{
			"reason": reason,
			"sweep":  res,
		},
	})
}

// ActiveSession returns the active session, if any.
func (s *SessionService) ActiveSession() (*model.ExamSession, bool) {
	return s.sessions.Active()
}

// ListSessions returns every session, newest first.
func (s *SessionService) ListSessions() []model.ExamSession {
	return s.sessions.List()
}
