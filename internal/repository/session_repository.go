package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/google/uuid"
)

// SessionRepository is the in-memory table of exam sessions. Sessions are
// never deleted so results stay queryable after they end.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*model.ExamSession
}

// NewSessionRepository creates an empty SessionRepository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[uuid.UUID]*model.ExamSession)}
}

// CreateIfNoneActive inserts s unless some session is still active. The check
// and the insert happen under one lock, which is what keeps at most one
// session active.
func (r *SessionRepository) CreateIfNoneActive(s *model.ExamSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.sessions {
		if existing.Status == model.SessionStatusActive {
			return ErrActiveSessionExists
		}
	}
	stored := *s
	r.sessions[s.ID] = &stored
	return nil
}

// GetByID returns a copy of the session.
func (r *SessionRepository) GetByID(id uuid.UUID) (*model.ExamSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := *s
	return &out, nil
}

// Active returns the session whose status is active, if any.
func (r *SessionRepository) Active() (*model.ExamSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.Status == model.SessionStatusActive {
			out := *s
			return &out, true
		}
	}
	return nil, false
}

// MarkEnded flips an active session to ended and stamps the actual end time.
// It reports false when the session had already ended, so exactly one caller
// wins the transition.
func (r *SessionRepository) MarkEnded(id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return false, ErrSessionNotFound
	}
	if s.Status == model.SessionStatusEnded {
		return false, nil
	}
	s.Status = model.SessionStatusEnded
	s.ActualEndTime = &at
	return true, nil
}

// List returns every session, newest first.
func (r *SessionRepository) List() []model.ExamSession {
	r.mu.RLock()
	out := make([]model.ExamSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
