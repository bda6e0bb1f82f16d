package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates exam session states.
type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusEnded  SessionStatus = "ended"
)

// ExamSession is a bounded-duration exam instance started by a proctor.
type ExamSession struct {
	ID              uuid.UUID     `json:"session_id"`
	Title           string        `json:"exam_title"`
	CreatedAt       time.Time     `json:"created_at"`
	EndTime         time.Time     `json:"exam_end_time"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          SessionStatus `json:"status"`
	ActualEndTime   *time.Time    `json:"actual_end_time,omitempty"`
}

// IsOpen reports whether students may still join or work on the session.
func (s *ExamSession) IsOpen(now time.Time) bool {
	return s.Status == SessionStatusActive && now.Before(s.EndTime)
}

// Remaining returns the time left until the scheduled end, never negative.
func (s *ExamSession) Remaining(now time.Time) time.Duration {
	if s.Status != SessionStatusActive {
		return 0
	}
	if d := s.EndTime.Sub(now); d > 0 {
		return d
	}
	return 0
}

// StartSessionRequest is the payload for a proctor starting an exam session.
type StartSessionRequest struct {
	ExamTitle       string `json:"exam_title" binding:"required,min=1,max=255"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=480"`
}
