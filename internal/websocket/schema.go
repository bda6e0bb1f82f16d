package websocket

import (
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/events"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing     Action = "ping"
	ActionSnapshot Action = "snapshot"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventPong     Event = "pong"
	EventSnapshot Event = "snapshot"
	EventUpdate   Event = "update"
)

// SnapshotResponse describes the coordinator state when a monitor attaches
// or asks for a refresh.
type SnapshotResponse struct {
	Event       Event                  `json:"event"`
	Session     *model.ExamSession     `json:"session"`
	Connections []model.ConnectionInfo `json:"connections"`
	Metrics     model.ServerMetrics    `json:"metrics"`
}

// UpdateResponse forwards one coordinator event.
type UpdateResponse struct {
	Event   Event        `json:"event"`
	Payload events.Event `json:"payload"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
