package model

import "time"

// SystemLogs is a tail of the in-memory log buffer.
type SystemLogs struct {
	LogLines  []string `json:"log_lines"`
	Timestamp int64    `json:"timestamp"`
}

// ServerMetrics is a coarse snapshot of coordinator load.
type ServerMetrics struct {
	ActiveStudents       int    `json:"active_students"`
	CompletedSubmissions int    `json:"completed_submissions"`
	PendingRequests      int    `json:"pending_requests"`
	BackgroundTasks      int    `json:"background_tasks"`
	Goroutines           int    `json:"goroutines"`
	HeapAllocBytes       uint64 `json:"heap_alloc_bytes"`
	HeapSysBytes         uint64 `json:"heap_sys_bytes"`
	Uptime               string `json:"uptime"`
}

// ConnectionInfo describes one enrolled participant.
type ConnectionInfo struct {
	ClientID       string        `json:"client_id"`
	ConnectionType string        `json:"connection_type"`
	ConnectedSince time.Time     `json:"connected_since"`
	Status         StudentStatus `json:"status"`
}

// ProctorLoginRequest is the payload for a proctor signing in.
type ProctorLoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}
