package model

import "github.com/google/uuid"

// SubmitType distinguishes student-initiated from system-initiated submissions.
type SubmitType string

const (
	SubmitTypeManual SubmitType = "manual"
	SubmitTypeAuto   SubmitType = "auto"
)

// Submission priorities presented to the load balancer.
const (
	PriorityNormal = 0
	PriorityLow    = 1
)

// Submission is the full payload routed through the load balancer.
type Submission struct {
	RollNo     string     `json:"roll_no"`
	SessionID  uuid.UUID  `json:"session_id"`
	Answers    []Answer   `json:"answers"`
	SubmitType SubmitType `json:"submit_type"`
	Priority   int        `json:"priority"`
	Score      int        `json:"score"`
}

// RouteResult is the load balancer's acceptance decision.
type RouteResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	FinalScore int    `json:"final_score"`
}

// SubmitExamRequest is the payload for a student submitting answers.
type SubmitExamRequest struct {
	RollNo     string     `json:"roll_no" binding:"required,rollno"`
	SessionID  string     `json:"session_id" binding:"required,uuid"`
	Answers    []Answer   `json:"answers" binding:"max=100,dive"`
	SubmitType SubmitType `json:"submit_type" binding:"omitempty,oneof=manual auto"`
}
