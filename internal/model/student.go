package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentStatus enumerates a student's lifecycle within a session. The same
// values are mirrored on the durable StudentRecord.
type StudentStatus string

const (
	StudentStatusActive        StudentStatus = "active"
	StudentStatusSubmitted     StudentStatus = "submitted"
	StudentStatusAutoSubmitted StudentStatus = "auto_submitted"
	StudentStatusTerminated    StudentStatus = "terminated"
)

// IsTerminal reports whether no further transition is allowed.
func (s StudentStatus) IsTerminal() bool {
	switch s {
	case StudentStatusSubmitted, StudentStatusAutoSubmitted, StudentStatusTerminated:
		return true
	}
	return false
}

// StudentEnrollment is the local, ephemeral record of a student taking the
// exam. It is keyed by roll number.
type StudentEnrollment struct {
	RollNo         string        `json:"roll_no"`
	Name           string        `json:"student_name"`
	SessionID      uuid.UUID     `json:"session_id"`
	StartTime      time.Time     `json:"start_time"`
	Status         StudentStatus `json:"status"`
	SubmissionTime *time.Time    `json:"submission_time,omitempty"`
}

// StudentRecord is the durable student row owned by the consistency service.
type StudentRecord struct {
	RollNo        string        `json:"roll_no"`
	Name          string        `json:"name"`
	ISAMarks      int           `json:"isa_marks"`
	MSEMarks      int           `json:"mse_marks"`
	ESEMarks      int           `json:"ese_marks"`
	Status        StudentStatus `json:"status"`
	CheatingCount int           `json:"cheating_count"`
}

// NewStudentRecord returns the initial record registered when a student starts.
func NewStudentRecord(rollNo, name string) *StudentRecord {
	return &StudentRecord{
		RollNo: rollNo,
		Name:   name,
		Status: StudentStatusActive,
	}
}

// StudentStatusView merges the durable record with the local time budget.
type StudentStatusView struct {
	Student       StudentRecord `json:"student"`
	TimeRemaining float64       `json:"time_remaining"`
}

// StartExamRequest is the payload for a student starting the exam.
type StartExamRequest struct {
	RollNo      string `json:"roll_no" binding:"required,rollno"`
	StudentName string `json:"student_name" binding:"required,min=1,max=100"`
}

// StartExamResult is returned to a student who joined the active session.
type StartExamResult struct {
	SessionID   uuid.UUID `json:"session_id"`
	ExamEndTime time.Time `json:"exam_end_time"`
}

// UpdateMarksRequest is the payload for a proctor correcting a student's marks.
type UpdateMarksRequest struct {
	ISAMarks  *int   `json:"isa_marks" binding:"required,min=0,max=100"`
	MSEMarks  *int   `json:"mse_marks" binding:"required,min=0,max=100"`
	ESEMarks  *int   `json:"ese_marks" binding:"required,min=0,max=100"`
	UpdatedBy string `json:"updated_by" binding:"required,max=100"`
}
