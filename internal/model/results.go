package model

// PassingMark is the end-term mark at or above which a student passes.
const PassingMark = 40

// ExamStatistics aggregates the durable records of every student.
type ExamStatistics struct {
	TotalStudents         int     `json:"total_students"`
	CompletedStudents     int     `json:"completed_students"`
	AutoSubmittedStudents int     `json:"auto_submitted_students"`
	TerminatedStudents    int     `json:"terminated_students"`
	CheatingIncidents     int     `json:"cheating_incidents"`
	AverageScore          float64 `json:"average_score"`
	PassedStudents        int     `json:"passed_students"`
}

// ExamResults is the proctor's results view.
type ExamResults struct {
	Students   []StudentRecord `json:"students"`
	Statistics ExamStatistics  `json:"statistics"`
}
