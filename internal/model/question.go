package model

// Question is a single multiple-choice exam item.
type Question struct {
	ID            string   `json:"question_id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// QuestionForStudent is a question without the correct answer, sent to students.
type QuestionForStudent struct {
	ID      string   `json:"question_id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// Answer is a student's selected option for one question.
type Answer struct {
	QuestionID     string `json:"question_id" binding:"required,max=32"`
	SelectedOption string `json:"selected_option" binding:"max=10"`
}

// QuestionPaper is what a student receives when fetching the exam.
type QuestionPaper struct {
	Questions     []QuestionForStudent `json:"questions"`
	TimeRemaining float64              `json:"time_remaining"`
}
