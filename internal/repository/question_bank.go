package repository

import "github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"

// QuestionBank is the immutable set of exam questions loaded at startup.
type QuestionBank struct {
	questions []model.Question
	byID      map[string]model.Question
}

// NewQuestionBank indexes questions by id. Later duplicates replace earlier ones.
func NewQuestionBank(questions []model.Question) *QuestionBank {
	b := &QuestionBank{
		questions: make([]model.Question, len(questions)),
		byID:      make(map[string]model.Question, len(questions)),
	}
	copy(b.questions, questions)
	for _, q := range questions {
		b.byID[q.ID] = q
	}
	return b
}

// NewDefaultQuestionBank returns the bank holding DefaultQuestions.
func NewDefaultQuestionBank() *QuestionBank {
	return NewQuestionBank(DefaultQuestions())
}

// Get returns a question by id.
func (b *QuestionBank) Get(id string) (model.Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Len returns the number of questions.
func (b *QuestionBank) Len() int {
	return len(b.questions)
}

// ForStudents returns the questions in bank order with correct answers removed.
func (b *QuestionBank) ForStudents() []model.QuestionForStudent {
	out := make([]model.QuestionForStudent, 0, len(b.questions))
	for _, q := range b.questions {
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		out = append(out, model.QuestionForStudent{
			ID:      q.ID,
			Text:    q.Text,
			Options: opts,
		})
	}
	return out
}

// Score awards 10 points per question whose selected option matches the
// correct one. Only the first answer to a question counts. Unknown question ids
// and blank selections contribute nothing.
func (b *QuestionBank) Score(answers []model.Answer) int {
	score := 0
	seen := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		if _, dup := seen[a.QuestionID]; dup {
			continue
		}
		seen[a.QuestionID] = struct{}{}
		q, ok := b.byID[a.QuestionID]
		if !ok || a.SelectedOption == "" {
			continue
		}
		if a.SelectedOption == q.CorrectAnswer {
			score += PointsPerQuestion
		}
	}
	return score
}

// PointsPerQuestion is awarded for every correct answer.
const PointsPerQuestion = 10

// DefaultQuestions is the distributed-systems paper served when no other bank
// is configured.
func DefaultQuestions() []model.Question {
	return []model.Question{
		{
			ID:            "Q1",
			Text:          "What is the primary goal of a distributed system?",
			Options:       []string{"A. Transparency", "B. Centralization", "C. Data redundancy"},
			CorrectAnswer: "A",
		},
		{
			ID:            "Q2",
			Text:          "In a client-server architecture, which entity initiates the communication?",
			Options:       []string{"A. The server", "B. Both client and server", "C. The client"},
			CorrectAnswer: "C",
		},
		{
			ID:            "Q3",
			Text:          "Which consistency model is the most restrictive?",
			Options:       []string{"A. Weak consistency", "B. Strict consistency", "C. Eventual consistency"},
			CorrectAnswer: "B",
		},
		{
			ID:            "Q4",
			Text:          "What is a 'deadlock' in a distributed system?",
			Options:       []string{"A. Node failure", "B. Processes blocked waiting for each other", "C. Network partition"},
			CorrectAnswer: "B",
		},
		{
			ID:            "Q5",
			Text:          "What is Lamport's algorithm used for?",
			Options:       []string{"A. Network routing", "B. Data encryption", "C. Logical clock synchronization"},
			CorrectAnswer: "C",
		},
		{
			ID:            "Q6",
			Text:          "Which is an example of a distributed file system?",
			Options:       []string{"A. Google File System (GFS)", "B. Ext4", "C. NTFS"},
			CorrectAnswer: "A",
		},
		{
			ID:            "Q7",
			Text:          "What is a 'race condition'?",
			Options:       []string{"A. Multiple processes accessing shared data simultaneously", "B. System out of memory", "C. Incorrect server response"},
			CorrectAnswer: "A",
		},
		{
			ID:            "Q8",
			Text:          "Which model treats all nodes as equals?",
			Options:       []string{"A. Client-server", "B. Peer-to-peer", "C. Cloud computing"},
			CorrectAnswer: "B",
		},
		{
			ID:            "Q9",
			Text:          "What is the CAP theorem?",
			Options:       []string{"A. Consistency, Availability, Partition Tolerance", "B. Concurrency, Atomicity, Performance", "C. Client, Architecture, Protocol"},
			CorrectAnswer: "A",
		},
		{
			ID:            "Q10",
			Text:          "What is 'transparency' in distributed systems?",
			Options:       []string{"A. Easy to debug", "B. Data always visible", "C. Concealing distributed nature from user"},
			CorrectAnswer: "C",
		},
	}
}
