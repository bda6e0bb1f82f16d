package handler

import (
	"net/http"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/response"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/service"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExamHandler handles the participant endpoints.
type ExamHandler struct {
	examService       *service.ExamService
	submissionService *service.SubmissionService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService, submissionService *service.SubmissionService) *ExamHandler {
	return &ExamHandler{
		examService:       examService,
		submissionService: submissionService,
	}
}

// StartExam godoc
// POST /api/v1/exam/start
// Enrolls the student in the active session.
func (h *ExamHandler) StartExam(c *gin.Context) {
	var req model.StartExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.examService.StartExam(c.Request.Context(), req.RollNo, req.StudentName)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Exam started successfully. Good luck!", res)
}

// GetQuestions godoc
// GET /api/v1/exam/questions?roll_no=&session_id=
// Returns the question paper without correct answers.
func (h *ExamHandler) GetQuestions(c *gin.Context) {
	rollNo := c.Query("roll_no")
	if !validator.ValidRollNo(rollNo) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"roll_no": "roll_no must be 1-32 letters, digits, '-' or '_'",
		})
		return
	}
	sessionID, err := uuid.Parse(c.Query("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paper, err := h.examService.GetQuestions(rollNo, sessionID)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Questions retrieved.", paper)
}

// SubmitExam godoc
// POST /api/v1/exam/submit
// Scores the answers and routes the submission through the load balancer.
func (h *ExamHandler) SubmitExam(c *gin.Context) {
	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	res, err := h.submissionService.Submit(c.Request.Context(), req.RollNo, sessionID, req.Answers, req.SubmitType)
	if err != nil {
		failService(c, err)
		return
	}

	// The balancer's verdict is passed through as-is, including refusals.
	c.JSON(http.StatusOK, response.Response{
		Success:  res.Success,
		Message:  res.Message,
		Data:     gin.H{"final_score": res.FinalScore},
		Metadata: response.BuildMetadata(c),
	})
}

// GetStatus godoc
// GET /api/v1/exam/students/:roll_no/status
// Returns the student's record and remaining time.
func (h *ExamHandler) GetStatus(c *gin.Context) {
	rollNo := c.Param("roll_no")
	if !validator.ValidRollNo(rollNo) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.examService.GetStatus(c.Request.Context(), rollNo)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Student status retrieved.", view)
}
