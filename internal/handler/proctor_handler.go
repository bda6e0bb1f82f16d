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

// ProctorHandler handles session control, marks and results.
type ProctorHandler struct {
	sessionService *service.SessionService
	marksService   *service.MarksService
	resultsService *service.ResultsService
}

// NewProctorHandler creates a new ProctorHandler.
func NewProctorHandler(
	sessionService *service.SessionService,
	marksService *service.MarksService,
	resultsService *service.ResultsService,
) *ProctorHandler {
	return &ProctorHandler{
		sessionService: sessionService,
		marksService:   marksService,
		resultsService: resultsService,
	}
}

// StartSession godoc
// POST /api/v1/proctor/sessions
// Starts a new exam session if none is active.
func (h *ProctorHandler) StartSession(c *gin.Context) {
	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, msg, err := h.sessionService.StartSession(req.ExamTitle, req.DurationMinutes)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, msg, session)
}

// EndSession godoc
// POST /api/v1/proctor/sessions/:session_id/end
// Ends the session and auto-submits every student still active.
func (h *ProctorHandler) EndSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	res, err := h.sessionService.EndSession(c.Request.Context(), sessionID)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Exam session ended successfully.", res)
}

// ActiveSession godoc
// GET /api/v1/proctor/sessions/active
func (h *ProctorHandler) ActiveSession(c *gin.Context) {
	session, ok := h.sessionService.ActiveSession()
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		return
	}
	response.Success(c, http.StatusOK, "Active session retrieved.", session)
}

// ListSessions godoc
// GET /api/v1/proctor/sessions
func (h *ProctorHandler) ListSessions(c *gin.Context) {
	response.Success(c, http.StatusOK, "Sessions retrieved.", gin.H{"sessions": h.sessionService.ListSessions()})
}

// GetAllMarks godoc
// GET /api/v1/proctor/marks
func (h *ProctorHandler) GetAllMarks(c *gin.Context) {
	recs, err := h.resultsService.GetAllMarks(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Marks retrieved.", gin.H{"students": recs})
}

// UpdateMarks godoc
// PUT /api/v1/proctor/students/:roll_no/marks
// Overwrites a student's marks inside the roll number's critical section.
func (h *ProctorHandler) UpdateMarks(c *gin.Context) {
	rollNo := c.Param("roll_no")
	if !validator.ValidRollNo(rollNo) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateMarksRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	rec, err := h.marksService.UpdateMarks(c.Request.Context(), rollNo, service.MarksUpdate{
		ISA:       *req.ISAMarks,
		MSE:       *req.MSEMarks,
		ESE:       *req.ESEMarks,
		UpdatedBy: req.UpdatedBy,
	})
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Marks updated successfully.", rec)
}

// GetResults godoc
// GET /api/v1/proctor/results
func (h *ProctorHandler) GetResults(c *gin.Context) {
	res, err := h.resultsService.GetExamResults(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Results retrieved.", res)
}
