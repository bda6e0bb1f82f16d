package handler

import (
	"errors"
	"net/http"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/response"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/service"
	"github.com/gin-gonic/gin"
)

// failService writes the envelope for a service error, mapping its category
// to an HTTP status and keeping the service's message.
func failService(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, response.ErrInternal
	switch {
	case errors.Is(err, service.ErrNoActiveSession):
		status, code = http.StatusNotFound, response.ErrNoActiveSession
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, service.ErrConflict):
		status, code = http.StatusConflict, response.ErrConflict
	case errors.Is(err, service.ErrUnavailable):
		status, code = http.StatusServiceUnavailable, response.ErrUnavailable
	}

	msg := service.Message(err)
	if msg == "" {
		msg = response.GetMessage(code)
	}
	response.FailWithMessage(c, status, code, msg)
}
