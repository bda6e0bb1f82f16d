package handler

import (
	"net/http"
	"strconv"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/response"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the administrative views.
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetLogs godoc
// GET /api/v1/admin/logs?last_n=&filter=
func (h *AdminHandler) GetLogs(c *gin.Context) {
	lastN := service.DefaultLogLines
	if raw := c.Query("last_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				"last_n": "last_n must be a positive integer",
			})
			return
		}
		lastN = n
	}

	response.Success(c, http.StatusOK, "Logs retrieved.", h.adminService.GetSystemLogs(lastN, c.Query("filter")))
}

// GetMetrics godoc
// GET /api/v1/admin/metrics
func (h *AdminHandler) GetMetrics(c *gin.Context) {
	response.Success(c, http.StatusOK, "Metrics retrieved.", h.adminService.GetServerMetrics())
}

// GetConnections godoc
// GET /api/v1/admin/connections
func (h *AdminHandler) GetConnections(c *gin.Context) {
	conns := h.adminService.GetActiveConnections()
	response.Success(c, http.StatusOK, "Connections retrieved.", gin.H{
		"connections": conns,
		"total":       len(conns),
	})
}
