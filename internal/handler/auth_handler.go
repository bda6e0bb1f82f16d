package handler

import (
	"errors"
	"net/http"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/middleware"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/response"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/service"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles proctor authentication.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// ProctorLogin godoc
// POST /api/v1/auth/proctor/login
// Checks the proctor credentials and issues a JWT.
func (h *AuthHandler) ProctorLogin(c *gin.Context) {
	var req model.ProctorLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, expires, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		log := zerolog.Ctx(c.Request.Context())
		switch {
		case errors.Is(err, service.ErrLoginDisabled):
			log.Warn().Msg("Proctor login attempted but no password hash is configured")
			response.Fail(c, http.StatusServiceUnavailable, response.ErrUnavailable)
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Info().Str("username", req.Username).Msg("Proctor login rejected")
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		default:
			log.Error().Err(err).Msg("Failed to issue proctor token")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, "Login successful.", gin.H{
		"token":      token,
		"expires_at": expires,
	})
}

// GetProctorProfile godoc
// GET /api/v1/auth/proctor/me
func (h *AuthHandler) GetProctorProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved.", gin.H{
		"username":   claims.Username,
		"expires_at": claims.ExpiresAt,
	})
}
