package router

import (
	"context"
	"net/http"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/config"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/handler"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/middleware"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/response"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Exam    *handler.ExamHandler
	Proctor *handler.ProctorHandler
	Admin   *handler.AdminHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background helpers such as the login rate limiter.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the access log carries it.
	router.Use(response.RequestIDMiddleware(log))
	router.Use(middleware.AccessLog())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "ok", gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(ctx, 30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/proctor/login", handlers.Auth.ProctorLogin)
		auth.GET("/proctor/me", middleware.RequireProctorJWT(authService), handlers.Auth.GetProctorProfile)
	}

	// ─── 2. Participant Group (Public) ─────────────────────────────────
	exam := router.Group("/api/v1/exam")
	{
		exam.POST("/start", handlers.Exam.StartExam)
		exam.GET("/questions", handlers.Exam.GetQuestions)
		exam.POST("/submit", handlers.Exam.SubmitExam)
		exam.GET("/students/:roll_no/status", handlers.Exam.GetStatus)
	}

	// ─── 3. Proctor Group (JWT) ────────────────────────────────────────
	proctor := router.Group("/api/v1/proctor")
	proctor.Use(middleware.RequireProctorJWT(authService), middleware.Compress())
	{
		proctor.POST("/sessions", handlers.Proctor.StartSession)
		proctor.GET("/sessions", handlers.Proctor.ListSessions)
		proctor.GET("/sessions/active", handlers.Proctor.ActiveSession)
		proctor.POST("/sessions/:session_id/end", handlers.Proctor.EndSession)
		proctor.GET("/marks", handlers.Proctor.GetAllMarks)
		proctor.PUT("/students/:roll_no/marks", handlers.Proctor.UpdateMarks)
		proctor.GET("/results", handlers.Proctor.GetResults)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.RequireProctorJWT(authService), middleware.Compress())
	{
		admin.GET("/logs", handlers.Admin.GetLogs)
		admin.GET("/metrics", handlers.Admin.GetMetrics)
		admin.GET("/connections", handlers.Admin.GetConnections)
	}

	// ─── 5. WebSocket Group (Proctor WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireProctorWSAuth(authService))
	{
		ws.GET("/proctor/monitor", handlers.WS.ProctorMonitor)
	}

	return router
}
