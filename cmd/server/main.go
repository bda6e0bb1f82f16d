package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/config"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/events"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/handler"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/logger"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/repository"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/router"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/service"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/telemetry"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/validator"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	ring := logger.NewRingBuffer(cfg.LogBufferLines)
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, ring)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting exam coordinator")
	if cfg.ProctorPasswordHash == "" {
		log.Warn().Msg("PROCTOR_PASSWORD_HASH is empty; proctor login is disabled")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Tracing ───────────────────────────────────────────────────────
	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up tracing")
	}

	// ─── Connect Cluster Collaborators ─────────────────────────────────
	collab, err := buildCollaborators(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect cluster collaborators")
	}
	defer collab.close()

	// ─── Initialize Repositories ───────────────────────────────────────
	sessions := repository.NewSessionRepository()
	enrollments := repository.NewEnrollmentRepository()
	bank := repository.NewDefaultQuestionBank()

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	hub := events.NewHub(log)
	tasks := worker.NewRegistry(log)
	scoringWorker := worker.NewScoringWorker(collab.records, cfg.ScoreQueueSize, cfg.GRPCRequestTimeout, log)
	go scoringWorker.Start(workerCtx)

	detector := worker.RandomDetector{Probability: cfg.CheatProbability}
	monitor := worker.NewCheatingMonitor(collab.records, enrollments, detector, hub, log,
		worker.WithInterval(func(rollNo string, check int) time.Duration {
			return worker.CheckInterval(rollNo, check, cfg.CheatMinInterval, cfg.CheatIntervalSpread)
		}))
	timer := worker.NewSessionTimer(cfg.SessionPollInterval, nil, log)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	examService := service.NewExamService(sessions, enrollments, bank, collab.records, tasks, monitor, hub, log)
	submissionService := service.NewSubmissionService(enrollments, bank, collab.balancer, tasks, scoringWorker, hub, log)
	sweeper := service.NewSweeper(enrollments, submissionService, tasks, scoringWorker, hub, log)
	sessionService := service.NewSessionService(sessions, sweeper, tasks, timer, hub, log)
	marksService := service.NewMarksService(collab.records, collab.mutex, cluster.NewClock(), cfg.MutexAcquireTimeout, hub, log)
	resultsService := service.NewResultsService(collab.records, log)
	adminService := service.NewAdminService(ring, enrollments, scoringWorker, tasks)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Exam:    handler.NewExamHandler(examService, submissionService),
		Proctor: handler.NewProctorHandler(sessionService, marksService, resultsService),
		Admin:   handler.NewAdminHandler(adminService),
		WS:      handler.NewWSHandler(hub, sessionService, adminService, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Cancel monitors and session timers and wait for them to return.
	tasks.CancelAll()
	if err := tasks.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Background tasks did not stop in time")
	}

	// 3. Drain the persistence queue.
	workerCancel()
	select {
	case <-scoringWorker.Done():
	case <-time.After(5 * time.Second):
		log.Warn().Int("pending", scoringWorker.Pending()).Msg("Score queue not drained in time")
	}

	if err := shutdownTracing(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Tracing shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
