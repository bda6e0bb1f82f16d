package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster/grpccluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster/memory"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/config"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/logger"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// devcluster serves in-memory consistency, mutual exclusion and load
// balancing collaborators on one gRPC port, for running the coordinator with
// the grpc backends outside a real cluster.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, nil).With().Str("component", "devcluster").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Tracing ───────────────────────────────────────────────────────
	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName+"-devcluster", cfg.OTelEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up tracing")
	}

	// ─── Register Services ─────────────────────────────────────────────
	srv := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	grpccluster.RegisterConsistencyServer(srv, memory.NewStore())
	grpccluster.RegisterMutexServer(srv, memory.NewMutex())
	grpccluster.RegisterBalancerServer(srv, memory.NewLocalBalancer(cfg.BalancerWorkers))

	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	// ─── Listen ────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", ":"+cfg.DevClusterPort)
	if err != nil {
		log.Fatal().Err(err).Str("port", cfg.DevClusterPort).Msg("Failed to listen")
	}

	go func() {
		log.Info().
			Str("addr", lis.Addr().String()).
			Int("balancer_workers", cfg.BalancerWorkers).
			Msg("Dev cluster listening")
		if err := srv.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("gRPC server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	hs.Shutdown()
	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		srv.Stop()
	}

	if err := shutdownTracing(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Tracing shutdown error")
	}
	log.Info().Msg("Shutdown complete")
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
