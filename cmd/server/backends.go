package main

import (
	"context"
	"fmt"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster/grpccluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster/memory"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster/pgstore"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster/redislock"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/config"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/database"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
)

// collaborators holds the selected cluster backends and whatever must be
// closed on shutdown.
type collaborators struct {
	records  cluster.ConsistencyService
	mutex    cluster.MutualExclusionService
	balancer cluster.LoadBalancer
	closers  []func()
}

func (c *collaborators) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// buildCollaborators connects each collaborator according to its *_BACKEND
// setting. gRPC connections to the same address are shared.
func buildCollaborators(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*collaborators, error) {
	c := &collaborators{}
	conns := map[string]*grpc.ClientConn{}
	dial := func(addr string) (*grpc.ClientConn, error) {
		if conn, ok := conns[addr]; ok {
			return conn, nil
		}
		conn, err := grpccluster.Dial(ctx, addr, cfg.GRPCDialTimeout, cfg.GRPCHealthCheck, grpccluster.DefaultDialOptions()...)
		if err != nil {
			return nil, err
		}
		conns[addr] = conn
		c.closers = append(c.closers, func() { _ = conn.Close() })
		log.Info().Str("addr", addr).Msg("Connected to gRPC collaborator")
		return conn, nil
	}

	// ─── Consistency Service ───────────────────────────────────────────
	switch cfg.ConsistencyBackend {
	case config.BackendMemory:
		c.records = memory.NewStore()
	case config.BackendPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.MaxDBConns, log)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("consistency backend: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		c.records = pgstore.New(pool)
	case config.BackendGRPC:
		conn, err := dial(cfg.ConsistencyAddr)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("consistency backend: %w", err)
		}
		c.records = grpccluster.NewConsistencyClient(conn, cfg.GRPCRequestTimeout)
	default:
		c.close()
		return nil, fmt.Errorf("unknown CONSISTENCY_BACKEND %q", cfg.ConsistencyBackend)
	}

	// ─── Mutual Exclusion Service ──────────────────────────────────────
	switch cfg.MutexBackend {
	case config.BackendMemory:
		c.mutex = memory.NewMutex()
	case config.BackendRedis:
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("mutex backend: %w", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		c.mutex = redislock.New(rdb, redislock.Options{
			Lease:          cfg.MutexLease,
			AcquireTimeout: cfg.MutexAcquireTimeout,
		})
	case config.BackendGRPC:
		conn, err := dial(cfg.MutexAddr)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("mutex backend: %w", err)
		}
		c.mutex = grpccluster.NewMutexClient(conn, cfg.GRPCRequestTimeout)
	default:
		c.close()
		return nil, fmt.Errorf("unknown MUTEX_BACKEND %q", cfg.MutexBackend)
	}

	// ─── Load Balancer ─────────────────────────────────────────────────
	switch cfg.BalancerBackend {
	case config.BackendLocal, config.BackendMemory:
		c.balancer = memory.NewLocalBalancer(cfg.BalancerWorkers)
	case config.BackendGRPC:
		conn, err := dial(cfg.BalancerAddr)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("balancer backend: %w", err)
		}
		c.balancer = grpccluster.NewBalancerClient(conn, cfg.GRPCRequestTimeout)
	default:
		c.close()
		return nil, fmt.Errorf("unknown BALANCER_BACKEND %q", cfg.BalancerBackend)
	}

	log.Info().
		Str("consistency", cfg.ConsistencyBackend).
		Str("mutex", cfg.MutexBackend).
		Str("balancer", cfg.BalancerBackend).
		Msg("Cluster collaborators ready")
	return c, nil
}
