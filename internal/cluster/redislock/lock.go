// Package redislock is a MutualExclusionService backed by Redis leases.
//
// A critical section is the key "cs:<resource>" holding the requester's
// ordering token. Acquisition is SET NX PX, polled until the acquire timeout;
// release deletes the key only if it still holds the caller's token. The
// lease bounds how long a crashed holder can block others.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/config"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes KEYS[1] when its value equals ARGV[1]. It returns 1
// on delete, 0 when the key is absent and -1 when another token holds it.
var releaseScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then
	return 0
end
if v == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return -1
`)

// Options tune lease and polling behaviour.
type Options struct {
	Lease          time.Duration
	AcquireTimeout time.Duration
	PollInterval   time.Duration
}

// Lock implements cluster.MutualExclusionService.
type Lock struct {
	rdb  redis.UniversalClient
	opts Options
}

// New creates a Lock. Zero options fall back to a 30s lease, a 5s acquire
// timeout and a 50ms poll interval.
func New(rdb redis.UniversalClient, opts Options) *Lock {
	if opts.Lease <= 0 {
		opts.Lease = 30 * time.Second
	}
	if opts.AcquireTimeout <= 0 {
		opts.AcquireTimeout = 5 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 50 * time.Millisecond
	}
	return &Lock{rdb: rdb, opts: opts}
}

// RequestCriticalSection polls SET NX until granted, the acquire timeout
// elapses (false, nil) or ctx ends (false, ctx.Err()).
func (l *Lock) RequestCriticalSection(ctx context.Context, key string, token int64) (bool, error) {
	redisKey := config.CacheKey.CriticalSectionKey(key)
	value := strconv.FormatInt(token, 10)
	deadline := time.NewTimer(l.opts.AcquireTimeout)
	defer deadline.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, value, l.opts.Lease).Result()
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			return false, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return true, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline.C:
			return false, nil
		case <-time.After(l.opts.PollInterval):
		}
	}
}

// ReleaseCriticalSection deletes the lease if token still holds it. A lease
// that already expired is not an error.
func (l *Lock) ReleaseCriticalSection(ctx context.Context, key string, token int64) error {
	redisKey := config.CacheKey.CriticalSectionKey(key)
	res, err := releaseScript.Run(ctx, l.rdb, []string{redisKey}, strconv.FormatInt(token, 10)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release %s: %w", key, err)
	}
	if res < 0 {
		return cluster.ErrNotHolder
	}
	return nil
}
