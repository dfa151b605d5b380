package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vidtube/internal/middleware"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	lockExpiry    = 10 * time.Second
	lockTries     = 32
	lockProbeWait = 250 * time.Millisecond
)

// Locker serializes work on a key across API instances. Without a reachable
// Redis it runs the work unlocked and relies on database constraints.
type Locker struct {
	rdb *redis.Client
	rs  *redsync.Redsync
}

func NewLocker(rdb *redis.Client) *Locker {
	if rdb == nil {
		return &Locker{}
	}
	return &Locker{rdb: rdb, rs: redsync.New(goredis.NewPool(rdb))}
}

// WithLock runs fn while holding the named mutex. Lock failures are logged
// and fn runs unlocked; only a cancelled ctx stops it.
func (l *Locker) WithLock(ctx context.Context, key string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l == nil || l.rs == nil {
		return fn()
	}

	// A dead Redis would otherwise burn every retry before failing.
	probeCtx, cancel := context.WithTimeout(ctx, lockProbeWait)
	err := l.rdb.Ping(probeCtx).Err()
	cancel()
	if err != nil {
		return l.unlocked(ctx, key, err, fn)
	}

	mutex := l.rs.NewMutex(key,
		redsync.WithExpiry(lockExpiry),
		redsync.WithTries(lockTries),
		redsync.WithRetryDelay(50*time.Millisecond),
	)
	if err := mutex.LockContext(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("acquire lock %s: %w", key, ctx.Err())
		}
		return l.unlocked(ctx, key, err, fn)
	}
	defer func() {
		if ok, err := mutex.UnlockContext(ctx); !ok || err != nil {
			middleware.Logger.WarnContext(ctx, "lock release failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
	}()

	return fn()
}

func (l *Locker) unlocked(ctx context.Context, key string, cause error, fn func() error) error {
	middleware.Logger.WarnContext(ctx, "lock unavailable, running unlocked",
		slog.String("key", key),
		slog.String("error", cause.Error()),
	)
	return fn()
}
