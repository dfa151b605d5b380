package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vidtube/internal/middleware"
	"vidtube/internal/observability"

	"github.com/redis/go-redis/v9"
)

// GetJSON loads key into dest. It returns redis.Nil on a miss.
func GetJSON(ctx context.Context, key string, dest any) error {
	if client == nil {
		return redis.Nil
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// SetJSON stores value under key for ttl.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, raw, ttl).Err()
}

// Aside serves dest from key when cached, otherwise runs fetch to fill dest
// and stores the result. Cache failures never fail the read.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client == nil || ttl <= 0 {
		return fetch()
	}

	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "aside")
	defer span.End()

	space := keyspace(key)
	err := GetJSON(ctx, key, dest)
	switch {
	case err == nil:
		observability.CacheLookups.WithLabelValues(space, "hit").Inc()
		return nil
	case errors.Is(err, redis.Nil):
		observability.CacheLookups.WithLabelValues(space, "miss").Inc()
	default:
		observability.CacheLookups.WithLabelValues(space, "error").Inc()
		middleware.Logger.WarnContext(ctx, "cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	if err := fetch(); err != nil {
		return err
	}
	if err := SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func keyspace(key string) string {
	if i := strings.LastIndex(key, ":"); i > 0 {
		return key[:i]
	}
	return key
}
