package media

import (
	"context"
	"log/slog"
	"time"

	"vidtube/internal/middleware"
	"vidtube/internal/observability"

	"github.com/sony/gobreaker"
)

// BreakerSettings tunes when the breaker opens and how long it stays open.
type BreakerSettings struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// BreakerStore fails fast once the wrapped store keeps failing, so a dead
// bucket does not tie up request goroutines on every publish.
type BreakerStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker
}

func NewBreakerStore(inner Store, s BreakerSettings) *BreakerStore {
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	st := gobreaker.Settings{
		Name:        "media-" + inner.Name(),
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			middleware.Logger.Warn("media circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}
	return &BreakerStore{inner: inner, cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *BreakerStore) Name() string { return b.inner.Name() }

// Inner returns the wrapped store.
func (b *BreakerStore) Inner() Store { return b.inner }

// State reports the breaker state, for readiness output.
func (b *BreakerStore) State() string { return b.cb.State().String() }

func (b *BreakerStore) Put(ctx context.Context, key string, u Upload) (string, error) {
	done := observability.TrackUpload(b.inner.Name())
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Put(ctx, key, u)
	})
	done(err)
	if err != nil {
		return "", err
	}
	return res.(string), nil
}
