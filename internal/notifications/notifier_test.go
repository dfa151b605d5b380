package notifications

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishUser(context.Background(), uuid.New(), "test payload"))
	assert.NoError(t, n.Publish(context.Background(), Event{Type: EventLikeAdded}))
	assert.NoError(t, n.StartEngagementSubscriber(context.Background(), func(string, string) {}))

	var nilNotifier *Notifier
	assert.NoError(t, nilNotifier.Publish(context.Background(), Event{Type: EventLikeRemoved}))
}

func TestChannels(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("0b0d6f7a-4c38-4c1e-8d0a-52f4d1f0a9b3")
	assert.Equal(t, "engagement:video:0b0d6f7a-4c38-4c1e-8d0a-52f4d1f0a9b3", EngagementChannel("video", id))
	assert.Equal(t, "notifications:user:0b0d6f7a-4c38-4c1e-8d0a-52f4d1f0a9b3", UserChannel(id))
}

func TestNotifier_EngagementRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payloads := make(chan string, 4)
	var received int32
	require.NoError(t, n.StartEngagementSubscriber(ctx, func(_ string, payload string) {
		atomic.AddInt32(&received, 1)
		payloads <- payload
	}))

	target := uuid.New()
	actor := uuid.New()
	require.NoError(t, n.Publish(context.Background(), Event{
		Type:       EventLikeAdded,
		TargetKind: "comment",
		TargetID:   target,
		ActorID:    actor,
	}))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&received) >= 1
	}, time.Second, 10*time.Millisecond)

	var evt Event
	require.NoError(t, json.Unmarshal([]byte(<-payloads), &evt))
	assert.Equal(t, EventLikeAdded, evt.Type)
	assert.Equal(t, target, evt.TargetID)
	assert.Equal(t, actor, evt.ActorID)
	assert.False(t, evt.At.IsZero())

	cancel()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, n.Publish(context.Background(), Event{Type: EventLikeRemoved, TargetKind: "comment", TargetID: target}))
	assert.Never(t, func() bool {
		select {
		case <-payloads:
			return true
		default:
			return false
		}
	}, 200*time.Millisecond, 10*time.Millisecond)
}
