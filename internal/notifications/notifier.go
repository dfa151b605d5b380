// Package notifications publishes engagement events over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	EventLikeAdded      = "like.added"
	EventLikeRemoved    = "like.removed"
	EventCommentAdded   = "comment.added"
	EventVideoPublished = "video.published"
)

// Event is the payload published for engagement changes.
type Event struct {
	Type       string    `json:"type"`
	TargetKind string    `json:"targetKind"`
	TargetID   uuid.UUID `json:"targetId"`
	ActorID    uuid.UUID `json:"actorId"`
	At         time.Time `json:"at"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Publish sends evt to the channel of its target.
func (n *Notifier) Publish(ctx context.Context, evt Event) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, EngagementChannel(evt.TargetKind, evt.TargetID), payload).Err()
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uuid.UUID, payload string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// StartEngagementSubscriber subscribes to `engagement:*` and calls onMessage
// for each incoming message until ctx is cancelled.
func (n *Notifier) StartEngagementSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "engagement:*")
	// Wait for the subscription to be confirmed so early publishes are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe engagement: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in EngagementSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// EngagementChannel derives the Redis channel name for a target.
func EngagementChannel(kind string, targetID uuid.UUID) string {
	return "engagement:" + kind + ":" + targetID.String()
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uuid.UUID) string {
	return "notifications:user:" + userID.String()
}
