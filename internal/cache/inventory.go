package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	ChannelStatsKeyPrefix = "channel:stats:%s"
	PlaylistLockKeyPrefix = "lock:playlist:%s"
)

// DefaultStatsTTL applies when no STATS_CACHE_TTL_SECONDS is configured.
const DefaultStatsTTL = time.Minute

func ChannelStatsKey(channelID uuid.UUID) string {
	return fmt.Sprintf(ChannelStatsKeyPrefix, channelID)
}

func PlaylistLockKey(playlistID uuid.UUID) string {
	return fmt.Sprintf(PlaylistLockKeyPrefix, playlistID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateChannelStats(ctx context.Context, channelID uuid.UUID) {
	Invalidate(ctx, ChannelStatsKey(channelID))
}
