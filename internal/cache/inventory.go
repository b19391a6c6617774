package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	feedKeyPrefix     = "feed:global"
	postKeyPrefix     = "post:%d"
	campaignKeyPrefix = "campaign:%d"
)

const (
	// FeedTTL is short: the feed is the hottest and most write-sensitive key.
	FeedTTL     = 1 * time.Minute
	PostTTL     = 10 * time.Minute
	CampaignTTL = 10 * time.Minute
)

// FeedKey is the cache key for the anonymous first page of the global feed.
func FeedKey() string {
	return feedKeyPrefix
}

func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

func CampaignKey(campaignID uint) string {
	return fmt.Sprintf(campaignKeyPrefix, campaignID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateFeed drops the cached global feed page. Called on every
// campaign-post write so readers never see a stale window for long.
func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedKey())
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateCampaign(ctx context.Context, campaignID uint) {
	Invalidate(ctx, CampaignKey(campaignID))
}
