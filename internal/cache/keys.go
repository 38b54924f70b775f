package cache

import (
	"context"
	"fmt"
	"time"

	"okai/internal/observability"
)

const (
	PostKeyPrefix  = "post:%d"
	NewsListKey    = "news:selected"
	GreetingPrefix = "greeting:%s"
)

const (
	PostTTL     = 10 * time.Minute
	NewsTTL     = 5 * time.Minute
	GreetingTTL = 30 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func GreetingKey(slug string) string {
	return fmt.Sprintf(GreetingPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, key).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("del").Inc()
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateNewsList(ctx context.Context) {
	Invalidate(ctx, NewsListKey)
}
