package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/brewhaus/internal/config"
)

const keyFeedbackClient = "feedback:submit:client:%s"

// FeedbackLimiter throttles public feedback submissions per client. It is
// disabled when no redis address is configured and then allows everything.
type FeedbackLimiter struct {
	enabled bool
	bucket  *TokenBucket

	rate  float64
	burst int
}

func NewFeedbackLimiter(cfg config.Config) *FeedbackLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &FeedbackLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    0.1, // one submission per 10s sustained
		burst:   5,
	}
}

func (l *FeedbackLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *FeedbackLimiter) AllowClient(ctx context.Context, clientKey string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	key := fmt.Sprintf(keyFeedbackClient, strings.TrimSpace(clientKey))
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}
