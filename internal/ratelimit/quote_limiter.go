package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fleetrate/fleetrate/internal/config"
)

const keyQuoteClient = "quotes:client:%s"

// QuoteLimiter bounds how fast a single client may request quotes. It
// fails open: when redis is unreachable the request is allowed and the
// incident is logged.
type QuoteLimiter struct {
	bucket *TokenBucket
	log    *zap.Logger
	rate   float64
	burst  int
}

func NewQuoteLimiter(cfg config.Config, client *redis.Client, log *zap.Logger) *QuoteLimiter {
	if !cfg.RateLimit.Enabled || client == nil {
		return nil
	}
	return &QuoteLimiter{
		bucket: NewTokenBucket(client),
		log:    log.Named("ratelimit.quotes"),
		rate:   cfg.RateLimit.QuoteRate,
		burst:  cfg.RateLimit.QuoteBurst,
	}
}

// Allow reports whether the client identified by key may proceed, and
// how long to wait when it may not.
func (l *QuoteLimiter) Allow(ctx context.Context, clientKey string) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}

	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyQuoteClient, clientKey), l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limit check failed, allowing request",
			zap.String("client", clientKey),
			zap.Error(err),
		)
		return true, 0
	}
	return res.Allowed, res.RetryAfter
}
