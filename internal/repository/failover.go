package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverLimiter prefers the primary limiter and switches to the fallback
// when the primary errors. The primary is retried after a cooldown.
type FailoverLimiter struct {
	primary  domain.RateLimiter
	fallback domain.RateLimiter
	logger   *zerolog.Logger
	cooldown time.Duration

	isDown atomic.Bool

	mu        sync.Mutex
	downSince time.Time
}

func NewFailoverLimiter(primary, fallback domain.RateLimiter, logger *zerolog.Logger) *FailoverLimiter {
	return &FailoverLimiter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		cooldown: time.Minute,
	}
}

func (f *FailoverLimiter) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if !f.isDown.Load() || f.cooldownOver() {
		allowed, err := f.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			f.isDown.Store(false)
			return allowed, nil
		}
		f.logger.Error().Err(err).Msg("primary rate limiter failed, using fallback")
		f.markDown()
	}
	return f.fallback.CheckRateLimit(ctx, userID, limit, window)
}

func (f *FailoverLimiter) markDown() {
	f.isDown.Store(true)
	f.mu.Lock()
	f.downSince = time.Now()
	f.mu.Unlock()
}

func (f *FailoverLimiter) cooldownOver() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return time.Since(f.downSince) > f.cooldown
}
