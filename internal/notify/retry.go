package notify

import (
	"math"
	"time"
)

// RetryPolicy controls redelivery of failed notifications.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Factor      float64
}

// DefaultRetryPolicy suits a chat API that throttles in seconds, not millis.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   2 * time.Second,
		MaxDelay:    time.Minute,
		Factor:      2,
	}
}

// Delay returns the backoff before the given attempt. Attempts count from 1;
// the first retry waits BaseDelay and each further one grows by Factor up to
// MaxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := p.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	factor := p.Factor
	if factor <= 0 {
		factor = 2
	}

	d := time.Duration(float64(base) * math.Pow(factor, float64(attempt-1)))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	if d <= 0 {
		return time.Second
	}
	return d
}
