package fetcher

import (
	"context"
	"time"
)

// RetryPolicy bounds how often an operation is attempted and how long to wait between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy allows one retry after a short pause.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 2, Delay: 300 * time.Millisecond}

// Retry calls attempt until it reports success, the attempts run out, or ctx is done.
func Retry(ctx context.Context, p RetryPolicy, attempt func(context.Context) bool) bool {
	max := p.MaxAttempts
	if max <= 0 {
		max = 1
	}
	for i := 0; i < max; i++ {
		if i > 0 && p.Delay > 0 {
			timer := time.NewTimer(p.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return false
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return false
		}
		if attempt(ctx) {
			return true
		}
	}
	return false
}
