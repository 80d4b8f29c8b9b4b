package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces watch-mode re-analysis runs.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter allows perSecond runs per second with the given burst.
// A non-positive rate disables limiting.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &Limiter{inner: rate.NewLimiter(limit, burst)}
}

// Allow reports whether a run may start now without waiting.
func (l *Limiter) Allow() bool {
	return l.inner.Allow()
}

// Wait blocks until a run may start. The returned flag reports whether the
// caller actually had to wait.
func (l *Limiter) Wait(ctx context.Context) (bool, error) {
	r := l.inner.Reserve()
	if !r.OK() {
		return false, context.Canceled
	}
	delay := r.Delay()
	if delay <= 0 {
		return false, nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true, nil
	case <-ctx.Done():
		r.Cancel()
		return true, ctx.Err()
	}
}
