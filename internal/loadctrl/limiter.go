// Package loadctrl paces replay calls.
package loadctrl

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates replay calls.
//
// Thread Safety: Implementations must be safe for concurrent use.
type Limiter interface {
	// Acquire blocks until a call may start or ctx is done.
	Acquire(ctx context.Context) error

	// Stats returns usage counters.
	Stats() Stats
}

// Stats describes limiter usage.
type Stats struct {
	Acquired int64
	QPS      float64
	AvgWait  time.Duration
}

// New returns a token bucket limiter for qps, or an unlimited one when qps
// is not positive.
func New(qps float64, burst int) Limiter {
	if qps <= 0 {
		return &Unlimited{}
	}
	return NewTokenBucketLimiter(qps, burst)
}

// TokenBucketLimiter allows qps calls per second on average with bursts of
// up to burst calls.
//
// Thread Safety: Safe for concurrent use.
type TokenBucketLimiter struct {
	limiter *rate.Limiter
	qps     float64

	acquired  atomic.Int64
	waitNanos atomic.Int64
}

// NewTokenBucketLimiter creates a limiter. A non-positive burst defaults to
// max(1, int(qps)); a non-positive qps to 1.
func NewTokenBucketLimiter(qps float64, burst int) *TokenBucketLimiter {
	if qps <= 0 {
		qps = 1
	}
	if burst <= 0 {
		burst = max(1, int(qps))
	}
	return &TokenBucketLimiter{
		limiter: rate.NewLimiter(rate.Limit(qps), burst),
		qps:     qps,
	}
}

// Acquire implements Limiter.
func (l *TokenBucketLimiter) Acquire(ctx context.Context) error {
	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		return err
	}
	l.acquired.Add(1)
	l.waitNanos.Add(int64(time.Since(start)))
	return nil
}

// Burst returns the bucket size.
func (l *TokenBucketLimiter) Burst() int {
	return l.limiter.Burst()
}

// Stats implements Limiter.
func (l *TokenBucketLimiter) Stats() Stats {
	n := l.acquired.Load()
	s := Stats{Acquired: n, QPS: l.qps}
	if n > 0 {
		s.AvgWait = time.Duration(l.waitNanos.Load() / n)
	}
	return s
}

// Unlimited never waits.
type Unlimited struct {
	acquired atomic.Int64
}

// Acquire implements Limiter. It only fails when ctx is already done.
func (u *Unlimited) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.acquired.Add(1)
	return nil
}

// Stats implements Limiter.
func (u *Unlimited) Stats() Stats {
	return Stats{Acquired: u.acquired.Load()}
}
