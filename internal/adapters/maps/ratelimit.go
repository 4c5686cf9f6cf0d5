package maps

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"fleetroute/internal/platform/metrics"
)

// DefaultDailyCallLimit caps distance-matrix calls per rolling 24h window.
// It sits under the free-tier quota with headroom for other consumers.
const DefaultDailyCallLimit = 950

// CallQuota enforces a hard cap on calls inside a rolling time window.
// Acquire blocks until capacity frees up instead of failing, so a large
// fleet run stalls rather than dies when the daily budget runs dry.
type CallQuota struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  []time.Time
}

// NewCallQuota builds a quota of limit calls per window. A non-positive
// limit disables enforcement.
func NewCallQuota(limit int, window time.Duration) *CallQuota {
	return &CallQuota{limit: limit, window: window}
}

// Acquire blocks until the call fits inside the rolling window, then
// records it. The wait ends early if ctx is cancelled.
func (q *CallQuota) Acquire(ctx context.Context) error {
	if q.limit <= 0 {
		return nil
	}
	for {
		q.mu.Lock()
		now := time.Now()
		q.prune(now)
		if len(q.calls) < q.limit {
			q.calls = append(q.calls, now)
			q.mu.Unlock()
			return nil
		}
		// Oldest recorded call ages out first; wait for it.
		wait := q.calls[0].Add(q.window).Sub(now)
		q.mu.Unlock()

		if wait < time.Millisecond {
			wait = time.Millisecond
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Remaining reports unused calls left in the current window.
func (q *CallQuota) Remaining() int {
	if q.limit <= 0 {
		return int(^uint(0) >> 1)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.prune(time.Now())
	return q.limit - len(q.calls)
}

// prune drops timestamps older than the window. Callers hold q.mu.
func (q *CallQuota) prune(now time.Time) {
	cutoff := now.Add(-q.window)
	i := 0
	for i < len(q.calls) && !q.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		q.calls = append(q.calls[:0], q.calls[i:]...)
	}
}

// RateLimitedClient decorates a MatrixCaller with the shared daily quota
// and a minimum inter-call delay. Layering the limits outside the raw
// client keeps each piece independently testable.
type RateLimitedClient struct {
	inner MatrixCaller
	quota *CallQuota
	pacer *rate.Limiter
}

// NewRateLimitedClient wraps inner. quota may be nil; a non-positive
// minInterval disables pacing.
func NewRateLimitedClient(inner MatrixCaller, quota *CallQuota, minInterval time.Duration) *RateLimitedClient {
	var pacer *rate.Limiter
	if minInterval > 0 {
		pacer = rate.NewLimiter(rate.Every(minInterval), 1)
	}
	return &RateLimitedClient{inner: inner, quota: quota, pacer: pacer}
}

func (c *RateLimitedClient) DistanceMatrix(ctx context.Context, origins, destinations []string) (*MatrixResponse, error) {
	if c.quota != nil {
		start := time.Now()
		if err := c.quota.Acquire(ctx); err != nil {
			return nil, err
		}
		metrics.QuotaWaitSeconds.Observe(time.Since(start).Seconds())
		metrics.QuotaRemaining.Set(float64(c.quota.Remaining()))
	}
	if c.pacer != nil {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return c.inner.DistanceMatrix(ctx, origins, destinations)
}
