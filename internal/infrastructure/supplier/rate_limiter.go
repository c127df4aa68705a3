package supplier

import (
	"context"
	"sync"
	"time"
)

// IntervalLimiter spaces calls at least a fixed interval apart across
// the whole process. It is a single shared serialization point: every
// supplier call must pass through the same instance before issuing its
// HTTP request. Instances are injected, not ambient, so tests can hold
// their own.
type IntervalLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	nowFn    func() time.Time
}

// NewIntervalLimiter creates a limiter with the given minimum spacing
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{
		interval: interval,
		nowFn:    time.Now,
	}
}

// Acquire blocks until at least the configured interval has elapsed
// since the previous acquire anywhere in the process. Callers are
// assigned slots in arrival order; a cancelled caller forfeits its slot.
func (l *IntervalLimiter) Acquire(ctx context.Context) error {
	wait := l.reserve()
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reserve claims the next available slot and returns how long the
// caller must wait for it. The mutex is held only for the reservation,
// never across the sleep.
func (l *IntervalLimiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.nowFn()
	target := l.last.Add(l.interval)
	if target.Before(now) {
		target = now
	}
	l.last = target
	return target.Sub(now)
}

// Interval returns the configured minimum spacing
func (l *IntervalLimiter) Interval() time.Duration {
	return l.interval
}
