package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// localSweepInterval bounds how often Allow scans for refilled limiters.
const localSweepInterval = time.Minute

// LocalBuckets keeps one in-process limiter per key. It serves single-instance
// deployments and stands in while redis is unreachable. A limiter that has
// refilled to its burst behaves like a new one, so those are dropped on sweep.
type LocalBuckets struct {
	mu        sync.Mutex
	now       func() time.Time
	buckets   map[string]*rate.Limiter
	lastSweep time.Time
}

func NewLocalBuckets(now func() time.Time) *LocalBuckets {
	if now == nil {
		now = time.Now
	}
	return &LocalBuckets{now: now, buckets: make(map[string]*rate.Limiter), lastSweep: now()}
}

func (l *LocalBuckets) Allow(_ context.Context, key string, perSecond float64, burst int) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= localSweepInterval {
		l.sweep(now)
	}

	limiter, ok := l.buckets[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		l.buckets[key] = limiter
	} else if limiter.Limit() != rate.Limit(perSecond) || limiter.Burst() != burst {
		limiter.SetLimitAt(now, rate.Limit(perSecond))
		limiter.SetBurstAt(now, burst)
	}

	if limiter.AllowN(now, 1) {
		return Decision{Allowed: true, Remaining: int(limiter.TokensAt(now))}, nil
	}
	return Decision{
		Allowed:    false,
		RetryAfter: refillDelay(limiter.TokensAt(now), perSecond),
	}, nil
}

func (l *LocalBuckets) sweep(now time.Time) {
	for key, limiter := range l.buckets {
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func (l *LocalBuckets) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
