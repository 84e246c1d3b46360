// Package ratelimit implements a token-bucket limiter that gates outbound
// inference requests. The bucket refills continuously at a fixed rate and
// never blocks: callers that cannot proceed are told so immediately and
// decide for themselves whether to retry later.
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const acquireExceedsCapacityErrorFormat = "%w: requested tokens (%d) exceed bucket capacity (%d)"

// ErrExceedsCapacity reports a request that can never succeed because it asks
// for more tokens than the bucket can hold. Callers must not retry it.
var ErrExceedsCapacity = errors.New("requested tokens exceed bucket capacity")

// Limiter is a thread-safe token bucket. One Limiter instance is owned by a
// single Processor; independent processors construct their own.
type Limiter struct {
	mutex      sync.Mutex
	capacity   int
	ratePerSec float64
	available  float64
	lastRefill time.Time
	clock      func() time.Time
}

// NewLimiter constructs a full bucket holding capacity tokens that refills at
// ratePerSecond tokens per second.
func NewLimiter(ratePerSecond float64, capacity int) *Limiter {
	return NewLimiterWithClock(ratePerSecond, capacity, time.Now)
}

// NewLimiterWithClock constructs a limiter reading time from the supplied
// clock. Tests inject a manual clock to make refill behavior deterministic.
func NewLimiterWithClock(ratePerSecond float64, capacity int, clock func() time.Time) *Limiter {
	if clock == nil {
		clock = time.Now
	}
	return &Limiter{
		capacity:   capacity,
		ratePerSec: ratePerSecond,
		available:  float64(capacity),
		lastRefill: clock(),
		clock:      clock,
	}
}

// refillLocked credits tokens for the time elapsed since the last refill,
// capped at capacity. Callers must hold the mutex. A clock that appears to
// run backwards credits nothing.
func (limiter *Limiter) refillLocked(now time.Time) {
	if now.Before(limiter.lastRefill) {
		return
	}
	elapsedSeconds := now.Sub(limiter.lastRefill).Seconds()
	limiter.available += elapsedSeconds * limiter.ratePerSec
	if limiter.available > float64(limiter.capacity) {
		limiter.available = float64(limiter.capacity)
	}
	limiter.lastRefill = now
}

// Acquire attempts to take the requested tokens without waiting. It returns
// false when the bucket holds too few tokens right now, and an error when the
// request could never succeed because it exceeds the bucket capacity.
func (limiter *Limiter) Acquire(tokens int) (bool, error) {
	return limiter.AcquireWithin(tokens, 0)
}

// AcquireWithin behaves exactly like Acquire. The timeout parameter is
// advisory: it names the caller's wait budget but is not consulted; the
// limiter performs a single refill check and never sleeps or polls. A caller
// wanting blocking semantics loops outside within its own budget.
func (limiter *Limiter) AcquireWithin(tokens int, timeout time.Duration) (bool, error) {
	if tokens > limiter.capacity {
		return false, fmt.Errorf(acquireExceedsCapacityErrorFormat, ErrExceedsCapacity, tokens, limiter.capacity)
	}

	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()

	limiter.refillLocked(limiter.clock())
	if limiter.available >= float64(tokens) {
		limiter.available -= float64(tokens)
		return true, nil
	}
	return false, nil
}

// Release returns one token to the bucket, capped at capacity. Each logical
// unit of work releases exactly once regardless of how many attempts it made.
func (limiter *Limiter) Release() {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()

	limiter.refillLocked(limiter.clock())
	limiter.available += 1
	if limiter.available > float64(limiter.capacity) {
		limiter.available = float64(limiter.capacity)
	}
}

// Available reports the current token count after refill accounting. It is a
// diagnostic snapshot; the value may be stale by the time the caller acts.
func (limiter *Limiter) Available() float64 {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()

	limiter.refillLocked(limiter.clock())
	return limiter.available
}

// Capacity reports the maximum number of tokens the bucket can hold.
func (limiter *Limiter) Capacity() int {
	return limiter.capacity
}
