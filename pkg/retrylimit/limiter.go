// Package retrylimit retries calls to a remote API under an adaptive rate
// limit: the rate grows while calls succeed and shrinks when the remote side
// reports overload.
package retrylimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// recoveryWindow is how long the limiter holds its rate after an overload
// before it starts growing again.
const recoveryWindow = 10 * time.Second

// AdaptiveLimiter is a token bucket whose rate is adjusted by the outcome of
// each call. It is safe for concurrent use.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	min       rate.Limit
	max       rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter returns a limiter starting at initial calls per second,
// kept within [min, max]. Each success adds stepUp; each overload multiplies
// the rate by stepDown.
func NewAdaptiveLimiter(initial, min, max, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if min < 1 {
		min = 1
	}
	if initial < min {
		initial = min
	}
	if max < min {
		max = min
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, burstFor(initial)),
		min:      min,
		max:      max,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// Wait blocks until a call may proceed or ctx is done.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success raises the rate unless an overload happened recently.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > recoveryWindow {
		a.setLimit(a.limiter.Limit() + a.stepUp)
	}
}

// RateLimited lowers the rate after the remote side pushed back.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.setLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// Limit returns the current calls per second.
func (a *AdaptiveLimiter) Limit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) setLimit(l rate.Limit) {
	switch {
	case l > a.max:
		l = a.max
	case l < a.min:
		l = a.min
	}
	if l == a.limiter.Limit() {
		return
	}
	a.limiter.SetLimit(l)
	a.limiter.SetBurst(burstFor(l))
}

func burstFor(l rate.Limit) int {
	return max(1, int(l))
}
