package upstream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyLimitReached is returned when the daily upstream call budget has
// been exhausted.
var ErrDailyLimitReached = errors.New("daily upstream limit reached")

// RateLimiter paces upstream calls with a token bucket and caps them with a
// rolling 24-hour budget. A zero daily budget means unlimited.
type RateLimiter struct {
	limiter  *rate.Limiter
	daily    atomic.Int64
	maxDaily int64
	resetAt  time.Time
	mu       sync.Mutex
	nowFunc  func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a limiter allowing perSecond calls with the given
// burst, and at most maxDaily calls per window. The window resets 24 hours
// after it opened.
func NewRateLimiter(perSecond float64, burst int, maxDaily int64, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(24 * time.Hour)
	return r
}

// Wait blocks until a call is allowed or ctx is done. It fails fast with
// ErrDailyLimitReached once the daily budget is spent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.rollWindow()

	if r.maxDaily > 0 && r.daily.Load() >= r.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, r.daily.Load(), r.maxDaily)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	r.daily.Add(1)
	return nil
}

// DailyCount returns the number of calls made in the current window.
func (r *RateLimiter) DailyCount() int64 {
	return r.daily.Load()
}

// LimiterStatus is a point-in-time view of the daily budget.
type LimiterStatus struct {
	DailyUsed      int64     `json:"daily_used"`
	DailyLimit     int64     `json:"daily_limit"`
	DailyRemaining int64     `json:"daily_remaining"`
	ResetAt        time.Time `json:"reset_at"`
}

// Status reports usage in the current window. Remaining is -1 when the
// budget is unlimited.
func (r *RateLimiter) Status() LimiterStatus {
	r.rollWindow()

	r.mu.Lock()
	resetAt := r.resetAt
	r.mu.Unlock()

	used := r.daily.Load()
	remaining := int64(-1)
	if r.maxDaily > 0 {
		remaining = max(r.maxDaily-used, 0)
	}

	return LimiterStatus{
		DailyUsed:      used,
		DailyLimit:     r.maxDaily,
		DailyRemaining: remaining,
		ResetAt:        resetAt,
	}
}

func (r *RateLimiter) rollWindow() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.daily.Store(0)
		r.resetAt = now.Add(24 * time.Hour)
	}
}
