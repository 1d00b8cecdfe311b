package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// AuthenticatedRateLimit is the authenticated quota (5000/hour).
	AuthenticatedRateLimit = 5000

	// AnonymousRateLimit is the unauthenticated quota (60/hour).
	AnonymousRateLimit = 60

	// ProactiveRate is the proactive throttle for authenticated
	// clients (~1.2 req/sec = 4320/hr, under the 5000/hr quota).
	ProactiveRate = 1.2

	// AnonymousProactiveRate keeps unauthenticated walks under the
	// 60/hour quota within a single pass (~1 req per 90s would be
	// unusably slow, so we spend the hour's budget up front instead
	// and rely on reactive reset waiting).
	AnonymousProactiveRate = 1.0

	// AuthenticatedMinBuffer is the remaining-request reserve below
	// which an authenticated client waits for reset.
	AuthenticatedMinBuffer = 100

	// AnonymousMinBuffer is the reserve for unauthenticated clients.
	AnonymousMinBuffer = 2

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter implements dual-strategy rate limiting for the GitHub
// API: a proactive token bucket plus reactive tracking of the
// X-RateLimit-* headers. One limiter is shared by every caller of the
// client so concurrent work cannot collectively exceed quota.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int       // From API header
	limit     int       // From API header
	resetTime time.Time // From API header
	bucket    *rate.Limiter
	minBuffer int

	// sleep is swapped for a fake clock in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a limiter sized for the credential situation.
// Unauthenticated clients get the 60/hour anonymous quota.
func NewRateLimiter(authenticated bool) *RateLimiter {
	limit := AnonymousRateLimit
	buffer := AnonymousMinBuffer
	throttle := AnonymousProactiveRate
	if authenticated {
		limit = AuthenticatedRateLimit
		buffer = AuthenticatedMinBuffer
		throttle = ProactiveRate
	}
	return &RateLimiter{
		remaining: limit, // Assume full quota initially
		limit:     limit,
		bucket:    rate.NewLimiter(rate.Limit(throttle), 1),
		minBuffer: buffer,
		sleep:     sleepContext,
	}
}

// SetProactiveRate overrides the token bucket rate.
// Tests use rate.Inf to avoid real waits.
func (r *RateLimiter) SetProactiveRate(limit rate.Limit) {
	r.bucket.SetLimit(limit)
}

// SetSleep overrides the reactive wait function. Tests install a fake
// clock so reset waits are recorded instead of slept.
func (r *RateLimiter) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	r.sleep = fn
}

// Wait blocks until it is safe to make a request. It applies the
// proactive throttle first, then waits for the advertised reset when
// the remaining quota has dropped into the reserve.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining := r.remaining
	resetTime := r.resetTime
	r.mu.Unlock()

	if remaining < r.minBuffer && time.Now().Before(resetTime) {
		if err := r.sleep(ctx, time.Until(resetTime)); err != nil {
			return err
		}
		r.presumeReset()
	}

	return nil
}

// presumeReset marks the quota window as rolled over after a wait for
// the advertised reset: the quota is treated as refilled until the
// next response headers say otherwise. Without this, callers that
// already waited out the reset would wait for the same timestamp
// again.
func (r *RateLimiter) presumeReset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = r.limit
}

// UpdateFromResponse updates rate limit state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}

	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}

	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetTime = time.Unix(val, 0)
		}
	}
}

// Remaining returns the current remaining requests.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the rate limit.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns the rate limit reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}
