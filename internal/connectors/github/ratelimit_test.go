package github

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNewRateLimiter(t *testing.T) {
	t.Run("authenticated quota", func(t *testing.T) {
		r := NewRateLimiter(true)
		assert.Equal(t, AuthenticatedRateLimit, r.Remaining())
		assert.Equal(t, AuthenticatedRateLimit, r.Limit())
	})

	t.Run("anonymous quota", func(t *testing.T) {
		r := NewRateLimiter(false)
		assert.Equal(t, AnonymousRateLimit, r.Remaining())
		assert.Equal(t, AnonymousRateLimit, r.Limit())
	})
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter(true)

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateLimit, "5000")
	resp.Header.Set(HeaderRateRemaining, "42")
	resp.Header.Set(HeaderRateReset, "1700000000")

	r.UpdateFromResponse(resp)

	assert.Equal(t, 42, r.Remaining())
	assert.Equal(t, 5000, r.Limit())
	assert.Equal(t, time.Unix(1700000000, 0), r.ResetTime())
}

func TestRateLimiter_UpdateIgnoresMissingHeaders(t *testing.T) {
	r := NewRateLimiter(true)
	before := r.Remaining()

	r.UpdateFromResponse(&http.Response{Header: http.Header{}})
	assert.Equal(t, before, r.Remaining())

	r.UpdateFromResponse(nil)
	assert.Equal(t, before, r.Remaining())
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("passes immediately with quota available", func(t *testing.T) {
		r := NewRateLimiter(true)
		r.SetProactiveRate(rate.Inf)

		start := time.Now()
		require.NoError(t, r.Wait(context.Background()))
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("blocks until reset when quota is in the reserve", func(t *testing.T) {
		r := NewRateLimiter(true)
		r.SetProactiveRate(rate.Inf)

		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "0")
		reset := time.Now().Add(60 * time.Millisecond)
		resp.Header.Set(HeaderRateReset, "0")
		r.UpdateFromResponse(resp)
		r.resetTime = reset // sub-second precision, headers are Unix seconds

		start := time.Now()
		require.NoError(t, r.Wait(context.Background()))
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("reset wait goes through the injected sleep", func(t *testing.T) {
		r := NewRateLimiter(false)
		r.SetProactiveRate(rate.Inf)

		var slept []time.Duration
		r.SetSleep(func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		})

		r.remaining = 0
		r.resetTime = time.Now().Add(90 * time.Second)

		start := time.Now()
		require.NoError(t, r.Wait(context.Background()))
		assert.Less(t, time.Since(start), time.Second, "wait must be recorded, not slept for real")

		require.Len(t, slept, 1)
		assert.Greater(t, slept[0], 80*time.Second)
	})

	t.Run("quota presumed refilled after waiting out the reset", func(t *testing.T) {
		r := NewRateLimiter(false)
		r.SetProactiveRate(rate.Inf)

		var slept []time.Duration
		r.SetSleep(func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		})

		r.remaining = 0
		r.resetTime = time.Now().Add(90 * time.Second)

		require.NoError(t, r.Wait(context.Background()))
		require.NoError(t, r.Wait(context.Background()))

		assert.Len(t, slept, 1, "second wait must not block on the same reset")
		assert.Equal(t, AnonymousRateLimit, r.Remaining())
	})

	t.Run("respects cancellation while waiting", func(t *testing.T) {
		r := NewRateLimiter(true)
		r.SetProactiveRate(rate.Inf)
		r.remaining = 0
		r.resetTime = time.Now().Add(time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := r.Wait(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
