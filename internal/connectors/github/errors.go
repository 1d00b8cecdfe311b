package github

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
)

// RateLimitError represents quota exhaustion that survived the bounded
// retry loop. It is terminal for the request that hit it; callers
// record it and continue with already-gathered data.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
	Attempts  int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded after %d attempts, resets at %s",
		e.Attempts, e.ResetAt.Format(time.RFC3339))
}

// Unwrap lets errors.Is match the domain sentinel.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// NetworkError represents a transient transport failure that survived
// the bounded retry loop.
type NetworkError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("github: %s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError represents a non-retryable GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Unwrap maps credential rejections onto the domain sentinel so core
// services can classify them without importing this package.
func (e *APIError) Unwrap() error {
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return domain.ErrAuthInvalid
	}
	return nil
}

// IsRateLimited checks if the error indicates exhausted quota.
func IsRateLimited(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// IsNetworkError checks if the error is a retries-exhausted transport failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsUnauthorized checks if the error indicates a rejected credential.
// Both 401 (bad token) and a non-quota 403 (revoked or underscoped
// token) count.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return errors.Is(err, domain.ErrAuthInvalid)
}

// IsNotFound checks if the error indicates a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}
