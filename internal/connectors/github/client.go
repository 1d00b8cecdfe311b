package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/azarch-cli/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxAttempts bounds the retry loop for rate-limit waits and
	// transient transport failures alike.
	MaxAttempts = 3

	// RetryDelay is the initial backoff delay, doubled each attempt.
	RetryDelay = time.Second

	// MinRateLimitWait floors the computed wait-for-reset duration so
	// a stale or past reset timestamp cannot busy-loop the client.
	MinRateLimitWait = time.Second
)

// Client wraps the go-github client with rate limiting and bounded
// retry. All traversal strategies and the content fetcher share one
// Client, so the whole process observes a single rate-limit state.
type Client struct {
	gh            *gh.Client
	limiter       *RateLimiter
	authenticated bool

	// sleep is swapped for a fake clock in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client. An empty token is a legal, supported
// configuration: the client then runs against the anonymous quota.
func NewClient(ctx context.Context, token string) *Client {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(ctx, ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = DefaultTimeout

	return &Client{
		gh:            gh.NewClient(hc),
		limiter:       NewRateLimiter(token != ""),
		authenticated: token != "",
		sleep:         sleepContext,
	}
}

// NewClientWithHTTPClient creates a client over a caller-supplied
// http.Client. Used by tests to inject a fake transport.
func NewClientWithHTTPClient(hc *http.Client, authenticated bool) *Client {
	return &Client{
		gh:            gh.NewClient(hc),
		limiter:       NewRateLimiter(authenticated),
		authenticated: authenticated,
		sleep:         sleepContext,
	}
}

// Authenticated reports whether a credential was configured.
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// RateLimiter returns the shared limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// SetSleep overrides the wait function for both the retry loop and the
// limiter's reactive reset wait. Tests install a fake clock so backoff
// bounds are checked without real delays.
func (c *Client) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	c.sleep = fn
	c.limiter.SetSleep(fn)
}

// DefaultBranch returns the repository's default branch name.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	var branch string
	err := c.withRetry(ctx, "get repository", func() (*gh.Response, error) {
		repository, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
		if err == nil {
			branch = repository.GetDefaultBranch()
		}
		return resp, err
	})
	return branch, err
}

// GetTree fetches the entire repository tree in one recursive call.
func (c *Client) GetTree(ctx context.Context, owner, repo, ref string) (*gh.Tree, error) {
	var tree *gh.Tree
	err := c.withRetry(ctx, "get tree", func() (*gh.Response, error) {
		t, resp, err := c.gh.Git.GetTree(ctx, owner, repo, ref, true)
		if err == nil {
			tree = t
		}
		return resp, err
	})
	return tree, err
}

// GetBlob fetches a blob by SHA.
func (c *Client) GetBlob(ctx context.Context, owner, repo, sha string) (*gh.Blob, error) {
	var blob *gh.Blob
	err := c.withRetry(ctx, "get blob", func() (*gh.Response, error) {
		b, resp, err := c.gh.Git.GetBlob(ctx, owner, repo, sha)
		if err == nil {
			blob = b
		}
		return resp, err
	})
	return blob, err
}

// ListDirectory lists one directory via the Contents API. When the
// path is a single file, a one-entry listing is returned.
func (c *Client) ListDirectory(ctx context.Context, owner, repo, path string) ([]*gh.RepositoryContent, error) {
	var listing []*gh.RepositoryContent
	err := c.withRetry(ctx, "list directory", func() (*gh.Response, error) {
		file, dir, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
		if err != nil {
			return resp, err
		}
		if file != nil {
			listing = []*gh.RepositoryContent{file}
		} else {
			listing = dir
		}
		return resp, nil
	})
	return listing, err
}

// GetFileContent fetches and decodes a file's content by path.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path string) ([]byte, error) {
	var content []byte
	err := c.withRetry(ctx, "get contents", func() (*gh.Response, error) {
		file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
		if err != nil {
			return resp, err
		}
		if file == nil {
			return resp, fmt.Errorf("path %s is a directory, not a file", path)
		}
		decoded, err := file.GetContent()
		if err != nil {
			return resp, fmt.Errorf("decode content: %w", err)
		}
		content = []byte(decoded)
		return resp, nil
	})
	return content, err
}

// withRetry runs one API call under the shared guard. It is an
// explicit bounded state machine: each attempt classifies the failure
// as quota exhaustion (wait until the advertised reset, floored),
// transient transport trouble (exponential backoff) or permanent
// (returned immediately). Attempt bounds are the terminal states.
func (c *Client) withRetry(ctx context.Context, op string, call func() (*gh.Response, error)) error {
	delay := RetryDelay

	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		resp, err := call()
		if resp != nil {
			c.limiter.UpdateFromResponse(resp.Response)
		}
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch {
		case isRateLimit(err):
			if attempt >= MaxAttempts {
				return &RateLimitError{
					ResetAt:   c.limiter.ResetTime(),
					Remaining: c.limiter.Remaining(),
					Limit:     c.limiter.Limit(),
					Attempts:  attempt,
				}
			}
			wait := rateLimitWait(err, c.limiter.ResetTime())
			logger.Warn("rate limit hit on %s, waiting %s (attempt %d/%d)", op, wait, attempt, MaxAttempts)
			if serr := c.sleep(ctx, wait); serr != nil {
				return serr
			}
			// The reset was waited out here; without this the limiter
			// would block the next attempt until the same timestamp.
			c.limiter.presumeReset()

		case isTransient(err):
			if attempt >= MaxAttempts {
				return &NetworkError{Op: op, Attempts: attempt, Err: err}
			}
			logger.Debug("transient error on %s, retrying in %s: %v", op, delay, err)
			if serr := c.sleep(ctx, delay); serr != nil {
				return serr
			}
			delay *= 2

		default:
			return wrapError(op, err)
		}
	}
}

// isRateLimit reports whether the error is a quota-exhaustion signal:
// a 403/429 carrying the rate-limit headers, which go-github surfaces
// as typed errors.
func isRateLimit(err error) bool {
	var rle *gh.RateLimitError
	var able *gh.AbuseRateLimitError
	return errors.As(err, &rle) || errors.As(err, &able)
}

// rateLimitWait computes how long to block before retrying. The
// Retry-After header wins when present, otherwise the header-advertised
// reset time. Never negative, never below the floor.
func rateLimitWait(err error, resetAt time.Time) time.Duration {
	wait := time.Until(resetAt)

	var able *gh.AbuseRateLimitError
	if errors.As(err, &able) && able.RetryAfter != nil {
		wait = *able.RetryAfter
	}
	var rle *gh.RateLimitError
	if errors.As(err, &rle) && !rle.Rate.Reset.IsZero() {
		wait = time.Until(rle.Rate.Reset.Time)
	}

	if wait < MinRateLimitWait {
		wait = MinRateLimitWait
	}
	return wait
}

// isTransient reports whether the error is worth a backoff retry:
// network-level failures and server-side 5xx responses.
func isTransient(err error) bool {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		return ghErr.Response != nil && ghErr.Response.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// wrapError converts go-github errors to package error types.
func wrapError(op string, err error) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		apiErr := &APIError{Message: ghErr.Message}
		if ghErr.Response != nil {
			apiErr.StatusCode = ghErr.Response.StatusCode
			if ghErr.Response.Request != nil && ghErr.Response.Request.URL != nil {
				apiErr.URL = ghErr.Response.Request.URL.String()
			}
		}
		return apiErr
	}
	return fmt.Errorf("%s: %w", op, err)
}

// sleepContext blocks for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
