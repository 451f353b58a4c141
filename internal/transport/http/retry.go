package http

import (
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/okonenko/ncm-grabber/internal/logger"
)

// RetryTransport is a custom http.RoundTripper that retries requests
// failing with 5xx-class responses or transport errors.
// Retries use exponential backoff with jitter and are bounded by maxAttempts.
// Requests with a non-replayable body are never retried.
type RetryTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// maxAttempts is the total number of attempts, including the first one.
	maxAttempts int
	// basePause is the backoff before the first retry; it doubles on every subsequent retry.
	basePause time.Duration
	// maxPause caps the backoff between retries.
	maxPause time.Duration
}

const (
	// DefaultMaxRetryAttempts bounds retries of transient server failures.
	DefaultMaxRetryAttempts = 5

	// defaultBasePause is the initial backoff used when no pause is configured.
	defaultBasePause = time.Second

	// defaultMaxPause caps the backoff used when no pause is configured.
	defaultMaxPause = 8 * time.Second

	// backoffFactor doubles the pause after every failed attempt.
	backoffFactor = 2
)

// NewRetryTransport creates and returns a new instance of RetryTransport.
// Non-positive arguments fall back to package defaults.
func NewRetryTransport(next http.RoundTripper, maxAttempts int, basePause, maxPause time.Duration) http.RoundTripper {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxRetryAttempts
	}

	if basePause <= 0 {
		basePause = defaultBasePause
	}

	if maxPause <= 0 {
		maxPause = defaultMaxPause
	}

	return &RetryTransport{
		next:        next,
		maxAttempts: maxAttempts,
		basePause:   basePause,
		maxPause:    maxPause,
	}
}

// RoundTrip executes a single HTTP transaction, retrying transient server failures.
// It implements the http.RoundTripper interface.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	// Only retry requests whose body can be replayed.
	if req.Body != nil && req.GetBody == nil {
		return t.next.RoundTrip(req)
	}

	var (
		ctx   = req.Context()
		pause = t.basePause

		resp *http.Response
		err  error
	)

	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if attempt > 1 && req.Body != nil {
			req.Body, err = req.GetBody()
			if err != nil {
				return nil, err
			}
		}

		resp, err = t.next.RoundTrip(req)
		if err == nil && !isTransientStatus(resp.StatusCode) {
			return resp, nil
		}

		if attempt == t.maxAttempts {
			break
		}

		if err != nil {
			logger.Debugf(ctx, "Request %s %s failed: %v, retrying (%d attempts left)",
				req.Method, req.URL.Path, err, t.maxAttempts-attempt)
		} else {
			logger.Debugf(ctx, "Request %s %s returned %d, retrying (%d attempts left)",
				req.Method, req.URL.Path, resp.StatusCode, t.maxAttempts-attempt)

			drainAndClose(resp)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(jitter(pause)):
		}

		pause *= backoffFactor
		if pause > t.maxPause {
			pause = t.maxPause
		}
	}

	return resp, err
}

// isTransientStatus reports whether the status code represents a transient server failure.
func isTransientStatus(statusCode int) bool {
	return statusCode >= http.StatusInternalServerError
}

// jitter randomizes a pause within [pause/2, pause] to avoid synchronized retries.
func jitter(pause time.Duration) time.Duration {
	half := pause / backoffFactor

	//nolint:gosec // math/rand/v2 is secure.
	return half + time.Duration(rand.Int64N(int64(half)+1))
}

// drainAndClose consumes the remaining body so the connection can be reused.
func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
