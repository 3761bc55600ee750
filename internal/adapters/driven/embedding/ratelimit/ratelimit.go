// Package ratelimit throttles requests to remote embedding APIs.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"

	// HeaderRemainingRequests is the OpenAI remaining-requests header.
	HeaderRemainingRequests = "X-Ratelimit-Remaining-Requests"
)

// RateLimitError reports a 429 from the provider.
type RateLimitError struct {
	RetryAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry at %s", e.RetryAt.Format(time.RFC3339))
}

// Limiter combines proactive token-bucket throttling with the provider's
// Retry-After hints. A nil *Limiter never blocks.
type Limiter struct {
	mu        sync.Mutex
	bucket    *rate.Limiter
	blockedAt time.Time
	remaining int
}

// New creates a limiter allowing perSecond requests with bursts of burst.
// A non-positive perSecond returns nil (no throttling).
func New(perSecond float64, burst int) *Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		bucket:    rate.NewLimiter(rate.Limit(perSecond), burst),
		remaining: -1,
	}
}

// Wait blocks until a request may be sent.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	if err := l.bucket.Wait(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	until := l.blockedAt
	l.mu.Unlock()

	if time.Now().Before(until) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(until)):
		}
	}
	return nil
}

// Observe records rate limit headers from resp and returns a
// *RateLimitError when the provider rejected the request.
func (l *Limiter) Observe(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		if l != nil && resp != nil {
			l.updateRemaining(resp)
		}
		return nil
	}

	retryAt := time.Now()
	if v := resp.Header.Get(HeaderRetryAfter); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			retryAt = retryAt.Add(time.Duration(seconds) * time.Second)
		}
	}

	if l != nil {
		l.mu.Lock()
		l.blockedAt = retryAt
		l.remaining = 0
		l.mu.Unlock()
	}

	return &RateLimitError{RetryAt: retryAt}
}

// Remaining returns the last reported remaining request count, or -1 when
// the provider has not reported one.
func (l *Limiter) Remaining() int {
	if l == nil {
		return -1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining
}

func (l *Limiter) updateRemaining(resp *http.Response) {
	v := resp.Header.Get(HeaderRemainingRequests)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	l.mu.Lock()
	l.remaining = n
	l.mu.Unlock()
}
