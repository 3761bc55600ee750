package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, headers map[string]string) *http.Response {
	resp := &http.Response{StatusCode: status, Header: http.Header{}}
	for k, v := range headers {
		resp.Header.Set(k, v)
	}
	return resp
}

func TestNew(t *testing.T) {
	t.Run("non-positive rate disables throttling", func(t *testing.T) {
		assert.Nil(t, New(0, 1))
		assert.Nil(t, New(-1, 1))
	})

	t.Run("burst floor is one", func(t *testing.T) {
		l := New(10, 0)
		require.NotNil(t, l)
		assert.Equal(t, 1, l.bucket.Burst())
	})
}

func TestLimiter_NilIsNoop(t *testing.T) {
	var l *Limiter

	assert.NoError(t, l.Wait(context.Background()))
	assert.NoError(t, l.Observe(response(http.StatusOK, nil)))
	assert.Equal(t, -1, l.Remaining())

	var rlErr *RateLimitError
	assert.True(t, errors.As(l.Observe(response(http.StatusTooManyRequests, nil)), &rlErr))
}

func TestLimiter_Wait(t *testing.T) {
	t.Run("burst passes immediately", func(t *testing.T) {
		l := New(1000, 3)
		start := time.Now()
		for i := 0; i < 3; i++ {
			require.NoError(t, l.Wait(context.Background()))
		}
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("cancelled context", func(t *testing.T) {
		l := New(0.001, 1)
		require.NoError(t, l.Wait(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		assert.Error(t, l.Wait(ctx))
	})

	t.Run("waits out retry-after block", func(t *testing.T) {
		l := New(1000, 10)
		l.blockedAt = time.Now().Add(time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)
	})
}

func TestLimiter_Observe(t *testing.T) {
	t.Run("records remaining requests", func(t *testing.T) {
		l := New(10, 1)

		require.NoError(t, l.Observe(response(http.StatusOK, map[string]string{HeaderRemainingRequests: "42"})))

		assert.Equal(t, 42, l.Remaining())
	})

	t.Run("ignores malformed header", func(t *testing.T) {
		l := New(10, 1)

		require.NoError(t, l.Observe(response(http.StatusOK, map[string]string{HeaderRemainingRequests: "lots"})))

		assert.Equal(t, -1, l.Remaining())
	})

	t.Run("429 returns retry time", func(t *testing.T) {
		l := New(10, 1)
		before := time.Now()

		err := l.Observe(response(http.StatusTooManyRequests, map[string]string{HeaderRetryAfter: "30"}))

		var rlErr *RateLimitError
		require.True(t, errors.As(err, &rlErr))
		assert.True(t, rlErr.RetryAt.After(before.Add(29*time.Second)))
		assert.Equal(t, 0, l.Remaining())
		assert.Contains(t, err.Error(), "rate limit exceeded")
	})

	t.Run("nil response", func(t *testing.T) {
		assert.NoError(t, New(10, 1).Observe(nil))
	})
}
