package soap

import (
	"context"
	"errors"
	"io"
	"math"
	"net"
	"strings"
	"time"

	"github.com/rws/go-ishremote/transport"
)

// RetryPolicy configures retries of transient transport failures.
type RetryPolicy struct {
	// MaxAttempts includes the first call. Values below 2 disable retries.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryPolicy makes three attempts starting at 200ms.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2,
	}
}

// isRetryableError reports whether err is a transient transport issue.
// Faults, authentication failures and cancellation are final.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if IsFault(err) || errors.Is(err, transport.ErrUnauthorized) || errors.Is(err, transport.ErrForbidden) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var se *transport.StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case 502, 503, 504:
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "no route to host") ||
		strings.Contains(errStr, "broken pipe")
}

// calculateRetryBackoff computes exponential backoff with cap.
func calculateRetryBackoff(attempt int, policy *RetryPolicy) time.Duration {
	if policy == nil {
		return time.Second
	}

	delay := policy.InitialDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	if attempt <= 1 {
		return delay
	}

	multiplier := policy.Multiplier
	if multiplier < 1.0 {
		multiplier = 2.0
	}

	maxDelay := policy.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 5 * time.Second
	}

	backoff := float64(delay) * math.Pow(multiplier, float64(attempt-1))
	if backoff > float64(maxDelay) || backoff > float64(math.MaxInt64) {
		return maxDelay
	}
	return time.Duration(backoff)
}

// retry runs fn until it succeeds, fails permanently or the attempts run out.
func retry(ctx context.Context, policy *RetryPolicy, onRetry func(attempt int, err error, wait time.Duration), fn func() error) error {
	attempts := 1
	if policy != nil && policy.MaxAttempts > 1 {
		attempts = policy.MaxAttempts
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil || !isRetryableError(err) || attempt == attempts {
			return err
		}
		wait := calculateRetryBackoff(attempt, policy)
		if onRetry != nil {
			onRetry(attempt, err, wait)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
