package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// RetryConfig holds retry behavior for API calls.
type RetryConfig struct {
	MaxRetries        int           // attempts beyond the first (default 3)
	InitialBackoff    time.Duration // default 1s
	MaxBackoff        time.Duration // default 20s
	BackoffMultiplier float64       // default 2.0

	// Circuit breaker settings.
	FailureThreshold int           // consecutive failures before opening (default 4)
	OpenTimeout      time.Duration // how long the circuit stays open (default 30s)
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    time.Second,
		MaxBackoff:        20 * time.Second,
		BackoffMultiplier: 2.0,
		FailureThreshold:  4,
		OpenTimeout:       30 * time.Second,
	}
}

// ErrCircuitOpen is returned when the circuit breaker is rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// circuitBreaker fails fast once the API has proven unreachable, so a dead
// endpoint costs one decision per OpenTimeout instead of a full retry ladder
// on every loop iteration.
type circuitBreaker struct {
	mu sync.Mutex

	failures    int
	openedAt    time.Time
	open        bool
	threshold   int
	openTimeout time.Duration
}

func newCircuitBreaker(threshold int, openTimeout time.Duration) *circuitBreaker {
	return &circuitBreaker{threshold: threshold, openTimeout: openTimeout}
}

func (cb *circuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.open {
		if time.Since(cb.openedAt) < cb.openTimeout {
			return ErrCircuitOpen
		}
		// Half-open: let one probe through.
		cb.open = false
		cb.failures = cb.threshold - 1
	}
	return nil
}

func (cb *circuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.open = false
}

func (cb *circuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures++
	if cb.failures >= cb.threshold {
		cb.open = true
		cb.openedAt = time.Now()
	}
}

// retryWithBackoff executes fn with exponential backoff, consulting the
// circuit breaker before each attempt.
func (c *Claude) retryWithBackoff(ctx context.Context, operation string, fn func(context.Context) error) error {
	var lastErr error
	backoff := c.retry.InitialBackoff

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if err := c.breaker.allow(); err != nil {
			return fmt.Errorf("%s blocked: %w", operation, err)
		}

		err := fn(ctx)
		if err == nil {
			c.breaker.recordSuccess()
			return nil
		}
		lastErr = err

		if isRetriable(err) {
			c.breaker.recordFailure()
		} else {
			return fmt.Errorf("%s failed: %w", operation, err)
		}
		if attempt == c.retry.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s canceled: %w", operation, ctx.Err())
		}

		select {
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * c.retry.BackoffMultiplier)
			if backoff > c.retry.MaxBackoff {
				backoff = c.retry.MaxBackoff
			}
		case <-ctx.Done():
			return fmt.Errorf("%s canceled during backoff: %w", operation, ctx.Err())
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, c.retry.MaxRetries+1, lastErr)
}

// isRetriable reports whether an error is transient. Client-side mistakes
// (auth, bad request) will not improve on retry.
func isRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := err.Error()
	for _, s := range []string{"429", "rate limit", "500", "502", "503", "504",
		"overloaded", "connection refused", "connection reset", "timeout", "network"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
