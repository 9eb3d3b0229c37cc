package resilience

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Retryable reports whether an error is worth another attempt. Permanent
// errors (bad input, unsupported format) must return false so they fail
// fast instead of burning the retry budget.
type Retryable func(err error) bool

// Never treats every error as permanent.
func Never(error) bool { return false }

// Always retries every error up to the attempt budget.
func Always(err error) bool { return err != nil }

// Executor runs operations under a retry loop with exponential backoff and
// a per-operation circuit breaker. Swappable pipeline components that call
// out of process (ML or LLM classifiers, AI name generators) go through an
// executor so a flapping backend degrades to fallbacks instead of stalling
// the whole batch.
type Executor struct {
	policy Policy
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewExecutor(policy Policy, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		policy:   policy.withDefaults(),
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

// Do runs fn for the named operation. The breaker counts every attempt
// batch as one request; once it opens, calls fail immediately until the
// open timeout elapses.
func (e *Executor) Do(ctx context.Context, operation string, retryable Retryable, fn func(context.Context) error) error {
	if retryable == nil {
		retryable = Never
	}
	if !e.policy.BreakerEnabled {
		return e.retry(ctx, operation, retryable, fn)
	}
	breaker := e.breaker(operation)
	_, err := breaker.Execute(func() (any, error) {
		return nil, e.retry(ctx, operation, retryable, fn)
	})
	return err
}

func (e *Executor) retry(ctx context.Context, operation string, retryable Retryable, fn func(context.Context) error) error {
	backoff := e.policy.RetryInitialBackoff

	var err error
	for attempt := 1; attempt <= e.policy.RetryMaxAttempts; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if !retryable(err) || attempt == e.policy.RetryMaxAttempts {
			return err
		}

		e.logger.Warn("retrying operation",
			slog.String("operation", operation),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
			slog.Any("error", err),
		)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		backoff = min(time.Duration(float64(backoff)*e.policy.RetryMultiplier), e.policy.RetryMaxBackoff)
	}
	return err
}

func (e *Executor) breaker(operation string) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b, ok := e.breakers[operation]; ok {
		return b
	}
	b := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        operation,
		MaxRequests: e.policy.BreakerHalfOpenMaxCalls,
		Timeout:     e.policy.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.policy.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= e.policy.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn("circuit breaker state change",
				slog.String("operation", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	e.breakers[operation] = b
	return b
}

// IsCircuitOpen reports whether err came from an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
