// Package retry runs fallible operations with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy describes how many times an operation is attempted and how long to wait between attempts.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64

	// Sleep defaults to a timer that honours ctx cancellation.
	Sleep SleepFunc
	// OnRetry is called after a failed attempt that will be retried, with the delay about to be slept.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy returns 3 attempts starting at one second and doubling.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		Multiplier:   2.0,
	}
}

// AttemptDataCarrier is implemented by errors that carry context about the attempt that produced them.
type AttemptDataCarrier interface {
	AttemptData() map[string]any
}

// ExhaustedError is returned by Do when every attempt failed.
type ExhaustedError struct {
	Attempts int
	LastErr  error
	// LastAttemptData is the data attached to the last failure that carried any, or nil.
	LastAttemptData map[string]any
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("Todas as %d tentativas falharam. Último erro: %v", e.Attempts, e.LastErr)
}

func (e *ExhaustedError) Unwrap() error {
	return e.LastErr
}

// AsExhausted returns the ExhaustedError in err's chain, if any.
func AsExhausted(err error) (*ExhaustedError, bool) {
	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) {
		return exhausted, true
	}
	return nil, false
}

// Do calls op until it succeeds or the policy's attempts are used up.
// The delay starts at InitialDelay and is multiplied by Multiplier after every sleep;
// there is no sleep after the final attempt.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T

	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Multiplier <= 0 {
		p.Multiplier = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = timerSleep
	}

	delay := p.InitialDelay
	var lastErr error
	var lastData map[string]any

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := op(ctx, attempt)
		if err == nil {
			return result, nil
		}

		lastErr = err
		var carrier AttemptDataCarrier
		if errors.As(err, &carrier) {
			lastData = carrier.AttemptData()
		}

		if attempt == p.MaxAttempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay = time.Duration(float64(delay) * p.Multiplier)
	}

	return zero, &ExhaustedError{
		Attempts:        p.MaxAttempts,
		LastErr:         lastErr,
		LastAttemptData: lastData,
	}
}

func timerSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
