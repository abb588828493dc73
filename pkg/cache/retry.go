package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures talking to a cache or store server.
var ErrNetwork = errors.New("network error")

// Retry policy for connecting to Redis and MongoDB. Tests shorten RetryDelay.
var (
	RetryAttempts = 3
	RetryDelay    = time.Second
)

// RetryableError marks a failure worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps err so RetryWithBackoff tries again. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped by Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, fails with an error that is
// not retryable, or RetryAttempts is used up. The delay between attempts
// starts at RetryDelay and doubles.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := RetryDelay
	var err error
	for attempt := range max(RetryAttempts, 1) {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == RetryAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
