// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxRetries      int                          // Maximum number of retry attempts
	InitialInterval time.Duration                // Initial retry interval
	MaxInterval     time.Duration                // Maximum retry interval
	Multiplier      float64                      // Exponential backoff multiplier (e.g. 2.0 doubles each attempt)
	Jitter          bool                         // Add up to 25% random jitter to spread retries
	OnRetry         func(attempt int, err error) // Optional callback invoked before each retry
}

// DefaultRetryConfig suits a model backend on the same host or network:
// short first delay, a handful of attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2.0,
		Jitter:          true,
	}
}

// RetryableOperation represents an operation that can be retried.
type RetryableOperation func(ctx context.Context) error

// RetryWithBackoff executes an operation with exponential backoff and optional jitter.
// The delay before attempt n is: InitialInterval * Multiplier^(n-1), capped at MaxInterval.
// Errors that ClassifyError marks as permanent stop the loop immediately.
func RetryWithBackoff(ctx context.Context, config RetryConfig, operation RetryableOperation) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := float64(config.InitialInterval)
			for i := 1; i < attempt; i++ {
				delay *= config.Multiplier
			}
			if config.Jitter {
				delay += delay * 0.25 * rand.Float64()
			}
			wait := time.Duration(delay)
			if config.MaxInterval > 0 {
				wait = min(wait, config.MaxInterval)
			}

			if config.OnRetry != nil {
				config.OnRetry(attempt, lastErr)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !ClassifyError(err).IsRetryable() {
			return err
		}
	}

	return lastErr
}

// RetryableFunc is a convenience type for retryable functions that return a value.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// RetryWithResult executes a function that returns a result and error with retry logic.
func RetryWithResult[T any](ctx context.Context, config RetryConfig, fn RetryableFunc[T]) (T, error) {
	var result T
	err := RetryWithBackoff(ctx, config, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}

// IsRetryable reports whether an error should be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return ClassifyError(err).IsRetryable()
}
