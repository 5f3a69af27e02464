// Package failopen runs remote calls under a deadline and substitutes a
// fallback value when they fail.
package failopen

import (
	"context"
	"fmt"
	"time"
)

// Call runs fn with a context bounded by timeout. On error, panic or deadline
// it returns fallback together with the cause. It never waits past the
// deadline even if fn ignores its context.
func Call[T any](ctx context.Context, timeout time.Duration, fallback T, fn func(context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		v, err := fn(callCtx)
		done <- result{value: v, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return fallback, res.err
		}
		return res.value, nil
	case <-callCtx.Done():
		return fallback, fmt.Errorf("after %s: %w", timeout, callCtx.Err())
	}
}
