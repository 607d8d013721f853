package misc

import (
	"context"
	"time"
)

// DefaultBackoff is the delay schedule used for transient storage errors.
var DefaultBackoff = []time.Duration{
	1 * time.Second,
	3 * time.Second,
	5 * time.Second,
}

// Retry runs op, repeating it after each delay in delays while isRetryable
// approves the error. The total number of attempts is len(delays)+1. Context
// cancellation wins over the schedule.
func Retry(ctx context.Context, delays []time.Duration, isRetryable func(error) bool, op func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt >= len(delays) || !isRetryable(err) {
			return err
		}
		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
