package harvest

import (
	"context"
	"log/slog"
	"time"
)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits for d. It returns ctx.Err() if the context ends first.
func Sleep(ctx context.Context, d time.Duration) error {
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

// DefaultRetryDelays returns the backoff delays for the search navigation: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// retry calls op up to len(delays)+1 times, sleeping delays[i] after the
// i-th failure. It returns the last error.
func retry(ctx context.Context, delays []time.Duration, sleep SleepFunc, logger *slog.Logger, what string, op func(ctx context.Context) error) error {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		logger.Warn("retrying", "op", what, "attempt", attempt+2, "err", err)
		if err := sleep(ctx, delays[attempt]); err != nil {
			return err
		}
	}

	return lastErr
}
