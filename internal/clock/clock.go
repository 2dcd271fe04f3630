// Package clock holds the context-aware waits shared by pollers and sweepers.
package clock

import (
	"context"
	"time"
)

// SleepWithContext waits for d and returns ctx.Err() if ctx ends first.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Every calls fn once per interval until ctx ends and returns ctx.Err().
// A slow fn delays the next tick; ticks are never queued.
func Every(ctx context.Context, interval time.Duration, fn func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fn()
		}
	}
}
