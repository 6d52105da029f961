package service

import (
	"context"
	"time"
)

// simulateLatency blocks for d, returning early with ctx.Err() if ctx is
// done first. A zero d returns immediately.
func simulateLatency(ctx context.Context, d time.Duration) error {
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
