package exporter

import (
	"context"
	"time"
)

// Backoff computes the delay before retrying after failed attempt n (1-indexed).
type Backoff interface {
	Delay(attempt int) time.Duration
}

// Linear waits Step * attempt: 2s, 4s, 6s... for a 2s step.
type Linear struct {
	Step time.Duration
}

func (l Linear) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return l.Step * time.Duration(attempt)
}

// DefaultBackoff is the 2s linear schedule the video API integration has always used.
func DefaultBackoff() Backoff {
	return Linear{Step: 2 * time.Second}
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
