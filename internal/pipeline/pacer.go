package pipeline

import (
	"context"
	"time"
)

// DefaultInterCallDelay is the pause after each successful summarization.
const DefaultInterCallDelay = 10 * time.Second

// Pacer blocks between summarization calls to stay under the service's rate
// limits. Wait returns early with the context error when ctx is done.
type Pacer interface {
	Wait(ctx context.Context) error
}

// DelayPacer sleeps for a fixed Delay on every Wait. A non-positive Delay
// does not block.
type DelayPacer struct {
	Delay time.Duration
}

// Wait blocks the calling goroutine for p.Delay or until ctx is done.
func (p DelayPacer) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
