package sequencer

import (
	"context"
	"time"
)

// Clock is the only suspension point of playback.
type Clock interface {
	// Sleep blocks for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

// timerClock sleeps on a real timer.
type timerClock struct{}

// Sleep waits for d, returning ctx.Err() if ctx is canceled first.
func (timerClock) Sleep(ctx context.Context, d time.Duration) error {
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
