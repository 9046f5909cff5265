package anim

import (
	"context"
	"time"
)

// TickerScheduler is a fixed-rate stand-in for a display-refresh source, used
// when there is no window (headless runs, tests).
//
// Frame callbacks run on the goroutine that calls Run, so frame processing
// stays single-threaded. Deltas are quantised to the tick interval; when a
// frame overruns, time.Ticker drops ticks and the next delta covers the gap.
type TickerScheduler struct {
	Interval time.Duration

	start   time.Time
	pending func(float64)
}

// NewTickerScheduler returns a scheduler ticking every interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerScheduler{Interval: interval, start: time.Now()}
}

// Now returns milliseconds since the scheduler was created.
func (t *TickerScheduler) Now() float64 {
	return float64(time.Since(t.start)) / float64(time.Millisecond)
}

// RequestFrame arms fn for the next tick, replacing any pending request.
func (t *TickerScheduler) RequestFrame(fn func(timestampMillis float64)) {
	t.pending = fn
}

// Run delivers armed frames on every tick until ctx is done.
func (t *TickerScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fn := t.pending
			if fn == nil {
				continue
			}
			t.pending = nil
			fn(t.Now())
		}
	}
}
