package watch

import (
	"context"
	"time"
)

// debouncer coalesces bursts of filesystem events into single rebuild
// emissions. Every event restarts the quiet window; the max-delay timer
// bounds how long an unbroken stream of events can hold a rebuild off.
type debouncer struct {
	quiet time.Duration
	max   time.Duration
	emit  func()

	events chan struct{}
}

func newDebouncer(quiet time.Duration, emit func()) *debouncer {
	if quiet <= 0 {
		quiet = 500 * time.Millisecond
	}
	return &debouncer{
		quiet:  quiet,
		max:    10 * quiet,
		emit:   emit,
		events: make(chan struct{}, 64),
	}
}

// Trigger notes one filesystem event. Non-blocking: dropping an event
// during a burst is indistinguishable from coalescing it.
func (d *debouncer) Trigger() {
	select {
	case d.events <- struct{}{}:
	default:
	}
}

// Run processes events until ctx is done. All state lives on this
// goroutine, so no locking is needed.
func (d *debouncer) Run(ctx context.Context) {
	quietTimer := time.NewTimer(time.Hour)
	stopTimer(quietTimer)
	maxTimer := time.NewTimer(time.Hour)
	stopTimer(maxTimer)

	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.events:
			if !pending {
				pending = true
				resetTimer(maxTimer, d.max)
			}
			resetTimer(quietTimer, d.quiet)
		case <-quietTimer.C:
			if pending {
				pending = false
				stopTimer(maxTimer)
				d.emit()
			}
		case <-maxTimer.C:
			if pending {
				pending = false
				stopTimer(quietTimer)
				d.emit()
			}
		}
	}
}

// stopTimer halts t and drains a tick that fired but was never read.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	stopTimer(t)
	t.Reset(d)
}
