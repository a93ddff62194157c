package watch

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncer_CoalescesBurstIntoOneEmission(t *testing.T) {
	var emits atomic.Int32
	d := newDebouncer(30*time.Millisecond, func() { emits.Add(1) })
	go d.Run(t.Context())

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return emits.Load() == 1 },
		time.Second, 5*time.Millisecond)

	// Nothing further pending once the quiet window has fired.
	time.Sleep(80 * time.Millisecond)
	require.Equal(t, int32(1), emits.Load())
}

func TestDebouncer_SeparateBurstsEmitSeparately(t *testing.T) {
	var emits atomic.Int32
	d := newDebouncer(20*time.Millisecond, func() { emits.Add(1) })
	go d.Run(t.Context())

	for i := 0; i < 5; i++ {
		d.Trigger()
	}
	require.Eventually(t, func() bool { return emits.Load() == 1 },
		time.Second, 5*time.Millisecond)

	for i := 0; i < 5; i++ {
		d.Trigger()
	}
	require.Eventually(t, func() bool { return emits.Load() == 2 },
		time.Second, 5*time.Millisecond)
}

func TestDebouncer_MaxDelayBoundsEventStream(t *testing.T) {
	var emits atomic.Int32
	// max delay is 10x the quiet window, so 400ms here.
	d := newDebouncer(40*time.Millisecond, func() { emits.Add(1) })
	go d.Run(t.Context())

	done := make(chan struct{})
	go func() {
		defer close(done)
		deadline := time.Now().Add(900 * time.Millisecond)
		for time.Now().Before(deadline) {
			d.Trigger()
			time.Sleep(10 * time.Millisecond)
		}
	}()

	// The stream never goes quiet, yet the max-delay timer forces an
	// emission anyway.
	require.Eventually(t, func() bool { return emits.Load() >= 1 },
		800*time.Millisecond, 10*time.Millisecond)
	<-done
}

func TestDebouncer_DefaultsZeroQuietWindow(t *testing.T) {
	d := newDebouncer(0, func() {})
	require.Equal(t, 500*time.Millisecond, d.quiet)
	require.Equal(t, 5*time.Second, d.max)
}
