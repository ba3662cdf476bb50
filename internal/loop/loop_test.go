package loop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManualFiresTimersInDueOrder(t *testing.T) {
	t.Parallel()

	m := NewManual()
	start := m.Now()
	var fired []string
	m.AfterFunc(30*time.Millisecond, func() { fired = append(fired, "c") })
	m.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "a") })
	m.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "b") })

	m.Advance(20 * time.Millisecond)
	require.Equal(t, []string{"a", "b"}, fired)
	require.Equal(t, start.Add(20*time.Millisecond), m.Now())

	m.Advance(10 * time.Millisecond)
	require.Equal(t, []string{"a", "b", "c"}, fired)
	require.Zero(t, m.Pending())
}

func TestManualStop(t *testing.T) {
	t.Parallel()

	m := NewManual()
	fired := false
	timer := m.AfterFunc(time.Second, func() { fired = true })
	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	m.Advance(2 * time.Second)
	require.False(t, fired)
}

func TestManualTimerScheduledFromCallback(t *testing.T) {
	t.Parallel()

	m := NewManual()
	var at []time.Duration
	start := m.Now()
	m.AfterFunc(10*time.Millisecond, func() {
		at = append(at, m.Now().Sub(start))
		m.AfterFunc(10*time.Millisecond, func() {
			at = append(at, m.Now().Sub(start))
		})
	})

	m.Advance(25 * time.Millisecond)
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, at)
}

func TestManualPostRunsOnFlush(t *testing.T) {
	t.Parallel()

	m := NewManual()
	ran := 0
	m.Post(func() {
		ran++
		m.Post(func() { ran++ })
	})
	require.Zero(t, ran)
	m.Flush()
	require.Equal(t, 2, ran)
}

func TestLoopRunsPostedCallbacks(t *testing.T) {
	t.Parallel()

	l := New(4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	l.Post(func() { close(done) })

	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("posted callback did not run")
	}
	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)
}

func TestLoopStoppedTimerDoesNotFire(t *testing.T) {
	t.Parallel()

	l := New(4)
	fired := false
	timer := l.AfterFunc(5*time.Millisecond, func() { fired = true })
	require.True(t, timer.Stop())

	time.Sleep(20 * time.Millisecond)
	require.Zero(t, l.Drain())
	require.False(t, fired)
}
