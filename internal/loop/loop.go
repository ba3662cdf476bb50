// Package loop runs callbacks on a single logical thread, the way a browser
// event loop does. Timers and asynchronous providers re-enter through it.
package loop

import (
	"context"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports false when the callback already
	// ran or was stopped.
	Stop() bool
}

// Scheduler is what components need from an event loop.
type Scheduler interface {
	Now() time.Time
	Post(fn func())
	AfterFunc(d time.Duration, fn func()) Timer
}

// Loop is a Scheduler backed by wall-clock timers. Callbacks only run inside
// Run or Drain.
type Loop struct {
	queue chan func()
}

// New creates a loop with the given queue capacity.
func New(capacity int) *Loop {
	if capacity <= 0 {
		capacity = 64
	}
	return &Loop{queue: make(chan func(), capacity)}
}

// Now returns the wall-clock time.
func (l *Loop) Now() time.Time { return time.Now() }

// Post queues fn. It blocks while the queue is full.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.queue <- fn
}

// AfterFunc queues fn once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &wallTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.fire() {
				fn()
			}
		})
	})
	return t
}

// Run executes queued callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Drain executes whatever is queued right now and returns the count.
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

// wallTimer guards against a callback that was already queued when Stop ran.
type wallTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	fired   bool
}

func (t *wallTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}

func (t *wallTimer) fire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.fired = true
	return true
}
