// Package anim tweens numeric inline style properties on a loop clock.
package anim

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/tessera/internal/dom"
	"github.com/alexisbeaulieu97/tessera/internal/loop"
)

// DefaultFrame is the tick interval used when none is configured.
const DefaultFrame = 16 * time.Millisecond

// Tween interpolates between Begin and End.
type Tween[T any] struct {
	Begin T
	End   T
	Lerp  func(a, b T, t float64) T
}

// Evaluate returns the value at t, clamped to [0, 1].
func (tw Tween[T]) Evaluate(t float64) T {
	if tw.Lerp == nil || t >= 1 {
		return tw.End
	}
	if t <= 0 {
		return tw.Begin
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// Animator runs one animation per element. Starting a new animation on an
// element finishes the running one first: its end values are applied and its
// done callback runs.
type Animator struct {
	scheduler loop.Scheduler
	frame     time.Duration

	mu      sync.Mutex
	running map[*html.Node]*run
}

type run struct {
	el      *html.Node
	start   time.Time
	d       time.Duration
	tweens  map[string]Tween[float64]
	done    func()
	timer   loop.Timer
	settled bool
}

// New creates an animator ticking every frame on scheduler.
func New(scheduler loop.Scheduler, frame time.Duration) *Animator {
	if frame <= 0 {
		frame = DefaultFrame
	}
	return &Animator{scheduler: scheduler, frame: frame, running: make(map[*html.Node]*run)}
}

// Animate moves every property in to from its current inline value to the
// target over d. Missing or non-numeric current values start at 0, except
// opacity which starts at 1.
func (a *Animator) Animate(el *html.Node, to map[string]float64, d time.Duration, done func()) {
	a.mu.Lock()
	previous := a.running[el]
	a.mu.Unlock()
	if previous != nil {
		a.finish(previous)
	}

	r := &run{
		el:     el,
		start:  a.scheduler.Now(),
		d:      d,
		tweens: make(map[string]Tween[float64], len(to)),
		done:   done,
	}
	for prop, target := range to {
		r.tweens[prop] = Tween[float64]{Begin: current(el, prop), End: target, Lerp: LerpFloat64}
	}
	if d <= 0 {
		a.finish(r)
		return
	}

	a.mu.Lock()
	a.running[el] = r
	a.mu.Unlock()
	a.schedule(r)
}

// Running reports whether el has an animation in flight.
func (a *Animator) Running(el *html.Node) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.running[el]
	return ok
}

func (a *Animator) schedule(r *run) {
	r.timer = a.scheduler.AfterFunc(a.frame, func() { a.tick(r) })
}

func (a *Animator) tick(r *run) {
	if r.settled {
		return
	}
	elapsed := a.scheduler.Now().Sub(r.start)
	if elapsed >= r.d {
		a.finish(r)
		return
	}
	progress := float64(elapsed) / float64(r.d)
	for prop, tw := range r.tweens {
		write(r.el, prop, tw.Evaluate(progress))
	}
	a.schedule(r)
}

func (a *Animator) finish(r *run) {
	if r.settled {
		return
	}
	r.settled = true
	if r.timer != nil {
		r.timer.Stop()
	}
	a.mu.Lock()
	if a.running[r.el] == r {
		delete(a.running, r.el)
	}
	a.mu.Unlock()
	for prop, tw := range r.tweens {
		write(r.el, prop, tw.End)
	}
	if r.done != nil {
		r.done()
	}
}

func current(el *html.Node, prop string) float64 {
	raw, ok := dom.StyleProperty(el, prop)
	if ok {
		trimmed := strings.TrimSuffix(strings.TrimSpace(raw), "px")
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return v
		}
	}
	if prop == "opacity" {
		return 1
	}
	return 0
}

func write(el *html.Node, prop string, v float64) {
	text := strconv.FormatFloat(v, 'f', -1, 64)
	if prop != "opacity" && prop != "z-index" {
		text += "px"
	}
	dom.SetStyleProperty(el, prop, text)
}
