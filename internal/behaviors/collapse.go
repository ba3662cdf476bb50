package behaviors

import (
	"fmt"
	"time"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/tessera/internal/dom"
	"github.com/alexisbeaulieu97/tessera/internal/events"
	"github.com/alexisbeaulieu97/tessera/internal/extension"
	"github.com/alexisbeaulieu97/tessera/internal/loop"
)

type collapseState struct {
	element        *html.Node
	listener       events.ID
	expanded       bool
	collapsedClass string
	busyClass      string
	duration       time.Duration
	pending        loop.Timer
}

// collapseSpec toggles the target on click and collapses every expanded target
// when a click lands outside of it. One document listener serves all targets.
func collapseSpec(env Env) extension.Spec {
	return extension.Spec{
		Name: CollapseOnOutsideClick,
		Defaults: extension.Params{
			"collapsedClass":  "collapsed",
			"transitionClass": "collapsing",
			"duration":        200,
			"expanded":        false,
		},
		Install: func(m *extension.Manager) error {
			env.Document.Listen(env.Document.Node(), "click", func(evt *events.Event) error {
				clicked, _ := evt.Target.(*html.Node)
				for _, target := range m.Targets(CollapseOnOutsideClick) {
					applied, ok := m.Applied(target, CollapseOnOutsideClick)
					if !ok {
						continue
					}
					state := applied.State.(*collapseState)
					if state.expanded && !dom.Contains(state.element, clicked) {
						state.set(env, false)
					}
				}
				return nil
			})
			return nil
		},
		OnApply: func(a *extension.Applied) error {
			el, err := Element(a.Target)
			if err != nil {
				return err
			}
			duration, err := durationParam(a.Params, "duration")
			if err != nil {
				return fmt.Errorf("%s: %w", CollapseOnOutsideClick, err)
			}
			state := &collapseState{
				element:        el,
				collapsedClass: stringParam(a.Params, "collapsedClass"),
				busyClass:      stringParam(a.Params, "transitionClass"),
				duration:       duration,
			}
			expanded, _ := a.Params["expanded"].(bool)
			state.apply(expanded)
			state.listener = env.Document.Listen(el, "click", func(*events.Event) error {
				state.set(env, !state.expanded)
				return nil
			})
			a.State = state
			return nil
		},
		OnRemove: func(a *extension.Applied) error {
			state := a.State.(*collapseState)
			if state.pending != nil {
				state.pending.Stop()
				state.pending = nil
			}
			if state.busyClass != "" {
				dom.RemoveClass(state.element, state.busyClass)
			}
			env.Document.Unlisten(state.element, "click", state.listener)
			return nil
		},
	}
}

// set changes state, clearing any transition still in flight.
func (s *collapseState) set(env Env, expanded bool) {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.apply(expanded)
	if s.busyClass == "" || s.duration <= 0 {
		return
	}
	dom.AddClass(s.element, s.busyClass)
	s.pending = env.Scheduler.AfterFunc(s.duration, func() {
		s.pending = nil
		dom.RemoveClass(s.element, s.busyClass)
	})
}

func (s *collapseState) apply(expanded bool) {
	s.expanded = expanded
	if s.collapsedClass == "" {
		return
	}
	if expanded {
		dom.RemoveClass(s.element, s.collapsedClass)
	} else {
		dom.AddClass(s.element, s.collapsedClass)
	}
}

// Expanded reports whether a target carrying the collapse behavior is open.
func Expanded(m *extension.Manager, target any) bool {
	applied, ok := m.Applied(target, CollapseOnOutsideClick)
	if !ok {
		return false
	}
	return applied.State.(*collapseState).expanded
}
