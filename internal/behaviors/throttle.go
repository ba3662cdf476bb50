package behaviors

import (
	"fmt"
	"time"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/tessera/internal/events"
	"github.com/alexisbeaulieu97/tessera/internal/extension"
	"github.com/alexisbeaulieu97/tessera/internal/loop"
)

type throttleState struct {
	element  *html.Node
	event    string
	listener events.ID
	delay    time.Duration
	handler  events.Listener
	pending  loop.Timer
}

// throttleSpec runs the handler once the event has been quiet for delay; the
// last call wins.
func throttleSpec(env Env) extension.Spec {
	return extension.Spec{
		Name:     ThrottleEvent,
		Defaults: extension.Params{"event": "input", "delay": 150},
		OnApply: func(a *extension.Applied) error {
			el, err := Element(a.Target)
			if err != nil {
				return err
			}
			state := &throttleState{element: el}
			if err := state.configure(a.Params); err != nil {
				return err
			}
			state.listener = env.Document.Listen(el, state.event, func(evt *events.Event) error {
				if state.pending != nil {
					state.pending.Stop()
				}
				state.pending = env.Scheduler.AfterFunc(state.delay, func() {
					state.pending = nil
					if err := state.handler(evt); err != nil {
						env.Logger.Error(err, fmt.Sprintf("throttled %s handler failed", state.event))
					}
				})
				return nil
			})
			a.State = state
			return nil
		},
		OnUpdate: func(a *extension.Applied, params extension.Params) error {
			state := a.State.(*throttleState)
			if event := stringParam(params, "event"); event != state.event {
				return fmt.Errorf("%s: the event cannot change once applied", ThrottleEvent)
			}
			return state.configure(params)
		},
		OnRemove: func(a *extension.Applied) error {
			state := a.State.(*throttleState)
			if state.pending != nil {
				state.pending.Stop()
				state.pending = nil
			}
			env.Document.Unlisten(state.element, state.event, state.listener)
			return nil
		},
	}
}

func (s *throttleState) configure(params extension.Params) error {
	event := stringParam(params, "event")
	if event == "" {
		return fmt.Errorf("%s: param \"event\" is required", ThrottleEvent)
	}
	delay, err := durationParam(params, "delay")
	if err != nil {
		return fmt.Errorf("%s: %w", ThrottleEvent, err)
	}
	handler, err := listenerParam(params, "handler")
	if err != nil {
		return fmt.Errorf("%s: %w", ThrottleEvent, err)
	}
	s.event, s.delay, s.handler = event, delay, handler
	return nil
}
