package behaviors

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/tessera/internal/dom"
	"github.com/alexisbeaulieu97/tessera/internal/events"
	"github.com/alexisbeaulieu97/tessera/internal/extension"
)

type toggleState struct {
	element  *html.Node
	event    string
	class    string
	listener events.ID
}

func toggleClassSpec(env Env) extension.Spec {
	return extension.Spec{
		Name:     ToggleClass,
		Defaults: extension.Params{"event": "click", "class": "active"},
		OnApply: func(a *extension.Applied) error {
			el, err := Element(a.Target)
			if err != nil {
				return err
			}
			state := &toggleState{
				element: el,
				event:   stringParam(a.Params, "event"),
				class:   stringParam(a.Params, "class"),
			}
			if state.event == "" || state.class == "" {
				return fmt.Errorf("%s: params \"event\" and \"class\" are required", ToggleClass)
			}
			state.listener = env.Document.Listen(el, state.event, func(*events.Event) error {
				dom.ToggleClass(el, state.class)
				return nil
			})
			a.State = state
			return nil
		},
		OnUpdate: func(a *extension.Applied, params extension.Params) error {
			state := a.State.(*toggleState)
			class := stringParam(params, "class")
			if class == "" {
				return fmt.Errorf("%s: param \"class\" is required", ToggleClass)
			}
			if dom.HasClass(state.element, state.class) && class != state.class {
				dom.RemoveClass(state.element, state.class)
				dom.AddClass(state.element, class)
			}
			state.class = class
			return nil
		},
		OnRemove: func(a *extension.Applied) error {
			state := a.State.(*toggleState)
			env.Document.Unlisten(state.element, state.event, state.listener)
			return nil
		},
	}
}
