// Package behaviors ships the built-in extensions.
package behaviors

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/tessera/internal/dom"
	"github.com/alexisbeaulieu97/tessera/internal/events"
	"github.com/alexisbeaulieu97/tessera/internal/extension"
	"github.com/alexisbeaulieu97/tessera/internal/logger"
	"github.com/alexisbeaulieu97/tessera/internal/loop"
)

// Names of the built-in extensions.
const (
	ThrottleEvent          = "Throttle event"
	CollapseOnOutsideClick = "Collapse on outside click"
	ToggleClass            = "Toggle class"
)

// Env is what the behaviors need from the host engine.
type Env struct {
	Document  *dom.Document
	Scheduler loop.Scheduler
	Logger    *logger.Logger
}

// Rooted is implemented by targets that own an element, such as instances.
type Rooted interface {
	Root() *html.Node
}

// Register adds every built-in behavior to m.
func Register(m *extension.Manager, env Env) error {
	if env.Logger == nil {
		env.Logger = logger.Nop()
	}
	for _, spec := range []extension.Spec{
		throttleSpec(env),
		collapseSpec(env),
		toggleClassSpec(env),
	} {
		if err := m.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// Element resolves an extension target to its element.
func Element(target any) (*html.Node, error) {
	switch t := target.(type) {
	case *html.Node:
		return t, nil
	case Rooted:
		if root := t.Root(); root != nil {
			return root, nil
		}
	}
	return nil, fmt.Errorf("target %T has no element", target)
}

func durationParam(p extension.Params, name string) (time.Duration, error) {
	switch v := p[name].(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return v, nil
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v * float64(time.Millisecond)), nil
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d, nil
		}
		ms, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("param %q: invalid duration %q", name, v)
		}
		return time.Duration(ms) * time.Millisecond, nil
	default:
		return 0, fmt.Errorf("param %q: unsupported duration type %T", name, v)
	}
}

func stringParam(p extension.Params, name string) string {
	s, _ := p[name].(string)
	return s
}

func listenerParam(p extension.Params, name string) (events.Listener, error) {
	switch v := p[name].(type) {
	case events.Listener:
		return v, nil
	case func(*events.Event) error:
		return v, nil
	case func(*events.Event):
		return func(e *events.Event) error { v(e); return nil }, nil
	case nil:
		return nil, fmt.Errorf("param %q is required", name)
	default:
		return nil, fmt.Errorf("param %q: unsupported handler type %T", name, v)
	}
}
