// Package ui registers UI definitions, resolves their inheritance chains and
// materializes them into DOM-backed instances.
package ui

import (
	"fmt"
	"sort"

	"github.com/alexisbeaulieu97/tessera/internal/events"
	"github.com/alexisbeaulieu97/tessera/internal/extension"
	"github.com/alexisbeaulieu97/tessera/internal/ordered"
	"github.com/alexisbeaulieu97/tessera/internal/scheme"
)

// Kind is the closed set of widget variants.
type Kind string

const (
	KindStandard Kind = "standard"
	KindSpinner  Kind = "spinner"
	KindLayout   Kind = "layout"
)

// Valid reports whether k is a known kind. The empty kind is valid and means
// "inherit from the parent, or standard".
func (k Kind) Valid() bool {
	switch k {
	case "", KindStandard, KindSpinner, KindLayout:
		return true
	}
	return false
}

// Lifecycle event names.
const (
	EventRender = "render"
	EventLoad   = "load"
	EventGather = "gather"
	EventRemove = "remove"
)

// Params is a parameter set. Values are plain data.
type Params map[string]any

// Clone copies p, descending into nested maps and slices.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case Params:
		return typed.Clone()
	case map[string]any:
		return map[string]any(Params(typed).Clone())
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	case ordered.Map:
		return typed.Clone()
	default:
		return v
	}
}

// mergeParams overlays over onto a copy of base; over wins.
func mergeParams(base, over Params) Params {
	out := base.Clone()
	for k, v := range over {
		out[k] = cloneValue(v)
	}
	return out
}

// Callback is a lifecycle hook. The event carries the hook's payload in Detail:
// merged params for render, the data map for load, a *GatherField for gather.
type Callback func(inst *Instance, evt *events.Event) error

// Hook is a lifecycle callback as declared on a definition. Hooks of the same
// event chain parent-first unless Override is set.
type Hook struct {
	Run      Callback
	Override bool
}

// ExtensionUse applies an extension to every instance at render time. An empty
// Key targets the instance itself.
type ExtensionUse struct {
	Key    string
	Name   string
	Params extension.Params
}

// Definition is a named UI template as registered.
type Definition struct {
	Name       string
	Kind       Kind
	Scheme     any
	Styles     ordered.Map
	Params     Params
	Hooks      map[string]Hook
	Extends    string
	Rules      map[string]string
	Interfaces []string
	Extensions []ExtensionUse

	root *scheme.Node
}

// Root returns a copy of the parsed scheme.
func (d *Definition) Root() *scheme.Node {
	return d.root.Clone()
}

// References lists the definitions this definition names: its parent first,
// then composed and repeatable slots in document order.
func (d *Definition) References() []string {
	var refs []string
	if d.Extends != "" {
		refs = append(refs, d.Extends)
	}
	d.root.Walk(func(n *scheme.Node, _ int) bool {
		switch {
		case n.IsReference():
			refs = append(refs, n.Ref.Definition)
		case n.IsRepeatable():
			refs = append(refs, n.Repeat)
		}
		return true
	})
	return refs
}

// clone copies the mutable parts of d so callers cannot change a registered
// definition after the fact.
func (d *Definition) clone() *Definition {
	out := *d
	out.Styles = d.Styles.Clone()
	out.Params = d.Params.Clone()
	out.Hooks = make(map[string]Hook, len(d.Hooks))
	for k, v := range d.Hooks {
		out.Hooks[k] = v
	}
	out.Rules = make(map[string]string, len(d.Rules))
	for k, v := range d.Rules {
		out.Rules[k] = v
	}
	out.Interfaces = append([]string(nil), d.Interfaces...)
	out.Extensions = append([]ExtensionUse(nil), d.Extensions...)
	out.root = d.root.Clone()
	return &out
}

// Resolved is a definition with its inheritance chain flattened.
type Resolved struct {
	Name       string
	Kind       Kind
	Scheme     *scheme.Node
	Styles     ordered.Map
	Params     Params
	Hooks      map[string][]Callback
	Rules      map[string]string
	Interfaces []string
	Extensions []ExtensionUse
	// Chain lists the ancestry from the furthest parent down to Name.
	Chain    []string
	CSS      string
	Warnings []string
}

// Implements reports whether the definition declares iface.
func (r *Resolved) Implements(iface string) bool {
	for _, name := range r.Interfaces {
		if name == iface {
			return true
		}
	}
	return false
}

// hookEvents returns the hook event names in a stable order.
func (r *Resolved) hookEvents() []string {
	names := make([]string, 0, len(r.Hooks))
	for name := range r.Hooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// refParams turns the inline overrides of a composed reference into Params.
func refParams(ref *scheme.Reference) Params {
	out := make(Params, len(ref.Params))
	for _, attr := range ref.Params {
		out[attr.Name] = attr.Value
	}
	return out
}

func stringify(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(v)
	}
}
