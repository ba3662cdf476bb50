package ui

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/tessera/internal/dom"
	"github.com/alexisbeaulieu97/tessera/internal/events"
	"github.com/alexisbeaulieu97/tessera/internal/extension"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// Instance is one materialized occurrence of a resolved definition. It owns
// its element subtree, its composed children and the items of its
// repeatable slots. Once removed, every operation on it is a no-op.
type Instance struct {
	engine *Engine
	def    *Resolved
	params Params
	parent *Instance
	table  *events.Table

	root        *html.Node
	owned       []*html.Node
	elements    map[string]*html.Node
	children    map[string]*Instance
	collections map[string]*Collection
	// order lists logical keys in document order.
	order []string

	collection *Collection
	mounted    []*Instance
	spinner    *Spinner
	removed    bool
}

func newInstance(e *Engine, def *Resolved, params Params, parent *Instance) *Instance {
	return &Instance{
		engine:      e,
		def:         def,
		params:      params,
		parent:      parent,
		table:       events.NewTable(),
		elements:    make(map[string]*html.Node),
		children:    make(map[string]*Instance),
		collections: make(map[string]*Collection),
	}
}

// Name returns the definition name.
func (i *Instance) Name() string { return i.def.Name }

// Kind returns the widget kind.
func (i *Instance) Kind() Kind { return i.def.Kind }

// Definition returns the resolved definition the instance was built from.
func (i *Instance) Definition() *Resolved { return i.def }

// Params returns a copy of the instance's parameters.
func (i *Instance) Params() Params { return i.params.Clone() }

// Param returns one parameter.
func (i *Instance) Param(name string) (any, bool) {
	v, ok := i.params[name]
	return v, ok
}

// Root returns the root element, or nil once removed.
func (i *Instance) Root() *html.Node {
	if i.removed {
		return nil
	}
	return i.root
}

// Element returns the element of a logical key. The empty key is the root.
func (i *Instance) Element(key string) *html.Node {
	if i.removed {
		return nil
	}
	if key == "" {
		return i.root
	}
	return i.elements[key]
}

// Keys lists the logical keys of the instance in document order.
func (i *Instance) Keys() []string {
	return append([]string(nil), i.order...)
}

// Child returns the composed instance at key.
func (i *Instance) Child(key string) *Instance {
	if i.removed {
		return nil
	}
	return i.children[key]
}

// Collection returns the repeatable slot at key.
func (i *Instance) Collection(key string) *Collection {
	if i.removed {
		return nil
	}
	return i.collections[key]
}

// ParentInstance returns the instance that composed, collected or mounted
// this one, or nil for a top-level instance.
func (i *Instance) ParentInstance() *Instance { return i.parent }

// Implements reports whether the definition declares iface.
func (i *Instance) Implements(iface string) bool { return i.def.Implements(iface) }

// Removed reports whether Remove ran.
func (i *Instance) Removed() bool { return i.removed }

// HTML renders the instance subtree.
func (i *Instance) HTML() (string, error) {
	if i.removed {
		return "", nil
	}
	return dom.Render(i.root)
}

// AppendTo moves the root element under parent.
func (i *Instance) AppendTo(parent *html.Node) error {
	if i.removed {
		return nil
	}
	if parent == nil {
		return fmt.Errorf("append %s: nil parent element", i.def.Name)
	}
	dom.Detach(i.root)
	parent.AppendChild(i.root)
	return nil
}

// On registers a listener on the instance's own event table.
func (i *Instance) On(event string, cb Callback) events.ID {
	if i.removed || cb == nil {
		return 0
	}
	return i.table.On(event, func(evt *events.Event) error { return cb(i, evt) })
}

// Off removes listeners; see events.Table.Off.
func (i *Instance) Off(event string, ids ...events.ID) {
	i.table.Off(event, ids...)
}

// Trigger runs the listeners of event in registration order.
func (i *Instance) Trigger(event string, detail any) (*events.Event, error) {
	evt := events.New(event, i, detail)
	if i.removed {
		return evt, nil
	}
	return evt, i.table.Trigger(evt)
}

// ApplyExtension applies a registered extension to the instance (empty key) or
// to the element of a logical key.
func (i *Instance) ApplyExtension(key, name string, params extension.Params) (*extension.Applied, error) {
	if i.removed {
		return nil, nil
	}
	target, err := i.extensionTarget(key)
	if err != nil {
		return nil, err
	}
	return i.engine.extensions.ApplyTo(target, name, params)
}

// RemoveExtension releases an extension from the instance or a keyed element.
func (i *Instance) RemoveExtension(key, name string) error {
	if i.removed {
		return nil
	}
	target, err := i.extensionTarget(key)
	if err != nil {
		return err
	}
	return i.engine.extensions.Remove(target, name)
}

func (i *Instance) extensionTarget(key string) (any, error) {
	if key == "" {
		return i, nil
	}
	el, ok := i.elements[key]
	if !ok {
		return nil, &tesseraerrors.MissingReferenceError{From: i.def.Name, Name: key, Role: "element key"}
	}
	return el, nil
}

// Remove detaches the instance, fires remove hooks children-first and
// releases every extension held by the subtree. Calling it again does nothing.
func (i *Instance) Remove() error {
	if i == nil || i.removed {
		return nil
	}
	dom.Detach(i.root)
	err := i.teardown()
	if i.collection != nil {
		i.collection.forget(i)
	}
	if i.parent != nil {
		i.parent.forgetChild(i)
	}
	i.engine.logger.Definition(i.def.Name).Debug("instance removed")
	return err
}

// teardown releases the subtree without touching the DOM above it.
func (i *Instance) teardown() error {
	i.removed = true
	var errs []error

	for _, child := range i.mounted {
		errs = append(errs, child.teardown())
	}
	for _, key := range i.order {
		if coll, ok := i.collections[key]; ok {
			for _, item := range coll.items {
				errs = append(errs, item.teardown())
			}
			coll.items = nil
		}
		if child, ok := i.children[key]; ok {
			errs = append(errs, child.teardown())
		}
	}

	if err := i.table.Trigger(events.New(EventRemove, i, nil)); err != nil {
		errs = append(errs, err)
	}
	i.release(&errs)
	return errors.Join(errs...)
}

// discard releases a partially built instance without firing hooks.
func (i *Instance) discard() {
	i.removed = true
	for _, child := range i.children {
		child.discard()
	}
	var errs []error
	i.release(&errs)
	for _, err := range errs {
		i.engine.logger.Definition(i.def.Name).Error(err, "releasing a partially built instance")
	}
}

func (i *Instance) release(errs *[]error) {
	ext := i.engine.extensions
	if err := ext.RemoveAll(i); err != nil {
		*errs = append(*errs, err)
	}
	for _, el := range i.owned {
		if err := ext.RemoveAll(el); err != nil {
			*errs = append(*errs, err)
		}
		i.engine.document.ForgetNode(el)
		i.engine.unbind(el)
	}
	i.table.Clear()
	i.owned = nil
	i.mounted = nil
	i.elements = make(map[string]*html.Node)
	i.children = make(map[string]*Instance)
	i.collections = make(map[string]*Collection)
}

// forgetChild drops a composed or mounted child that was removed on its own.
func (i *Instance) forgetChild(child *Instance) {
	for idx, candidate := range i.mounted {
		if candidate == child {
			i.mounted = append(i.mounted[:idx], i.mounted[idx+1:]...)
			return
		}
	}
	for key, candidate := range i.children {
		if candidate == child {
			delete(i.children, key)
			delete(i.elements, key)
			return
		}
	}
}
