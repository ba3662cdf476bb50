// Package events provides ordered listener tables and the event value passed
// to listeners.
package events

import "sync"

// Event is dispatched to listeners. Target is the element or instance the
// event was fired on; CurrentTarget changes while a DOM event bubbles.
type Event struct {
	Type          string
	Target        any
	CurrentTarget any
	Detail        any

	defaultPrevented bool
	stopped          bool
}

// New creates an event of the given type.
func New(typ string, target any, detail any) *Event {
	return &Event{Type: typ, Target: target, CurrentTarget: target, Detail: detail}
}

// PreventDefault asks the dispatcher to skip its default action.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops a DOM event from bubbling past the current element.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether a listener called StopPropagation.
func (e *Event) Stopped() bool { return e.stopped }

// Listener handles an event. A non-nil error stops dispatch.
type Listener func(*Event) error

// ID identifies a registered listener.
type ID int

// Table holds listeners per event type in registration order.
type Table struct {
	mu     sync.RWMutex
	subs   map[string][]entry
	nextID ID
}

type entry struct {
	id       ID
	listener Listener
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{subs: make(map[string][]entry)}
}

// On appends a listener for typ.
func (t *Table) On(typ string, listener Listener) ID {
	if t == nil || listener == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.subs == nil {
		t.subs = make(map[string][]entry)
	}
	t.nextID++
	t.subs[typ] = append(t.subs[typ], entry{id: t.nextID, listener: listener})
	return t.nextID
}

// Off removes the listeners with the given ids, or every listener of typ when
// no id is given.
func (t *Table) Off(typ string, ids ...ID) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(ids) == 0 {
		delete(t.subs, typ)
		return
	}
	kept := t.subs[typ][:0:0]
	for _, e := range t.subs[typ] {
		if !containsID(ids, e.id) {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(t.subs, typ)
		return
	}
	t.subs[typ] = kept
}

// Trigger calls the listeners of evt.Type in order. Listeners added or removed
// during dispatch take effect on the next trigger.
func (t *Table) Trigger(evt *Event) error {
	if t == nil || evt == nil {
		return nil
	}
	t.mu.RLock()
	handlers := append([]entry(nil), t.subs[evt.Type]...)
	t.mu.RUnlock()

	for _, e := range handlers {
		if err := e.listener(evt); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of listeners registered for typ.
func (t *Table) Len(typ string) int {
	if t == nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs[typ])
}

// Clear drops every listener.
func (t *Table) Clear() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs = make(map[string][]entry)
}

func containsID(ids []ID, id ID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
