package ui

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/tessera/internal/dom"
	"github.com/alexisbeaulieu97/tessera/internal/ordered"
	"github.com/alexisbeaulieu97/tessera/internal/provider"
)

// GatherField is the Detail of a gather event. Listeners that call
// PreventDefault supply the value themselves; the last one to set Value wins.
type GatherField struct {
	Key     string
	Element *html.Node
	Value   any
}

// Load runs the load pipeline: load listeners first, then, unless one of them
// prevented it, field-by-field assignment of data into the subtree.
func (i *Instance) Load(data map[string]any) error {
	if i.removed {
		return nil
	}
	evt, err := i.Trigger(EventLoad, data)
	if err != nil {
		return err
	}
	if evt.DefaultPrevented() {
		return nil
	}
	return i.assign(data)
}

// LoadFrom fetches one record from p and loads it on the engine's scheduler.
func (i *Instance) LoadFrom(ctx context.Context, p provider.Provider, done func(error)) {
	sched := i.engine.scheduler
	p.Fetch(ctx, func(records []map[string]any, err error) {
		sched.Post(func() {
			if err == nil && len(records) > 0 {
				err = i.Load(records[0])
			}
			if done != nil {
				done(err)
			}
		})
	})
}

// assign writes data into elements: input-capable elements get values, other
// elements get text, composed children receive nested maps and repeatable
// slots get one item per entry. Unknown keys are ignored.
func (i *Instance) assign(data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := data[key]
		if coll, ok := i.collections[key]; ok {
			records, err := toRecords(value)
			if err != nil {
				return fmt.Errorf("load %s.%s: %w", i.def.Name, key, err)
			}
			if _, err := coll.AddMany(records); err != nil {
				return err
			}
			continue
		}
		if child, ok := i.children[key]; ok {
			nested, ok := toMap(value)
			if !ok {
				return fmt.Errorf("load %s.%s: composed slot needs a mapping, got %T", i.def.Name, key, value)
			}
			if err := child.Load(nested); err != nil {
				return err
			}
			continue
		}
		el, ok := i.elements[key]
		if !ok {
			continue
		}
		if dom.InputCapable(el) {
			dom.SetValue(el, value)
		} else {
			dom.SetText(el, stringify(value))
		}
	}
	return nil
}

// GatherData collects the value of every named input-capable element exactly
// once. Composed children contribute nested maps and repeatable slots a list
// of maps, each only when they hold inputs.
func (i *Instance) GatherData() (map[string]any, error) {
	out := make(map[string]any)
	if i.removed {
		return out, nil
	}
	for _, key := range i.order {
		if coll, ok := i.collections[key]; ok {
			var list []any
			for _, item := range coll.items {
				m, err := item.GatherData()
				if err != nil {
					return nil, err
				}
				if len(m) > 0 {
					list = append(list, m)
				}
			}
			if len(list) > 0 {
				out[key] = list
			}
			continue
		}
		if child, ok := i.children[key]; ok {
			m, err := child.GatherData()
			if err != nil {
				return nil, err
			}
			if len(m) > 0 {
				out[key] = m
			}
			continue
		}
		el := i.elements[key]
		if !dom.InputCapable(el) {
			continue
		}
		field := &GatherField{Key: key, Element: el}
		evt, err := i.Trigger(EventGather, field)
		if err != nil {
			return nil, err
		}
		if evt.DefaultPrevented() {
			out[key] = field.Value
			continue
		}
		out[key] = dom.Value(el)
	}
	return out, nil
}

func toMap(v any) (map[string]any, bool) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, true
	case Params:
		return map[string]any(typed), true
	case ordered.Map:
		return typed.ToMap(), true
	}
	return nil, false
}

func toRecords(v any) ([]map[string]any, error) {
	switch typed := v.(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		return typed, nil
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for idx, item := range typed {
			m, ok := toMap(item)
			if !ok {
				return nil, fmt.Errorf("entry %d is %T, want a mapping", idx, item)
			}
			out = append(out, m)
		}
		return out, nil
	}
	return nil, fmt.Errorf("repeatable slot needs a list, got %T", v)
}
