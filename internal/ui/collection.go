package ui

import (
	"context"
	"errors"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/tessera/internal/dom"
	"github.com/alexisbeaulieu97/tessera/internal/provider"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// Collection is the live, ordered content of a repeatable slot.
type Collection struct {
	key        string
	definition string
	owner      *Instance
	container  *html.Node
	items      []*Instance
}

// Key returns the logical key of the slot.
func (c *Collection) Key() string { return c.key }

// Definition returns the name of the item definition.
func (c *Collection) Definition() string { return c.definition }

// Element returns the container element items are appended to.
func (c *Collection) Element() *html.Node { return c.container }

// Len returns the number of live items.
func (c *Collection) Len() int { return len(c.items) }

// Items returns the live items in order.
func (c *Collection) Items() []*Instance {
	return append([]*Instance(nil), c.items...)
}

// At returns the item at index, or nil when out of range.
func (c *Collection) At(index int) *Instance {
	if index < 0 || index >= len(c.items) {
		return nil
	}
	return c.items[index]
}

// AddOne renders a new item at the end of the collection and, when data is
// given, loads it. A load error is returned together with the item, which
// stays in the collection.
func (c *Collection) AddOne(data map[string]any) (*Instance, error) {
	if c.owner.removed {
		return nil, nil
	}
	e := c.owner.engine
	if !e.registry.Has(c.definition) {
		return nil, &tesseraerrors.MissingReferenceError{From: c.owner.def.Name, Name: c.definition, Role: "repeatable definition"}
	}
	item, err := e.instantiate(c.definition, nil, c.owner, nil)
	if item == nil {
		return nil, err
	}
	item.collection = c
	c.container.AppendChild(item.root)
	c.items = append(c.items, item)
	if err != nil {
		return item, err
	}
	if data != nil {
		if err := item.Load(data); err != nil {
			return item, err
		}
	}
	return item, nil
}

// AddMany adds one item per record, stopping at the first error.
func (c *Collection) AddMany(records []map[string]any) ([]*Instance, error) {
	added := make([]*Instance, 0, len(records))
	for _, rec := range records {
		item, err := c.AddOne(rec)
		if item != nil {
			added = append(added, item)
		}
		if err != nil {
			return added, err
		}
	}
	return added, nil
}

// AddFrom fetches records from p and adds them on the engine's scheduler.
// done, when set, runs on the scheduler after the items were added.
func (c *Collection) AddFrom(ctx context.Context, p provider.Provider, done func([]*Instance, error)) {
	sched := c.owner.engine.scheduler
	p.Fetch(ctx, func(records []map[string]any, err error) {
		sched.Post(func() {
			if err != nil {
				if done != nil {
					done(nil, err)
				}
				return
			}
			added, addErr := c.AddMany(records)
			if done != nil {
				done(added, addErr)
			}
		})
	})
}

// Remove removes one item.
func (c *Collection) Remove(item *Instance) error {
	if item == nil || item.collection != c {
		return nil
	}
	return item.Remove()
}

// RemoveAll removes every item, firing their remove hooks in order.
func (c *Collection) RemoveAll() error {
	items := c.Items()
	var errs []error
	for _, item := range items {
		errs = append(errs, item.Remove())
	}
	return errors.Join(errs...)
}

func (c *Collection) forget(item *Instance) {
	for idx, candidate := range c.items {
		if candidate == item {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			break
		}
	}
	dom.Detach(item.root)
}
