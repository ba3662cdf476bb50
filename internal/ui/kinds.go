package ui

import (
	"strconv"
	"time"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/tessera/internal/dom"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// DefaultFadeDuration is used by spinners without a "fade" param.
const DefaultFadeDuration = 150 * time.Millisecond

// Spinner is the trait of spinner instances: an overlay shown inside other
// elements while work is pending.
type Spinner struct {
	inst    *Instance
	visible bool
}

// Spinner returns the spinner trait, or false for other kinds.
func (i *Instance) Spinner() (*Spinner, bool) {
	if i.removed || i.def.Kind != KindSpinner {
		return nil, false
	}
	if i.spinner == nil {
		i.spinner = &Spinner{inst: i, visible: i.root.Parent != nil}
	}
	return i.spinner, true
}

// Visible reports whether the spinner is shown or fading in.
func (s *Spinner) Visible() bool { return s.visible && !s.inst.removed }

// ShowInside appends the spinner to target and fades it in.
func (s *Spinner) ShowInside(target *html.Node, done func()) {
	if s.inst.removed || target == nil {
		return
	}
	root := s.inst.root
	dom.Detach(root)
	target.AppendChild(root)
	s.visible = true
	s.fade(0, 1, func() {
		if done != nil {
			done()
		}
	})
}

// HideInside fades the spinner out and detaches it.
func (s *Spinner) HideInside(done func()) {
	if !s.Visible() {
		if done != nil {
			done()
		}
		return
	}
	s.visible = false
	s.fade(1, 0, func() {
		if !s.visible {
			dom.Detach(s.inst.root)
		}
		if done != nil {
			done()
		}
	})
}

func (s *Spinner) fade(from, to float64, done func()) {
	root := s.inst.root
	animator := s.inst.engine.animator
	if animator == nil {
		dom.SetStyleProperty(root, "opacity", strconv.FormatFloat(to, 'f', -1, 64))
		done()
		return
	}
	dom.SetStyleProperty(root, "opacity", strconv.FormatFloat(from, 'f', -1, 64))
	animator.Animate(root, map[string]float64{"opacity": to}, s.duration(), done)
}

func (s *Spinner) duration() time.Duration {
	switch v := s.inst.params["fade"].(type) {
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Millisecond
	case float64:
		return time.Duration(v * float64(time.Millisecond))
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if ms, err := strconv.Atoi(v); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return DefaultFadeDuration
}

// Layout is the trait of layout instances: named regions other instances are
// mounted into.
type Layout struct {
	inst *Instance
}

// Layout returns the layout trait, or false for other kinds.
func (i *Instance) Layout() (*Layout, bool) {
	if i.removed || i.def.Kind != KindLayout {
		return nil, false
	}
	return &Layout{inst: i}, true
}

// Mount appends child into the element of region. The layout becomes the
// child's parent: removing the layout removes mounted children first.
func (l *Layout) Mount(region string, child *Instance) error {
	if l.inst.removed || child == nil || child.removed {
		return nil
	}
	el, ok := l.inst.elements[region]
	if !ok {
		return &tesseraerrors.MissingReferenceError{From: l.inst.def.Name, Name: region, Role: "layout region"}
	}
	if err := child.AppendTo(el); err != nil {
		return err
	}
	if child.parent != nil && child.parent != l.inst {
		child.parent.forgetChild(child)
	}
	child.parent = l.inst
	l.inst.forgetChild(child)
	l.inst.mounted = append(l.inst.mounted, child)
	return nil
}

// Unmount detaches child without removing it.
func (l *Layout) Unmount(child *Instance) {
	if child == nil || child.parent != l.inst {
		return
	}
	l.inst.forgetChild(child)
	child.parent = nil
	dom.Detach(child.root)
}

// Mounted returns the mounted children in mount order.
func (l *Layout) Mounted() []*Instance {
	return append([]*Instance(nil), l.inst.mounted...)
}
