// Package extension attaches named, parameterised behaviors to targets
// (instances or elements) and tracks which targets carry which behavior.
package extension

import (
	"fmt"
	"sync"

	"github.com/alexisbeaulieu97/tessera/internal/logger"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// Params are the merged parameters of one application.
type Params map[string]any

// Clone returns a shallow copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns base overlaid with over.
func Merge(base, over Params) Params {
	out := base.Clone()
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Applied is one extension applied to one target. State is owned by the
// extension's handlers.
type Applied struct {
	Target  any
	Name    string
	Params  Params
	State   any
	Manager *Manager
}

// Spec describes an extension.
type Spec struct {
	Name     string
	Defaults Params
	// Install runs once per manager, before the first application.
	Install  func(m *Manager) error
	OnApply  func(a *Applied) error
	OnUpdate func(a *Applied, params Params) error
	OnRemove func(a *Applied) error
}

type key struct {
	target any
	name   string
}

// Manager owns registered extensions and their live applications.
type Manager struct {
	mu        sync.Mutex
	specs     map[string]*Spec
	installed map[string]bool
	applied   map[key]*Applied
	byName    map[string][]*Applied
	byTarget  map[any][]*Applied
	logger    *logger.Logger
}

// NewManager creates an empty manager.
func NewManager(log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		specs:     make(map[string]*Spec),
		installed: make(map[string]bool),
		applied:   make(map[key]*Applied),
		byName:    make(map[string][]*Applied),
		byTarget:  make(map[any][]*Applied),
		logger:    log.With("component", "extensions"),
	}
}

// Register adds an extension.
func (m *Manager) Register(spec Spec) error {
	if spec.Name == "" {
		return tesseraerrors.NewValidationError("name", "extension name is required", nil)
	}
	if spec.OnApply == nil {
		return &tesseraerrors.MissingHandlerError{Name: spec.Name, Handler: "apply"}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.specs[spec.Name]; exists {
		return &tesseraerrors.DuplicateExtensionError{Name: spec.Name}
	}
	if spec.Defaults == nil {
		spec.Defaults = Params{}
	}
	m.specs[spec.Name] = &spec
	return nil
}

// Has reports whether name is registered.
func (m *Manager) Has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.specs[name]
	return ok
}

// ApplyTo applies the extension name to target. Applying an extension that is
// already present calls its update handler, or fails when it has none.
func (m *Manager) ApplyTo(target any, name string, params Params) (*Applied, error) {
	if target == nil {
		return nil, fmt.Errorf("apply extension %q: nil target", name)
	}
	m.mu.Lock()
	spec, ok := m.specs[name]
	if !ok {
		m.mu.Unlock()
		return nil, &tesseraerrors.UnknownExtensionError{Name: name}
	}
	existing := m.applied[key{target, name}]
	needsInstall := !m.installed[name] && spec.Install != nil
	m.installed[name] = true
	m.mu.Unlock()

	if needsInstall {
		if err := spec.Install(m); err != nil {
			m.mu.Lock()
			m.installed[name] = false
			m.mu.Unlock()
			return nil, fmt.Errorf("install extension %q: %w", name, err)
		}
	}

	if existing != nil {
		if spec.OnUpdate == nil {
			return nil, &tesseraerrors.AlreadyAppliedError{Name: name}
		}
		merged := Merge(existing.Params, params)
		if err := spec.OnUpdate(existing, merged); err != nil {
			return nil, err
		}
		existing.Params = merged
		return existing, nil
	}

	applied := &Applied{
		Target:  target,
		Name:    name,
		Params:  Merge(spec.Defaults, params),
		Manager: m,
	}
	if err := spec.OnApply(applied); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.applied[key{target, name}] = applied
	m.byName[name] = append(m.byName[name], applied)
	m.byTarget[target] = append(m.byTarget[target], applied)
	m.mu.Unlock()
	m.logger.Debug(fmt.Sprintf("applied extension %q", name))
	return applied, nil
}

// Applied returns the application of name on target.
func (m *Manager) Applied(target any, name string) (*Applied, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applied[key{target, name}]
	return a, ok
}

// Remove releases the extension name from target. It is a no-op when the
// extension is not applied.
func (m *Manager) Remove(target any, name string) error {
	m.mu.Lock()
	applied, ok := m.applied[key{target, name}]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	m.forgetLocked(applied)
	spec := m.specs[name]
	m.mu.Unlock()

	if spec != nil && spec.OnRemove != nil {
		if err := spec.OnRemove(applied); err != nil {
			return fmt.Errorf("remove extension %q: %w", name, err)
		}
	}
	return nil
}

// RemoveAll releases every extension applied to target, most recent first.
// Every handler runs; the first error is returned.
func (m *Manager) RemoveAll(target any) error {
	m.mu.Lock()
	list := append([]*Applied(nil), m.byTarget[target]...)
	m.mu.Unlock()

	var first error
	for i := len(list) - 1; i >= 0; i-- {
		if err := m.Remove(target, list[i].Name); err != nil {
			m.logger.Error(err, "extension removal failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// Targets lists the targets name is currently applied to, in application order.
func (m *Manager) Targets(name string) []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]any, 0, len(m.byName[name]))
	for _, a := range m.byName[name] {
		out = append(out, a.Target)
	}
	return out
}

// Count returns the number of live applications of name.
func (m *Manager) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byName[name])
}

func (m *Manager) forgetLocked(a *Applied) {
	delete(m.applied, key{a.Target, a.Name})
	m.byName[a.Name] = without(m.byName[a.Name], a)
	if len(m.byName[a.Name]) == 0 {
		delete(m.byName, a.Name)
	}
	m.byTarget[a.Target] = without(m.byTarget[a.Target], a)
	if len(m.byTarget[a.Target]) == 0 {
		delete(m.byTarget, a.Target)
	}
}

func without(list []*Applied, a *Applied) []*Applied {
	for i, candidate := range list {
		if candidate == a {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
