package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alexisbeaulieu97/tessera/internal/logger"
	"github.com/alexisbeaulieu97/tessera/internal/ordered"
	"github.com/alexisbeaulieu97/tessera/internal/scheme"
	"github.com/alexisbeaulieu97/tessera/internal/style"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// Registry stores definitions and memoizes their resolved form. Each resolved
// definition's CSS lands in the registry's style sheet.
type Registry struct {
	mu       sync.RWMutex
	defs     map[string]*Definition
	order    []string
	resolved map[string]*Resolved
	compiler *style.Compiler
	sheet    *style.Sheet
	logger   *logger.Logger
}

// NewRegistry creates an empty registry. A nil theme compiles without theme
// values; a nil logger discards output.
func NewRegistry(theme style.Theme, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		defs:     make(map[string]*Definition),
		resolved: make(map[string]*Resolved),
		compiler: style.NewCompiler(theme),
		sheet:    style.NewSheet(),
		logger:   log.With("component", "registry"),
	}
}

// Register validates and stores def. Only syntax and shape are checked here;
// parents and referenced definitions may be registered later.
func (r *Registry) Register(def Definition) (*Definition, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, tesseraerrors.NewInvalidDefinitionError("", "name", "name is required", nil)
	}
	if def.Scheme == nil && def.Extends == "" {
		return nil, tesseraerrors.NewInvalidDefinitionError(def.Name, "scheme", "scheme is required", nil)
	}
	if !def.Kind.Valid() {
		return nil, tesseraerrors.NewInvalidDefinitionError(def.Name, "kind", fmt.Sprintf("unknown kind %q", def.Kind), nil)
	}
	if def.Extends == def.Name {
		cycle := &tesseraerrors.CyclicInheritanceError{Cycle: []string{def.Name, def.Name}}
		return nil, tesseraerrors.NewInvalidDefinitionError(def.Name, "extends", "a definition cannot extend itself", cycle)
	}
	for event, hook := range def.Hooks {
		if hook.Run == nil {
			return nil, tesseraerrors.NewInvalidDefinitionError(def.Name, "hooks."+event, "hook has no callback", nil)
		}
	}
	for i, use := range def.Extensions {
		if use.Name == "" {
			return nil, tesseraerrors.NewInvalidDefinitionError(def.Name, fmt.Sprintf("extensions[%d]", i), "extension name is required", nil)
		}
	}

	root, err := scheme.Parse(def.Scheme)
	if err != nil {
		return nil, tesseraerrors.NewInvalidDefinitionError(def.Name, "scheme", "scheme does not parse", err)
	}
	if root.IsReference() || root.IsRepeatable() {
		return nil, tesseraerrors.NewInvalidDefinitionError(def.Name, "scheme", "the root slot cannot be a reference or a repeatable slot", nil)
	}
	def.root = root
	stored := def.clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return nil, &tesseraerrors.DuplicateDefinitionError{Name: def.Name}
	}
	r.defs[def.Name] = stored
	r.order = append(r.order, def.Name)
	r.logger.Definition(def.Name).Debug("definition registered")
	return stored, nil
}

// Get returns the definition as registered.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names lists definitions in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Unregister drops a definition and every memoized resolution that depended
// on it.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[name]; !ok {
		return false
	}
	delete(r.defs, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	for resolvedName, res := range r.resolved {
		for _, ancestor := range res.Chain {
			if ancestor == name {
				delete(r.resolved, resolvedName)
				r.sheet.Delete(resolvedName)
				break
			}
		}
	}
	return true
}

// SetTheme swaps the theme and drops memoized resolutions so styles recompile.
func (r *Registry) SetTheme(theme style.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compiler = style.NewCompiler(theme)
	r.resolved = make(map[string]*Resolved)
	r.sheet.Reset()
}

// SetGlobalStyles compiles unscoped base styles into the sheet's base block.
func (r *Registry) SetGlobalStyles(tree ordered.Map) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, err := r.compiler.CompileGlobal(tree)
	if err != nil {
		return err
	}
	r.logger.Warnings(res.Warnings, "global style warnings")
	r.sheet.SetBase(res.CSS)
	return nil
}

// Sheet returns the registry's style sheet.
func (r *Registry) Sheet() *style.Sheet {
	return r.sheet
}

// Resolve returns the flattened definition, resolving and compiling it on
// first use.
func (r *Registry) Resolve(name string) (*Resolved, error) {
	r.mu.RLock()
	res, ok := r.resolved[name]
	r.mu.RUnlock()
	if ok {
		return res, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(name, nil)
}

func (r *Registry) resolveLocked(name string, stack []string) (*Resolved, error) {
	if res, ok := r.resolved[name]; ok {
		return res, nil
	}
	for i, pending := range stack {
		if pending == name {
			cycle := append(append([]string{}, stack[i:]...), name)
			return nil, &tesseraerrors.CyclicInheritanceError{Cycle: cycle}
		}
	}
	def, ok := r.defs[name]
	if !ok {
		missing := &tesseraerrors.MissingReferenceError{Name: name}
		if len(stack) > 0 {
			missing.From = stack[len(stack)-1]
			missing.Role = "parent"
		}
		return nil, missing
	}

	var res *Resolved
	if def.Extends == "" {
		res = ownResolution(def)
	} else {
		parent, err := r.resolveLocked(def.Extends, append(stack, name))
		if err != nil {
			return nil, err
		}
		res, err = mergeOver(parent, def)
		if err != nil {
			return nil, err
		}
	}

	compiled, err := r.compiler.Compile(name, res.Styles, res.Scheme, res.Rules)
	if err != nil {
		return nil, err
	}
	res.CSS = compiled.CSS
	res.Warnings = compiled.Warnings
	r.logger.Definition(name).Warnings(compiled.Warnings, "style warnings")

	r.resolved[name] = res
	r.sheet.Set(name, res.CSS)
	r.logger.Definition(name, res.Chain...).Debug("definition resolved")
	return res, nil
}

// Graph builds the dependency graph of every registered definition from its
// hard dependencies: parents and composed references. Repeatable slots are
// resolved per item and may legitimately recurse, so they are left out.
func (r *Registry) Graph() *Graph {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g := NewGraph()
	for _, name := range r.order {
		def := r.defs[name]
		g.AddNode(name)
		if def.Extends != "" {
			g.AddEdge(name, def.Extends)
		}
		def.root.Walk(func(n *scheme.Node, _ int) bool {
			if n.IsReference() {
				g.AddEdge(name, n.Ref.Definition)
			}
			return true
		})
	}
	return g
}

// Missing lists references to definitions that are not registered, as
// MissingReferenceErrors in registration order.
func (r *Registry) Missing() []error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []error
	for _, name := range r.order {
		def := r.defs[name]
		if def.Extends != "" {
			if _, ok := r.defs[def.Extends]; !ok {
				out = append(out, &tesseraerrors.MissingReferenceError{From: name, Name: def.Extends, Role: "parent"})
			}
		}
		def.root.Walk(func(n *scheme.Node, _ int) bool {
			target, role := "", ""
			switch {
			case n.IsReference():
				target, role = n.Ref.Definition, "composed definition"
			case n.IsRepeatable():
				target, role = n.Repeat, "repeatable definition"
			default:
				return true
			}
			if _, ok := r.defs[target]; !ok {
				out = append(out, &tesseraerrors.MissingReferenceError{From: name, Name: target, Role: role})
			}
			return true
		})
	}
	return out
}
