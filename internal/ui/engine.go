package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"weak"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/tessera/internal/behaviors"
	"github.com/alexisbeaulieu97/tessera/internal/dom"
	"github.com/alexisbeaulieu97/tessera/internal/events"
	"github.com/alexisbeaulieu97/tessera/internal/extension"
	"github.com/alexisbeaulieu97/tessera/internal/logger"
	"github.com/alexisbeaulieu97/tessera/internal/loop"
	"github.com/alexisbeaulieu97/tessera/internal/scheme"
	"github.com/alexisbeaulieu97/tessera/internal/style"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// TranslationPrefix marks static content that is looked up in the translator.
const TranslationPrefix = "i18n:"

// Animator tweens numeric inline style properties of an element.
type Animator interface {
	Animate(el *html.Node, to map[string]float64, d time.Duration, done func())
}

// Translator looks up localized strings.
type Translator interface {
	Translate(key string) (string, bool)
}

// Options configures an Engine. Zero fields get working defaults.
type Options struct {
	Registry   *Registry
	Document   *dom.Document
	Extensions *extension.Manager
	Scheduler  loop.Scheduler
	Animator   Animator
	Translator Translator
	Logger     *logger.Logger
}

// Engine materializes resolved definitions into instances. It owns the
// element-to-instance side table.
type Engine struct {
	registry   *Registry
	document   *dom.Document
	extensions *extension.Manager
	scheduler  loop.Scheduler
	animator   Animator
	translator Translator
	logger     *logger.Logger

	mu     sync.Mutex
	owners map[*html.Node]weak.Pointer[Instance]
}

// NewEngine wires an engine. When no extension manager is given, a new one is
// created with the built-in behaviors registered.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry(nil, opts.Logger)
	}
	if opts.Document == nil {
		opts.Document = dom.NewDocument()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = loop.New(0)
	}
	if opts.Extensions == nil {
		opts.Extensions = extension.NewManager(opts.Logger)
		err := behaviors.Register(opts.Extensions, behaviors.Env{
			Document:  opts.Document,
			Scheduler: opts.Scheduler,
			Logger:    opts.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("register built-in behaviors: %w", err)
		}
	}
	return &Engine{
		registry:   opts.Registry,
		document:   opts.Document,
		extensions: opts.Extensions,
		scheduler:  opts.Scheduler,
		animator:   opts.Animator,
		translator: opts.Translator,
		logger:     opts.Logger.With("component", "engine"),
		owners:     make(map[*html.Node]weak.Pointer[Instance]),
	}, nil
}

// Registry returns the engine's definition registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Document returns the engine's document.
func (e *Engine) Document() *dom.Document { return e.document }

// Extensions returns the engine's extension manager.
func (e *Engine) Extensions() *extension.Manager { return e.extensions }

// Scheduler returns the engine's scheduler.
func (e *Engine) Scheduler() loop.Scheduler { return e.scheduler }

// Register adds a definition to the registry and returns a handle to it.
func (e *Engine) Register(def Definition) (*Handle, error) {
	stored, err := e.registry.Register(def)
	if err != nil {
		return nil, err
	}
	return &Handle{engine: e, def: stored}, nil
}

// Render materializes name with params laid over the resolved defaults.
func (e *Engine) Render(name string, params Params) (*Instance, error) {
	return e.instantiate(name, params, nil, nil)
}

// RenderWithData renders and then runs the load pipeline with data.
func (e *Engine) RenderWithData(name string, params Params, data map[string]any) (*Instance, error) {
	inst, err := e.Render(name, params)
	if err != nil {
		return nil, err
	}
	if data != nil {
		if err := inst.Load(data); err != nil {
			return inst, err
		}
	}
	return inst, nil
}

// InstanceOf returns the instance owning el or its nearest owned ancestor.
func (e *Engine) InstanceOf(el *html.Node) *Instance {
	e.mu.Lock()
	defer e.mu.Unlock()
	for n := el; n != nil; n = n.Parent {
		if ptr, ok := e.owners[n]; ok {
			if inst := ptr.Value(); inst != nil {
				return inst
			}
		}
	}
	return nil
}

// Attach appends inst to the document body and refreshes the document's
// style element.
func (e *Engine) Attach(inst *Instance) error {
	if err := inst.AppendTo(e.document.Body()); err != nil {
		return err
	}
	e.RefreshStyles()
	return nil
}

// RefreshStyles writes the registry's sheet into the document.
func (e *Engine) RefreshStyles() {
	e.document.SetStyleSheet(e.registry.Sheet().CSS())
}

// Dispatch fires a DOM event at el.
func (e *Engine) Dispatch(el *html.Node, typ string, detail any) (*events.Event, error) {
	return e.document.Dispatch(el, typ, detail)
}

func (e *Engine) bind(el *html.Node, inst *Instance) {
	e.mu.Lock()
	e.owners[el] = weak.Make(inst)
	e.mu.Unlock()
}

func (e *Engine) unbind(el *html.Node) {
	e.mu.Lock()
	delete(e.owners, el)
	e.mu.Unlock()
}

// instantiate builds one instance. composing lists the definitions currently
// being composed above it, to stop composition loops.
func (e *Engine) instantiate(name string, params Params, parent *Instance, composing []string) (*Instance, error) {
	for i, pending := range composing {
		if pending == name {
			cycle := append(append([]string{}, composing[i:]...), name)
			return nil, &tesseraerrors.CyclicInheritanceError{Cycle: cycle}
		}
	}
	def, err := e.registry.Resolve(name)
	if err != nil {
		return nil, err
	}

	inst := newInstance(e, def, mergeParams(def.Params, params), parent)
	root, err := inst.build(def.Scheme, true, append(composing, name))
	if err != nil {
		inst.discard()
		return nil, err
	}
	inst.root = root

	for _, event := range def.hookEvents() {
		for _, cb := range def.Hooks[event] {
			inst.table.On(event, func(evt *events.Event) error { return cb(inst, evt) })
		}
	}

	for _, use := range def.Extensions {
		if _, err := inst.ApplyExtension(use.Key, use.Name, use.Params); err != nil {
			inst.discard()
			return nil, fmt.Errorf("definition %q: apply extension %q: %w", name, use.Name, err)
		}
	}

	if _, err := inst.Trigger(EventRender, inst.Params()); err != nil {
		return inst, err
	}
	return inst, nil
}

// build materializes node and its subtree for inst.
func (i *Instance) build(node *scheme.Node, isRoot bool, composing []string) (*html.Node, error) {
	e := i.engine
	if node.IsReference() {
		if !e.registry.Has(node.Ref.Definition) {
			return nil, &tesseraerrors.MissingReferenceError{From: i.def.Name, Name: node.Ref.Definition, Role: "composed definition"}
		}
		child, err := e.instantiate(node.Ref.Definition, refParams(node.Ref), i, composing)
		if err != nil {
			if child != nil {
				child.discard()
			}
			return nil, err
		}
		dom.AddClass(child.root, style.KeyClass(node.Key))
		i.children[node.Key] = child
		i.elements[node.Key] = child.root
		i.order = append(i.order, node.Key)
		return child.root, nil
	}

	tag := node.Tag
	if tag == "" {
		tag = scheme.DefaultTag
	}
	el := dom.NewElement(tag)
	if isRoot {
		dom.AddClass(el, style.RootClass(i.def.Name))
	} else {
		dom.AddClass(el, style.KeyClass(node.Key))
	}
	dom.AddClass(el, node.Classes...)
	for _, attr := range node.Attrs {
		dom.SetAttr(el, attr.Name, attr.Value)
	}
	e.bind(el, i)
	i.owned = append(i.owned, el)
	if !isRoot {
		i.elements[node.Key] = el
		i.order = append(i.order, node.Key)
	}

	if node.IsRepeatable() {
		i.collections[node.Key] = &Collection{
			key:        node.Key,
			definition: node.Repeat,
			owner:      i,
			container:  el,
		}
		return el, nil
	}

	switch node.ContentKind {
	case scheme.ContentText:
		dom.SetText(el, i.translate(node.Content))
	case scheme.ContentHTML:
		if err := dom.SetHTML(el, i.translate(node.Content)); err != nil {
			return nil, err
		}
	}

	for _, child := range node.Children {
		childEl, err := i.build(child, false, composing)
		if err != nil {
			return nil, err
		}
		el.AppendChild(childEl)
	}
	return el, nil
}

func (i *Instance) translate(content string) string {
	key, ok := strings.CutPrefix(content, TranslationPrefix)
	if !ok || i.engine.translator == nil {
		return content
	}
	if text, found := i.engine.translator.Translate(key); found {
		return text
	}
	i.engine.logger.Definition(i.def.Name).With("key", key).Debug("no translation")
	return key
}
