package config

import (
	"fmt"

	"github.com/alexisbeaulieu97/tessera/internal/extension"
	"github.com/alexisbeaulieu97/tessera/internal/i18n"
	"github.com/alexisbeaulieu97/tessera/internal/ordered"
	"github.com/alexisbeaulieu97/tessera/internal/style"
	"github.com/alexisbeaulieu97/tessera/internal/ui"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// HookLibrary maps the callback names used in documents to their code.
type HookLibrary map[string]ui.Callback

// Library is the union of several definition documents.
type Library struct {
	Documents []*Document
}

// LoadLibrary parses every YAML file under paths. Definition names must be
// unique across files.
func LoadLibrary(paths ...string) (*Library, error) {
	files, err := DiscoverFiles(paths...)
	if err != nil {
		return nil, err
	}
	lib := &Library{}
	owners := make(map[string]string)
	for _, file := range files {
		doc, err := ParseFile(file)
		if err != nil {
			return nil, err
		}
		for i, def := range doc.Definitions {
			if previous, dup := owners[def.Name]; dup {
				return nil, tesseraerrors.NewValidationError(
					fmt.Sprintf("%s: %s", file, fieldForDefinition(i, "name")),
					fmt.Sprintf("definition %q already declared in %s", def.Name, previous),
					nil,
				)
			}
			owners[def.Name] = file
		}
		lib.Documents = append(lib.Documents, doc)
	}
	return lib, nil
}

// Theme merges the theme of every document, later files winning. It returns
// nil when no document declares one.
func (l *Library) Theme() style.Theme {
	var merged ordered.Map
	for _, doc := range l.Documents {
		merged = ordered.Merge(merged, doc.Theme)
	}
	if len(merged) == 0 {
		return nil
	}
	return style.NewMapTheme(merged)
}

// GlobalStyles merges the unscoped styles of every document.
func (l *Library) GlobalStyles() ordered.Map {
	var merged ordered.Map
	for _, doc := range l.Documents {
		merged = ordered.Merge(merged, doc.GlobalStyles)
	}
	return merged
}

// Catalog builds the translation catalog, or returns nil when no document
// declares translations. The first document naming a locale sets it.
func (l *Library) Catalog() (*i18n.Catalog, error) {
	var catalog *i18n.Catalog
	for _, doc := range l.Documents {
		tr := doc.Translations
		if tr == nil {
			continue
		}
		if catalog == nil {
			catalog = i18n.NewCatalog(tr.Locale, tr.Fallback)
		}
		if err := catalog.Merge(tr.Catalog); err != nil {
			return nil, tesseraerrors.NewParseError(doc.path, 0, err)
		}
	}
	return catalog, nil
}

// Definitions converts every declared definition, binding hook names through
// hooks.
func (l *Library) Definitions(hooks HookLibrary) ([]ui.Definition, error) {
	var out []ui.Definition
	for _, doc := range l.Documents {
		for i := range doc.Definitions {
			def, err := doc.Definitions[i].definition(hooks)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", doc.path, fieldForDefinition(i, "hooks"), err)
			}
			out = append(out, def)
		}
	}
	return out, nil
}

// Engine wires an engine from the library: its theme and translations, its
// global styles and every definition. Fields already set in opts win.
func (l *Library) Engine(opts ui.Options, hooks HookLibrary) (*ui.Engine, error) {
	if opts.Registry == nil {
		opts.Registry = ui.NewRegistry(l.Theme(), opts.Logger)
	}
	if opts.Translator == nil {
		catalog, err := l.Catalog()
		if err != nil {
			return nil, err
		}
		if catalog != nil {
			opts.Translator = catalog
		}
	}
	engine, err := ui.NewEngine(opts)
	if err != nil {
		return nil, err
	}
	if global := l.GlobalStyles(); len(global) > 0 {
		if err := engine.Registry().SetGlobalStyles(global); err != nil {
			return nil, fmt.Errorf("global styles: %w", err)
		}
	}

	defs, err := l.Definitions(hooks)
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if _, err := engine.Register(def); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

func (s *DefinitionSpec) definition(hooks HookLibrary) (ui.Definition, error) {
	def := ui.Definition{
		Name:       s.Name,
		Kind:       ui.Kind(s.Kind),
		Extends:    s.Extends,
		Styles:     s.Styles.Clone(),
		Params:     ui.Params(s.Params).Clone(),
		Rules:      s.Rules,
		Interfaces: s.Interfaces,
	}
	if s.Scheme.Kind != 0 {
		def.Scheme = &s.Scheme
	}

	if len(s.Hooks) > 0 {
		def.Hooks = make(map[string]ui.Hook, len(s.Hooks))
		for event, spec := range s.Hooks {
			run, ok := hooks[spec.Run]
			if !ok {
				return ui.Definition{}, fmt.Errorf("event %q: unknown callback %q", event, spec.Run)
			}
			def.Hooks[event] = ui.Hook{Run: run, Override: spec.Override}
		}
	}

	for _, ext := range s.Extensions {
		def.Extensions = append(def.Extensions, ui.ExtensionUse{
			Key:    ext.Key,
			Name:   ext.Name,
			Params: extension.Params(ext.Params),
		})
	}
	return def, nil
}
