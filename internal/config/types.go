package config

import (
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/tessera/internal/ordered"
)

// Document is one YAML definition file.
type Document struct {
	Version      string           `yaml:"version" validate:"required,semver"`
	Name         string           `yaml:"name" validate:"required,min=1,max=100"`
	Description  string           `yaml:"description,omitempty"`
	Theme        ordered.Map      `yaml:"theme,omitempty"`
	GlobalStyles ordered.Map      `yaml:"global_styles,omitempty"`
	Translations *Translations    `yaml:"translations,omitempty"`
	Definitions  []DefinitionSpec `yaml:"definitions" validate:"required,min=1,dive"`

	path string
}

// Path returns the file the document was read from.
func (d *Document) Path() string { return d.path }

// Translations configures the localization catalog.
type Translations struct {
	Locale   string         `yaml:"locale" validate:"required"`
	Fallback string         `yaml:"fallback,omitempty"`
	Catalog  map[string]any `yaml:"catalog" validate:"required"`
}

// DefinitionSpec is the YAML form of a UI definition. Hooks name callbacks
// supplied by the embedding program.
type DefinitionSpec struct {
	Name       string              `yaml:"name" validate:"required,definition_name"`
	Kind       string              `yaml:"kind,omitempty" validate:"omitempty,kind"`
	Extends    string              `yaml:"extends,omitempty" validate:"omitempty,definition_name"`
	Scheme     yaml.Node           `yaml:"scheme,omitempty"`
	Styles     ordered.Map         `yaml:"styles,omitempty"`
	Params     map[string]any      `yaml:"params,omitempty"`
	Rules      map[string]string   `yaml:"rules,omitempty"`
	Interfaces []string            `yaml:"interfaces,omitempty" validate:"omitempty,dive,required"`
	Hooks      map[string]HookSpec `yaml:"hooks,omitempty" validate:"omitempty,dive"`
	Extensions []ExtensionSpec     `yaml:"extensions,omitempty" validate:"omitempty,dive"`
}

// HookSpec binds a lifecycle event to a named callback.
type HookSpec struct {
	Run      string `yaml:"run" validate:"required"`
	Override bool   `yaml:"override,omitempty"`
}

// ExtensionSpec applies a registered extension at render time.
type ExtensionSpec struct {
	Key    string         `yaml:"key,omitempty"`
	Name   string         `yaml:"name" validate:"required"`
	Params map[string]any `yaml:"params,omitempty"`
}
