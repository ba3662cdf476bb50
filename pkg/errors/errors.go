package errors

import (
	"fmt"
	"strings"
)

// SchemeSyntaxError reports a malformed shorthand scheme string.
type SchemeSyntaxError struct {
	Path     string
	Fragment string
	Message  string
}

// NewSchemeSyntaxError constructs a SchemeSyntaxError.
func NewSchemeSyntaxError(path, fragment, message string) error {
	return &SchemeSyntaxError{Path: path, Fragment: fragment, Message: message}
}

func (e *SchemeSyntaxError) Error() string {
	if e == nil {
		return ""
	}
	path := e.Path
	if path == "" {
		path = "<root>"
	}
	return fmt.Sprintf("scheme syntax error at %s: %s in %q", path, e.Message, e.Fragment)
}

// InvalidDefinitionError indicates a definition is missing required fields or
// carries values that cannot be registered.
type InvalidDefinitionError struct {
	Name    string
	Field   string
	Message string
	Err     error
}

// NewInvalidDefinitionError constructs an InvalidDefinitionError.
func NewInvalidDefinitionError(name, field, message string, err error) error {
	return &InvalidDefinitionError{Name: name, Field: field, Message: message, Err: err}
}

func (e *InvalidDefinitionError) Error() string {
	if e == nil {
		return ""
	}
	name := e.Name
	if name == "" {
		name = "<unnamed>"
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid definition %s: %s: %s", name, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid definition %s: %s", name, e.Message)
}

// Unwrap exposes the underlying error.
func (e *InvalidDefinitionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DuplicateDefinitionError is returned when a definition name is already taken.
type DuplicateDefinitionError struct {
	Name string
}

func (e *DuplicateDefinitionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("definition %q already registered\nHint: definitions are immutable once registered; unregister it first", e.Name)
}

// CyclicInheritanceError is returned when an extends chain loops back on itself.
type CyclicInheritanceError struct {
	Cycle []string
}

func (e *CyclicInheritanceError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Cycle) == 0 {
		return "cyclic inheritance detected"
	}
	return fmt.Sprintf(
		"cyclic inheritance detected: %s\nHint: remove one of the extends declarations",
		strings.Join(e.Cycle, " -> "),
	)
}

// MissingReferenceError indicates a parent, composed or repeatable reference
// names a definition that is not registered.
type MissingReferenceError struct {
	From string
	Name string
	Role string
}

func (e *MissingReferenceError) Error() string {
	if e == nil {
		return ""
	}
	role := e.Role
	if role == "" {
		role = "reference"
	}
	if e.From == "" {
		return fmt.Sprintf("definition %q not found", e.Name)
	}
	return fmt.Sprintf("definition %q: %s %q is not registered", e.From, role, e.Name)
}

// ThemeLookupError reports a theme path that could not be resolved and had no fallback.
type ThemeLookupError struct {
	Definition string
	Path       string
}

func (e *ThemeLookupError) Error() string {
	if e == nil {
		return ""
	}
	if e.Definition != "" {
		return fmt.Sprintf("style %s: theme value %q not found and no default given", e.Definition, e.Path)
	}
	return fmt.Sprintf("theme value %q not found and no default given", e.Path)
}

// DuplicateExtensionError is returned when an extension name is already registered.
type DuplicateExtensionError struct {
	Name string
}

func (e *DuplicateExtensionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("extension %q already registered", e.Name)
}

// MissingHandlerError is returned when an extension is registered without an apply hook.
type MissingHandlerError struct {
	Name    string
	Handler string
}

func (e *MissingHandlerError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("extension %q is missing its %s handler", e.Name, e.Handler)
}

// AlreadyAppliedError is returned when an extension without an update hook is
// applied twice to the same target.
type AlreadyAppliedError struct {
	Name string
}

func (e *AlreadyAppliedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("extension %q is already applied to this target and has no update handler", e.Name)
}

// UnknownExtensionError is returned when applying an extension that was never registered.
type UnknownExtensionError struct {
	Name string
}

func (e *UnknownExtensionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("extension %q not found\nHint: register the extension before applying it", e.Name)
}

// ValidationError captures definition document validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
