// Package style compiles nested style trees into scoped CSS text.
package style

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/tessera/internal/ordered"
	"github.com/alexisbeaulieu97/tessera/internal/scheme"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// selectorPrefixes mark keys that are raw selector fragments rather than
// logical scheme keys. "::" is covered by ":".
var selectorPrefixes = []string{":", ".", ">", " ", "[", "+", "~"}

// scopedAtRules wrap rules compiled relative to the selector they appear under.
var scopedAtRules = []string{"@media", "@supports", "@container"}

// Result is the output of one compilation.
type Result struct {
	CSS      string
	Warnings []string
}

// Compiler turns style trees into CSS. The zero value compiles without a theme.
type Compiler struct {
	Theme Theme
}

// NewCompiler returns a compiler resolving lookups against theme.
func NewCompiler(theme Theme) *Compiler {
	return &Compiler{Theme: theme}
}

// Compile emits the CSS for a definition. root is the definition's resolved
// scheme (used to check logical keys); rules remaps logical keys to selector
// fragments.
func (c *Compiler) Compile(name string, tree ordered.Map, root *scheme.Node, rules map[string]string) (*Result, error) {
	run := &compilation{
		compiler:   c,
		definition: name,
		root:       root,
		rules:      rules,
	}
	body := newRuleSet()
	if err := run.walk("."+RootClass(name), tree, body); err != nil {
		return nil, err
	}
	return run.result(body), nil
}

// CompileGlobal emits unscoped CSS: every top-level key is a selector as written.
func (c *Compiler) CompileGlobal(tree ordered.Map) (*Result, error) {
	run := &compilation{compiler: c, global: true}
	body := newRuleSet()
	for _, pair := range tree {
		switch value := pair.Value.(type) {
		case ordered.Map:
			if strings.HasPrefix(pair.Key, "@") {
				if err := run.atRule("", pair.Key, value); err != nil {
					return nil, err
				}
				continue
			}
			if err := run.walk(pair.Key, value, body); err != nil {
				return nil, err
			}
		default:
			if strings.HasPrefix(pair.Key, "@") {
				run.atRules = append(run.atRules, fmt.Sprintf("%s %s;\n", pair.Key, stringify(value)))
				continue
			}
			run.warn("global declaration %q has no selector and was skipped", pair.Key)
		}
	}
	return run.result(body), nil
}

type compilation struct {
	compiler   *Compiler
	definition string
	root       *scheme.Node
	rules      map[string]string
	global     bool

	atRules  []string
	warnings []string
}

func (r *compilation) warn(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *compilation) result(body *ruleSet) *Result {
	var b strings.Builder
	for _, block := range r.atRules {
		b.WriteString(block)
	}
	body.writeTo(&b, "")
	return &Result{CSS: b.String(), Warnings: r.warnings}
}

func (r *compilation) walk(selector string, tree ordered.Map, sink *ruleSet) error {
	sink.touch(selector)
	for _, pair := range tree {
		key := pair.Key
		nested, isMap := pair.Value.(ordered.Map)
		switch {
		case strings.HasPrefix(key, "@"):
			if !isMap {
				r.atRules = append(r.atRules, fmt.Sprintf("%s %s;\n", key, stringify(pair.Value)))
				continue
			}
			if err := r.atRule(selector, key, nested); err != nil {
				return err
			}
		case isMap && isSelectorFragment(key):
			if err := r.walk(selector+key, nested, sink); err != nil {
				return err
			}
		case isMap:
			if err := r.walk(selector+" "+r.fragmentFor(key), nested, sink); err != nil {
				return err
			}
		default:
			value, err := r.value(pair.Value)
			if err != nil {
				return err
			}
			sink.add(selector, Kebab(key), value)
		}
	}
	return nil
}

// fragmentFor maps a logical key to its selector fragment.
func (r *compilation) fragmentFor(key string) string {
	if remap, ok := r.rules[key]; ok && remap != "" {
		return remap
	}
	if r.global {
		return key
	}
	if r.root != nil && r.root.Find(key) == nil {
		r.warn("style key %q in %s matches no scheme node", key, r.definition)
	}
	return "." + KeyClass(key)
}

func (r *compilation) atRule(selector, key string, body ordered.Map) error {
	if isScopedAtRule(key) && selector != "" {
		inner := newRuleSet()
		if err := r.walk(selector, body, inner); err != nil {
			return err
		}
		var b strings.Builder
		b.WriteString(key)
		b.WriteString(" {\n")
		inner.writeTo(&b, "  ")
		b.WriteString("}\n")
		r.atRules = append(r.atRules, b.String())
		return nil
	}

	var b strings.Builder
	if err := r.verbatim(&b, key, body, ""); err != nil {
		return err
	}
	r.atRules = append(r.atRules, b.String())
	return nil
}

// verbatim renders a block whose nested keys are used as written (keyframes,
// font-face and friends).
func (r *compilation) verbatim(b *strings.Builder, header string, body ordered.Map, indent string) error {
	b.WriteString(indent)
	b.WriteString(header)
	b.WriteString(" {\n")
	for _, pair := range body {
		if nested, ok := pair.Value.(ordered.Map); ok {
			if err := r.verbatim(b, pair.Key, nested, indent+"  "); err != nil {
				return err
			}
			continue
		}
		value, err := r.value(pair.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "%s  %s: %s;\n", indent, Kebab(pair.Key), value)
	}
	b.WriteString(indent)
	b.WriteString("}\n")
	return nil
}

func (r *compilation) value(raw any) (string, error) {
	text := stringify(raw)
	resolved, missing, ok := resolveLookups(text, r.compiler.Theme)
	if !ok {
		return "", &tesseraerrors.ThemeLookupError{Definition: r.definition, Path: missing}
	}
	return resolved, nil
}

func stringify(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case Lookup:
		return typed.String()
	case []any:
		parts := make([]string, len(typed))
		for i, item := range typed {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(v)
	}
}

func isSelectorFragment(key string) bool {
	for _, prefix := range selectorPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func isScopedAtRule(key string) bool {
	for _, prefix := range scopedAtRules {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

type declaration struct {
	property string
	value    string
}

// ruleSet keeps rules in the order their selectors were first reached.
type ruleSet struct {
	order []string
	rules map[string][]declaration
}

func newRuleSet() *ruleSet {
	return &ruleSet{rules: make(map[string][]declaration)}
}

func (s *ruleSet) touch(selector string) {
	if _, ok := s.rules[selector]; ok {
		return
	}
	s.order = append(s.order, selector)
	s.rules[selector] = nil
}

func (s *ruleSet) add(selector, property, value string) {
	s.touch(selector)
	decls := s.rules[selector]
	for i := range decls {
		if decls[i].property == property {
			decls[i].value = value
			return
		}
	}
	s.rules[selector] = append(decls, declaration{property: property, value: value})
}

func (s *ruleSet) writeTo(b *strings.Builder, indent string) {
	for _, selector := range s.order {
		decls := s.rules[selector]
		if len(decls) == 0 {
			continue
		}
		b.WriteString(indent)
		b.WriteString(selector)
		b.WriteString(" {\n")
		for _, d := range decls {
			fmt.Fprintf(b, "%s  %s: %s;\n", indent, d.property, d.value)
		}
		b.WriteString(indent)
		b.WriteString("}\n")
	}
}
