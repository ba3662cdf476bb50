package style

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/tessera/internal/ordered"
)

// Theme resolves dotted theme paths such as "colors.primary" to CSS values.
type Theme interface {
	Lookup(path string) (string, bool)
}

// MapTheme is a Theme backed by a nested ordered map.
type MapTheme struct {
	values ordered.Map
}

// NewMapTheme wraps the given tree. A nil tree yields an empty theme.
func NewMapTheme(values ordered.Map) *MapTheme {
	return &MapTheme{values: values}
}

// Lookup walks the dotted path through nested maps.
func (t *MapTheme) Lookup(path string) (string, bool) {
	if t == nil || path == "" {
		return "", false
	}
	var current any = t.values
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(ordered.Map)
		if !ok {
			return "", false
		}
		current, ok = m.Get(segment)
		if !ok {
			return "", false
		}
	}
	switch current.(type) {
	case ordered.Map, []any, nil:
		return "", false
	}
	return fmt.Sprint(current), true
}

// Lookup is a deferred theme reference found in a declaration value.
type Lookup struct {
	Path        string
	Fallback    string
	HasFallback bool
}

// String renders the token in its source form.
func (l Lookup) String() string {
	if l.HasFallback {
		return fmt.Sprintf("theme(%s).default(%s)", l.Path, l.Fallback)
	}
	return fmt.Sprintf("theme(%s)", l.Path)
}

const (
	lookupOpen  = "theme("
	defaultOpen = ".default("
)

// resolveLookups replaces every theme(...)[.default(...)] token in value.
// It returns the first path that could not be resolved.
func resolveLookups(value string, theme Theme) (string, string, bool) {
	if !strings.Contains(value, lookupOpen) {
		return value, "", true
	}
	var b strings.Builder
	rest := value
	for {
		idx := strings.Index(rest, lookupOpen)
		if idx < 0 {
			b.WriteString(rest)
			return b.String(), "", true
		}
		b.WriteString(rest[:idx])
		lookup, consumed, ok := scanLookup(rest[idx:])
		if !ok {
			b.WriteString(rest[idx:])
			return b.String(), "", true
		}
		rest = rest[idx+consumed:]

		resolved, found := "", false
		if theme != nil {
			resolved, found = theme.Lookup(lookup.Path)
		}
		switch {
		case found:
			b.WriteString(resolved)
		case lookup.HasFallback:
			b.WriteString(lookup.Fallback)
		default:
			return "", lookup.Path, false
		}
	}
}

// scanLookup parses a token at the start of s and reports how many bytes it spans.
func scanLookup(s string) (Lookup, int, bool) {
	pathEnd := strings.IndexByte(s, ')')
	if pathEnd < 0 {
		return Lookup{}, 0, false
	}
	lookup := Lookup{Path: strings.TrimSpace(s[len(lookupOpen):pathEnd])}
	consumed := pathEnd + 1
	if !strings.HasPrefix(s[consumed:], defaultOpen) {
		return lookup, consumed, true
	}
	start := consumed + len(defaultOpen)
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				lookup.Fallback = strings.TrimSpace(s[start:i])
				lookup.HasFallback = true
				return lookup, i + 1, true
			}
			depth--
		}
	}
	return lookup, consumed, true
}
