// Package i18n holds translation catalogs for static content.
package i18n

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// Catalog maps locale -> key -> text. Nested YAML mappings flatten into
// dotted keys ("form.title").
type Catalog struct {
	mu       sync.RWMutex
	locale   string
	fallback string
	entries  map[string]map[string]string
}

// NewCatalog creates an empty catalog translating into locale, falling back
// to fallback when a key is missing.
func NewCatalog(locale, fallback string) *Catalog {
	return &Catalog{
		locale:   locale,
		fallback: fallback,
		entries:  make(map[string]map[string]string),
	}
}

// Add stores one translation.
func (c *Catalog) Add(locale, key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[locale]
	if !ok {
		m = make(map[string]string)
		c.entries[locale] = m
	}
	m[key] = text
}

// SetLocale switches the active locale.
func (c *Catalog) SetLocale(locale string) {
	c.mu.Lock()
	c.locale = locale
	c.mu.Unlock()
}

// Locale returns the active locale.
func (c *Catalog) Locale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locale
}

// Locales lists the locales with at least one entry, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for locale := range c.entries {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate looks key up in the active locale, then in the fallback locale.
func (c *Catalog) Translate(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if text, ok := c.entries[c.locale][key]; ok {
		return text, true
	}
	if c.fallback != "" {
		if text, ok := c.entries[c.fallback][key]; ok {
			return text, true
		}
	}
	return "", false
}

// Merge adds every locale of a decoded document (locale -> nested mapping).
func (c *Catalog) Merge(doc map[string]any) error {
	for locale, raw := range doc {
		tree, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("locale %q: expected a mapping, got %T", locale, raw)
		}
		if err := c.flatten(locale, "", tree); err != nil {
			return fmt.Errorf("locale %q: %w", locale, err)
		}
	}
	return nil
}

func (c *Catalog) flatten(locale, prefix string, tree map[string]any) error {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch typed := value.(type) {
		case map[string]any:
			if err := c.flatten(locale, full, typed); err != nil {
				return err
			}
		case []any:
			return fmt.Errorf("key %q: lists cannot be translated", full)
		case nil:
			c.Add(locale, full, "")
		default:
			c.Add(locale, full, fmt.Sprint(typed))
		}
	}
	return nil
}

// Load reads a YAML catalog file into a new catalog.
func Load(path, locale, fallback string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read translations %s: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, tesseraerrors.NewParseError(path, 0, err)
	}
	c := NewCatalog(locale, fallback)
	if err := c.Merge(doc); err != nil {
		return nil, tesseraerrors.NewParseError(path, 0, err)
	}
	return c, nil
}
