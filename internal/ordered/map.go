// Package ordered provides an insertion-ordered string-keyed map used for
// scheme trees, style trees and theme tables, where key order is significant.
package ordered

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Pair is one key/value entry of a Map.
type Pair struct {
	Key   string
	Value any
}

// Map is an insertion-ordered mapping. Nested mappings are themselves Maps.
type Map []Pair

// Of builds a Map from alternating key/value arguments.
func Of(kv ...any) Map {
	if len(kv)%2 != 0 {
		panic("ordered.Of: odd number of arguments")
	}
	m := make(Map, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("ordered.Of: key %v is not a string", kv[i]))
		}
		m.Set(key, Normalize(kv[i+1]))
	}
	return m
}

// Get returns the value stored under key.
func (m Map) Get(key string) (any, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (m Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// Set replaces the value of an existing key in place or appends a new entry.
func (m *Map) Set(key string, value any) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Pair{Key: key, Value: value})
}

// Delete removes key if present.
func (m *Map) Delete(key string) {
	for i := range *m {
		if (*m)[i].Key == key {
			*m = append((*m)[:i], (*m)[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy; nested Maps and slices are copied.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for i, p := range m {
		out[i] = Pair{Key: p.Key, Value: cloneValue(p.Value)}
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case Map:
		return typed.Clone()
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Merge deep-merges over on top of base. Nested Maps merge key-wise; any other
// value in over replaces the base value. Keys new to base are appended.
func Merge(base, over Map) Map {
	out := base.Clone()
	for _, p := range over {
		existing, ok := out.Get(p.Key)
		baseMap, baseIsMap := existing.(Map)
		overMap, overIsMap := p.Value.(Map)
		if ok && baseIsMap && overIsMap {
			out.Set(p.Key, Merge(baseMap, overMap))
			continue
		}
		out.Set(p.Key, cloneValue(p.Value))
	}
	return out
}

// Normalize converts plain Go maps into Maps recursively. Keys of plain maps are
// sorted so the result is deterministic.
func Normalize(v any) any {
	switch typed := v.(type) {
	case Map:
		return typed
	case map[string]any:
		return FromMap(typed)
	case map[string]string:
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Map, 0, len(keys))
		for _, k := range keys {
			out = append(out, Pair{Key: k, Value: typed[k]})
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// FromMap converts a plain map into a Map with sorted keys.
func FromMap(in map[string]any) Map {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Map, 0, len(keys))
	for _, k := range keys {
		out = append(out, Pair{Key: k, Value: Normalize(in[k])})
	}
	return out
}

// ToMap converts the Map into plain Go maps, recursively.
func (m Map) ToMap() map[string]any {
	out := make(map[string]any, len(m))
	for _, p := range m {
		out[p.Key] = toPlain(p.Value)
	}
	return out
}

func toPlain(v any) any {
	switch typed := v.(type) {
	case Map:
		return typed.ToMap()
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = toPlain(item)
		}
		return out
	default:
		return v
	}
}

// UnmarshalYAML decodes a YAML mapping preserving key order.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	value, err := FromYAML(node)
	if err != nil {
		return err
	}
	if value == nil {
		*m = nil
		return nil
	}
	decoded, ok := value.(Map)
	if !ok {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	*m = decoded
	return nil
}

// MarshalYAML encodes the Map as a YAML mapping preserving key order.
func (m Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range m {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key}
		value := &yaml.Node{}
		if err := value.Encode(p.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// FromYAML converts a YAML node into Go values, using Map for mappings.
func FromYAML(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return FromYAML(node.Content[0])
	case yaml.AliasNode:
		return FromYAML(node.Alias)
	case yaml.MappingNode:
		out := make(Map, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			value, err := FromYAML(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Set(keyNode.Value, value)
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := FromYAML(item)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	default:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, err
		}
		return value, nil
	}
}
