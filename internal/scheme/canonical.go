package scheme

import (
	"strings"

	"github.com/alexisbeaulieu97/tessera/internal/ordered"
)

// Canonical returns the canonical scheme value of the tree: a shorthand string
// for leaves and an ordered.Map for containers. Parsing the result yields a
// tree equal to n.
func (n *Node) Canonical() any {
	if len(n.Children) == 0 {
		return n.Shorthand()
	}
	m := make(ordered.Map, 0, len(n.Children)+1)
	if self := n.Shorthand(); self != "" {
		m = append(m, ordered.Pair{Key: SelfKey, Value: self})
	}
	for _, child := range n.Children {
		m = append(m, ordered.Pair{Key: child.Key, Value: child.Canonical()})
	}
	return m
}

// Shorthand renders the node's own description, without children.
func (n *Node) Shorthand() string {
	var b strings.Builder
	if n.Ref != nil {
		b.WriteString("<<<")
		b.WriteString(n.Ref.Definition)
		if len(n.Ref.Params) > 0 {
			b.WriteByte('{')
			writePairs(&b, n.Ref.Params, '}')
			b.WriteByte('}')
		}
		return b.String()
	}

	if n.Tag != "" && n.Tag != DefaultTag {
		b.WriteByte('@')
		b.WriteString(n.Tag)
	}
	for _, class := range n.Classes {
		b.WriteByte('.')
		b.WriteString(class)
	}
	if n.ContentKind != ContentNone {
		b.WriteByte('(')
		b.WriteString(n.ContentKind.String())
		b.WriteByte('=')
		if needsContentQuote(n.Content) {
			b.WriteString(quote(n.Content))
		} else {
			b.WriteString(n.Content)
		}
		b.WriteByte(')')
	}
	if len(n.Attrs) > 0 {
		b.WriteByte('[')
		writePairs(&b, n.Attrs, ']')
		b.WriteByte(']')
	}
	if n.Repeat != "" {
		b.WriteByte('|')
		b.WriteString(n.Repeat)
	}
	return b.String()
}

func writePairs(b *strings.Builder, pairs []Attr, terminator byte) {
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(p.Name)
		if p.Value == "" {
			continue
		}
		b.WriteByte('=')
		if needsPairQuote(p.Value, terminator) {
			b.WriteString(quote(p.Value))
		} else {
			b.WriteString(p.Value)
		}
	}
}

func needsPairQuote(v string, terminator byte) bool {
	if v != strings.TrimSpace(v) || strings.HasPrefix(v, `"`) {
		return true
	}
	return strings.ContainsAny(v, ";"+string(terminator))
}

func needsContentQuote(v string) bool {
	if v == "" || v != strings.TrimSpace(v) || strings.HasPrefix(v, `"`) {
		return v != ""
	}
	depth := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return true
			}
		}
	}
	return depth != 0
}

func quote(v string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(v); i++ {
		if v[i] == '"' || v[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(v[i])
	}
	b.WriteByte('"')
	return b.String()
}
