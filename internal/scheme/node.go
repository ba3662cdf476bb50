// Package scheme turns scheme values (shorthand strings or ordered mappings)
// into Node trees describing the elements a UI definition materializes.
package scheme

// DefaultTag is the element created when a node names no tag.
const DefaultTag = "div"

// SelfKey is the reserved mapping key carrying a container's own shorthand.
const SelfKey = "_"

// ContentKind says how a node's static content is inserted.
type ContentKind int

const (
	ContentNone ContentKind = iota
	ContentText
	ContentHTML
)

func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentHTML:
		return "html"
	default:
		return ""
	}
}

// Attr is a single name/value pair. An empty Value renders as a bare attribute.
type Attr struct {
	Name  string
	Value string
}

// Reference composes another named definition into this slot. It is resolved
// at instantiation time, never at parse time.
type Reference struct {
	Definition string
	Params     []Attr
}

// Node describes one element slot of a scheme tree.
type Node struct {
	Key         string
	Tag         string
	Classes     []string
	Attrs       []Attr
	ContentKind ContentKind
	Content     string
	Ref         *Reference
	Repeat      string
	Children    []*Node
}

// IsReference reports whether the slot composes another definition.
func (n *Node) IsReference() bool { return n != nil && n.Ref != nil }

// IsRepeatable reports whether the slot holds a collection of child instances.
func (n *Node) IsRepeatable() bool { return n != nil && n.Repeat != "" }

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the children of that node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// Find returns the descendant (or n itself) with the given logical key.
func (n *Node) Find(key string) *Node {
	var found *Node
	n.Walk(func(node *Node, _ int) bool {
		if found != nil {
			return false
		}
		if node.Key == key {
			found = node
			return false
		}
		return true
	})
	return found
}

// Keys lists every logical key of the flattened tree in document order. The
// root's empty key is not included.
func (n *Node) Keys() []string {
	var keys []string
	n.Walk(func(node *Node, _ int) bool {
		if node.Key != "" {
			keys = append(keys, node.Key)
		}
		return true
	})
	return keys
}

// Replace swaps the descendant carrying key for replacement, keeping its
// position. It reports whether a node was replaced.
func (n *Node) Replace(key string, replacement *Node) bool {
	if n == nil {
		return false
	}
	for i, child := range n.Children {
		if child.Key == key {
			n.Children[i] = replacement
			return true
		}
		if child.Replace(key, replacement) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the tree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Classes = append([]string(nil), n.Classes...)
	out.Attrs = append([]Attr(nil), n.Attrs...)
	if n.Ref != nil {
		ref := *n.Ref
		ref.Params = append([]Attr(nil), n.Ref.Params...)
		out.Ref = &ref
	}
	out.Children = nil
	for _, child := range n.Children {
		out.Children = append(out.Children, child.Clone())
	}
	return &out
}
