package ui

import (
	"github.com/alexisbeaulieu97/tessera/internal/ordered"
	"github.com/alexisbeaulieu97/tessera/internal/scheme"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// ownResolution is the resolved form of a definition without a parent.
func ownResolution(def *Definition) *Resolved {
	res := &Resolved{
		Name:       def.Name,
		Kind:       def.Kind,
		Scheme:     def.root.Clone(),
		Styles:     def.Styles.Clone(),
		Params:     def.Params.Clone(),
		Hooks:      make(map[string][]Callback, len(def.Hooks)),
		Rules:      copyRules(def.Rules),
		Interfaces: append([]string(nil), def.Interfaces...),
		Extensions: append([]ExtensionUse(nil), def.Extensions...),
		Chain:      []string{def.Name},
	}
	if res.Kind == "" {
		res.Kind = KindStandard
	}
	for event, hook := range def.Hooks {
		res.Hooks[event] = []Callback{hook.Run}
	}
	return res
}

// mergeOver flattens child on top of an already resolved parent.
func mergeOver(parent *Resolved, child *Definition) (*Resolved, error) {
	root, err := mergeScheme(parent.Scheme, child.root)
	if err != nil {
		return nil, tesseraerrors.NewInvalidDefinitionError(child.Name, "scheme", "scheme does not merge with its parent", err)
	}

	res := &Resolved{
		Name:       child.Name,
		Kind:       parent.Kind,
		Scheme:     root,
		Styles:     ordered.Merge(parent.Styles, child.Styles),
		Params:     mergeParams(parent.Params, child.Params),
		Hooks:      make(map[string][]Callback, len(parent.Hooks)+len(child.Hooks)),
		Rules:      copyRules(parent.Rules),
		Interfaces: append([]string(nil), parent.Interfaces...),
		Chain:      append(append([]string(nil), parent.Chain...), child.Name),
	}
	if child.Kind != "" {
		res.Kind = child.Kind
	}
	for k, v := range child.Rules {
		res.Rules[k] = v
	}
	for _, iface := range child.Interfaces {
		if !res.Implements(iface) {
			res.Interfaces = append(res.Interfaces, iface)
		}
	}

	for event, callbacks := range parent.Hooks {
		res.Hooks[event] = append([]Callback(nil), callbacks...)
	}
	for event, hook := range child.Hooks {
		if hook.Override {
			res.Hooks[event] = []Callback{hook.Run}
			continue
		}
		res.Hooks[event] = append(res.Hooks[event], hook.Run)
	}

	res.Extensions = append([]ExtensionUse(nil), parent.Extensions...)
	for _, use := range child.Extensions {
		replaced := false
		for i, existing := range res.Extensions {
			if existing.Key == use.Key && existing.Name == use.Name {
				res.Extensions[i] = use
				replaced = true
				break
			}
		}
		if !replaced {
			res.Extensions = append(res.Extensions, use)
		}
	}
	return res, nil
}

// mergeScheme lays the child's top-level slots over a copy of the parent tree.
// A slot whose key exists anywhere in the parent replaces that node in place;
// other slots are appended to the root. A child root that declares its own
// tag, classes, attributes or content replaces the parent root's.
func mergeScheme(parent, child *scheme.Node) (*scheme.Node, error) {
	out := parent.Clone()
	if child == nil {
		return out, nil
	}
	if declaresSelf(child) {
		out.Tag = child.Tag
		out.Classes = append([]string(nil), child.Classes...)
		out.Attrs = append([]scheme.Attr(nil), child.Attrs...)
		out.ContentKind = child.ContentKind
		out.Content = child.Content
	}
	for _, slot := range child.Children {
		replacement := slot.Clone()
		if out.Replace(slot.Key, replacement) {
			continue
		}
		out.Children = append(out.Children, replacement)
	}

	seen := make(map[string]bool)
	var dup string
	out.Walk(func(n *scheme.Node, _ int) bool {
		if n.Key == "" || dup != "" {
			return dup == ""
		}
		if seen[n.Key] {
			dup = n.Key
			return false
		}
		seen[n.Key] = true
		return true
	})
	if dup != "" {
		return nil, &tesseraerrors.SchemeSyntaxError{Path: dup, Fragment: dup, Message: "key appears twice after merging with the parent scheme"}
	}
	return out, nil
}

func declaresSelf(n *scheme.Node) bool {
	return (n.Tag != "" && n.Tag != scheme.DefaultTag) ||
		len(n.Classes) > 0 ||
		len(n.Attrs) > 0 ||
		n.ContentKind != scheme.ContentNone
}

func copyRules(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
