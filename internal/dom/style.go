package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// StyleProperty reads one property from the inline style attribute.
func StyleProperty(n *html.Node, property string) (string, bool) {
	raw, _ := Attr(n, "style")
	for _, decl := range parseInline(raw) {
		if decl[0] == property {
			return decl[1], true
		}
	}
	return "", false
}

// SetStyleProperty writes one property into the inline style attribute,
// keeping the position of an existing declaration. An empty value removes it.
func SetStyleProperty(n *html.Node, property, value string) {
	raw, _ := Attr(n, "style")
	decls := parseInline(raw)
	found := false
	kept := decls[:0]
	for _, decl := range decls {
		if decl[0] == property {
			found = true
			if value == "" {
				continue
			}
			decl[1] = value
		}
		kept = append(kept, decl)
	}
	if !found && value != "" {
		kept = append(kept, [2]string{property, value})
	}
	if len(kept) == 0 {
		RemoveAttr(n, "style")
		return
	}
	parts := make([]string, len(kept))
	for i, decl := range kept {
		parts[i] = decl[0] + ": " + decl[1]
	}
	SetAttr(n, "style", strings.Join(parts, "; "))
}

func parseInline(raw string) [][2]string {
	var out [][2]string
	for _, part := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, [2]string{name, strings.TrimSpace(value)})
	}
	return out
}
