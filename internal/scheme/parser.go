package scheme

import (
	"fmt"
	"strings"

	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/tessera/internal/ordered"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// Parse turns a scheme value into a Node tree. Accepted values are shorthand
// strings, ordered.Map, plain map[string]any, *yaml.Node, *Node and nil.
func Parse(value any) (*Node, error) {
	p := &treeParser{seen: make(map[string]string)}
	return p.parse("", "", value)
}

type treeParser struct {
	seen map[string]string
}

func (p *treeParser) parse(path, key string, value any) (*Node, error) {
	switch typed := value.(type) {
	case nil:
		return &Node{Key: key, Tag: DefaultTag}, nil
	case string:
		return parseShorthand(path, key, typed)
	case *Node:
		clone := typed.Clone()
		clone.Key = key
		return p.parse(path, key, clone.Canonical())
	case *yaml.Node:
		decoded, err := ordered.FromYAML(typed)
		if err != nil {
			return nil, tesseraerrors.NewSchemeSyntaxError(path, "", err.Error())
		}
		return p.parse(path, key, decoded)
	case map[string]any:
		return p.parseMap(path, key, ordered.FromMap(typed))
	case ordered.Map:
		return p.parseMap(path, key, typed)
	default:
		return nil, tesseraerrors.NewSchemeSyntaxError(path, fmt.Sprint(value), fmt.Sprintf("unsupported scheme value of type %T", value))
	}
}

func (p *treeParser) parseMap(path, key string, m ordered.Map) (*Node, error) {
	node := &Node{Key: key, Tag: DefaultTag}
	if raw, ok := m.Get(SelfKey); ok {
		self, isString := raw.(string)
		if !isString {
			return nil, tesseraerrors.NewSchemeSyntaxError(joinPath(path, SelfKey), fmt.Sprint(raw), "container shorthand must be a string")
		}
		parsed, err := parseShorthand(path, key, self)
		if err != nil {
			return nil, err
		}
		if parsed.IsReference() || parsed.IsRepeatable() {
			return nil, tesseraerrors.NewSchemeSyntaxError(joinPath(path, SelfKey), self, "a container cannot be a reference or repeatable slot")
		}
		node = parsed
	}

	for _, pair := range m {
		if pair.Key == SelfKey {
			continue
		}
		childPath := joinPath(path, pair.Key)
		if strings.TrimSpace(pair.Key) == "" {
			return nil, tesseraerrors.NewSchemeSyntaxError(childPath, pair.Key, "empty logical key")
		}
		if previous, dup := p.seen[pair.Key]; dup {
			return nil, tesseraerrors.NewSchemeSyntaxError(childPath, pair.Key, fmt.Sprintf("duplicate logical key (first used at %s)", previous))
		}
		p.seen[pair.Key] = childPath

		child, err := p.parse(childPath, pair.Key, pair.Value)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// parseShorthand parses the string form of a single node.
func parseShorthand(path, key, src string) (*Node, error) {
	s := &shorthand{src: strings.TrimSpace(src), path: path, raw: src}
	node, err := s.parse()
	if err != nil {
		return nil, err
	}
	node.Key = key
	return node, nil
}

type shorthand struct {
	src  string
	raw  string
	pos  int
	path string
}

func (s *shorthand) fail(format string, args ...any) error {
	return tesseraerrors.NewSchemeSyntaxError(s.path, s.raw, fmt.Sprintf(format, args...))
}

func (s *shorthand) eof() bool { return s.pos >= len(s.src) }

func (s *shorthand) peek() byte { return s.src[s.pos] }

func (s *shorthand) skipSpace() {
	for !s.eof() && (s.peek() == ' ' || s.peek() == '\t') {
		s.pos++
	}
}

func (s *shorthand) parse() (*Node, error) {
	node := &Node{Tag: DefaultTag}
	if strings.HasPrefix(s.src, "<<<") {
		s.pos = 3
		ref, err := s.parseReference()
		if err != nil {
			return nil, err
		}
		node.Ref = ref
		return node, nil
	}

	tagSet, attrsSet := false, false
	for {
		s.skipSpace()
		if s.eof() {
			return node, nil
		}
		start := s.pos
		switch c := s.peek(); c {
		case '@':
			if tagSet || start != 0 {
				return nil, s.fail("tag must come first and only once (offset %d)", start)
			}
			s.pos++
			tag := s.scanWhile(isTagChar)
			if tag == "" || !isLetter(tag[0]) {
				return nil, s.fail("missing tag name after '@'")
			}
			node.Tag = strings.ToLower(tag)
			// Custom elements carry a hyphen; everything else must be a known HTML name.
			if !strings.Contains(node.Tag, "-") && atom.Lookup([]byte(node.Tag)) == 0 {
				return nil, s.fail("unknown element %q", node.Tag)
			}
			tagSet = true
		case '.':
			s.pos++
			class := s.scanWhile(isClassChar)
			if class == "" {
				return nil, s.fail("missing class name after '.' (offset %d)", start)
			}
			node.Classes = append(node.Classes, class)
		case '(':
			if node.ContentKind != ContentNone {
				return nil, s.fail("content given twice (offset %d)", start)
			}
			s.pos++
			kind, value, err := s.parseContent()
			if err != nil {
				return nil, err
			}
			node.ContentKind, node.Content = kind, value
		case '[':
			if attrsSet {
				return nil, s.fail("attributes given twice (offset %d)", start)
			}
			s.pos++
			attrs, err := s.parsePairs(']')
			if err != nil {
				return nil, err
			}
			node.Attrs = attrs
			attrsSet = true
		case '|':
			s.pos++
			name := strings.TrimSpace(s.src[s.pos:])
			if err := s.checkName(name, "repeatable"); err != nil {
				return nil, err
			}
			node.Repeat = name
			s.pos = len(s.src)
			return node, nil
		case '<':
			return nil, s.fail("a reference must start the shorthand with '<<<' (offset %d)", start)
		default:
			return nil, s.fail("unknown sigil %q at offset %d", c, start)
		}
	}
}

func (s *shorthand) parseReference() (*Reference, error) {
	end := strings.IndexByte(s.src[s.pos:], '{')
	var name string
	if end < 0 {
		name = strings.TrimSpace(s.src[s.pos:])
		s.pos = len(s.src)
	} else {
		name = strings.TrimSpace(s.src[s.pos : s.pos+end])
		s.pos += end + 1
	}
	if err := s.checkName(name, "reference"); err != nil {
		return nil, err
	}
	ref := &Reference{Definition: name}
	if end < 0 {
		return ref, nil
	}
	params, err := s.parsePairs('}')
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	if !s.eof() {
		return nil, s.fail("unexpected %q after reference parameters", s.src[s.pos:])
	}
	ref.Params = params
	return ref, nil
}

func (s *shorthand) checkName(name, role string) error {
	if name == "" {
		return s.fail("missing %s definition name", role)
	}
	for i := 0; i < len(name); i++ {
		if !isNameChar(name[i]) {
			return s.fail("invalid character %q in %s name %q", name[i], role, name)
		}
	}
	return nil
}

// parseContent reads "text=..." or "html=..." up to the closing parenthesis.
func (s *shorthand) parseContent() (ContentKind, string, error) {
	eq := strings.IndexByte(s.src[s.pos:], '=')
	if eq < 0 {
		return ContentNone, "", s.fail("content must be (text=...) or (html=...)")
	}
	var kind ContentKind
	switch strings.TrimSpace(s.src[s.pos : s.pos+eq]) {
	case "text":
		kind = ContentText
	case "html":
		kind = ContentHTML
	default:
		return ContentNone, "", s.fail("content must be (text=...) or (html=...)")
	}
	s.pos += eq + 1
	s.skipSpace()

	if !s.eof() && s.peek() == '"' {
		value, err := s.parseQuoted()
		if err != nil {
			return ContentNone, "", err
		}
		s.skipSpace()
		if s.eof() || s.peek() != ')' {
			return ContentNone, "", s.fail("unterminated '('")
		}
		s.pos++
		return kind, value, nil
	}

	depth := 0
	start := s.pos
	for ; !s.eof(); s.pos++ {
		switch s.peek() {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				value := strings.TrimSpace(s.src[start:s.pos])
				s.pos++
				return kind, value, nil
			}
			depth--
		}
	}
	return ContentNone, "", s.fail("unterminated '('")
}

// parsePairs reads "k=v;k2=v2" up to the terminator.
func (s *shorthand) parsePairs(terminator byte) ([]Attr, error) {
	var pairs []Attr
	for {
		s.skipSpace()
		if s.eof() {
			return nil, s.fail("unterminated '%c'", opening(terminator))
		}
		if s.peek() == terminator {
			s.pos++
			return pairs, nil
		}
		name := strings.TrimSpace(s.scanUntil("=;" + string(terminator)))
		if name == "" {
			return nil, s.fail("empty name in '%c...%c'", opening(terminator), terminator)
		}
		attr := Attr{Name: name}
		if !s.eof() && s.peek() == '=' {
			s.pos++
			s.skipSpace()
			if !s.eof() && s.peek() == '"' {
				value, err := s.parseQuoted()
				if err != nil {
					return nil, err
				}
				attr.Value = value
			} else {
				attr.Value = strings.TrimSpace(s.scanUntil(";" + string(terminator)))
			}
		}
		pairs = append(pairs, attr)
		s.skipSpace()
		if s.eof() {
			return nil, s.fail("unterminated '%c'", opening(terminator))
		}
		switch s.peek() {
		case ';':
			s.pos++
		case terminator:
		default:
			return nil, s.fail("expected ';' or '%c' at offset %d", terminator, s.pos)
		}
	}
}

func (s *shorthand) parseQuoted() (string, error) {
	s.pos++ // opening quote
	var b strings.Builder
	for !s.eof() {
		c := s.peek()
		s.pos++
		switch c {
		case '\\':
			if s.eof() {
				return "", s.fail("unterminated quoted value")
			}
			b.WriteByte(s.peek())
			s.pos++
		case '"':
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
	}
	return "", s.fail("unterminated quoted value")
}

func (s *shorthand) scanWhile(pred func(byte) bool) string {
	start := s.pos
	for !s.eof() && pred(s.peek()) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *shorthand) scanUntil(stops string) string {
	start := s.pos
	for !s.eof() && strings.IndexByte(stops, s.peek()) < 0 {
		s.pos++
	}
	return s.src[start:s.pos]
}

func opening(terminator byte) byte {
	switch terminator {
	case ']':
		return '['
	case '}':
		return '{'
	default:
		return '('
	}
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isTagChar(c byte) bool { return isLetter(c) || isDigit(c) || c == '-' }

func isClassChar(c byte) bool { return isLetter(c) || isDigit(c) || c == '-' || c == '_' }

func isNameChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_' || c == '.' || c == '/' || c == ' '
}
