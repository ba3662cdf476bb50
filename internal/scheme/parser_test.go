package scheme

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/tessera/internal/ordered"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

func TestParseShorthandLeaf(t *testing.T) {
	t.Parallel()

	node, err := Parse(`@input.field.wide[type=email; placeholder="Your; email"; required]`)
	require.NoError(t, err)

	want := &Node{
		Tag:     "input",
		Classes: []string{"field", "wide"},
		Attrs: []Attr{
			{Name: "type", Value: "email"},
			{Name: "placeholder", Value: "Your; email"},
			{Name: "required"},
		},
	}
	if diff := cmp.Diff(want, node); diff != "" {
		t.Fatalf("unexpected node (-want +got):\n%s", diff)
	}
}

func TestParseContent(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		src     string
		kind    ContentKind
		content string
	}{
		"text with spaces": {src: "@h1(text = Sign in)", kind: ContentText, content: "Sign in"},
		"nested parens":    {src: "@p(text=a (b) c)", kind: ContentText, content: "a (b) c"},
		"html":             {src: "(html=<b>bold</b>)", kind: ContentHTML, content: "<b>bold</b>"},
		"quoted":           {src: `@span(text="closing ) paren")`, kind: ContentText, content: "closing ) paren"},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			node, err := Parse(tc.src)
			require.NoError(t, err)
			require.Equal(t, tc.kind, node.ContentKind)
			require.Equal(t, tc.content, node.Content)
		})
	}
}

func TestParseReferenceAndRepeatable(t *testing.T) {
	t.Parallel()

	ref, err := Parse("<<<Button{label=Save; size=2}")
	require.NoError(t, err)
	require.True(t, ref.IsReference())
	require.Equal(t, "Button", ref.Ref.Definition)
	require.Equal(t, []Attr{{Name: "label", Value: "Save"}, {Name: "size", Value: "2"}}, ref.Ref.Params)

	bare, err := Parse("<<<Icon")
	require.NoError(t, err)
	require.Equal(t, &Reference{Definition: "Icon"}, bare.Ref)

	rows, err := Parse("@tbody.rows|Row")
	require.NoError(t, err)
	require.True(t, rows.IsRepeatable())
	require.Equal(t, "Row", rows.Repeat)
	require.Equal(t, "tbody", rows.Tag)
}

func TestParseMappingTree(t *testing.T) {
	t.Parallel()

	tree := ordered.Of(
		"_", "@form.login",
		"title", "@h1(text=Welcome)",
		"body", ordered.Of(
			"email", "@input[name=email]",
			"rows", "|Row",
		),
		"footer", nil,
	)

	node, err := Parse(tree)
	require.NoError(t, err)
	require.Equal(t, "form", node.Tag)
	require.Equal(t, []string{"title", "body", "email", "rows", "footer"}, node.Keys())
	require.Equal(t, DefaultTag, node.Find("footer").Tag)
	require.Equal(t, "Row", node.Find("rows").Repeat)
}

func TestParseYAMLNodeKeepsOrder(t *testing.T) {
	t.Parallel()

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("zeta: '@span'\nalpha: '@b'\n"), &doc))

	node, err := Parse(&doc)
	require.NoError(t, err)
	require.Equal(t, []string{"zeta", "alpha"}, node.Keys())
}

func TestParseAcceptsCustomElements(t *testing.T) {
	t.Parallel()

	node, err := Parse("@My-Card.fancy")
	require.NoError(t, err)
	require.Equal(t, "my-card", node.Tag)
	require.Equal(t, []string{"fancy"}, node.Classes)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		value any
		path  string
	}{
		"unbalanced bracket": {value: "@input[type=text", path: ""},
		"unbalanced brace":   {value: ordered.Of("child", "<<<Button{label=x"), path: "child"},
		"unbalanced paren":   {value: "@p(text=oops", path: ""},
		"unknown sigil":      {value: ordered.Of("a", ordered.Of("b", "#id")), path: "a.b"},
		"empty repeatable":   {value: "|", path: ""},
		"tag not first":      {value: ".x@div", path: ""},
		"unknown element":    {value: ordered.Of("card", "@frobnicate"), path: "card"},
		"self is reference":  {value: ordered.Of("_", "<<<Other"), path: "_"},
		"duplicate key":      {value: ordered.Of("a", ordered.Of("x", ""), "b", ordered.Of("x", "")), path: "b.x"},
		"bad type":           {value: 42, path: ""},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tc.value)
			require.Error(t, err)
			var syntaxErr *tesseraerrors.SchemeSyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			require.Equal(t, tc.path, syntaxErr.Path)
		})
	}
}

func TestParseIsDeterministicAndRoundTrips(t *testing.T) {
	t.Parallel()

	inputs := []any{
		"",
		"@DIV",
		"@a.link.active(text=Go home)[href=/;target=_blank]",
		`@span(text=" padded ")`,
		`@span(text="a ) b")`,
		"@p(text=f(x) = y)",
		`@input[value="x;y]z";data-q="quoted\"inner"]`,
		"<<<Card{title=Hello world;note=\"a}b\"}",
		"@ul.items[role=list]|Item",
		"(html=<i>x</i>)",
		ordered.Of(
			"_", "@section",
			"head", "@header(text=Top)",
			"list", ordered.Of("_", "@ul", "rows", "|Row"),
			"empty", ordered.Map{},
		),
	}

	for _, input := range inputs {
		first, err := Parse(input)
		require.NoError(t, err, "input %v", input)
		second, err := Parse(input)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(first, second))

		again, err := Parse(first.Canonical())
		require.NoError(t, err, "canonical %v", first.Canonical())
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("round trip of %v changed the tree (-first +again):\n%s", input, diff)
		}
	}
}

func TestParseNodeValueIsIdempotent(t *testing.T) {
	t.Parallel()

	original, err := Parse(ordered.Of("title", "@h2(text=Hi)"))
	require.NoError(t, err)

	reparsed, err := Parse(original)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(original, reparsed))
}

func TestReplaceAndClone(t *testing.T) {
	t.Parallel()

	root, err := Parse(ordered.Of("a", ordered.Of("b", "@span")))
	require.NoError(t, err)

	clone := root.Clone()
	replaced := clone.Replace("b", &Node{Key: "b", Tag: "em"})
	require.True(t, replaced)
	require.Equal(t, "em", clone.Find("b").Tag)
	require.Equal(t, "span", root.Find("b").Tag)
	require.False(t, clone.Replace("missing", &Node{}))
}
