package style

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/tessera/internal/ordered"
	"github.com/alexisbeaulieu97/tessera/internal/scheme"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

func loginScheme(t *testing.T) *scheme.Node {
	t.Helper()
	root, err := scheme.Parse(ordered.Of(
		"_", "@form",
		"title", "@h1",
		"emailField", ordered.Of("input", "@input"),
		"submit", "@button",
	))
	require.NoError(t, err)
	return root
}

func TestCompileScopesNestedKeys(t *testing.T) {
	t.Parallel()

	tree := ordered.Of(
		"display", "flex",
		"title", ordered.Of("fontSize", "2em", ":hover", ordered.Of("color", "red")),
		"emailField", ordered.Of("input", ordered.Of("borderWidth", 1)),
		"submit", ordered.Of("::before", ordered.Of("content", `"*"`), ">span", ordered.Of("margin", []any{0, "auto"})),
	)

	res, err := NewCompiler(nil).Compile("LoginForm", tree, loginScheme(t), nil)
	require.NoError(t, err)
	require.Empty(t, res.Warnings)

	want := `.login-form {
  display: flex;
}
.login-form .title {
  font-size: 2em;
}
.login-form .title:hover {
  color: red;
}
.login-form .email-field .input {
  border-width: 1;
}
.login-form .submit::before {
  content: "*";
}
.login-form .submit>span {
  margin: 0 auto;
}
`
	require.Equal(t, want, res.CSS)
}

func TestCompileAtRulesComeFirstInSourceOrder(t *testing.T) {
	t.Parallel()

	tree := ordered.Of(
		"title", ordered.Of(
			"color", "blue",
			"@media (max-width: 600px)", ordered.Of("fontSize", "12px"),
		),
		"@keyframes spin", ordered.Of(
			"from", ordered.Of("transform", "rotate(0deg)"),
			"to", ordered.Of("transform", "rotate(360deg)"),
		),
	)

	res, err := NewCompiler(nil).Compile("Spinner", tree, nil, nil)
	require.NoError(t, err)

	want := `@media (max-width: 600px) {
  .spinner .title {
    font-size: 12px;
  }
}
@keyframes spin {
  from {
    transform: rotate(0deg);
  }
  to {
    transform: rotate(360deg);
  }
}
.spinner .title {
  color: blue;
}
`
	require.Equal(t, want, res.CSS)
}

func TestCompileResolvesThemeLookups(t *testing.T) {
	t.Parallel()

	theme := NewMapTheme(ordered.Of("colors", ordered.Of("primary", "#0af", "spacing", 4)))
	tree := ordered.Of(
		"color", "theme(colors.primary)",
		"padding", "calc(theme(colors.spacing) * 1px)",
		"border", "1px solid theme(colors.border).default(rgba(0, 0, 0, 0.1))",
	)

	res, err := NewCompiler(theme).Compile("Card", tree, nil, nil)
	require.NoError(t, err)
	require.Contains(t, res.CSS, "color: #0af;")
	require.Contains(t, res.CSS, "padding: calc(4 * 1px);")
	require.Contains(t, res.CSS, "border: 1px solid rgba(0, 0, 0, 0.1);")
}

func TestCompileMissingThemeValueNamesPath(t *testing.T) {
	t.Parallel()

	tree := ordered.Of("title", ordered.Of("color", "theme(colors.accent)"))
	_, err := NewCompiler(NewMapTheme(nil)).Compile("Card", tree, nil, nil)

	var lookupErr *tesseraerrors.ThemeLookupError
	require.ErrorAs(t, err, &lookupErr)
	require.Equal(t, "colors.accent", lookupErr.Path)
	require.Contains(t, err.Error(), "colors.accent")
}

func TestCompileWarnsOnUnknownKeysAndHonoursRules(t *testing.T) {
	t.Parallel()

	tree := ordered.Of(
		"ghost", ordered.Of("color", "red"),
		"title", ordered.Of("color", "blue"),
	)
	rules := map[string]string{"title": "h1.heading"}

	res, err := NewCompiler(nil).Compile("LoginForm", tree, loginScheme(t), rules)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	require.Contains(t, res.Warnings[0], `"ghost"`)
	require.Contains(t, res.CSS, ".login-form .ghost {")
	require.Contains(t, res.CSS, ".login-form h1.heading {")
}

func TestCompileIsDeterministic(t *testing.T) {
	t.Parallel()

	tree := ordered.Of(
		"b", ordered.Of("color", "red", ".active", ordered.Of("color", "green")),
		"a", ordered.Of("color", "blue"),
		"@font-face", ordered.Of("fontFamily", "Inter"),
	)
	c := NewCompiler(nil)
	first, err := c.Compile("X", tree, nil, nil)
	require.NoError(t, err)
	second, err := c.Compile("X", tree, nil, nil)
	require.NoError(t, err)
	require.Equal(t, first.CSS, second.CSS)
}

func TestCompileGlobal(t *testing.T) {
	t.Parallel()

	tree := ordered.Of(
		"*", ordered.Of("boxSizing", "border-box"),
		"body", ordered.Of("margin", 0, "p", ordered.Of("lineHeight", 1.5)),
		"@import", "url(reset.css)",
		"stray", "value",
	)

	res, err := NewCompiler(nil).CompileGlobal(tree)
	require.NoError(t, err)
	require.Equal(t, "@import url(reset.css);\n* {\n  box-sizing: border-box;\n}\nbody {\n  margin: 0;\n}\nbody p {\n  line-height: 1.5;\n}\n", res.CSS)
	require.Len(t, res.Warnings, 1)
}

func TestKebabAndCamel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"emailField":         "email-field",
		"LoginForm":          "login-form",
		"HTMLTitle":          "html-title",
		"main_panel":         "main-panel",
		"Throttle event":     "throttle-event",
		"-webkitTransition":  "-webkit-transition",
		"--brand-color":      "--brand-color",
		"item2Name":          "item2-name",
		"already-kebab-case": "already-kebab-case",
	}
	for in, want := range cases {
		require.Equal(t, want, Kebab(in), in)
	}

	for _, id := range []string{"emailField", "backgroundColor", "a", "zIndex"} {
		require.Equal(t, id, Camel(Kebab(id)))
	}
}

func TestSheetKeepsOrder(t *testing.T) {
	t.Parallel()

	sheet := NewSheet()
	sheet.SetBase("body {}\n")
	sheet.Set("B", ".b {}\n")
	sheet.Set("A", ".a {}\n")
	sheet.Set("B", ".b2 {}\n")

	require.Equal(t, "/* base */\nbody {}\n\n/* B */\n.b2 {}\n\n/* A */\n.a {}\n", sheet.CSS())

	sheet.Delete("B")
	css, ok := sheet.Get("A")
	require.True(t, ok)
	require.Equal(t, ".a {}\n", css)
	_, ok = sheet.Get("B")
	require.False(t, ok)
}
