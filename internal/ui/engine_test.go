package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/tessera/internal/behaviors"
	"github.com/alexisbeaulieu97/tessera/internal/dom"
	"github.com/alexisbeaulieu97/tessera/internal/events"
	"github.com/alexisbeaulieu97/tessera/internal/loop"
	"github.com/alexisbeaulieu97/tessera/internal/ordered"
	"github.com/alexisbeaulieu97/tessera/internal/provider"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

type harness struct {
	engine *Engine
	clock  *loop.Manual
	log    []string
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{clock: loop.NewManual()}
	if opts.Scheduler == nil {
		opts.Scheduler = h.clock
	}
	e, err := NewEngine(opts)
	require.NoError(t, err)
	h.engine = e
	return h
}

func (h *harness) register(t *testing.T, defs ...Definition) {
	t.Helper()
	for _, def := range defs {
		_, err := h.engine.Register(def)
		require.NoError(t, err)
	}
}

// record returns a hook appending label to the harness log.
func (h *harness) record(label string) Hook {
	return Hook{Run: func(*Instance, *events.Event) error {
		h.log = append(h.log, label)
		return nil
	}}
}

func cardDefinition() Definition {
	return Definition{
		Name:   "Card",
		Scheme: ordered.Of("_", "@article.box", "title", "@h2(text=Hi)"),
		Params: Params{"title": "Default", "size": "m"},
	}
}

func TestRenderBuildsSubtree(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, cardDefinition())

	inst, err := h.engine.Render("Card", nil)
	require.NoError(t, err)
	out, err := inst.HTML()
	require.NoError(t, err)
	assert.Equal(t, `<article class="card box"><h2 class="title">Hi</h2></article>`, out)
	assert.Equal(t, []string{"title"}, inst.Keys())
	assert.Equal(t, "Hi", dom.Text(inst.Element("title")))
	assert.Same(t, inst.Root(), inst.Element(""))
	assert.Equal(t, KindStandard, inst.Kind())
}

func TestRenderHookSeesBuiltSubtreeAndMergedParams(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	calls := 0
	def := cardDefinition()
	def.Hooks = map[string]Hook{EventRender: {Run: func(inst *Instance, evt *events.Event) error {
		calls++
		require.NotNil(t, inst.Element("title"))
		assert.Equal(t, Params{"title": "Custom", "size": "m"}, evt.Detail)
		return nil
	}}}
	h.register(t, def)

	inst, err := h.engine.Render("Card", Params{"title": "Custom"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	title, ok := inst.Param("title")
	require.True(t, ok)
	assert.Equal(t, "Custom", title)
}

func TestHooksChainParentFirstUnlessOverridden(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t,
		Definition{Name: "A", Scheme: "@div", Hooks: map[string]Hook{EventRender: h.record("A")}},
		Definition{Name: "B", Extends: "A", Hooks: map[string]Hook{EventRender: h.record("B")}},
		Definition{Name: "C", Extends: "B", Hooks: map[string]Hook{EventRender: h.record("C")}},
	)
	override := h.record("D")
	override.Override = true
	h.register(t, Definition{Name: "D", Extends: "C", Hooks: map[string]Hook{EventRender: override}})

	_, err := h.engine.Render("C", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, h.log)

	h.log = nil
	_, err = h.engine.Render("D", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"D"}, h.log)
}

func TestComposedReferenceGetsInlineParams(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, cardDefinition(), Definition{
		Name:   "Page",
		Scheme: ordered.Of("_", "@main", "hero", "<<<Card{title=Hello}"),
	})

	page, err := h.engine.Render("Page", nil)
	require.NoError(t, err)
	hero := page.Child("hero")
	require.NotNil(t, hero)
	assert.Equal(t, Params{"title": "Hello", "size": "m"}, hero.Params())
	assert.Same(t, page, hero.ParentInstance())
	assert.Same(t, hero.Root(), page.Element("hero"))
	assert.Equal(t, []string{"card", "box", "hero"}, dom.Classes(hero.Root()))

	out, err := page.HTML()
	require.NoError(t, err)
	assert.Equal(t, `<main class="page"><article class="card box hero"><h2 class="title">Hi</h2></article></main>`, out)
}

func TestMissingReferenceSurfacesAtRender(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, Definition{Name: "Page", Scheme: ordered.Of("hero", "<<<Card")})

	_, err := h.engine.Registry().Resolve("Page")
	require.NoError(t, err)

	_, err = h.engine.Render("Page", nil)
	var missing *tesseraerrors.MissingReferenceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Card", missing.Name)
	assert.Equal(t, "composed definition", missing.Role)
}

func TestCompositionCycleIsRejected(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t,
		Definition{Name: "X", Scheme: ordered.Of("y", "<<<Y")},
		Definition{Name: "Y", Scheme: ordered.Of("x", "<<<X")},
	)

	_, err := h.engine.Render("X", nil)
	var cyclic *tesseraerrors.CyclicInheritanceError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, []string{"X", "Y", "X"}, cyclic.Cycle)
}

func rowDefinitions() []Definition {
	return []Definition{
		{Name: "List", Scheme: ordered.Of("_", "@section", "rows", "@ul|Row")},
		{Name: "Row", Scheme: ordered.Of("_", "@li", "name", "@span", "qty", "@input[name=qty]")},
	}
}

func TestRepeatableSlotAddsAndRemovesItemsInOrder(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, rowDefinitions()...)

	list, err := h.engine.Render("List", nil)
	require.NoError(t, err)
	rows := list.Collection("rows")
	require.NotNil(t, rows)
	assert.Equal(t, 0, rows.Len())
	assert.Equal(t, "Row", rows.Definition())

	for _, name := range []string{"a", "b", "c"} {
		_, err := rows.AddOne(map[string]any{"name": name, "qty": 1})
		require.NoError(t, err)
	}
	require.Equal(t, 3, rows.Len())

	var names []string
	for child := rows.Element().FirstChild; child != nil; child = child.NextSibling {
		names = append(names, dom.Text(child.FirstChild))
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, "1", dom.Value(rows.At(0).Element("qty")))
	assert.Same(t, list, rows.At(1).ParentInstance())

	middle := rows.At(1)
	require.NoError(t, rows.Remove(middle))
	assert.Equal(t, 2, rows.Len())
	assert.True(t, middle.Removed())

	require.NoError(t, rows.RemoveAll())
	assert.Equal(t, 0, rows.Len())
	assert.Nil(t, rows.Element().FirstChild)
}

func TestRepeatableSlotWithUnknownDefinition(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, Definition{Name: "List", Scheme: ordered.Of("rows", "@ul|Ghost")})

	list, err := h.engine.Render("List", nil)
	require.NoError(t, err)
	_, err = list.Collection("rows").AddOne(nil)
	var missing *tesseraerrors.MissingReferenceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "repeatable definition", missing.Role)
	assert.Equal(t, 0, list.Collection("rows").Len())
}

func TestAddFromPostsOnScheduler(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, rowDefinitions()...)

	list, err := h.engine.Render("List", nil)
	require.NoError(t, err)
	rows := list.Collection("rows")

	var added []*Instance
	src := provider.Static{Records: []map[string]any{{"name": "x"}, {"name": "y"}}}
	rows.AddFrom(context.Background(), src, func(items []*Instance, err error) {
		require.NoError(t, err)
		added = items
	})
	assert.Equal(t, 0, rows.Len(), "items land on the scheduler, not inline")

	h.clock.Flush()
	assert.Len(t, added, 2)
	assert.Equal(t, 2, rows.Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var fetchErr error
	rows.AddFrom(ctx, src, func(_ []*Instance, err error) { fetchErr = err })
	h.clock.Flush()
	assert.ErrorIs(t, fetchErr, context.Canceled)
	assert.Equal(t, 2, rows.Len())
}

func formWithInputs() Definition {
	return Definition{
		Name: "Profile",
		Scheme: ordered.Of(
			"_", "@form",
			"heading", "@h1(text=Profile)",
			"email", "@input[name=email]",
			"agree", "@input[type=checkbox]",
			"notes", "@textarea",
			"address", "<<<Address",
			"phones", "@div|Phone",
		),
	}
}

func addressDefinitions() []Definition {
	return []Definition{
		{Name: "Address", Scheme: ordered.Of("street", "@input", "label", "@span")},
		{Name: "Phone", Scheme: ordered.Of("number", "@input")},
	}
}

func TestLoadThenGatherCollectsEveryInputOnce(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, append(addressDefinitions(), formWithInputs())...)

	data := map[string]any{
		"heading": "Your profile",
		"email":   "a@example.com",
		"agree":   true,
		"notes":   "hello",
		"address": map[string]any{"street": "Main St", "label": "home"},
		"phones":  []any{map[string]any{"number": "555"}, map[string]any{"number": "777"}},
		"unknown": "ignored",
	}
	inst, err := h.engine.RenderWithData("Profile", nil, data)
	require.NoError(t, err)
	assert.Equal(t, "Your profile", dom.Text(inst.Element("heading")))
	assert.Equal(t, "home", dom.Text(inst.Child("address").Element("label")))

	got, err := inst.GatherData()
	require.NoError(t, err)
	want := map[string]any{
		"email":   "a@example.com",
		"agree":   true,
		"notes":   "hello",
		"address": map[string]any{"street": "Main St"},
		"phones":  []any{map[string]any{"number": "555"}, map[string]any{"number": "777"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected gathered data (-want +got):\n%s", diff)
	}
}

func TestGatherPreventDefaultReplacesOnlyItsKey(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, Definition{
		Name:   "Login",
		Scheme: ordered.Of("user", "@input", "pass", "@input[type=password]"),
		Hooks: map[string]Hook{EventGather: {Run: func(_ *Instance, evt *events.Event) error {
			field := evt.Detail.(*GatherField)
			if field.Key == "pass" {
				field.Value = "***"
				evt.PreventDefault()
			}
			return nil
		}}},
	})

	inst, err := h.engine.RenderWithData("Login", nil, map[string]any{"user": "ann", "pass": "secret"})
	require.NoError(t, err)

	inst.On(EventGather, func(_ *Instance, evt *events.Event) error {
		field := evt.Detail.(*GatherField)
		if field.Key == "pass" {
			field.Value = "redacted"
			evt.PreventDefault()
		}
		return nil
	})

	got, err := inst.GatherData()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": "ann", "pass": "redacted"}, got)
}

func TestLoadPreventDefaultSkipsAssignment(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	var seen map[string]any
	h.register(t, Definition{
		Name:   "Field",
		Scheme: ordered.Of("value", "@input"),
		Hooks: map[string]Hook{EventLoad: {Run: func(_ *Instance, evt *events.Event) error {
			seen = evt.Detail.(map[string]any)
			evt.PreventDefault()
			return nil
		}}},
	})

	inst, err := h.engine.RenderWithData("Field", nil, map[string]any{"value": "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"value": "x"}, seen)
	assert.Equal(t, "", dom.Value(inst.Element("value")))
}

func TestLoadFromProvider(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, Definition{Name: "Field", Scheme: ordered.Of("value", "@input")})
	inst, err := h.engine.Render("Field", nil)
	require.NoError(t, err)

	done := false
	inst.LoadFrom(context.Background(), provider.Static{Records: []map[string]any{{"value": "42"}}}, func(err error) {
		require.NoError(t, err)
		done = true
	})
	h.clock.Flush()
	assert.True(t, done)
	assert.Equal(t, "42", dom.Value(inst.Element("value")))
}

func TestRemoveIsIdempotentAndChildrenFirst(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t,
		Definition{Name: "Leaf", Scheme: "@span", Hooks: map[string]Hook{EventRemove: h.record("leaf")}},
		Definition{Name: "Row", Scheme: "@li", Hooks: map[string]Hook{EventRemove: h.record("row")}},
		Definition{
			Name:   "Tree",
			Scheme: ordered.Of("leaf", "<<<Leaf", "rows", "@ul|Row"),
			Hooks:  map[string]Hook{EventRemove: h.record("tree")},
		},
	)

	tree, err := h.engine.Render("Tree", nil)
	require.NoError(t, err)
	require.NoError(t, h.engine.Attach(tree))
	_, err = tree.Collection("rows").AddOne(nil)
	require.NoError(t, err)

	leaf := tree.Child("leaf")
	leafEl := leaf.Root()
	require.NoError(t, tree.Remove())
	require.NoError(t, tree.Remove())
	require.NoError(t, leaf.Remove())

	assert.Equal(t, []string{"leaf", "row", "tree"}, h.log)
	assert.Nil(t, h.engine.Document().Body().FirstChild)
	assert.Nil(t, tree.Root())
	assert.Nil(t, h.engine.InstanceOf(leafEl))

	_, err = tree.Trigger(EventRender, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"leaf", "row", "tree"}, h.log)
}

func TestRemovingComposedChildAlone(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, cardDefinition(), Definition{Name: "Page", Scheme: ordered.Of("hero", "<<<Card")})

	page, err := h.engine.Render("Page", nil)
	require.NoError(t, err)
	require.NoError(t, page.Child("hero").Remove())
	assert.Nil(t, page.Child("hero"))
	assert.Nil(t, page.Root().FirstChild)

	got, err := page.GatherData()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRenderHookErrorReturnsBuiltInstance(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	h := newHarness(t, Options{})
	card := cardDefinition()
	card.Hooks = map[string]Hook{EventRender: {Run: func(inst *Instance, _ *events.Event) error {
		return boom
	}}}
	h.register(t, card)

	inst, err := h.engine.Render("Card", nil)
	require.ErrorIs(t, err, boom)
	require.NotNil(t, inst)
	require.NotNil(t, inst.Element("title"))
	out, err := inst.HTML()
	require.NoError(t, err)
	assert.Equal(t, `<article class="card box"><h2 class="title">Hi</h2></article>`, out)
}

func TestLoadAndGatherHookErrorsReachTheCaller(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("load refused")
	gatherErr := errors.New("gather refused")
	h := newHarness(t, Options{})
	h.register(t, Definition{
		Name:   "Login",
		Scheme: ordered.Of("_", "@form", "title", "@h1", "email", "@input[name=email]"),
		Hooks: map[string]Hook{
			EventLoad:   {Run: func(*Instance, *events.Event) error { return loadErr }},
			EventGather: {Run: func(*Instance, *events.Event) error { return gatherErr }},
		},
	})

	inst, err := h.engine.Render("Login", nil)
	require.NoError(t, err)

	err = inst.Load(map[string]any{"title": "Welcome"})
	require.ErrorIs(t, err, loadErr)
	assert.Empty(t, dom.Text(inst.Element("title")))

	_, err = h.engine.RenderWithData("Login", nil, map[string]any{"email": "a@example.com"})
	require.ErrorIs(t, err, loadErr)

	got, err := inst.GatherData()
	require.ErrorIs(t, err, gatherErr)
	assert.Nil(t, got)
}

func TestRemoveErrorsAreJoined(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	boom := errors.New("boom")
	h.register(t, Definition{Name: "Bad", Scheme: "@div", Hooks: map[string]Hook{EventRemove: {Run: func(*Instance, *events.Event) error {
		return boom
	}}}})

	inst, err := h.engine.Render("Bad", nil)
	require.NoError(t, err)
	require.ErrorIs(t, inst.Remove(), boom)
	assert.True(t, inst.Removed())
}

func TestInstanceOfUsesSideTable(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, cardDefinition(), Definition{Name: "Page", Scheme: ordered.Of("hero", "<<<Card", "footer", "@footer")})

	page, err := h.engine.Render("Page", nil)
	require.NoError(t, err)
	hero := page.Child("hero")

	text := hero.Element("title").FirstChild
	require.Equal(t, html.TextNode, text.Type)
	assert.Same(t, hero, h.engine.InstanceOf(text))
	assert.Same(t, page, h.engine.InstanceOf(page.Element("footer")))
	assert.Nil(t, h.engine.InstanceOf(dom.NewElement("div")))
}

func TestExtensionsAppliedAndReleased(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, Definition{
		Name:       "Menu",
		Scheme:     ordered.Of("toggle", "@button", "items", "@ul"),
		Extensions: []ExtensionUse{{Key: "toggle", Name: behaviors.ToggleClass, Params: map[string]any{"class": "open"}}},
	})

	menu, err := h.engine.Render("Menu", nil)
	require.NoError(t, err)
	require.NoError(t, h.engine.Attach(menu))
	ext := h.engine.Extensions()
	assert.Equal(t, 1, ext.Count(behaviors.ToggleClass))

	button := menu.Element("toggle")
	_, err = h.engine.Dispatch(button, "click", nil)
	require.NoError(t, err)
	assert.True(t, dom.HasClass(button, "open"))

	_, err = menu.ApplyExtension("", behaviors.CollapseOnOutsideClick, nil)
	require.NoError(t, err)
	_, err = menu.ApplyExtension("missing", behaviors.ToggleClass, nil)
	var missing *tesseraerrors.MissingReferenceError
	require.ErrorAs(t, err, &missing)

	require.NoError(t, menu.Remove())
	assert.Equal(t, 0, ext.Count(behaviors.ToggleClass))
	assert.Equal(t, 0, ext.Count(behaviors.CollapseOnOutsideClick))
	assert.Equal(t, 0, h.engine.Document().Listeners(button, "click"))
}

func TestUnknownExtensionFailsRender(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, Definition{Name: "Menu", Scheme: "@nav", Extensions: []ExtensionUse{{Name: "Sparkles"}}})

	_, err := h.engine.Render("Menu", nil)
	var unknown *tesseraerrors.UnknownExtensionError
	require.ErrorAs(t, err, &unknown)
}

type catalog map[string]string

func (c catalog) Translate(key string) (string, bool) {
	v, ok := c[key]
	return v, ok
}

func TestTranslatedContent(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{Translator: catalog{"greeting": "Bonjour"}})
	h.register(t, Definition{Name: "Hello", Scheme: ordered.Of("title", "@h1(text=i18n:greeting)", "other", "@p(text=i18n:missing)")})

	inst, err := h.engine.Render("Hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", dom.Text(inst.Element("title")))
	assert.Equal(t, "missing", dom.Text(inst.Element("other")))
}

func TestAttachWritesStyleSheet(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	def := cardDefinition()
	def.Styles = ordered.Of("padding", "4px")
	h.register(t, def)

	inst, err := h.engine.Render("Card", nil)
	require.NoError(t, err)
	require.NoError(t, h.engine.Attach(inst))

	out, err := h.engine.Document().Render()
	require.NoError(t, err)
	assert.Contains(t, out, `<style id="tessera-styles">/* Card */`)
	assert.Contains(t, out, ".card {\n  padding: 4px;\n}")
	assert.Contains(t, out, `<body><article class="card box">`)
}

func TestHandleRenders(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	handle, err := h.engine.Register(cardDefinition())
	require.NoError(t, err)
	assert.Equal(t, "Card", handle.Name())

	res, err := handle.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"Card"}, res.Chain)

	inst, err := handle.RenderWithData(Params{"size": "l"}, map[string]any{"title": "Loaded"})
	require.NoError(t, err)
	assert.Equal(t, "Loaded", dom.Text(inst.Element("title")))
	assert.Equal(t, "l", inst.Params()["size"])
}

func TestSpinnerShowAndHide(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t, Definition{Name: "Busy", Kind: KindSpinner, Scheme: "@div.spin"}, cardDefinition())

	card, err := h.engine.Render("Card", nil)
	require.NoError(t, err)
	assert.False(t, hasSpinner(card))

	busy, err := h.engine.Render("Busy", nil)
	require.NoError(t, err)
	spinner, ok := busy.Spinner()
	require.True(t, ok)
	assert.False(t, spinner.Visible())

	shown := false
	spinner.ShowInside(card.Root(), func() { shown = true })
	assert.True(t, shown)
	assert.True(t, spinner.Visible())
	assert.Same(t, card.Root(), busy.Root().Parent)
	opacity, _ := dom.StyleProperty(busy.Root(), "opacity")
	assert.Equal(t, "1", opacity)

	spinner.HideInside(nil)
	assert.False(t, spinner.Visible())
	assert.Nil(t, busy.Root().Parent)
}

func TestRemovingHostKeepsSpinnerShownInsideIt(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t,
		Definition{Name: "Host", Scheme: ordered.Of("_", "@div", "body", "@section")},
		Definition{
			Name:       "Busy",
			Kind:       KindSpinner,
			Scheme:     "@div.spin",
			Extensions: []ExtensionUse{{Name: behaviors.ToggleClass, Params: map[string]any{"class": "paused"}}},
		},
	)

	host, err := h.engine.Render("Host", nil)
	require.NoError(t, err)
	busy, err := h.engine.Render("Busy", nil)
	require.NoError(t, err)
	spinner, ok := busy.Spinner()
	require.True(t, ok)
	spinner.ShowInside(host.Element("body"), nil)

	require.NoError(t, host.Remove())
	assert.False(t, busy.Removed())
	assert.Equal(t, 1, h.engine.Extensions().Count(behaviors.ToggleClass))
	assert.Equal(t, 1, h.engine.Document().Listeners(busy.Root(), "click"))

	_, err = h.engine.Dispatch(busy.Root(), "click", nil)
	require.NoError(t, err)
	assert.True(t, dom.HasClass(busy.Root(), "paused"))
}

func hasSpinner(inst *Instance) bool {
	_, ok := inst.Spinner()
	return ok
}

type recordingAnimator struct {
	clock *loop.Manual
	calls []map[string]float64
}

func (a *recordingAnimator) Animate(el *html.Node, to map[string]float64, d time.Duration, done func()) {
	a.calls = append(a.calls, to)
	a.clock.AfterFunc(d, done)
}

func TestSpinnerFadesThroughAnimator(t *testing.T) {
	t.Parallel()

	clock := loop.NewManual()
	anim := &recordingAnimator{clock: clock}
	h := newHarness(t, Options{Scheduler: clock, Animator: anim})
	h.register(t, Definition{Name: "Busy", Kind: KindSpinner, Scheme: "@div", Params: Params{"fade": 300}})

	busy, err := h.engine.Render("Busy", nil)
	require.NoError(t, err)
	spinner, _ := busy.Spinner()
	target := dom.NewElement("section")

	shown := false
	spinner.ShowInside(target, func() { shown = true })
	assert.False(t, shown)
	clock.Advance(299 * time.Millisecond)
	assert.False(t, shown)
	clock.Advance(time.Millisecond)
	assert.True(t, shown)

	hidden := false
	spinner.HideInside(func() { hidden = true })
	assert.Same(t, target, busy.Root().Parent, "stays attached while fading out")
	clock.Advance(300 * time.Millisecond)
	assert.True(t, hidden)
	assert.Nil(t, busy.Root().Parent)
	assert.Equal(t, []map[string]float64{{"opacity": 1}, {"opacity": 0}}, anim.calls)
}

func TestLayoutMountsIntoRegions(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t,
		Definition{Name: "Shell", Kind: KindLayout, Scheme: ordered.Of("header", "@header", "main", "@main"), Hooks: map[string]Hook{EventRemove: h.record("shell")}},
		Definition{Name: "Panel", Scheme: "@div", Hooks: map[string]Hook{EventRemove: h.record("panel")}},
	)

	shell, err := h.engine.Render("Shell", nil)
	require.NoError(t, err)
	panel, err := h.engine.Render("Panel", nil)
	require.NoError(t, err)

	layout, ok := shell.Layout()
	require.True(t, ok)
	_, ok = panel.Layout()
	assert.False(t, ok)

	require.NoError(t, layout.Mount("main", panel))
	assert.Same(t, shell.Element("main"), panel.Root().Parent)
	assert.Same(t, shell, panel.ParentInstance())
	assert.Equal(t, []*Instance{panel}, layout.Mounted())

	err = layout.Mount("sidebar", panel)
	var missing *tesseraerrors.MissingReferenceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "layout region", missing.Role)

	require.NoError(t, shell.Remove())
	assert.Equal(t, []string{"panel", "shell"}, h.log)
	assert.True(t, panel.Removed())
}

func TestLayoutUnmountKeepsChildAlive(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.register(t,
		Definition{Name: "Shell", Kind: KindLayout, Scheme: ordered.Of("main", "@main")},
		Definition{Name: "Panel", Scheme: "@div"},
	)
	shell, err := h.engine.Render("Shell", nil)
	require.NoError(t, err)
	panel, err := h.engine.Render("Panel", nil)
	require.NoError(t, err)

	layout, _ := shell.Layout()
	require.NoError(t, layout.Mount("main", panel))
	layout.Unmount(panel)
	assert.Empty(t, layout.Mounted())
	assert.Nil(t, panel.ParentInstance())

	require.NoError(t, shell.Remove())
	assert.False(t, panel.Removed())
}
