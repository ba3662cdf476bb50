// Package tui implements the interactive definition browser behind
// "tessera preview".
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/tessera/internal/ui"
)

// ViewMode selects between the definition list and one definition's detail.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// Pane is a tab of the detail view.
type Pane int

const (
	PaneHTML Pane = iota
	PaneCSS
	PaneChain
)

var paneNames = []string{"HTML", "CSS", "Chain"}

// Preview is the rendered output of one definition.
type Preview struct {
	Name     string
	Kind     ui.Kind
	HTML     string
	CSS      string
	Chain    []string
	Warnings []string
}

// Model is the Bubbletea state of the preview browser.
type Model struct {
	engine *ui.Engine
	names  []string

	mode   ViewMode
	cursor int
	pane   Pane

	viewport  viewport.Model
	spinner   spinner.Model
	rendering bool
	previews  map[string]Preview
	errMsg    string

	width  int
	height int
}

// NewModel builds a browser over every definition registered in engine.
func NewModel(engine *ui.Engine) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle

	return Model{
		engine:   engine,
		names:    engine.Registry().Names(),
		viewport: viewport.New(80, 20),
		spinner:  s,
		previews: make(map[string]Preview),
	}
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return nil
}

// Selected returns the definition under the cursor.
func (m Model) Selected() string {
	if len(m.names) == 0 {
		return ""
	}
	return m.names[m.cursor]
}

// Mode returns the current view mode.
func (m Model) Mode() ViewMode { return m.mode }

// ActivePane returns the detail tab being shown.
func (m Model) ActivePane() Pane { return m.pane }

func (m *Model) refreshViewport() {
	p, ok := m.previews[m.Selected()]
	if !ok {
		m.viewport.SetContent("")
		return
	}
	switch m.pane {
	case PaneCSS:
		m.viewport.SetContent(p.CSS)
	case PaneChain:
		m.viewport.SetContent(strings.Join(p.Chain, "\n"))
	default:
		m.viewport.SetContent(p.HTML)
	}
	m.viewport.GotoTop()
}
