package tui

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next, cmd
}

func TestUpdateMovesCursorWithinBounds(t *testing.T) {
	t.Parallel()

	m := NewModel(newTestEngine(t))
	m, _ = send(t, m, key("up"))
	assert.Equal(t, 0, m.cursor)

	m, _ = send(t, m, key("j"))
	m, _ = send(t, m, key("down"))
	m, _ = send(t, m, key("down"))
	assert.Equal(t, 2, m.cursor)
	assert.Equal(t, "Broken", m.Selected())

	m, _ = send(t, m, key("k"))
	assert.Equal(t, "Panel", m.Selected())
}

func TestUpdateWindowSizeResizesViewport(t *testing.T) {
	t.Parallel()

	m := NewModel(newTestEngine(t))
	m, cmd := send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 120, m.viewport.Width)
	assert.Equal(t, 40-chromeHeight, m.viewport.Height)

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 10, Height: 2})
	assert.Equal(t, 1, m.viewport.Height)
}

func TestUpdateEnterRendersSelection(t *testing.T) {
	t.Parallel()

	m := NewModel(newTestEngine(t))
	m, cmd := send(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.rendering)

	// A second enter while rendering is ignored.
	_, again := send(t, m, key("enter"))
	assert.Nil(t, again)

	ready := renderCmd(m.engine, "Card")()
	m, _ = send(t, m, ready)
	assert.False(t, m.rendering)
	assert.Equal(t, ViewDetail, m.Mode())
	assert.Contains(t, m.viewport.View(), "<article")

	m, _ = send(t, m, key("tab"))
	assert.Equal(t, PaneCSS, m.ActivePane())
	assert.Contains(t, m.viewport.View(), "padding: 4px")

	m, _ = send(t, m, key("tab"))
	assert.Equal(t, PaneChain, m.ActivePane())
	m, _ = send(t, m, key("shift+tab"))
	assert.Equal(t, PaneCSS, m.ActivePane())

	m, _ = send(t, m, key("esc"))
	assert.Equal(t, ViewList, m.Mode())

	// Cached previews open without rendering again.
	m, cmd = send(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, ViewDetail, m.Mode())
}

func TestUpdateRenderErrorStaysOnList(t *testing.T) {
	t.Parallel()

	m := NewModel(newTestEngine(t))
	m.rendering = true
	m, _ = send(t, m, PreviewErrorMsg{Name: "Broken", Error: errors.New("missing definition")})
	assert.False(t, m.rendering)
	assert.Equal(t, ViewList, m.Mode())
	assert.Equal(t, "missing definition", m.errMsg)
}

func TestUpdateSpinnerTicksOnlyWhileRendering(t *testing.T) {
	t.Parallel()

	m := NewModel(newTestEngine(t))
	_, cmd := send(t, m, spinner.TickMsg{})
	assert.Nil(t, cmd)

	m.rendering = true
	_, cmd = send(t, m, m.spinner.Tick())
	assert.NotNil(t, cmd)
}

func TestUpdateQuit(t *testing.T) {
	t.Parallel()

	for _, k := range []string{"q", "ctrl+c"} {
		m := NewModel(newTestEngine(t))
		_, cmd := send(t, m, key(k))
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}
