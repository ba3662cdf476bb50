package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const chromeHeight = 6

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		return m, nil

	case spinner.TickMsg:
		if !m.rendering {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PreviewReadyMsg:
		m.rendering = false
		m.errMsg = ""
		m.previews[msg.Preview.Name] = msg.Preview
		if msg.Preview.Name == m.Selected() {
			m.mode = ViewDetail
			m.refreshViewport()
		}
		return m, nil

	case PreviewErrorMsg:
		m.rendering = false
		m.errMsg = msg.Error.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	if m.mode == ViewDetail {
		switch msg.String() {
		case "esc", "backspace":
			m.mode = ViewList
			return m, nil
		case "tab":
			m.pane = (m.pane + 1) % Pane(len(paneNames))
			m.refreshViewport()
			return m, nil
		case "shift+tab":
			m.pane = (m.pane + Pane(len(paneNames)) - 1) % Pane(len(paneNames))
			m.refreshViewport()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter":
		if m.rendering || len(m.names) == 0 {
			return m, nil
		}
		if _, ok := m.previews[m.Selected()]; ok {
			m.mode = ViewDetail
			m.refreshViewport()
			return m, nil
		}
		m.rendering = true
		m.errMsg = ""
		return m, tea.Batch(m.spinner.Tick, renderCmd(m.engine, m.Selected()))
	}
	return m, nil
}
