package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the model.
func (m Model) View() string {
	if m.mode == ViewDetail {
		return m.detailView()
	}
	return m.listView()
}

func (m Model) listView() string {
	sections := []string{titleStyle.Render(fmt.Sprintf("Tessera • %d definitions", len(m.names)))}

	if len(m.names) == 0 {
		sections = append(sections, itemStyle.Render("no definitions registered"))
	}
	for i, name := range m.names {
		line := name
		if def, ok := m.engine.Registry().Get(name); ok {
			if def.Extends != "" {
				line += kindStyle.Render(" extends " + def.Extends)
			}
			if def.Kind != "" {
				line += kindStyle.Render(" [" + string(def.Kind) + "]")
			}
		}
		if i == m.cursor {
			sections = append(sections, selectedStyle.Render("> "+line))
		} else {
			sections = append(sections, itemStyle.Render(line))
		}
	}

	if m.rendering {
		sections = append(sections, m.spinner.View()+" rendering "+m.Selected())
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}
	sections = append(sections, helpStyle.Render("↑/↓ move • enter preview • q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) detailView() string {
	p := m.previews[m.Selected()]
	var tabs []string
	for i, name := range paneNames {
		if Pane(i) == m.pane {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}

	sections := []string{
		titleStyle.Render(fmt.Sprintf("%s (%s)", p.Name, p.Kind)),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		m.viewport.View(),
	}
	if len(p.Warnings) > 0 {
		sections = append(sections, warningStyle.Render(strings.Join(p.Warnings, "\n")))
	}
	sections = append(sections, helpStyle.Render("tab switch pane • esc back • q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
