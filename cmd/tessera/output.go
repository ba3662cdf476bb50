package main

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
)

func isTerminal(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

type status int

const (
	statusOK status = iota
	statusFail
	statusWarn
)

func formatStatus(w io.Writer, s status, text string) string {
	unicode := isTerminal(w)
	var icon string
	var style lipgloss.Style
	switch s {
	case statusOK:
		icon, style = "[OK]", okStyle
		if unicode {
			icon = "✔"
		}
	case statusFail:
		icon, style = "[XX]", failStyle
		if unicode {
			icon = "✖"
		}
	default:
		icon, style = "[!!]", warnStyle
		if unicode {
			icon = "⚠"
		}
	}
	if !unicode {
		return icon + " " + text
	}
	return style.Render(icon) + " " + text
}

func heading(w io.Writer, text string) string {
	if !isTerminal(w) {
		return text
	}
	return headingStyle.Render(text)
}

func valueOrFallback(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
