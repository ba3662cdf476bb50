package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/tessera/internal/ui"
)

// PreviewReadyMsg carries a rendered definition.
type PreviewReadyMsg struct {
	Preview Preview
}

// PreviewErrorMsg reports a definition that failed to resolve or render.
type PreviewErrorMsg struct {
	Name  string
	Error error
}

// RenderPreview resolves and renders name, then removes the instance again.
func RenderPreview(engine *ui.Engine, name string) (Preview, error) {
	res, err := engine.Registry().Resolve(name)
	if err != nil {
		return Preview{}, err
	}
	inst, err := engine.Render(name, nil)
	if err != nil {
		if inst != nil {
			err = errors.Join(err, inst.Remove())
		}
		return Preview{}, err
	}
	markup, err := inst.HTML()
	if removeErr := inst.Remove(); removeErr != nil {
		err = errors.Join(err, fmt.Errorf("remove preview instance: %w", removeErr))
	}
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		Name:     name,
		Kind:     res.Kind,
		HTML:     markup,
		CSS:      res.CSS,
		Chain:    res.Chain,
		Warnings: res.Warnings,
	}, nil
}

func renderCmd(engine *ui.Engine, name string) tea.Cmd {
	return func() tea.Msg {
		p, err := RenderPreview(engine, name)
		if err != nil {
			return PreviewErrorMsg{Name: name, Error: err}
		}
		return PreviewReadyMsg{Preview: p}
	}
}
