package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/tessera/internal/tui"
)

var errNotATerminal = errors.New("preview needs an interactive terminal")

func newPreviewCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [paths...]",
		Short: "Browse definitions and their rendered markup interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, root, args)
		},
	}

	return cmd
}

func runPreview(cmd *cobra.Command, root *rootFlags, paths []string) error {
	if !isTerminal(cmd.OutOrStdout()) {
		return newCommandError("preview", "checking output", errNotATerminal, "Use 'tessera render' or 'tessera compile' when piping output.")
	}

	ws, err := loadWorkspace(cmd, root, paths)
	if err != nil {
		return err
	}
	ws.log.Info("launching preview")

	p := tea.NewProgram(tui.NewModel(ws.engine), tea.WithAltScreen(), tea.WithOutput(cmd.OutOrStdout()))
	if _, err := p.Run(); err != nil {
		ws.log.Error(err, "preview execution failed")
		return fmt.Errorf("failed to run preview: %w", err)
	}
	return nil
}
