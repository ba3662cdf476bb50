package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type compileOptions struct {
	output string
}

func newCompileCmd(root *rootFlags) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile [paths...]",
		Short: "Resolve every definition and emit the combined stylesheet",
		Long: `Compile resolves the inheritance chain of every definition found under the
given files or directories and writes one stylesheet: the base sheet, the
global styles, then one block per definition.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the stylesheet to a file instead of stdout")

	return cmd
}

func runCompile(cmd *cobra.Command, root *rootFlags, opts *compileOptions, paths []string) error {
	ws, err := loadWorkspace(cmd, root, paths)
	if err != nil {
		return err
	}
	if errs := resolveAll(ws.engine); len(errs) > 0 {
		return newCommandError("compile", "resolving definitions", errors.Join(errs...), "Run 'tessera check' for a full report.")
	}
	css := ws.engine.Registry().Sheet().CSS()

	if opts.output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), css)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(css), 0o644); err != nil {
		return newCommandError("compile", "writing "+opts.output, err, "Check the output path permissions.")
	}
	ws.log.WithFields(map[string]any{"path": opts.output, "bytes": len(css)}).Info("stylesheet written")
	return nil
}
