package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/tessera/internal/provider"
	"github.com/alexisbeaulieu97/tessera/internal/ui"
)

type renderOptions struct {
	dataPath  string
	params    map[string]string
	withStyle bool
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <definition> [paths...]",
		Short: "Instantiate a definition and print its markup",
		Long: `Render instantiates one definition with optional parameters and loads data
into it. The data file holds a single YAML mapping; its keys are routed to the
instance's elements, composed children and repeatable collections.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts, args[0], args[1:])
		},
	}

	cmd.Flags().StringVarP(&opts.dataPath, "data", "d", "", "YAML file with the data to load")
	cmd.Flags().StringToStringVarP(&opts.params, "param", "p", nil, "Instantiation parameter (key=value, repeatable)")
	cmd.Flags().BoolVar(&opts.withStyle, "style", false, "Prepend a <style> element with the compiled stylesheet")

	return cmd
}

func runRender(cmd *cobra.Command, root *rootFlags, opts *renderOptions, name string, paths []string) error {
	ws, err := loadWorkspace(cmd, root, paths)
	if err != nil {
		return err
	}
	if !ws.engine.Registry().Has(name) {
		return newCommandError("render", name, fmt.Errorf("definition %q not found", name), "Run 'tessera list' to see the registered definitions.")
	}

	data, err := readData(cmd.Context(), opts.dataPath)
	if err != nil {
		return newCommandError("render", "reading data", err, "The data file must hold one YAML mapping.")
	}

	params := make(ui.Params, len(opts.params))
	for k, v := range opts.params {
		params[k] = v
	}

	inst, err := ws.engine.RenderWithData(name, params, data)
	if err != nil {
		if inst != nil {
			err = errors.Join(err, inst.Remove())
		}
		return newCommandError("render", name, err, "Run 'tessera check' to validate the definition.")
	}
	ws.clock.Flush()

	markup, err := inst.HTML()
	if err != nil {
		return newCommandError("render", name, err, "The rendered tree could not be serialized.")
	}
	out := cmd.OutOrStdout()
	if opts.withStyle {
		fmt.Fprintf(out, "<style>\n%s</style>\n", ws.engine.Registry().Sheet().CSS())
	}
	fmt.Fprintln(out, markup)
	return inst.Remove()
}

// readData loads the data file through the YAML provider.
func readData(ctx context.Context, path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	type result struct {
		records []map[string]any
		err     error
	}
	ch := make(chan result, 1)
	provider.YAMLFile{Path: path}.Fetch(ctx, func(records []map[string]any, err error) {
		ch <- result{records, err}
	})

	var res result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.err != nil {
		return nil, res.err
	}
	switch len(res.records) {
	case 0:
		return nil, nil
	case 1:
		return res.records[0], nil
	default:
		return nil, fmt.Errorf("%s: expected one mapping, found %d records", path, len(res.records))
	}
}
