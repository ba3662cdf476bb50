package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/tessera/internal/ui"
)

type listOptions struct {
	jsonOutput bool
	ordered    bool
}

type listEntry struct {
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	Extends      string   `json:"extends,omitempty"`
	Interfaces   []string `json:"interfaces,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

func newListCmd(root *rootFlags) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List registered definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, root, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&opts.ordered, "deps-first", false, "Order definitions so dependencies come before their dependents")

	return cmd
}

func runList(cmd *cobra.Command, root *rootFlags, opts *listOptions, paths []string) error {
	ws, err := loadWorkspace(cmd, root, paths)
	if err != nil {
		return err
	}
	reg := ws.engine.Registry()
	graph := reg.Graph()

	names := reg.Names()
	if opts.ordered {
		names, err = graph.TopologicalSort()
		if err != nil {
			return newCommandError("list", "ordering definitions", err, "Run 'tessera check' to locate the cycle.")
		}
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No definitions found.")
		return nil
	}

	entries := make([]listEntry, 0, len(names))
	for _, name := range names {
		def, ok := reg.Get(name)
		if !ok {
			continue
		}
		entries = append(entries, listEntry{
			Name:         name,
			Kind:         string(kindOf(def)),
			Extends:      def.Extends,
			Interfaces:   def.Interfaces,
			Dependencies: graph.Dependencies(name),
		})
	}

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tKIND\tEXTENDS\tINTERFACES")
	for _, e := range entries {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
			e.Name,
			e.Kind,
			valueOrFallback(e.Extends, "-"),
			valueOrFallback(strings.Join(e.Interfaces, ","), "-"),
		)
	}
	return writer.Flush()
}

func kindOf(def *ui.Definition) ui.Kind {
	if def.Kind == "" {
		return ui.KindStandard
	}
	return def.Kind
}
