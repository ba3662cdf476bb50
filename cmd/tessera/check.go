package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type checkOptions struct {
	jsonOutput bool
}

type checkReport struct {
	Definitions int      `json:"definitions"`
	Missing     []string `json:"missing,omitempty"`
	Cycle       []string `json:"cycle,omitempty"`
	Failures    []string `json:"failures,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

func (r checkReport) ok() bool {
	return len(r.Missing) == 0 && len(r.Cycle) == 0 && len(r.Failures) == 0
}

var errCheckFailed = errors.New("definition check failed")

func newCheckCmd(root *rootFlags) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Validate references, inheritance and styles of every definition",
		Long: `Check reports references to unregistered definitions, inheritance or
composition cycles, and definitions that fail to resolve. It exits non-zero
when any problem is found; style warnings are reported but do not fail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, root, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the report in JSON format")

	return cmd
}

func runCheck(cmd *cobra.Command, root *rootFlags, opts *checkOptions, paths []string) error {
	ws, err := loadWorkspace(cmd, root, paths)
	if err != nil {
		return err
	}
	reg := ws.engine.Registry()

	report := checkReport{Definitions: len(reg.Names())}
	for _, err := range reg.Missing() {
		report.Missing = append(report.Missing, err.Error())
	}
	report.Cycle = reg.Graph().DetectCycles()

	for _, name := range reg.Names() {
		res, err := reg.Resolve(name)
		if err != nil {
			report.Failures = append(report.Failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		for _, w := range res.Warnings {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %s", name, w))
		}
	}

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
	} else {
		printCheckReport(cmd, report)
	}

	if !report.ok() {
		return errCheckFailed
	}
	return nil
}

func printCheckReport(cmd *cobra.Command, report checkReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, heading(out, fmt.Sprintf("Checked %d definitions", report.Definitions)))

	for _, m := range report.Missing {
		fmt.Fprintln(out, formatStatus(out, statusFail, m))
	}
	if len(report.Cycle) > 0 {
		fmt.Fprintln(out, formatStatus(out, statusFail, "cycle: "+strings.Join(report.Cycle, " -> ")))
	}
	for _, f := range report.Failures {
		fmt.Fprintln(out, formatStatus(out, statusFail, f))
	}
	for _, w := range report.Warnings {
		fmt.Fprintln(out, formatStatus(out, statusWarn, w))
	}
	if report.ok() {
		fmt.Fprintln(out, formatStatus(out, statusOK, "all definitions resolve"))
	}
}
