package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chisel/backend"
	"github.com/wasmx/chisel/config"
)

func newRunCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "fire a YAML ruleset configuration to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("chisel run: %w", err)
			}
			cfg, err := config.LoadYAML(data)
			if err != nil {
				return fmt.Errorf("chisel run: %w", err)
			}
			return runDriver(cfg, mode)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "bin", "writer mode for mutated modules: bin, hex, wat")
	return cmd
}

func newOnelinerCmd() *cobra.Command {
	var file, output, passesCSV, optionsCSV, mode string
	cmd := &cobra.Command{
		Use:   "oneliner",
		Short: "build and fire a single ruleset from flags, without a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Oneliner(file, output, passesCSV, optionsCSV)
			return runDriver(cfg, mode)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "input module path")
	cmd.Flags().StringVar(&output, "output", "", "output path (default: input path)")
	cmd.Flags().StringVar(&passesCSV, "passes", "", "comma-separated pass identities")
	cmd.Flags().StringVar(&optionsCSV, "options", "", "comma-separated pass.option=value entries")
	cmd.Flags().StringVar(&mode, "mode", "bin", "writer mode for mutated modules: bin, hex, wat")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("passes")
	return cmd
}

// runDriver fires cfg's rulesets to completion, writes any mutated modules,
// prints colourised results to stderr, and sets the process exit status per
// SPEC_FULL.md §6: non-zero on a driver error, else the count of rulesets
// with a failed validator.
func runDriver(cfg *config.Config, mode string) error {
	ctx := logContext()
	driver := chisel.NewDriver(cfg)

	for driver.Fire(ctx) == chisel.Error {
		// Fire is re-entrant: it stops at the first failing ruleset but keeps
		// prior results, so calling it again resumes with the next one.
	}

	results, driverErr := driver.TakeResults()

	var dis backend.Disassembler
	if mode == "wat" {
		dis = backend.Wasm2WatDisassembler{}
	}

	failedValidators := 0
	for _, r := range results {
		r.Display(os.Stderr, !flags.noColor)
		if r.AnyValidatorFailed() {
			failedValidators++
		}
		if _, err := r.Write(mode, dis); err != nil {
			fmt.Fprintf(os.Stderr, "chisel: writing %q: %v\n", r.Output, err)
		}
	}

	switch {
	case driverErr != nil:
		exitCode = 1
		return driverErr
	case failedValidators > 0:
		exitCode = failedValidators
	default:
		exitCode = 0
	}
	return nil
}
