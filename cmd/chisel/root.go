package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wasmx/chisel/internal/clog"

	_ "github.com/wasmx/chisel/chisel/passes"
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	verbose int
	noColor bool
}

var flags globalFlags

// exitCode is set by a subcommand's RunE before returning, and read by
// Execute once cobra has finished. It follows §6's rule: 0 on success,
// non-zero on a driver error or, in config-driven mode, the count of
// rulesets with a failed validator.
var exitCode int

// Execute builds and runs the command tree, returning the process exit
// status. os.Exit is confined to main.go.
func Execute() int {
	root := &cobra.Command{
		Use:           "chisel",
		Short:         "rewrite and validate post-compilation Wasm contract binaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().CountVarP(&flags.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colorized output")

	root.AddCommand(newRunCmd(), newOnelinerCmd(), newSmokeTestCmd())

	if err := root.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "chisel:", err)
		return 1
	}
	return exitCode
}

// logContext builds the context carrying this invocation's logger, per the
// global --verbose flag (SPEC_FULL.md §5).
func logContext() context.Context {
	return clog.WithLogger(context.Background(), clog.New(flags.verbose))
}
