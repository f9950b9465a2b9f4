package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chisel/verify"
	"github.com/wasmx/chisel/config"
)

// newSmokeTestCmd builds "chisel smoke-test <config.yaml>": it fires the
// ruleset to completion exactly like "chisel run", then instantiates each
// ruleset's final rewritten module (falling back to its original input if no
// pass mutated it) under a stub host and calls its entry export, to catch
// import/export wiring mistakes a purely structural pipeline cannot (a
// remapimports-then-verifyimports ruleset can type-check while still having
// no matching host function behind it). SPEC_FULL.md §6.4.
func newSmokeTestCmd() *cobra.Command {
	var entry string
	cmd := &cobra.Command{
		Use:   "smoke-test <config.yaml>",
		Short: "fire a ruleset, then instantiate each result against a stub ethereum-flavoured host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("chisel smoke-test: %w", err)
			}
			cfg, err := config.LoadYAML(data)
			if err != nil {
				return fmt.Errorf("chisel smoke-test: %w", err)
			}

			ctx := logContext()
			driver := chisel.NewDriver(cfg)
			for driver.Fire(ctx) == chisel.Error {
			}
			results, driverErr := driver.TakeResults()
			if driverErr != nil {
				exitCode = 1
				return driverErr
			}

			failures := 0
			for i, r := range results {
				var binary []byte
				if r.Module != nil {
					binary = r.Module.Encode()
				} else if i < len(cfg.Rulesets) {
					raw, err := os.ReadFile(cfg.Rulesets[i].File)
					if err != nil {
						failures++
						fmt.Fprintf(os.Stderr, "smoke-test: %s: re-reading unmutated input: %v\n", r.Name, err)
						continue
					}
					binary = raw
				}
				res := verify.Run(ctx, binary, entry)
				switch {
				case res.Err != nil:
					failures++
					fmt.Fprintf(os.Stderr, "smoke-test: %s: %v\n", r.Name, res.Err)
				case entry != "":
					fmt.Fprintf(os.Stderr, "smoke-test: %s: instantiated and called %q successfully\n", r.Name, entry)
				default:
					fmt.Fprintf(os.Stderr, "smoke-test: %s: instantiated successfully\n", r.Name)
				}
			}

			exitCode = failures
			return nil
		},
	}
	cmd.Flags().StringVar(&entry, "entry", "main", "exported function to call after instantiation; empty skips the call")
	return cmd
}
