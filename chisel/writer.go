package chisel

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/wasmx/chisel/chisel/backend"
)

// StdoutSentinel is the output path value meaning "write to standard output"
// rather than a file. Writing raw binary (mode "bin") to it is a writer
// error, per SPEC_FULL.md §4.4 — a terminal full of null bytes helps no one.
const StdoutSentinel = "-"

// Write encodes r's mutated module and writes it to r.Output in the given
// mode ("bin", "hex", "wat"). It returns false with no side effect if no
// mutated module is present, or if the result's output was already taken by
// a prior Write call — taking the output transfers ownership.
func (r *RulesetResult) Write(mode string, dis backend.Disassembler) (bool, error) {
	if r.Module == nil {
		return false, nil
	}
	if r.written {
		return false, nil
	}

	data := r.Module.Encode()

	switch mode {
	case "bin":
		if r.Output == StdoutSentinel {
			return false, fmt.Errorf("chisel: refusing to write raw binary to standard output")
		}
		if err := os.WriteFile(r.Output, data, 0o644); err != nil {
			return false, err
		}
	case "hex":
		encoded := []byte(hex.EncodeToString(data))
		if err := writeBytes(r.Output, encoded); err != nil {
			return false, err
		}
	case "wat":
		if dis == nil {
			return false, fmt.Errorf("chisel: wat output mode requires a disassembler")
		}
		text, err := dis.Disassemble(data)
		if err != nil {
			return false, err
		}
		if err := writeBytes(r.Output, text); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("chisel: unknown writer mode %q", mode)
	}

	r.written = true
	return true, nil
}

func writeBytes(path string, data []byte) error {
	if path == StdoutSentinel {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Display renders one colourised line per pass outcome to w, in the style of
// the reference implementation's ansi_term-based result printer: green
// "OK"/red "FAILED" for Creator outcomes, yellow "MUTATED"/green "NO CHANGE"
// for Translator outcomes, green "VALID"/red "INVALID" for Validator
// outcomes, bold red "ERROR: <message>" for any pass-level error.
func (r *RulesetResult) Display(w io.Writer, useColor bool) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	mutated := color.New(color.FgYellow)
	errColor := color.New(color.FgRed, color.Bold)
	if !useColor {
		ok.DisableColor()
		bad.DisableColor()
		mutated.DisableColor()
		errColor.DisableColor()
	}

	fmt.Fprintf(w, "%s (%s):\n", r.Name, r.Output)
	for _, o := range r.Outcomes {
		fmt.Fprintf(w, "  %-20s ", o.Identity)
		if o.Err != nil {
			errColor.Fprintf(w, "ERROR: %s\n", o.Err)
			continue
		}
		switch o.Capability {
		case CapabilityCreator:
			if o.Ok {
				ok.Fprintln(w, "OK")
			} else {
				bad.Fprintln(w, "FAILED")
			}
		case CapabilityTranslator:
			if o.Ok {
				mutated.Fprintln(w, "MUTATED")
			} else {
				ok.Fprintln(w, "NO CHANGE")
			}
		case CapabilityValidator:
			if o.Ok {
				ok.Fprintln(w, "VALID")
			} else {
				bad.Fprintln(w, "INVALID")
			}
		}
	}
}
