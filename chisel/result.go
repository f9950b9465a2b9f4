package chisel

import "github.com/wasmx/chisel/wasm"

// PassCapability tags which capability a PassOutcome was produced under.
type PassCapability int

const (
	CapabilityCreator PassCapability = iota
	CapabilityTranslator
	CapabilityValidator
)

func (c PassCapability) String() string {
	switch c {
	case CapabilityCreator:
		return "creator"
	case CapabilityTranslator:
		return "translator"
	case CapabilityValidator:
		return "validator"
	default:
		return "unknown"
	}
}

// PassOutcome records one pass's result within a ruleset run. Ok's meaning
// depends on Capability: for a Creator it is whether creation succeeded,
// for a Translator whether the module changed, for a Validator the verdict.
// Err is set instead of Ok on a pass-level failure (chiselerr.PassError).
type PassOutcome struct {
	Identity   string
	Capability PassCapability
	Ok         bool
	Err        error
}

// RulesetResult is the per-ruleset outcome the driver accumulates:
// ruleset name, output destination, the mutated module (nil if no
// Creator/Translator reported a change), and the ordered pass outcomes.
type RulesetResult struct {
	Name     string
	Output   string
	Module   *wasm.Module
	Outcomes []PassOutcome

	written bool
}

// AnyValidatorFailed reports whether any Validator outcome in this result
// was false, the signal the CLI's exit-status rule (SPEC_FULL.md §6) counts.
func (r *RulesetResult) AnyValidatorFailed() bool {
	for _, o := range r.Outcomes {
		if o.Capability == CapabilityValidator && o.Err == nil && !o.Ok {
			return true
		}
	}
	return false
}

// AnyPassError reports whether any pass in this result returned an error.
func (r *RulesetResult) AnyPassError() bool {
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return true
		}
	}
	return false
}
