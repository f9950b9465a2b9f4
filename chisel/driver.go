package chisel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/config"
	"github.com/wasmx/chisel/internal/clog"
	"github.com/wasmx/chisel/wasm"
	"github.com/wasmx/chisel/wat"
)

// State is one of the driver's three states (SPEC_FULL.md §4.3).
type State int

const (
	Ready State = iota
	Error
	Done
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Error:
		return "error"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

var watMagic = []byte{'(', 'm', 'o', 'd', 'u', 'l', 'e'}
var binaryMagic = []byte{0x00, 0x61, 0x73, 0x6d}

// Driver runs a Config's rulesets to completion, one pass at a time,
// advancing through Ready -> (Error | Done). Fire is re-entrant: calling it
// again after it stops in Error resumes with the next unprocessed ruleset,
// preserving every result already accumulated (SPEC_FULL.md §4.3, §7).
type Driver struct {
	rulesets []config.Ruleset
	next     int
	state    State
	results  []*RulesetResult
	lastErr  *chiselerr.DriverError
}

// NewDriver builds a Driver in the Ready state for cfg's rulesets.
func NewDriver(cfg *config.Config) *Driver {
	return &Driver{rulesets: cfg.Rulesets}
}

// State reports the driver's current state.
func (d *Driver) State() State { return d.state }

// Fire advances the driver: it processes rulesets in order until either the
// configuration is exhausted (-> Done) or one ruleset fails (-> Error). A
// failing ruleset's result (if any partial outcomes were recorded) is kept;
// processing of that ruleset stops, but prior rulesets' results are
// retained and a subsequent Fire call resumes with the next ruleset.
func (d *Driver) Fire(ctx context.Context) State {
	for d.next < len(d.rulesets) {
		rs := d.rulesets[d.next]
		d.next++

		result, derr := d.runRuleset(ctx, rs)
		if result != nil {
			d.results = append(d.results, result)
		}
		if derr != nil {
			d.state = Error
			d.lastErr = derr
			return d.state
		}
	}
	d.state = Done
	d.lastErr = nil
	return d.state
}

// TakeResults returns the results accumulated so far and the driver-level
// error if the driver stopped in Error. It is only valid once the driver has
// left Ready; calling it while Ready returns an error rather than panicking,
// per the Go port's resolution of the "take_result on Ready" open question
// (DESIGN.md).
func (d *Driver) TakeResults() ([]*RulesetResult, error) {
	if d.state == Ready {
		return nil, chiselerr.NewInternal("driver", "take_results", errNotReady)
	}
	return d.results, d.lastErr
}

var errNotReady = driverNotReadyErr{}

type driverNotReadyErr struct{}

func (driverNotReadyErr) Error() string {
	return "chisel: results requested before the driver reached a terminal state"
}

func (d *Driver) runRuleset(ctx context.Context, rs config.Ruleset) (*RulesetResult, *chiselerr.DriverError) {
	log := clog.FromContext(ctx)

	if rs.File == "" {
		return nil, chiselerr.NewMissingRequiredField(rs.Name, "file")
	}
	path, err := filepath.Abs(rs.File)
	if err != nil {
		return nil, chiselerr.NewPathResolution(rs.Name, rs.File)
	}
	output := rs.Output
	if output == "" {
		output = rs.File
	}

	result := &RulesetResult{Name: rs.Name, Output: output}

	raw, err := os.ReadFile(path)
	if err != nil {
		return result, chiselerr.NewInternal(rs.Name, "read input", err)
	}

	m, err := decodeModule(raw)
	if err != nil {
		return result, chiselerr.NewInternal(rs.Name, "decode module", err)
	}
	if err := m.ParseNames(); err != nil {
		return result, chiselerr.NewInternal(rs.Name, "parse names section", err)
	}

	for _, pc := range rs.Passes {
		pass, err := New(pc.Identity, pc.Options)
		if err != nil {
			if de, ok := err.(*chiselerr.DriverError); ok {
				return result, de
			}
			return result, chiselerr.NewInternal(rs.Name, pc.Identity, err)
		}

		outcome, newModule := dispatch(ctx, pass, m)
		result.Outcomes = append(result.Outcomes, outcome)
		if result.AnyPassError() {
			return result, chiselerr.NewInternal(rs.Name, pc.Identity, outcome.Err)
		}
		if newModule != nil {
			m = newModule
			result.Module = m
		}
		log.Debug("pass ran", zap.String("ruleset", rs.Name), zap.String("pass", pc.Identity))
	}

	return result, nil
}

// decodeModule accepts either Wasm text or binary input, per the module
// representation's decode contract (SPEC_FULL.md §4.1).
func decodeModule(raw []byte) (*wasm.Module, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if bytes.HasPrefix(trimmed, binaryMagic) {
		return wasm.ParseModule(raw)
	}
	if bytes.HasPrefix(trimmed, watMagic) {
		bin, err := wat.Compile(string(raw))
		if err != nil {
			return nil, err
		}
		return wasm.ParseModule(bin)
	}
	return wasm.ParseModule(raw)
}

// dispatch runs pass against m per its capability set, returning the
// recorded outcome and — if a Creator/Translator reported a change — the
// module that should replace m for subsequent passes in the ruleset. A pass
// error is carried in PassOutcome.Err, not as a separate return value:
// runRuleset checks result.AnyPassError() after recording each outcome and
// aborts the ruleset there (SPEC_FULL.md §4.3 step 5), so dispatch itself
// never needs to distinguish "pass failed" from "pass succeeded" at the
// call site.
func dispatch(ctx context.Context, pass Pass, m *wasm.Module) (PassOutcome, *wasm.Module) {
	identity := pass.Identity()

	if c, ok := pass.(Creator); ok {
		out, err := c.Create(ctx, m)
		if err != nil {
			return PassOutcome{Identity: identity, Capability: CapabilityCreator, Err: err}, nil
		}
		return PassOutcome{Identity: identity, Capability: CapabilityCreator, Ok: true}, out
	}

	if t, ok := pass.(Translator); ok {
		changed, err := t.TranslateInPlace(ctx, m)
		if chiselerr.IsNotSupported(err) {
			out, changed2, ferr := t.TranslateNew(ctx, m)
			if ferr != nil {
				return PassOutcome{Identity: identity, Capability: CapabilityTranslator, Err: ferr}, nil
			}
			if changed2 {
				return PassOutcome{Identity: identity, Capability: CapabilityTranslator, Ok: true}, out
			}
			return PassOutcome{Identity: identity, Capability: CapabilityTranslator, Ok: false}, nil
		}
		if err != nil {
			return PassOutcome{Identity: identity, Capability: CapabilityTranslator, Err: err}, nil
		}
		return PassOutcome{Identity: identity, Capability: CapabilityTranslator, Ok: changed}, nil
	}

	if v, ok := pass.(Validator); ok {
		verdict, err := v.Validate(ctx, m)
		if err != nil {
			return PassOutcome{Identity: identity, Capability: CapabilityValidator, Err: err}, nil
		}
		return PassOutcome{Identity: identity, Capability: CapabilityValidator, Ok: verdict}, nil
	}

	return PassOutcome{Identity: identity, Err: chiselerr.Custom("pass %q implements no known capability", identity)}, nil
}
