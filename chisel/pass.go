// Package chisel implements the pass pipeline: pass capability interfaces,
// the registry that maps a pass identity to a constructor, the driver state
// machine that runs a ruleset, and the result/writer model.
package chisel

import (
	"context"

	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

// Pass is satisfied by every registered pass. A concrete pass additionally
// implements one or more of Creator, Translator, Validator.
type Pass interface {
	Identity() string
}

// Creator produces a replacement module. It is given the ruleset's current
// module so a creator can derive its output from it (e.g. deployer embeds
// the current module's encoded bytes as a payload) without forcing
// "from nothing" creators to ignore the parameter.
type Creator interface {
	Pass
	Create(ctx context.Context, m *wasm.Module) (*wasm.Module, error)
}

// Translator mutates a module in place, or (if in-place is unsupported)
// builds and returns a new one. At least one form must succeed; a pass
// unable to support a form returns chiselerr.ErrNotSupported from it.
type Translator interface {
	Pass
	TranslateInPlace(ctx context.Context, m *wasm.Module) (changed bool, err error)
	TranslateNew(ctx context.Context, m *wasm.Module) (out *wasm.Module, changed bool, err error)
}

// Validator reports a boolean verdict about a module, or a structural error
// (e.g. chiselerr.ErrNotFound) when the verdict cannot be computed.
type Validator interface {
	Pass
	Validate(ctx context.Context, m *wasm.Module) (bool, error)
}

// Factory builds a pass from an option map. Recognised keys are per pass
// (SPEC_FULL.md §6); an unrecognised preset or a missing required option
// must be reported as chiselerr.NewInvalidField or chiselerr.ErrNotSupported
// per the pass's own with_preset/with_config contract.
type Factory func(options map[string]string) (Pass, error)

var registry = map[string]Factory{}

// Register adds identity to the registry. Called from each pass's init().
func Register(identity string, factory Factory) {
	registry[identity] = factory
}

// New instantiates the pass registered under identity from options. It
// returns a *chiselerr.DriverError with Kind ModuleNotFound if no pass is
// registered under that identity — the registry lookup the driver relies on
// to replace the original string-match dispatch (SPEC_FULL.md §9).
func New(identity string, options map[string]string) (Pass, error) {
	factory, ok := registry[identity]
	if !ok {
		return nil, chiselerr.NewModuleNotFound(identity)
	}
	return factory(options)
}

// Identities lists every registered pass identity, in registration order is
// not guaranteed; callers that need a stable order should sort the result.
func Identities() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	return ids
}
