package passes

import (
	"context"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

func init() {
	chisel.Register("verifyexports", func(options map[string]string) (chisel.Pass, error) {
		preset, ok := options["preset"]
		if !ok {
			return nil, chiselerr.NewInvalidField("verifyexports", "preset")
		}
		entries, ok := exportPreset(preset)
		if !ok {
			return nil, chiselerr.ErrNotSupported
		}
		return VerifyExports{Entries: entries}, nil
	})
}

// VerifyExports validates that every export in Entries is present with the
// right kind and (for functions) the right signature, and rejects any
// unlisted export. Grounded on
// original_source/libchisel/src/verifyexports.rs.
type VerifyExports struct {
	Entries []exportEntry
}

func (VerifyExports) Identity() string { return "verifyexports" }

func (v VerifyExports) Validate(_ context.Context, m *wasm.Module) (bool, error) {
	for _, want := range v.Entries {
		if !exportMatches(m, want) {
			return false, nil
		}
	}
	return len(v.Entries) == len(m.Exports), nil
}

func exportMatches(m *wasm.Module, want exportEntry) bool {
	for _, exp := range m.Exports {
		if exp.Name != want.field || exp.Kind != want.kind {
			continue
		}
		if want.kind != wasm.KindFunc {
			return true
		}
		return signatureEquals(m.GetFuncType(exp.Idx), want.params, want.result)
	}
	return false
}
