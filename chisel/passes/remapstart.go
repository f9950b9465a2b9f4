package passes

import (
	"context"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

func init() {
	chisel.Register("remapstart", func(options map[string]string) (chisel.Pass, error) {
		preset, ok := options["preset"]
		if !ok {
			return nil, chiselerr.NewInvalidField("remapstart", "preset")
		}
		if preset != "ewasm" {
			return nil, chiselerr.ErrNotSupported
		}
		return RemapStart{}, nil
	})
}

// RemapStart replaces the start section with a "main" export pointing at
// the same function, so callers that invoke by export name rather than by
// the implicit start mechanism can still reach it. Grounded on
// original_source/libchisel/src/remapstart.rs.
type RemapStart struct{}

func (RemapStart) Identity() string { return "remapstart" }

func (RemapStart) TranslateInPlace(_ context.Context, m *wasm.Module) (bool, error) {
	if m.Start == nil {
		return false, nil
	}
	startIdx := *m.Start
	replaced := false
	for i := range m.Exports {
		if m.Exports[i].Name == "main" {
			m.Exports[i].Kind = wasm.KindFunc
			m.Exports[i].Idx = startIdx
			replaced = true
			break
		}
	}
	if !replaced {
		m.Exports = append(m.Exports, wasm.Export{Name: "main", Kind: wasm.KindFunc, Idx: startIdx})
	}
	m.Start = nil
	return true, nil
}

func (r RemapStart) TranslateNew(ctx context.Context, m *wasm.Module) (*wasm.Module, bool, error) {
	out := m.Clone()
	changed, err := r.TranslateInPlace(ctx, out)
	return out, changed, err
}
