package passes

import (
	"context"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

func init() {
	chisel.Register("trimexports", func(options map[string]string) (chisel.Pass, error) {
		preset, ok := options["preset"]
		if !ok {
			return nil, chiselerr.NewInvalidField("trimexports", "preset")
		}
		entries, ok := exportPreset(preset)
		if !ok {
			return nil, chiselerr.ErrNotSupported
		}
		return TrimExports{Allowed: entries}, nil
	})
}

// TrimExports restricts the export section to a preset's allowed
// (field, kind) pairs, dropping everything else. Grounded on
// original_source/libchisel/src/trimexports.rs.
type TrimExports struct {
	Allowed []exportEntry
}

func (TrimExports) Identity() string { return "trimexports" }

func (t TrimExports) allows(exp wasm.Export) bool {
	for _, want := range t.Allowed {
		if exp.Name == want.field && exp.Kind == want.kind {
			return true
		}
	}
	return false
}

func (t TrimExports) TranslateInPlace(_ context.Context, m *wasm.Module) (bool, error) {
	if len(m.Exports) == 0 {
		return false, nil
	}
	kept := make([]wasm.Export, 0, len(m.Exports))
	changed := false
	for _, exp := range m.Exports {
		if t.allows(exp) {
			kept = append(kept, exp)
		} else {
			changed = true
		}
	}
	m.Exports = kept
	return changed, nil
}

func (t TrimExports) TranslateNew(ctx context.Context, m *wasm.Module) (*wasm.Module, bool, error) {
	out := m.Clone()
	changed, err := t.TranslateInPlace(ctx, out)
	return out, changed, err
}
