package passes

import (
	"context"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

func init() {
	chisel.Register("trimstartfunc", func(options map[string]string) (chisel.Pass, error) {
		preset, ok := options["preset"]
		if !ok {
			return nil, chiselerr.NewInvalidField("trimstartfunc", "preset")
		}
		if preset != "ewasm" {
			return nil, chiselerr.ErrNotSupported
		}
		return TrimStartFunc{}, nil
	})
}

// TrimStartFunc removes the start section, in place only — there is no
// sensible functional/new-module form since the transformation is a pure
// deletion. Grounded on
// original_source/libchisel/src/trimstartfunc.rs.
type TrimStartFunc struct{}

func (TrimStartFunc) Identity() string { return "trimstartfunc" }

func (TrimStartFunc) TranslateInPlace(_ context.Context, m *wasm.Module) (bool, error) {
	if m.Start == nil {
		return false, nil
	}
	m.Start = nil
	return true, nil
}

func (TrimStartFunc) TranslateNew(context.Context, *wasm.Module) (*wasm.Module, bool, error) {
	return nil, false, chiselerr.ErrNotSupported
}
