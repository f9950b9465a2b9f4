package passes

import (
	"bytes"
	"context"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chisel/backend"
	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

func init() {
	chisel.Register("snip", func(options map[string]string) (chisel.Pass, error) {
		s := Snip{
			Options: backend.DCEOptions{
				SnipRustFmtCode:       true,
				SnipRustPanickingCode: true,
				SkipProducersSection:  true,
			},
			Eliminator: backend.WasmOptOptimizer{},
		}
		if v, ok := options["snip_rust_fmt_code"]; ok {
			b, err := parseBool(v)
			if err != nil {
				return nil, chiselerr.NewInvalidField("snip", "snip_rust_fmt_code")
			}
			s.Options.SnipRustFmtCode = b
		}
		if v, ok := options["snip_rust_panicking_code"]; ok {
			b, err := parseBool(v)
			if err != nil {
				return nil, chiselerr.NewInvalidField("snip", "snip_rust_panicking_code")
			}
			s.Options.SnipRustPanickingCode = b
		}
		if v, ok := options["skip_producers_section"]; ok {
			b, err := parseBool(v)
			if err != nil {
				return nil, chiselerr.NewInvalidField("snip", "skip_producers_section")
			}
			s.Options.SkipProducersSection = b
		}
		return s, nil
	})
}

// Snip removes functions considered dead weight for a deployed contract —
// Rust's formatting and panic-unwinding machinery in particular — by
// delegating to an external dead-code eliminator. Functional-only: it
// operates on the encoded binary as a whole rather than the in-memory
// structure, so there is no meaningful in-place form. Grounded on
// original_source/libchisel/src/snip.rs.
type Snip struct {
	Options    backend.DCEOptions
	Eliminator backend.DeadCodeEliminator
}

func (Snip) Identity() string { return "snip" }

func (Snip) TranslateInPlace(context.Context, *wasm.Module) (bool, error) {
	return false, chiselerr.ErrNotSupported
}

func (s Snip) TranslateNew(_ context.Context, m *wasm.Module) (*wasm.Module, bool, error) {
	before := m.Encode()
	after, err := s.Eliminator.Eliminate(before, s.Options)
	if err != nil {
		return nil, false, err
	}
	out, err := wasm.ParseModule(after)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(before, after), nil
}
