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
	chisel.Register("binaryenopt", func(options map[string]string) (chisel.Pass, error) {
		preset, ok := options["preset"]
		if !ok {
			return nil, chiselerr.NewInvalidField("binaryenopt", "preset")
		}
		cfg, ok := binaryenPreset(preset)
		if !ok {
			return nil, chiselerr.ErrNotSupported
		}
		return BinaryenOpt{Config: cfg, Optimizer: backend.WasmOptOptimizer{}}, nil
	})
}

// binaryenPreset maps binaryen's named optimization levels to the
// (optimization level, shrink level) pair wasm-opt expects, per
// original_source/libchisel/src/binaryenopt.rs.
func binaryenPreset(name string) (backend.OptConfig, bool) {
	switch name {
	case "O0":
		return backend.OptConfig{OptimizationLevel: 0, ShrinkLevel: 0}, true
	case "O1":
		return backend.OptConfig{OptimizationLevel: 1, ShrinkLevel: 0}, true
	case "O2":
		return backend.OptConfig{OptimizationLevel: 2, ShrinkLevel: 0}, true
	case "O3":
		return backend.OptConfig{OptimizationLevel: 3, ShrinkLevel: 0}, true
	case "O4":
		return backend.OptConfig{OptimizationLevel: 4, ShrinkLevel: 0}, true
	case "Os":
		return backend.OptConfig{OptimizationLevel: 2, ShrinkLevel: 1}, true
	case "Oz":
		return backend.OptConfig{OptimizationLevel: 2, ShrinkLevel: 2}, true
	}
	return backend.OptConfig{}, false
}

// BinaryenOpt runs binaryen's general optimizer over the module via the
// configured Optimizer backend. Functional-only, like snip: it operates on
// the encoded binary as a whole. DebugInfo tracks whether the module
// already carries a "name" section, so optimization doesn't silently
// introduce debug info that wasn't there, or strip it when it was.
// Grounded on original_source/libchisel/src/binaryenopt.rs.
type BinaryenOpt struct {
	Config    backend.OptConfig
	Optimizer backend.Optimizer
}

func (BinaryenOpt) Identity() string { return "binaryenopt" }

func (BinaryenOpt) TranslateInPlace(context.Context, *wasm.Module) (bool, error) {
	return false, chiselerr.ErrNotSupported
}

func (b BinaryenOpt) TranslateNew(_ context.Context, m *wasm.Module) (*wasm.Module, bool, error) {
	cfg := b.Config
	cfg.DebugInfo = m.HasNamesSection()

	before := m.Encode()
	after, err := b.Optimizer.Optimize(before, cfg)
	if err != nil {
		return nil, false, err
	}
	out, err := wasm.ParseModule(after)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(before, after), nil
}
