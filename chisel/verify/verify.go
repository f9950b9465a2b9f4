// Package verify smoke-tests a rewritten module by instantiating it under
// wazero against a stub host environment built from the same import preset
// tables verifyimports checks signatures against (chisel/passes.ImportPreset),
// then calling its "main" export, grounded on
// _examples/wippyai-wasm-runtime/linker's synthetic host-module construction
// and _examples/tetratelabs-wazero's HostModuleBuilder/WithGoModuleFunction
// pattern (SPEC_FULL.md §6.4).
package verify

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wasmx/chisel/chisel/passes"
	"github.com/wasmx/chisel/wasm"
)

// Presets lists the import preset namespaces a smoke-test's host environment
// stubs out. The ewasm namespace ("ethereum") covers the contract ABI the
// rest of chisel's passes target; the others are included so a module that
// also imports eth2/debug/bignum functions still instantiates.
var Presets = []string{"ewasm", "eth2", "debug", "bignum"}

// Result reports the outcome of smoke-testing one module.
type Result struct {
	Instantiated bool
	CalledMain   bool
	Err          error
}

// Run instantiates binary against a stub host built from Presets, and — if
// entry is non-empty — calls that export with no arguments. A module's
// declared imports that aren't covered by any configured preset cause
// instantiation to fail with wazero's own unsatisfied-import error, which is
// surfaced as Result.Err rather than treated specially: an uncovered import
// means the module targets an ABI this smoke test doesn't model.
func Run(ctx context.Context, binary []byte, entry string) Result {
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	if err := instantiateHostStubs(ctx, rt, binary); err != nil {
		return Result{Err: err}
	}

	compiled, err := rt.CompileModule(ctx, binary)
	if err != nil {
		return Result{Err: fmt.Errorf("verify: compile: %w", err)}
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		return Result{Err: fmt.Errorf("verify: instantiate: %w", err)}
	}
	defer mod.Close(ctx)

	if entry == "" {
		return Result{Instantiated: true}
	}

	fn := mod.ExportedFunction(entry)
	if fn == nil {
		return Result{Instantiated: true, Err: fmt.Errorf("verify: no exported function %q", entry)}
	}
	if _, err := fn.Call(ctx); err != nil {
		return Result{Instantiated: true, Err: fmt.Errorf("verify: call %q: %w", entry, err)}
	}
	return Result{Instantiated: true, CalledMain: true}
}

// instantiateHostStubs builds one wazero host module per preset namespace
// that binary's import section actually references, so unrelated presets
// don't collide with a real host module a future caller might also supply.
func instantiateHostStubs(ctx context.Context, rt wazero.Runtime, binary []byte) error {
	m, err := wasm.ParseModule(binary)
	if err != nil {
		return fmt.Errorf("verify: decode module: %w", err)
	}

	needed := map[string]bool{}
	for _, imp := range m.Imports {
		needed[imp.Module] = true
	}

	for _, preset := range Presets {
		sigs, ok := passes.ImportPreset(preset)
		if !ok || len(sigs) == 0 {
			continue
		}
		namespace := sigs[0].Namespace
		if !needed[namespace] {
			continue
		}

		builder := rt.NewHostModuleBuilder(namespace)
		for _, s := range sigs {
			params := valTypes(s.Params)
			var results []api.ValueType
			if s.Result != nil {
				results = valTypes([]wasm.ValType{*s.Result})
			}
			builder.NewFunctionBuilder().
				WithGoModuleFunction(api.GoModuleFunc(stubFunc(results)), params, results).
				Export(s.Field)
		}
		if _, err := builder.Instantiate(ctx); err != nil {
			return fmt.Errorf("verify: build host module %q: %w", namespace, err)
		}
	}
	return nil
}

// stubFunc returns a host function body that does nothing but zero any
// declared results — enough for a module to link and run without a real
// Ethereum host behind it.
func stubFunc(results []api.ValueType) func(context.Context, api.Module, []uint64) {
	return func(_ context.Context, _ api.Module, stack []uint64) {
		for i := range results {
			stack[i] = 0
		}
	}
}

func valTypes(vs []wasm.ValType) []api.ValueType {
	out := make([]api.ValueType, len(vs))
	for i, v := range vs {
		switch v {
		case wasm.ValI32:
			out[i] = api.ValueTypeI32
		case wasm.ValI64:
			out[i] = api.ValueTypeI64
		case wasm.ValF32:
			out[i] = api.ValueTypeF32
		case wasm.ValF64:
			out[i] = api.ValueTypeF64
		}
	}
	return out
}
