package passes

import (
	"context"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

func init() {
	chisel.Register("verifyimports", func(options map[string]string) (chisel.Pass, error) {
		preset, ok := options["preset"]
		if !ok {
			return nil, chiselerr.NewInvalidField("verifyimports", "preset")
		}
		list, ok := importPreset(preset)
		if !ok {
			return nil, chiselerr.ErrNotSupported
		}
		v := VerifyImports{List: list}
		if val, ok := options["require_all"]; ok {
			b, err := parseBool(val)
			if err != nil {
				return nil, chiselerr.NewInvalidField("verifyimports", "require_all")
			}
			v.RequireAll = b
		}
		if val, ok := options["allow_unlisted"]; ok {
			b, err := parseBool(val)
			if err != nil {
				return nil, chiselerr.NewInvalidField("verifyimports", "allow_unlisted")
			}
			v.AllowUnlisted = b
		}
		return v, nil
	})
}

// VerifyImports validates the module's import section against a preset
// import list under the require_all/allow_unlisted truth table
// (SPEC_FULL.md §4.2.4). Import signatures are resolved by direct type-index
// lookup — imports carry their own type index, so no import-count offset
// applies (unlike function-export resolution). Grounded on
// original_source/libchisel/src/verifyimports.rs.
type VerifyImports struct {
	List          []importSig
	RequireAll    bool
	AllowUnlisted bool
}

func (VerifyImports) Identity() string { return "verifyimports" }

// importStatus is the three-way state an import can be in, mirroring the
// reference implementation's ImportStatus enum.
type importStatus int

const (
	statusNotFound importStatus = iota
	statusGood
	statusMalformed
)

func checkImport(m *wasm.Module, want importSig) importStatus {
	for _, imp := range m.Imports {
		if imp.Module != want.namespace || imp.Name != want.field {
			continue
		}
		if imp.Desc.Kind != wasm.KindFunc {
			return statusMalformed
		}
		if signatureEquals(m.FuncTypeByIndex(imp.Desc.TypeIdx), want.params, want.result) {
			return statusGood
		}
		return statusMalformed
	}
	return statusNotFound
}

func (v VerifyImports) Validate(_ context.Context, m *wasm.Module) (bool, error) {
	switch {
	case v.RequireAll && v.AllowUnlisted:
		// Every listed import is present and correctly signed.
		for _, want := range v.List {
			if checkImport(m, want) != statusGood {
				return false, nil
			}
		}
		return true, nil

	case v.RequireAll && !v.AllowUnlisted:
		for _, want := range v.List {
			if checkImport(m, want) != statusGood {
				return false, nil
			}
		}
		return len(m.Imports) == len(v.List), nil

	case !v.RequireAll && v.AllowUnlisted:
		// Listed imports that are present must be correctly signed;
		// absent listed imports are fine.
		for _, want := range v.List {
			if checkImport(m, want) == statusMalformed {
				return false, nil
			}
		}
		return true, nil

	default: // !RequireAll && !AllowUnlisted
		for _, imp := range m.Imports {
			if importStatusAgainstList(m, imp, v.List) != statusGood {
				return false, nil
			}
		}
		return true, nil
	}
}

func importStatusAgainstList(m *wasm.Module, imp wasm.Import, list []importSig) importStatus {
	for _, want := range list {
		if imp.Module != want.namespace || imp.Name != want.field {
			continue
		}
		if imp.Desc.Kind != wasm.KindFunc {
			return statusMalformed
		}
		if signatureEquals(m.FuncTypeByIndex(imp.Desc.TypeIdx), want.params, want.result) {
			return statusGood
		}
		return statusMalformed
	}
	return statusNotFound
}
