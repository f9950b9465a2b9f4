// Package passes holds the thirteen concrete passes (SPEC_FULL.md §4.2), each
// registering itself with the chisel registry from an init function so that
// importing this package for side effects is enough to make every pass
// available to a driver.
package passes

import "github.com/wasmx/chisel/wasm"

// importSig describes one entry of a named import preset: its canonical
// (namespace, field) and the function signature it must carry. Ported
// verbatim from the reference implementation's ImportList preset tables
// (original_source/libchisel/src/imports.rs), shared by verifyimports,
// verifyexports's helpers and remapimports's canonical lookup.
type importSig struct {
	namespace string
	field     string
	params    []wasm.ValType
	result    *wasm.ValType
}

func sig(namespace, field string, params []wasm.ValType, result ...wasm.ValType) importSig {
	s := importSig{namespace: namespace, field: field, params: params}
	if len(result) > 0 {
		r := result[0]
		s.result = &r
	}
	return s
}

var ewasmImports = []importSig{
	sig("ethereum", "useGas", []wasm.ValType{wasm.ValI64}),
	sig("ethereum", "getGasLeft", nil, wasm.ValI64),
	sig("ethereum", "getAddress", []wasm.ValType{wasm.ValI32}),
	sig("ethereum", "getExternalBalance", []wasm.ValType{wasm.ValI32, wasm.ValI32}),
	sig("ethereum", "getBlockHash", []wasm.ValType{wasm.ValI64, wasm.ValI32}, wasm.ValI32),
	sig("ethereum", "call", []wasm.ValType{wasm.ValI64, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32}, wasm.ValI32),
	sig("ethereum", "callCode", []wasm.ValType{wasm.ValI64, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32}, wasm.ValI32),
	sig("ethereum", "callDelegate", []wasm.ValType{wasm.ValI64, wasm.ValI32, wasm.ValI32, wasm.ValI32}, wasm.ValI32),
	sig("ethereum", "callStatic", []wasm.ValType{wasm.ValI64, wasm.ValI32, wasm.ValI32, wasm.ValI32}, wasm.ValI32),
	sig("ethereum", "create", []wasm.ValType{wasm.ValI64, wasm.ValI32, wasm.ValI32, wasm.ValI32}, wasm.ValI32),
	sig("ethereum", "callDataCopy", []wasm.ValType{wasm.ValI32, wasm.ValI32, wasm.ValI32}),
	sig("ethereum", "getCallDataSize", nil, wasm.ValI32),
	sig("ethereum", "getCodeSize", nil, wasm.ValI32),
	sig("ethereum", "getExternalCodeSize", []wasm.ValType{wasm.ValI32}, wasm.ValI32),
	sig("ethereum", "externalCodeCopy", []wasm.ValType{wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32}),
	sig("ethereum", "codeCopy", []wasm.ValType{wasm.ValI32, wasm.ValI32, wasm.ValI32}),
	sig("ethereum", "getCaller", []wasm.ValType{wasm.ValI32}),
	sig("ethereum", "getCallValue", []wasm.ValType{wasm.ValI32}),
	sig("ethereum", "getBlockDifficulty", []wasm.ValType{wasm.ValI32}),
	sig("ethereum", "getBlockCoinbase", []wasm.ValType{wasm.ValI32}),
	sig("ethereum", "getBlockNumber", nil, wasm.ValI64),
	sig("ethereum", "getBlockGasLimit", nil, wasm.ValI64),
	sig("ethereum", "getBlockTimestamp", nil, wasm.ValI64),
	sig("ethereum", "getTxGasPrice", []wasm.ValType{wasm.ValI32}),
	sig("ethereum", "getTxOrigin", []wasm.ValType{wasm.ValI32}),
	sig("ethereum", "storageStore", []wasm.ValType{wasm.ValI32, wasm.ValI32}),
	sig("ethereum", "storageLoad", []wasm.ValType{wasm.ValI32, wasm.ValI32}),
	sig("ethereum", "log", []wasm.ValType{wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32}),
	sig("ethereum", "getReturnDataSize", nil, wasm.ValI32),
	sig("ethereum", "returnDataCopy", []wasm.ValType{wasm.ValI32, wasm.ValI32, wasm.ValI32}),
	sig("ethereum", "finish", []wasm.ValType{wasm.ValI32, wasm.ValI32}),
	sig("ethereum", "revert", []wasm.ValType{wasm.ValI32, wasm.ValI32}),
	sig("ethereum", "selfDestruct", []wasm.ValType{wasm.ValI32}),
}

var eth2Imports = []importSig{
	sig("eth2", "loadPreStateRoot", []wasm.ValType{wasm.ValI32}),
	sig("eth2", "blockDataSize", nil, wasm.ValI32),
	sig("eth2", "blockDataCopy", []wasm.ValType{wasm.ValI32, wasm.ValI32, wasm.ValI32}),
	sig("eth2", "savePostStateRoot", []wasm.ValType{wasm.ValI32}),
	sig("eth2", "pushNewDeposit", []wasm.ValType{wasm.ValI32, wasm.ValI32}),
}

var debugImports = []importSig{
	sig("debug", "print32", []wasm.ValType{wasm.ValI32}),
	sig("debug", "print64", []wasm.ValType{wasm.ValI64}),
	sig("debug", "printMem", []wasm.ValType{wasm.ValI32, wasm.ValI32}),
	sig("debug", "printMemHex", []wasm.ValType{wasm.ValI32, wasm.ValI32}),
	sig("debug", "printStorage", []wasm.ValType{wasm.ValI32}),
	sig("debug", "printStorageHex", []wasm.ValType{wasm.ValI32}),
}

var bignumImports = []importSig{
	sig("bignum", "mul256", []wasm.ValType{wasm.ValI32, wasm.ValI32, wasm.ValI32}),
	sig("bignum", "umulmod256", []wasm.ValType{wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32}),
}

// importPreset resolves a preset name to its signature table.
func importPreset(name string) ([]importSig, bool) {
	switch name {
	case "ewasm":
		return ewasmImports, true
	case "eth2":
		return eth2Imports, true
	case "debug":
		return debugImports, true
	case "bignum":
		return bignumImports, true
	}
	return nil, false
}

// ImportSignature is importSig's exported form, for callers outside this
// package that need a preset's signatures without registering a pass — the
// wazero-based smoke-test host stub in chisel/verify in particular.
type ImportSignature struct {
	Namespace string
	Field     string
	Params    []wasm.ValType
	Result    *wasm.ValType
}

// ImportPreset returns the named import preset in its exported form.
func ImportPreset(name string) ([]ImportSignature, bool) {
	table, ok := importPreset(name)
	if !ok {
		return nil, false
	}
	out := make([]ImportSignature, len(table))
	for i, s := range table {
		out[i] = ImportSignature{Namespace: s.namespace, Field: s.field, Params: s.params, Result: s.result}
	}
	return out, true
}

// remapPrefix is the compiler-emitted prefix each preset's fields are
// stripped of before table lookup; only "ewasm" carries one upstream.
func remapPrefix(preset string) string {
	if preset == "ewasm" {
		return "ethereum_"
	}
	return ""
}

// exportEntry describes one required export: field name, kind, and — for
// function exports — the exact signature required.
type exportEntry struct {
	field  string
	kind   byte
	params []wasm.ValType
	result *wasm.ValType
}

func exportPreset(name string) ([]exportEntry, bool) {
	switch name {
	case "ewasm":
		return []exportEntry{
			{field: "main", kind: wasm.KindFunc},
			{field: "memory", kind: wasm.KindMemory},
		}, true
	case "pwasm":
		return []exportEntry{
			{field: "_call", kind: wasm.KindFunc},
		}, true
	}
	return nil, false
}

// signatureEquals compares a function's resolved type against the
// (params, result) pair an export/import entry requires.
func signatureEquals(ft *wasm.FuncType, params []wasm.ValType, result *wasm.ValType) bool {
	if ft == nil {
		return false
	}
	if len(ft.Params) != len(params) {
		return false
	}
	for i := range params {
		if ft.Params[i] != params[i] {
			return false
		}
	}
	switch {
	case result == nil && len(ft.Results) == 0:
		return true
	case result != nil && len(ft.Results) == 1:
		return ft.Results[0] == *result
	default:
		return false
	}
}
