package passes

import (
	"context"
	"testing"

	"github.com/wasmx/chisel/wasm"
)

func TestRemapImportsStripsEwasmPrefix(t *testing.T) {
	m := &wasm.Module{
		Imports: []wasm.Import{
			{Module: "env", Name: "ethereum_useGas", Desc: wasm.ImportDesc{Kind: wasm.KindFunc}},
		},
	}
	list, _ := importPreset("ewasm")
	p := RemapImports{Tables: []remapTable{{namespace: "ewasm", prefix: "ethereum_", list: list}}}

	changed, err := p.TranslateInPlace(context.Background(), m)
	if err != nil {
		t.Fatalf("TranslateInPlace: %v", err)
	}
	if !changed {
		t.Fatal("expected remap to change the import")
	}
	if m.Imports[0].Module != "ethereum" || m.Imports[0].Name != "useGas" {
		t.Fatalf("unexpected remap result: %+v", m.Imports[0])
	}
}

func TestRemapImportsNoMatchNoChange(t *testing.T) {
	m := &wasm.Module{
		Imports: []wasm.Import{
			{Module: "env", Name: "unrelated", Desc: wasm.ImportDesc{Kind: wasm.KindFunc}},
		},
	}
	list, _ := importPreset("ewasm")
	p := RemapImports{Tables: []remapTable{{namespace: "ewasm", prefix: "ethereum_", list: list}}}

	changed, err := p.TranslateInPlace(context.Background(), m)
	if err != nil {
		t.Fatalf("TranslateInPlace: %v", err)
	}
	if changed {
		t.Fatal("expected no change for an unrelated import name")
	}
}
