package passes

import (
	"context"
	"testing"

	"github.com/wasmx/chisel/wasm"
)

func TestTrimExportsDropsUnlisted(t *testing.T) {
	m := &wasm.Module{
		Exports: []wasm.Export{
			{Name: "main", Kind: wasm.KindFunc, Idx: 0},
			{Name: "memory", Kind: wasm.KindMemory, Idx: 0},
			{Name: "debug_helper", Kind: wasm.KindFunc, Idx: 1},
		},
	}
	entries, _ := exportPreset("ewasm")
	p := TrimExports{Allowed: entries}

	changed, err := p.TranslateInPlace(context.Background(), m)
	if err != nil {
		t.Fatalf("TranslateInPlace: %v", err)
	}
	if !changed {
		t.Fatal("expected change when an unlisted export is dropped")
	}
	if len(m.Exports) != 2 {
		t.Fatalf("expected 2 remaining exports, got %d", len(m.Exports))
	}
}

func TestTrimExportsNoChangeWhenAllAllowed(t *testing.T) {
	m := &wasm.Module{
		Exports: []wasm.Export{
			{Name: "main", Kind: wasm.KindFunc, Idx: 0},
			{Name: "memory", Kind: wasm.KindMemory, Idx: 0},
		},
	}
	entries, _ := exportPreset("ewasm")
	p := TrimExports{Allowed: entries}

	changed, err := p.TranslateInPlace(context.Background(), m)
	if err != nil {
		t.Fatalf("TranslateInPlace: %v", err)
	}
	if changed {
		t.Fatal("expected no change when every export is allowed")
	}
}

func TestTrimExportsNoExportSection(t *testing.T) {
	m := &wasm.Module{}
	entries, _ := exportPreset("ewasm")
	p := TrimExports{Allowed: entries}

	changed, err := p.TranslateInPlace(context.Background(), m)
	if err != nil {
		t.Fatalf("TranslateInPlace: %v", err)
	}
	if changed {
		t.Fatal("expected no change with an absent export section")
	}
}
