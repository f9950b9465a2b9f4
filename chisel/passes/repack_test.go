package passes

import (
	"context"
	"testing"

	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

func TestRepackDropsCustomSections(t *testing.T) {
	m := &wasm.Module{Exports: []wasm.Export{{Name: "main", Kind: wasm.KindFunc}}}
	m.AppendCustomSection("name", []byte("x"))

	out, changed, err := Repack{}.TranslateNew(context.Background(), m)
	if err != nil {
		t.Fatalf("TranslateNew: %v", err)
	}
	if !changed {
		t.Fatal("expected change when custom sections are dropped")
	}
	if len(out.CustomSections) != 0 {
		t.Fatalf("expected no custom sections, got %d", len(out.CustomSections))
	}
	if len(out.Exports) != 1 {
		t.Fatal("expected standard sections to survive repack")
	}
}

func TestRepackInPlaceNotSupported(t *testing.T) {
	_, err := Repack{}.TranslateInPlace(context.Background(), &wasm.Module{})
	if err != chiselerr.ErrNotSupported {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
}
