package passes

import (
	"context"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

func init() {
	chisel.Register("repack", func(map[string]string) (chisel.Pass, error) {
		return Repack{}, nil
	})
}

// Repack rebuilds a module keeping only its standard sections in canonical
// order, discarding every custom section including "name". It is
// functional-only: an in-place repack of a module that is already in
// memory is a no-op by construction, so only the rebuild-from-scratch form
// makes sense. Not a round trip — this is a documented, intentional
// behavior, not a bug. Grounded on
// original_source/libchisel/src/repack.rs.
type Repack struct{}

func (Repack) Identity() string { return "repack" }

func (Repack) TranslateInPlace(context.Context, *wasm.Module) (bool, error) {
	return false, chiselerr.ErrNotSupported
}

func (Repack) TranslateNew(_ context.Context, m *wasm.Module) (*wasm.Module, bool, error) {
	out := &wasm.Module{
		Types:     append([]wasm.FuncType(nil), m.Types...),
		TypeDefs:  append([]wasm.TypeDef(nil), m.TypeDefs...),
		Imports:   append([]wasm.Import(nil), m.Imports...),
		Funcs:     append([]uint32(nil), m.Funcs...),
		Tables:    append([]wasm.TableType(nil), m.Tables...),
		Memories:  append([]wasm.MemoryType(nil), m.Memories...),
		Globals:   append([]wasm.Global(nil), m.Globals...),
		Exports:   append([]wasm.Export(nil), m.Exports...),
		Start:     m.Start,
		Elements:  append([]wasm.Element(nil), m.Elements...),
		Code:      append([]wasm.FuncBody(nil), m.Code...),
		Data:      append([]wasm.DataSegment(nil), m.Data...),
		DataCount: m.DataCount,
		Tags:      append([]wasm.TagType(nil), m.Tags...),
	}
	changed := len(m.CustomSections) > 0
	return out, changed, nil
}
