package passes

import (
	"context"
	"strconv"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

func init() {
	chisel.Register("dropsection", func(options map[string]string) (chisel.Pass, error) {
		d := DropSection{}
		set := 0
		if v, ok := options["names"]; ok {
			d.Kind = DropNames
			d.Name = v
			set++
		}
		if v, ok := options["custom_by_name"]; ok {
			d.Kind = DropCustomByName
			d.Name = v
			set++
		}
		if v, ok := options["custom_by_index"]; ok {
			idx, err := strconv.Atoi(v)
			if err != nil {
				return nil, chiselerr.NewInvalidField("dropsection", "custom_by_index")
			}
			d.Kind = DropCustomByIndex
			d.Index = idx
			set++
		}
		if v, ok := options["unknown_by_index"]; ok {
			idx, err := strconv.Atoi(v)
			if err != nil {
				return nil, chiselerr.NewInvalidField("dropsection", "unknown_by_index")
			}
			d.Kind = DropUnknownByIndex
			d.Index = idx
			set++
		}
		if set != 1 {
			return nil, chiselerr.NewInvalidField("dropsection", "exactly one of names/custom_by_name/custom_by_index/unknown_by_index")
		}
		return d, nil
	})
}

// DropSectionKind selects which of dropsection's four mutually exclusive
// configuration forms is active.
type DropSectionKind int

const (
	DropNames DropSectionKind = iota
	DropCustomByName
	DropCustomByIndex
	DropUnknownByIndex
)

// DropSection removes a section identified one of four ways: the "name"
// custom section (by its well-known name), a custom section by name, or
// either a custom or "unknown" (raw, literal) section by its position in
// the raw section stream. The index-based variants index into the literal
// section list and are a silent no-op when out of range — see DESIGN.md.
// Grounded on original_source/libchisel/src/dropsection.rs.
type DropSection struct {
	Kind  DropSectionKind
	Name  string
	Index int
}

func (DropSection) Identity() string { return "dropsection" }

func (d DropSection) TranslateInPlace(_ context.Context, m *wasm.Module) (bool, error) {
	switch d.Kind {
	case DropNames:
		return m.DropNamesSection(), nil
	case DropCustomByName:
		idx := m.CustomSectionIndexByName(d.Name)
		if idx < 0 {
			return false, nil
		}
		return m.RemoveCustomSection(m.CustomSections[idx]), nil
	case DropCustomByIndex, DropUnknownByIndex:
		return m.RemoveSectionAt(d.Index), nil
	default:
		return false, nil
	}
}

func (d DropSection) TranslateNew(ctx context.Context, m *wasm.Module) (*wasm.Module, bool, error) {
	out := m.Clone()
	changed, err := d.TranslateInPlace(ctx, out)
	return out, changed, err
}
