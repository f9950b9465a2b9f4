package passes

import (
	"context"
	"strings"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

func init() {
	chisel.Register("remapimports", func(options map[string]string) (chisel.Pass, error) {
		val, ok := options["preset"]
		if !ok {
			return nil, chiselerr.NewInvalidField("remapimports", "preset")
		}
		names := splitNonEmpty(val)
		if len(names) == 0 {
			return nil, chiselerr.NewInvalidField("remapimports", "preset")
		}
		var tables []remapTable
		for _, name := range names {
			list, ok := importPreset(name)
			if !ok {
				return nil, chiselerr.ErrNotSupported
			}
			tables = append(tables, remapTable{namespace: name, prefix: remapPrefix(name), list: list})
		}
		return RemapImports{Tables: tables}, nil
	})
}

// remapTable is one configured interface preset: the raw signature table and
// the compiler-emitted prefix its field names carry before lookup.
type remapTable struct {
	namespace string
	prefix    string
	list      []importSig
}

// RemapImports rewrites compiler-emitted import names (e.g.
// "ethereum_useGas") to the canonical ABI they denote ("ethereum"/"useGas"),
// trying each configured preset in order and matching at most one per
// import. Grounded on
// original_source/libchisel/src/remapimports.rs.
type RemapImports struct {
	Tables []remapTable
}

func (RemapImports) Identity() string { return "remapimports" }

// resolve finds the canonical (namespace, field) for imp.Name under a
// configured preset table, stripping the preset's prefix first.
func resolveRemap(imp wasm.Import, tables []remapTable) (importSig, bool) {
	for _, tbl := range tables {
		field := strings.TrimPrefix(imp.Name, tbl.prefix)
		if field == imp.Name && tbl.prefix != "" {
			continue
		}
		for _, want := range tbl.list {
			if want.field == field {
				return want, true
			}
		}
	}
	return importSig{}, false
}

func (r RemapImports) TranslateInPlace(_ context.Context, m *wasm.Module) (bool, error) {
	changed := false
	for i := range m.Imports {
		want, ok := resolveRemap(m.Imports[i], r.Tables)
		if !ok {
			continue
		}
		if m.Imports[i].Module == want.namespace && m.Imports[i].Name == want.field {
			continue
		}
		m.Imports[i].Module = want.namespace
		m.Imports[i].Name = want.field
		changed = true
	}
	return changed, nil
}

func (r RemapImports) TranslateNew(ctx context.Context, m *wasm.Module) (*wasm.Module, bool, error) {
	out := m.Clone()
	changed, err := r.TranslateInPlace(ctx, out)
	return out, changed, err
}
