package wasm

import (
	"bytes"

	"github.com/wasmx/chisel/wasm/internal/binary"
)

// Name subsection IDs, as defined by the "name" custom section spec.
const (
	nameSubsectionModule   byte = 0
	nameSubsectionFunction byte = 1
	nameSubsectionLocal    byte = 2
)

// NameSection is the structured form of the "name" custom section: an
// optional module name, a function index -> name map, and a per-function
// map of local index -> name.
type NameSection struct {
	ModuleName string
	HasModule  bool
	Functions  map[uint32]string
	Locals     map[uint32]map[uint32]string
}

// ParseNames lifts the raw "name" custom section (if any) into m.Names. It
// is idempotent and a no-op when no "name" section is present. Malformed
// subsections are skipped rather than failing the whole parse, matching how
// tools generally treat this section as best-effort debug metadata.
func (m *Module) ParseNames() error {
	idx := m.CustomSectionIndexByName("name")
	if idx < 0 {
		return nil
	}
	data := m.CustomSections[idx].Data

	ns := &NameSection{
		Functions: map[uint32]string{},
		Locals:    map[uint32]map[uint32]string{},
	}

	r := binary.NewReader(bytes.NewReader(data))
	for {
		id, err := r.ReadByte()
		if err != nil {
			break
		}
		size, err := r.ReadU32()
		if err != nil {
			break
		}
		payload, err := r.ReadBytes(int(size))
		if err != nil {
			break
		}
		sr := binary.NewReader(bytes.NewReader(payload))
		switch id {
		case nameSubsectionModule:
			if name, err := sr.ReadName(); err == nil {
				ns.ModuleName = name
				ns.HasModule = true
			}
		case nameSubsectionFunction:
			parseNameMap(sr, ns.Functions)
		case nameSubsectionLocal:
			count, err := sr.ReadU32()
			if err != nil {
				break
			}
			for i := uint32(0); i < count; i++ {
				funcIdx, err := sr.ReadU32()
				if err != nil {
					break
				}
				locals := map[uint32]string{}
				parseNameMap(sr, locals)
				ns.Locals[funcIdx] = locals
			}
		}
	}

	m.Names = ns
	return nil
}

func parseNameMap(r *binary.Reader, into map[uint32]string) {
	count, err := r.ReadU32()
	if err != nil {
		return
	}
	for i := uint32(0); i < count; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return
		}
		name, err := r.ReadName()
		if err != nil {
			return
		}
		into[idx] = name
	}
}

// serialize encodes the structured name section back into a "name"
// CustomSection's byte payload.
func (ns *NameSection) serialize() []byte {
	w := binary.NewWriter()
	if ns.HasModule {
		sub := binary.NewWriter()
		sub.WriteName(ns.ModuleName)
		w.Byte(nameSubsectionModule)
		w.WriteU32(uint32(sub.Len()))
		w.WriteBytes(sub.Bytes())
	}
	if len(ns.Functions) > 0 {
		sub := writeNameMap(ns.Functions)
		w.Byte(nameSubsectionFunction)
		w.WriteU32(uint32(len(sub)))
		w.WriteBytes(sub)
	}
	if len(ns.Locals) > 0 {
		sub := binary.NewWriter()
		sub.WriteU32(uint32(len(ns.Locals)))
		for _, funcIdx := range sortedKeys(ns.Locals) {
			sub.WriteU32(funcIdx)
			sub.WriteBytes(writeNameMap(ns.Locals[funcIdx]))
		}
		w.Byte(nameSubsectionLocal)
		w.WriteU32(uint32(sub.Len()))
		w.WriteBytes(sub.Bytes())
	}
	return w.Bytes()
}

func writeNameMap(m map[uint32]string) []byte {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(m)))
	for _, idx := range sortedKeys(m) {
		w.WriteU32(idx)
		w.WriteName(m[idx])
	}
	return w.Bytes()
}

func sortedKeys[V any](m map[uint32]V) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// flushNames writes any parsed NameSection back into its raw CustomSection form,
// so Encode sees a single, consistent representation. It is a no-op when no
// structured name section was ever parsed.
func (m *Module) flushNames() {
	if m.Names == nil {
		return
	}
	data := m.Names.serialize()
	if idx := m.CustomSectionIndexByName("name"); idx >= 0 {
		m.CustomSections[idx].Data = data
		return
	}
	m.AppendCustomSection("name", data)
}
