package wasm

// sectionSlot records one entry of the original (or synthesised) section
// stream. Custom sections carry a pointer into CustomSections so that
// removing or reordering them does not require renumbering other slots.
type sectionSlot struct {
	id     byte
	custom *CustomSection
}

// standardSectionIDsInOrder lists every non-custom section ID in the
// canonical order the Wasm binary format requires.
var standardSectionIDsInOrder = []byte{
	SectionType,
	SectionImport,
	SectionFunction,
	SectionTable,
	SectionMemory,
	SectionTag,
	SectionGlobal,
	SectionExport,
	SectionStart,
	SectionElement,
	SectionDataCount,
	SectionCode,
	SectionData,
}

// markDecoded appends a slot for a standard section encountered while
// decoding, in wire order.
func (m *Module) markDecoded(id byte) {
	m.order = append(m.order, sectionSlot{id: id})
}

// markCustomDecoded appends a slot for a custom section encountered while
// decoding, in wire order.
func (m *Module) markCustomDecoded(cs *CustomSection) {
	m.order = append(m.order, sectionSlot{id: SectionCustom, custom: cs})
}

// ensureStandardSection makes sure a slot exists for the given standard
// section id, inserting one in canonical position if absent. effectiveOrder
// calls it for every populated standard section, so a section that a pass
// fills in after decoding (e.g. remapstart adding an export section to a
// module that had none) is still emitted.
func (m *Module) ensureStandardSection(id byte) {
	m.buildOrderIfAbsent()
	for _, s := range m.order {
		if s.id == id {
			return
		}
	}
	target := standardOrderIndex(id)
	insertAt := len(m.order)
	for i, s := range m.order {
		if s.id == SectionCustom {
			continue
		}
		if standardOrderIndex(s.id) > target {
			insertAt = i
			break
		}
	}
	slot := sectionSlot{id: id}
	m.order = append(m.order, sectionSlot{})
	copy(m.order[insertAt+1:], m.order[insertAt:])
	m.order[insertAt] = slot
}

func standardOrderIndex(id byte) int {
	for i, sid := range standardSectionIDsInOrder {
		if sid == id {
			return i
		}
	}
	return len(standardSectionIDsInOrder)
}

// buildOrderIfAbsent synthesises a canonical section order for modules that
// were constructed in memory rather than decoded from bytes.
func (m *Module) buildOrderIfAbsent() {
	if m.order != nil {
		return
	}
	var order []sectionSlot
	for _, id := range standardSectionIDsInOrder {
		if m.hasStandardSection(id) {
			order = append(order, sectionSlot{id: id})
		}
	}
	for _, cs := range m.CustomSections {
		order = append(order, sectionSlot{id: SectionCustom, custom: cs})
	}
	m.order = order
}

func (m *Module) hasStandardSection(id byte) bool {
	switch id {
	case SectionType:
		return len(m.TypeDefs) > 0 || len(m.Types) > 0
	case SectionImport:
		return len(m.Imports) > 0
	case SectionFunction:
		return len(m.Funcs) > 0
	case SectionTable:
		return len(m.Tables) > 0
	case SectionMemory:
		return len(m.Memories) > 0
	case SectionTag:
		return len(m.Tags) > 0
	case SectionGlobal:
		return len(m.Globals) > 0
	case SectionExport:
		return len(m.Exports) > 0
	case SectionStart:
		return m.Start != nil
	case SectionElement:
		return len(m.Elements) > 0
	case SectionDataCount:
		return m.DataCount != nil
	case SectionCode:
		return len(m.Code) > 0
	case SectionData:
		return len(m.Data) > 0
	default:
		return false
	}
}

// effectiveOrder returns the section sequence Encode should emit: the
// decoded order if the module came from ParseModule, or a freshly
// synthesised canonical order for an in-memory-built module. A populated
// standard section that the order lacks gets a slot in canonical position.
func (m *Module) effectiveOrder() []sectionSlot {
	m.buildOrderIfAbsent()
	for _, id := range standardSectionIDsInOrder {
		if m.hasStandardSection(id) {
			m.ensureStandardSection(id)
		}
	}
	return m.order
}

// AppendCustomSection adds a new custom section at the end of the section
// stream and returns it.
func (m *Module) AppendCustomSection(name string, data []byte) *CustomSection {
	m.buildOrderIfAbsent()
	cs := &CustomSection{Name: name, Data: data}
	m.CustomSections = append(m.CustomSections, cs)
	m.order = append(m.order, sectionSlot{id: SectionCustom, custom: cs})
	return cs
}

// CustomSectionIndexByName returns the index into CustomSections of the
// first custom section with the given name, or -1 if none match.
func (m *Module) CustomSectionIndexByName(name string) int {
	for i, cs := range m.CustomSections {
		if cs.Name == name {
			return i
		}
	}
	return -1
}

// RemoveCustomSection removes cs from both CustomSections and the section
// order, returning true iff it was present.
func (m *Module) RemoveCustomSection(cs *CustomSection) bool {
	for i, c := range m.CustomSections {
		if c == cs {
			m.CustomSections = append(m.CustomSections[:i], m.CustomSections[i+1:]...)
			break
		}
	}
	for i, s := range m.order {
		if s.custom == cs {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return true
		}
	}
	return false
}

// SectionCount returns the number of slots in the raw section stream
// (standard sections present plus every custom section), in wire order.
func (m *Module) SectionCount() int {
	m.buildOrderIfAbsent()
	return len(m.order)
}

// RemoveSectionAt drops the section-stream slot at the given raw index,
// regardless of its kind. Out-of-range indices are a no-op returning false.
func (m *Module) RemoveSectionAt(index int) bool {
	m.buildOrderIfAbsent()
	if index < 0 || index >= len(m.order) {
		return false
	}
	slot := m.order[index]
	m.order = append(m.order[:index], m.order[index+1:]...)
	if slot.id == SectionCustom {
		for i, c := range m.CustomSections {
			if c == slot.custom {
				m.CustomSections = append(m.CustomSections[:i], m.CustomSections[i+1:]...)
				break
			}
		}
		if slot.custom != nil && slot.custom.Name == "name" {
			m.Names = nil
		}
		return true
	}
	m.clearStandardSection(slot.id)
	return true
}

func (m *Module) clearStandardSection(id byte) {
	switch id {
	case SectionType:
		m.Types, m.TypeDefs = nil, nil
	case SectionImport:
		m.Imports = nil
	case SectionFunction:
		m.Funcs = nil
	case SectionTable:
		m.Tables = nil
	case SectionMemory:
		m.Memories = nil
	case SectionTag:
		m.Tags = nil
	case SectionGlobal:
		m.Globals = nil
	case SectionExport:
		m.Exports = nil
	case SectionStart:
		m.Start = nil
	case SectionElement:
		m.Elements = nil
	case SectionDataCount:
		m.DataCount = nil
	case SectionCode:
		m.Code = nil
	case SectionData:
		m.Data = nil
	}
}

// HasNamesSection reports whether a "name" custom section exists, whether
// raw or already lifted into the parsed form.
func (m *Module) HasNamesSection() bool {
	if m.Names != nil {
		return true
	}
	return m.CustomSectionIndexByName("name") >= 0
}

// DropNamesSection removes the "name" custom section in either
// representation. Returns true iff something was removed.
func (m *Module) DropNamesSection() bool {
	removed := false
	if idx := m.CustomSectionIndexByName("name"); idx >= 0 {
		removed = m.RemoveCustomSection(m.CustomSections[idx])
	}
	if m.Names != nil {
		m.Names = nil
		removed = true
	}
	return removed
}

// Clone returns a deep-enough copy of the module suitable for functional
// (non-mutating) pass forms: the top-level section slices and the custom
// section payloads are copied, and the section order is copied with its
// custom slots pointing at the cloned sections, so the clone encodes with the
// receiver's byte-for-byte layout. Nested data (code bytes, parameter lists,
// the name section's maps) is shared with the receiver.
func (m *Module) Clone() *Module {
	cp := *m
	cp.Types = append([]FuncType(nil), m.Types...)
	cp.TypeDefs = append([]TypeDef(nil), m.TypeDefs...)
	cp.Imports = append([]Import(nil), m.Imports...)
	cp.Funcs = append([]uint32(nil), m.Funcs...)
	cp.Tables = append([]TableType(nil), m.Tables...)
	cp.Memories = append([]MemoryType(nil), m.Memories...)
	cp.Globals = append([]Global(nil), m.Globals...)
	cp.Exports = append([]Export(nil), m.Exports...)
	cp.Elements = append([]Element(nil), m.Elements...)
	cp.Code = append([]FuncBody(nil), m.Code...)
	cp.Data = append([]DataSegment(nil), m.Data...)
	cp.Tags = append([]TagType(nil), m.Tags...)
	if m.Start != nil {
		start := *m.Start
		cp.Start = &start
	}
	if m.DataCount != nil {
		dc := *m.DataCount
		cp.DataCount = &dc
	}
	cp.CustomSections = make([]*CustomSection, len(m.CustomSections))
	old2new := make(map[*CustomSection]*CustomSection, len(m.CustomSections))
	for i, cs := range m.CustomSections {
		clone := &CustomSection{Name: cs.Name, Data: append([]byte(nil), cs.Data...)}
		cp.CustomSections[i] = clone
		old2new[cs] = clone
	}
	cp.order = make([]sectionSlot, len(m.order))
	for i, s := range m.order {
		if s.id == SectionCustom {
			cp.order[i] = sectionSlot{id: SectionCustom, custom: old2new[s.custom]}
		} else {
			cp.order[i] = s
		}
	}
	if m.Names != nil {
		names := *m.Names
		cp.Names = &names
	}
	return &cp
}
