package gen

import "slices"

// Export is one entry of the aggregate export unit.
type Export struct {
	TypeName   string
	ModuleName string
}

// Unit is one generated output unit. It is written as soon as it is
// rendered and not retained.
type Unit struct {
	TypeName   string
	ModuleName string
	// File is the path the unit was written to.
	File   string
	Source []byte
}

// Manifest accumulates the exports of a generation run. Entries are added
// strictly after the corresponding unit was written.
type Manifest struct {
	*Config
	exports []Export
}

// Add appends the unit to the manifest.
func (m *Manifest) Add(u Unit) {
	m.exports = append(m.exports, Export{TypeName: u.TypeName, ModuleName: u.ModuleName})
}

// Len returns the number of recorded units.
func (m *Manifest) Len() int { return len(m.exports) }

// Exports returns the recorded units ordered by the configured export order.
func (m *Manifest) Exports() []Export {
	exports := slices.Clone(m.exports)
	if m.ExportOrder == OrderSorted {
		sortByName(exports, func(e Export) string { return e.TypeName })
	}
	return exports
}

// Module returns the module name of the aggregate export unit.
func (m *Manifest) Module() string {
	return m.Naming().Module(ExportsName)
}
