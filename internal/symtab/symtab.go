// Package symtab implements the per-file symbol tables and cross-file,
// one-hop lookups described in spec.md §4.5: "the one-hop reference set
// is intentional ... imports are flat per file."
package symtab

import "github.com/dekarrin/dpc/internal/ast"

// SymbolPosition names a single occurrence of a symbol: where it was
// declared or used.
type SymbolPosition struct {
	SourceID string
	Label    string // enclosing label name, empty for top-level occurrences
	Line     int
	Column   int
}

func posOf(sourceID, label string, p ast.Pos) SymbolPosition {
	return SymbolPosition{SourceID: sourceID, Label: label, Line: p.Line, Column: p.Column}
}

// OrderedPositions is an insertion-ordered multimap from name to the
// SymbolPositions recorded for it. Iteration order of a plain Go map is
// not deterministic, but spec.md §5 requires diagnostics to iterate
// "in insertion order (the order in which IR builder walked the
// source)" — Keys() preserves that order.
type OrderedPositions struct {
	keys   []string
	seen   map[string]bool
	values map[string][]SymbolPosition
}

func newOrderedPositions() *OrderedPositions {
	return &OrderedPositions{seen: make(map[string]bool), values: make(map[string][]SymbolPosition)}
}

// Add records one more occurrence of name.
func (o *OrderedPositions) Add(name string, pos SymbolPosition) {
	if !o.seen[name] {
		o.seen[name] = true
		o.keys = append(o.keys, name)
	}
	o.values[name] = append(o.values[name], pos)
}

// Keys returns every distinct name added, in first-added order.
func (o *OrderedPositions) Keys() []string {
	return o.keys
}

// Get returns every position recorded for name, in the order Add was
// called. A nil/empty result means name was never recorded.
func (o *OrderedPositions) Get(name string) []SymbolPosition {
	return o.values[name]
}

// Len reports how many positions were recorded for name.
func (o *OrderedPositions) Len(name string) int {
	return len(o.values[name])
}

// FileSymbolTable is the per-source-URI symbol table (spec.md §3): five
// name→position mappings recorded while the IR builder walks one file.
type FileSymbolTable struct {
	SourceID string

	LabelDefs      *OrderedPositions
	VariableDefs   *OrderedPositions
	LabelUsages    *OrderedPositions
	VariableUsages *OrderedPositions

	// References is keyed by imported source URI; each entry's positions
	// are every `import` statement in this file that names that URI (in
	// source order). "Exactly one" import per URI is the expected case;
	// Len(uri) > 1 signals the duplicate-import warning (spec.md §4.4).
	References *OrderedPositions
}

// NewFileSymbolTable returns an empty table for sourceID.
func NewFileSymbolTable(sourceID string) *FileSymbolTable {
	return &FileSymbolTable{
		SourceID:       sourceID,
		LabelDefs:      newOrderedPositions(),
		VariableDefs:   newOrderedPositions(),
		LabelUsages:    newOrderedPositions(),
		VariableUsages: newOrderedPositions(),
		References:     newOrderedPositions(),
	}
}

func (t *FileSymbolTable) AddLabelDef(name, label string, p ast.Pos) {
	t.LabelDefs.Add(name, posOf(t.SourceID, label, p))
}

func (t *FileSymbolTable) AddVariableDef(name, label string, p ast.Pos) {
	t.VariableDefs.Add(name, posOf(t.SourceID, label, p))
}

func (t *FileSymbolTable) AddLabelUsage(name, label string, p ast.Pos) {
	t.LabelUsages.Add(name, posOf(t.SourceID, label, p))
}

func (t *FileSymbolTable) AddVariableUsage(name, label string, p ast.Pos) {
	t.VariableUsages.Add(name, posOf(t.SourceID, label, p))
}

// AddReference records one `import` statement naming importedURI.
func (t *FileSymbolTable) AddReference(importedURI, label string, p ast.Pos) {
	t.References.Add(importedURI, posOf(t.SourceID, label, p))
}

// Manager owns every FileSymbolTable produced during a compile, keyed by
// canonical source URI.
type Manager struct {
	tables map[string]*FileSymbolTable
}

func NewManager() *Manager {
	return &Manager{tables: make(map[string]*FileSymbolTable)}
}

// Install stores (or replaces) the table for a URI.
func (m *Manager) Install(uri string, t *FileSymbolTable) {
	m.tables[uri] = t
}

// Get returns the table installed for uri, if any.
func (m *Manager) Get(uri string) (*FileSymbolTable, bool) {
	t, ok := m.tables[uri]
	return t, ok
}

// FindLabelDefinition collects every LabelDefs[name] position from
// rootURI's own table plus, for each URI in rootURI's References (in
// insertion order), that file's table. Lookup is one-hop only: a
// reference's own references are not followed (spec.md §4.5).
func (m *Manager) FindLabelDefinition(rootURI, name string) []SymbolPosition {
	return m.findDefinition(rootURI, name, func(t *FileSymbolTable) *OrderedPositions { return t.LabelDefs })
}

// FindVariableDefinition is FindLabelDefinition's VariableDefs analogue.
func (m *Manager) FindVariableDefinition(rootURI, name string) []SymbolPosition {
	return m.findDefinition(rootURI, name, func(t *FileSymbolTable) *OrderedPositions { return t.VariableDefs })
}

func (m *Manager) findDefinition(rootURI, name string, pick func(*FileSymbolTable) *OrderedPositions) []SymbolPosition {
	root, ok := m.tables[rootURI]
	if !ok {
		return nil
	}
	var out []SymbolPosition
	out = append(out, pick(root).Get(name)...)
	for _, refURI := range root.References.Keys() {
		if refTable, ok := m.tables[refURI]; ok {
			out = append(out, pick(refTable).Get(name)...)
		}
	}
	return out
}
