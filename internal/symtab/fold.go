package symtab

import "golang.org/x/text/cases"

var foldCaser = cases.Fold()

// FoldName returns the case-folded form of a label/variable name, used
// only to detect likely-typo near-duplicates; exact-match lookups
// (FindLabelDefinition, FindVariableDefinition) are never case-folded,
// since DP identifiers are case-sensitive.
func FoldName(name string) string {
	return foldCaser.String(name)
}

// NearDuplicatePair is two distinct names that fold to the same form.
type NearDuplicatePair struct {
	A, B SymbolPosition
	Name string
}

// NearDuplicates scans every key recorded in defs and reports pairs of
// distinct spellings that case-fold identically — a likely typo, not a
// spec-mandated diagnostic. The first recorded position of each name is
// used as its anchor.
func NearDuplicates(defs *OrderedPositions) []NearDuplicatePair {
	byFold := make(map[string]string) // folded -> first original spelling seen
	var pairs []NearDuplicatePair

	for _, name := range defs.Keys() {
		folded := FoldName(name)
		if other, ok := byFold[folded]; ok && other != name {
			positions := defs.Get(name)
			otherPositions := defs.Get(other)
			if len(positions) > 0 && len(otherPositions) > 0 {
				pairs = append(pairs, NearDuplicatePair{A: otherPositions[0], B: positions[0], Name: folded})
			}
			continue
		}
		byFold[folded] = name
	}
	return pairs
}
