package evaluator

import (
	"github.com/Rototu/recursiveSQLDatabase/internal/ir"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
)

// executeTerm runs one SELECT arm of a query against w/r and reports the
// number of new rows it contributed to r. A bare "SELECT * FROM t" term
// short-circuits to Phase A; every other term runs the full Phase B-G
// pipeline of spec.md §4.5.
func executeTerm(e *catalog.Engine, term ir.Term, w, r string, declCols []string, blockSize int) (int, error) {
	if term.IsSelectStar() {
		return executeSelectStar(e, term, w, r)
	}

	cls := classify(term)

	nameMap, err := simplifyTables(e, term, cls)
	if err != nil {
		return 0, err
	}

	pairTables, err := buildPairTables(e, cls, nameMap)
	if err != nil {
		return 0, err
	}

	items, err := buildIndependentItems(e, term, cls, nameMap, pairTables)
	if err != nil {
		return 0, err
	}

	final, err := crossProduct(e, items, term, declCols, blockSize)
	if err != nil {
		return 0, err
	}

	pairNames := make(map[string]bool, len(pairTables))
	for _, name := range pairTables {
		pairNames[name] = true
	}
	for t, name := range nameMap {
		if name != t {
			pairNames[name] = true
		}
	}
	return emit(e, final, pairNames, w, r)
}
