package evaluator

import (
	"sort"

	"github.com/Rototu/recursiveSQLDatabase/internal/ir"
	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
)

// independentItem is one member of Phase F's independent collection I: a
// physical table plus enough information to resolve a term.Cols entry
// against one of its records. qualified tables (pair-tree representatives)
// store columns as "label.col"; unqualified tables (no_ops / unjoined
// simplified tables) keep the original table's bare column names, and
// table names the single original table they represent.
type independentItem struct {
	physical  string
	qualified bool
	table     string
}

type childEdge struct {
	node   *treeNode
	source string
}

type treeNode struct {
	pk       pairKey
	children []childEdge
}

// buildForest decomposes the pair graph into trees by a DFS that consumes
// each pair key once (spec.md §4.5 Phase E), using lexicographic order on
// pair keys and adjacency lists for a deterministic shape.
func buildForest(pairKeys []pairKey) []*treeNode {
	sorted := append([]pairKey(nil), pairKeys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })

	graph := buildPairGraph(sorted)
	for _, edges := range graph {
		sort.Slice(edges, func(i, j int) bool { return edges[i].to.String() < edges[j].to.String() })
	}

	visited := make(map[pairKey]bool)
	var dfs func(pk pairKey) *treeNode
	dfs = func(pk pairKey) *treeNode {
		visited[pk] = true
		node := &treeNode{pk: pk}
		for _, edge := range graph[pk] {
			if visited[edge.to] {
				continue
			}
			child := dfs(edge.to)
			node.children = append(node.children, childEdge{node: child, source: edge.source})
		}
		return node
	}

	var roots []*treeNode
	for _, pk := range sorted {
		if !visited[pk] {
			roots = append(roots, dfs(pk))
		}
	}
	return roots
}

// evalTree evaluates one join tree post-order: each node intersects its
// rows against every child's rows on their shared source table's
// provenance column, hash-joining the child's columns in, then overwrites
// its own pair table in place (spec.md §4.5 Phase E).
func evalTree(e *catalog.Engine, node *treeNode, pairTables map[pairKey]string, term ir.Term) (string, error) {
	for _, ce := range node.children {
		if _, err := evalTree(e, ce.node, pairTables, term); err != nil {
			return "", err
		}
	}

	self := pairTables[node.pk]
	if len(node.children) == 0 {
		return self, nil
	}

	seq, err := e.GetAllRecords(self)
	if err != nil {
		return "", err
	}
	rows := materializeSeq(seq)

	var composed []record.Record
	for _, pr := range rows {
		combos := [][]record.Record{{pr}}
		keep := true
		for _, ce := range node.children {
			provCol := record.ProvenanceColumn(ce.source)
			v, ok := pr[provCol]
			if !ok {
				keep = false
				break
			}
			childTable := pairTables[ce.node.pk]
			has, err := e.HasValue(childTable, provCol, v)
			if err != nil {
				return "", err
			}
			if !has {
				keep = false
				break
			}
			matchSeq, err := e.GetRecsFromHash(childTable, provCol, catalog.Eq, v)
			if err != nil {
				return "", err
			}
			matches := materializeSeq(matchSeq)

			next := make([][]record.Record, 0, len(combos)*len(matches))
			for _, combo := range combos {
				for _, m := range matches {
					next = append(next, append(append([]record.Record{}, combo...), m))
				}
			}
			combos = next
		}
		if !keep {
			continue
		}
		for _, combo := range combos {
			composed = append(composed, projectTreeRow(combo, node.pk, term))
		}
	}

	if err := e.ClearTable(self); err != nil {
		return "", err
	}
	if _, err := e.InsertUniqueRecordsByID(self, composed); err != nil {
		return "", err
	}
	if err := e.HashTable(self, record.ProvenanceColumn(node.pk.A), true); err != nil {
		return "", err
	}
	if err := e.HashTable(self, record.ProvenanceColumn(node.pk.B), true); err != nil {
		return "", err
	}
	return self, nil
}

// projectTreeRow merges a combo of rows (the parent plus one per child) by
// field union, then narrows to {_id<p0>, _id<p1>} ∪ term.cols.
func projectTreeRow(combo []record.Record, pk pairKey, term ir.Term) record.Record {
	merged := record.Record{}
	for _, r := range combo {
		for k, v := range r {
			merged[k] = v
		}
	}

	out := record.Record{
		record.ProvenanceColumn(pk.A): merged[record.ProvenanceColumn(pk.A)],
		record.ProvenanceColumn(pk.B): merged[record.ProvenanceColumn(pk.B)],
	}
	for _, col := range term.Cols {
		if col.All {
			continue
		}
		key := col.Table + "." + col.Col
		if v, ok := merged[key]; ok {
			out[key] = v
		}
	}
	return out
}

// buildIndependentItems runs Phase E end to end and collects I: tree
// representatives, no_ops tables, and simplified tables that never joined.
func buildIndependentItems(e *catalog.Engine, term ir.Term, cls classification, nameMap map[string]string, pairTables map[pairKey]string) ([]independentItem, error) {
	pairKeys := make([]pairKey, 0, len(pairTables))
	for pk := range pairTables {
		pairKeys = append(pairKeys, pk)
	}
	forest := buildForest(pairKeys)

	inComposite := make(map[string]bool)
	for pk := range pairTables {
		inComposite[pk.A] = true
		inComposite[pk.B] = true
	}

	var items []independentItem
	for _, root := range forest {
		repr, err := evalTree(e, root, pairTables, term)
		if err != nil {
			return nil, err
		}
		items = append(items, independentItem{physical: repr, qualified: true})
	}

	for _, t := range cls.noOps {
		items = append(items, independentItem{physical: nameMap[t], qualified: false, table: t})
	}
	for t := range cls.simple {
		if inComposite[t] {
			continue
		}
		items = append(items, independentItem{physical: nameMap[t], qualified: false, table: t})
	}
	return items, nil
}
