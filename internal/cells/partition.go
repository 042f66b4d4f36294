package cells

import (
	"slices"

	"mapvet/internal/common"
	"mapvet/internal/model"
)

// Partition groups cells by store table, joining tables linked by foreign
// keys. Foreign keys to tables no cell targets are ignored.
//
// Groups are ordered by their first cell, and cells keep their input order
// within a group. Every input cell appears in exactly one group; the groups
// hold copies.
func Partition(cells []model.Cell, fks []model.ForeignKeyConstraint) []model.CellGroup {
	if common.IsEmpty(cells) {
		return nil
	}

	tables := newUnionFind()
	for i := range cells {
		tables.add(cells[i].Table)
	}

	for _, fk := range fks {
		if tables.has(fk.ChildTable) && tables.has(fk.ParentTable) {
			tables.union(fk.ChildTable, fk.ParentTable)
		}
	}

	index := make(map[string]int)

	var groups []model.CellGroup

	for i := range cells {
		root := tables.find(cells[i].Table)

		g, ok := index[root]
		if !ok {
			g = len(groups)
			index[root] = g

			groups = append(groups, model.CellGroup{})
		}

		groups[g].Cells = append(groups[g].Cells, cells[i].Clone())

		if !slices.Contains(groups[g].Tables, cells[i].Table) {
			groups[g].Tables = append(groups[g].Tables, cells[i].Table)
		}
	}

	for i := range groups {
		slices.Sort(groups[i].Tables)
	}

	return groups
}

// unionFind is a disjoint-set forest over table names.
type unionFind struct {
	parent map[string]string
	rank   map[string]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[string]string), rank: make(map[string]int)}
}

func (u *unionFind) add(x string) {
	if _, ok := u.parent[x]; !ok {
		u.parent[x] = x
	}
}

func (u *unionFind) has(x string) bool {
	_, ok := u.parent[x]
	return ok
}

func (u *unionFind) find(x string) string {
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}

	for x != root {
		next := u.parent[x]
		u.parent[x] = root
		x = next
	}

	return root
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}

	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
}
