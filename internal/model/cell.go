package model

import (
	"slices"

	"mapvet/internal/common"
	"mapvet/internal/diagnostic"
)

// Correspondence pairs a conceptual member path with a store column.
type Correspondence struct {
	Member string
	Column string
}

// ConditionKind is the predicate a cell condition applies.
type ConditionKind int

const (
	ConditionEquals ConditionKind = iota
	ConditionIsNull
	ConditionIsNotNull
)

// String returns a human-readable predicate name.
func (k ConditionKind) String() string {
	switch k {
	case ConditionEquals:
		return "="
	case ConditionIsNull:
		return "is null"
	case ConditionIsNotNull:
		return "is not null"
	default:
		return common.UnknownStr
	}
}

// CellCondition is a Boolean restriction carried by a cell.
type CellCondition struct {
	Target string
	// Store is true when Target is a column rather than a member.
	Store bool
	Kind  ConditionKind
	Value string
}

// Cell is the atomic mapping unit: one type scope, one table, the
// correspondences between them and their conditions.
//
// Cells are values; two cells with the same content are interchangeable.
type Cell struct {
	Set             string
	Types           []TypeRef
	Table           string
	Distinct        bool
	Correspondences []Correspondence
	Conditions      []CellCondition
	Location        diagnostic.Location
}

// Clone returns a deep copy of the cell.
func (c Cell) Clone() Cell {
	c.Types = slices.Clone(c.Types)
	c.Correspondences = slices.Clone(c.Correspondences)
	c.Conditions = slices.Clone(c.Conditions)

	return c
}

// CellGroup is a set of cells that view generation must process together.
type CellGroup struct {
	// Tables are the store tables the group's cells target, sorted.
	Tables []string
	Cells  []Cell
}

// Clone returns a deep copy of the group.
func (g CellGroup) Clone() CellGroup {
	return CellGroup{Tables: slices.Clone(g.Tables), Cells: cloneCells(g.Cells)}
}

// ForeignKeyConstraint links a child table to the table it references.
type ForeignKeyConstraint struct {
	Name          string
	ChildTable    string
	ChildColumns  []string
	ParentTable   string
	ParentColumns []string
}

// Clone returns a deep copy of the constraint.
func (f ForeignKeyConstraint) Clone() ForeignKeyConstraint {
	f.ChildColumns = slices.Clone(f.ChildColumns)
	f.ParentColumns = slices.Clone(f.ParentColumns)

	return f
}

// CellGroupOutput is what view generation receives for a container mapping.
//
// When Success is false there was nothing to partition and the caller
// should fall back to a different view-generation strategy; ForeignKeys
// and Groups are empty in that case.
type CellGroupOutput struct {
	Cells       []Cell
	Groups      []CellGroup
	ForeignKeys []ForeignKeyConstraint
	Identifiers []string
	Success     bool
}

// Clone returns a deep copy of the output.
func (o CellGroupOutput) Clone() CellGroupOutput {
	out := CellGroupOutput{
		Cells:       cloneCells(o.Cells),
		Identifiers: slices.Clone(o.Identifiers),
		Success:     o.Success,
	}

	if o.Groups != nil {
		out.Groups = make([]CellGroup, len(o.Groups))
		for i := range o.Groups {
			out.Groups[i] = o.Groups[i].Clone()
		}
	}

	if o.ForeignKeys != nil {
		out.ForeignKeys = make([]ForeignKeyConstraint, len(o.ForeignKeys))
		for i := range o.ForeignKeys {
			out.ForeignKeys[i] = o.ForeignKeys[i].Clone()
		}
	}

	return out
}

func cloneCells(cells []Cell) []Cell {
	if cells == nil {
		return nil
	}

	out := make([]Cell, len(cells))
	for i := range cells {
		out[i] = cells[i].Clone()
	}

	return out
}
