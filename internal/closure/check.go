package closure

import (
	"fmt"
	"strings"

	"mapvet/internal/common"
	"mapvet/internal/diagnostic"
	"mapvet/internal/metadata"
	"mapvet/internal/model"
)

// Relationships returns the catalog's association sets as closure edges,
// sorted by name.
func Relationships(cat *metadata.Catalog) []Relationship {
	names := cat.AssociationSetNames()
	out := make([]Relationship, 0, len(names))

	for _, name := range names {
		as := cat.AssociationSet(name)
		out = append(out, Relationship{
			Set:        name,
			Ends:       [2]string{as.Ends[0].EntitySet, as.Ends[1].EntitySet},
			ForeignKey: cat.IsForeignKey(name),
		})
	}

	return out
}

// QueryViews reports the sets that must be mapped by query views because a
// related set is. A single diagnostic names all of them.
func QueryViews(cm *model.ContainerMapping, cat *metadata.Catalog) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if !checkInputs(res, cm, cat) {
		return res
	}

	var seed []string

	for _, sm := range cm.AllSetMappings() {
		if sm.HasQueryView() {
			seed = append(seed, sm.Set)
		}
	}

	if common.IsEmpty(seed) {
		return res
	}

	closure := Compute(Relationships(cat), seed)
	if common.IsEmpty(closure.Violations) {
		return res
	}

	res.AddError(diagnostic.CodeMissingQueryViewClosure,
		fmt.Sprintf("sets related to %s must also be mapped by query views: %s",
			strings.Join(common.NewSet(seed...).Sorted(), ", "), strings.Join(closure.Violations, ", ")),
		location(cm, closure.Violations), "", "")

	return res
}

// FunctionMappings reports, per store table, the sets that must be mapped
// to modification functions because another set mapped into the same table
// is. A set counts as mapped when it has a function mapping, or when it is
// an association set whose end is bound by an entity set's functions.
//
// Only sets touching the table are named; sets reached through a
// relationship but stored elsewhere are judged by their own tables.
func FunctionMappings(cm *model.ContainerMapping, cat *metadata.Catalog) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if !checkInputs(res, cm, cat) {
		return res
	}

	mapped := functionMapped(cm)
	byTable := make(map[string][]string)

	for _, sm := range cm.AllSetMappings() {
		for _, table := range sm.Tables() {
			byTable[table] = append(byTable[table], sm.Set)
		}
	}

	for _, table := range common.SortedKeys(byTable) {
		seed := common.NewSet[string]()
		unmapped := common.NewSet[string]()

		for _, set := range byTable[table] {
			if mapped.Contains(set) {
				seed.Add(set)
			} else {
				unmapped.Add(set)
			}
		}

		if len(seed) == 0 || len(unmapped) == 0 {
			continue
		}

		names := unmapped.Sorted()
		res.AddError(diagnostic.CodeMissingFunctionMappingClosure,
			fmt.Sprintf("table %q is modified through functions by %s; %s must also be mapped to functions",
				table, strings.Join(seed.Sorted(), ", "), strings.Join(names, ", ")),
			location(cm, names), "", table)
	}

	return res
}

// functionMapped returns the sets with function mappings and the
// association sets covered by collocated ends.
func functionMapped(cm *model.ContainerMapping) common.Set[string] {
	out := common.NewSet[string]()

	for _, sm := range cm.AllSetMappings() {
		if sm.HasFunctionMappings() {
			out.Add(sm.Set)
		}

		for _, end := range sm.CollocatedEnds() {
			out.Add(end.AssociationSet)
		}
	}

	return out
}

// location points at the first named set that has a mapping, or at the
// container.
func location(cm *model.ContainerMapping, sets []string) diagnostic.Location {
	for _, name := range sets {
		if sm, ok := cm.SetMapping(name); ok {
			return sm.Location
		}
	}

	return cm.Location()
}

func checkInputs(res *diagnostic.Diagnostics, cm *model.ContainerMapping, cat *metadata.Catalog) bool {
	switch {
	case cm == nil:
		res.AddError(diagnostic.CodeNilInput, "container mapping is nil", diagnostic.Location{}, "", "")
	case cat == nil:
		res.AddError(diagnostic.CodeNilInput, "catalog is nil", diagnostic.Location{}, "", "")
	default:
		return true
	}

	return false
}
