package consistency

import (
	"fmt"
	"strings"

	"mapvet/internal/common"
	"mapvet/internal/diagnostic"
	"mapvet/internal/metadata"
	"mapvet/internal/model"
)

// coverage is one entity set binding an end of an association set.
type coverage struct {
	entitySet string
	role      string
	at        diagnostic.Location
}

// MappedOnce reports every association set that is mapped to functions both
// directly and through a collocated end, or through several ends. Each
// association set gets at most one diagnostic naming every mapping.
func MappedOnce(cm *model.ContainerMapping, cat *metadata.Catalog) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if !checkInputs(res, cm, cat) {
		return res
	}

	direct := make(map[string]*model.SetMapping)
	implicit := make(map[string][]coverage)

	for _, sm := range cm.AssociationSetMappings() {
		if sm.HasFunctionMappings() {
			direct[sm.Set] = sm
		}
	}

	for _, sm := range cm.EntitySetMappings() {
		for _, end := range sm.CollocatedEnds() {
			implicit[end.AssociationSet] = append(implicit[end.AssociationSet],
				coverage{entitySet: sm.Set, role: end.Role, at: sm.Location})
		}
	}

	names := common.NewSet(common.SortedKeys(implicit)...)
	for name := range direct {
		names.Add(name)
	}

	for _, name := range names.Sorted() {
		sm, own := direct[name]
		covers := implicit[name]

		count := len(covers)
		if own {
			count++
		}

		if count < 2 {
			continue
		}

		var (
			by []string
			at diagnostic.Location
		)

		if own {
			by = append(by, "its own function mapping")
			at = sm.Location
		} else {
			at = covers[0].at
		}

		for _, c := range covers {
			by = append(by, fmt.Sprintf("entity set %q through end %q", c.entitySet, c.role))
		}

		res.AddError(diagnostic.CodeAmbiguousFunctionMapping,
			fmt.Sprintf("association set %q is mapped to functions %d times: by %s", name, count, strings.Join(by, ", by ")),
			at, name, "")
	}

	return res
}

// OperationEnds checks the association ends bound by the functions of each
// entity type.
//
// An end bound by any function of an entity set is expected from the insert
// and delete functions of every type in the set that can play the opposite
// end. Update functions may bind expected ends but need not. Every bound end
// must be one the type can play.
func OperationEnds(cm *model.ContainerMapping, cat *metadata.Catalog) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if !checkInputs(res, cm, cat) {
		return res
	}

	for _, sm := range cm.EntitySetMappings() {
		if !sm.HasFunctionMappings() || cat.EntitySet(sm.Set) == nil {
			continue
		}

		covered := sm.CollocatedEnds()

		for i := range sm.FunctionMappings {
			fm := &sm.FunctionMappings[i]
			if fm.EntityType == "" || cat.EntityType(fm.EntityType) == nil {
				continue
			}

			checkEntityType(res, cat, sm.Set, fm, covered)
		}
	}

	return res
}

func checkEntityType(
	res *diagnostic.Diagnostics,
	cat *metadata.Catalog,
	set string,
	fm *model.FunctionMapping,
	covered []model.EndRef,
) {
	var expected []model.EndRef

	for _, end := range covered {
		if valid, known := plays(cat, set, fm.EntityType, end); known && valid {
			expected = append(expected, end)
		}
	}

	for _, fn := range fm.Functions() {
		actual := fn.CollocatedEnds()
		bound := common.NewSet[string]()

		for _, end := range actual {
			bound.Add(end.String())

			if valid, known := plays(cat, set, fm.EntityType, end); known && !valid {
				res.AddError(diagnostic.CodeEndMappingInvalidForEntityType,
					fmt.Sprintf("%s function %q binds end %s, but entity type %q in set %q cannot be related through it",
						fn.Operation, fn.Function, end, fm.EntityType, set),
					fn.Location, set, end.String())
			}
		}

		if fn.Operation == model.OperationUpdate {
			continue
		}

		for _, end := range expected {
			if !bound.Contains(end.String()) {
				res.AddError(diagnostic.CodeAssociationSetNotMappedForOperation,
					fmt.Sprintf("%s function %q of entity type %q does not bind end %s, which other functions of set %q bind",
						fn.Operation, fn.Function, fm.EntityType, end, set),
					fn.Location, set, end.String())
			}
		}
	}
}

// plays reports whether an entity of type entityType in set can be related
// through end, that is, whether it fits the association's opposite end.
// known is false when the end doesn't resolve against the catalog.
func plays(cat *metadata.Catalog, set, entityType string, end model.EndRef) (valid, known bool) {
	as := cat.AssociationSet(end.AssociationSet)
	if as == nil {
		return false, false
	}

	assoc := cat.Association(as.Association)
	if assoc == nil {
		return false, false
	}

	if _, ok := as.End(end.Role); !ok {
		return false, false
	}

	from := as.Ends[0]
	if from.Role == end.Role {
		from = as.Ends[1]
	}

	fromType, ok := assoc.End(from.Role)
	if !ok {
		return false, false
	}

	return from.EntitySet == set && cat.IsAssignable(entityType, fromType.EntityType), true
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
