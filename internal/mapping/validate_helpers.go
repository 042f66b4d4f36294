package mapping

import (
	"fmt"

	"mapvet/internal/common"
	"mapvet/internal/diagnostic"
	"mapvet/internal/metadata"
	"mapvet/internal/model"
)

// fragmentTable resolves a fragment's table; fragments without one were
// already reported by Build.
func (v *validator) fragmentTable(set string, f *model.Fragment) *metadata.Table {
	if f.Table == "" {
		return nil
	}

	return v.checkTable(f.Table, f.Location, set)
}

func (v *validator) validateFragment(sm *model.SetMapping, types []model.TypeRef, f *model.Fragment) {
	t := v.fragmentTable(sm.Set, f)
	columns := make(map[string]string)

	// Unknown types were reported already; members are checked against the rest.
	types = v.knownTypes(types)

	for _, pm := range f.Properties {
		if pm.Kind == model.EndProperty {
			v.errorf(diagnostic.CodeUnknownProperty, pm.Location, sm.Set, pm.Name,
				"end mapping %q is only valid in association set mappings", pm.Name)

			continue
		}

		if len(types) > 0 && !v.anyHasProperty(types, pm.Name) {
			v.unknown(diagnostic.CodeUnknownProperty, "property", pm.Name,
				v.propertyNames(types), pm.Location, sm.Set, pm.Name)
		}

		v.checkLeaves(sm.Set, t, pm, columns)
	}

	v.checkConditions(sm.Set, t, types, f, columns)
}

func (v *validator) validateAssociationFragment(sm *model.SetMapping, as *metadata.AssociationSet, f *model.Fragment) {
	t := v.fragmentTable(sm.Set, f)
	columns := make(map[string]string)

	for _, pm := range f.Properties {
		if pm.Kind != model.EndProperty {
			v.errorf(diagnostic.CodeUnknownAssociationEnd, pm.Location, sm.Set, pm.Name,
				"association set mappings map ends; %q is not an end mapping", pm.Name)

			continue
		}

		if _, ok := as.End(pm.Name); !ok {
			v.unknown(diagnostic.CodeUnknownAssociationEnd, "association end", pm.Name,
				setRoles(as), pm.Location, sm.Set, pm.Name)

			continue
		}

		if endType := v.endType(as, pm.Name); endType != "" {
			for _, key := range pm.Properties {
				if !v.cat.HasProperty(endType, key.Name) {
					v.unknown(diagnostic.CodeUnknownProperty, "property", key.Name,
						v.cat.PropertiesOf(endType), key.Location, sm.Set, pm.Name+"."+key.Name)
				}
			}
		}

		v.checkLeaves(sm.Set, t, pm, columns)
	}

	v.checkConditions(sm.Set, t, nil, f, columns)
}

// checkLeaves verifies the columns of a property mapping and records them in
// columns (column -> root property). A column may be mapped twice only by
// one complex-property decomposition.
func (v *validator) checkLeaves(set string, t *metadata.Table, pm model.PropertyMapping, columns map[string]string) {
	for _, leaf := range pm.Leaves() {
		if t != nil && !t.HasColumn(leaf.Column) {
			v.unknownColumn(t, leaf.Column, leaf.Location, set, leaf.Path)
		}

		root, seen := columns[leaf.Column]
		if !seen {
			columns[leaf.Column] = leaf.Root
			continue
		}

		if root != leaf.Root {
			v.errorf(diagnostic.CodeDuplicateColumnMapping, leaf.Location, set, leaf.Path,
				"column %q is mapped by both %q and %q", leaf.Column, root, leaf.Root)
		}
	}
}

func (v *validator) checkConditions(
	set string,
	t *metadata.Table,
	types []model.TypeRef,
	f *model.Fragment,
	columns map[string]string,
) {
	seen := common.NewSet[string]()

	for _, c := range f.Conditions {
		if (c.Member == "") == (c.Column == "") {
			v.errorf(diagnostic.CodeInvalidCondition, c.Location, set, c.Target(),
				"condition must name exactly one of member and column")

			continue
		}

		if (c.IsNull == nil) == (c.Value == nil) {
			v.errorf(diagnostic.CodeInvalidCondition, c.Location, set, c.Target(),
				"condition on %q must set exactly one of is_null and value", c.Target())

			continue
		}

		key := "member " + c.Member
		if c.IsStoreCondition() {
			key = "column " + c.Column
		}

		if !seen.Add(key) {
			v.errorf(diagnostic.CodeDuplicateCondition, c.Location, set, c.Target(),
				"more than one condition on %s", key)

			continue
		}

		if !c.IsStoreCondition() {
			if len(types) > 0 && !v.anyHasProperty(types, c.Member) {
				v.unknown(diagnostic.CodeUnknownProperty, "property", c.Member,
					v.propertyNames(types), c.Location, set, c.Member)
			}

			continue
		}

		if t != nil && !t.HasColumn(c.Column) {
			v.unknownColumn(t, c.Column, c.Location, set, c.Column)
		}

		// A mapped column may only be tested for being non-null.
		if root, mapped := columns[c.Column]; mapped && (c.IsNull == nil || *c.IsNull) {
			v.errorf(diagnostic.CodeDuplicateColumnMapping, c.Location, set, c.Column,
				"column %q is mapped by %q and also used in a condition", c.Column, root)
		}
	}
}

func (v *validator) validateEntityFunctionMappings(sm *model.SetMapping, es *metadata.EntitySet) {
	if !sm.HasFunctionMappings() {
		return
	}

	mapped := common.NewSet[string]()

	for i := range sm.FunctionMappings {
		fm := &sm.FunctionMappings[i]

		if fm.EntityType == "" {
			v.errorf(diagnostic.CodeInvalidDeclaration, fm.Location, sm.Set, "",
				"function mapping in entity set %q names no entity type", sm.Set)

			continue
		}

		if !v.checkTypeInSet(model.TypeRef{Name: fm.EntityType}, es, fm.Location) {
			continue
		}

		if !mapped.Add(fm.EntityType) {
			v.errorf(diagnostic.CodeDuplicateName, fm.Location, sm.Set, fm.EntityType,
				"entity type %q has more than one function mapping", fm.EntityType)

			continue
		}

		for _, fn := range fm.Functions() {
			v.validateModificationFunction(sm.Set, fm.EntityType, nil, fn)
		}
	}

	for _, name := range v.cat.ConcreteTypes(es.ElementType) {
		if !mapped.Contains(name) {
			v.errorf(diagnostic.CodeMissingFunctionMappingForType, sm.Location, sm.Set, name,
				"entity set %q maps modification functions but type %q has no function mapping", sm.Set, name)
		}
	}
}

func (v *validator) validateAssociationFunctionMappings(sm *model.SetMapping, as *metadata.AssociationSet) {
	if len(sm.FunctionMappings) > 1 {
		v.errorf(diagnostic.CodeInvalidAssociationFunctionMapping, sm.Location, sm.Set, "",
			"association set %q has %d function mappings; at most one is allowed", sm.Set, len(sm.FunctionMappings))
	}

	for i := range sm.FunctionMappings {
		fm := &sm.FunctionMappings[i]

		if fm.EntityType != "" {
			v.errorf(diagnostic.CodeInvalidAssociationFunctionMapping, fm.Location, sm.Set, fm.EntityType,
				"function mapping of association set %q cannot name entity type %q", sm.Set, fm.EntityType)
		}

		if fm.Update != nil {
			v.errorf(diagnostic.CodeInvalidAssociationFunctionMapping, fm.Update.Location, sm.Set, fm.Update.Function,
				"association set %q cannot map an update function", sm.Set)
		}

		for _, fn := range fm.Functions() {
			v.validateModificationFunction(sm.Set, "", as, fn)
		}
	}
}

// validateModificationFunction checks a function's parameters and member
// paths. owner is the entity type of an entity set mapping; assocSet is the
// association set of an association set mapping, whose paths start at a role.
func (v *validator) validateModificationFunction(
	set, owner string,
	assocSet *metadata.AssociationSet,
	fn *model.ModificationFunction,
) {
	member := owner
	if member == "" {
		member = fn.Operation.String()
	}

	f := v.checkFunction(fn.Function, fn.Location, set, member)

	for _, b := range fn.Bindings {
		if f != nil && !f.HasParameter(b.Parameter) {
			v.report(diagnostic.CodeUnknownParameter,
				fmt.Sprintf("function %q has no parameter %q", f.Name, b.Parameter),
				b.Parameter, f.Parameters, b.Location, set, b.Parameter)
		}

		target, path := owner, b.Path

		switch {
		case b.End != nil:
			target = v.crossedEndType(set, b)
		case assocSet != nil && len(path) > 0:
			if _, ok := assocSet.End(path[0]); !ok {
				v.unknown(diagnostic.CodeUnknownAssociationEnd, "association end", path[0],
					setRoles(assocSet), b.Location, set, b.Parameter)

				continue
			}

			target, path = v.endType(assocSet, path[0]), path[1:]
		}

		if first, ok := common.First(path); ok && target != "" && !v.cat.HasProperty(target, first) {
			v.unknown(diagnostic.CodeUnknownProperty, "property", first,
				v.cat.PropertiesOf(target), b.Location, set, b.Parameter)
		}
	}
}

// crossedEndType resolves the association end a binding crosses to and
// returns the entity type at its To end, or "" if it doesn't resolve.
func (v *validator) crossedEndType(set string, b model.ParameterBinding) string {
	as := v.cat.AssociationSet(b.End.AssociationSet)
	if as == nil {
		v.unknown(diagnostic.CodeUnknownAssociationSet, "association set", b.End.AssociationSet,
			v.cat.AssociationSetNames(), b.Location, set, b.Parameter)

		return ""
	}

	for _, role := range []string{b.End.From, b.End.To} {
		if _, ok := as.End(role); !ok {
			v.unknown(diagnostic.CodeUnknownAssociationEnd, "association end", role,
				setRoles(as), b.Location, set, b.Parameter)

			return ""
		}
	}

	return v.endType(as, b.End.To)
}

// endType returns the entity type playing role in the set's association.
func (v *validator) endType(as *metadata.AssociationSet, role string) string {
	assoc := v.cat.Association(as.Association)
	if assoc == nil {
		return ""
	}

	end, ok := assoc.End(role)
	if !ok {
		return ""
	}

	return end.EntityType
}

func (v *validator) knownTypes(types []model.TypeRef) []model.TypeRef {
	var out []model.TypeRef

	for _, ref := range types {
		if v.cat.EntityType(ref.Name) != nil {
			out = append(out, ref)
		}
	}

	return out
}

func (v *validator) anyHasProperty(types []model.TypeRef, property string) bool {
	for _, ref := range types {
		if v.cat.HasProperty(ref.Name, property) {
			return true
		}
	}

	return false
}

func (v *validator) propertyNames(types []model.TypeRef) []string {
	names := common.NewSet[string]()

	for _, ref := range types {
		for _, p := range v.cat.PropertiesOf(ref.Name) {
			names.Add(p)
		}
	}

	return names.Sorted()
}

func sortedAssociationNames(cat *metadata.Catalog) []string {
	return common.SortedKeys(cat.Associations)
}

func importNames(cat *metadata.Catalog) []string {
	return common.SortedKeys(cat.FunctionImports)
}

func roles(assoc *metadata.AssociationType) []string {
	return []string{assoc.Ends[0].Role, assoc.Ends[1].Role}
}

func setRoles(as *metadata.AssociationSet) []string {
	return []string{as.Ends[0].Role, as.Ends[1].Role}
}
