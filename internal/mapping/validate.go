package mapping

import (
	"fmt"

	"mapvet/internal/diagnostic"
	"mapvet/internal/match"
	"mapvet/internal/metadata"
	"mapvet/internal/model"
)

// ValidateOption configures Validate.
type ValidateOption func(*validator)

// WithSuggestions sets how many "did you mean" candidates are attached to
// unknown-name diagnostics. Zero disables suggestions.
func WithSuggestions(n int) ValidateOption {
	return func(v *validator) { v.suggestions = n }
}

// Validate checks a container mapping against the catalog it was built
// with. This is a structural validation step only: names resolve, mapping
// styles aren't mixed, conditions and columns aren't mapped twice, and
// function mappings are complete. Closure and consistency rules are
// checked elsewhere.
func Validate(cm *model.ContainerMapping, cat *metadata.Catalog, opts ...ValidateOption) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	if cm == nil {
		res.AddError(diagnostic.CodeNilInput, "container mapping is nil", diagnostic.Location{}, "", "")
		return res
	}

	if cat == nil {
		res.AddError(diagnostic.CodeNilInput, "catalog is nil", diagnostic.Location{}, "", "")
		return res
	}

	v := &validator{cat: cat, res: res, suggestions: match.DefaultLimit}
	for _, opt := range opts {
		opt(v)
	}

	v.validateCatalog()

	for _, sm := range cm.EntitySetMappings() {
		v.validateEntitySetMapping(sm)
	}

	for _, sm := range cm.AssociationSetMappings() {
		v.validateAssociationSetMapping(sm)
	}

	for _, fi := range cm.FunctionImportMappings() {
		if cat.FunctionImports[fi.FunctionImport] == nil {
			v.unknown(diagnostic.CodeUnknownFunction, "function import", fi.FunctionImport,
				importNames(cat), fi.Location, "", fi.FunctionImport)
		}

		v.checkFunction(fi.Function, fi.Location, "", fi.FunctionImport)
	}

	return res
}

type validator struct {
	cat         *metadata.Catalog
	res         *diagnostic.Diagnostics
	suggestions int
}

// unknown reports an unresolved name with suggestions from candidates.
func (v *validator) unknown(
	code diagnostic.Code,
	kind, name string,
	candidates []string,
	at diagnostic.Location,
	set, member string,
) {
	v.report(code, fmt.Sprintf("%s %q not found", kind, name), name, candidates, at, set, member)
}

func (v *validator) unknownColumn(t *metadata.Table, column string, at diagnostic.Location, set, member string) {
	v.report(diagnostic.CodeUnknownColumn, fmt.Sprintf("column %q not found in table %q", column, t.Name),
		column, t.Columns, at, set, member)
}

func (v *validator) report(
	code diagnostic.Code,
	message, name string,
	candidates []string,
	at diagnostic.Location,
	set, member string,
) {
	v.res.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticError,
		Code:        code,
		Message:     message,
		Set:         set,
		Member:      member,
		Location:    at,
		Suggestions: match.Suggest(name, candidates, v.suggestions),
	})
}

func (v *validator) errorf(code diagnostic.Code, at diagnostic.Location, set, member, format string, args ...any) {
	v.res.AddError(code, fmt.Sprintf(format, args...), at, set, member)
}

// validateCatalog checks references between catalog declarations.
func (v *validator) validateCatalog() {
	cat := v.cat

	for _, name := range cat.EntityTypeNames() {
		et := cat.EntityType(name)

		if et.BaseType != "" && cat.EntityType(et.BaseType) == nil {
			v.unknown(diagnostic.CodeUnknownEntityType, "base type", et.BaseType,
				cat.EntityTypeNames(), et.Location, "", name)
		}

		for _, key := range et.Key {
			if !cat.HasProperty(name, key) {
				v.errorf(diagnostic.CodeUnknownProperty, et.Location, "", key,
					"key property %q is not a property of %q", key, name)
			}
		}
	}

	for _, name := range sortedAssociationNames(cat) {
		assoc := cat.Association(name)

		for _, end := range assoc.Ends {
			if cat.EntityType(end.EntityType) == nil {
				v.unknown(diagnostic.CodeUnknownEntityType, "entity type", end.EntityType,
					cat.EntityTypeNames(), assoc.Location, "", name+"."+end.Role)
			}
		}
	}

	for _, name := range cat.EntitySetNames() {
		es := cat.EntitySet(name)
		if cat.EntityType(es.ElementType) == nil {
			v.unknown(diagnostic.CodeUnknownEntityType, "entity type", es.ElementType,
				cat.EntityTypeNames(), es.Location, name, "")
		}
	}

	for _, name := range cat.AssociationSetNames() {
		v.validateAssociationSet(cat.AssociationSet(name))
	}

	for _, name := range cat.TableNames() {
		t := cat.Table(name)
		for _, key := range t.Key {
			if !t.HasColumn(key) {
				v.unknownColumn(t, key, t.Location, "", name)
			}
		}
	}

	for _, fk := range cat.ForeignKeys {
		v.checkColumns(fk.FromTable, fk.FromColumns, fk.Location, "", fk.Name)
		v.checkColumns(fk.ToTable, fk.ToColumns, fk.Location, "", fk.Name)
	}
}

func (v *validator) validateAssociationSet(as *metadata.AssociationSet) {
	assoc := v.cat.Association(as.Association)
	if assoc == nil {
		v.unknown(diagnostic.CodeUnknownAssociationType, "association", as.Association,
			sortedAssociationNames(v.cat), as.Location, as.Name, "")

		return
	}

	for _, end := range as.Ends {
		typeEnd, ok := assoc.End(end.Role)
		if !ok {
			v.unknown(diagnostic.CodeUnknownAssociationEnd, "association end", end.Role,
				roles(assoc), as.Location, as.Name, end.Role)

			continue
		}

		es := v.cat.EntitySet(end.EntitySet)
		if es == nil {
			v.unknown(diagnostic.CodeUnknownEntitySet, "entity set", end.EntitySet,
				v.cat.EntitySetNames(), as.Location, as.Name, end.Role)

			continue
		}

		if !v.cat.IsAssignable(typeEnd.EntityType, es.ElementType) &&
			!v.cat.IsAssignable(es.ElementType, typeEnd.EntityType) {
			v.errorf(diagnostic.CodeTypeNotInSet, as.Location, as.Name, end.Role,
				"end %q of type %q cannot be bound to entity set %q of type %q",
				end.Role, typeEnd.EntityType, es.Name, es.ElementType)
		}
	}
}

func (v *validator) validateEntitySetMapping(sm *model.SetMapping) {
	es := v.cat.EntitySet(sm.Set)
	if es == nil {
		v.unknown(diagnostic.CodeUnknownEntitySet, "entity set", sm.Set,
			v.cat.EntitySetNames(), sm.Location, sm.Set, "")

		return
	}

	v.checkMappingStyle(sm)
	v.checkTypeQueryViews(sm, es)

	for i := range sm.TypeMappings {
		tm := &sm.TypeMappings[i]

		for _, ref := range tm.Types {
			v.checkTypeInSet(ref, es, tm.Location)
		}

		for j := range tm.Fragments {
			v.validateFragment(sm, tm.Types, &tm.Fragments[j])
		}
	}

	v.validateEntityFunctionMappings(sm, es)
}

func (v *validator) validateAssociationSetMapping(sm *model.SetMapping) {
	as := v.cat.AssociationSet(sm.Set)
	if as == nil {
		v.unknown(diagnostic.CodeUnknownAssociationSet, "association set", sm.Set,
			v.cat.AssociationSetNames(), sm.Location, sm.Set, "")

		return
	}

	v.checkMappingStyle(sm)

	for _, qv := range sm.TypeQueryViews {
		v.errorf(diagnostic.CodeInvalidDeclaration, qv.Location, sm.Set, qv.Key.String(),
			"type-qualified query views are only valid for entity sets")
	}

	for i := range sm.TypeMappings {
		for j := range sm.TypeMappings[i].Fragments {
			v.validateAssociationFragment(sm, as, &sm.TypeMappings[i].Fragments[j])
		}
	}

	v.validateAssociationFunctionMappings(sm, as)
}

func (v *validator) checkMappingStyle(sm *model.SetMapping) {
	if sm.DefaultTable != "" {
		v.checkTable(sm.DefaultTable, sm.Location, sm.Set)
	}

	if sm.HasQueryView() && sm.HasFragments() {
		v.errorf(diagnostic.CodeQueryViewWithFragments, sm.Location, sm.Set, "",
			"%s %q has a query view and mapping fragments; use one or the other", sm.Kind, sm.Set)
	}
}

func (v *validator) checkTypeQueryViews(sm *model.SetMapping, es *metadata.EntitySet) {
	seen := make(map[model.TypeQueryViewKey]struct{}, len(sm.TypeQueryViews))

	for _, qv := range sm.TypeQueryViews {
		v.checkTypeInSet(qv.Key, es, qv.Location)

		if _, dup := seen[qv.Key]; dup {
			v.errorf(diagnostic.CodeDuplicateTypeQueryView, qv.Location, sm.Set, qv.Key.String(),
				"query view for %s is defined more than once", qv.Key)

			continue
		}

		seen[qv.Key] = struct{}{}
	}
}

// checkTypeInSet reports unknown types and types outside the set's hierarchy.
func (v *validator) checkTypeInSet(ref model.TypeRef, es *metadata.EntitySet, at diagnostic.Location) bool {
	if v.cat.EntityType(ref.Name) == nil {
		v.unknown(diagnostic.CodeUnknownEntityType, "entity type", ref.Name,
			v.cat.EntityTypeNames(), at, es.Name, ref.Name)

		return false
	}

	if !v.cat.IsAssignable(ref.Name, es.ElementType) {
		v.errorf(diagnostic.CodeTypeNotInSet, at, es.Name, ref.Name,
			"type %q is not %q or one of its subtypes", ref.Name, es.ElementType)

		return false
	}

	return true
}

func (v *validator) checkTable(name string, at diagnostic.Location, set string) *metadata.Table {
	t := v.cat.Table(name)
	if t == nil {
		v.unknown(diagnostic.CodeUnknownTable, "table", name, v.cat.TableNames(), at, set, name)
	}

	return t
}

func (v *validator) checkColumns(table string, columns []string, at diagnostic.Location, set, member string) {
	t := v.checkTable(table, at, set)
	if t == nil {
		return
	}

	for _, col := range columns {
		if !t.HasColumn(col) {
			v.unknownColumn(t, col, at, set, member)
		}
	}
}

// checkFunction resolves a store function and reports composable ones.
func (v *validator) checkFunction(name string, at diagnostic.Location, set, member string) *metadata.Function {
	fn := v.cat.Function(name)
	if fn == nil {
		v.unknown(diagnostic.CodeUnknownFunction, "function", name, v.cat.FunctionNames(), at, set, member)
		return nil
	}

	if fn.Composable {
		v.errorf(diagnostic.CodeComposableFunctionMapped, at, set, member,
			"function %q is composable; only non-composable functions can be mapped", name)
	}

	return fn
}
