package mapping

import (
	"errors"
	"fmt"

	"mapvet/internal/diagnostic"
	"mapvet/internal/metadata"
	"mapvet/internal/model"
)

var (
	// ErrNoDocuments is returned when Build is called without documents.
	ErrNoDocuments = errors.New("no mapping documents")
	// ErrNoContainer is returned when no document names a conceptual container.
	ErrNoContainer = errors.New("no conceptual container declared")
	// ErrContainerMismatch is returned when documents name different containers.
	ErrContainerMismatch = errors.New("documents describe different containers")
)

// Result is the catalog and sealed mapping built from a set of documents,
// with the problems found while building them.
type Result struct {
	Catalog     *metadata.Catalog
	Mapping     *model.ContainerMapping
	Diagnostics *diagnostic.Diagnostics
}

// Build merges documents describing one container into a catalog and a
// sealed container mapping.
//
// Declaration problems (duplicate names, malformed ends, conflicting
// partial mappings, functions binding several ends of one association set)
// are reported as diagnostics. Name resolution against the catalog is left
// to Validate.
func Build(docs ...*Document) (*Result, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	conceptual, store, at, err := containers(docs)
	if err != nil {
		return nil, err
	}

	b := &builder{
		cat:   metadata.NewCatalog(conceptual, store),
		mb:    model.NewBuilder(conceptual, store, at),
		diags: &diagnostic.Diagnostics{},
	}

	// Declarations first, so set mappings in any document can see every set.
	for _, doc := range docs {
		b.file = doc.File
		b.addConceptual(doc.Conceptual)
		b.addStore(doc.Store)
	}

	for _, doc := range docs {
		b.file = doc.File
		b.addMapping(doc.Mapping)
	}

	cm, err := b.mb.Seal()
	if err != nil {
		return nil, fmt.Errorf("failed to seal container mapping: %w", err)
	}

	return &Result{Catalog: b.cat, Mapping: cm, Diagnostics: b.diags}, nil
}

func containers(docs []*Document) (conceptual, store string, at diagnostic.Location, err error) {
	for _, doc := range docs {
		if c := doc.Conceptual; c != nil && c.Container != "" {
			if conceptual != "" && conceptual != c.Container {
				return "", "", at, fmt.Errorf("%w: %q and %q", ErrContainerMismatch, conceptual, c.Container)
			}

			if conceptual == "" {
				at = c.At(doc.File)
			}

			conceptual = c.Container
		}

		if s := doc.Store; s != nil && s.Container != "" {
			if store != "" && store != s.Container {
				return "", "", at, fmt.Errorf("%w: %q and %q", ErrContainerMismatch, store, s.Container)
			}

			store = s.Container
		}
	}

	if conceptual == "" {
		return "", "", at, ErrNoContainer
	}

	return conceptual, store, at, nil
}

type builder struct {
	cat   *metadata.Catalog
	mb    *model.Builder
	diags *diagnostic.Diagnostics
	file  string
}

func (b *builder) loc(p Pos) diagnostic.Location {
	return p.At(b.file)
}

func (b *builder) invalid(p Pos, set, member, format string, args ...any) {
	b.diags.AddError(diagnostic.CodeInvalidDeclaration, fmt.Sprintf(format, args...), b.loc(p), set, member)
}

func (b *builder) duplicate(p Pos, kind, name string) {
	b.diags.AddError(diagnostic.CodeDuplicateName, fmt.Sprintf("duplicate %s %q", kind, name), b.loc(p), "", name)
}

func (b *builder) addConceptual(doc *ConceptualDoc) {
	if doc == nil {
		return
	}

	for i := range doc.EntityTypes {
		b.addEntityType(&doc.EntityTypes[i])
	}

	for i := range doc.Associations {
		b.addAssociation(&doc.Associations[i])
	}

	for i := range doc.EntitySets {
		es := &doc.EntitySets[i]

		switch {
		case es.Name == "":
			b.invalid(es.Pos, "", "", "entity set without a name")
		case b.setDeclared(es.Name):
			b.duplicate(es.Pos, "set", es.Name)
		default:
			b.cat.EntitySets[es.Name] = &metadata.EntitySet{Name: es.Name, ElementType: es.Type, Location: b.loc(es.Pos)}
		}
	}

	for i := range doc.AssociationSets {
		b.addAssociationSet(&doc.AssociationSets[i])
	}

	for i := range doc.FunctionImports {
		fi := &doc.FunctionImports[i]

		if _, ok := b.cat.FunctionImports[fi.Name]; ok {
			b.duplicate(fi.Pos, "function import", fi.Name)
			continue
		}

		b.cat.FunctionImports[fi.Name] = &metadata.FunctionImport{Name: fi.Name, Location: b.loc(fi.Pos)}
	}
}

func (b *builder) setDeclared(name string) bool {
	return b.cat.EntitySets[name] != nil || b.cat.AssociationSets[name] != nil
}

func (b *builder) addEntityType(et *EntityTypeDoc) {
	if et.Name == "" {
		b.invalid(et.Pos, "", "", "entity type without a name")
		return
	}

	if _, ok := b.cat.EntityTypes[et.Name]; ok {
		b.duplicate(et.Pos, "entity type", et.Name)
		return
	}

	b.cat.EntityTypes[et.Name] = &metadata.EntityType{
		Name:       et.Name,
		BaseType:   et.Base,
		Abstract:   et.Abstract,
		Key:        et.Key,
		Properties: et.Properties,
		Location:   b.loc(et.Pos),
	}
}

func (b *builder) addAssociation(ad *AssociationDoc) {
	if ad.Name == "" {
		b.invalid(ad.Pos, "", "", "association without a name")
		return
	}

	if _, ok := b.cat.Associations[ad.Name]; ok {
		b.duplicate(ad.Pos, "association", ad.Name)
		return
	}

	if len(ad.Ends) != 2 {
		b.invalid(ad.Pos, "", ad.Name, "association %q must have exactly two ends, found %d", ad.Name, len(ad.Ends))
		return
	}

	assoc := &metadata.AssociationType{Name: ad.Name, ForeignKey: ad.ForeignKey, Location: b.loc(ad.Pos)}

	for i, end := range ad.Ends {
		mult := metadata.Multiplicity(end.Multiplicity)
		if mult == "" {
			mult = metadata.Many
		}

		if !mult.IsValid() {
			b.invalid(end.Pos, "", ad.Name, "association %q end %q has invalid multiplicity %q", ad.Name, end.Role, end.Multiplicity)
			return
		}

		assoc.Ends[i] = metadata.AssociationEnd{Role: end.Role, EntityType: end.Type, Multiplicity: mult}
	}

	if assoc.Ends[0].Role == "" || assoc.Ends[1].Role == "" || assoc.Ends[0].Role == assoc.Ends[1].Role {
		b.invalid(ad.Pos, "", ad.Name, "association %q must have two distinct, named roles", ad.Name)
		return
	}

	b.cat.Associations[ad.Name] = assoc
}

func (b *builder) addAssociationSet(as *AssociationSetDoc) {
	if as.Name == "" {
		b.invalid(as.Pos, "", "", "association set without a name")
		return
	}

	if b.setDeclared(as.Name) {
		b.duplicate(as.Pos, "set", as.Name)
		return
	}

	if len(as.Ends) != 2 {
		b.invalid(as.Pos, as.Name, "", "association set %q must have exactly two ends, found %d", as.Name, len(as.Ends))
		return
	}

	set := &metadata.AssociationSet{Name: as.Name, Association: as.Association, Location: b.loc(as.Pos)}
	for i, end := range as.Ends {
		set.Ends[i] = metadata.AssociationSetEnd{Role: end.Role, EntitySet: end.EntitySet}
	}

	b.cat.AssociationSets[as.Name] = set
}

func (b *builder) addStore(doc *StoreDoc) {
	if doc == nil {
		return
	}

	for i := range doc.Tables {
		t := &doc.Tables[i]

		switch {
		case t.Name == "":
			b.invalid(t.Pos, "", "", "table without a name")
		case b.cat.Tables[t.Name] != nil:
			b.duplicate(t.Pos, "table", t.Name)
		default:
			b.cat.Tables[t.Name] = &metadata.Table{Name: t.Name, Key: t.Key, Columns: t.Columns, Location: b.loc(t.Pos)}
		}
	}

	for i := range doc.ForeignKeys {
		b.addForeignKey(&doc.ForeignKeys[i])
	}

	for i := range doc.Functions {
		fn := &doc.Functions[i]

		switch {
		case fn.Name == "":
			b.invalid(fn.Pos, "", "", "function without a name")
		case b.cat.Functions[fn.Name] != nil:
			b.duplicate(fn.Pos, "function", fn.Name)
		default:
			b.cat.Functions[fn.Name] = &metadata.Function{
				Name:       fn.Name,
				Composable: fn.Composable,
				Parameters: fn.Parameters,
				Location:   b.loc(fn.Pos),
			}
		}
	}
}

func (b *builder) addForeignKey(fk *ForeignKeyDoc) {
	if fk.From.Table == "" || fk.To.Table == "" {
		b.invalid(fk.Pos, "", fk.Name, "foreign key %q must name both tables", fk.Name)
		return
	}

	b.cat.ForeignKeys = append(b.cat.ForeignKeys, metadata.ForeignKey{
		Name:        fk.Name,
		FromTable:   fk.From.Table,
		FromColumns: fk.From.Columns,
		ToTable:     fk.To.Table,
		ToColumns:   fk.To.Columns,
		Location:    b.loc(fk.Pos),
	})

	err := b.mb.AddForeignKey(model.ForeignKeyConstraint{
		Name:          fk.Name,
		ChildTable:    fk.From.Table,
		ChildColumns:  fk.From.Columns,
		ParentTable:   fk.To.Table,
		ParentColumns: fk.To.Columns,
	})
	if err != nil {
		b.invalid(fk.Pos, "", fk.Name, "foreign key %q: %v", fk.Name, err)
	}
}

func (b *builder) addMapping(doc *MappingDoc) {
	if doc == nil {
		return
	}

	for i := range doc.EntitySets {
		b.addSetMapping(model.EntitySetKind, &doc.EntitySets[i])
	}

	for i := range doc.AssociationSets {
		b.addSetMapping(model.AssociationSetKind, &doc.AssociationSets[i])
	}

	for i := range doc.FunctionImports {
		fi := &doc.FunctionImports[i]

		err := b.mb.AddFunctionImportMapping(model.FunctionImportMapping{
			FunctionImport: fi.Name,
			Function:       fi.Function,
			Location:       b.loc(fi.Pos),
		})
		if err != nil {
			b.diags.AddError(diagnostic.CodeDuplicateName, err.Error(), b.loc(fi.Pos), "", fi.Name)
		}
	}
}

func (b *builder) addSetMapping(kind model.SetKind, doc *SetMappingDoc) {
	sm := model.SetMapping{
		Kind:         kind,
		Set:          doc.Set,
		DefaultTable: doc.Table,
		QueryView:    doc.QueryView,
		Location:     b.loc(doc.Pos),
	}

	for _, qv := range doc.QueryViews {
		sm.TypeQueryViews = append(sm.TypeQueryViews, model.TypeQueryView{
			Key:      qv.Type.Ref(),
			View:     qv.View,
			Location: b.loc(qv.Pos),
		})
	}

	for i := range doc.Types {
		tm := &doc.Types[i]
		sm.TypeMappings = append(sm.TypeMappings, model.TypeMapping{
			Types:     tm.Types.Refs(),
			Fragments: b.fragments(doc, tm.Fragments),
			Location:  b.loc(tm.Pos),
		})
	}

	if len(doc.Fragments) > 0 {
		sm.TypeMappings = append(sm.TypeMappings, model.TypeMapping{
			Types:     b.elementTypes(kind, doc.Set),
			Fragments: b.fragments(doc, doc.Fragments),
			Location:  b.loc(doc.Pos),
		})
	}

	for i := range doc.Functions {
		sm.FunctionMappings = append(sm.FunctionMappings, b.functionMapping(doc, &doc.Functions[i]))
	}

	if err := b.mb.AddSetMapping(sm); err != nil {
		b.diags.AddError(diagnostic.CodeDuplicateName, err.Error(), b.loc(doc.Pos), doc.Set, "")
	}
}

// elementTypes is the type scope of a set's fragment shorthand: the entity
// set's element type and its subtypes, or the association set's association.
func (b *builder) elementTypes(kind model.SetKind, set string) []model.TypeRef {
	if kind == model.AssociationSetKind {
		if as := b.cat.AssociationSet(set); as != nil {
			return []model.TypeRef{{Name: as.Association}}
		}

		return nil
	}

	if es := b.cat.EntitySet(set); es != nil {
		return []model.TypeRef{{Name: es.ElementType, IncludeSubtypes: true}}
	}

	return nil
}

func (b *builder) fragments(set *SetMappingDoc, docs []FragmentDoc) []model.Fragment {
	out := make([]model.Fragment, 0, len(docs))

	for i := range docs {
		fd := &docs[i]

		table := fd.Table
		if table == "" {
			table = set.Table
		}

		if table == "" {
			b.invalid(fd.Pos, set.Set, "", "fragment names no table and set %q has no default table", set.Set)
		}

		frag := model.Fragment{Table: table, Distinct: fd.Distinct, Location: b.loc(fd.Pos)}

		for j := range fd.Properties {
			if pm, ok := b.property(set.Set, &fd.Properties[j]); ok {
				frag.Properties = append(frag.Properties, pm)
			}
		}

		for _, cd := range fd.Conditions {
			frag.Conditions = append(frag.Conditions, model.Condition{
				Member:   cd.Member,
				Column:   cd.Column,
				IsNull:   cd.IsNull,
				Value:    cd.Value,
				Location: b.loc(cd.Pos),
			})
		}

		out = append(out, frag)
	}

	return out
}

func (b *builder) property(set string, pd *PropertyMappingDoc) (model.PropertyMapping, bool) {
	pm := model.PropertyMapping{Name: pd.Name, Column: pd.Column, Location: b.loc(pd.Pos)}

	switch {
	case pd.End != "" && pd.Name != "":
		b.invalid(pd.Pos, set, pd.Name, "property mapping names both member %q and end %q", pd.Name, pd.End)
		return pm, false
	case pd.End == "" && pd.Name == "":
		b.invalid(pd.Pos, set, "", "property mapping names no member")
		return pm, false
	case pd.Column != "" && len(pd.Properties) > 0:
		b.invalid(pd.Pos, set, pd.Name, "property %q has both a column and nested properties", pd.Name)
		return pm, false
	case pd.End != "":
		pm.Kind = model.EndProperty
		pm.Name = pd.End
	case len(pd.Properties) > 0:
		pm.Kind = model.ComplexProperty
	case pd.Column == "":
		b.invalid(pd.Pos, set, pd.Name, "property %q is mapped to no column", pd.Name)
		return pm, false
	default:
		pm.Kind = model.ScalarProperty
	}

	for i := range pd.Properties {
		if child, ok := b.property(set, &pd.Properties[i]); ok {
			pm.Properties = append(pm.Properties, child)
		}
	}

	return pm, true
}

func (b *builder) functionMapping(set *SetMappingDoc, fd *FunctionMappingDoc) model.FunctionMapping {
	fm := model.FunctionMapping{EntityType: fd.Type, Location: b.loc(fd.Pos)}

	fm.Insert = b.modificationFunction(set.Set, fd.Type, model.OperationInsert, fd.Insert)
	fm.Update = b.modificationFunction(set.Set, fd.Type, model.OperationUpdate, fd.Update)
	fm.Delete = b.modificationFunction(set.Set, fd.Type, model.OperationDelete, fd.Delete)

	return fm
}

func (b *builder) modificationFunction(
	set, entityType string,
	op model.Operation,
	doc *ModificationFuncDoc,
) *model.ModificationFunction {
	if doc == nil {
		return nil
	}

	bindings := make([]model.ParameterBinding, 0, len(doc.Parameters))

	for _, pd := range doc.Parameters {
		binding, ok := b.parameter(set, &pd)
		if ok {
			bindings = append(bindings, binding)
		}
	}

	fn, err := model.NewModificationFunction(op, doc.Function, bindings, b.loc(doc.Pos))
	if err != nil {
		var conflict *model.EndConflictError
		if errors.As(err, &conflict) {
			b.diags.AddError(diagnostic.CodeMultipleEndsMapped, conflict.Error(), conflict.Location, set, entityType)
		} else {
			b.invalid(doc.Pos, set, entityType, "%s function %q: %v", op, doc.Function, err)
		}

		return nil
	}

	return fn
}

func (b *builder) parameter(set string, pd *ParameterDoc) (model.ParameterBinding, bool) {
	binding := model.ParameterBinding{Parameter: pd.Name, Location: b.loc(pd.Pos)}

	path, err := ParseMemberPath(pd.Member)
	if err != nil {
		b.invalid(pd.Pos, set, pd.Name, "parameter %q: %v", pd.Name, err)
		return binding, false
	}

	binding.Path = path

	switch pd.Version {
	case "", "current":
		binding.Version = model.VersionCurrent
	case "original":
		binding.Version = model.VersionOriginal
	default:
		b.invalid(pd.Pos, set, pd.Name, "parameter %q has unknown version %q", pd.Name, pd.Version)
		return binding, false
	}

	if a := pd.Association; a != nil {
		binding.End = &model.AssociationEndBinding{AssociationSet: a.Set, From: a.From, To: a.To}
	}

	return binding, true
}
