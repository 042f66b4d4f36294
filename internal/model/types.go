package model

import (
	"strings"

	"mapvet/internal/common"
	"mapvet/internal/diagnostic"
)

// SetKind distinguishes entity set mappings from association set mappings.
type SetKind int

const (
	EntitySetKind SetKind = iota
	AssociationSetKind
)

// String returns a human-readable kind name.
func (k SetKind) String() string {
	switch k {
	case EntitySetKind:
		return "entity set"
	case AssociationSetKind:
		return "association set"
	default:
		return common.UnknownStr
	}
}

// TypeRef names a conceptual type a type mapping applies to.
type TypeRef struct {
	Name string
	// IncludeSubtypes selects the type and everything deriving from it
	// ("IsTypeOf"), rather than the type alone.
	IncludeSubtypes bool
}

// String renders the reference in mapping-document syntax.
func (t TypeRef) String() string {
	if t.IncludeSubtypes {
		return "IsTypeOf(" + t.Name + ")"
	}

	return t.Name
}

// ParseTypeRef parses "Name" or "IsTypeOf(Name)".
func ParseTypeRef(s string) TypeRef {
	s = strings.TrimSpace(s)
	if inner, ok := strings.CutPrefix(s, "IsTypeOf("); ok && strings.HasSuffix(inner, ")") {
		return TypeRef{Name: strings.TrimSpace(strings.TrimSuffix(inner, ")")), IncludeSubtypes: true}
	}

	return TypeRef{Name: s}
}

// TypeQueryViewKey identifies a type-qualified query view within an entity set.
type TypeQueryViewKey = TypeRef

// TypeQueryView is a query view restricted to one type scope.
type TypeQueryView struct {
	Key      TypeQueryViewKey
	View     string
	Location diagnostic.Location
}

// SetMapping maps one conceptual entity set or association set.
type SetMapping struct {
	Kind SetKind
	// Set is the conceptual set name.
	Set string
	// DefaultTable is used by fragments that don't name a table.
	DefaultTable string
	TypeMappings []TypeMapping
	// QueryView replaces fragment-based mapping for the whole set.
	QueryView string
	// TypeQueryViews are entity-set-only views keyed by type scope.
	TypeQueryViews   []TypeQueryView
	FunctionMappings []FunctionMapping
	Location         diagnostic.Location
}

// HasQueryView reports whether the set declares a top-level query view.
func (s *SetMapping) HasQueryView() bool {
	return s.QueryView != ""
}

// HasFragments reports whether any type mapping carries a fragment.
func (s *SetMapping) HasFragments() bool {
	for i := range s.TypeMappings {
		if len(s.TypeMappings[i].Fragments) > 0 {
			return true
		}
	}

	return false
}

// HasFunctionMappings reports whether the set maps any modification function.
func (s *SetMapping) HasFunctionMappings() bool {
	return len(s.FunctionMappings) > 0
}

// Tables returns the distinct store tables targeted by the set's fragments, sorted.
func (s *SetMapping) Tables() []string {
	tables := common.NewSet[string]()

	for i := range s.TypeMappings {
		for j := range s.TypeMappings[i].Fragments {
			tables.Add(s.TypeMappings[i].Fragments[j].Table)
		}
	}

	return tables.Sorted()
}

// FunctionMappingFor returns the function mapping of the given entity type.
// Association sets use the empty type name.
func (s *SetMapping) FunctionMappingFor(entityType string) (*FunctionMapping, bool) {
	for i := range s.FunctionMappings {
		if s.FunctionMappings[i].EntityType == entityType {
			return &s.FunctionMappings[i], true
		}
	}

	return nil, false
}

// CollocatedEnds returns the association ends covered by any of the set's function mappings.
func (s *SetMapping) CollocatedEnds() []EndRef {
	seen := make(map[EndRef]struct{})

	var out []EndRef

	for i := range s.FunctionMappings {
		for _, end := range s.FunctionMappings[i].CollocatedEnds() {
			if _, ok := seen[end]; !ok {
				seen[end] = struct{}{}
				out = append(out, end)
			}
		}
	}

	sortEnds(out)

	return out
}

// TypeMapping applies a list of fragments to one or more conceptual types.
type TypeMapping struct {
	Types     []TypeRef
	Fragments []Fragment
	Location  diagnostic.Location
}

// Fragment maps a type scope onto a single store table.
type Fragment struct {
	Table string
	// Distinct requests row de-duplication in generated queries.
	Distinct   bool
	Properties []PropertyMapping
	Conditions []Condition
	Location   diagnostic.Location
}

// PropertyKind distinguishes property mapping shapes.
type PropertyKind int

const (
	ScalarProperty PropertyKind = iota
	ComplexProperty
	EndProperty
)

// String returns a human-readable kind name.
func (k PropertyKind) String() string {
	switch k {
	case ScalarProperty:
		return "scalar"
	case ComplexProperty:
		return "complex"
	case EndProperty:
		return "end"
	default:
		return common.UnknownStr
	}
}

// PropertyMapping maps a conceptual member onto store columns.
//
// Scalar mappings carry a Column. Complex mappings decompose a complex
// property into nested mappings. End mappings (association sets only) name
// an association role and map the end's key properties.
type PropertyMapping struct {
	Kind       PropertyKind
	Name       string
	Column     string
	Properties []PropertyMapping
	Location   diagnostic.Location
}

// Leaf is a flattened scalar correspondence of a property mapping tree.
type Leaf struct {
	// Path is the dotted member path, e.g. "Address.Street" or "Boss.Id".
	Path   string
	Column string
	// Root is the top-level property the leaf decomposes.
	Root     string
	Location diagnostic.Location
}

// Leaves flattens the mapping into scalar member/column pairs.
func (p PropertyMapping) Leaves() []Leaf {
	return p.appendLeaves(nil, "", p.Name)
}

func (p PropertyMapping) appendLeaves(out []Leaf, prefix, root string) []Leaf {
	path := p.Name
	if prefix != "" {
		path = prefix + "." + p.Name
	}

	if p.Kind == ScalarProperty {
		return append(out, Leaf{Path: path, Column: p.Column, Root: root, Location: p.Location})
	}

	for _, child := range p.Properties {
		out = child.appendLeaves(out, path, root)
	}

	return out
}

// Condition restricts the rows or entities a fragment applies to.
// Exactly one of Member and Column is set, and exactly one of IsNull and Value.
type Condition struct {
	Member   string
	Column   string
	IsNull   *bool
	Value    *string
	Location diagnostic.Location
}

// Target returns the constrained member or column name.
func (c Condition) Target() string {
	if c.Member != "" {
		return c.Member
	}

	return c.Column
}

// IsStoreCondition reports whether the condition constrains a store column.
func (c Condition) IsStoreCondition() bool {
	return c.Column != ""
}
