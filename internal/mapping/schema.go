package mapping

// Document is the root of a YAML mapping document.
//
// A document may carry any subset of the three sections; several documents
// describing the same container are merged by Build.
type Document struct {
	// Version of the document schema.
	Version string `yaml:"version,omitempty"`

	Conceptual *ConceptualDoc `yaml:"conceptual,omitempty"`
	Store      *StoreDoc      `yaml:"store,omitempty"`
	Mapping    *MappingDoc    `yaml:"mapping,omitempty"`

	// File is the path the document was read from, used in locations.
	File string `yaml:"-"`
}

// ConceptualDoc declares the conceptual container.
type ConceptualDoc struct {
	Container       string               `yaml:"container"`
	EntityTypes     []EntityTypeDoc      `yaml:"entity_types,omitempty"`
	Associations    []AssociationDoc     `yaml:"associations,omitempty"`
	EntitySets      []EntitySetDoc       `yaml:"entity_sets,omitempty"`
	AssociationSets []AssociationSetDoc  `yaml:"association_sets,omitempty"`
	FunctionImports []FunctionImportDecl `yaml:"function_imports,omitempty"`
	Pos             `yaml:"-"`
}

// EntityTypeDoc declares an entity type.
type EntityTypeDoc struct {
	Name       string        `yaml:"name"`
	Base       string        `yaml:"base,omitempty"`
	Abstract   bool          `yaml:"abstract,omitempty"`
	Key        StringOrArray `yaml:"key,omitempty"`
	Properties StringOrArray `yaml:"properties,omitempty"`
	Pos        `yaml:"-"`
}

// AssociationDoc declares an association type.
type AssociationDoc struct {
	Name       string              `yaml:"name"`
	ForeignKey bool                `yaml:"foreign_key,omitempty"`
	Ends       []AssociationEndDoc `yaml:"ends"`
	Pos        `yaml:"-"`
}

// AssociationEndDoc declares one end of an association type.
type AssociationEndDoc struct {
	Role         string `yaml:"role"`
	Type         string `yaml:"type"`
	Multiplicity string `yaml:"multiplicity,omitempty"`
	Pos          `yaml:"-"`
}

// EntitySetDoc declares an entity set.
type EntitySetDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Pos  `yaml:"-"`
}

// AssociationSetDoc declares an association set.
type AssociationSetDoc struct {
	Name        string                 `yaml:"name"`
	Association string                 `yaml:"association"`
	Ends        []AssociationSetEndDoc `yaml:"ends"`
	Pos         `yaml:"-"`
}

// AssociationSetEndDoc binds a role to an entity set.
type AssociationSetEndDoc struct {
	Role      string `yaml:"role"`
	EntitySet string `yaml:"entity_set"`
	Pos       `yaml:"-"`
}

// FunctionImportDecl declares a conceptual function import. It accepts a
// bare name or a {name} map.
type FunctionImportDecl struct {
	Name string `yaml:"name"`
	Pos  `yaml:"-"`
}

// StoreDoc declares the store container.
type StoreDoc struct {
	Container   string          `yaml:"container"`
	Tables      []TableDoc      `yaml:"tables,omitempty"`
	ForeignKeys []ForeignKeyDoc `yaml:"foreign_keys,omitempty"`
	Functions   []FunctionDoc   `yaml:"functions,omitempty"`
	Pos         `yaml:"-"`
}

// TableDoc declares a store table.
type TableDoc struct {
	Name    string        `yaml:"name"`
	Key     StringOrArray `yaml:"key,omitempty"`
	Columns StringOrArray `yaml:"columns"`
	Pos     `yaml:"-"`
}

// ForeignKeyDoc declares a store foreign key from a child to a parent table.
type ForeignKeyDoc struct {
	Name string       `yaml:"name"`
	From ColumnRefDoc `yaml:"from"`
	To   ColumnRefDoc `yaml:"to"`
	Pos  `yaml:"-"`
}

// ColumnRefDoc names columns of one table.
type ColumnRefDoc struct {
	Table   string        `yaml:"table"`
	Columns StringOrArray `yaml:"columns"`
}

// FunctionDoc declares a store function.
type FunctionDoc struct {
	Name       string        `yaml:"name"`
	Composable bool          `yaml:"composable,omitempty"`
	Parameters StringOrArray `yaml:"parameters,omitempty"`
	Pos        `yaml:"-"`
}

// MappingDoc maps the conceptual container onto the store container.
type MappingDoc struct {
	EntitySets      []SetMappingDoc            `yaml:"entity_sets,omitempty"`
	AssociationSets []SetMappingDoc            `yaml:"association_sets,omitempty"`
	FunctionImports []FunctionImportMappingDoc `yaml:"function_imports,omitempty"`
	Pos             `yaml:"-"`
}

// SetMappingDoc maps one entity set or association set.
type SetMappingDoc struct {
	Set string `yaml:"set"`
	// Table is the default table of fragments that don't name one.
	Table string `yaml:"table,omitempty"`
	// QueryView replaces fragments for the whole set.
	QueryView string `yaml:"query_view,omitempty"`
	// QueryViews are type-qualified query views (entity sets only).
	QueryViews []TypeQueryViewDoc `yaml:"query_views,omitempty"`
	// Types lists type mappings with their fragments.
	Types []TypeMappingDoc `yaml:"types,omitempty"`
	// Fragments is shorthand for one type mapping of the set's element type
	// and its subtypes.
	Fragments []FragmentDoc        `yaml:"fragments,omitempty"`
	Functions []FunctionMappingDoc `yaml:"functions,omitempty"`
	Pos       `yaml:"-"`
}

// TypeQueryViewDoc is a query view restricted to a type scope.
type TypeQueryViewDoc struct {
	Type TypeRefDoc `yaml:"type"`
	View string     `yaml:"view"`
	Pos  `yaml:"-"`
}

// TypeMappingDoc applies fragments to one or more types.
type TypeMappingDoc struct {
	Types     TypeRefList   `yaml:"types"`
	Fragments []FragmentDoc `yaml:"fragments"`
	Pos       `yaml:"-"`
}

// FragmentDoc maps a type scope onto one table.
type FragmentDoc struct {
	Table      string               `yaml:"table,omitempty"`
	Distinct   bool                 `yaml:"distinct,omitempty"`
	Properties []PropertyMappingDoc `yaml:"properties,omitempty"`
	Conditions []ConditionDoc       `yaml:"conditions,omitempty"`
	Pos        `yaml:"-"`
}

// PropertyMappingDoc is a scalar ({name, column}), complex ({name,
// properties}) or end ({end, properties}) property mapping.
type PropertyMappingDoc struct {
	Name       string               `yaml:"name,omitempty"`
	End        string               `yaml:"end,omitempty"`
	Column     string               `yaml:"column,omitempty"`
	Properties []PropertyMappingDoc `yaml:"properties,omitempty"`
	Pos        `yaml:"-"`
}

// ConditionDoc restricts a fragment by a member or column.
type ConditionDoc struct {
	Member string  `yaml:"member,omitempty"`
	Column string  `yaml:"column,omitempty"`
	IsNull *bool   `yaml:"is_null,omitempty"`
	Value  *string `yaml:"value,omitempty"`
	Pos    `yaml:"-"`
}

// FunctionMappingDoc maps the modification functions of one entity type.
// Association sets omit Type.
type FunctionMappingDoc struct {
	Type   string               `yaml:"type,omitempty"`
	Insert *ModificationFuncDoc `yaml:"insert,omitempty"`
	Update *ModificationFuncDoc `yaml:"update,omitempty"`
	Delete *ModificationFuncDoc `yaml:"delete,omitempty"`
	Pos    `yaml:"-"`
}

// ModificationFuncDoc binds a store function's parameters.
type ModificationFuncDoc struct {
	Function   string         `yaml:"function"`
	Parameters []ParameterDoc `yaml:"parameters,omitempty"`
	Pos        `yaml:"-"`
}

// ParameterDoc binds one parameter to a member path.
type ParameterDoc struct {
	Name string `yaml:"name"`
	// Member is a dotted member path, e.g. "Address.Street".
	Member string `yaml:"member"`
	// Version is "current" (default) or "original".
	Version     string          `yaml:"version,omitempty"`
	Association *AssociationRef `yaml:"association,omitempty"`
	Pos         `yaml:"-"`
}

// AssociationRef routes a parameter across an association set.
type AssociationRef struct {
	Set  string `yaml:"set"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// FunctionImportMappingDoc maps a function import onto a store function.
type FunctionImportMappingDoc struct {
	Name     string `yaml:"name"`
	Function string `yaml:"function"`
	Pos      `yaml:"-"`
}
