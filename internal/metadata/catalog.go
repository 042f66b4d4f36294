// Package metadata is the read-only catalog of conceptual and store
// definitions a mapping is resolved against.
//
// The catalog is filled once by a loader and then only queried. Names are
// unique per kind; entity sets and association sets share one namespace,
// as they do in the conceptual container.
package metadata

import (
	"slices"

	"mapvet/internal/common"
	"mapvet/internal/diagnostic"
)

// Multiplicity of an association end.
type Multiplicity string

const (
	One       Multiplicity = "1"
	ZeroOrOne Multiplicity = "0..1"
	Many      Multiplicity = "*"
)

// IsValid returns true if the multiplicity is a recognized value.
func (m Multiplicity) IsValid() bool {
	return m == One || m == ZeroOrOne || m == Many
}

// EntityType is a conceptual entity type.
type EntityType struct {
	Name       string
	BaseType   string
	Abstract   bool
	Key        []string
	Properties []string
	Location   diagnostic.Location
}

// AssociationEnd is one end of an association type.
type AssociationEnd struct {
	Role         string
	EntityType   string
	Multiplicity Multiplicity
}

// AssociationType is a conceptual relationship type.
type AssociationType struct {
	Name string
	Ends [2]AssociationEnd
	// ForeignKey marks relationships enforced by a store foreign key.
	ForeignKey bool
	Location   diagnostic.Location
}

// End returns the end playing the given role.
func (a *AssociationType) End(role string) (AssociationEnd, bool) {
	for _, e := range a.Ends {
		if e.Role == role {
			return e, true
		}
	}

	return AssociationEnd{}, false
}

// EntitySet is a conceptual entity set.
type EntitySet struct {
	Name        string
	ElementType string
	Location    diagnostic.Location
}

// AssociationSetEnd binds an association role to an entity set.
type AssociationSetEnd struct {
	Role      string
	EntitySet string
}

// AssociationSet is a conceptual relationship set.
type AssociationSet struct {
	Name        string
	Association string
	Ends        [2]AssociationSetEnd
	Location    diagnostic.Location
}

// End returns the set end playing the given role.
func (a *AssociationSet) End(role string) (AssociationSetEnd, bool) {
	for _, e := range a.Ends {
		if e.Role == role {
			return e, true
		}
	}

	return AssociationSetEnd{}, false
}

// Table is a store table (an entity set of the store container).
type Table struct {
	Name     string
	Key      []string
	Columns  []string
	Location diagnostic.Location
}

// HasColumn reports whether the table declares the column.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// ForeignKey is a store-side referential constraint.
type ForeignKey struct {
	Name        string
	FromTable   string
	FromColumns []string
	ToTable     string
	ToColumns   []string
	Location    diagnostic.Location
}

// Function is a store function or stored procedure.
type Function struct {
	Name       string
	Composable bool
	Parameters []string
	Location   diagnostic.Location
}

// HasParameter reports whether the function declares the parameter.
func (f *Function) HasParameter(name string) bool {
	return slices.Contains(f.Parameters, name)
}

// FunctionImport is a conceptual function exposed by the container.
type FunctionImport struct {
	Name     string
	Location diagnostic.Location
}

// Catalog holds the conceptual and store definitions for one mapping.
type Catalog struct {
	Conceptual string
	Store      string

	EntityTypes     map[string]*EntityType
	Associations    map[string]*AssociationType
	EntitySets      map[string]*EntitySet
	AssociationSets map[string]*AssociationSet
	FunctionImports map[string]*FunctionImport
	Tables          map[string]*Table
	ForeignKeys     []ForeignKey
	Functions       map[string]*Function
}

// NewCatalog creates an empty catalog.
func NewCatalog(conceptual, store string) *Catalog {
	return &Catalog{
		Conceptual:      conceptual,
		Store:           store,
		EntityTypes:     make(map[string]*EntityType),
		Associations:    make(map[string]*AssociationType),
		EntitySets:      make(map[string]*EntitySet),
		AssociationSets: make(map[string]*AssociationSet),
		FunctionImports: make(map[string]*FunctionImport),
		Tables:          make(map[string]*Table),
		Functions:       make(map[string]*Function),
	}
}

// EntityType returns the entity type with the given name, or nil.
func (c *Catalog) EntityType(name string) *EntityType { return c.EntityTypes[name] }

// Association returns the association type with the given name, or nil.
func (c *Catalog) Association(name string) *AssociationType { return c.Associations[name] }

// EntitySet returns the entity set with the given name, or nil.
func (c *Catalog) EntitySet(name string) *EntitySet { return c.EntitySets[name] }

// AssociationSet returns the association set with the given name, or nil.
func (c *Catalog) AssociationSet(name string) *AssociationSet { return c.AssociationSets[name] }

// Table returns the store table with the given name, or nil.
func (c *Catalog) Table(name string) *Table { return c.Tables[name] }

// Function returns the store function with the given name, or nil.
func (c *Catalog) Function(name string) *Function { return c.Functions[name] }

// IsForeignKey reports whether the association set's type is foreign-key backed.
// Unknown sets report false.
func (c *Catalog) IsForeignKey(associationSet string) bool {
	set := c.AssociationSets[associationSet]
	if set == nil {
		return false
	}

	assoc := c.Associations[set.Association]

	return assoc != nil && assoc.ForeignKey
}

// IsAssignable reports whether sub is base or derives from it.
func (c *Catalog) IsAssignable(sub, base string) bool {
	seen := common.NewSet[string]()

	for name := sub; name != ""; {
		if name == base {
			return true
		}

		if !seen.Add(name) {
			return false
		}

		t := c.EntityTypes[name]
		if t == nil {
			return false
		}

		name = t.BaseType
	}

	return false
}

// Subtypes returns root and every type deriving from it, sorted by name.
func (c *Catalog) Subtypes(root string) []string {
	if c.EntityTypes[root] == nil {
		return nil
	}

	var out []string

	for name := range c.EntityTypes {
		if c.IsAssignable(name, root) {
			out = append(out, name)
		}
	}

	slices.Sort(out)

	return out
}

// ConcreteTypes returns the non-abstract types in the hierarchy rooted at root.
func (c *Catalog) ConcreteTypes(root string) []string {
	var out []string

	for _, name := range c.Subtypes(root) {
		if !c.EntityTypes[name].Abstract {
			out = append(out, name)
		}
	}

	return out
}

// HasProperty reports whether the type or one of its ancestors declares the property.
func (c *Catalog) HasProperty(typeName, property string) bool {
	seen := common.NewSet[string]()

	for name := typeName; name != ""; {
		if !seen.Add(name) {
			return false
		}

		t := c.EntityTypes[name]
		if t == nil {
			return false
		}

		if slices.Contains(t.Properties, property) {
			return true
		}

		name = t.BaseType
	}

	return false
}

// PropertiesOf returns the properties the type declares or inherits, sorted.
func (c *Catalog) PropertiesOf(typeName string) []string {
	props := common.NewSet[string]()
	seen := common.NewSet[string]()

	for name := typeName; name != "" && seen.Add(name); {
		t := c.EntityTypes[name]
		if t == nil {
			break
		}

		for _, p := range t.Properties {
			props.Add(p)
		}

		name = t.BaseType
	}

	return props.Sorted()
}

// AssociationSetsOf returns the association sets with an end on the entity set, sorted by name.
func (c *Catalog) AssociationSetsOf(entitySet string) []string {
	var out []string

	for _, name := range common.SortedKeys(c.AssociationSets) {
		for _, end := range c.AssociationSets[name].Ends {
			if end.EntitySet == entitySet {
				out = append(out, name)
				break
			}
		}
	}

	return out
}

// EntitySetNames returns all entity set names, sorted.
func (c *Catalog) EntitySetNames() []string { return common.SortedKeys(c.EntitySets) }

// AssociationSetNames returns all association set names, sorted.
func (c *Catalog) AssociationSetNames() []string { return common.SortedKeys(c.AssociationSets) }

// TableNames returns all table names, sorted.
func (c *Catalog) TableNames() []string { return common.SortedKeys(c.Tables) }

// FunctionNames returns all store function names, sorted.
func (c *Catalog) FunctionNames() []string { return common.SortedKeys(c.Functions) }

// EntityTypeNames returns all entity type names, sorted.
func (c *Catalog) EntityTypeNames() []string { return common.SortedKeys(c.EntityTypes) }
