package model

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"

	"mapvet/internal/common"
	"mapvet/internal/diagnostic"
)

var (
	// ErrSealed is returned by Builder methods once Seal has been called.
	ErrSealed = errors.New("container mapping is sealed")
	// ErrEmptyName is returned for set, function or constraint entries without a name.
	ErrEmptyName = errors.New("name is empty")
	// ErrSetKindMismatch is returned when one name is mapped both as an entity set and an association set.
	ErrSetKindMismatch = errors.New("set is mapped as both entity set and association set")
	// ErrDuplicateQueryView is returned when partial documents both define a set's query view.
	ErrDuplicateQueryView = errors.New("query view defined more than once")
	// ErrDuplicateFunctionImport is returned when a function import is mapped twice.
	ErrDuplicateFunctionImport = errors.New("function import mapped more than once")
)

// ContainerMapping is the root of a sealed mapping graph.
//
// It is safe for concurrent readers. Getters return deep copies, so the
// sealed graph cannot be changed through them. The memoized cell-group
// output is the only mutable state and follows a single-assignment
// discipline.
type ContainerMapping struct {
	conceptual string
	store      string
	key        string
	location   diagnostic.Location

	entitySets      map[string]*SetMapping
	associationSets map[string]*SetMapping
	functionImports map[string]*FunctionImportMapping
	foreignKeys     []ForeignKeyConstraint

	cellGroups atomic.Pointer[CellGroupOutput]
}

// Conceptual returns the conceptual container name.
func (c *ContainerMapping) Conceptual() string { return c.conceptual }

// Store returns the store container name.
func (c *ContainerMapping) Store() string { return c.store }

// Key returns an identifier unique to this instance.
// Two mappings of the same container loaded separately have different keys.
func (c *ContainerMapping) Key() string { return c.key }

// Location returns where the container mapping was declared.
func (c *ContainerMapping) Location() diagnostic.Location { return c.location }

// EntitySetMapping returns the mapping of the named entity set.
func (c *ContainerMapping) EntitySetMapping(name string) (*SetMapping, bool) {
	return lookupSet(c.entitySets, name)
}

// AssociationSetMapping returns the mapping of the named association set.
func (c *ContainerMapping) AssociationSetMapping(name string) (*SetMapping, bool) {
	return lookupSet(c.associationSets, name)
}

// SetMapping returns the mapping of the named entity or association set.
func (c *ContainerMapping) SetMapping(name string) (*SetMapping, bool) {
	if sm, ok := c.EntitySetMapping(name); ok {
		return sm, true
	}

	return c.AssociationSetMapping(name)
}

// EntitySetMappings returns the entity set mappings sorted by set name.
func (c *ContainerMapping) EntitySetMappings() []*SetMapping {
	return sortedSets(c.entitySets)
}

// AssociationSetMappings returns the association set mappings sorted by set name.
func (c *ContainerMapping) AssociationSetMappings() []*SetMapping {
	return sortedSets(c.associationSets)
}

// AllSetMappings returns entity set mappings followed by association set mappings.
func (c *ContainerMapping) AllSetMappings() []*SetMapping {
	return append(c.EntitySetMappings(), c.AssociationSetMappings()...)
}

// FunctionImportMappings returns the function import mappings sorted by import name.
func (c *ContainerMapping) FunctionImportMappings() []*FunctionImportMapping {
	out := make([]*FunctionImportMapping, 0, len(c.functionImports))
	for _, name := range common.SortedKeys(c.functionImports) {
		fi := *c.functionImports[name]
		out = append(out, &fi)
	}

	return out
}

// ForeignKeys returns a copy of the store foreign-key constraints.
func (c *ContainerMapping) ForeignKeys() []ForeignKeyConstraint {
	out := make([]ForeignKeyConstraint, len(c.foreignKeys))
	for i := range c.foreignKeys {
		out[i] = c.foreignKeys[i].Clone()
	}

	return out
}

// CellGroups returns a private copy of the memoized cell-group output.
func (c *ContainerMapping) CellGroups() (CellGroupOutput, bool) {
	cached := c.cellGroups.Load()
	if cached == nil {
		return CellGroupOutput{}, false
	}

	return cached.Clone(), true
}

// StoreCellGroups memoizes out unless a result is already stored, and
// returns a private copy of whichever result is retained.
func (c *ContainerMapping) StoreCellGroups(out CellGroupOutput) CellGroupOutput {
	master := out.Clone()
	if c.cellGroups.CompareAndSwap(nil, &master) {
		return master.Clone()
	}

	return c.cellGroups.Load().Clone()
}

// ClearCellGroups drops the memoized cell-group output.
func (c *ContainerMapping) ClearCellGroups() {
	c.cellGroups.Store(nil)
}

func lookupSet(m map[string]*SetMapping, name string) (*SetMapping, bool) {
	sm, ok := m[name]
	if !ok {
		return nil, false
	}

	return sm.Clone(), true
}

func sortedSets(m map[string]*SetMapping) []*SetMapping {
	out := make([]*SetMapping, 0, len(m))
	for _, name := range common.SortedKeys(m) {
		out = append(out, m[name].Clone())
	}

	return out
}

// Builder assembles a ContainerMapping, merging partial documents that
// describe the same container. It is not safe for concurrent use.
type Builder struct {
	cm     *ContainerMapping
	sealed bool
}

// NewBuilder starts a mapping between the named conceptual and store containers.
func NewBuilder(conceptual, store string, at diagnostic.Location) *Builder {
	return &Builder{
		cm: &ContainerMapping{
			conceptual:      conceptual,
			store:           store,
			location:        at,
			entitySets:      make(map[string]*SetMapping),
			associationSets: make(map[string]*SetMapping),
			functionImports: make(map[string]*FunctionImportMapping),
		},
	}
}

// AddSetMapping adds a copy of a set mapping, or merges it into an earlier
// mapping of the same set.
func (b *Builder) AddSetMapping(sm SetMapping) error {
	if b.sealed {
		return ErrSealed
	}

	if sm.Set == "" {
		return fmt.Errorf("set mapping: %w", ErrEmptyName)
	}

	own, other := b.cm.entitySets, b.cm.associationSets
	if sm.Kind == AssociationSetKind {
		own, other = other, own
	}

	if _, clash := other[sm.Set]; clash {
		return fmt.Errorf("set %q: %w", sm.Set, ErrSetKindMismatch)
	}

	existing, ok := own[sm.Set]
	if !ok {
		own[sm.Set] = sm.Clone()
		return nil
	}

	if existing.QueryView != "" && sm.QueryView != "" {
		return fmt.Errorf("set %q: %w", sm.Set, ErrDuplicateQueryView)
	}

	if existing.QueryView == "" {
		existing.QueryView = sm.QueryView
	}

	if existing.DefaultTable == "" {
		existing.DefaultTable = sm.DefaultTable
	}

	cp := sm.Clone()
	existing.TypeMappings = append(existing.TypeMappings, cp.TypeMappings...)
	existing.TypeQueryViews = append(existing.TypeQueryViews, cp.TypeQueryViews...)
	existing.FunctionMappings = append(existing.FunctionMappings, cp.FunctionMappings...)

	return nil
}

// AddFunctionImportMapping maps a conceptual function import.
func (b *Builder) AddFunctionImportMapping(fi FunctionImportMapping) error {
	if b.sealed {
		return ErrSealed
	}

	if fi.FunctionImport == "" {
		return fmt.Errorf("function import mapping: %w", ErrEmptyName)
	}

	if _, ok := b.cm.functionImports[fi.FunctionImport]; ok {
		return fmt.Errorf("function import %q: %w", fi.FunctionImport, ErrDuplicateFunctionImport)
	}

	cp := fi
	b.cm.functionImports[fi.FunctionImport] = &cp

	return nil
}

// AddForeignKey records a store foreign-key constraint used for partitioning.
func (b *Builder) AddForeignKey(fk ForeignKeyConstraint) error {
	if b.sealed {
		return ErrSealed
	}

	if fk.ChildTable == "" || fk.ParentTable == "" {
		return fmt.Errorf("foreign key %q: %w", fk.Name, ErrEmptyName)
	}

	b.cm.foreignKeys = append(b.cm.foreignKeys, fk.Clone())

	return nil
}

// Seal freezes the graph and returns it. The builder cannot be used afterwards.
func (b *Builder) Seal() (*ContainerMapping, error) {
	if b.sealed {
		return nil, ErrSealed
	}

	b.sealed = true
	b.cm.key = b.cm.conceptual + "#" + uuid.NewString()

	slices.SortStableFunc(b.cm.foreignKeys, func(x, y ForeignKeyConstraint) int {
		switch {
		case x.Name < y.Name:
			return -1
		case x.Name > y.Name:
			return 1
		default:
			return 0
		}
	})

	return b.cm, nil
}
