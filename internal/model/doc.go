// Package model is the in-memory mapping graph between a conceptual
// container and a store container.
//
// A graph is assembled with a Builder, possibly from several partial
// documents describing the same container, and frozen with Builder.Seal.
// The sealed ContainerMapping is read-only; the only state that changes
// afterwards is its memoized cell-group output, which is assigned at most
// once (see ContainerMapping.StoreCellGroups).
//
// Key types:
//   - ContainerMapping: root of the graph, one per conceptual container
//   - SetMapping: mapping of one entity set or association set
//   - TypeMapping / Fragment: type scope and table-level property mapping
//   - FunctionMapping: insert/update/delete stored-procedure bindings
//   - Cell / CellGroup: partitioning units consumed by view generation
package model
