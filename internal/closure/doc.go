// Package closure enforces the all-or-nothing rule for mapping modes that
// must spread across related sets.
//
// Sets connected by a relationship set that isn't foreign-key backed must
// agree on whether they use a query view. Compute takes the sets already known to
// use a mode and returns every set reachable from them; whatever it reaches
// that isn't in the seed is a violation.
//
// Foreign-key backed relationship sets never propagate: the store enforces
// them already.
//
// QueryViews applies Compute to a container mapping. FunctionMappings
// applies the same rule to each store table: once one set stored in a table
// is modified through functions, every set stored there must be.
package closure
