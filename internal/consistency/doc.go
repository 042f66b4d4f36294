// Package consistency checks that modification functions map every
// association set unambiguously.
//
// MappedOnce reports association sets that are mapped to functions more than
// once, directly and through the association ends that entity set functions
// bind. OperationEnds reports, per operation and entity type, association
// ends that are bound by some functions of a set but missing from others,
// and ends a type cannot play.
//
// Functions binding two ends of one association set are rejected earlier,
// when the mapping is built.
package consistency
