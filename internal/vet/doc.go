// Package vet runs every validation stage over a built container mapping
// and collects the findings into one diagnostics list.
//
// Stages run in a fixed order and never stop early:
//
//  1. structural validation (mapping.Validate)
//  2. query-view closure (closure.QueryViews)
//  3. function-mapping closure (closure.FunctionMappings)
//  4. single function mapping per relationship set (consistency.MappedOnce)
//  5. consistent association ends per operation (consistency.OperationEnds)
package vet
