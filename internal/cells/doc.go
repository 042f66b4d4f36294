// Package cells partitions the cells of a container mapping into groups
// that view generation processes together, and memoizes the result on the
// container mapping.
//
// Two cells share a group when they target the same store table or when
// their tables are linked by a chain of foreign keys. Cache.Get extracts
// and partitions the cells of a container mapping once; later calls return
// deep copies of the memoized output until the container's cell groups are
// cleared. A mapping without cells yields an unsuccessful output, which
// tells the caller to fall back to a single union-all view.
package cells
