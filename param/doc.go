// Package param implements Store, a typed registry of model
// parameters partitioned into free, fixed, and constrained groups.
//
// Store is the search-space contract between the optimizer and the
// rest of the module: GetFreeVector/SetFreeVector expose exactly the
// free parameters as a contiguous vector, while fixed and constrained
// parameters are carried alongside for lookup by index. Constrained
// parameters evaluate a small arithmetic expression over other
// parameters' current values; dependency order between constrained
// parameters is resolved once, at construction, by the same
// white/gray/black topological sort that orders arbitrary directed
// graphs, applied here to the constraint dependency DAG instead of a
// vertex graph.
package param
