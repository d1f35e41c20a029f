// Package pattern implements Table, a sparse associative container
// mapping site-pattern bitmasks (TipId) to accumulated weights.
//
// A Table is the currency the rest of the module trades in: the
// coalescent simulator accumulates branch lengths into one, the
// worker pool merges many of them, and the cost kernel compares two
// of them. Table itself knows nothing about populations or
// coalescence — it is a thin, deterministic numeric container, the
// same role core.Graph plays for vertices and edges in the library
// this module is grounded on.
//
// Concurrency: a Table is not safe for concurrent mutation. Each
// worker owns its own Table for the duration of one replicate batch;
// merging happens single-threaded after WaitIdle returns.
package pattern
