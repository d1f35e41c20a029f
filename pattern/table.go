package pattern

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrEmptyTable indicates that Normalize was called on a Table whose
// entries sum to zero; there is no informative mass to rescale.
var ErrEmptyTable = errors.New("pattern: table has no informative mass")

// TipId is a fixed-width bitmask in which bit i is set iff sampled
// lineage i descends from the branch the key represents. A site
// pattern is a TipId that is neither all-zero, all-ones (the
// universe), nor (unless singletons are enabled) a single bit.
//
// 64 bits are carried for headroom. popnet.SampleIndex assigns one
// bit per sample label, so bits at or above 32 are set only when more
// than 32 labels are registered.
type TipId uint64

// Table is a sparse map from TipId to accumulated weight.
//
// Zero value is usable: an empty Table with a nil backing map behaves
// like one with zero entries for every read operation; Add lazily
// allocates the map on first use.
type Table struct {
	entries map[TipId]float64
}

// New returns an empty Table ready for use.
func New() *Table {
	return &Table{entries: make(map[TipId]float64)}
}

// Add increments the entry for key by w, inserting it if absent.
//
// Complexity: O(1) amortized.
func (t *Table) Add(key TipId, w float64) {
	if t.entries == nil {
		t.entries = make(map[TipId]float64)
	}
	t.entries[key] += w
}

// Get returns the weight stored for key, or 0 if key is absent.
//
// Complexity: O(1).
func (t *Table) Get(key TipId) float64 {
	return t.entries[key]
}

// Len reports the number of distinct keys currently stored.
func (t *Table) Len() int {
	return len(t.entries)
}

// Keys returns every key currently stored, in unspecified order.
// Callers that need a deterministic order should use ToArrays.
func (t *Table) Keys() []TipId {
	out := make([]TipId, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}

	return out
}

// DivideBy rescales every entry by 1/c.
//
// Complexity: O(n) where n is the number of stored keys.
func (t *Table) DivideBy(c float64) {
	for k, v := range t.entries {
		t.entries[k] = v / c
	}
}

// Normalize rescales every entry so the table sums to 1, returning
// ErrEmptyTable if the current sum is zero (no informative mass to
// redistribute — the caller's simulation produced nothing usable).
//
// Complexity: O(n).
func (t *Table) Normalize() error {
	sum := t.sum()
	if sum == 0 {
		return ErrEmptyTable
	}
	t.DivideBy(sum)

	return nil
}

// sum totals every stored entry via gonum/floats, matching the
// summation routine cost.Kernel uses for its own divergence terms so
// that both share one (non-naive) accumulation strategy.
func (t *Table) sum() float64 {
	if len(t.entries) == 0 {
		return 0
	}
	vals := make([]float64, 0, len(t.entries))
	for _, v := range t.entries {
		vals = append(vals, v)
	}

	return floats.Sum(vals)
}

// MinusEquals subtracts other's entries from t's, key by key. A key
// of t that is absent from other has 0 subtracted. Keys present in
// other but absent from t are ignored: the result retains only the
// keys already present in t.
//
// Complexity: O(len(t.entries)).
func (t *Table) MinusEquals(other *Table) {
	if t.entries == nil {
		return
	}
	for k := range t.entries {
		t.entries[k] -= other.Get(k)
	}
}

// Clone returns a deep copy of t; later changes to either table do
// not affect the other.
func (t *Table) Clone() *Table {
	c := &Table{entries: make(map[TipId]float64, len(t.entries))}
	for k, v := range t.entries {
		c.entries[k] = v
	}

	return c
}

// ToArrays enumerates the table's entries in ascending key order,
// writing into two parallel slices. Deterministic ordering exists so
// tests and reporting code never depend on Go's randomized map
// iteration.
//
// Complexity: O(n log n) for the sort.
func (t *Table) ToArrays() (keys []TipId, values []float64) {
	keys = t.Keys()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	values = make([]float64, len(keys))
	for i, k := range keys {
		values[i] = t.entries[k]
	}

	return keys, values
}

// IsInformative reports whether tip is a non-trivial site pattern: it
// is neither the empty set, the universe, nor (unless doSingletons)
// an exactly-one-bit mask.
//
// Complexity: O(1).
func IsInformative(tip, universe TipId, doSingletons bool) bool {
	if tip == 0 || tip == universe {
		return false
	}
	if !doSingletons && tip&(tip-1) == 0 {
		// tip & (tip-1) == 0 iff tip has at most one bit set; tip != 0
		// was already excluded above, so this catches exact singletons.
		return false
	}

	return true
}
