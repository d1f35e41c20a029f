package popnet

import (
	"sync"

	"github.com/alanrogers/legofit/pattern"
	"github.com/alanrogers/legofit/param"
)

// Network is a directed acyclic graph of Segments, linked by index
// rather than pointer. mu guards both the Segments slice and the
// per-segment active-lineage lists that the coalescent simulator
// mutates transiently during one replicate.
type Network struct {
	mu       sync.RWMutex
	Segments []Segment

	// lineages[i] holds the active lineages currently present in
	// Segments[i]; populated by InjectSamples, mutated by the
	// coalescent simulator, and reset by ClearSamples before the next
	// replicate.
	lineages [][]pattern.TipId
}

// NewNetwork validates the network's shape invariants and returns a
// Network, or a NetworkShape-class error: ErrNoRoot/ErrMultipleRoots
// (exactly one segment with no parents), ErrBadArity (more than two
// parents or children), ErrBadEdge (a child's EndTime index must
// equal its parent's StartTime index — enforced by the caller wiring
// matching param.ParamIndex values, checked here for index identity),
// or ErrBadAdmixture (two parents without both being set, or a
// two-parent segment missing MixFrac).
//
// These are construction-time programming errors: they
// are returned here, never discovered mid-simulation.
func NewNetwork(segments []Segment) (*Network, error) {
	n := &Network{
		Segments: append([]Segment(nil), segments...),
		lineages: make([][]pattern.TipId, len(segments)),
	}
	if err := n.validate(); err != nil {
		return nil, err
	}

	return n, nil
}

func (n *Network) validate() error {
	rootCount := 0
	for i, s := range n.Segments {
		if s.nParents() > 2 || s.nChildren() > 2 {
			return ErrBadArity
		}
		if s.nParents() == 0 {
			rootCount++
		}
		if s.nParents() == 1 && s.MixFrac != noParent {
			return ErrBadAdmixture
		}
		if s.isAdmixture() && s.MixFrac == noParent {
			return ErrBadAdmixture
		}
		for _, p := range s.Parents {
			if p == noParent {
				continue
			}
			if p < 0 || p >= len(n.Segments) {
				return ErrBadEdge
			}
			if n.Segments[p].StartTime != s.EndTime {
				return ErrBadEdge
			}
		}
		for _, c := range s.Children {
			if c == noParent {
				continue
			}
			if c < 0 || c >= len(n.Segments) {
				return ErrBadEdge
			}
			if n.Segments[c].EndTime != s.StartTime {
				return ErrBadEdge
			}
		}
		_ = i
	}
	if rootCount == 0 {
		return ErrNoRoot
	}
	if rootCount > 1 {
		return ErrMultipleRoots
	}

	return nil
}

// Root returns the index of the network's unique root segment (the
// one with no parents). NewNetwork already guarantees uniqueness, so
// this never fails for a Network that passed construction.
func (n *Network) Root() (int, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for i, s := range n.Segments {
		if s.nParents() == 0 {
			return i, nil
		}
	}

	return 0, ErrNoRoot
}

// Feasible reports whether every time/twoN parameter referenced by
// the network falls within its own [low, high] bounds and within the
// global Bounds b, and every MixFrac value lies in [0, 1].
//
// Testable Property 1: if Feasible(store, b1) and b1's dimensions are
// each ⊆ the corresponding dimension of b2, then Feasible(store, b2)
// — true by construction, since every check below is a conjunction of
// independent per-dimension comparisons against b's fields.
func (n *Network) Feasible(store *param.Store, b Bounds) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	check := func(idx param.ParamIndex, lo, hi float64) bool {
		v := store.Value(idx)
		pLo, pHi := store.BoundsOf(idx)
		if v < pLo || v > pHi {
			return false
		}

		return v >= lo && v <= hi
	}

	for _, s := range n.Segments {
		if !check(s.TwoN, b.LoTwoN, b.HiTwoN) {
			return false
		}
		if !check(s.StartTime, b.LoT, b.HiT) {
			return false
		}
		if !check(s.EndTime, b.LoT, b.HiT) {
			return false
		}
		if s.isAdmixture() {
			m := store.Value(s.MixFrac)
			if m < 0 || m > 1 {
				return false
			}
		}
	}

	return true
}

// Clone returns a deep copy of n: Segments and lineage lists are
// copied flat, indices unchanged. Grounded on core.Graph.Clone's
// read-lock-then-flat-copy discipline, simplified because Segment
// parent/child links are already fixed-size index arrays rather than
// open adjacency maps that need re-keying.
func (n *Network) Clone() *Network {
	n.mu.RLock()
	defer n.mu.RUnlock()

	c := &Network{
		Segments: append([]Segment(nil), n.Segments...),
		lineages: make([][]pattern.TipId, len(n.lineages)),
	}
	for i, ls := range n.lineages {
		c.lineages[i] = append([]pattern.TipId(nil), ls...)
	}

	return c
}

// InjectSamples pushes one single-bit TipId lineage into the
// designated segment for every (segment, label) pair recorded in idx.
func (n *Network) InjectSamples(idx *SampleIndex) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for segIdx, labels := range idx.injections {
		for _, label := range labels {
			bit, ok := idx.bitOf[label]
			if !ok {
				continue
			}
			n.lineages[segIdx] = append(n.lineages[segIdx], pattern.TipId(1)<<uint(bit))
		}
	}
}

// ClearSamples empties every segment's active-lineage list, readying
// the network for the next replicate.
func (n *Network) ClearSamples() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.lineages {
		n.lineages[i] = n.lineages[i][:0]
	}
}

// Lineages returns the active-lineage list currently stored for
// segment idx. The coalescent simulator reads and writes this slice
// directly via SetLineages while walking the network.
func (n *Network) Lineages(idx int) []pattern.TipId {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.lineages[idx]
}

// SetLineages replaces the active-lineage list for segment idx.
func (n *Network) SetLineages(idx int, ls []pattern.TipId) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lineages[idx] = ls
}

// AppendLineage adds one lineage to segment idx's active list.
func (n *Network) AppendLineage(idx int, tip pattern.TipId) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lineages[idx] = append(n.lineages[idx], tip)
}
