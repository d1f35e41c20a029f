package popnet

import (
	"errors"
	"fmt"

	"github.com/alanrogers/legofit/pattern"
	"github.com/alanrogers/legofit/param"
)

// ErrNetworkShape is the umbrella construction-time error: every
// specific shape violation below wraps it, so callers that only care
// that a network was malformed can test with errors.Is(err,
// ErrNetworkShape) instead of enumerating every variant.
var ErrNetworkShape = errors.New("popnet: invalid network shape")

// Sentinel errors for the popnet package. The NetworkShape-class
// errors are construction-time programming errors:
// they surface from NewNetwork, never from a running evaluation.
var (
	ErrMultipleRoots = fmt.Errorf("%w: network has more than one root", ErrNetworkShape)
	ErrNoRoot        = fmt.Errorf("%w: network has no root", ErrNetworkShape)
	ErrBadEdge       = fmt.Errorf("%w: child/parent epoch boundary mismatch", ErrNetworkShape)
	ErrBadAdmixture  = fmt.Errorf("%w: admixture segment missing a parent or mixFrac", ErrNetworkShape)
	ErrBadArity      = fmt.Errorf("%w: segment has more than two parents or children", ErrNetworkShape)
	ErrUnknownLabel  = errors.New("popnet: sample label not registered in SampleIndex")

	// ErrInfeasible is returned by Evaluator when Feasible reports
	// false for the current parameter vector.
	ErrInfeasible = errors.New("popnet: network infeasible for current parameters")
)

const noParent = -1

// Segment is one node of a Network: one population during one epoch.
//
// Parents/Children hold up to two segment indices, noParent (-1) in
// the unused slot(s). A segment with both parent slots filled is an
// admixture segment: MixFrac (a param.ParamIndex of kind
// param.MixFraction) gives the probability a backward-time lineage
// ascends to Parents[1] rather than Parents[0].
type Segment struct {
	TwoN      param.ParamIndex
	StartTime param.ParamIndex
	EndTime   param.ParamIndex // unbounded (root) iff this segment has no parent
	Parents   [2]int
	Children  [2]int
	MixFrac   param.ParamIndex // valid iff both Parents are set
}

// NewLeafSegment returns a Segment with no children, ready to receive
// sample injections.
func NewLeafSegment(twoN, start, end param.ParamIndex, parent int) Segment {
	return Segment{
		TwoN: twoN, StartTime: start, EndTime: end,
		Parents:  [2]int{parent, noParent},
		Children: [2]int{noParent, noParent},
		MixFrac:  noParent,
	}
}

// nParents reports how many of Parents are set.
func (s Segment) nParents() int {
	n := 0
	for _, p := range s.Parents {
		if p != noParent {
			n++
		}
	}

	return n
}

// nChildren reports how many of Children are set.
func (s Segment) nChildren() int {
	n := 0
	for _, c := range s.Children {
		if c != noParent {
			n++
		}
	}

	return n
}

// isAdmixture reports whether s has two parents.
func (s Segment) isAdmixture() bool { return s.nParents() == 2 }

// Bounds is the global parameter envelope a loaded model must respect,
// alongside each parameter's own per-parameter bounds. A parameter
// outside either its own bounds or this global Bounds is infeasible.
type Bounds struct {
	LoTwoN, HiTwoN float64
	LoT, HiT       float64
}

// SampleIndex records the bit position assigned to each sample label
// and which Segment each sampled lineage is injected into at the
// start of a replicate.
type SampleIndex struct {
	labels     []string
	bitOf      map[string]int
	injections map[int][]string // segment index -> labels injected there
}

// NewSampleIndex assigns bit i to labels[i], in order; bit i of a
// TipId is set iff sampled lineage i descends from that branch.
func NewSampleIndex(labels []string) *SampleIndex {
	idx := &SampleIndex{
		labels:     append([]string(nil), labels...),
		bitOf:      make(map[string]int, len(labels)),
		injections: make(map[int][]string),
	}
	for i, l := range labels {
		idx.bitOf[l] = i
	}

	return idx
}

// Inject records that the lineage for label starts in segment
// segmentIdx. Returns ErrUnknownLabel if label was not passed to
// NewSampleIndex.
func (si *SampleIndex) Inject(segmentIdx int, label string) error {
	if _, ok := si.bitOf[label]; !ok {
		return ErrUnknownLabel
	}
	si.injections[segmentIdx] = append(si.injections[segmentIdx], label)

	return nil
}

// Bit returns the bit position assigned to label.
func (si *SampleIndex) Bit(label string) (int, bool) {
	b, ok := si.bitOf[label]

	return b, ok
}

// Universe returns the bitwise-OR of every sample's bit: the TipId
// representing "all sampled lineages".
func (si *SampleIndex) Universe() pattern.TipId {
	var u pattern.TipId
	for i := range si.labels {
		u |= 1 << uint(i)
	}

	return u
}
