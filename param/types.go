package param

import "errors"

// Sentinel errors for the param package.
var (
	// ErrEmptyName indicates a Spec with an empty Name was registered.
	ErrEmptyName = errors.New("param: parameter name is empty")

	// ErrDuplicateName indicates two Specs share a Name.
	ErrDuplicateName = errors.New("param: duplicate parameter name")

	// ErrBoundsViolation indicates low > value, value > high, or a
	// kind-specific constraint (MixFraction outside [0,1], Time < 0)
	// was violated at registration time.
	ErrBoundsViolation = errors.New("param: value violates bounds")

	// ErrUnknownName indicates a constraint formula referenced a name
	// that is not registered in the Store.
	ErrUnknownName = errors.New("param: formula references unknown parameter")

	// ErrConstraintCycle indicates the constrained-parameter dependency
	// graph contains a cycle; this is a construction-time NetworkShape-
	// class error, not a runtime condition.
	ErrConstraintCycle = errors.New("param: constraint dependency cycle")

	// ErrDomain indicates SetFreeVector received a vector with a
	// component outside its parameter's [low, high] bounds.
	ErrDomain = errors.New("param: free vector violates domain bounds")

	// ErrVectorLength indicates GetFreeVector/SetFreeVector received a
	// slice whose length does not equal NFree().
	ErrVectorLength = errors.New("param: vector length mismatch")
)

// Kind classifies what a parameter's value represents.
type Kind int

const (
	// TwoN is a haploid effective population size, doubled (2N).
	TwoN Kind = iota
	// Time is a duration in generations or coalescent units.
	Time
	// MixFraction is an admixture proportion, constrained to [0, 1].
	MixFraction
	// Arbitrary carries no kind-specific invariant.
	Arbitrary
)

// String renders a Kind for diagnostics and test failure messages.
func (k Kind) String() string {
	switch k {
	case TwoN:
		return "TwoN"
	case Time:
		return "Time"
	case MixFraction:
		return "MixFraction"
	case Arbitrary:
		return "Arbitrary"
	default:
		return "Unknown"
	}
}

// Tag classifies how a parameter's value is obtained.
type Tag int

const (
	// Free parameters form the optimizer's search space.
	Free Tag = iota
	// Fixed parameters never change after construction.
	Fixed
	// Constrained parameters are recomputed from a formula whenever
	// any free value changes.
	Constrained
)

// ParamIndex is an opaque, stable handle into a Store. Indices remain
// valid across Clone.
type ParamIndex int

// Spec describes one parameter as supplied by the model-description
// loader (out of scope for this module).
//
// Formula is only consulted for parameters passed to NewStore's
// constrained queue; it is ignored for free and fixed parameters.
type Spec struct {
	Name    string
	Value   float64 // ignored for constrained parameters: NewStore computes it from Formula
	Low     float64
	High    float64
	Kind    Kind
	Formula string
}

// validateBounds enforces the kind-specific and general bounds
// invariants for an already-valued parameter (free or fixed).
func validateBounds(s Spec) error {
	if s.Low > s.Value || s.Value > s.High {
		return ErrBoundsViolation
	}
	switch s.Kind {
	case MixFraction:
		if s.Value < 0 || s.Value > 1 {
			return ErrBoundsViolation
		}
	case Time:
		if s.Value < 0 {
			return ErrBoundsViolation
		}
	}

	return nil
}
