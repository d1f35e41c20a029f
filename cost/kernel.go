package cost

import (
	"math"

	"github.com/alanrogers/legofit/pattern"
	"gonum.org/v1/gonum/floats"
)

// Kind selects which divergence Kernel.Evaluate computes.
type Kind int

const (
	KL Kind = iota
	ChiSq
	Poisson
)

func (k Kind) String() string {
	switch k {
	case KL:
		return "KL"
	case ChiSq:
		return "ChiSq"
	case Poisson:
		return "Poisson"
	default:
		return "unknown"
	}
}

// Kernel evaluates one of a small set of divergences between an
// observed and an expected (simulated) pattern.Table. N is the
// effective site count used by ChiSq and Poisson; KL ignores it since
// both tables are assumed already normalized to probability mass.
type Kernel struct {
	Kind Kind
	N    float64
}

// Evaluate sums the configured divergence over every key present in
// observed. A missing key in expected is treated as 0. If expected's
// value at a key observed assigns positive mass to is ≤ 0, Evaluate
// returns +Inf: the simulated model assigns zero probability to a
// pattern that was actually seen, an infinitely bad fit.
func (k Kernel) Evaluate(observed, expected *pattern.Table) float64 {
	keys := observed.Keys()
	terms := make([]float64, 0, len(keys))

	for _, key := range keys {
		o := observed.Get(key)
		e := expected.Get(key)

		if e <= 0 {
			if o > 0 {
				return math.Inf(1)
			}
			continue
		}
		if o <= 0 {
			continue
		}

		switch k.Kind {
		case KL:
			terms = append(terms, o*math.Log(o/e))
		case ChiSq:
			diff := o - e
			terms = append(terms, diff*diff*k.N/e)
		case Poisson:
			en, on := e*k.N, o*k.N
			terms = append(terms, en-on*math.Log(en))
		}
	}

	return floats.Sum(terms)
}
