package param

import "sync"

// visitState is the White/Gray/Black coloring for cycle detection
// during a post-order DFS, here applied to the constrained-parameter
// dependency graph instead of a vertex graph.
type visitState int

const (
	white visitState = iota
	gray
	black
)

// Store holds every registered parameter in one contiguous layout:
// indices [0, nFree) are the free block (the optimizer's search
// space), followed by the fixed block, followed by the constrained
// block. Indices are stable for the lifetime of a Store and its
// clones.
type Store struct {
	mu sync.RWMutex

	names  []string
	kinds  []Kind
	tags   []Tag
	values []float64
	lows   []float64
	highs  []float64

	// formulas[i] is non-nil only for i in the constrained block.
	formulas []exprNode
	// pending holds raw formula text between registration and
	// parseConstraints, once every parameter name is known.
	pending []pendingFormula

	nFree int
	// constrainedOrder lists constrained indices in an order where
	// every dependency is evaluated before its dependent.
	constrainedOrder []ParamIndex

	nameToIndex map[string]ParamIndex
}

// NewStore builds a Store from three input queues: fixed, free, and
// constrained parameter specs. Free parameters occupy indices
// [0, len(free)).
//
// Returns ErrEmptyName/ErrDuplicateName for malformed names,
// ErrBoundsViolation for an out-of-invariant free or fixed value,
// ErrUnknownName for a formula referencing an unregistered name, and
// ErrConstraintCycle if the constrained dependency graph has a cycle.
func NewStore(fixed, free, constrained []Spec) (*Store, error) {
	s := &Store{
		nameToIndex: make(map[string]ParamIndex, len(fixed)+len(free)+len(constrained)),
	}

	// Registration order fixes index layout: free, then fixed, then
	// constrained. GetFreeVector/SetFreeVector rely on free occupying
	// [0, nFree).
	groups := []struct {
		specs []Spec
		tag   Tag
	}{
		{free, Free},
		{fixed, Fixed},
		{constrained, Constrained},
	}
	for _, g := range groups {
		for _, sp := range g.specs {
			if err := s.register(sp, g.tag); err != nil {
				return nil, err
			}
		}
	}
	s.nFree = len(free)

	if err := s.parseConstraints(); err != nil {
		return nil, err
	}
	order, err := s.topoSortConstrained()
	if err != nil {
		return nil, err
	}
	s.constrainedOrder = order

	if err := s.recomputeConstrainedLocked(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) register(sp Spec, tag Tag) error {
	if sp.Name == "" {
		return ErrEmptyName
	}
	if _, exists := s.nameToIndex[sp.Name]; exists {
		return ErrDuplicateName
	}
	if tag != Constrained {
		if err := validateBounds(sp); err != nil {
			return err
		}
	}
	idx := ParamIndex(len(s.names))
	s.nameToIndex[sp.Name] = idx
	s.names = append(s.names, sp.Name)
	s.kinds = append(s.kinds, sp.Kind)
	s.tags = append(s.tags, tag)
	s.values = append(s.values, sp.Value)
	s.lows = append(s.lows, sp.Low)
	s.highs = append(s.highs, sp.High)
	s.formulas = append(s.formulas, nil)
	if tag == Constrained {
		// formula text is stashed via a side table keyed by index,
		// parsed in parseConstraints once every name is registered
		// (a formula may reference a name defined later in the queue).
		s.pendingFormula(idx, sp.Formula)
	}

	return nil
}

// pendingFormula holds raw formula text until every parameter name
// is known; parseConstraints consumes it.
type pendingFormula struct {
	idx  ParamIndex
	text string
}

func (s *Store) pendingFormula(idx ParamIndex, text string) {
	s.pending = append(s.pending, pendingFormula{idx: idx, text: text})
}

func (s *Store) parseConstraints() error {
	for _, pf := range s.pending {
		node, err := parseFormula(pf.text, s.nameToIndex)
		if err != nil {
			return err
		}
		s.formulas[pf.idx] = node
	}
	s.pending = nil

	return nil
}

// topoSortConstrained orders every constrained ParamIndex so that a
// dependency is always visited before its dependent, using a
// White/Gray/Black DFS adapted from graph vertices to
// constrained-parameter indices.
func (s *Store) topoSortConstrained() ([]ParamIndex, error) {
	state := make(map[ParamIndex]visitState)
	var order []ParamIndex

	var visit func(idx ParamIndex) error
	visit = func(idx ParamIndex) error {
		switch state[idx] {
		case gray:
			return ErrConstraintCycle
		case black:
			return nil
		}
		state[idx] = gray

		var deps []ParamIndex
		s.formulas[idx].dependsOn(&deps)
		for _, dep := range deps {
			if s.tags[dep] != Constrained {
				continue // free/fixed values are already current
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		state[idx] = black
		order = append(order, idx)

		return nil
	}

	for i, tag := range s.tags {
		if tag != Constrained {
			continue
		}
		idx := ParamIndex(i)
		if state[idx] == white {
			if err := visit(idx); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}

// NFree reports the number of free parameters.
func (s *Store) NFree() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.nFree
}

// GetFreeVector writes the current free-parameter values into out,
// which must have length NFree().
func (s *Store) GetFreeVector(out []float64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(out) != s.nFree {
		return ErrVectorLength
	}
	copy(out, s.values[:s.nFree])

	return nil
}

// SetFreeVector overwrites the free-parameter values from in, which
// must have length NFree(), then re-evaluates every constrained
// parameter from the new values. Returns ErrDomain without mutating
// anything if any component violates its parameter's [low, high]
// bounds; this is a DomainError, handled by the caller
// returning +Inf from cost evaluation.
func (s *Store) SetFreeVector(in []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(in) != s.nFree {
		return ErrVectorLength
	}
	for i, v := range in {
		if v < s.lows[i] || v > s.highs[i] {
			return ErrDomain
		}
	}
	copy(s.values[:s.nFree], in)

	return s.recomputeConstrainedLocked()
}

// Value returns the current value of the parameter at idx.
func (s *Store) Value(idx ParamIndex) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.values[idx]
}

// BoundsOf returns the [low, high] bounds of the parameter at idx.
func (s *Store) BoundsOf(idx ParamIndex) (low, high float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lows[idx], s.highs[idx]
}

// Index returns the ParamIndex registered under name, or false if no
// such parameter exists.
func (s *Store) Index(name string) (ParamIndex, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.nameToIndex[name]

	return idx, ok
}

// RecomputeConstrained re-evaluates every constrained parameter's
// formula in dependency order. SetFreeVector already does this, so
// constrained values reflect the new free values (Testable Property
// 7: this must match building the Store from scratch with the new
// free values); calling it again is harmless.
func (s *Store) RecomputeConstrained() {
	s.mu.Lock()
	defer s.mu.Unlock()
	// recomputeConstrainedLocked never fails at this stage: formulas
	// were already parsed and ordered successfully in NewStore.
	_ = s.recomputeConstrainedLocked()
}

func (s *Store) recomputeConstrainedLocked() error {
	for _, idx := range s.constrainedOrder {
		s.values[idx] = s.formulas[idx].eval(s.values)
	}

	return nil
}

// Names returns every free parameter's name, in free-vector order,
// for use by evaluator.ParameterNames.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, s.nFree)
	copy(out, s.names[:s.nFree])

	return out
}

// Bounds describes one parameter's [low, high] bounds.
type Bounds struct{ Low, High float64 }

// BoundsAll returns the [low, high] bounds of every free parameter,
// in free-vector order, for use by evaluator.ParameterBounds.
func (s *Store) BoundsAll() []Bounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Bounds, s.nFree)
	for i := 0; i < s.nFree; i++ {
		out[i] = Bounds{Low: s.lows[i], High: s.highs[i]}
	}

	return out
}

// Kind returns the Kind of the parameter at idx.
func (s *Store) Kind(idx ParamIndex) Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.kinds[idx]
}

// Clone returns a deep copy of s; every ParamIndex valid in s remains
// valid, and resolves to an equal value, in the clone. Mirrors
// core.Graph.Clone's flat-copy-under-read-lock discipline.
func (s *Store) Clone() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := &Store{
		names:            append([]string(nil), s.names...),
		kinds:            append([]Kind(nil), s.kinds...),
		tags:             append([]Tag(nil), s.tags...),
		values:           append([]float64(nil), s.values...),
		lows:             append([]float64(nil), s.lows...),
		highs:            append([]float64(nil), s.highs...),
		formulas:         append([]exprNode(nil), s.formulas...),
		nFree:            s.nFree,
		constrainedOrder: append([]ParamIndex(nil), s.constrainedOrder...),
		nameToIndex:      make(map[string]ParamIndex, len(s.nameToIndex)),
	}
	for k, v := range s.nameToIndex {
		c.nameToIndex[k] = v
	}

	return c
}
