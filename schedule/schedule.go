package schedule

import (
	"errors"
	"sync"
)

// ErrEmptySchedule and ErrBadStage are returned by NewSchedule when
// the stage list, or one of its entries, cannot drive an optimizer.
var (
	ErrEmptySchedule = errors.New("schedule: at least one stage is required")
	ErrBadStage      = errors.New("schedule: iterations and replicates must both be positive")
)

// Stage pairs an optimizer iteration budget with the replicate count
// Evaluator.Cost should use while that budget is spent.
type Stage struct {
	Iterations int
	Replicates int
}

// Schedule is an ordered, mutex-guarded cursor over a fixed list of
// Stages.
type Schedule struct {
	mu     sync.Mutex
	stages []Stage
	next   int
}

// NewSchedule validates stages and returns a Schedule positioned
// before the first entry.
func NewSchedule(stages ...Stage) (*Schedule, error) {
	if len(stages) == 0 {
		return nil, ErrEmptySchedule
	}
	for _, s := range stages {
		if s.Iterations <= 0 || s.Replicates <= 0 {
			return nil, ErrBadStage
		}
	}

	return &Schedule{stages: append([]Stage(nil), stages...)}, nil
}

// Next returns the next Stage and true, or a zero Stage and false once
// every stage has been consumed.
func (s *Schedule) Next() (Stage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.stages) {
		return Stage{}, false
	}
	stage := s.stages[s.next]
	s.next++

	return stage, true
}

// Len reports the total number of stages.
func (s *Schedule) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.stages)
}

// Reset rewinds the cursor to the first stage.
func (s *Schedule) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = 0
}
