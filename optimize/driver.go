package optimize

import (
	"errors"
	"fmt"

	"github.com/alanrogers/legofit/evaluator"
	"github.com/alanrogers/legofit/schedule"
	gonumoptimize "gonum.org/v1/gonum/optimize"
)

// ErrNoStagesRun is returned if sched has already been fully consumed
// (or was never given any stages) before Run is called.
var ErrNoStagesRun = errors.New("optimize: schedule produced no stages to run")

// Driver advances eval through every remaining stage of sched,
// minimizing eval.Cost with Nelder-Mead at each stage's Evaluator
// Replicates and optimizer-iteration budget.
type Driver struct {
	// Concurrent sets gonum/optimize's Settings.Concurrent (number of
	// concurrent function evaluations); 0 leaves gonum's default.
	Concurrent int
}

// New returns a Driver with gonum's default concurrency.
func New() *Driver { return &Driver{} }

// Run feeds eval.Cost to gonum's Nelder-Mead method once per stage of
// sched, each stage warm-started at the previous stage's optimum
// (x0 on the first stage). It returns the final stage's Result.
func (d *Driver) Run(eval *evaluator.Evaluator, sched *schedule.Schedule, x0 []float64) (*gonumoptimize.Result, error) {
	x := append([]float64(nil), x0...)

	var result *gonumoptimize.Result
	for {
		stage, ok := sched.Next()
		if !ok {
			break
		}
		eval.Replicates = stage.Replicates

		problem := gonumoptimize.Problem{Func: eval.Cost}
		settings := &gonumoptimize.Settings{
			MajorIterations: stage.Iterations,
			Concurrent:      d.Concurrent,
		}

		res, err := gonumoptimize.Minimize(problem, x, settings, &gonumoptimize.NelderMead{})
		if err != nil {
			return nil, fmt.Errorf("optimize: stage failed: %w", err)
		}
		result = res
		x = res.X
	}

	if result == nil {
		return nil, ErrNoStagesRun
	}

	return result, nil
}
