package evaluator

import (
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/alanrogers/legofit/coalescent"
	"github.com/alanrogers/legofit/cost"
	"github.com/alanrogers/legofit/param"
	"github.com/alanrogers/legofit/pattern"
	"github.com/alanrogers/legofit/popnet"
	"github.com/alanrogers/legofit/workerpool"
)

// threadState is the per-worker scratch state a workerpool worker
// builds once, lazily, on its first job: a private RNG stream and a
// scratch Network clone reused across every job that worker ever runs.
type threadState struct {
	rng *rand.Rand
	net *popnet.Network
}

// Evaluator turns a free-parameter vector into a scalar cost against
// Observed, running replicates on Pool.
type Evaluator struct {
	Store      *param.Store
	Network    *popnet.Network
	Samples    *popnet.SampleIndex
	Bounds     popnet.Bounds
	Pool       *workerpool.Pool
	Kernel     cost.Kernel
	Observed   *pattern.Table
	Replicates int
	DoSingletons bool

	universe pattern.TipId
}

// NewEvaluator builds an Evaluator and the workerpool.Pool it drives.
// The six leading arguments are required; everything tunable beyond
// them (replicate count, singleton handling, worker count, RNG seed)
// takes a sensible default and is overridden with EvaluatorOptions,
// the way builder.BuilderOption configures a graph constructor.
//
// The base seed option feeds coalescent.DeriveRNG once per worker, at
// that worker's first job, via an atomic per-worker stream counter.
func NewEvaluator(store *param.Store, network *popnet.Network, samples *popnet.SampleIndex, bounds popnet.Bounds, kernel cost.Kernel, observed *pattern.Table, opts ...EvaluatorOption) *Evaluator {
	cfg := newEvaluatorConfig(opts...)

	e := &Evaluator{
		Store:        store,
		Network:      network,
		Samples:      samples,
		Bounds:       bounds,
		Kernel:       kernel,
		Observed:     observed,
		Replicates:   cfg.replicates,
		DoSingletons: cfg.doSingletons,
		universe:     samples.Universe(),
	}

	var stream uint64
	makeState := func() any {
		id := atomic.AddUint64(&stream, 1)

		return &threadState{
			rng: coalescent.DeriveRNG(cfg.baseSeed, id),
			net: network.Clone(),
		}
	}
	e.Pool = workerpool.New(cfg.maxThreads, makeState, nil)

	return e
}

// Cost sets the free vector, recomputes constrained parameters, checks
// feasibility, runs Evaluator.Replicates coalescent replicates across
// the pool, merges them, divides by the replicate count (normalizing
// to probabilities for the KL kernel), then scores with Kernel. Any
// DomainError, infeasible network, or empty resulting table yields
// +Inf — the optimizer never sees a NaN or a panic.
func (e *Evaluator) Cost(x []float64) float64 {
	table, err := e.SampleSpectrum(x, e.Replicates)
	if err != nil {
		return math.Inf(1)
	}

	return e.Kernel.Evaluate(e.Observed, table)
}

// SampleSpectrum runs replicates coalescent simulations at parameter
// vector x and returns the merged, normalized-as-needed pattern.Table,
// without scoring it against Observed. Exposed to external
// collaborators.
func (e *Evaluator) SampleSpectrum(x []float64, replicates int) (*pattern.Table, error) {
	if err := e.Store.SetFreeVector(x); err != nil {
		return nil, err
	}
	e.Store.RecomputeConstrained()
	if !e.Network.Feasible(e.Store, e.Bounds) {
		return nil, popnet.ErrInfeasible
	}

	return e.sampleSpectrum(replicates)
}

// ParameterNames returns the free-parameter names in vector order.
func (e *Evaluator) ParameterNames() []string {
	return e.Store.Names()
}

// ParameterBounds returns the free-parameter bounds in vector order.
func (e *Evaluator) ParameterBounds() []param.Bounds {
	return e.Store.BoundsAll()
}

// sampleSpectrum partitions replicates among the pool's worker count
// as evenly as possible (the first `replicates mod tasks` tasks get
// one extra), submits one job per task, waits for the pool to drain,
// and merges the task-local tables.
func (e *Evaluator) sampleSpectrum(replicates int) (*pattern.Table, error) {
	tasks := e.Pool.MaxThreads()
	if tasks <= 0 {
		tasks = 1
	}
	if replicates < tasks {
		tasks = replicates
	}
	if tasks <= 0 {
		return nil, pattern.ErrEmptyTable
	}

	base := replicates / tasks
	extra := replicates % tasks

	tables := make([]*pattern.Table, tasks)
	errs := make([]error, tasks)
	for i := 0; i < tasks; i++ {
		n := base
		if i < extra {
			n++
		}
		if n == 0 {
			continue
		}
		tables[i] = pattern.New()
		table := tables[i]
		errp := &errs[i]

		e.Pool.Submit(workerpool.Job{Fn: func(state any) {
			ts := state.(*threadState)
			for r := 0; r < n; r++ {
				ts.net.ClearSamples()
				ts.net.InjectSamples(e.Samples)
				sim := coalescent.New()
				if _, err := sim.Run(ts.net, e.Store, e.universe, table, ts.rng, e.DoSingletons); err != nil {
					*errp = err
					return
				}
			}
		}})
	}
	e.Pool.WaitIdle()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	merged := pattern.New()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, k := range t.Keys() {
			merged.Add(k, t.Get(k))
		}
	}
	if merged.Len() == 0 {
		return nil, pattern.ErrEmptyTable
	}
	merged.DivideBy(float64(replicates))

	if e.Kernel.Kind == cost.KL {
		if err := merged.Normalize(); err != nil {
			return nil, err
		}
	}

	return merged, nil
}
