package evaluator

import "runtime"

// EvaluatorOption customizes NewEvaluator's defaults. It mutates an
// evaluatorConfig before the Evaluator and its workerpool.Pool are
// built.
//
// As a rule, option constructors never panic at runtime.
type EvaluatorOption func(cfg *evaluatorConfig)

// evaluatorConfig holds the tunables NewEvaluator doesn't require a
// caller to think about on every call: replicate count, singleton
// handling, worker count, and the RNG seed each worker's stream is
// derived from.
type evaluatorConfig struct {
	replicates   int
	doSingletons bool
	maxThreads   int
	baseSeed     int64
}

// newEvaluatorConfig returns an evaluatorConfig initialized with
// defaults, then applies each opt in order. Later options override
// earlier ones.
func newEvaluatorConfig(opts ...EvaluatorOption) *evaluatorConfig {
	cfg := &evaluatorConfig{
		replicates:   1000,
		doSingletons: false,
		maxThreads:   runtime.NumCPU(),
		baseSeed:     1,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithReplicates sets Evaluator.Replicates, the number of coalescent
// replicates Cost averages over; SampleSpectrum takes its replicate
// count as an argument instead. n <= 0 is ignored.
func WithReplicates(n int) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		if n > 0 {
			cfg.replicates = n
		}
	}
}

// WithSingletons enables crediting singleton patterns into the
// site-frequency spectrum.
func WithSingletons(enabled bool) EvaluatorOption {
	return func(cfg *evaluatorConfig) { cfg.doSingletons = enabled }
}

// WithMaxThreads sets the workerpool.Pool's worker count. n <= 0 is
// ignored and runtime.NumCPU() is kept.
func WithMaxThreads(n int) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		if n > 0 {
			cfg.maxThreads = n
		}
	}
}

// WithBaseSeed sets the seed coalescent.DeriveRNG mixes with each
// worker's stream index to build that worker's private RNG.
func WithBaseSeed(seed int64) EvaluatorOption {
	return func(cfg *evaluatorConfig) { cfg.baseSeed = seed }
}
