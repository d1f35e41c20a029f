// Package legofit evaluates the fit between an observed site-frequency
// spectrum and the spectrum predicted by a population network under a
// coalescent model, and drives a numerical optimizer to find the
// network's best-fitting free parameters.
//
// The pieces compose roughly in this order:
//
//	param      — typed parameter registry: free, fixed, and constrained
//	popnet     — the population network: segments, sample injection, feasibility
//	pattern    — sparse site-frequency spectrum accumulator
//	coalescent — backward-time simulator producing one spectrum sample
//	cost       — KL/chi-squared/Poisson kernels scoring spectrum against spectrum
//	workerpool — fixed-size goroutine pool running simulation replicates
//	evaluator  — glues the above into a single Cost(x []float64) float64
//	schedule   — ordered (iterations, replicates) optimizer stages
//	optimize   — drives evaluator.Evaluator.Cost through a schedule with gonum
//
// Each subpackage's own doc.go covers its contract in more detail; this
// file only orients where to start reading.
package legofit
