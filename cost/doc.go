// Package cost scores a simulated pattern.Table against an observed
// one. Kernel.Evaluate dispatches on Kind the way tsp.SolveWithMatrix
// dispatches on its algorithm enum: one switch at call time, no
// build-time selection.
package cost
