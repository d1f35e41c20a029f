// Package evaluator exposes the single public operation an optimizer
// driver needs: turn a free-parameter vector into a scalar cost,
// partitioning the replicate budget across a workerpool.Pool and
// merging the resulting pattern.Table before scoring it with a
// cost.Kernel.
package evaluator
