// Package schedule holds the ordered list of optimization stages an
// optimize.Driver advances through: early stages run few, noisy
// replicates; later stages run many, precise ones.
package schedule
