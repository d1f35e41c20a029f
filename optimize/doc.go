// Package optimize drives evaluator.Evaluator.Cost through a
// schedule.Schedule with gonum.org/v1/gonum/optimize's Nelder-Mead
// method, warm-starting each stage's minimizer from the previous
// stage's optimum. Nelder-Mead via gonum is this module's choice of
// optimizer; nothing else in the module depends on that choice.
package optimize
