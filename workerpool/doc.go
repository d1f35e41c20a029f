// Package workerpool runs a bounded set of worker goroutines against a
// FIFO job queue. The producer/consumer handoff is a pair of
// sync.Cond values guarded by one mutex, grounded on the answerCond
// wait/broadcast pattern in the minikanren SLG engine reference — one
// condvar per cache entry there, one pair shared by the whole pool
// here.
package workerpool
