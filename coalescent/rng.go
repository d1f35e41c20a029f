package coalescent

import "math/rand"

// DeriveRNG returns an independent deterministic RNG stream for worker
// or task number stream, mixed from baseSeed via a SplitMix64-style
// avalanche (tsp/rng.go's deriveSeed, adopted verbatim). Call once per
// worker (evaluator does so on the worker's first job); never share
// the result across goroutines.
//
// Unlike tsp/rng.go's deriveRNG, this takes a plain int64 seed rather
// than consuming a shared *rand.Rand: workerpool.Pool's makeState
// callback can run concurrently across worker goroutines on their
// first job, and math/rand.Rand is not safe for concurrent use.
func DeriveRNG(baseSeed int64, stream uint64) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(baseSeed, stream)))
}

// deriveSeed mixes a parent seed and a stream identifier into a new
// 64-bit seed using the canonical SplitMix64 finalizer constants.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}
