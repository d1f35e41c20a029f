// Package coalescent runs the backward-time coalescent process over a
// popnet.Network, turning sample configurations into branch-length
// contributions in a pattern.Table.
//
// Simulator.Run walks the network leaves-to-root the way
// param.Store.topoSortConstrained walks a constraint dependency graph:
// a white/gray/black DFS reports a cycle, which popnet.NewNetwork's
// validation does not look for, instead of recursing forever.
// Each worker is expected to own an exclusive popnet.Network clone
// (see popnet.Network.Clone) and a private *rand.Rand derived the way
// tsp/rng.go derives per-restart streams, so Run itself takes no lock.
package coalescent
