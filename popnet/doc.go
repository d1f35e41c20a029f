// Package popnet implements Network, a directed acyclic graph of
// Segments — one population during one epoch — linked by parent/child
// indices rather than pointers.
//
// A raw-pointer graph's Clone has to walk every pointer and shift it
// by the base-address delta between the old and new arrays. Network
// avoids that entirely: Segments live in a slice and link to each
// other by index, not address, so Clone is a flat copy and indices
// never need remapping.
package popnet
