// Package kmer provides strand-independent k-mer identity and the edge-mask
// arithmetic used to read a colored de Bruijn graph.
//
// # Overview
//
// Every k-mer occurs on two strands. A store indexes each pair once, under
// the lexicographically smaller of the k-mer and its reverse complement.
// [Canonicalize] maps any oriented sequence to that [Canonical] identity and
// reports whether it had to flip the input to get there:
//
//	ck, flipped := kmer.Canonicalize("TTGCA")
//	// ck == "TGCAA", flipped == true
//
// All store lookups and visited sets key on [Canonical]; the oriented
// sequence is only kept to know which way a walk is reading the strand.
//
// # Edge Masks
//
// Each color of a store record carries an 8-bit [EdgeMask]. The low nibble
// records incoming bases (A, C, G, T) and the high nibble outgoing bases,
// both relative to the canonical strand. [NextKmers] and [PrevKmers]
// interpret a mask from the point of view of an oriented sequence: when the
// sequence is the flipped strand, incoming and outgoing swap roles and the
// bases are complemented.
//
// Neighbours are always returned in A, C, G, T order so traversals built on
// top of this package are deterministic.
package kmer
