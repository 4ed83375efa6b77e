// Package io reads and writes the files cortexwalk exchanges with other
// tools.
//
// # Inputs
//
// [ImportFASTA] parses multi-record FASTA into named sequences for the store
// builder. Bases are uppercased and anything outside
// ACGT becomes N, so a sequence never carries soft-masking into the graph.
//
// [ImportGraphJSON] reads a traversal subgraph written by [ExportGraphJSON].
//
// # Outputs
//
// Calls go to a [Sink]. [TSVWriter] writes one tab-separated row per call
// with the column layout of [caller.Header]:
//
//	contig_index  walk_length  segment_length  start  stop  chromosome
//	ref_start     ref_stop     strand          type   alt_allele  ref_allele
//
// Empty alleles are written as "." and calls without an alignment report
// chromosome "unknown" at position 0. The MongoDB sink lives in
// [mongosink].
//
// [FASTAWriter] writes reduced contigs with their index as the record name.
//
// [caller.Header]: github.com/matzehuels/cortexwalk/pkg/caller.Header
// [mongosink]: github.com/matzehuels/cortexwalk/pkg/io/mongosink
package io
