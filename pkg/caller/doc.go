// Package caller turns novel k-mers into variant calls.
//
// A run has four stages:
//
//  1. [LongWalk] extends each unused novel k-mer into the longest walk the
//     graph supports without guessing between branches.
//  2. [ReduceContigs] collapses walks that spell the same contig on either
//     strand.
//  3. [BubbleCloser] finds where each contig leaves and rejoins a reference,
//     replaces the sample path with the reference path and emits a
//     [Call] for each closed bubble that aligns.
//  4. Contigs that keep many novel k-mers are cut at novelty-run
//     boundaries by [BreakContigs]; when the pieces land on different
//     chromosomes every piece is reported as a breakpoint.
//
// [Runner] wires the stages together and closes bubbles on several contigs
// at once. A failing contig is logged and skipped; it never aborts the run.
// Without references a run ends after stage 2 and only writes contigs.
package caller
