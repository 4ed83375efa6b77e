// Package align maps contigs onto reference genomes.
//
// An [Aligner] turns a contig into zero or more [Hit] values. [ExecAligner]
// runs an external SAM-emitting aligner such as `bwa mem`; [CachedAligner]
// memoizes any aligner through a [cache.Cache].
//
// [ChooseBest] picks the single alignment a call is placed on: per
// reference, the hit must be the only one at or above the mapping-quality
// threshold; across references, the lowest [Score] wins. Anything
// ambiguous yields no alignment rather than an error.
package align
