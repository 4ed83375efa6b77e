package kmer

import "github.com/exascience/elprep/v5/fasta"

// Bases lists the nucleotides in the order used for masks and neighbour
// enumeration.
const Bases = "ACGT"

// Canonical is the strand-independent identity of a k-mer: the smaller of
// the sequence and its reverse complement. It is comparable and can be used
// directly as a map key.
type Canonical string

// String returns the canonical bases.
func (c Canonical) String() string { return string(c) }

// Len returns the k-mer length.
func (c Canonical) Len() int { return len(c) }

var complement [256]byte

func init() {
	for i := range complement {
		complement[i] = 'N'
	}
	complement['A'], complement['a'] = 'T', 'T'
	complement['C'], complement['c'] = 'G', 'G'
	complement['G'], complement['g'] = 'C', 'C'
	complement['T'], complement['t'] = 'A', 'A'
}

// Complement returns the complementary base. Anything outside ACGT maps to N.
func Complement(b byte) byte { return complement[b] }

// Normalize upper-cases seq and replaces every byte outside ACGT with N.
func Normalize(seq string) string {
	if IsACGT(seq) {
		return seq
	}
	out := []byte(seq)
	for i, b := range out {
		switch b = fasta.ToUpperAndN(b); b {
		case 'A', 'C', 'G', 'T':
			out[i] = b
		default:
			out[i] = 'N'
		}
	}
	return string(out)
}

// ReverseComplement returns the reverse complement of seq. Bytes outside
// ACGT (in either case) become N.
func ReverseComplement(seq string) string {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = complement[seq[i]]
	}
	return string(out)
}

// Canonicalize returns the canonical identity of seq and whether seq had to
// be reverse complemented to reach it. The input is normalized first, so
// Canonicalize(s) == Canonicalize(ReverseComplement(s)) for every s.
func Canonicalize(seq string) (Canonical, bool) {
	fw := Normalize(seq)
	rc := ReverseComplement(fw)
	if rc < fw {
		return Canonical(rc), true
	}
	return Canonical(fw), false
}

// Oriented returns the canonical bases read in the requested orientation.
func (c Canonical) Oriented(flipped bool) string {
	if flipped {
		return ReverseComplement(string(c))
	}
	return string(c)
}

// IsACGT reports whether seq consists only of unambiguous bases.
func IsACGT(seq string) bool {
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return true
}

// AlphanumericallyLowestOrientation returns whichever of contig and its
// reverse complement sorts first. Contigs assembled from opposite strands
// collapse to the same string.
func AlphanumericallyLowestOrientation(contig string) string {
	rc := ReverseComplement(contig)
	if rc < contig {
		return rc
	}
	return contig
}

// Kmers splits seq into its overlapping k-mers. Sequences shorter than k
// yield nothing.
func Kmers(seq string, k int) []string {
	if k <= 0 || len(seq) < k {
		return nil
	}
	out := make([]string, 0, len(seq)-k+1)
	for i := 0; i+k <= len(seq); i++ {
		out = append(out, seq[i:i+k])
	}
	return out
}
