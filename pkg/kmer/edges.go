package kmer

import "fmt"

// EdgeMask records which neighbours a canonical k-mer has in one color.
// Bits 0-3 are the incoming bases A, C, G, T; bits 4-7 the outgoing bases.
type EdgeMask uint8

func baseIndex(b byte) int {
	switch b {
	case 'A', 'a':
		return 0
	case 'C', 'c':
		return 1
	case 'G', 'g':
		return 2
	case 'T', 't':
		return 3
	}
	return -1
}

// In reports whether the canonical k-mer can be entered from base b.
func (m EdgeMask) In(b byte) bool {
	i := baseIndex(b)
	return i >= 0 && m&(1<<i) != 0
}

// Out reports whether the canonical k-mer can be left by appending base b.
func (m EdgeMask) Out(b byte) bool {
	i := baseIndex(b)
	return i >= 0 && m&(1<<(i+4)) != 0
}

// WithIn returns m with the incoming edge for b set.
func (m EdgeMask) WithIn(b byte) EdgeMask {
	if i := baseIndex(b); i >= 0 {
		return m | 1<<i
	}
	return m
}

// WithOut returns m with the outgoing edge for b set.
func (m EdgeMask) WithOut(b byte) EdgeMask {
	if i := baseIndex(b); i >= 0 {
		return m | 1<<(i+4)
	}
	return m
}

// InDegree counts incoming edges.
func (m EdgeMask) InDegree() int { return popcount(uint8(m) & 0x0f) }

// OutDegree counts outgoing edges.
func (m EdgeMask) OutDegree() int { return popcount(uint8(m) >> 4) }

// IsEmpty reports whether no edge is set.
func (m EdgeMask) IsEmpty() bool { return m == 0 }

// String renders the mask the way Cortex dumps do: incoming bases in lower
// case, outgoing in upper case, '.' for absent edges.
func (m EdgeMask) String() string {
	out := []byte("acgtACGT")
	for i := 0; i < 8; i++ {
		if m&(1<<i) == 0 {
			out[i] = '.'
		}
	}
	return string(out)
}

func popcount(v uint8) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}

// NextKmers returns the successors of seq, where mask belongs to the
// canonical record of seq and flipped tells whether seq is the reverse
// strand of that record.
func NextKmers(seq string, mask EdgeMask, flipped bool) []string {
	var out []string
	suffix := seq[1:]
	for i := 0; i < 4; i++ {
		b := Bases[i]
		if !flipped {
			if mask.Out(b) {
				out = append(out, suffix+string(b))
			}
			continue
		}
		// A predecessor X+K of the canonical strand is a successor of its
		// reverse complement ending in comp(X).
		if mask.In(Complement(b)) {
			out = append(out, suffix+string(b))
		}
	}
	return out
}

// PrevKmers returns the predecessors of seq; see [NextKmers].
func PrevKmers(seq string, mask EdgeMask, flipped bool) []string {
	var out []string
	prefix := seq[:len(seq)-1]
	for i := 0; i < 4; i++ {
		b := Bases[i]
		if !flipped {
			if mask.In(b) {
				out = append(out, string(b)+prefix)
			}
			continue
		}
		if mask.Out(Complement(b)) {
			out = append(out, string(b)+prefix)
		}
	}
	return out
}

// Link returns the mask bits implied by the oriented transition from -> to
// (to == from[1:]+b), expressed on the canonical strands of both k-mers.
func Link(from, to string) (fromMask, toMask EdgeMask) {
	_, fromFlipped := Canonicalize(from)
	_, toFlipped := Canonicalize(to)

	next := to[len(to)-1]
	prev := from[0]

	if fromFlipped {
		fromMask = fromMask.WithIn(Complement(next))
	} else {
		fromMask = fromMask.WithOut(next)
	}
	if toFlipped {
		toMask = toMask.WithOut(Complement(prev))
	} else {
		toMask = toMask.WithIn(prev)
	}
	return fromMask, toMask
}

// ParseEdgeMask parses the output of [EdgeMask.String].
func ParseEdgeMask(s string) (EdgeMask, error) {
	const layout = "acgtACGT"
	if len(s) != len(layout) {
		return 0, fmt.Errorf("edge mask %q: want %d characters", s, len(layout))
	}
	var m EdgeMask
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.':
		case layout[i]:
			m |= 1 << i
		default:
			return 0, fmt.Errorf("edge mask %q: unexpected %q at %d", s, s[i], i)
		}
	}
	return m, nil
}
