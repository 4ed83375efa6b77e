package align

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/exascience/elprep/v5/sam"
)

// Hit is one alignment of a contig.
type Hit struct {
	RefName string               `json:"ref_name"`
	Start   int                  `json:"start"` // 1-based, inclusive
	End     int                  `json:"end"`   // 1-based, inclusive
	Reverse bool                 `json:"reverse"`
	Cigar   []sam.CigarOperation `json:"cigar"`
	MapQ    int                  `json:"mapq"`
	NM      int                  `json:"nm"`
	Seq     string               `json:"seq"`
}

// Strand returns "+" or "-".
func (h Hit) Strand() string {
	if h.Reverse {
		return "-"
	}
	return "+"
}

// CigarString formats the CIGAR, or "*" when there is none.
func (h Hit) CigarString() string { return FormatCigar(h.Cigar) }

// Aligner maps a contig onto one reference.
type Aligner interface {
	Align(ctx context.Context, contig string) ([]Hit, error)
}

// AlignerFunc adapts a function to [Aligner].
type AlignerFunc func(ctx context.Context, contig string) ([]Hit, error)

func (f AlignerFunc) Align(ctx context.Context, contig string) ([]Hit, error) { return f(ctx, contig) }

// Score counts the bases an alignment changes: edit distance plus soft
// clipped, inserted and deleted bases. Lower is better.
func Score(h Hit) int {
	n := h.NM
	for _, op := range h.Cigar {
		switch op.Operation {
		case 'S', 'I', 'D':
			n += int(op.Length)
		}
	}
	return n
}

// ParseCigar parses a CIGAR string. "*" and "" parse to nil.
func ParseCigar(s string) ([]sam.CigarOperation, error) {
	if s == "" || s == "*" {
		return nil, nil
	}
	var ops []sam.CigarOperation
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			continue
		}
		if !strings.ContainsRune("MIDNSHP=X", rune(c)) {
			return nil, fmt.Errorf("cigar %q: invalid operation %q", s, c)
		}
		if i == start {
			return nil, fmt.Errorf("cigar %q: missing length before %q", s, c)
		}
		n, err := strconv.ParseInt(s[start:i], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("cigar %q: %w", s, err)
		}
		ops = append(ops, sam.CigarOperation{Length: int32(n), Operation: c})
		start = i + 1
	}
	if start != len(s) {
		return nil, fmt.Errorf("cigar %q: trailing length", s)
	}
	return ops, nil
}

// FormatCigar is the inverse of [ParseCigar].
func FormatCigar(ops []sam.CigarOperation) string {
	if len(ops) == 0 {
		return "*"
	}
	var sb strings.Builder
	for _, op := range ops {
		sb.WriteString(strconv.Itoa(int(op.Length)))
		sb.WriteByte(op.Operation)
	}
	return sb.String()
}
