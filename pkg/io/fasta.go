package io

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/exascience/elprep/v5/fasta"

	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

// FASTALineWidth is the number of bases per sequence line written by
// [FASTAWriter].
const FASTALineWidth = 60

// Sequence is one FASTA record.
type Sequence struct {
	Name string
	Seq  string
}

// ImportFASTA reads every record of the FASTA file at path, sorted by name.
// The record name is the header up to the first whitespace. A .fai index
// next to the file is used to size the sequences up front, and BGZF input
// is decompressed transparently.
func ImportFASTA(path string) (seqs []Sequence, err error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	var fai map[string]fasta.FaiReference
	if _, statErr := os.Stat(path + ".fai"); statErr == nil {
		if fai, err = parseFai(path + ".fai"); err != nil {
			return nil, err
		}
	}

	// The elprep parser reports malformed input by panicking.
	defer func() {
		if r := recover(); r != nil {
			seqs, err = nil, fmt.Errorf("read fasta %s: %v", path, r)
		}
	}()
	records := fasta.ParseFasta(path, fai, true, true)

	names := slices.Sorted(maps.Keys(records))
	seqs = make([]Sequence, 0, len(names))
	for _, name := range names {
		seqs = append(seqs, Sequence{Name: name, Seq: kmer.Normalize(strings.ReplaceAll(string(records[name]), "\r", ""))})
	}
	return seqs, nil
}

func parseFai(path string) (fai map[string]fasta.FaiReference, err error) {
	defer func() {
		if r := recover(); r != nil {
			fai, err = nil, fmt.Errorf("read fai %s: %v", path, r)
		}
	}()
	return fasta.ParseFai(path), nil
}

// FASTAWriter writes contigs as FASTA records named by their index.
type FASTAWriter struct {
	w *bufio.Writer
}

// NewFASTAWriter wraps w.
func NewFASTAWriter(w io.Writer) *FASTAWriter {
	return &FASTAWriter{w: bufio.NewWriter(w)}
}

// WriteContig writes one record.
func (f *FASTAWriter) WriteContig(index int, seq string) error {
	if _, err := f.w.WriteString(">" + strconv.Itoa(index) + "\n"); err != nil {
		return err
	}
	for len(seq) > 0 {
		n := min(len(seq), FASTALineWidth)
		if _, err := f.w.WriteString(seq[:n] + "\n"); err != nil {
			return err
		}
		seq = seq[n:]
	}
	return nil
}

// Flush writes buffered records to the underlying writer.
func (f *FASTAWriter) Flush() error { return f.w.Flush() }
