package io

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/cortexwalk/pkg/caller"
	"github.com/matzehuels/cortexwalk/pkg/graph"
)

func writeFASTA(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.fa")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportFASTA(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Sequence
	}{
		{
			name: "records sorted by name",
			in:   ">chr2\nTTTT\n>chr1 first record\nacgt\nNNRY\n",
			want: []Sequence{{Name: "chr1", Seq: "ACGTNNNN"}, {Name: "chr2", Seq: "TTTT"}},
		},
		{
			name: "crlf line endings",
			in:   ">x\r\nACG\r\nTTA\r\n",
			want: []Sequence{{Name: "x", Seq: "ACGTTA"}},
		},
		{
			name: "blank line between records",
			in:   ">a\nAC\n\n>b\nGT\n",
			want: []Sequence{{Name: "a", Seq: "AC"}, {Name: "b", Seq: "GT"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImportFASTA(writeFASTA(t, tt.in))
			if err != nil {
				t.Fatalf("ImportFASTA() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ImportFASTA() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestImportFASTAWithIndex(t *testing.T) {
	path := writeFASTA(t, ">chr1\nACGT\nAC\n")
	if err := os.WriteFile(path+".fai", []byte("chr1\t6\t6\t4\t5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ImportFASTA(path)
	if err != nil {
		t.Fatalf("ImportFASTA() error = %v", err)
	}
	if len(got) != 1 || got[0].Seq != "ACGTAC" {
		t.Errorf("ImportFASTA() = %+v, want chr1 ACGTAC", got)
	}
}

func TestImportFASTAErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"sequence before header", "ACGT\n>x\nACGT\n"},
		{"empty file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ImportFASTA(writeFASTA(t, tt.in)); err == nil {
				t.Errorf("ImportFASTA(%q) error = nil", tt.in)
			}
		})
	}
	if _, err := ImportFASTA(filepath.Join(t.TempDir(), "missing.fa")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ImportFASTA(missing) error = %v, want not exist", err)
	}
}

func TestFASTAWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewFASTAWriter(&buf)
	long := strings.Repeat("A", FASTALineWidth+5)
	if err := w.WriteContig(0, "ACGT"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteContig(1, long); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	want := ">0\nACGT\n>1\n" + strings.Repeat("A", FASTALineWidth) + "\nAAAAA\n"
	if buf.String() != want {
		t.Errorf("FASTAWriter output = %q, want %q", buf.String(), want)
	}

	back, err := ImportFASTA(writeFASTA(t, buf.String()))
	if err != nil {
		t.Fatalf("ImportFASTA() error = %v", err)
	}
	if len(back) != 2 || back[1].Seq != long {
		t.Errorf("ImportFASTA(written) = %+v", back)
	}
}

func TestTSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewTSVWriter(&buf)
	calls := []caller.Call{
		{ContigIndex: 0, WalkLength: 12, SegmentLength: 12, Start: 3, Stop: 4,
			Chrom: "chr7", RefStart: 105, RefStop: 106, Strand: "+", Type: caller.SNV, Alt: "G", Ref: "A"},
		{ContigIndex: 2, WalkLength: 30, SegmentLength: 4, Start: 0, Stop: 4, Type: caller.BRK},
	}
	for _, c := range calls {
		if err := w.Write(context.Background(), c); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		strings.Join(caller.Header, "\t"),
		"0\t12\t12\t3\t4\tchr7\t105\t106\t+\tSNV\tG\tA",
		"2\t30\t4\t0\t4\tunknown\t0\t0\t+\tBRK\t.\t.",
	}
	if len(lines) != len(want) {
		t.Fatalf("TSV lines = %d, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTSVWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTSVWriter(&buf).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != strings.Join(caller.Header, "\t") {
		t.Errorf("empty TSV = %q, want header only", got)
	}
}

type failingSink struct{ closed bool }

func (f *failingSink) Write(context.Context, caller.Call) error { return errors.New("down") }
func (f *failingSink) Close() error                             { f.closed = true; return nil }

func TestMultiSink(t *testing.T) {
	mem := &MemorySink{}
	bad := &failingSink{}
	m := MultiSink{mem, bad}

	err := m.Write(context.Background(), caller.Call{Type: caller.SNV})
	if err == nil {
		t.Error("Write() error = nil, want the failing sink's error")
	}
	if len(mem.Calls) != 1 {
		t.Errorf("memory sink got %d calls, want 1", len(mem.Calls))
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !bad.closed {
		t.Error("Close() skipped a sink")
	}
}

func TestGraphJSONRoundTrip(t *testing.T) {
	g := graph.New()
	a := graph.NewVertex("ATGCA", nil)
	b := graph.NewVertex("TGCAA", nil)
	g.Connect(a, b, 0)

	path := filepath.Join(t.TempDir(), "g.json")
	if err := ExportGraphJSON(g, path); err != nil {
		t.Fatalf("ExportGraphJSON() error = %v", err)
	}
	back, err := ImportGraphJSON(path)
	if err != nil {
		t.Fatalf("ImportGraphJSON() error = %v", err)
	}
	if back.Len() != 2 || !back.HasColoredEdge(a.ID(), b.ID(), 0) {
		t.Errorf("round trip lost data: %d vertices", back.Len())
	}
}
