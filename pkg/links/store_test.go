package links

import (
	"slices"
	"strings"
	"testing"
)

func TestStoreMaxAgeExpiry(t *testing.T) {
	src := NewMemSource("links", "sample")
	src.Add("ACGTA", true, "TGA", 1)

	rec, _ := src.Get("ACGTA")
	s := NewStore()
	s.Add("ACGTA", rec, true, src.SourceName())

	if !s.IsActive() || s.NumNewPaths() != 1 {
		t.Fatalf("after Add: active=%v new=%d", s.IsActive(), s.NumNewPaths())
	}

	want := "TGA"
	for i := 0; i < 3; i++ {
		b, sources, ok := s.NextJunctionChoice()
		if !ok || b != want[i] {
			t.Errorf("step %d: NextJunctionChoice() = %q, %v; want %q", i, b, ok, want[i])
		}
		if !slices.Equal(sources, []string{"links"}) {
			t.Errorf("step %d: sources = %v", i, sources)
		}
		s.IncrementAges()
	}

	if s.IsActive() {
		t.Error("hint of length 3 should be inactive after 3 advances")
	}
	if _, _, ok := s.NextJunctionChoice(); ok {
		t.Error("NextJunctionChoice() ok after expiry")
	}
}

func TestStoreDisagreementIsAmbiguous(t *testing.T) {
	src := NewMemSource("a", "s")
	src.Add("ACGTA", true, "TT", 1)
	src.Add("ACGTA", true, "GT", 1)
	rec, _ := src.Get("ACGTA")

	s := NewStore()
	s.Add("ACGTA", rec, true, "a")
	if _, _, ok := s.NextJunctionChoice(); ok {
		t.Error("disagreeing hints must not resolve")
	}
	s.IncrementAges()
	b, _, ok := s.NextJunctionChoice()
	if !ok || b != 'T' {
		t.Errorf("agreeing second step = %q, %v", b, ok)
	}
}

func TestStoreAgreementMergesSources(t *testing.T) {
	rec := Record{Kmer: "ACGTA", Links: []Link{{Forward: true, Path: "C"}}}
	s := NewStore()
	s.Add("ACGTA", rec, true, "zeta")
	s.Add("ACGTA", rec, true, "alpha")
	b, sources, ok := s.NextJunctionChoice()
	if !ok || b != 'C' || !slices.Equal(sources, []string{"alpha", "zeta"}) {
		t.Errorf("NextJunctionChoice() = %q, %v, %v", b, sources, ok)
	}
	if s.NumNewPaths() != 2 {
		t.Errorf("NumNewPaths() = %d, want 2", s.NumNewPaths())
	}
	s.IncrementAges()
	if s.NumNewPaths() != 0 || s.Len() != 0 {
		t.Errorf("after IncrementAges: new=%d len=%d", s.NumNewPaths(), s.Len())
	}
}

func TestStoreDirectionFilter(t *testing.T) {
	src := NewMemSource("l", "s")
	src.Add("ACGTA", true, "A", 1)
	src.Add("ACGTA", false, "C", 1)
	rec, _ := src.Get("ACGTA")

	tests := []struct {
		anchor  string
		forward bool
		want    byte
	}{
		{"ACGTA", true, 'A'},
		{"ACGTA", false, 'C'},
		// Reading the other strand: forward there is backward on ACGTA,
		// and bases are complemented.
		{"TACGT", true, 'G'},
		{"TACGT", false, 'T'},
	}
	for _, tt := range tests {
		s := NewStore()
		s.Add(tt.anchor, rec, tt.forward, "l")
		b, _, ok := s.NextJunctionChoice()
		if !ok || b != tt.want {
			t.Errorf("Add(%s, forward=%v) choice = %q, %v; want %q", tt.anchor, tt.forward, b, ok, tt.want)
		}
	}
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	s.Add("AAAAC", Record{Links: []Link{{Forward: true, Path: "AC"}}}, true, "x")
	s.Reset()
	if s.IsActive() || s.NumNewPaths() != 0 {
		t.Error("Reset() left state behind")
	}
}

func TestReadJSONL(t *testing.T) {
	in := `{"source":"child.ctp","sample":"child"}
{"kmer":"ACGTA","forward":true,"path":"TG","coverage":3}

{"kmer":"TACGT","forward":true,"path":"C","coverage":1}
`
	src, err := ReadJSONL(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSONL() error = %v", err)
	}
	if src.SourceName() != "child.ctp" || src.SampleNameForColor0() != "child" {
		t.Errorf("header = %s/%s", src.SourceName(), src.SampleNameForColor0())
	}
	if src.Len() != 1 || !src.Contains("ACGTA") {
		t.Fatalf("records = %d", src.Len())
	}
	rec, _ := src.Get("ACGTA")
	if len(rec.Links) != 2 {
		t.Fatalf("links = %+v", rec.Links)
	}
	// The second anchor was the reverse strand.
	if rec.Links[1].Forward || rec.Links[1].Path != "G" {
		t.Errorf("converted link = %+v", rec.Links[1])
	}
}

func TestReadJSONLErrors(t *testing.T) {
	tests := map[string]string{
		"empty":      "",
		"no source":  `{"sample":"x"}`,
		"bad json":   "{\"source\":\"a\"}\n{nope",
		"bad path":   "{\"source\":\"a\"}\n{\"kmer\":\"ACG\",\"path\":\"XN\"}",
		"empty kmer": "{\"source\":\"a\"}\n{\"kmer\":\"\",\"path\":\"A\"}",
	}
	for name, in := range tests {
		if _, err := ReadJSONL(strings.NewReader(in)); err == nil {
			t.Errorf("%s: ReadJSONL() error = nil", name)
		}
	}
}

func TestForSamples(t *testing.T) {
	a := NewMemSource("a", "child")
	b := NewMemSource("b", "mother")
	got := ForSamples([]Source{a, b}, []string{"mother"})
	if len(got) != 1 || got[0].SourceName() != "b" {
		t.Errorf("ForSamples() = %v", got)
	}
}
