package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cortexwalk/pkg/cache"
	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/store"
	"github.com/matzehuels/cortexwalk/pkg/traversal"
)

const sample = `
[graph]
store = "graph.db"
kmer_size = 5

[traversal]
colors = ["sample"]
recruitment = ["ref"]
direction = "forward"
operator = "and"
rule = "bubble-closing"
max_walk_length = 100

[references.ref]
command = ["bwa", "mem", "ref.fa", "{query}"]

[references.alt]
source = "ref"

[links]
paths = ["a.jsonl"]

[caller]
sample = "sample"
workers = 2

[cache]
dir = "/tmp/cw"
ttl_hours = 2
namespace = "trio"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Graph.KmerSize != 5 || cfg.Graph.Store != "graph.db" {
		t.Errorf("Graph = %+v", cfg.Graph)
	}
	if cfg.Caller.Workers != 2 || cfg.Caller.MinMapQ != 10 {
		t.Errorf("Caller = %+v, want defaults kept for unset fields", cfg.Caller)
	}
	if cfg.Traversal.MaxBranchLength != traversal.DefaultMaxBranchLength {
		t.Errorf("MaxBranchLength = %d, want default", cfg.Traversal.MaxBranchLength)
	}
	if len(cfg.References) != 2 || cfg.References["alt"].Source != "ref" {
		t.Errorf("References = %+v", cfg.References)
	}
	if cfg.Cache.TTL().Hours() != 2 {
		t.Errorf("TTL() = %v, want 2h", cfg.Cache.TTL())
	}
	if key := cfg.Cache.Keyer().AlignmentKey("hg19", "ACGT"); !strings.HasPrefix(key, "trio:align:") {
		t.Errorf("Keyer().AlignmentKey() = %q, want trio: prefix", key)
	}
	if key := (CacheConfig{}).Keyer().AlignmentKey("hg19", "ACGT"); !strings.HasPrefix(key, "align:") {
		t.Errorf("default AlignmentKey() = %q", key)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		code errors.Code
	}{
		{"syntax", "[graph\n", errors.ErrCodeInvalidConfig},
		{"unknown key", "[graph]\nkmer = 5\n", errors.ErrCodeInvalidConfig},
		{"even k", "[graph]\nkmer_size = 4\n", errors.ErrCodeInvalidConfig},
		{"direction", "[traversal]\ndirection = \"sideways\"\n", errors.ErrCodeInvalidConfig},
		{"rule", "[traversal]\nrule = \"greedy\"\n", errors.ErrCodeUnknownRule},
		{"aligner placeholder", "[references.hg19]\ncommand = [\"bwa\", \"mem\"]\n", errors.ErrCodeInvalidConfig},
		{"negative workers", "[caller]\nworkers = -1\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortexwalk.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Load() error = %v", err)
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestResolve(t *testing.T) {
	s := store.NewMemStore(5, []string{"sample", "ref"})
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	tc, err := cfg.Traversal.Resolve(s)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(tc.TraversalColors) != 1 || tc.TraversalColors[0] != 0 {
		t.Errorf("TraversalColors = %v, want [0]", tc.TraversalColors)
	}
	if len(tc.RecruitmentColors) != 1 || tc.RecruitmentColors[0] != 1 {
		t.Errorf("RecruitmentColors = %v, want [1]", tc.RecruitmentColors)
	}
	if tc.Direction != traversal.Forward || tc.Operator != traversal.And || tc.Rule != traversal.RuleBubbleClosing {
		t.Errorf("Resolve() = %v %v %v", tc.Direction, tc.Operator, tc.Rule)
	}

	cfg.Traversal.Colors = []string{"nobody"}
	if _, err := cfg.Traversal.Resolve(s); !errors.Is(err, errors.ErrCodeSampleNotFound) {
		t.Errorf("Resolve(unknown sample) error = %v", err)
	}
}

func TestCacheOpen(t *testing.T) {
	c, err := CacheConfig{}.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("Open() = %T, want *cache.NullCache", c)
	}

	dir := filepath.Join(t.TempDir(), "cache")
	c, err = CacheConfig{Dir: dir}.Open(context.Background())
	if err != nil {
		t.Fatalf("Open(dir) error = %v", err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != dir {
		t.Errorf("Open(dir) = %T", c)
	}
}

func TestBuildReferences(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	refs := cfg.BuildReferences(cache.NewNullCache(), nil)
	if len(refs) != 2 {
		t.Fatalf("BuildReferences() = %d refs, want 2", len(refs))
	}
	if refs[0].Name != "alt" || refs[0].Aligner != nil {
		t.Errorf("refs[0] = %+v, want alt without aligner", refs[0])
	}
	if refs[1].Name != "ref" || refs[1].Aligner == nil {
		t.Errorf("refs[1] = %+v, want ref with aligner", refs[1])
	}
}
