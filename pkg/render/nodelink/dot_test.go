package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/store"
)

func sampleGraph() *graph.Graph {
	g := graph.New()
	a := graph.NewVertex("ATGCA", &store.Record{Coverage: []uint32{3, 1}})
	b := graph.NewVertex("TGCAA", nil)
	c := graph.NewVertex("GCAAG", nil).WithCopy(1)
	c.Index = 1
	b.Index = 1
	g.Connect(a, b, 0)
	g.Connect(b, c, 1)
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{
		Detailed:   true,
		Highlight:  func(v graph.Vertex) bool { return v.Bases == "TGCAA" },
		ColorNames: []string{"sample"},
	})

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR",
		"cov: 3,1",
		"fillcolor=\"#fde68a\"",
		"rounded,filled,dashed",
		"tooltip=\"sample\"",
		"tooltip=\"1\"",
		PenColor(1),
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if n := strings.Count(dot, "->"); n != 2 {
		t.Errorf("ToDOT() edges = %d, want 2", n)
	}
}

func TestToDOTPlainLabels(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{})
	if strings.Contains(dot, "cov:") {
		t.Error("plain labels include coverage")
	}
	if !strings.Contains(dot, `label="ATGCA"`) {
		t.Errorf("plain labels missing bases:\n%s", dot)
	}
}

func TestPenColorWraps(t *testing.T) {
	if PenColor(0) != PenColor(len(palette)) {
		t.Error("PenColor() does not wrap")
	}
	if PenColor(-1) != PenColor(1) {
		t.Error("PenColor(-1) != PenColor(1)")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" viewBox="0.00 0.00 120.50 40.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 120.50 40.00"`) || !strings.Contains(out, `width="120"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("normalizeViewBox(no viewBox) = %s", got)
	}
}
