package traversal

import (
	"testing"

	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

func vertex(bases string) graph.Vertex {
	return graph.NewVertex(bases, nil)
}

func TestParseRule(t *testing.T) {
	for _, r := range []Rule{RuleNovelContinuation, RuleBubbleClosing, RuleGapClosing, RuleContig} {
		got, err := ParseRule(r.String())
		if err != nil || got != r {
			t.Errorf("ParseRule(%q) = %v, %v, want %v", r.String(), got, err, r)
		}
	}
	if _, err := ParseRule("nope"); !errors.Is(err, errors.ErrCodeUnknownRule) {
		t.Errorf("ParseRule(nope) error = %v, want UNKNOWN_RULE", err)
	}
}

func TestContigRule(t *testing.T) {
	tests := []struct {
		name      string
		state     State
		keepGoing bool
		succeeded bool
	}{
		{"single", State{NumAdjacent: 1}, true, false},
		{"dead end", State{NumAdjacent: 0}, false, true},
		{"junction", State{NumAdjacent: 3}, false, true},
		{"after children", State{NumAdjacent: 1, ChildrenTraversed: true}, false, true},
		{"max branch", State{NumAdjacent: 1, ReachedMaxBranch: true}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := RuleContig.New()
			if got := r.KeepGoing(tt.state); got != tt.keepGoing {
				t.Errorf("KeepGoing() = %v, want %v", got, tt.keepGoing)
			}
			if got := r.TraversalSucceeded(); got != tt.succeeded {
				t.Errorf("TraversalSucceeded() = %v, want %v", got, tt.succeeded)
			}
		})
	}
}

func TestBubbleAndGapClosingRules(t *testing.T) {
	prev := graph.New()
	prev.AddVertex(vertex("ACGTA"))

	inPrev := vertex("TACGT") // reverse complement of ACGTA
	other := vertex("CCCCA")

	tests := []struct {
		name      string
		rule      Rule
		state     State
		keepGoing bool
		succeeded bool
	}{
		{"bubble reaches previous", RuleBubbleClosing, State{Current: inPrev, PreviousGraph: prev, NumAdjacent: 1}, false, true},
		{"bubble continues", RuleBubbleClosing, State{Current: other, PreviousGraph: prev, NumAdjacent: 1}, true, false},
		{"bubble too deep", RuleBubbleClosing, State{Current: other, PreviousGraph: prev, NumAdjacent: 1, JunctionDepth: 2}, false, false},
		{"bubble too big", RuleBubbleClosing, State{Current: other, NumAdjacent: 1, GraphSize: 10001}, false, false},
		{"bubble dead end", RuleBubbleClosing, State{Current: other, NumAdjacent: 0}, false, false},
		{"gap deeper budget", RuleGapClosing, State{Current: other, NumAdjacent: 1, JunctionDepth: 5}, true, false},
		{"gap too deep", RuleGapClosing, State{Current: other, NumAdjacent: 1, JunctionDepth: 6}, false, false},
		{"gap no size cap", RuleGapClosing, State{Current: other, NumAdjacent: 1, GraphSize: 50000}, true, false},
		{"gap sink", RuleGapClosing, State{Current: other, NumAdjacent: 1, Sinks: []kmer.Canonical{"CCCCA"}}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.rule.New()
			if err != nil {
				t.Fatal(err)
			}
			if got := r.KeepGoing(tt.state); got != tt.keepGoing {
				t.Errorf("KeepGoing() = %v, want %v", got, tt.keepGoing)
			}
			if got := r.TraversalSucceeded(); got != tt.succeeded {
				t.Errorf("TraversalSucceeded() = %v, want %v", got, tt.succeeded)
			}
		})
	}
}

func TestNovelContinuationRule(t *testing.T) {
	novel := novelSet{"AAAAC": true}
	nv := vertex("AAAAC")
	shared := vertex("CCCCA")

	r, _ := RuleNovelContinuation.New()

	// Before any novelty a junction two levels deep gives up.
	if r.KeepGoing(State{Current: shared, Novel: novel, NumAdjacent: 2, JunctionDepth: 2}) {
		t.Error("KeepGoing() = true at depth 2 before novelty")
	}

	r, _ = RuleNovelContinuation.New()
	if !r.KeepGoing(State{Current: nv, Novel: novel, NumAdjacent: 1}) {
		t.Error("KeepGoing() = false on novel k-mer")
	}
	if r.TraversalSucceeded() {
		t.Error("TraversalSucceeded() = true inside novel run")
	}

	child := r.(forker).fork()
	if child.KeepGoing(State{Current: shared, Novel: novel, NumAdjacent: 1, JunctionDepth: 3}) {
		t.Error("forked KeepGoing() = true after leaving novel run")
	}
	if !child.TraversalSucceeded() {
		t.Error("forked rule lost novelty seen by its parent")
	}

	fresh, _ := RuleNovelContinuation.New()
	fresh.KeepGoing(State{Current: shared, Novel: novel, NumAdjacent: 1})
	if fresh.TraversalSucceeded() {
		t.Error("TraversalSucceeded() = true without novelty")
	}
}
