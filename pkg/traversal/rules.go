package traversal

import (
	"fmt"

	"github.com/matzehuels/cortexwalk/pkg/errors"
)

// StoppingRule decides, per visited vertex, whether a branch continues,
// succeeded or failed.
type StoppingRule interface {
	// KeepGoing reports whether the frame should extend past s. It records
	// whether the branch succeeded, retrievable with TraversalSucceeded.
	KeepGoing(s State) bool
	HasTraversalSucceeded(s State) bool
	HasTraversalFailed(s State) bool
	// TraversalSucceeded returns the outcome recorded by the last KeepGoing.
	TraversalSucceeded() bool
}

// forker is implemented by rules whose state must flow into child frames.
type forker interface {
	fork() StoppingRule
}

// Rule selects a stopping rule.
type Rule int

const (
	RuleNovelContinuation Rule = iota
	RuleBubbleClosing
	RuleGapClosing
	RuleContig
)

var ruleNames = map[Rule]string{
	RuleNovelContinuation: "novel-continuation",
	RuleBubbleClosing:     "bubble-closing",
	RuleGapClosing:        "gap-closing",
	RuleContig:            "contig",
}

func (r Rule) String() string {
	if n, ok := ruleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

// ParseRule resolves a rule by name.
func ParseRule(s string) (Rule, error) {
	for r, n := range ruleNames {
		if n == s {
			return r, nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnknownRule, "unknown stopping rule %q", s)
}

// New builds a fresh rule instance.
func (r Rule) New() (StoppingRule, error) {
	switch r {
	case RuleNovelContinuation:
		return &novelContinuation{}, nil
	case RuleBubbleClosing:
		return &bubbleClosing{}, nil
	case RuleGapClosing:
		return &gapClosing{}, nil
	case RuleContig:
		return &contig{}, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownRule, "unknown stopping rule %d", int(r))
}

type conditions interface {
	HasTraversalSucceeded(s State) bool
	HasTraversalFailed(s State) bool
}

type outcome struct {
	succeeded bool
}

func (o *outcome) keepGoing(c conditions, s State) bool {
	o.succeeded = c.HasTraversalSucceeded(s)
	failed := c.HasTraversalFailed(s)
	return !o.succeeded && !failed
}

func (o *outcome) TraversalSucceeded() bool { return o.succeeded }

// novelContinuation extends through a run of novel k-mers until the walk is
// back on shared sequence. Before any novelty it gives up quickly.
type novelContinuation struct {
	outcome
	seenNovel bool
}

func (r *novelContinuation) KeepGoing(s State) bool { return r.keepGoing(r, s) }

func (r *novelContinuation) HasTraversalSucceeded(s State) bool {
	novel := s.IsNovel()
	if novel {
		r.seenNovel = true
	}
	if !r.seenNovel {
		return false
	}
	return !novel || s.NumAdjacent == 0 || s.JunctionDepth >= 5 || s.ChildrenTraversed || s.ReachedMaxBranch
}

func (r *novelContinuation) HasTraversalFailed(s State) bool {
	return !r.seenNovel && (s.GraphSize >= 1000 || s.JunctionDepth >= 2 || s.NumAdjacent == 0)
}

func (r *novelContinuation) fork() StoppingRule {
	return &novelContinuation{seenNovel: r.seenNovel}
}

// bubbleClosing succeeds when the frontier reaches the previous traversal.
type bubbleClosing struct{ outcome }

func (r *bubbleClosing) KeepGoing(s State) bool { return r.keepGoing(r, s) }

func (r *bubbleClosing) HasTraversalSucceeded(s State) bool { return s.InPreviousGraph() }

func (r *bubbleClosing) HasTraversalFailed(s State) bool {
	return s.GraphSize > 10000 || s.JunctionDepth >= 2 || s.NumAdjacent == 0
}

// gapClosing is bubbleClosing with a deeper junction budget and no size cap.
type gapClosing struct{ outcome }

func (r *gapClosing) KeepGoing(s State) bool { return r.keepGoing(r, s) }

func (r *gapClosing) HasTraversalSucceeded(s State) bool { return s.InPreviousGraph() }

func (r *gapClosing) HasTraversalFailed(s State) bool {
	return s.JunctionDepth > 5 || s.NumAdjacent == 0
}

// contig walks unambiguous sequence and accepts wherever it has to stop.
type contig struct{ outcome }

func (r *contig) KeepGoing(s State) bool { return r.keepGoing(r, s) }

func (r *contig) HasTraversalSucceeded(s State) bool {
	return s.NumAdjacent != 1 || s.ChildrenTraversed || s.ReachedMaxBranch
}

func (r *contig) HasTraversalFailed(State) bool { return false }
