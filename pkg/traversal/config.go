package traversal

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/links"
	"github.com/matzehuels/cortexwalk/pkg/observability"
	"github.com/matzehuels/cortexwalk/pkg/store"
)

// Direction selects which way DFS explores from the seed.
type Direction int

const (
	Both Direction = iota
	Forward
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case Both:
		return "both"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection resolves "forward", "reverse" or "both".
func ParseDirection(s string) (Direction, error) {
	for _, d := range []Direction{Both, Forward, Reverse} {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown direction %q", s)
}

// Operator combines the reverse and forward passes of a Both traversal.
type Operator int

const (
	Or Operator = iota
	And
)

func (o Operator) String() string {
	if o == And {
		return "and"
	}
	return "or"
}

// ParseOperator resolves "and" or "or".
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "and", "AND":
		return And, nil
	case "or", "OR":
		return Or, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown operator %q", s)
}

// DefaultMaxBranchLength bounds a single frame when Config leaves it unset.
const DefaultMaxBranchLength = 5000

// Config parameterizes an [Engine].
type Config struct {
	// TraversalColors are the colors whose edges the traversal follows.
	TraversalColors []int
	// JoiningColors are passed to stopping rules; they do not steer.
	JoiningColors []int
	// RecruitmentColors are consulted only when the traversal colors offer
	// no neighbour, to keep a walk connected.
	RecruitmentColors []int
	// SecondaryColors are overlaid on the finished subgraph.
	SecondaryColors []int

	Direction Direction
	Operator  Operator
	Rule      Rule

	MaxBranchLength int // vertices per frame before ReachedMaxBranch; default 5000
	MaxWalkLength   int // cap on Walk output; 0 means unbounded

	// ConnectAllNeighbors adds every neighbour edge of visited vertices,
	// not only the edges walked.
	ConnectAllNeighbors bool

	PreviousTraversal *graph.Graph
	Novel             NoveltyIndex
	Sinks             []string

	Links []links.Source
	Store store.Store

	Logger *log.Logger
	Hooks  observability.TraversalHooks
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if c.Store == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "traversal requires a store")
	}
	if len(c.TraversalColors) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one traversal color is required")
	}
	n := c.Store.NumColors()
	for name, colors := range map[string][]int{
		"traversal":   c.TraversalColors,
		"joining":     c.JoiningColors,
		"recruitment": c.RecruitmentColors,
		"secondary":   c.SecondaryColors,
	} {
		for _, col := range colors {
			if col < 0 || col >= n {
				return errors.New(errors.ErrCodeInvalidConfig, "%s color %d out of range [0,%d)", name, col, n)
			}
		}
	}
	if c.Direction < Both || c.Direction > Reverse {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid direction %d", int(c.Direction))
	}
	if c.Operator != Or && c.Operator != And {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid operator %d", int(c.Operator))
	}
	if c.MaxBranchLength < 0 || c.MaxWalkLength < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "length limits must be non-negative")
	}
	return nil
}

// traversalSamples names the samples behind the traversal colors.
func (c Config) traversalSamples() []string {
	var out []string
	for _, col := range c.TraversalColors {
		if name := c.Store.SampleName(col); name != "" && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
