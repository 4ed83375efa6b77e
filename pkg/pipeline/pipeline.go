// Package pipeline runs the seed → subgraph → artifacts pipeline shared by
// the walk command and the HTTP server.
//
// # Stages
//
//  1. Traverse: DFS from every seed under the requested rule, cached by
//     seed and traversal settings.
//  2. Walk: linearize the subgraph around each seed into a contig.
//  3. Render: produce the requested formats (JSON, DOT, SVG, FASTA).
//
// # Usage
//
//	runner := pipeline.NewRunner(s, "graph.db", cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Seeds:     []string{"ACGTTGCA..."},
//	    Traversal: config.TraversalConfig{Colors: []string{"NA12878"}},
//	    Formats:   []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cortexwalk/pkg/cache"
	"github.com/matzehuels/cortexwalk/pkg/config"
	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/links"
	"github.com/matzehuels/cortexwalk/pkg/traversal"
)

// DefaultGraphTTL is how long a cached subgraph stays valid.
const DefaultGraphTTL = 7 * 24 * time.Hour

// Format constants for output formats.
const (
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatFASTA = "fasta"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatDOT:   true,
	FormatSVG:   true,
	FormatFASTA: true,
}

// Options contains all configuration for one pipeline run. It is the body
// of the server's walk request.
type Options struct {
	Seeds     []string               `json:"seeds"`
	Traversal config.TraversalConfig `json:"traversal"`

	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // detailed node labels in DOT and SVG
	Refresh  bool     `json:"refresh,omitempty"`

	// Previous is a subgraph JSON file from an earlier walk. Bubble closing
	// stops when it reaches a vertex of that graph.
	Previous string `json:"previous,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the union of the seed subgraphs. It is empty, never nil,
	// when no traversal succeeded.
	Graph *graph.Graph `json:"-"`
	Found bool         `json:"found"`

	// Contigs holds one walk per seed, in seed order.
	Contigs []Contig `json:"contigs"`

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte `json:"-"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache"`
}

// Contig is the walk through one seed.
type Contig struct {
	Seed     string `json:"seed"`
	Sequence string `json:"sequence"`
	Length   int    `json:"length"` // vertices in the walk
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Vertices     int           `json:"vertices"`
	Edges        int           `json:"edges"`
	TraverseTime time.Duration `json:"traverse_ns"`
	WalkTime     time.Duration `json:"walk_ns"`
	RenderTime   time.Duration `json:"render_ns"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit bool `json:"graph_hit"`
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, fasta)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and fills traversal
// settings left empty from [config.Default]. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Seeds) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one seed is required")
	}
	if len(o.Traversal.Colors) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one traversal color is required")
	}
	def := config.Default().Traversal
	if o.Traversal.Direction == "" {
		o.Traversal.Direction = def.Direction
	}
	if o.Traversal.Operator == "" {
		o.Traversal.Operator = def.Operator
	}
	if o.Traversal.Rule == "" {
		o.Traversal.Rule = def.Rule
	}
	if o.Traversal.MaxBranchLength == 0 {
		o.Traversal.MaxBranchLength = def.MaxBranchLength
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "formats")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// graphKeyOpts returns cache key options for a resolved traversal.
func graphKeyOpts(storeName string, cfg traversal.Config, srcs []links.Source) (cache.GraphKeyOpts, error) {
	opts := cache.GraphKeyOpts{
		Store:               storeName,
		Colors:              cfg.TraversalColors,
		Rule:                cfg.Rule.String(),
		Direction:           cfg.Direction.String(),
		Operator:            cfg.Operator.String(),
		Joining:             cfg.JoiningColors,
		Recruitment:         cfg.RecruitmentColors,
		Secondary:           cfg.SecondaryColors,
		MaxBranchLength:     cfg.MaxBranchLength,
		ConnectAllNeighbors: cfg.ConnectAllNeighbors,
	}
	for _, s := range srcs {
		opts.Links = append(opts.Links, s.SourceName())
	}
	if cfg.PreviousTraversal != nil {
		data, err := graph.MarshalGraph(cfg.PreviousTraversal)
		if err != nil {
			return opts, err
		}
		opts.Previous = cache.Hash(data)
	}
	return opts, nil
}
