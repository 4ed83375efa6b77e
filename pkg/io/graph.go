package io

import (
	"fmt"
	"os"

	"github.com/matzehuels/cortexwalk/pkg/graph"
)

// ExportGraphJSON writes a traversal subgraph to a JSON file at path.
func ExportGraphJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := graph.WriteGraph(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportGraphJSON reads a subgraph written by [ExportGraphJSON].
func ImportGraphJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return graph.ReadGraph(f)
}
