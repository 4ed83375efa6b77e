// Package nodelink renders traversal subgraphs as node-link diagrams.
//
// # Usage
//
// Convert a subgraph to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Vertices are laid out left to right along the sequence. Each vertex is
// labelled with its oriented bases; copies of a k-mer made while following
// link evidence are drawn dashed, and the seed gets a heavier outline. Edges
// take the pen color of their graph color (see [PenColor]).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package nodelink
