// Package render turns traversal results into pictures.
//
// The [nodelink] subpackage draws subgraphs as Graphviz diagrams, one box per
// vertex and one arrow per colored edge:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/cortexwalk/pkg/render/nodelink
package render
