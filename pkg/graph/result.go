package graph

// Result is the outcome of a depth-first traversal: either a subgraph was
// found or the branch contributed nothing. The zero value is NotFound.
type Result struct {
	g *Graph
}

// Found wraps a successful traversal subgraph. A nil graph is treated as
// an empty one.
func Found(g *Graph) Result {
	if g == nil {
		g = New()
	}
	return Result{g: g}
}

// NotFound is the result of a failed traversal.
func NotFound() Result { return Result{} }

// Graph returns the subgraph and true, or nil and false when not found.
func (r Result) Graph() (*Graph, bool) { return r.g, r.g != nil }

// IsFound reports whether the traversal succeeded.
func (r Result) IsFound() bool { return r.g != nil }
