// Package graph provides the colored multigraph built by traversals over a
// k-mer store, plus its serialization format.
//
// # Overview
//
// Traversals produce small subgraphs of the full de Bruijn graph. A [Vertex]
// wraps an oriented k-mer, its store record and a copy index; its identity
// for every map and visited set is the [VertexID] pair (canonical k-mer,
// copy index), never the Vertex value itself. Copy indices let a walk pass
// through the same k-mer more than once when link evidence demands it.
//
// [Graph] is a directed multigraph: parallel edges between the same pair of
// vertices are allowed as long as their colors differ, and self-loops occur
// on short cycles. Adding an edge that already exists for the same color is
// a no-op.
//
//	g := graph.New()
//	g.Connect(a, b, 0)
//	g.Connect(a, b, 2) // parallel edge, second color
//	g.Successors(a.ID()) // [b]
//
// # Results
//
// A depth-first traversal either finds a subgraph or it does not. [Result]
// makes that explicit:
//
//	res := engine.DFS(seed)
//	if g, ok := res.Graph(); ok {
//	    // use g
//	}
//
// # Paths
//
// [ShortestPath] runs Dijkstra over edge weights and is used by bubble
// reconciliation to pick the reference branch of a bubble.
//
// # Serialization
//
// [MarshalGraph], [WriteGraph] and [ReadGraph] use a node-link JSON document
// ([Document]) that is also stored verbatim in MongoDB by the call sink.
package graph
