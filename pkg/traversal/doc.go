// Package traversal explores a colored de Bruijn graph from a seed k-mer.
//
// # Overview
//
// An [Engine] is built once from a [Config] and answers three kinds of
// question:
//
//   - [Engine.DFS]: recursive depth-first subgraph extraction, steered by a
//     pluggable [StoppingRule], in one or both directions
//   - [Engine.Walk] and [Engine.Assemble]: linear walks through the graph
//   - [Engine.PrevVertices] and [Engine.NextVertices]: neighbours of a
//     vertex in the configured colors
//
// # Depth-first search
//
// Each recursion frame copies its ancestors' visited set, so sibling
// branches are explored independently while cycles along one branch are
// cut. While exactly one candidate remains the frame keeps extending in a
// loop; at a junction it recurses once per candidate and succeeds if any
// child did, or if the rule accepts the junction itself. Dead ends and
// ambiguity are not errors: the branch simply returns
// [graph.NotFound]. Errors are reserved for configuration problems and
// seeds absent from the store.
//
// When link evidence is configured, a [WalkSession] rides along each frame
// and collapses a junction to the single branch the links prefer. If that
// vertex was already visited on the current branch, a fresh copy index is
// allocated so the walk can pass through it again.
//
// # Stopping rules
//
// Rules form a closed set selected by value:
//
//	RuleNovelContinuation // extend through novel k-mers back to shared sequence
//	RuleBubbleClosing     // reach a previously built reference subgraph
//	RuleGapClosing        // like bubble closing, deeper junction budget
//	RuleContig            // stop at dead ends and unresolved junctions
//
// # Concurrency
//
// An Engine is not safe for concurrent use; build one per worker.
package traversal
