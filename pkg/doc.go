// Package pkg provides the core libraries for cortexwalk, a traversal engine
// for colored de Bruijn graphs and a novel-variant caller built on it.
//
// # Overview
//
// A colored de Bruijn graph stores every k-mer of several samples together
// with, per sample (color), its coverage and the edges leaving it on either
// side. cortexwalk walks that graph from seed k-mers, assembles the novel
// k-mers of one sample into contigs, closes the bubbles they form against
// reference colors and reconciles the result into variant calls.
//
// # Architecture
//
//	FASTA files
//	     ↓
//	[store] (k-mer records in BadgerDB, one color per sample)
//	     ↓
//	[traversal] (DFS under a stopping rule, walks, link evidence from [links])
//	     ↓
//	[caller] (long walks → contigs → bubbles → alignment via [align] → calls)
//	     ↓
//	[io] (FASTA, TSV, MongoDB) and [render] (DOT, SVG)
//
// # Quick Start
//
// Index a sequence and walk the contig through a seed:
//
//	b := store.NewBuilder(31, []string{"NA12878"})
//	_ = b.AddSequence(0, seq)
//
//	e, _ := traversal.New(traversal.Config{
//	    Store:           b.MemStore(),
//	    TraversalColors: []int{0},
//	    Rule:            traversal.RuleContig,
//	})
//	w, _ := e.Walk(seed)
//	contig := traversal.ToContig(w)
//
// # Main Packages
//
// ## Graph Model
//
// [kmer] - Canonical k-mers, reverse complements and per-color edge masks.
//
// [store] - The k-mer index: an in-memory store for tests and a BadgerDB
// store for real graphs, plus the builder that fills them from sequences.
//
// [graph] - Traversal subgraphs of oriented vertices, their JSON form and
// path helpers.
//
// ## Traversal and Calling
//
// [traversal] - The engine: depth-first subgraph extraction, stopping rules
// (novel continuation, bubble closing, gap closing, contig) and walks.
//
// [links] - Read-pair link evidence that resolves junctions during walks.
//
// [align] - External aligners driven over SAM, and best-hit selection.
//
// [caller] - The variant caller: long walks, contig reduction, bubble
// closing, contig breaking and call reconciliation.
//
// ## Output
//
// [io] - FASTA input and contig output, TSV and MongoDB call sinks, and the
// JSON form of traversal subgraphs.
//
// [render] - DOT and SVG drawings of traversal subgraphs.
//
// ## Infrastructure
//
// [pipeline] - Seed → subgraph → artifacts, shared by the CLI and the server.
//
// [cache] - File, Redis and null caches for subgraphs and alignments.
//
// [config] - The TOML configuration file.
//
// [observability] - Hooks for traversal, caller, cache and HTTP events, with a
// Prometheus implementation.
//
// [errors] - Coded errors and input validation.
//
// [httputil] - JSON responses and error bodies for the HTTP API.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/traversal/... # Specific package
//	go test -run Example        # Examples only
//
// [kmer]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/kmer
// [store]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/store
// [graph]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/graph
// [traversal]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/traversal
// [links]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/links
// [align]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/align
// [caller]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/caller
// [io]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/cortexwalk/pkg/httputil
package pkg
