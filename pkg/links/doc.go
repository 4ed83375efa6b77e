// Package links provides long-range path evidence ("links") and the
// per-walk store that turns it into junction decisions.
//
// # Overview
//
// A link records which way reads actually went after passing an anchor
// k-mer: one base per step, in the direction of travel. Link evidence is
// read through the [Source] interface; [MemSource] and [LoadJSONL] are the
// bundled implementations.
//
// A walk owns a [Store]. Each time it steps onto a k-mer that anchors
// links, it calls [Store.Add]; each time it advances it calls
// [Store.IncrementAges]. At a junction, [Store.NextJunctionChoice] returns
// the base every active hint agrees on, or nothing when hints disagree or
// none remain:
//
//	ls := links.NewStore()
//	ls.Add(anchor, rec, true, src.SourceName())
//	if b, sources, ok := ls.NextJunctionChoice(); ok {
//	    // follow b
//	}
//	ls.IncrementAges()
//
// Hints expire once their age reaches the length of their path.
package links
