package graph

import (
	"container/heap"
	"slices"
)

type pathItem struct {
	id   VertexID
	dist float64
}

type pathQueue []pathItem

func (q pathQueue) Len() int { return len(q) }
func (q pathQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].id.Compare(q[j].id) < 0
}
func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)   { *q = append(*q, x.(pathItem)) }
func (q *pathQueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

// ShortestPath returns the lowest-weight path from -> to, inclusive of both
// ends. Between parallel edges the lightest one counts. Ties are broken by
// vertex id so the result is deterministic.
func ShortestPath(g *Graph, from, to VertexID) ([]Vertex, bool) {
	if !g.Contains(from) || !g.Contains(to) {
		return nil, false
	}

	dist := map[VertexID]float64{from: 0}
	prev := map[VertexID]VertexID{}
	done := map[VertexID]bool{}
	q := &pathQueue{{id: from}}

	for q.Len() > 0 {
		it := heap.Pop(q).(pathItem)
		if done[it.id] {
			continue
		}
		done[it.id] = true
		if it.id == to {
			break
		}
		for _, next := range g.Successors(it.id) {
			nid := next.ID()
			w := lightest(g, it.id, nid)
			d := it.dist + w
			if cur, ok := dist[nid]; !ok || d < cur {
				dist[nid] = d
				prev[nid] = it.id
				heap.Push(q, pathItem{id: nid, dist: d})
			}
		}
	}

	if !done[to] {
		return nil, false
	}
	var ids []VertexID
	for id := to; ; id = prev[id] {
		ids = append(ids, id)
		if id == from {
			break
		}
	}
	slices.Reverse(ids)
	out := make([]Vertex, len(ids))
	for i, id := range ids {
		out[i] = *g.vertices[id]
	}
	return out, true
}

func lightest(g *Graph, from, to VertexID) float64 {
	best := -1.0
	for _, e := range g.EdgesBetween(from, to) {
		if best < 0 || e.Weight < best {
			best = e.Weight
		}
	}
	if best < 0 {
		return DefaultWeight
	}
	return best
}
