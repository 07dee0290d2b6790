package lod

import (
	"container/heap"
	gomath "math"

	"github.com/Faultbox/meshlod/internal/engine/mesh"
	"github.com/Faultbox/meshlod/pkg/math"
)

const (
	// minTriangles is the floor below which simplification never goes.
	minTriangles = 4

	// boundaryPenalty biases collapses away from silhouette-defining
	// open edges.
	boundaryPenalty = 1000.0

	// lengthWeight adds a small cost proportional to edge length so
	// short edges collapse first.
	lengthWeight = 0.001

	// flipDotThreshold marks a face normal as reversed when the dot of
	// old and new normal falls below it. Slightly negative to tolerate
	// numerical noise on near-degenerate faces.
	flipDotThreshold float32 = -0.1

	// weldEpsilon is the position tolerance used when an unindexed
	// triangle soup has to be welded before simplification.
	weldEpsilon = 0.0001
)

// Simplifier reduces triangle meshes by greedy edge collapse ranked by
// accumulated quadric error.
type Simplifier struct {
	// onCollapse, when set, observes every accepted collapse and whether
	// the collapsed edge was a boundary edge. Used by tests.
	onCollapse func(boundary bool)
}

// NewSimplifier creates a simplifier.
func NewSimplifier() *Simplifier {
	return &Simplifier{}
}

// collapseEdge is one candidate edge in the priority queue.
type collapseEdge struct {
	cost     float32
	v1, v2   int
	target   math.Vec3
	boundary bool
}

// edgeQueue is a min-heap of collapse candidates keyed by cost.
type edgeQueue []collapseEdge

func (q edgeQueue) Len() int            { return len(q) }
func (q edgeQueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q edgeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *edgeQueue) Push(x interface{}) { *q = append(*q, x.(collapseEdge)) }
func (q *edgeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// collapseState is the per-call scratch state of one Simplify run.
type collapseState struct {
	pos      []math.Vec3
	nrm      []math.Vec3 // nil when the input has no normals
	tris     [][3]int
	quadrics []Quadric
	vertTris []map[int]struct{}
	triValid []bool
	parent   []int // union-find collapse map
	live     int
}

// findRoot resolves a vertex index to its current collapse target with
// path compression.
func (st *collapseState) findRoot(v int) int {
	root := v
	for st.parent[root] != root {
		root = st.parent[root]
	}
	for st.parent[v] != root {
		st.parent[v], v = root, st.parent[v]
	}
	return root
}

// Simplify reduces the mesh to roughly ratio of its triangle count and
// returns a new mesh. Ratio >= 1, empty input, or input at or below the
// triangle floor all yield a plain copy; the operation cannot fail.
func (s *Simplifier) Simplify(in *mesh.Mesh, ratio float32) *mesh.Mesh {
	if in.Primitive != mesh.Triangles || ratio >= 1 || in.TriangleCount() <= minTriangles {
		return in.Copy()
	}

	src := in
	if !src.HasIndices() {
		// Edge adjacency cannot be computed on a flat soup
		src = src.Weld(weldEpsilon)
	}

	origTris := src.TriangleCount()
	target := int(gomath.Round(float64(origTris) * float64(ratio)))
	if target < minTriangles {
		target = minTriangles
	}
	if target >= origTris {
		return in.Copy()
	}

	st := newCollapseState(src)
	queue := buildEdgeQueue(st)

	for st.live > target && queue.Len() > 0 {
		e := heap.Pop(&queue).(collapseEdge)

		a := st.findRoot(e.v1)
		b := st.findRoot(e.v2)
		if a == b {
			continue // endpoints already merged
		}

		if countFlips(st, a, b, e.target) > 1 {
			continue
		}

		collapse(st, a, b, e.target)
		if s.onCollapse != nil {
			s.onCollapse(e.boundary)
		}
	}

	out := rebuild(st, in.ID)
	out.GenerateNormals()
	return out
}

// newCollapseState computes per-triangle quadrics, accumulates them into
// the vertices, and records vertex/triangle incidence.
func newCollapseState(src *mesh.Mesh) *collapseState {
	nv := src.VertexCount()
	nt := src.TriangleCount()

	st := &collapseState{
		pos:      make([]math.Vec3, nv),
		tris:     make([][3]int, nt),
		quadrics: make([]Quadric, nv),
		vertTris: make([]map[int]struct{}, nv),
		triValid: make([]bool, nt),
		parent:   make([]int, nv),
		live:     nt,
	}
	for i := 0; i < nv; i++ {
		st.pos[i] = src.Position(i)
		st.vertTris[i] = make(map[int]struct{})
		st.parent[i] = i
	}
	if src.HasNormals() {
		st.nrm = make([]math.Vec3, nv)
		for i := 0; i < nv; i++ {
			st.nrm[i] = src.Normal(i)
		}
	}

	for t := 0; t < nt; t++ {
		a := int(src.Indices[t*3])
		b := int(src.Indices[t*3+1])
		c := int(src.Indices[t*3+2])
		st.tris[t] = [3]int{a, b, c}
		st.triValid[t] = true

		q := QuadricFromTriangle(st.pos[a], st.pos[b], st.pos[c])
		st.quadrics[a].AddInPlace(q)
		st.quadrics[b].AddInPlace(q)
		st.quadrics[c].AddInPlace(q)

		st.vertTris[a][t] = struct{}{}
		st.vertTris[b][t] = struct{}{}
		st.vertTris[c][t] = struct{}{}
	}

	return st
}

// buildEdgeQueue classifies every undirected edge as boundary or
// interior and pushes it into a min-heap keyed by collapse cost.
func buildEdgeQueue(st *collapseState) edgeQueue {
	use := make(map[[2]int]int)
	for _, tri := range st.tris {
		for i := 0; i < 3; i++ {
			a, b := tri[i], tri[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			use[[2]int{a, b}]++
		}
	}

	queue := make(edgeQueue, 0, len(use))
	for e, count := range use {
		a, b := e[0], e[1]
		boundary := count == 1

		q := st.quadrics[a].Add(st.quadrics[b])
		targetPos := q.OptimalPoint(st.pos[a], st.pos[b])
		cost := q.Error(targetPos)
		cost += lengthWeight * st.pos[a].Distance(st.pos[b])
		if boundary {
			cost += boundaryPenalty
		}

		queue = append(queue, collapseEdge{
			cost:     cost,
			v1:       a,
			v2:       b,
			target:   targetPos,
			boundary: boundary,
		})
	}
	heap.Init(&queue)
	return queue
}

// countFlips simulates moving both endpoints to target and counts the
// incident faces whose normal reverses. Faces that degenerate outright
// (they contain both endpoints) are removed by the collapse, not
// flipped, so they are skipped.
func countFlips(st *collapseState, a, b int, target math.Vec3) int {
	flips := 0
	check := func(t int) {
		if !st.triValid[t] {
			return
		}
		i0 := st.findRoot(st.tris[t][0])
		i1 := st.findRoot(st.tris[t][1])
		i2 := st.findRoot(st.tris[t][2])
		if i0 == i1 || i1 == i2 || i0 == i2 {
			return
		}
		moved := 0
		p := [3]math.Vec3{st.pos[i0], st.pos[i1], st.pos[i2]}
		n := [3]math.Vec3{p[0], p[1], p[2]}
		for k, idx := range [3]int{i0, i1, i2} {
			if idx == a || idx == b {
				n[k] = target
				moved++
			}
		}
		if moved == 0 || moved > 1 {
			// moved > 1 means the face holds both endpoints and
			// degenerates on merge
			return
		}
		oldN := p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Normalize()
		newN := n[1].Sub(n[0]).Cross(n[2].Sub(n[0])).Normalize()
		if oldN.Dot(newN) < flipDotThreshold {
			flips++
		}
	}

	for t := range st.vertTris[a] {
		check(t)
	}
	for t := range st.vertTris[b] {
		if _, dup := st.vertTris[a][t]; !dup {
			check(t)
		}
	}
	return flips
}

// collapse merges vertex b into vertex a at target, sums quadrics,
// unions incidence sets, and invalidates triangles that degenerate.
func collapse(st *collapseState, a, b int, target math.Vec3) {
	st.pos[a] = target
	if st.nrm != nil {
		st.nrm[a] = st.nrm[a].Add(st.nrm[b]).Normalize()
	}
	st.quadrics[a].AddInPlace(st.quadrics[b])
	st.parent[b] = a

	for t := range st.vertTris[b] {
		st.vertTris[a][t] = struct{}{}
	}
	st.vertTris[b] = nil

	for t := range st.vertTris[a] {
		if !st.triValid[t] {
			continue
		}
		i0 := st.findRoot(st.tris[t][0])
		i1 := st.findRoot(st.tris[t][1])
		i2 := st.findRoot(st.tris[t][2])
		if i0 == i1 || i1 == i2 || i0 == i2 {
			st.triValid[t] = false
			st.live--
		}
	}
}

// rebuild re-indexes the vertices referenced by surviving triangles
// into a fresh mesh.
func rebuild(st *collapseState, id string) *mesh.Mesh {
	out := mesh.New(id)
	remap := make(map[int]uint32)

	mapVertex := func(v int) uint32 {
		r := st.findRoot(v)
		if idx, ok := remap[r]; ok {
			return idx
		}
		idx := uint32(out.AddVertex(st.pos[r].X, st.pos[r].Y, st.pos[r].Z))
		remap[r] = idx
		return idx
	}

	for t, tri := range st.tris {
		if !st.triValid[t] {
			continue
		}
		i0 := mapVertex(tri[0])
		i1 := mapVertex(tri[1])
		i2 := mapVertex(tri[2])
		if i0 == i1 || i1 == i2 || i0 == i2 {
			continue
		}
		out.AddTriangle(i0, i1, i2)
	}

	return out
}
