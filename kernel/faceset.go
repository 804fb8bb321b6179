package kernel

import (
	"math"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/taxonomy"
	"github.com/gogpu/brep/topo"
)

// FacesetHelper builds the polyhedral loops of a face set over shared
// topology: points closer than the precision become one vertex, and an
// edge between two vertices is created once and reused, reversed when
// traversed backwards. Faces converted through the same helper therefore
// sew into a shell without a separate sewing step.
//
// A helper belongs to one conversion call and is not safe for concurrent
// use.
type FacesetHelper struct {
	// NonManifold is set when a triangulated face did not use its
	// boundary edges exactly once or its internal edges exactly twice.
	NonManifold bool

	p     float64
	grid  map[[3]int64][]*topo.Vertex
	edges map[[2]*topo.Vertex]topo.Edge
	wires map[*taxonomy.Loop]helperWire
}

type helperWire struct {
	w  topo.Wire
	ok bool
}

// NewFacesetHelper creates a helper merging points within precision. The
// given loops register their points up front so that vertex positions do
// not depend on the order in which faces are converted.
func NewFacesetHelper(precision float64, loops ...*taxonomy.Loop) *FacesetHelper {
	h := &FacesetHelper{
		p:     precision,
		grid:  map[[3]int64][]*topo.Vertex{},
		edges: map[[2]*topo.Vertex]topo.Edge{},
		wires: map[*taxonomy.Loop]helperWire{},
	}
	for _, l := range loops {
		for _, pt := range loopPoints(l) {
			h.vertex(pt)
		}
	}
	return h
}

// Wire returns the wire of a polyhedral loop. It reports false when the
// loop collapses to fewer than three distinct vertices; such loops are
// dropped from their face.
func (h *FacesetHelper) Wire(l *taxonomy.Loop) (topo.Wire, bool) {
	if hw, ok := h.wires[l]; ok {
		return hw.w, hw.ok
	}

	var vs []*topo.Vertex
	for _, pt := range loopPoints(l) {
		v := h.vertex(pt)
		if len(vs) > 0 && vs[len(vs)-1] == v {
			continue
		}
		vs = append(vs, v)
	}
	for len(vs) > 1 && vs[len(vs)-1] == vs[0] {
		vs = vs[:len(vs)-1]
	}
	if len(vs) < 3 {
		h.wires[l] = helperWire{}
		return topo.Wire{}, false
	}

	edges := make([]topo.Edge, len(vs))
	for i, a := range vs {
		edges[i] = h.edge(a, vs[(i+1)%len(vs)])
	}
	w := topo.NewWire(edges...)
	h.wires[l] = helperWire{w: w, ok: true}
	return w, true
}

// Vertices returns the number of distinct vertices created so far.
func (h *FacesetHelper) Vertices() int {
	n := 0
	for _, cell := range h.grid {
		n += len(cell)
	}
	return n
}

// loopPoints returns the corners of a polyhedral loop in traversal order.
func loopPoints(l *taxonomy.Loop) []brep.Point3 {
	pts := make([]brep.Point3, 0, len(l.Edges))
	for _, e := range l.Edges {
		if e.Orientation {
			pts = append(pts, e.Start)
		} else {
			pts = append(pts, e.End)
		}
	}
	return pts
}

func (h *FacesetHelper) cell(p brep.Point3) [3]int64 {
	size := 2 * h.p
	return [3]int64{
		int64(math.Floor(p.X / size)),
		int64(math.Floor(p.Y / size)),
		int64(math.Floor(p.Z / size)),
	}
}

// vertex returns the vertex within precision of p, creating it if needed.
func (h *FacesetHelper) vertex(p brep.Point3) *topo.Vertex {
	c := h.cell(p)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, v := range h.grid[[3]int64{c[0] + dx, c[1] + dy, c[2] + dz}] {
					if v.P.Distance(p) < h.p {
						return v
					}
				}
			}
		}
	}
	v := topo.NewVertex(p, h.p)
	h.grid[c] = append(h.grid[c], v)
	return v
}

// edge returns the straight edge from a to b, shared with b to a.
func (h *FacesetHelper) edge(a, b *topo.Vertex) topo.Edge {
	if e, ok := h.edges[[2]*topo.Vertex{a, b}]; ok {
		return e
	}
	if e, ok := h.edges[[2]*topo.Vertex{b, a}]; ok {
		return e.Reversed()
	}
	e := topo.MakeSegmentVertices(a, b)
	h.edges[[2]*topo.Vertex{a, b}] = e
	return e
}
