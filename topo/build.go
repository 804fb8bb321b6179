package topo

import (
	"errors"
	"math"
	"slices"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/geom"
)

var (
	// ErrOpenWire is returned when a face boundary does not close.
	ErrOpenWire = errors.New("topo: wire is not closed")

	// ErrNoWires is returned when a face is built without boundaries.
	ErrNoWires = errors.New("topo: face has no wires")

	// ErrDegenerateSweep is returned for a zero-length prism vector.
	ErrDegenerateSweep = errors.New("topo: degenerate sweep vector")
)

// MakeEdge creates an edge on c between parameters t0 < t1, bounded by
// the given vertices.
func MakeEdge(c geom.Curve, v0, v1 *Vertex, t0, t1 float64) Edge {
	return Edge{e: &edgeEntity{curve: c, v0: v0, v1: v1, t0: t0, t1: t1}}
}

// MakeSegment creates a straight edge from p0 to p1 with new vertices.
func MakeSegment(p0, p1 brep.Point3, tol float64) Edge {
	return MakeSegmentVertices(NewVertex(p0, tol), NewVertex(p1, tol))
}

// MakeSegmentVertices creates a straight edge between existing vertices.
func MakeSegmentVertices(v0, v1 *Vertex) Edge {
	return MakeEdge(geom.LineThrough(v0.P, v1.P), v0, v1, 0, v0.P.Distance(v1.P))
}

// MakeCurveEdge creates an edge on c running from p0 to p1. For periodic
// curves the edge follows the curve's parameter direction; coincident end
// points on a periodic curve give a full closed edge with a single vertex.
// On open curves a p1 that precedes p0 yields a reversed handle.
func MakeCurveEdge(c geom.Curve, p0, p1 brep.Point3, tol float64) Edge {
	t0, t1 := c.Parameter(p0), c.Parameter(p1)
	if period, ok := c.Period(); ok {
		if p0.Distance(p1) <= tol {
			v := NewVertex(p0, tol)
			return MakeEdge(c, v, v, t0, t0+period)
		}
		for t1 <= t0 {
			t1 += period
		}
		return MakeEdge(c, NewVertex(p0, tol), NewVertex(p1, tol), t0, t1)
	}
	if t1 < t0 {
		return MakeEdge(c, NewVertex(p1, tol), NewVertex(p0, tol), t1, t0).Reversed()
	}
	return MakeEdge(c, NewVertex(p0, tol), NewVertex(p1, tol), t0, t1)
}

// replaceVertex returns a copy of e whose occurrences of old are replaced
// by nv. Lines are refitted through the new end points; other curves are
// kept and only their parameter bounds move.
func replaceVertex(e Edge, old, nv *Vertex) Edge {
	ent := *e.e
	ent.pcurves = nil
	moved0, moved1 := ent.v0 == old, ent.v1 == old
	if moved0 {
		ent.v0 = nv
	}
	if moved1 {
		ent.v1 = nv
	}
	if !moved0 && !moved1 {
		return e
	}

	if _, ok := ent.curve.(geom.Line); ok && ent.v0 != ent.v1 {
		ent.curve = geom.LineThrough(ent.v0.P, ent.v1.P)
		ent.t0, ent.t1 = 0, ent.v0.P.Distance(ent.v1.P)
		return Edge{e: &ent, rev: e.rev}
	}

	period, periodic := ent.curve.Period()
	near := func(p brep.Point3, ref float64) float64 {
		t := ent.curve.Parameter(p)
		if periodic {
			t += period * math.Round((ref-t)/period)
		}
		return t
	}
	if moved0 {
		ent.t0 = near(nv.P, ent.t0)
	}
	if moved1 && !moved0 {
		ent.t1 = near(nv.P, ent.t1)
	} else if moved1 {
		ent.t1 = ent.t0 + (e.e.t1 - e.e.t0)
	}
	return Edge{e: &ent, rev: e.rev}
}

// Reshape returns a copy of w in which every edge incident to old is
// rebuilt on nv. Edges not touching old are shared with w.
func Reshape(w Wire, old, nv *Vertex) Wire {
	edges := make([]Edge, len(w.w.edges))
	for i, e := range w.w.edges {
		edges[i] = replaceVertex(e, old, nv)
	}
	return Wire{w: &wireEntity{edges: edges}, rev: w.rev}
}

// SetTolerance sets the tolerance of every vertex of s.
func SetTolerance(s Shape, tol float64) {
	for _, v := range Vertices(s) {
		v.Tol = tol
	}
}

// -------------------------------------------------------------------
// WireBuilder
// -------------------------------------------------------------------

// WireError reports the outcome of the last WireBuilder.Add.
type WireError int

const (
	WireDone WireError = iota
	WireEmpty
	WireDisconnected
	WireNonManifold
)

// String returns a description of the status.
func (e WireError) String() string {
	switch e {
	case WireDone:
		return "done"
	case WireEmpty:
		return "empty"
	case WireDisconnected:
		return "disconnected"
	case WireNonManifold:
		return "non-manifold"
	default:
		return "unknown"
	}
}

// WireBuilder accumulates edges into a single wire, connecting each new
// edge to the end of the chain. Vertices closer than their combined
// tolerance are merged so that consecutive edges share them.
//
// Edges that cannot be connected are still appended; the condition is
// reported through Error so that no segment is ever dropped.
type WireBuilder struct {
	edges []Edge
	err   WireError
}

// Add appends the edges of w in traversal order.
func (b *WireBuilder) Add(w Wire) {
	status := WireDone
	for _, e := range w.Edges() {
		b.AddEdge(e)
		if b.err != WireDone {
			status = b.err
		}
	}
	b.err = status
}

// AddEdge appends a single edge.
func (b *WireBuilder) AddEdge(e Edge) {
	b.err = WireDone
	if len(b.edges) == 0 {
		b.edges = append(b.edges, e)
		return
	}

	last := b.edges[len(b.edges)-1].LastVertex()
	first := b.edges[0].FirstVertex()

	start := e.FirstVertex()
	switch {
	case start == last:
	case start.Coincident(last):
		e = replaceVertex(e, start, last)
	default:
		b.err = WireDisconnected
	}

	end := e.LastVertex()
	switch {
	case end == first || end == e.FirstVertex():
	case end.Coincident(first):
		e = replaceVertex(e, end, first)
	default:
		if v := b.findVertex(end); v != nil {
			e = replaceVertex(e, end, v)
			b.err = WireNonManifold
		}
	}
	b.edges = append(b.edges, e)
}

// findVertex returns an interior chain vertex coincident with v.
func (b *WireBuilder) findVertex(v *Vertex) *Vertex {
	for _, e := range b.edges[1:] {
		if u := e.FirstVertex(); u.Coincident(v) {
			return u
		}
	}
	return nil
}

// Error returns the status of the last Add or AddEdge call.
func (b *WireBuilder) Error() WireError {
	if len(b.edges) == 0 {
		return WireEmpty
	}
	return b.err
}

// Wire returns the accumulated wire.
func (b *WireBuilder) Wire() Wire {
	if len(b.edges) == 0 {
		return Wire{}
	}
	return NewWire(slices.Clone(b.edges)...)
}

// -------------------------------------------------------------------
// Faces
// -------------------------------------------------------------------

// MakeFace bounds s by wires, outer boundary first. Every wire must be
// closed.
func MakeFace(s geom.Surface, wires ...Wire) (Face, error) {
	if len(wires) == 0 {
		return Face{}, ErrNoWires
	}
	for _, w := range wires {
		if !w.Closed() {
			return Face{}, ErrOpenWire
		}
	}
	return Face{f: &faceEntity{surface: s, wires: slices.Clone(wires)}}, nil
}
