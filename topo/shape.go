package topo

import (
	"github.com/gogpu/brep"
	"github.com/gogpu/brep/geom"
)

// Kind identifies the topological type of a shape.
type Kind int

const (
	KindEdge Kind = iota
	KindWire
	KindFace
	KindShell
	KindSolid
	KindCompSolid
	KindCompound
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEdge:
		return "edge"
	case KindWire:
		return "wire"
	case KindFace:
		return "face"
	case KindShell:
		return "shell"
	case KindSolid:
		return "solid"
	case KindCompSolid:
		return "compsolid"
	case KindCompound:
		return "compound"
	default:
		return "unknown"
	}
}

// Shape is any topological entity. The set of implementations is closed:
// Edge, Wire, Face, *Shell, *Solid, *CompSolid and *Compound.
type Shape interface {
	Kind() Kind
	isShape()
}

// -------------------------------------------------------------------
// Vertex
// -------------------------------------------------------------------

// Vertex is a point with a tolerance. Vertices are shared by pointer:
// two edges are connected when they reference the same *Vertex.
type Vertex struct {
	P   brep.Point3
	Tol float64
}

// NewVertex creates a vertex.
func NewVertex(p brep.Point3, tol float64) *Vertex {
	return &Vertex{P: p, Tol: tol}
}

// Coincident reports whether the two vertices are the same or lie within
// their combined tolerance.
func (v *Vertex) Coincident(o *Vertex) bool {
	if v == o {
		return true
	}
	tol := v.Tol + o.Tol
	return v.P.SquareDistance(o.P) <= tol*tol
}

// -------------------------------------------------------------------
// Edge
// -------------------------------------------------------------------

type edgeEntity struct {
	curve  geom.Curve
	v0, v1 *Vertex
	t0, t1 float64

	pcurves map[*faceEntity]geom.Polyline2D
}

// Edge is an oriented handle to a bounded curve. Copies of a handle share
// the underlying edge; Reversed returns a handle with the opposite
// orientation on the same edge.
type Edge struct {
	e   *edgeEntity
	rev bool
}

func (Edge) isShape() {}

// Kind returns KindEdge.
func (Edge) Kind() Kind { return KindEdge }

// IsNull reports whether the handle is empty.
func (e Edge) IsNull() bool { return e.e == nil }

// Curve returns the underlying 3D curve.
func (e Edge) Curve() geom.Curve { return e.e.curve }

// Range returns the parameter interval of the curve, independent of the
// handle orientation.
func (e Edge) Range() (float64, float64) { return e.e.t0, e.e.t1 }

// IsReversed reports whether the handle traverses the edge backwards.
func (e Edge) IsReversed() bool { return e.rev }

// Reversed returns the same edge traversed the other way.
func (e Edge) Reversed() Edge { return Edge{e: e.e, rev: !e.rev} }

// Forward returns the handle with forward orientation.
func (e Edge) Forward() Edge { return Edge{e: e.e} }

// IsSame reports whether both handles refer to the same edge, regardless
// of orientation.
func (e Edge) IsSame(o Edge) bool { return e.e == o.e }

// FirstVertex returns the start vertex in traversal order.
func (e Edge) FirstVertex() *Vertex {
	if e.rev {
		return e.e.v1
	}
	return e.e.v0
}

// LastVertex returns the end vertex in traversal order.
func (e Edge) LastVertex() *Vertex {
	if e.rev {
		return e.e.v0
	}
	return e.e.v1
}

// Start returns the point where traversal begins.
func (e Edge) Start() brep.Point3 { return e.FirstVertex().P }

// End returns the point where traversal ends.
func (e Edge) End() brep.Point3 { return e.LastVertex().P }

// Midpoint evaluates the curve at the middle of its parameter range.
func (e Edge) Midpoint() brep.Point3 {
	return e.e.curve.Point((e.e.t0 + e.e.t1) / 2)
}

// Tangent returns the curve derivative at parameter t, negated for
// reversed handles.
func (e Edge) Tangent(t float64) brep.Vec3 {
	d := e.e.curve.Derivative(t)
	if e.rev {
		return d.Neg()
	}
	return d
}

// Params returns sample parameters in traversal order with chord
// deviation below deflection.
func (e Edge) Params(deflection float64) []float64 {
	if e.rev {
		return geom.DiscretizeParams(e.e.curve, e.e.t1, e.e.t0, deflection)
	}
	return geom.DiscretizeParams(e.e.curve, e.e.t0, e.e.t1, deflection)
}

// Samples returns points along the edge in traversal order. The first and
// last samples are the vertex positions.
func (e Edge) Samples(deflection float64) []brep.Point3 {
	params := e.Params(deflection)
	pts := make([]brep.Point3, len(params))
	for i, t := range params {
		pts[i] = e.e.curve.Point(t)
	}
	pts[0] = e.Start()
	pts[len(pts)-1] = e.End()
	return pts
}

// PCurve returns the parameter-space curve of the edge on face f, if one
// has been computed.
func (e Edge) PCurve(f Face) (geom.Polyline2D, bool) {
	pc, ok := e.e.pcurves[f.f]
	return pc, ok
}

// -------------------------------------------------------------------
// Wire
// -------------------------------------------------------------------

type wireEntity struct {
	edges []Edge
}

// Wire is an oriented handle to a chain of edges.
type Wire struct {
	w   *wireEntity
	rev bool
}

func (Wire) isShape() {}

// Kind returns KindWire.
func (Wire) Kind() Kind { return KindWire }

// NewWire creates a wire from edges that are already connected.
func NewWire(edges ...Edge) Wire {
	return Wire{w: &wireEntity{edges: edges}}
}

// IsNull reports whether the handle is empty.
func (w Wire) IsNull() bool { return w.w == nil }

// IsReversed reports whether the handle traverses the wire backwards.
func (w Wire) IsReversed() bool { return w.rev }

// Reversed returns the same wire traversed the other way.
func (w Wire) Reversed() Wire { return Wire{w: w.w, rev: !w.rev} }

// Forward returns the handle with forward orientation.
func (w Wire) Forward() Wire { return Wire{w: w.w} }

// IsSame reports whether both handles refer to the same wire.
func (w Wire) IsSame(o Wire) bool { return w.w == o.w }

// NumEdges returns the number of edges.
func (w Wire) NumEdges() int {
	if w.w == nil {
		return 0
	}
	return len(w.w.edges)
}

// Edges returns the edges in traversal order, each oriented along the
// traversal.
func (w Wire) Edges() []Edge {
	if w.w == nil {
		return nil
	}
	n := len(w.w.edges)
	out := make([]Edge, n)
	for i, e := range w.w.edges {
		if w.rev {
			out[n-1-i] = e.Reversed()
		} else {
			out[i] = e
		}
	}
	return out
}

// FirstVertex returns the vertex where traversal begins.
func (w Wire) FirstVertex() *Vertex {
	edges := w.Edges()
	if len(edges) == 0 {
		return nil
	}
	return edges[0].FirstVertex()
}

// LastVertex returns the vertex where traversal ends.
func (w Wire) LastVertex() *Vertex {
	edges := w.Edges()
	if len(edges) == 0 {
		return nil
	}
	return edges[len(edges)-1].LastVertex()
}

// Closed reports whether the wire ends on its first vertex.
func (w Wire) Closed() bool {
	return w.NumEdges() > 0 && w.FirstVertex() == w.LastVertex()
}

// Vertices returns the start vertex of every edge in traversal order,
// followed by the last vertex when the wire is open.
func (w Wire) Vertices() []*Vertex {
	edges := w.Edges()
	vs := make([]*Vertex, 0, len(edges)+1)
	for _, e := range edges {
		vs = append(vs, e.FirstVertex())
	}
	if len(edges) > 0 && !w.Closed() {
		vs = append(vs, edges[len(edges)-1].LastVertex())
	}
	return vs
}

// Points returns the positions of Vertices.
func (w Wire) Points() []brep.Point3 {
	vs := w.Vertices()
	pts := make([]brep.Point3, len(vs))
	for i, v := range vs {
		pts[i] = v.P
	}
	return pts
}

// Samples returns a closed polygon approximating the wire, without
// repeating the first point.
func (w Wire) Samples(deflection float64) []brep.Point3 {
	var pts []brep.Point3
	for _, e := range w.Edges() {
		s := e.Samples(deflection)
		pts = append(pts, s[:len(s)-1]...)
	}
	return pts
}

// -------------------------------------------------------------------
// Face
// -------------------------------------------------------------------

type faceEntity struct {
	surface geom.Surface
	wires   []Wire
}

// Face is an oriented handle to a bounded surface. The first wire is the
// outer boundary, the remaining wires are holes.
type Face struct {
	f   *faceEntity
	rev bool
}

func (Face) isShape() {}

// Kind returns KindFace.
func (Face) Kind() Kind { return KindFace }

// IsNull reports whether the handle is empty.
func (f Face) IsNull() bool { return f.f == nil }

// Surface returns the supporting surface.
func (f Face) Surface() geom.Surface { return f.f.surface }

// Wires returns the boundary wires, outer first.
func (f Face) Wires() []Wire { return f.f.wires }

// OuterWire returns the outer boundary.
func (f Face) OuterWire() Wire { return f.f.wires[0] }

// IsReversed reports whether the face normal is opposite to the surface
// normal.
func (f Face) IsReversed() bool { return f.rev }

// Reversed returns the same face with the opposite orientation.
func (f Face) Reversed() Face { return Face{f: f.f, rev: !f.rev} }

// IsSame reports whether both handles refer to the same face.
func (f Face) IsSame(o Face) bool { return f.f == o.f }

// Normal returns the oriented face normal at the surface point closest
// to p.
func (f Face) Normal(p brep.Point3) brep.Vec3 {
	n := f.f.surface.Normal(f.f.surface.Parameters(p))
	if f.rev {
		return n.Neg()
	}
	return n
}

// -------------------------------------------------------------------
// Containers
// -------------------------------------------------------------------

// Shell is a set of faces connected by shared edges.
type Shell struct {
	faces []Face
}

func (*Shell) isShape() {}

// Kind returns KindShell.
func (*Shell) Kind() Kind { return KindShell }

// NewShell creates a shell from faces.
func NewShell(faces ...Face) *Shell { return &Shell{faces: faces} }

// Faces returns the faces of the shell.
func (s *Shell) Faces() []Face { return s.faces }

// Closed reports whether every edge of the shell is shared by exactly two
// faces.
func (s *Shell) Closed() bool {
	uses := EdgeUses(s)
	if len(uses) == 0 {
		return false
	}
	for _, n := range uses {
		if n != 2 {
			return false
		}
	}
	return true
}

// Solid is a volume bounded by one or more shells, the first being the
// outer one.
type Solid struct {
	shells []*Shell
}

func (*Solid) isShape() {}

// Kind returns KindSolid.
func (*Solid) Kind() Kind { return KindSolid }

// NewSolid creates a solid from its shells.
func NewSolid(shells ...*Shell) *Solid { return &Solid{shells: shells} }

// Shells returns the bounding shells.
func (s *Solid) Shells() []*Shell { return s.shells }

// CompSolid is a set of solids sharing faces.
type CompSolid struct {
	solids []*Solid
}

func (*CompSolid) isShape() {}

// Kind returns KindCompSolid.
func (*CompSolid) Kind() Kind { return KindCompSolid }

// NewCompSolid creates a compound solid.
func NewCompSolid(solids ...*Solid) *CompSolid { return &CompSolid{solids: solids} }

// Add appends a solid.
func (c *CompSolid) Add(s *Solid) { c.solids = append(c.solids, s) }

// Solids returns the member solids.
func (c *CompSolid) Solids() []*Solid { return c.solids }

// Compound is an arbitrary collection of shapes.
type Compound struct {
	children []Shape
}

func (*Compound) isShape() {}

// Kind returns KindCompound.
func (*Compound) Kind() Kind { return KindCompound }

// NewCompound creates a compound.
func NewCompound(children ...Shape) *Compound { return &Compound{children: children} }

// Add appends a shape.
func (c *Compound) Add(s Shape) { c.children = append(c.children, s) }

// Children returns the member shapes.
func (c *Compound) Children() []Shape { return c.children }
