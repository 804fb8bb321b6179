package topo

import (
	"github.com/gogpu/brep"
	"github.com/gogpu/brep/geom"
)

// transformer maps entities through an affine transformation, keeping
// shared sub-shapes shared in the result.
type transformer struct {
	m        brep.Matrix4
	vertices map[*Vertex]*Vertex
	edges    map[*edgeEntity]*edgeEntity
	wires    map[*wireEntity]*wireEntity
	faces    map[*faceEntity]*faceEntity
}

func newTransformer(m brep.Matrix4) *transformer {
	return &transformer{
		m:        m,
		vertices: map[*Vertex]*Vertex{},
		edges:    map[*edgeEntity]*edgeEntity{},
		wires:    map[*wireEntity]*wireEntity{},
		faces:    map[*faceEntity]*faceEntity{},
	}
}

// Transform returns a copy of s mapped by m. Sub-shapes shared within s
// are shared within the result. Identity matrices return s itself.
func Transform(s Shape, m brep.Matrix4) Shape {
	if m.IsIdentity() {
		return s
	}
	return newTransformer(m).shape(s)
}

func (t *transformer) shape(s Shape) Shape {
	switch sh := s.(type) {
	case Edge:
		return t.edge(sh)
	case Wire:
		return t.wire(sh)
	case Face:
		return t.face(sh)
	case *Shell:
		return t.shell(sh)
	case *Solid:
		return t.solid(sh)
	case *CompSolid:
		out := &CompSolid{}
		for _, s := range sh.solids {
			out.solids = append(out.solids, t.solid(s))
		}
		return out
	case *Compound:
		out := &Compound{}
		for _, c := range sh.children {
			out.children = append(out.children, t.shape(c))
		}
		return out
	}
	panic("topo: unknown shape type")
}

func (t *transformer) vertex(v *Vertex) *Vertex {
	if nv, ok := t.vertices[v]; ok {
		return nv
	}
	nv := &Vertex{P: t.m.TransformPoint(v.P), Tol: v.Tol}
	t.vertices[v] = nv
	return nv
}

func (t *transformer) edge(e Edge) Edge {
	if ne, ok := t.edges[e.e]; ok {
		return Edge{e: ne, rev: e.rev}
	}
	ne := &edgeEntity{
		curve: e.e.curve.Transformed(t.m),
		v0:    t.vertex(e.e.v0),
		v1:    t.vertex(e.e.v1),
		t0:    e.e.t0,
		t1:    e.e.t1,
	}
	// Lines are parameterized by arc length, which scaling changes.
	if l, ok := ne.curve.(geom.Line); ok {
		ne.t0, ne.t1 = l.Parameter(ne.v0.P), l.Parameter(ne.v1.P)
	}
	t.edges[e.e] = ne
	return Edge{e: ne, rev: e.rev}
}

func (t *transformer) wire(w Wire) Wire {
	if nw, ok := t.wires[w.w]; ok {
		return Wire{w: nw, rev: w.rev}
	}
	nw := &wireEntity{edges: make([]Edge, len(w.w.edges))}
	for i, e := range w.w.edges {
		nw.edges[i] = t.edge(e)
	}
	t.wires[w.w] = nw
	return Wire{w: nw, rev: w.rev}
}

func (t *transformer) face(f Face) Face {
	if nf, ok := t.faces[f.f]; ok {
		return Face{f: nf, rev: f.rev}
	}
	nf := &faceEntity{
		surface: f.f.surface.Transformed(t.m),
		wires:   make([]Wire, len(f.f.wires)),
	}
	for i, w := range f.f.wires {
		nf.wires[i] = t.wire(w)
	}
	t.faces[f.f] = nf
	return Face{f: nf, rev: f.rev}
}

func (t *transformer) shell(s *Shell) *Shell {
	out := &Shell{faces: make([]Face, len(s.faces))}
	for i, f := range s.faces {
		out.faces[i] = t.face(f)
	}
	return out
}

func (t *transformer) solid(s *Solid) *Solid {
	out := &Solid{}
	for _, sh := range s.shells {
		out.shells = append(out.shells, t.shell(sh))
	}
	return out
}
