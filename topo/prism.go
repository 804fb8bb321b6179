package topo

import (
	"math"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/geom"
)

// MakePrism sweeps f along v into a solid. The swept shell consists of the
// base face, its translated copy and one lateral face per boundary edge;
// all faces point outwards. Vertical edges are shared by neighboring
// lateral faces so the shell is closed whenever the face wires are.
func MakePrism(f Face, v brep.Vec3) (*Solid, error) {
	if v.IsDegenerate() {
		return nil, ErrDegenerateSweep
	}
	dir := v.Normalize()
	tr := newTransformer(brep.Translation(v))
	top := tr.face(f)

	outer := f.OuterWire()
	ref := outer.FirstVertex().P
	up := f.Normal(ref).Dot(v) > 0

	var faces []Face
	if up {
		faces = append(faces, f.Reversed(), top)
	} else {
		faces = append(faces, f, top.Reversed())
	}

	// Lateral faces point along tangent × v when the outer wire winds
	// counter-clockwise about a surface normal facing along v.
	sign := 1.0
	if f.f.surface.Normal(f.f.surface.Parameters(ref)).Dot(v) < 0 {
		sign = -sign
	}
	if uv, _ := wireUV(f.f, outer, defaultDeflection(f)); signedArea(uv) < 0 {
		sign = -sign
	}

	verticals := map[*Vertex]Edge{}
	vertical := func(b *Vertex) Edge {
		if e, ok := verticals[b]; ok {
			return e
		}
		e := MakeEdge(geom.NewLine(b.P, dir), b, tr.vertex(b), 0, v.Length())
		verticals[b] = e
		return e
	}

	for _, w := range f.f.wires {
		for _, e := range w.Edges() {
			a, b := e.FirstVertex(), e.LastVertex()
			wire := NewWire(e, vertical(b), tr.edge(e).Reversed(), vertical(a).Reversed())
			lateral := Face{f: &faceEntity{surface: lateralSurface(e.e.curve, dir), wires: []Wire{wire}}}

			tm := (e.e.t0 + e.e.t1) / 2
			want := e.Tangent(tm).Cross(v).Mul(sign)
			if want.Dot(lateral.Normal(e.e.curve.Point(tm))) < 0 {
				lateral = lateral.Reversed()
			}
			faces = append(faces, lateral)
		}
	}
	return NewSolid(NewShell(faces...)), nil
}

// lateralSurface returns the surface swept by c along the unit vector dir.
func lateralSurface(c geom.Curve, dir brep.Vec3) geom.Surface {
	switch cv := c.(type) {
	case geom.Line:
		n := cv.Direction.Cross(dir)
		if !n.IsDegenerate() {
			return geom.NewPlaneFrame(cv.Origin, n, cv.Direction)
		}
	case geom.Circle:
		if math.Abs(cv.Axis.Dot(dir)) > 1-1e-12 {
			return geom.NewCylinder(cv.Center, dir, cv.XDir, cv.Radius)
		}
	}
	return geom.Extrusion{Basis: c, Direction: dir}
}
