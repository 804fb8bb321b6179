package topo

import (
	"fmt"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/geom"
	"github.com/gogpu/brep/internal/mesh"
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Points    []brep.Point3
	Triangles [][3]int
}

// MeshFace triangulates f. Curved edges are sampled with the given chord
// deflection; deflection <= 0 picks one from the face size. Triangles are
// wound counter-clockwise about the oriented face normal.
func MeshFace(f Face, deflection float64) (Mesh, error) {
	if deflection <= 0 {
		deflection = defaultDeflection(f)
	}
	var out Mesh
	rings := make([][]geom.UV, 0, len(f.f.wires))
	for _, w := range f.f.wires {
		uv, _ := wireUV(f.f, w, deflection)
		rings = append(rings, uv)
		for _, p := range uv {
			out.Points = append(out.Points, f.f.surface.Value(p))
		}
	}

	tris, err := mesh.NewTriangulator().Triangulate(rings)
	if err != nil {
		return Mesh{}, fmt.Errorf("topo: mesh face: %w", err)
	}
	out.Triangles = make([][3]int, len(tris))
	for i, t := range tris {
		if f.rev {
			out.Triangles[i] = [3]int{t[0], t[2], t[1]}
		} else {
			out.Triangles[i] = [3]int(t)
		}
	}
	return out, nil
}

// MeshShape triangulates every face of s into a single mesh.
func MeshShape(s Shape, deflection float64) (Mesh, error) {
	var out Mesh
	for _, f := range Faces(s) {
		m, err := MeshFace(f, deflection)
		if err != nil {
			return Mesh{}, err
		}
		base := len(out.Points)
		out.Points = append(out.Points, m.Points...)
		for _, t := range m.Triangles {
			out.Triangles = append(out.Triangles, [3]int{t[0] + base, t[1] + base, t[2] + base})
		}
	}
	return out, nil
}

// Volume returns the signed volume enclosed by the faces of s. It is
// positive for closed shapes whose faces point outwards.
func Volume(s Shape, deflection float64) (float64, error) {
	m, err := MeshShape(s, deflection)
	if err != nil {
		return 0, err
	}
	var v float64
	for _, t := range m.Triangles {
		a, b, c := m.Points[t[0]].Vec(), m.Points[t[1]].Vec(), m.Points[t[2]].Vec()
		v += a.Dot(b.Cross(c))
	}
	return v / 6, nil
}
