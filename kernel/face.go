package kernel

import (
	"fmt"
	"math"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/geom"
	"github.com/gogpu/brep/taxonomy"
	"github.com/gogpu/brep/topo"
)

// faceDefinition collects the surface and wires of one face conversion.
// The outer wire comes first.
type faceDefinition struct {
	surface  geom.Surface
	wires    []topo.Wire
	allOuter bool
}

// ConvertFace resolves the loops of f against a supporting surface and
// returns a topo.Face, or a *topo.Compound when f has several outer loops
// or had to be triangulated.
//
// The surface is, in order of preference: the face basis, a plane through
// a triangular or polygonal outer loop, or a plane fitted through the
// sampled outer loop. Without any surface the loops are triangulated.
func (k *Kernel) ConvertFace(f *taxonomy.Face, opts ...ConvertOption) (s topo.Shape, err error) {
	c := k.begin(f, opts)
	defer c.recover(&err)
	return c.face(f)
}

func (c *conversion) face(f *taxonomy.Face) (topo.Shape, error) {
	c = c.at(f)

	numBounds := len(f.Loops)
	numOuter := 0
	for _, l := range f.Loops {
		if l.IsExternal() {
			numOuter++
		}
	}

	// One outer bound is expected, several are accepted as long as there
	// are no holes; each then becomes its own face.
	if numBounds > 1 && numOuter > 1 && numBounds != numOuter {
		c.log.Error("invalid configuration of boundaries", "bounds", numBounds, "outer", numOuter)
		return nil, fail(f, ErrInvalidBounds)
	}

	var fd faceDefinition
	if numOuter > 1 {
		c.log.Warn("multiple outer boundaries", "outer", numOuter)
		fd.allOuter = true
	}

	// senses records, per wire, whether it runs along the face.
	senses := map[topo.Wire]bool{}

	// The exterior boundary is processed first.
	for _, interior := range []bool{false, true} {
		for _, l := range f.Loops {
			isInterior := !l.IsExternal() && numBounds > 1 && numOuter < numBounds
			if isInterior != interior {
				continue
			}

			var w topo.Wire
			if c.helper != nil && l.IsPolyhedral() {
				hw, ok := c.helper.Wire(l)
				if !ok {
					c.at(l).log.Warn("face boundary loop not included")
					continue
				}
				w = hw
			} else {
				lw, err := c.loop(l)
				if err != nil {
					c.at(l).log.Error("failed to process face boundary loop", "err", err)
					return nil, err
				}
				w = lw
			}

			same := l.SameSense()
			if !same {
				w = w.Reversed()
			}
			senses[w.Forward()] = same
			fd.wires = append(fd.wires, w)
		}
	}

	if len(fd.wires) == 0 {
		c.log.Warn("face with no boundaries")
		return nil, fail(f, ErrNoBoundaries)
	}

	if f.Basis != nil {
		fd.surface = c.surface(f.Basis)
	}
	if fd.surface == nil {
		fd.surface = c.inferPlane(fd.wires[0])
	}
	if fd.surface == nil {
		w := fd.wires[0]
		if pl, dev, ok := topo.FindSurface(w, c.p); ok {
			c.log.Debug("fitted surface through outer boundary", "deviation", dev)
			fd.surface = pl
			topo.SetTolerance(w, math.Max(dev, c.p))
		}
	}

	faces, err := c.buildFaces(&fd)
	if err != nil {
		return nil, fail(f, err)
	}

	if fd.surface != nil {
		c.fixFaces(faces, fd.surface, senses)
	}

	if len(faces) > 1 {
		shapes := make([]topo.Shape, len(faces))
		for i, face := range faces {
			shapes[i] = face
		}
		return topo.NewCompound(shapes...), nil
	}
	return faces[0], nil
}

// buildFaces bounds the resolved surface by the wires, or triangulates
// them when there is no surface.
func (c *conversion) buildFaces(fd *faceDefinition) ([]topo.Face, error) {
	var faces []topo.Face
	switch {
	case fd.surface == nil:
		c.log.Warn("triangulating face boundaries")
		groups := [][]topo.Wire{fd.wires}
		if fd.allOuter {
			groups = groups[:0]
			for _, w := range fd.wires {
				groups = append(groups, []topo.Wire{w})
			}
		}
		for _, g := range groups {
			tris, err := c.triangulate(g)
			if err != nil {
				c.log.Error("failed to triangulate face boundaries", "err", err)
				continue
			}
			faces = append(faces, tris...)
		}
	case !fd.allOuter:
		f, err := topo.MakeFace(fd.surface, fd.wires...)
		if err != nil {
			c.log.Error("failed to build face", "err", err)
			break
		}
		faces = append(faces, f)
	default:
		for _, w := range fd.wires {
			f, err := topo.MakeFace(fd.surface, w)
			if err != nil {
				c.log.Error("failed to build face", "err", err)
				continue
			}
			faces = append(faces, f)
		}
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: no face built", ErrDegenerate)
	}
	return faces, nil
}

// fixFaces adds p-curves on non-planar surfaces, normalizes wire
// orientations and reverses faces whose wires all ended up opposite to
// their recorded sense.
func (c *conversion) fixFaces(faces []topo.Face, s geom.Surface, senses map[topo.Wire]bool) {
	if !geom.IsPlane(s) {
		for _, f := range faces {
			for _, e := range topo.Edges(f) {
				topo.FixAddPCurve(e, f, c.deflection)
			}
		}
	}

	for i, f := range faces {
		fixed, flipped := topo.FixOrientation(f)
		if len(flipped) > 0 {
			c.log.Debug("fixed wire orientation", "wires", len(flipped))
		}

		allReversed := true
		for _, w := range fixed.Wires() {
			sense, ok := senses[w.Forward()]
			forward := !w.IsReversed()
			if !ok || forward == sense {
				allReversed = false
			}
		}
		if allReversed {
			fixed = fixed.Reversed()
		}
		faces[i] = fixed
	}
}

// surface converts a face basis.
func (c *conversion) surface(s taxonomy.Surface) geom.Surface {
	switch s := s.(type) {
	case *taxonomy.PlaneSurface:
		return geom.NewPlaneFrame(s.Origin, s.Normal, s.XDir)
	case *taxonomy.CylinderSurface:
		return geom.NewCylinder(s.Origin, s.Axis, s.XDir, s.Radius)
	}
	c.log.Error("unsupported face surface", "kind", s.Kind())
	return nil
}

// inferPlane finds the plane of a polygonal wire. Triangles use the cross
// product of their first two edge directions; larger polygons use the
// Newell plane through their vertices.
func (c *conversion) inferPlane(w topo.Wire) geom.Surface {
	edges := w.Edges()
	for _, e := range edges {
		if !geom.IsLine(e.Curve()) {
			return nil
		}
	}

	if len(edges) == 3 {
		l1 := edges[0].Curve().(geom.Line)
		l2 := edges[1].Curve().(geom.Line)
		n := l1.Direction.Cross(l2.Direction)
		if n.LengthSq() > brep.AlmostZero {
			c.log.Debug("plane from triangle edges")
			return geom.NewPlane(l1.Origin, n)
		}
		return nil
	}

	if pl, ok := c.approximatePlane(w, 0); ok {
		c.log.Debug("plane from polygon vertices")
		return pl
	}
	return nil
}
