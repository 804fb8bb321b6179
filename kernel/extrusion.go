package kernel

import (
	"fmt"
	"math"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/taxonomy"
	"github.com/gogpu/brep/topo"
)

// ConvertExtrusion sweeps the extrusion's basis face along its direction
// by its depth and then moves the result by its matrix. A basis that
// converts to several faces gives a *topo.CompSolid with one prism per
// face; otherwise the result is a *topo.Solid.
func (k *Kernel) ConvertExtrusion(e *taxonomy.Extrusion, opts ...ConvertOption) (s topo.Shape, err error) {
	c := k.begin(e, opts)
	defer c.recover(&err)
	return c.extrusion(e)
}

func (c *conversion) extrusion(e *taxonomy.Extrusion) (topo.Shape, error) {
	c = c.at(e)

	height := e.Depth
	if height < c.p {
		c.log.Error("non-positive extrusion height", "depth", height)
		return nil, fail(e, ErrNonPositiveHeight)
	}
	if e.Basis == nil {
		c.log.Error("extrusion without basis")
		return nil, fail(e, ErrNoBoundaries)
	}

	pc := *c
	pc.profile = true
	profile, err := pc.face(e.Basis)
	if err != nil {
		return nil, err
	}

	trsf := ConvertMatrix(e.Matrix)
	if math.Abs(trsf.Determinant()) < brep.AlmostZero {
		c.log.Error("unable to move extrusion", "determinant", trsf.Determinant())
		trsf = brep.Identity4()
	}

	dir := e.Direction.Normalize()
	if dir.IsZero() {
		c.log.Error("degenerate extrusion direction")
		return nil, fail(e, ErrDegenerate)
	}
	v := dir.Mul(height)

	var shape topo.Shape
	if comp, ok := profile.(*topo.Compound); ok {
		// Composite profiles give one prism per face.
		cs := topo.NewCompSolid()
		extruded := 0
		for _, f := range topo.Faces(comp) {
			s, err := topo.MakePrism(f, v)
			if err != nil {
				c.log.Error("failed to extrude profile face", "err", err)
				continue
			}
			cs.Add(s)
			extruded++
		}
		if extruded > 0 {
			shape = cs
		}
	} else if f, ok := profile.(topo.Face); ok {
		s, err := topo.MakePrism(f, v)
		if err != nil {
			c.log.Error("failed to extrude profile", "err", err)
		} else {
			shape = s
		}
	}

	if shape == nil {
		return nil, fmt.Errorf("%w: nothing extruded", fail(e, ErrDegenerate))
	}

	// The placement is rigid, so it does not scale the sweep.
	return topo.Transform(shape, trsf), nil
}

// ConvertMatrix returns the affine transformation of a placement; nil
// means the identity. The 3×4 block is copied row by row.
func ConvertMatrix(m *taxonomy.Matrix4) brep.Matrix4 {
	out := brep.Identity4()
	if m == nil {
		return out
	}
	for i := range 3 {
		for j := range 4 {
			out.M[i][j] = m.M.M[i][j]
		}
	}
	return out
}
