package kernel

import (
	"fmt"

	"github.com/gogpu/brep/geom"
	"github.com/gogpu/brep/taxonomy"
	"github.com/gogpu/brep/topo"
)

// ConvertCurve maps a taxonomy curve onto its geometric counterpart.
func (k *Kernel) ConvertCurve(c taxonomy.Curve) (gc geom.Curve, err error) {
	cv := k.begin(c, nil)
	defer cv.recover(&err)
	return convertCurve(c)
}

func convertCurve(c taxonomy.Curve) (geom.Curve, error) {
	switch c := c.(type) {
	case *taxonomy.Line:
		if c.Direction.IsZero() {
			return nil, fail(c, ErrDegenerate)
		}
		return geom.NewLine(c.Origin, c.Direction), nil
	case *taxonomy.Circle:
		return geom.NewCircle(c.Center, c.Z, c.X, c.Radius), nil
	case *taxonomy.Ellipse:
		return geom.NewEllipse(c.Center, c.Z, c.X, c.Radius, c.Radius2), nil
	case *taxonomy.BSplineCurve:
		b, err := geom.NewBSpline(c.Degree, c.Control, c.Knots, c.Mults, c.Weights)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", fail(c, ErrDegenerate), err)
		}
		return b, nil
	}
	panic(fmt.Sprintf("no conversion for curve %T", c))
}

// ConvertEdge converts an edge into a wire holding that single edge,
// traversed against the curve when the edge orientation is false.
func (k *Kernel) ConvertEdge(e *taxonomy.Edge) (w topo.Wire, err error) {
	c := k.begin(e, nil)
	defer c.recover(&err)
	return c.edge(e)
}

func (c *conversion) edge(e *taxonomy.Edge) (topo.Wire, error) {
	var edge topo.Edge
	if e.Basis == nil {
		if e.Start.Distance(e.End) < c.p {
			return topo.Wire{}, fail(e, ErrDegenerate)
		}
		edge = topo.MakeSegment(e.Start, e.End, c.p)
	} else {
		crv, err := convertCurve(e.Basis)
		if err != nil {
			return topo.Wire{}, err
		}
		edge = topo.MakeCurveEdge(crv, e.Start, e.End, c.p)
	}

	w := topo.NewWire(edge)
	if !e.Orientation {
		w = w.Reversed()
	}
	topo.SetTolerance(w, c.p)
	return w, nil
}
