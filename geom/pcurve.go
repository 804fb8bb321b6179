package geom

import (
	"math"
	"sort"
)

// Polyline2D is a curve in a surface's parameter space, stored as a
// polyline sampled at increasing edge parameters. It serves as the
// p-curve of an edge on a non-planar face.
type Polyline2D struct {
	Params []float64
	Points []UV
}

// Value interpolates the polyline at edge parameter t. Parameters outside
// the sampled range clamp to the end points.
func (p Polyline2D) Value(t float64) UV {
	n := len(p.Params)
	switch {
	case n == 0:
		return UV{}
	case t <= p.Params[0]:
		return p.Points[0]
	case t >= p.Params[n-1]:
		return p.Points[n-1]
	}
	i := sort.SearchFloat64s(p.Params, t)
	t0, t1 := p.Params[i-1], p.Params[i]
	a, b := p.Points[i-1], p.Points[i]
	s := (t - t0) / (t1 - t0)
	return UV{U: a.U + (b.U-a.U)*s, V: a.V + (b.V-a.V)*s}
}

// SamplePCurve builds the p-curve of c between t0 and t1 on s. Periodic
// u coordinates are unwrapped so the polyline does not jump by a period.
func SamplePCurve(c Curve, s Surface, t0, t1, deflection float64) Polyline2D {
	params := DiscretizeParams(c, t0, t1, deflection)
	pts := make([]UV, len(params))
	for i, t := range params {
		pts[i] = s.Parameters(c.Point(t))
		if i > 0 {
			pts[i].U = UnwrapU(s, pts[i-1].U, pts[i].U)
		}
	}
	return Polyline2D{Params: params, Points: pts}
}

// UnwrapU shifts u by whole periods of s so that it lies within half a
// period of prev. Non-periodic surfaces return u unchanged.
func UnwrapU(s Surface, prev, u float64) float64 {
	period, ok := UPeriod(s)
	if !ok {
		return u
	}
	for u-prev > period/2 {
		u -= period
	}
	for prev-u > period/2 {
		u += period
	}
	return u
}

// UPeriod returns the period of the u parameter for surfaces that are
// closed in u.
func UPeriod(s Surface) (float64, bool) {
	switch sf := s.(type) {
	case Cylinder:
		return 2 * math.Pi, true
	case Extrusion:
		return sf.Basis.Period()
	}
	return 0, false
}
