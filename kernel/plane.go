package kernel

import (
	"github.com/gogpu/brep"
	"github.com/gogpu/brep/geom"
	"github.com/gogpu/brep/topo"
)

// ApproximatePlane fits a plane through the vertices of w: the normal by
// Newell's method, the origin at the vertex centroid. The fit is rejected
// for fewer than three vertices or when any vertex lies farther than eps
// from the plane. An eps below 1 means the kernel precision; pass
// math.Inf(1) to accept any fit.
//
// The normal follows the traversal of w, so a counter-clockwise boundary
// seen from above gives an upward normal.
func (k *Kernel) ApproximatePlane(w topo.Wire, eps float64) (geom.Plane, bool) {
	c := &conversion{k: k, p: k.cfg.Precision}
	return c.approximatePlane(w, eps)
}

func (c *conversion) approximatePlane(w topo.Wire, eps float64) (geom.Plane, bool) {
	if eps < 1 {
		eps = c.p
	}
	pts := w.Points()
	if len(pts) < 3 {
		return geom.Plane{}, false
	}

	n := geom.NewellNormal(pts)
	if n.IsZero() {
		return geom.Plane{}, false
	}
	pl := geom.NewPlane(brep.Centroid(pts), n)

	eps2 := eps * eps
	for _, p := range pts {
		if pl.SquareDistance(p) > eps2 {
			return geom.Plane{}, false
		}
	}
	return pl, true
}
