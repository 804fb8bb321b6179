package topo

import (
	"math"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/geom"
)

// FindSurface fits a plane through the wire's vertices and curve samples.
// It succeeds when every sample lies within tol of the plane and returns
// the largest deviation found. The plane normal follows the wire's
// traversal direction.
func FindSurface(w Wire, tol float64) (geom.Plane, float64, bool) {
	pts := w.Samples(tol)
	if len(pts) < 3 {
		return geom.Plane{}, 0, false
	}
	pl, dev, ok := geom.FitPlane(pts, geom.NewellNormal(pts))
	if !ok || dev > tol {
		return geom.Plane{}, dev, false
	}
	return pl, dev, true
}

// FixAddPCurve computes and stores the parameter-space curve of e on f.
func FixAddPCurve(e Edge, f Face, deflection float64) {
	if e.e.pcurves == nil {
		e.e.pcurves = map[*faceEntity]geom.Polyline2D{}
	}
	e.e.pcurves[f.f] = geom.SamplePCurve(e.e.curve, f.f.surface, e.e.t0, e.e.t1, deflection)
}

// FixOrientation orients the wires of f in the surface parameter space:
// the outer wire counter-clockwise, holes clockwise. It returns the fixed
// face and the wires it had to reverse. Reversing flips the wire handle
// only, so the wire is still the same shape as before.
//
// Wires that wrap around a periodic surface have no meaningful winding
// and are left alone.
func FixOrientation(f Face) (Face, []Wire) {
	deflection := defaultDeflection(f)
	nf := &faceEntity{surface: f.f.surface, wires: make([]Wire, len(f.f.wires))}

	var flipped []Wire
	for i, w := range f.f.wires {
		uv, wraps := wireUV(f.f, w, deflection)
		area := signedArea(uv)
		wantCCW := i == 0
		if !wraps && area != 0 && (area > 0) != wantCCW {
			w = w.Reversed()
			flipped = append(flipped, w)
		}
		nf.wires[i] = w
	}

	for _, w := range nf.wires {
		for _, e := range w.w.edges {
			if pc, ok := e.e.pcurves[f.f]; ok {
				e.e.pcurves[nf] = pc
			}
		}
	}
	return Face{f: nf, rev: f.rev}, flipped
}

// wireUV returns the wire's polygon in the parameter space of face fe,
// using stored p-curves where available. wraps reports whether the
// polygon does not close in u because it winds around a periodic surface.
func wireUV(fe *faceEntity, w Wire, deflection float64) (uv []geom.UV, wraps bool) {
	s := fe.surface
	for _, e := range w.Edges() {
		params := e.Params(deflection)
		pc, hasPC := e.e.pcurves[fe]
		for _, t := range params[:len(params)-1] {
			var p geom.UV
			if hasPC {
				p = pc.Value(t)
			} else {
				p = s.Parameters(e.e.curve.Point(t))
			}
			if len(uv) > 0 {
				p.U = geom.UnwrapU(s, uv[len(uv)-1].U, p.U)
			}
			uv = append(uv, p)
		}
	}
	if len(uv) > 0 {
		if period, ok := geom.UPeriod(s); ok {
			closing := geom.UnwrapU(s, uv[len(uv)-1].U, uv[0].U)
			wraps = math.Abs(closing-uv[0].U) > period/2
		}
	}
	return uv, wraps
}

func signedArea(pts []geom.UV) float64 {
	var a float64
	for i, p := range pts {
		a += p.Cross(pts[(i+1)%len(pts)])
	}
	return a / 2
}

// defaultDeflection derives a sampling deflection from the size of the
// face's outer wire.
func defaultDeflection(f Face) float64 {
	pts := f.OuterWire().Points()
	if len(pts) == 0 {
		return 1e-3
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = brep.Pt3(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z))
		hi = brep.Pt3(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z))
	}
	d := lo.Distance(hi) * 1e-3
	if d == 0 {
		// A single closed curve edge has one vertex.
		for _, e := range f.OuterWire().Edges() {
			d = math.Max(d, e.Start().Distance(e.Midpoint())*1e-3)
		}
	}
	if d == 0 {
		return 1e-3
	}
	return d
}
