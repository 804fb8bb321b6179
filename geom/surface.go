package geom

import (
	"math"

	"github.com/gogpu/brep"
)

// UV is a point in a surface's 2D parameter space.
type UV struct {
	U, V float64
}

// Sub returns the difference of two parameter points.
func (p UV) Sub(q UV) UV {
	return UV{U: p.U - q.U, V: p.V - q.V}
}

// Cross returns the 2D cross product (scalar).
func (p UV) Cross(q UV) float64 {
	return p.U*q.V - p.V*q.U
}

// Surface is a parametric surface supporting a face.
type Surface interface {
	// Value evaluates the surface at (u, v).
	Value(uv UV) brep.Point3

	// Parameters returns the parameters of the surface point closest to p.
	Parameters(p brep.Point3) UV

	// Normal returns the unit normal at (u, v).
	Normal(uv UV) brep.Vec3

	// Transformed returns the surface mapped by an affine transformation.
	Transformed(m brep.Matrix4) Surface

	isSurface()
}

// -------------------------------------------------------------------
// Plane
// -------------------------------------------------------------------

// Plane is parameterized by an orthonormal frame (XDir, YDir, Axis)
// anchored at Origin. Axis is the plane normal.
type Plane struct {
	Origin brep.Point3
	Axis   brep.Vec3
	XDir   brep.Vec3
}

func (Plane) isSurface() {}

// NewPlane creates a plane through origin with the given normal. The
// in-plane X direction is chosen deterministically from the normal.
func NewPlane(origin brep.Point3, normal brep.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Origin: origin, Axis: n, XDir: n.Perpendicular()}
}

// NewPlaneFrame creates a plane with an explicit reference X direction.
func NewPlaneFrame(origin brep.Point3, normal, ref brep.Vec3) Plane {
	z, x := frame(normal, ref)
	return Plane{Origin: origin, Axis: z, XDir: x}
}

// YDir returns Axis × XDir.
func (p Plane) YDir() brep.Vec3 {
	return p.Axis.Cross(p.XDir)
}

// Value evaluates the plane at (u, v).
func (p Plane) Value(uv UV) brep.Point3 {
	return p.Origin.Add(p.XDir.Mul(uv.U)).Add(p.YDir().Mul(uv.V))
}

// Parameters projects q into the plane's (u, v) frame.
func (p Plane) Parameters(q brep.Point3) UV {
	d := q.Sub(p.Origin)
	return UV{U: d.Dot(p.XDir), V: d.Dot(p.YDir())}
}

// Normal returns the constant plane normal.
func (p Plane) Normal(UV) brep.Vec3 { return p.Axis }

// SignedDistance returns the signed distance of q from the plane.
func (p Plane) SignedDistance(q brep.Point3) float64 {
	return q.Sub(p.Origin).Dot(p.Axis)
}

// SquareDistance returns the squared distance of q from the plane.
func (p Plane) SquareDistance(q brep.Point3) float64 {
	d := p.SignedDistance(q)
	return d * d
}

// Reversed returns the plane with opposite normal and the same X direction.
func (p Plane) Reversed() Plane {
	return Plane{Origin: p.Origin, Axis: p.Axis.Neg(), XDir: p.XDir}
}

// Transformed returns the transformed plane.
func (p Plane) Transformed(m brep.Matrix4) Surface {
	n := m.TransformVector(p.Axis)
	if m.ReversesOrientation() {
		n = n.Neg()
	}
	return NewPlaneFrame(m.TransformPoint(p.Origin), n, m.TransformVector(p.XDir))
}

// -------------------------------------------------------------------
// Cylinder
// -------------------------------------------------------------------

// Cylinder is a circular cylinder about the line through Origin along Axis.
// u is the angle about Axis measured from XDir, v the height along Axis.
type Cylinder struct {
	Origin brep.Point3
	Axis   brep.Vec3
	XDir   brep.Vec3
	Radius float64
}

func (Cylinder) isSurface() {}

// NewCylinder creates a cylinder with an orthonormal frame.
func NewCylinder(origin brep.Point3, axis, ref brep.Vec3, radius float64) Cylinder {
	z, x := frame(axis, ref)
	return Cylinder{Origin: origin, Axis: z, XDir: x, Radius: radius}
}

// Value evaluates the cylinder at (u, v).
func (c Cylinder) Value(uv UV) brep.Point3 {
	s, co := math.Sincos(uv.U)
	y := c.Axis.Cross(c.XDir)
	return c.Origin.
		Add(c.XDir.Mul(c.Radius * co)).
		Add(y.Mul(c.Radius * s)).
		Add(c.Axis.Mul(uv.V))
}

// Parameters returns the angle and height of q, angle in [0, 2π).
func (c Cylinder) Parameters(q brep.Point3) UV {
	d := q.Sub(c.Origin)
	y := c.Axis.Cross(c.XDir)
	return UV{U: normalizeAngle(math.Atan2(d.Dot(y), d.Dot(c.XDir))), V: d.Dot(c.Axis)}
}

// Normal returns the outward radial direction at (u, v).
func (c Cylinder) Normal(uv UV) brep.Vec3 {
	s, co := math.Sincos(uv.U)
	y := c.Axis.Cross(c.XDir)
	return c.XDir.Mul(co).Add(y.Mul(s))
}

// Transformed returns the transformed cylinder.
func (c Cylinder) Transformed(m brep.Matrix4) Surface {
	x := m.TransformVector(c.XDir)
	axis := m.TransformVector(c.Axis)
	if m.ReversesOrientation() {
		axis = axis.Neg()
	}
	return NewCylinder(m.TransformPoint(c.Origin), axis, x, c.Radius*x.Length())
}

// -------------------------------------------------------------------
// Extrusion
// -------------------------------------------------------------------

// Extrusion is the surface swept by Basis translated along Direction.
// u is the basis curve parameter, v the sweep distance along the unit
// Direction.
type Extrusion struct {
	Basis     Curve
	Direction brep.Vec3
}

func (Extrusion) isSurface() {}

// Value evaluates the swept surface at (u, v).
func (e Extrusion) Value(uv UV) brep.Point3 {
	return e.Basis.Point(uv.U).Add(e.Direction.Mul(uv.V))
}

// Parameters alternates projections onto the basis curve and the sweep
// direction until the estimate settles.
func (e Extrusion) Parameters(p brep.Point3) UV {
	u := e.Basis.Parameter(p)
	v := 0.0
	for range 4 {
		v = p.Sub(e.Basis.Point(u)).Dot(e.Direction)
		u = e.Basis.Parameter(p.Add(e.Direction.Mul(-v)))
	}
	return UV{U: u, V: v}
}

// Normal returns dBasis/du × Direction.
func (e Extrusion) Normal(uv UV) brep.Vec3 {
	return e.Basis.Derivative(uv.U).Cross(e.Direction).Normalize()
}

// Transformed returns the transformed extrusion surface.
func (e Extrusion) Transformed(m brep.Matrix4) Surface {
	return Extrusion{Basis: e.Basis.Transformed(m), Direction: m.TransformDirection(e.Direction)}
}

// IsPlane reports whether s is a plane.
func IsPlane(s Surface) bool {
	_, ok := s.(Plane)
	return ok
}
