// Package geom provides the analytic curves and surfaces that carry the
// geometry of B-rep edges and faces.
//
// Curves and surfaces are closed sum types: every variant is declared in
// this package and consumers dispatch with a type switch.
package geom

import (
	"math"

	"github.com/gogpu/brep"
)

// Curve is an unbounded or periodic parametric 3D curve.
// Edges bound a curve by a parameter interval.
type Curve interface {
	// Point evaluates the curve at parameter t.
	Point(t float64) brep.Point3

	// Derivative returns the first derivative at parameter t.
	Derivative(t float64) brep.Vec3

	// Parameter returns the parameter of the curve point closest to p.
	Parameter(p brep.Point3) float64

	// Period returns the parameter period for closed periodic curves.
	Period() (float64, bool)

	// Transformed returns the curve mapped by an affine transformation.
	Transformed(m brep.Matrix4) Curve

	isCurve()
}

// -------------------------------------------------------------------
// Line
// -------------------------------------------------------------------

// Line is an infinite straight line through Origin along the unit Direction.
// The parameter is the signed distance from Origin.
type Line struct {
	Origin    brep.Point3
	Direction brep.Vec3
}

func (Line) isCurve() {}

// NewLine creates a line, normalizing the direction.
func NewLine(origin brep.Point3, dir brep.Vec3) Line {
	return Line{Origin: origin, Direction: dir.Normalize()}
}

// LineThrough creates the line from a to b, parameterized so that a is
// at 0 and b at a.Distance(b).
func LineThrough(a, b brep.Point3) Line {
	return NewLine(a, b.Sub(a))
}

// Point evaluates the line at parameter t.
func (l Line) Point(t float64) brep.Point3 {
	return l.Origin.Add(l.Direction.Mul(t))
}

// Derivative returns the constant direction.
func (l Line) Derivative(float64) brep.Vec3 {
	return l.Direction
}

// Parameter projects p onto the line.
func (l Line) Parameter(p brep.Point3) float64 {
	return p.Sub(l.Origin).Dot(l.Direction)
}

// Period reports that lines are not periodic.
func (Line) Period() (float64, bool) { return 0, false }

// Transformed returns the transformed line. The parameter scale is kept
// unit-length so rigid transforms preserve edge parameters.
func (l Line) Transformed(m brep.Matrix4) Curve {
	return NewLine(m.TransformPoint(l.Origin), m.TransformVector(l.Direction))
}

// -------------------------------------------------------------------
// Circle
// -------------------------------------------------------------------

// Circle lies in the plane through Center orthogonal to Axis. Parameter 0
// is at Center + Radius*XDir and increases counter-clockwise about Axis.
type Circle struct {
	Center brep.Point3
	Axis   brep.Vec3
	XDir   brep.Vec3
	Radius float64
}

func (Circle) isCurve() {}

// NewCircle creates a circle with an orthonormal frame derived from axis and
// reference direction.
func NewCircle(center brep.Point3, axis, ref brep.Vec3, radius float64) Circle {
	z, x := frame(axis, ref)
	return Circle{Center: center, Axis: z, XDir: x, Radius: radius}
}

// YDir returns Axis × XDir.
func (c Circle) YDir() brep.Vec3 {
	return c.Axis.Cross(c.XDir)
}

// Point evaluates the circle at angle t.
func (c Circle) Point(t float64) brep.Point3 {
	s, co := math.Sincos(t)
	return c.Center.Add(c.XDir.Mul(c.Radius * co)).Add(c.YDir().Mul(c.Radius * s))
}

// Derivative returns the tangent at angle t.
func (c Circle) Derivative(t float64) brep.Vec3 {
	s, co := math.Sincos(t)
	return c.XDir.Mul(-c.Radius * s).Add(c.YDir().Mul(c.Radius * co))
}

// Parameter returns the angle of p's projection, in [0, 2π).
func (c Circle) Parameter(p brep.Point3) float64 {
	d := p.Sub(c.Center)
	return normalizeAngle(math.Atan2(d.Dot(c.YDir()), d.Dot(c.XDir)))
}

// Period returns 2π.
func (Circle) Period() (float64, bool) { return 2 * math.Pi, true }

// Transformed returns the transformed circle.
func (c Circle) Transformed(m brep.Matrix4) Curve {
	x := m.TransformVector(c.XDir)
	axis := m.TransformVector(c.Axis)
	if m.ReversesOrientation() {
		axis = axis.Neg()
	}
	return NewCircle(m.TransformPoint(c.Center), axis, x, c.Radius*x.Length())
}

// CircleThrough returns the circle through three points. The circle is
// oriented so that p1, p2, p3 are visited in increasing parameter order.
// Returns false for collinear or coincident points.
func CircleThrough(p1, p2, p3 brep.Point3) (Circle, bool) {
	a := p1.Sub(p3)
	b := p2.Sub(p3)
	axb := a.Cross(b)
	denom := 2 * axb.LengthSq()
	if denom <= brep.AlmostZero*brep.AlmostZero {
		return Circle{}, false
	}
	// Circumcenter relative to p3.
	rel := b.Mul(a.LengthSq()).Sub(a.Mul(b.LengthSq())).Cross(axb).Div(denom)
	center := p3.Add(rel)
	radius := rel.Length()

	// (p2-p1) × (p3-p2) points along the traversal normal.
	axis := p2.Sub(p1).Cross(p3.Sub(p2))
	return NewCircle(center, axis, p1.Sub(center), radius), true
}

// -------------------------------------------------------------------
// Ellipse
// -------------------------------------------------------------------

// Ellipse has its major radius along XDir and minor radius along Axis × XDir.
type Ellipse struct {
	Center  brep.Point3
	Axis    brep.Vec3
	XDir    brep.Vec3
	Radius  float64
	Radius2 float64
}

func (Ellipse) isCurve() {}

// NewEllipse creates an ellipse with an orthonormal frame.
func NewEllipse(center brep.Point3, axis, ref brep.Vec3, r1, r2 float64) Ellipse {
	z, x := frame(axis, ref)
	return Ellipse{Center: center, Axis: z, XDir: x, Radius: r1, Radius2: r2}
}

// YDir returns Axis × XDir.
func (e Ellipse) YDir() brep.Vec3 {
	return e.Axis.Cross(e.XDir)
}

// Point evaluates the ellipse at angle t.
func (e Ellipse) Point(t float64) brep.Point3 {
	s, co := math.Sincos(t)
	return e.Center.Add(e.XDir.Mul(e.Radius * co)).Add(e.YDir().Mul(e.Radius2 * s))
}

// Derivative returns the tangent at angle t.
func (e Ellipse) Derivative(t float64) brep.Vec3 {
	s, co := math.Sincos(t)
	return e.XDir.Mul(-e.Radius * s).Add(e.YDir().Mul(e.Radius2 * co))
}

// Parameter returns the eccentric angle of p's projection, in [0, 2π).
func (e Ellipse) Parameter(p brep.Point3) float64 {
	d := p.Sub(e.Center)
	u := d.Dot(e.XDir) / e.Radius
	v := d.Dot(e.YDir()) / e.Radius2
	t := normalizeAngle(math.Atan2(v, u))
	return refineParameter(e, p, t)
}

// Period returns 2π.
func (Ellipse) Period() (float64, bool) { return 2 * math.Pi, true }

// Transformed returns the transformed ellipse.
func (e Ellipse) Transformed(m brep.Matrix4) Curve {
	x := m.TransformVector(e.XDir)
	axis := m.TransformVector(e.Axis)
	if m.ReversesOrientation() {
		axis = axis.Neg()
	}
	s := x.Length()
	return NewEllipse(m.TransformPoint(e.Center), axis, x, e.Radius*s, e.Radius2*s)
}

// -------------------------------------------------------------------
// helpers
// -------------------------------------------------------------------

// frame returns an orthonormal (z, x) pair from an axis and an approximate
// reference direction.
func frame(axis, ref brep.Vec3) (z, x brep.Vec3) {
	z = axis.Normalize()
	if z.IsZero() {
		z = brep.V3(0, 0, 1)
	}
	x = ref.Sub(z.Mul(ref.Dot(z))).Normalize()
	if x.IsZero() {
		x = z.Perpendicular()
	}
	return z, x
}

// normalizeAngle maps an angle to [0, 2π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// refineParameter improves a parameter estimate with Newton steps on the
// squared distance.
func refineParameter(c Curve, p brep.Point3, t float64) float64 {
	for range 8 {
		d := c.Point(t).Sub(p)
		d1 := c.Derivative(t)
		den := d1.LengthSq()
		if den == 0 {
			break
		}
		step := d.Dot(d1) / den
		t -= step
		if math.Abs(step) < 1e-12 {
			break
		}
	}
	return t
}

// IsLine reports whether c is a straight line.
func IsLine(c Curve) bool {
	_, ok := c.(Line)
	return ok
}

// IsCircle reports whether c is a circle.
func IsCircle(c Curve) bool {
	_, ok := c.(Circle)
	return ok
}
