package brep

import "math"

// Point3 represents a position in 3D model space.
type Point3 struct {
	X, Y, Z float64
}

// Pt3 is a convenience function to create a Point3.
func Pt3(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Add returns the point displaced by v.
func (p Point3) Add(v Vec3) Point3 {
	return Point3{X: p.X + v.X, Y: p.Y + v.Y, Z: p.Z + v.Z}
}

// Sub returns the displacement from q to p.
func (p Point3) Sub(q Point3) Vec3 {
	return Vec3{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Distance returns the distance between two points.
func (p Point3) Distance(q Point3) float64 {
	return p.Sub(q).Length()
}

// SquareDistance returns the squared distance between two points.
func (p Point3) SquareDistance(q Point3) float64 {
	return p.Sub(q).LengthSq()
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q, intermediate values interpolate.
func (p Point3) Lerp(q Point3, t float64) Point3 {
	return Point3{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
		Z: p.Z + (q.Z-p.Z)*t,
	}
}

// Midpoint returns the point halfway between p and q.
func (p Point3) Midpoint(q Point3) Point3 {
	return p.Lerp(q, 0.5)
}

// Approx returns true if two points are equal within epsilon on every axis.
func (p Point3) Approx(q Point3, epsilon float64) bool {
	return math.Abs(p.X-q.X) < epsilon &&
		math.Abs(p.Y-q.Y) < epsilon &&
		math.Abs(p.Z-q.Z) < epsilon
}

// Vec returns the position vector of p (its displacement from the origin).
func (p Point3) Vec() Vec3 {
	return Vec3(p)
}

// Components returns the coordinates as an array.
func (p Point3) Components() [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

// Centroid returns the arithmetic mean of pts.
// Returns the origin for an empty slice.
func Centroid(pts []Point3) Point3 {
	if len(pts) == 0 {
		return Point3{}
	}
	var sum Vec3
	for _, p := range pts {
		sum = sum.Add(p.Vec())
	}
	return sum.Div(float64(len(pts))).ToPoint()
}
