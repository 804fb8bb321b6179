package brep

import "math"

// AlmostZero is the squared-magnitude threshold below which a direction
// is considered degenerate.
const AlmostZero = 1e-9

// Vec3 represents a 3D displacement vector.
// Unlike Point3 which represents a position, Vec3 represents a direction and magnitude.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is a convenience function to create a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z}
}

// Mul returns the vector scaled by a scalar.
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Div returns the vector divided by a scalar.
func (v Vec3) Div(s float64) Vec3 {
	return Vec3{X: v.X / s, Y: v.Y / s, Z: v.Z / s}
}

// Neg returns the negation of the vector.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the length (magnitude) of the vector.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

// LengthSq returns the squared length of the vector.
// This is faster than Length() when you only need to compare magnitudes.
func (v Vec3) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns a unit vector in the same direction.
// Returns zero vector if the original vector has zero length.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return v.Div(length)
}

// IsZero returns true if the vector is the zero vector.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsDegenerate reports whether the vector is too short to define a direction.
func (v Vec3) IsDegenerate() bool {
	return v.LengthSq() <= AlmostZero
}

// Approx returns true if two vectors are approximately equal within epsilon.
func (v Vec3) Approx(w Vec3, epsilon float64) bool {
	return math.Abs(v.X-w.X) < epsilon &&
		math.Abs(v.Y-w.Y) < epsilon &&
		math.Abs(v.Z-w.Z) < epsilon
}

// Angle returns the unsigned angle between two vectors in radians.
func (v Vec3) Angle(w Vec3) float64 {
	return math.Atan2(v.Cross(w).Length(), v.Dot(w))
}

// Perpendicular returns a unit vector orthogonal to v.
// The axis least aligned with v is used as the seed so the result is
// stable for directions close to a coordinate axis.
func (v Vec3) Perpendicular() Vec3 {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	var seed Vec3
	switch {
	case ax <= ay && ax <= az:
		seed = Vec3{X: 1}
	case ay <= az:
		seed = Vec3{Y: 1}
	default:
		seed = Vec3{Z: 1}
	}
	return v.Cross(seed).Normalize()
}

// ToPoint converts Vec3 to Point3.
func (v Vec3) ToPoint() Point3 {
	return Point3(v)
}

// Components returns the coordinates as an array.
func (v Vec3) Components() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
