package brep

import "math"

// Matrix4 represents a 3D affine transformation.
// Only the upper 3x4 block of the homogeneous 4x4 matrix is stored, in
// row-major order:
//
//	| m00 m01 m02 m03 |
//	| m10 m11 m12 m13 |
//	| m20 m21 m22 m23 |
//
// This represents the transformation:
//
//	x' = m00*x + m01*y + m02*z + m03
//	y' = m10*x + m11*y + m12*z + m13
//	z' = m20*x + m21*y + m22*z + m23
//
// The zero value is not the identity; use Identity4.
type Matrix4 struct {
	M [3][4]float64
}

// Identity4 returns the identity transformation.
func Identity4() Matrix4 {
	return Matrix4{M: [3][4]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}}
}

// Translation creates a translation matrix.
func Translation(v Vec3) Matrix4 {
	m := Identity4()
	m.M[0][3] = v.X
	m.M[1][3] = v.Y
	m.M[2][3] = v.Z
	return m
}

// Placement creates a right-handed placement with the given origin, local
// Z axis and reference X direction. The X direction is projected to be
// orthogonal to Z, so callers may pass an approximate reference direction.
// A degenerate axis yields the translation to origin.
func Placement(origin Point3, z, x Vec3) Matrix4 {
	zn := z.Normalize()
	if zn.IsZero() {
		return Translation(origin.Vec())
	}
	xn := x.Sub(zn.Mul(x.Dot(zn))).Normalize()
	if xn.IsZero() {
		xn = zn.Perpendicular()
	}
	yn := zn.Cross(xn)
	return Matrix4{M: [3][4]float64{
		{xn.X, yn.X, zn.X, origin.X},
		{xn.Y, yn.Y, zn.Y, origin.Y},
		{xn.Z, yn.Z, zn.Z, origin.Z},
	}}
}

// FromRows builds a matrix from the first three rows of a homogeneous
// 4x4 matrix. The fourth row is assumed to be (0, 0, 0, 1).
func FromRows(rows [4][4]float64) Matrix4 {
	var m Matrix4
	for i := range 3 {
		for j := range 4 {
			m.M[i][j] = rows[i][j]
		}
	}
	return m
}

// At returns the component at row i, column j of the homogeneous matrix.
// Row 3 is the implicit (0, 0, 0, 1).
func (m Matrix4) At(i, j int) float64 {
	if i == 3 {
		if j == 3 {
			return 1
		}
		return 0
	}
	return m.M[i][j]
}

// Multiply multiplies two matrices (m * other): other is applied first.
func (m Matrix4) Multiply(other Matrix4) Matrix4 {
	var r Matrix4
	for i := range 3 {
		for j := range 4 {
			v := m.M[i][0]*other.M[0][j] + m.M[i][1]*other.M[1][j] + m.M[i][2]*other.M[2][j]
			if j == 3 {
				v += m.M[i][3]
			}
			r.M[i][j] = v
		}
	}
	return r
}

// TransformPoint applies the transformation to a point.
func (m Matrix4) TransformPoint(p Point3) Point3 {
	return Point3{
		X: m.M[0][0]*p.X + m.M[0][1]*p.Y + m.M[0][2]*p.Z + m.M[0][3],
		Y: m.M[1][0]*p.X + m.M[1][1]*p.Y + m.M[1][2]*p.Z + m.M[1][3],
		Z: m.M[2][0]*p.X + m.M[2][1]*p.Y + m.M[2][2]*p.Z + m.M[2][3],
	}
}

// TransformVector applies the transformation to a vector (no translation).
func (m Matrix4) TransformVector(v Vec3) Vec3 {
	return Vec3{
		X: m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z,
		Y: m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z,
		Z: m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z,
	}
}

// TransformDirection transforms a direction and renormalizes it.
func (m Matrix4) TransformDirection(v Vec3) Vec3 {
	return m.TransformVector(v).Normalize()
}

// Determinant returns the determinant of the linear 3x3 part.
func (m Matrix4) Determinant() float64 {
	a := m.M
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m Matrix4) Invert() Matrix4 {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Identity4()
	}
	a := m.M
	invDet := 1.0 / det

	var r Matrix4
	r.M[0][0] = (a[1][1]*a[2][2] - a[1][2]*a[2][1]) * invDet
	r.M[0][1] = (a[0][2]*a[2][1] - a[0][1]*a[2][2]) * invDet
	r.M[0][2] = (a[0][1]*a[1][2] - a[0][2]*a[1][1]) * invDet
	r.M[1][0] = (a[1][2]*a[2][0] - a[1][0]*a[2][2]) * invDet
	r.M[1][1] = (a[0][0]*a[2][2] - a[0][2]*a[2][0]) * invDet
	r.M[1][2] = (a[0][2]*a[1][0] - a[0][0]*a[1][2]) * invDet
	r.M[2][0] = (a[1][0]*a[2][1] - a[1][1]*a[2][0]) * invDet
	r.M[2][1] = (a[0][1]*a[2][0] - a[0][0]*a[2][1]) * invDet
	r.M[2][2] = (a[0][0]*a[1][1] - a[0][1]*a[1][0]) * invDet

	t := Vec3{X: a[0][3], Y: a[1][3], Z: a[2][3]}
	it := r.TransformVector(t).Neg()
	r.M[0][3], r.M[1][3], r.M[2][3] = it.X, it.Y, it.Z
	return r
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix4) IsIdentity() bool {
	return m == Identity4()
}

// IsTranslation returns true if the matrix is only a translation.
func (m Matrix4) IsTranslation() bool {
	id := Identity4()
	for i := range 3 {
		for j := range 3 {
			if m.M[i][j] != id.M[i][j] {
				return false
			}
		}
	}
	return true
}

// ReversesOrientation reports whether the transformation mirrors space.
func (m Matrix4) ReversesOrientation() bool {
	return m.Determinant() < 0
}
