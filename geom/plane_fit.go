package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gogpu/brep"
)

// NewellNormal accumulates the (unnormalized) normal of a closed polygon
// using Newell's method. Unlike the cross product of two edges it gives the
// correct orientation for concave boundaries. The magnitude is twice the
// projected area.
//
// Reference: Graphics Gems III, p. 231.
func NewellNormal(pts []brep.Point3) brep.Vec3 {
	var n brep.Vec3
	for i, cur := range pts {
		next := pts[(i+1)%len(pts)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.X + next.X) * (cur.Z - next.Z)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n
}

// NewellPlane fits a plane through a closed polygon: the centroid of the
// vertices and the Newell normal. Returns false for fewer than three
// points or a vanishing normal.
func NewellPlane(pts []brep.Point3) (Plane, bool) {
	if len(pts) < 3 {
		return Plane{}, false
	}
	n := NewellNormal(pts)
	if n.IsDegenerate() {
		return Plane{}, false
	}
	return NewPlane(brep.Centroid(pts), n), true
}

// MaxSquareDeviation returns the largest squared distance of pts from pl.
func MaxSquareDeviation(pl Plane, pts []brep.Point3) float64 {
	var worst float64
	for _, p := range pts {
		worst = math.Max(worst, pl.SquareDistance(p))
	}
	return worst
}

// FitPlane computes the least-squares plane through pts: the normal is the
// eigenvector of the covariance matrix with the smallest eigenvalue. The
// returned deviation is the largest distance of any point from the plane.
// When hint is non-zero the normal is flipped to agree with it.
func FitPlane(pts []brep.Point3, hint brep.Vec3) (Plane, float64, bool) {
	if len(pts) < 3 {
		return Plane{}, 0, false
	}
	c := brep.Centroid(pts)

	var cov [9]float64
	for _, p := range pts {
		d := p.Sub(c).Components()
		for i := range 3 {
			for j := range 3 {
				cov[i*3+j] += d[i] * d[j]
			}
		}
	}

	var es mat.EigenSym
	if !es.Factorize(mat.NewSymDense(3, cov[:]), true) {
		return Plane{}, 0, false
	}
	values := es.Values(nil)
	var vectors mat.Dense
	es.VectorsTo(&vectors)

	// Two vanishing eigenvalues means the points are collinear.
	if values[1] <= brep.AlmostZero*values[2] || values[2] == 0 {
		return Plane{}, 0, false
	}

	n := brep.V3(vectors.At(0, 0), vectors.At(1, 0), vectors.At(2, 0))
	if !hint.IsZero() && n.Dot(hint) < 0 {
		n = n.Neg()
	}
	pl := NewPlane(c, n)
	return pl, math.Sqrt(MaxSquareDeviation(pl, pts)), true
}
