package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/brep"
)

// ErrInvalidBSpline is returned for inconsistent B-spline definitions.
var ErrInvalidBSpline = errors.New("geom: invalid b-spline")

// BSpline is a (possibly rational) non-periodic B-spline curve. Knots is
// the full, expanded knot vector: len(Knots) == len(Control)+Degree+1.
// Weights is empty for non-rational curves.
type BSpline struct {
	Degree  int
	Control []brep.Point3
	Knots   []float64
	Weights []float64
}

func (BSpline) isCurve() {}

// NewBSpline validates and creates a B-spline from control points, knot
// values and their multiplicities (as found in building models).
func NewBSpline(degree int, control []brep.Point3, knots []float64, mults []int, weights []float64) (BSpline, error) {
	if degree < 1 {
		return BSpline{}, fmt.Errorf("%w: degree %d", ErrInvalidBSpline, degree)
	}
	if len(knots) != len(mults) {
		return BSpline{}, fmt.Errorf("%w: %d knots with %d multiplicities", ErrInvalidBSpline, len(knots), len(mults))
	}
	var expanded []float64
	for i, k := range knots {
		if i > 0 && k < knots[i-1] {
			return BSpline{}, fmt.Errorf("%w: decreasing knot vector", ErrInvalidBSpline)
		}
		for range mults[i] {
			expanded = append(expanded, k)
		}
	}
	if len(expanded) != len(control)+degree+1 {
		return BSpline{}, fmt.Errorf("%w: %d expanded knots for %d control points of degree %d",
			ErrInvalidBSpline, len(expanded), len(control), degree)
	}
	if len(weights) != 0 && len(weights) != len(control) {
		return BSpline{}, fmt.Errorf("%w: %d weights for %d control points", ErrInvalidBSpline, len(weights), len(control))
	}
	return BSpline{Degree: degree, Control: control, Knots: expanded, Weights: weights}, nil
}

// Domain returns the valid parameter interval.
func (b BSpline) Domain() (float64, float64) {
	return b.Knots[b.Degree], b.Knots[len(b.Knots)-b.Degree-1]
}

// span finds the knot span index containing t.
func (b BSpline) span(t float64) int {
	n := len(b.Control) - 1
	lo, hi := b.Domain()
	if t >= hi {
		return n
	}
	if t <= lo {
		return b.Degree
	}
	k := b.Degree
	for k < n && t >= b.Knots[k+1] {
		k++
	}
	return k
}

// homogeneous evaluates the curve in homogeneous coordinates using de Boor's
// algorithm. The fourth component is the weight.
func (b BSpline) homogeneous(t float64) [4]float64 {
	p := b.Degree
	k := b.span(t)
	d := make([][4]float64, p+1)
	for j := 0; j <= p; j++ {
		c := b.Control[j+k-p]
		w := 1.0
		if len(b.Weights) != 0 {
			w = b.Weights[j+k-p]
		}
		d[j] = [4]float64{c.X * w, c.Y * w, c.Z * w, w}
	}
	for r := 1; r <= p; r++ {
		for j := p; j >= r; j-- {
			left := b.Knots[j+k-p]
			right := b.Knots[j+1+k-r]
			alpha := 0.0
			if right != left {
				alpha = (t - left) / (right - left)
			}
			for i := range 4 {
				d[j][i] = (1-alpha)*d[j-1][i] + alpha*d[j][i]
			}
		}
	}
	return d[p]
}

// Point evaluates the curve at parameter t.
func (b BSpline) Point(t float64) brep.Point3 {
	h := b.homogeneous(t)
	return brep.Pt3(h[0]/h[3], h[1]/h[3], h[2]/h[3])
}

// Derivative returns a central finite-difference derivative.
func (b BSpline) Derivative(t float64) brep.Vec3 {
	lo, hi := b.Domain()
	h := (hi - lo) * 1e-6
	t0 := math.Max(lo, t-h)
	t1 := math.Min(hi, t+h)
	if t1 == t0 {
		return brep.Vec3{}
	}
	return b.Point(t1).Sub(b.Point(t0)).Div(t1 - t0)
}

// Parameter returns the parameter of the closest sampled point, refined by
// Newton iteration and clamped to the domain.
func (b BSpline) Parameter(p brep.Point3) float64 {
	lo, hi := b.Domain()
	const samples = 64
	best, bestDist := lo, math.Inf(1)
	for i := 0; i <= samples; i++ {
		t := lo + (hi-lo)*float64(i)/samples
		if d := b.Point(t).SquareDistance(p); d < bestDist {
			best, bestDist = t, d
		}
	}
	t := refineParameter(b, p, best)
	return math.Max(lo, math.Min(hi, t))
}

// Period reports that clamped B-splines are not periodic.
func (BSpline) Period() (float64, bool) { return 0, false }

// Transformed returns the B-spline with transformed control points.
func (b BSpline) Transformed(m brep.Matrix4) Curve {
	ctrl := make([]brep.Point3, len(b.Control))
	for i, c := range b.Control {
		ctrl[i] = m.TransformPoint(c)
	}
	return BSpline{Degree: b.Degree, Control: ctrl, Knots: b.Knots, Weights: b.Weights}
}
