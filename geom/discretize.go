package geom

import "math"

// maxSegments bounds the subdivision of a single curve interval.
const maxSegments = 512

// DiscretizeParams returns increasing parameters from t0 to t1 (inclusive)
// such that the chords between consecutive curve points deviate from the
// curve by at most deflection. Lines need no interior samples.
func DiscretizeParams(c Curve, t0, t1, deflection float64) []float64 {
	n := segmentCount(c, t1-t0, deflection)
	params := make([]float64, n+1)
	for i := range params {
		params[i] = t0 + (t1-t0)*float64(i)/float64(n)
	}
	params[n] = t1
	return params
}

func segmentCount(c Curve, span, deflection float64) int {
	span = math.Abs(span)
	if deflection <= 0 {
		deflection = 1e-3
	}
	var n int
	switch cv := c.(type) {
	case Line:
		return 1
	case Circle:
		n = arcSegments(span, cv.Radius, deflection)
	case Ellipse:
		n = arcSegments(span, math.Max(cv.Radius, cv.Radius2), deflection)
	case BSpline:
		n = 4 * len(cv.Control)
	default:
		n = 16
	}
	return max(1, min(n, maxSegments))
}

// arcSegments returns the number of chords needed for an arc of the given
// angular span so that the sagitta stays below deflection.
func arcSegments(span, radius, deflection float64) int {
	if radius <= deflection {
		return max(2, int(math.Ceil(span/(math.Pi/2))))
	}
	step := 2 * math.Acos(1-deflection/radius)
	n := int(math.Ceil(span / step))
	// Keep at least three chords for a full turn so the polygon has area.
	return max(n, int(math.Ceil(3*span/(2*math.Pi))))
}
