package mesh

import (
	"errors"
	"math"
	"slices"

	"github.com/gogpu/brep/geom"
)

// ErrDegenerate is returned when the outer ring has fewer than three vertices.
var ErrDegenerate = errors.New("mesh: degenerate polygon")

// Triangle holds three global vertex indices in counter-clockwise order.
type Triangle [3]int

// Triangulator converts polygons with holes into triangles.
//
// The triangulator is designed to be reused via Triangulate calls; it keeps
// its scratch buffers between calls. It is not safe for concurrent use.
type Triangulator struct {
	pts  []geom.UV
	ring []int
	ears []bool
	tris []Triangle

	// Fallbacks counts ears that had to be clipped without passing the
	// convexity/emptiness test (self-touching or collinear input).
	Fallbacks int
}

// NewTriangulator creates a new triangulator.
func NewTriangulator() *Triangulator {
	return &Triangulator{}
}

// Triangulate triangulates the polygon formed by rings[0] (outer boundary)
// and rings[1:] (holes). Ring orientation is irrelevant on input; output
// triangles are counter-clockwise. Indices are global: ring k's vertex i has
// index sum(len(rings[:k])) + i.
func (t *Triangulator) Triangulate(rings [][]geom.UV) ([]Triangle, error) {
	if len(rings) == 0 || len(rings[0]) < 3 {
		return nil, ErrDegenerate
	}
	t.pts = t.pts[:0]
	t.tris = t.tris[:0]
	t.Fallbacks = 0

	var indexed [][]int
	for _, r := range rings {
		idx := make([]int, len(r))
		for i, p := range r {
			idx[i] = len(t.pts)
			t.pts = append(t.pts, p)
		}
		indexed = append(indexed, idx)
	}

	outer := indexed[0]
	if t.signedArea(outer) < 0 {
		slices.Reverse(outer)
	}

	var holes [][]int
	for _, h := range indexed[1:] {
		if len(h) < 3 {
			continue
		}
		if t.signedArea(h) > 0 {
			slices.Reverse(h)
		}
		holes = append(holes, h)
	}

	// Bridge holes from the rightmost inwards so later bridges cannot
	// cross earlier ones.
	slices.SortFunc(holes, func(a, b []int) int {
		ma, mb := t.maxU(a), t.maxU(b)
		switch {
		case ma > mb:
			return -1
		case ma < mb:
			return 1
		}
		return 0
	})

	t.ring = append(t.ring[:0], outer...)
	for _, h := range holes {
		t.ring = t.bridge(t.ring, h)
	}

	t.clip()
	return slices.Clone(t.tris), nil
}

// signedArea returns twice the signed area of a ring (positive = CCW).
func (t *Triangulator) signedArea(ring []int) float64 {
	var a float64
	for i, cur := range ring {
		next := ring[(i+1)%len(ring)]
		a += t.pts[cur].Cross(t.pts[next])
	}
	return a
}

func (t *Triangulator) maxU(ring []int) float64 {
	m := math.Inf(-1)
	for _, i := range ring {
		m = math.Max(m, t.pts[i].U)
	}
	return m
}

// bridge splices hole into ring through a visible vertex pair.
func (t *Triangulator) bridge(ring, hole []int) []int {
	// Rightmost hole vertex.
	mi := 0
	for i, idx := range hole {
		p, best := t.pts[idx], t.pts[hole[mi]]
		if p.U > best.U || (p.U == best.U && p.V < best.V) {
			mi = i
		}
	}
	m := t.pts[hole[mi]]

	// Cast a ray towards +U and find the nearest ring edge it hits.
	hitPos := -1
	hitU := math.Inf(1)
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		pa, pb := t.pts[a], t.pts[b]
		if (pa.V > m.V) == (pb.V > m.V) {
			continue
		}
		u := pa.U + (m.V-pa.V)*(pb.U-pa.U)/(pb.V-pa.V)
		if u < m.U || u >= hitU {
			continue
		}
		hitU = u
		if pa.U > pb.U {
			hitPos = i
		} else {
			hitPos = (i + 1) % len(ring)
		}
	}
	if hitPos < 0 {
		// Hole not enclosed; connect to the nearest ring vertex.
		hitPos = t.nearest(ring, m)
	} else {
		hitPos = t.refineBridge(ring, hitPos, m, geom.UV{U: hitU, V: m.V})
	}

	merged := make([]int, 0, len(ring)+len(hole)+2)
	merged = append(merged, ring[:hitPos+1]...)
	for k := range hole {
		merged = append(merged, hole[(mi+k)%len(hole)])
	}
	merged = append(merged, hole[mi], ring[hitPos])
	merged = append(merged, ring[hitPos+1:]...)
	return merged
}

// refineBridge checks whether reflex vertices block the segment from m to
// the candidate and, if so, picks the blocking vertex with the smallest
// angle to the ray.
func (t *Triangulator) refineBridge(ring []int, cand int, m, hit geom.UV) int {
	p := t.pts[ring[cand]]
	if p == hit {
		return cand
	}
	best := cand
	bestTan := math.Inf(1)
	for i, idx := range ring {
		q := t.pts[idx]
		if q == p || q.U < m.U {
			continue
		}
		if !pointInTriangle(q, m, hit, p) && !pointInTriangle(q, m, p, hit) {
			continue
		}
		if !t.isReflex(ring, i) {
			continue
		}
		tan := math.Abs(q.V-m.V) / (q.U - m.U)
		if tan < bestTan || (tan == bestTan && q.U < t.pts[ring[best]].U) {
			best, bestTan = i, tan
		}
	}
	return best
}

func (t *Triangulator) nearest(ring []int, m geom.UV) int {
	best, bestD := 0, math.Inf(1)
	for i, idx := range ring {
		d := t.pts[idx].Sub(m)
		if dd := d.U*d.U + d.V*d.V; dd < bestD {
			best, bestD = i, dd
		}
	}
	return best
}

func (t *Triangulator) isReflex(ring []int, i int) bool {
	n := len(ring)
	a := t.pts[ring[(i+n-1)%n]]
	b := t.pts[ring[i]]
	c := t.pts[ring[(i+1)%n]]
	return b.Sub(a).Cross(c.Sub(b)) <= 0
}

// isEar reports whether the corner at ring[i] is strictly convex and its
// triangle holds no other ring vertex. Bridge vertices occur twice in the
// ring, so points equal to a corner are skipped.
func (t *Triangulator) isEar(ring []int, i int) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	a := t.pts[ring[(i+n-1)%n]]
	b := t.pts[ring[i]]
	c := t.pts[ring[(i+1)%n]]
	if b.Sub(a).Cross(c.Sub(b)) <= 0 {
		return false
	}
	for j, idx := range ring {
		if j == i || j == (i+n-1)%n || j == (i+1)%n {
			continue
		}
		p := t.pts[idx]
		if p == a || p == b || p == c {
			continue
		}
		if pointInTriangle(p, a, b, c) {
			return false
		}
	}
	return true
}

// clip ear-clips t.ring into t.tris. Among the current ears it always
// clips the most compact one (shortest longest side), which turns long
// strips into zigzag triangles instead of fans. Ear flags are updated
// for the neighbors of each clipped vertex and fully recomputed before
// falling back to a non-ear.
func (t *Triangulator) clip() {
	ring := t.ring
	t.ears = t.ears[:0]
	for i := range ring {
		t.ears = append(t.ears, t.isEar(ring, i))
	}
	for len(ring) > 3 {
		n := len(ring)
		ear := t.bestEar(ring)
		if ear < 0 {
			for i := range ring {
				t.ears[i] = t.isEar(ring, i)
			}
			if ear = t.bestEar(ring); ear < 0 {
				ear = t.leastReflex(ring)
				t.Fallbacks++
			}
		}
		prev := ring[(ear+n-1)%n]
		next := ring[(ear+1)%n]
		t.tris = append(t.tris, Triangle{prev, ring[ear], next})
		ring = slices.Delete(ring, ear, ear+1)
		t.ears = slices.Delete(t.ears, ear, ear+1)

		n--
		before := (ear + n - 1) % n
		after := ear % n
		t.ears[before] = t.isEar(ring, before)
		t.ears[after] = t.isEar(ring, after)
	}
	t.tris = append(t.tris, Triangle{ring[0], ring[1], ring[2]})
	t.ring = ring
}

// bestEar returns the flagged ear whose triangle has the shortest longest
// side, or -1.
func (t *Triangulator) bestEar(ring []int) int {
	n := len(ring)
	best, bestLen := -1, math.Inf(1)
	for i, ok := range t.ears {
		if !ok {
			continue
		}
		a := t.pts[ring[(i+n-1)%n]]
		b := t.pts[ring[i]]
		c := t.pts[ring[(i+1)%n]]
		l := max(sqDist(a, b), sqDist(b, c), sqDist(c, a))
		if l < bestLen {
			best, bestLen = i, l
		}
	}
	return best
}

func sqDist(a, b geom.UV) float64 {
	d := a.Sub(b)
	return d.U*d.U + d.V*d.V
}

// leastReflex returns the vertex whose turn is closest to convex.
func (t *Triangulator) leastReflex(ring []int) int {
	n := len(ring)
	best, bestCross := 0, math.Inf(-1)
	for i := range n {
		a := t.pts[ring[(i+n-1)%n]]
		b := t.pts[ring[i]]
		c := t.pts[ring[(i+1)%n]]
		if cr := b.Sub(a).Cross(c.Sub(b)); cr > bestCross {
			best, bestCross = i, cr
		}
	}
	return best
}

// pointInTriangle reports whether p lies inside or on the boundary of the
// counter-clockwise triangle abc.
func pointInTriangle(p, a, b, c geom.UV) bool {
	return b.Sub(a).Cross(p.Sub(a)) >= 0 &&
		c.Sub(b).Cross(p.Sub(b)) >= 0 &&
		a.Sub(c).Cross(p.Sub(c)) >= 0
}
