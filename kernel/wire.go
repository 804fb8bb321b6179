package kernel

import (
	"github.com/gogpu/brep"
	"github.com/gogpu/brep/geom"
	"github.com/gogpu/brep/taxonomy"
	"github.com/gogpu/brep/topo"
)

// gapFactor bounds the gaps closed by moving end points. Larger gaps, in
// units of precision, get an extra straight segment.
const gapFactor = 1000

// ConvertLoop joins the edges of l into a single wire. Segments that fail
// to convert are logged and skipped; the loop fails only when none
// converts. Gaps between consecutive segments are healed: gaps below
// precision are ignored, small gaps move an end point, large gaps get an
// extra straight segment. Loops bounding a swept profile are closed back
// to their first segment.
func (k *Kernel) ConvertLoop(l *taxonomy.Loop, opts ...ConvertOption) (w topo.Wire, err error) {
	c := k.begin(l, opts)
	defer c.recover(&err)
	return c.loop(l)
}

func (c *conversion) loop(l *taxonomy.Loop) (topo.Wire, error) {
	c = c.at(l)

	segments := make([]topo.Wire, 0, len(l.Edges))
	for i, e := range l.Edges {
		w, err := c.edge(e)
		if err != nil {
			c.log.Error("failed to convert loop segment", "index", i, "err", err)
			continue
		}
		segments = append(segments, w)
	}
	if len(segments) == 0 {
		c.log.Error("no segment successfully converted")
		return topo.Wire{}, fail(l, ErrNoSegments)
	}

	b := wireBuilder{c: c}
	for i := 1; i < len(segments); i++ {
		b.join(segments[i-1], segments[i], false)
	}
	last := segments[len(segments)-1]
	if l.Profile || c.profile {
		b.join(last, segments[0], true)
	} else {
		b.add(last)
	}
	return b.mw.Wire(), nil
}

// wireBuilder wraps topo.WireBuilder so that consecutive segments are
// connected, either by moving end points or by adding segments.
type wireBuilder struct {
	c  *conversion
	mw topo.WireBuilder

	// overrideNext moves the start of the next segment onto nextOverride.
	overrideNext bool
	nextOverride brep.Point3
}

// add appends the final segment of an open chain.
func (b *wireBuilder) add(w topo.Wire) {
	if b.overrideNext {
		b.overrideNext = false
		w = b.c.adjust(w, w.FirstVertex(), b.nextOverride)
	}
	b.mw.Add(w)
}

// join appends w1 and heals the gap towards w2. last marks the pair that
// closes the loop, which has no following segment to absorb an override.
func (b *wireBuilder) join(w1, w2 topo.Wire, last bool) {
	c := b.c
	if b.overrideNext {
		b.overrideNext = false
		w1 = c.adjust(w1, w1.FirstVertex(), b.nextOverride)
	}

	end, start := w1.LastVertex(), w2.FirstVertex()
	p1, p2 := end.P, start.P
	dist := p1.Distance(p2)

	switch {
	case dist < c.p:
		b.mw.Add(w1)
	case dist > gapFactor*c.p:
		b.bridge(w1, p1, p2, dist)
	default:
		lastEdges := incident(w1, end)
		firstEdges := incident(w2, start)
		if len(lastEdges) != 1 || len(firstEdges) != 1 {
			c.log.Error("internal error, inconsistent wire segments")
			b.mw.Add(w1)
			break
		}

		c1, c2 := lastEdges[0].Curve(), firstEdges[0].Curve()
		isLine1, isLine2 := geom.IsLine(c1), geom.IsLine(c2)
		isCircle1, isCircle2 := geom.IsCircle(c1), geom.IsCircle(c2)

		// The linear segment absorbs the correction where possible.
		switch {
		case isLine1 || (isCircle1 && !isLine2):
			b.mw.Add(c.adjust(w1, end, p2))
			c.log.Info("adjusted edge end point", "distance", dist)
		case (isLine2 || isCircle2) && !last:
			b.mw.Add(w1)
			b.overrideNext = true
			b.nextOverride = p1
			c.log.Info("adjusted edge end point", "distance", dist)
		default:
			b.bridge(w1, p1, p2, dist)
		}
	}

	switch b.mw.Error() {
	case topo.WireNonManifold:
		c.log.Error("non-manifold curve segments")
	case topo.WireDisconnected:
		c.log.Error("failed to join curve segments")
	}
}

// bridge appends w1 followed by a straight segment from p1 to p2.
func (b *wireBuilder) bridge(w1 topo.Wire, p1, p2 brep.Point3, dist float64) {
	b.mw.Add(w1)
	b.mw.AddEdge(topo.MakeSegment(p1, p2, b.c.p))
	b.c.log.Warn("added additional segment to close gap", "length", dist)
}

// adjust returns w with vertex v moved to p. Straight edges are reshaped
// onto the new vertex; a wire ending in a circular edge is rebuilt as the
// circle through its (moved) end points and the original arc midpoint.
// Any other configuration is an internal error and panics.
func (c *conversion) adjust(w topo.Wire, v *topo.Vertex, p brep.Point3) topo.Wire {
	edges := incident(w, v)

	allLinear, singleCircle := true, false
	for _, e := range edges {
		allLinear = allLinear && geom.IsLine(e.Curve())
		singleCircle = geom.IsCircle(e.Curve())
	}

	switch {
	case allLinear:
		return topo.Reshape(w, v, topo.NewVertex(p, v.Tol))
	case singleCircle:
		p1, p3 := w.FirstVertex().P, w.LastVertex().P
		if v == w.FirstVertex() {
			p1 = p
		}
		if v == w.LastVertex() {
			p3 = p
		}
		t0, t1 := edges[0].Range()
		p2 := edges[0].Curve().Point((t0 + t1) / 2)

		circ, ok := geom.CircleThrough(p1, p2, p3)
		if !ok {
			panic("failed to adjust circle")
		}
		return topo.NewWire(topo.MakeCurveEdge(circ, p1, p3, c.p))
	}
	panic("unexpected wire to adjust")
}

// incident returns the distinct edges of w bounded by v.
func incident(w topo.Wire, v *topo.Vertex) []topo.Edge {
	var out []topo.Edge
	for _, e := range w.Edges() {
		if e.FirstVertex() != v && e.LastVertex() != v {
			continue
		}
		dup := false
		for _, o := range out {
			if o.IsSame(e) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return out
}
