package kernel

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/geom"
	"github.com/gogpu/brep/taxonomy"
	"github.com/gogpu/brep/topo"
)

// gapLoop returns a triangle whose second edge starts gap away from the end
// of the first.
func gapLoop(gap float64) *taxonomy.Loop {
	return &taxonomy.Loop{Edges: []*taxonomy.Edge{
		seg(brep.Pt3(0, 0, 0), brep.Pt3(1, 0, 0)),
		seg(brep.Pt3(1, gap, 0), brep.Pt3(1, 1, 0)),
		seg(brep.Pt3(1, 1, 0), brep.Pt3(0, 0, 0)),
	}}
}

func TestConvertLoop_CoincidentEndPoints(t *testing.T) {
	k, buf := newTestKernel(t)
	w, err := k.ConvertLoop(gapLoop(0))
	if err != nil {
		t.Fatalf("ConvertLoop: %v", err)
	}
	if w.NumEdges() != 3 {
		t.Errorf("NumEdges = %d, want 3", w.NumEdges())
	}
	if !w.Closed() {
		t.Error("wire must close on its first vertex")
	}
	if log := buf.String(); strings.Contains(log, "additional segment") || strings.Contains(log, "adjusted") {
		t.Errorf("coincident end points must join as-is:\n%s", log)
	}
}

func TestConvertLoop_SmallGapAdjusted(t *testing.T) {
	k, buf := newTestKernel(t)
	gap := 2 * prec
	w, err := k.ConvertLoop(gapLoop(gap))
	if err != nil {
		t.Fatalf("ConvertLoop: %v", err)
	}
	if w.NumEdges() != 3 {
		t.Errorf("NumEdges = %d, want 3 (no synthetic edge)", w.NumEdges())
	}
	if !w.Closed() {
		t.Error("wire must be closed")
	}

	// The straight first edge absorbed the gap.
	if got := w.Edges()[0].End(); got != brep.Pt3(1, gap, 0) {
		t.Errorf("first edge ends at %v, want (1, %v, 0)", got, gap)
	}
	if got := w.Edges()[1].Start(); got != brep.Pt3(1, gap, 0) {
		t.Errorf("second edge starts at %v", got)
	}

	log := buf.String()
	if !strings.Contains(log, "level=INFO") || !strings.Contains(log, "adjusted edge end point") {
		t.Errorf("adjustment not logged:\n%s", log)
	}
	if strings.Contains(log, "additional segment") {
		t.Errorf("unexpected synthetic segment:\n%s", log)
	}
}

func TestConvertLoop_LargeGapBridged(t *testing.T) {
	k, buf := newTestKernel(t)
	gap := 2000 * prec
	w, err := k.ConvertLoop(gapLoop(gap))
	if err != nil {
		t.Fatalf("ConvertLoop: %v", err)
	}
	if w.NumEdges() != 4 {
		t.Fatalf("NumEdges = %d, want 4", w.NumEdges())
	}
	bridge := w.Edges()[1]
	if bridge.Start() != brep.Pt3(1, 0, 0) || bridge.End() != brep.Pt3(1, gap, 0) {
		t.Errorf("bridge runs %v -> %v", bridge.Start(), bridge.End())
	}
	if !w.Closed() {
		t.Error("wire must be closed")
	}

	log := buf.String()
	if !strings.Contains(log, "level=WARN") || !strings.Contains(log, "added additional segment to close gap") {
		t.Errorf("synthetic segment not logged as warning:\n%s", log)
	}
}

func TestConvertLoop_NeverDropsSegments(t *testing.T) {
	tests := []struct {
		name string
		gap  float64
	}{
		{"coincident", 0},
		{"below precision", prec / 2},
		{"small", 10 * prec},
		{"at limit", 999 * prec},
		{"large", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, _ := newTestKernel(t)
			l := gapLoop(tt.gap)
			w, err := k.ConvertLoop(l)
			if err != nil {
				t.Fatalf("ConvertLoop: %v", err)
			}
			if w.NumEdges() < len(l.Edges) {
				t.Errorf("NumEdges = %d, fewer than %d segments", w.NumEdges(), len(l.Edges))
			}
		})
	}
}

func TestConvertLoop_OverridesNextStart(t *testing.T) {
	k, buf := newTestKernel(t)
	gap := 3 * prec
	l := &taxonomy.Loop{Edges: []*taxonomy.Edge{
		{
			Start: brep.Pt3(1, 0, 0), End: brep.Pt3(0, 1, 0), Orientation: true,
			Basis: &taxonomy.Circle{Center: brep.Pt3(0, 0, 0), Z: brep.V3(0, 0, 1), X: brep.V3(1, 0, 0), Radius: 1},
		},
		seg(brep.Pt3(0, 1+gap, 0), brep.Pt3(0, 0, 0)),
		seg(brep.Pt3(0, 0, 0), brep.Pt3(1, 0, 0)),
	}}

	w, err := k.ConvertLoop(l)
	if err != nil {
		t.Fatalf("ConvertLoop: %v", err)
	}
	if w.NumEdges() != 3 || !w.Closed() {
		t.Fatalf("NumEdges = %d, closed = %v", w.NumEdges(), w.Closed())
	}
	edges := w.Edges()
	if !geom.IsCircle(edges[0].Curve()) {
		t.Errorf("arc was replaced by %T", edges[0].Curve())
	}
	// The line following the arc moved its start onto the arc end.
	if got := edges[1].Start(); !got.Approx(brep.Pt3(0, 1, 0), 1e-12) {
		t.Errorf("line starts at %v, want (0, 1, 0)", got)
	}
	if !strings.Contains(buf.String(), "adjusted edge end point") {
		t.Errorf("adjustment not logged:\n%s", buf.String())
	}
}

func TestConvertLoop_AdjustsCircle(t *testing.T) {
	k, _ := newTestKernel(t)
	gap := 5 * prec
	l := &taxonomy.Loop{Edges: []*taxonomy.Edge{
		{
			Start: brep.Pt3(1, 0, 0), End: brep.Pt3(0, 1, 0), Orientation: true,
			Basis: &taxonomy.Circle{Center: brep.Pt3(0, 0, 0), Z: brep.V3(0, 0, 1), X: brep.V3(1, 0, 0), Radius: 1},
		},
		{
			Start: brep.Pt3(0, 1+gap, 0), End: brep.Pt3(-1, 2+gap, 0), Orientation: true,
			Basis: &taxonomy.Circle{Center: brep.Pt3(-1, 1+gap, 0), Z: brep.V3(0, 0, 1), X: brep.V3(1, 0, 0), Radius: 1},
		},
	}}

	w, err := k.ConvertLoop(l)
	if err != nil {
		t.Fatalf("ConvertLoop: %v", err)
	}
	if w.NumEdges() != 2 {
		t.Fatalf("NumEdges = %d, want 2", w.NumEdges())
	}
	arc := w.Edges()[0]
	if got := arc.End(); got != brep.Pt3(0, 1+gap, 0) {
		t.Errorf("arc ends at %v, want (0, %v, 0)", got, 1+gap)
	}
	c, ok := arc.Curve().(geom.Circle)
	if !ok {
		t.Fatalf("arc curve = %T, want geom.Circle", arc.Curve())
	}
	// The new circle still passes through the original arc midpoint.
	mid := brep.Pt3(math.Sqrt2/2, math.Sqrt2/2, 0)
	if d := mid.Distance(c.Center); math.Abs(d-c.Radius) > 1e-9 {
		t.Errorf("midpoint off the adjusted circle by %v", d-c.Radius)
	}
	t0, _ := arc.Range()
	if p := c.Point(t0); !p.Approx(brep.Pt3(1, 0, 0), 1e-9) {
		t.Errorf("arc starts at %v, want (1, 0, 0)", p)
	}
}

func TestConvertLoop_ProfileIsClosed(t *testing.T) {
	k, buf := newTestKernel(t)
	// The last edge stops short of the start.
	l := &taxonomy.Loop{Profile: true, Edges: []*taxonomy.Edge{
		seg(brep.Pt3(0, 0, 0), brep.Pt3(1, 0, 0)),
		seg(brep.Pt3(1, 0, 0), brep.Pt3(1, 1, 0)),
		seg(brep.Pt3(1, 1, 0), brep.Pt3(0, 1, 0)),
	}}
	w, err := k.ConvertLoop(l)
	if err != nil {
		t.Fatalf("ConvertLoop: %v", err)
	}
	if w.NumEdges() != 4 || !w.Closed() {
		t.Errorf("NumEdges = %d, closed = %v; want a closed square", w.NumEdges(), w.Closed())
	}
	if !strings.Contains(buf.String(), "added additional segment") {
		t.Errorf("closing segment not logged:\n%s", buf.String())
	}

	// Without the profile flag the chain stays open.
	l.Profile = false
	w, err = k.ConvertLoop(l)
	if err != nil {
		t.Fatalf("ConvertLoop: %v", err)
	}
	if w.NumEdges() != 3 || w.Closed() {
		t.Errorf("NumEdges = %d, closed = %v; want an open chain", w.NumEdges(), w.Closed())
	}
}

func TestConvertLoop_ReversedEdge(t *testing.T) {
	k, _ := newTestKernel(t)
	l := gapLoop(0)
	// Same geometry, second edge stored backwards.
	l.Edges[1] = &taxonomy.Edge{Start: brep.Pt3(1, 1, 0), End: brep.Pt3(1, 0, 0), Orientation: false}

	w, err := k.ConvertLoop(l)
	if err != nil {
		t.Fatalf("ConvertLoop: %v", err)
	}
	if w.NumEdges() != 3 || !w.Closed() {
		t.Errorf("NumEdges = %d, closed = %v", w.NumEdges(), w.Closed())
	}
	if got := w.Edges()[1].Start(); got != brep.Pt3(1, 0, 0) {
		t.Errorf("reversed edge starts at %v, want (1, 0, 0)", got)
	}
}

func TestConvertLoop_NoSegments(t *testing.T) {
	k, buf := newTestKernel(t)
	tests := []struct {
		name string
		loop *taxonomy.Loop
	}{
		{"empty", &taxonomy.Loop{}},
		{"degenerate", &taxonomy.Loop{Edges: []*taxonomy.Edge{seg(brep.Pt3(1, 1, 1), brep.Pt3(1, 1, 1))}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := k.ConvertLoop(tt.loop)
			if !errors.Is(err, ErrNoSegments) {
				t.Errorf("err = %v, want ErrNoSegments", err)
			}
		})
	}
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Error("failure not logged as error")
	}
}

func TestConvertLoop_SkipsBadSegment(t *testing.T) {
	k, buf := newTestKernel(t)
	l := gapLoop(0)
	l.Edges = append(l.Edges, seg(brep.Pt3(0, 0, 0), brep.Pt3(0, 0, 0)))

	w, err := k.ConvertLoop(l)
	if err != nil {
		t.Fatalf("ConvertLoop: %v", err)
	}
	if w.NumEdges() != 3 {
		t.Errorf("NumEdges = %d, want 3", w.NumEdges())
	}
	if !strings.Contains(buf.String(), "failed to convert loop segment") {
		t.Errorf("skipped segment not logged:\n%s", buf.String())
	}
}

func TestConvertEdge(t *testing.T) {
	k, _ := newTestKernel(t)
	e := &taxonomy.Edge{
		Start: brep.Pt3(0, 0, 0), End: brep.Pt3(2, 0, 0),
		Basis: &taxonomy.Line{Origin: brep.Pt3(5, 0, 0), Direction: brep.V3(-1, 0, 0)},
	}
	w, err := k.ConvertEdge(e)
	if err != nil {
		t.Fatalf("ConvertEdge: %v", err)
	}
	if w.NumEdges() != 1 {
		t.Fatalf("NumEdges = %d", w.NumEdges())
	}
	// Orientation false: traversed from End to Start.
	if first, last := w.FirstVertex().P, w.LastVertex().P; first != brep.Pt3(2, 0, 0) || last != brep.Pt3(0, 0, 0) {
		t.Errorf("wire runs %v -> %v", first, last)
	}
	for _, v := range topo.Vertices(w) {
		if v.Tol != prec {
			t.Errorf("vertex tolerance = %v, want %v", v.Tol, prec)
		}
	}
}

func TestConvertCurve(t *testing.T) {
	k, _ := newTestKernel(t)
	tests := []struct {
		name    string
		curve   taxonomy.Curve
		want    func(geom.Curve) bool
		wantErr error
	}{
		{"line", &taxonomy.Line{Origin: brep.Pt3(0, 0, 0), Direction: brep.V3(0, 2, 0)}, geom.IsLine, nil},
		{"circle", &taxonomy.Circle{Z: brep.V3(0, 0, 1), X: brep.V3(1, 0, 0), Radius: 1}, geom.IsCircle, nil},
		{"ellipse", &taxonomy.Ellipse{Z: brep.V3(0, 0, 1), X: brep.V3(1, 0, 0), Radius: 2, Radius2: 1},
			func(c geom.Curve) bool { _, ok := c.(geom.Ellipse); return ok }, nil},
		{"bspline", &taxonomy.BSplineCurve{
			Degree:  1,
			Control: []brep.Point3{brep.Pt3(0, 0, 0), brep.Pt3(1, 0, 0)},
			Knots:   []float64{0, 1},
			Mults:   []int{2, 2},
		}, func(c geom.Curve) bool { _, ok := c.(geom.BSpline); return ok }, nil},
		{"zero direction", &taxonomy.Line{}, nil, ErrDegenerate},
		{"bad bspline", &taxonomy.BSplineCurve{Degree: 3}, nil, ErrDegenerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := k.ConvertCurve(tt.curve)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ConvertCurve: %v", err)
			}
			if !tt.want(c) {
				t.Errorf("got %T", c)
			}
		})
	}
}
