package kernel

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/taxonomy"
	"github.com/gogpu/brep/topo"
)

const prec = 1e-5

// newTestKernel returns a kernel logging at debug level into a buffer.
func newTestKernel(t *testing.T) (*Kernel, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(WithPrecision(prec), WithLogger(l)), &buf
}

func seg(a, b brep.Point3) *taxonomy.Edge {
	return &taxonomy.Edge{Start: a, End: b, Orientation: true}
}

// polyLoop returns a closed polygonal loop through pts.
func polyLoop(external bool, pts ...brep.Point3) *taxonomy.Loop {
	l := &taxonomy.Loop{External: &external}
	for i, p := range pts {
		l.Edges = append(l.Edges, seg(p, pts[(i+1)%len(pts)]))
	}
	return l
}

func rect(external bool, x0, y0, x1, y1, z float64) *taxonomy.Loop {
	return polyLoop(external,
		brep.Pt3(x0, y0, z), brep.Pt3(x1, y0, z), brep.Pt3(x1, y1, z), brep.Pt3(x0, y1, z))
}

func volume(t *testing.T, s topo.Shape) float64 {
	t.Helper()
	v, err := topo.Volume(s, 1e-3)
	if err != nil {
		t.Fatalf("Volume: %v", err)
	}
	return v
}

// -------------------------------------------------------------------
// Configuration
// -------------------------------------------------------------------

func TestNew_Defaults(t *testing.T) {
	k := New()
	if got := k.Precision(); got != brep.DefaultPrecision {
		t.Errorf("Precision = %v, want %v", got, brep.DefaultPrecision)
	}
	if k.Config().Logger != nil {
		t.Error("default kernel must use the package logger")
	}

	k = New(WithPrecision(-1), WithDeflection(0))
	if k.Precision() != brep.DefaultPrecision || k.Config().Deflection != 1e-3 {
		t.Errorf("non-positive options must be ignored, got %+v", k.Config())
	}
}

func TestKernel_PackageLogger(t *testing.T) {
	var buf bytes.Buffer
	brep.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer brep.SetLogger(nil)

	k := New()
	_, err := k.ConvertExtrusion(&taxonomy.Extrusion{Base: taxonomy.Base{ID: "#9"}, Depth: 0})
	if !errors.Is(err, ErrNonPositiveHeight) {
		t.Fatalf("err = %v, want ErrNonPositiveHeight", err)
	}
	if !strings.Contains(buf.String(), "instance=#9") {
		t.Errorf("package logger did not receive the message:\n%s", buf.String())
	}
}

// -------------------------------------------------------------------
// Convert
// -------------------------------------------------------------------

func TestConvert_AppendsResult(t *testing.T) {
	k, _ := newTestKernel(t)
	style := &taxonomy.Style{Name: "brick"}
	ext := &taxonomy.Extrusion{
		Base:      taxonomy.Base{ID: "#1"},
		Basis:     &taxonomy.Face{Loops: []*taxonomy.Loop{rect(true, 0, 0, 1, 1, 0)}},
		Direction: brep.V3(0, 0, 1),
		Depth:     1,
		Style:     style,
	}
	placement := brep.Translation(brep.V3(0, 0, 10))

	var results []ConversionResult
	if err := k.Convert(ext, &results); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if err := k.Convert(ext, &results, WithPlacement(placement)); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	r := results[0]
	if r.ID != "#1" || r.Style != style {
		t.Errorf("result = %+v", r)
	}
	if !r.Placement.IsIdentity() {
		t.Error("default placement must be the identity")
	}
	if results[1].Placement != placement {
		t.Errorf("placement = %v, want %v", results[1].Placement, placement)
	}
	if _, ok := r.Shape.(*topo.Solid); !ok {
		t.Errorf("shape = %T, want *topo.Solid", r.Shape)
	}
}

func TestConvert_Unsupported(t *testing.T) {
	k, _ := newTestKernel(t)
	var results []ConversionResult
	err := k.Convert(&taxonomy.Line{Origin: brep.Pt3(0, 0, 0), Direction: brep.V3(1, 0, 0)}, &results)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want none", len(results))
	}
}

// A full circle followed by a non-linear segment cannot be adjusted: the
// circle through its coincident end points is undefined.
func unadjustableLoop() *taxonomy.Loop {
	gap := 2 * prec
	return &taxonomy.Loop{Edges: []*taxonomy.Edge{
		{
			Start: brep.Pt3(1, 0, 0), End: brep.Pt3(1, 0, 0), Orientation: true,
			Basis: &taxonomy.Circle{Center: brep.Pt3(0, 0, 0), Z: brep.V3(0, 0, 1), X: brep.V3(1, 0, 0), Radius: 1},
		},
		{
			Start: brep.Pt3(1+gap, 0, 0), End: brep.Pt3(3+gap, 1, 0), Orientation: true,
			Basis: &taxonomy.Ellipse{Center: brep.Pt3(3+gap, 0, 0), Z: brep.V3(0, 0, 1), X: brep.V3(1, 0, 0), Radius: 2, Radius2: 1},
		},
	}}
}

func TestConvert_RecoversInternalErrors(t *testing.T) {
	k, buf := newTestKernel(t)
	face := &taxonomy.Face{Base: taxonomy.Base{ID: "#66"}, Loops: []*taxonomy.Loop{unadjustableLoop()}}

	var results []ConversionResult
	err := k.Convert(face, &results)
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("err = %v, want ErrInternal", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want none", len(results))
	}
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("internal error not logged:\n%s", buf.String())
	}

	if _, err := k.ConvertLoop(unadjustableLoop()); !errors.Is(err, ErrInternal) {
		t.Errorf("ConvertLoop err = %v, want ErrInternal", err)
	}
}

func TestConvert_LogsInstance(t *testing.T) {
	k, buf := newTestKernel(t)
	face := &taxonomy.Face{Base: taxonomy.Base{ID: "#7"}}

	var results []ConversionResult
	if err := k.Convert(face, &results); !errors.Is(err, ErrNoBoundaries) {
		t.Fatalf("err = %v, want ErrNoBoundaries", err)
	}
	if !strings.Contains(buf.String(), "instance=#7") {
		t.Errorf("log does not name the instance:\n%s", buf.String())
	}
}

func TestKernel_ConcurrentUse(t *testing.T) {
	k := New()
	ext := &taxonomy.Extrusion{
		Basis:     &taxonomy.Face{Loops: []*taxonomy.Loop{rect(true, 0, 0, 2, 1, 0)}},
		Direction: brep.V3(0, 0, 1),
		Depth:     3,
	}

	var wg sync.WaitGroup
	vols := make([]float64, 8)
	errs := make([]error, 8)
	for i := range vols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := k.ConvertExtrusion(ext)
			if err != nil {
				errs[i] = err
				return
			}
			vols[i], errs[i] = topo.Volume(s, 1e-3)
		}()
	}
	wg.Wait()

	for i := range vols {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if math.Abs(vols[i]-6) > 1e-9 {
			t.Errorf("goroutine %d: volume = %v, want 6", i, vols[i])
		}
	}
}
