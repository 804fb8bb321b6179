// Package export writes converted shapes to mesh files and renders plan
// view previews.
//
// Every face is triangulated with topo.MeshFace and moved into world
// coordinates by the placement of its result. Triangles are wound
// counter-clockwise about the outward face normal.
package export

import (
	"fmt"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/kernel"
	"github.com/gogpu/brep/topo"
)

// DefaultDeflection is the chord deflection used to sample curved edges.
const DefaultDeflection = 1e-3

// Option configures the writers.
type Option func(*config)

type config struct {
	deflection float64
	width      int
	height     int
	labels     bool
}

func newConfig(opts []Option) config {
	cfg := config{
		deflection: DefaultDeflection,
		width:      512,
		height:     512,
		labels:     true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithDeflection sets the chord deflection for curved edges. Values <= 0
// are ignored.
func WithDeflection(d float64) Option {
	return func(c *config) {
		if d > 0 {
			c.deflection = d
		}
	}
}

// WithSize sets the preview image size in pixels.
func WithSize(width, height int) Option {
	return func(c *config) {
		if width > 0 && height > 0 {
			c.width, c.height = width, height
		}
	}
}

// WithLabels enables or disables drawing result identifiers on the
// preview.
func WithLabels(on bool) Option {
	return func(c *config) { c.labels = on }
}

// object is the world space mesh of one result.
type object struct {
	name   string
	result kernel.ConversionResult
	mesh   topo.Mesh
}

func meshResults(results []kernel.ConversionResult, deflection float64) ([]object, error) {
	objects := make([]object, 0, len(results))
	for i, r := range results {
		if r.Shape == nil {
			continue
		}
		m, err := topo.MeshShape(r.Shape, deflection)
		if err != nil {
			return nil, fmt.Errorf("export: result %s: %w", objectName(r, i), err)
		}
		for j, p := range m.Points {
			m.Points[j] = r.Placement.TransformPoint(p)
		}
		if r.Placement.ReversesOrientation() {
			for j, t := range m.Triangles {
				m.Triangles[j] = [3]int{t[0], t[2], t[1]}
			}
		}
		objects = append(objects, object{name: objectName(r, i), result: r, mesh: m})
	}
	return objects, nil
}

func objectName(r kernel.ConversionResult, i int) string {
	if r.ID != "" {
		return r.ID
	}
	return fmt.Sprintf("result_%d", i)
}

// triangleNormal returns the unit normal of a counter-clockwise triangle,
// or the zero vector for a degenerate one.
func triangleNormal(a, b, c brep.Point3) brep.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.IsZero() {
		return brep.Vec3{}
	}
	return n.Normalize()
}
