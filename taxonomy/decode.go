package taxonomy

import (
	"errors"
	"fmt"
	"io"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/brep"
)

// ErrInvalidDocument is returned for documents that do not describe
// taxonomy items.
var ErrInvalidDocument = errors.New("taxonomy: invalid document")

// Decode reads every YAML document from r and returns the top-level items
// in order. A document is a single item, a list of items, or a map with
// an "items" list. Items are maps with a "kind" key:
//
//	kind: extrusion
//	instance: "#42"
//	depth: 3
//	direction: [0, 0, 1]
//	basis:
//	  kind: face
//	  loops:
//	    - external: true
//	      edges:
//	        - {start: [0, 0, 0], end: [1, 0, 0]}
//	        - {start: [1, 0, 0], end: [0, 1, 0]}
//	        - {start: [0, 1, 0], end: [0, 0, 0]}
func Decode(r io.Reader) ([]Item, error) {
	dec := yaml.NewDecoder(r)
	var items []Item
	for {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, fmt.Errorf("taxonomy: parse yaml: %w", err)
		}
		got, err := decodeDocument(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, got...)
	}
}

func decodeDocument(doc any) ([]Item, error) {
	switch v := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		return decodeList(v)
	case map[string]any:
		if list, ok := v["items"]; ok {
			raw, ok := list.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: items must be a list", ErrInvalidDocument)
			}
			return decodeList(raw)
		}
		it, err := DecodeItem(v)
		if err != nil {
			return nil, err
		}
		return []Item{it}, nil
	}
	return nil, fmt.Errorf("%w: unexpected %T", ErrInvalidDocument, doc)
}

func decodeList(raw []any) ([]Item, error) {
	items := make([]Item, 0, len(raw))
	for i, v := range raw {
		it, err := DecodeItem(v)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// raw mirrors the union of all item fields as they appear in documents.
type raw struct {
	Kind     string `mapstructure:"kind"`
	Instance string `mapstructure:"instance"`

	Basis     any         `mapstructure:"basis"`
	Direction []float64   `mapstructure:"direction"`
	Depth     float64     `mapstructure:"depth"`
	Matrix    [][]float64 `mapstructure:"matrix"`
	Style     *rawStyle   `mapstructure:"style"`

	Loops []any `mapstructure:"loops"`
	Faces []any `mapstructure:"faces"`
	Edges []any `mapstructure:"edges"`

	External    *bool `mapstructure:"external"`
	Orientation *bool `mapstructure:"orientation"`
	Profile     bool  `mapstructure:"profile"`
	Closed      bool  `mapstructure:"closed"`

	Start  []float64 `mapstructure:"start"`
	End    []float64 `mapstructure:"end"`
	Origin []float64 `mapstructure:"origin"`
	Normal []float64 `mapstructure:"normal"`
	Axis   []float64 `mapstructure:"axis"`
	XDir   []float64 `mapstructure:"xdir"`

	Radius  float64 `mapstructure:"radius"`
	Radius2 float64 `mapstructure:"radius2"`

	Degree  int         `mapstructure:"degree"`
	Control [][]float64 `mapstructure:"control"`
	Knots   []float64   `mapstructure:"knots"`
	Mults   []int       `mapstructure:"mults"`
	Weights []float64   `mapstructure:"weights"`
}

type rawStyle struct {
	Name         string     `mapstructure:"name"`
	Color        [3]float64 `mapstructure:"color"`
	Transparency float64    `mapstructure:"transparency"`
}

// DecodeItem converts a generic map, as produced by a YAML or JSON
// decoder, into an item.
func DecodeItem(v any) (Item, error) {
	var r raw
	if err := mapstructure.Decode(v, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	d := decoder{r: &r}
	it := d.item()
	if d.err != nil {
		if r.Instance != "" {
			return nil, fmt.Errorf("%s %s: %w", r.Kind, r.Instance, d.err)
		}
		return nil, fmt.Errorf("%s: %w", r.Kind, d.err)
	}
	return it, nil
}

// decoder converts one raw item, recording the first error.
type decoder struct {
	r   *raw
	err error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: "+format, append([]any{ErrInvalidDocument}, args...)...)
	}
}

func (d *decoder) item() Item {
	base := Base{ID: d.r.Instance}
	switch d.r.Kind {
	case "extrusion":
		return d.extrusion(base)
	case "face":
		return d.face(base)
	case "loop":
		return d.loop(base)
	case "edge", "":
		// Edges are the only items commonly written without a kind.
		return d.edge(base)
	case "line":
		return &Line{Base: base, Origin: d.point("origin", d.r.Origin), Direction: d.vec("direction", d.r.Direction)}
	case "circle":
		return &Circle{Base: base, Center: d.point("origin", d.r.Origin), Z: d.vecOr(d.r.Axis, brep.V3(0, 0, 1)),
			X: d.vecOr(d.r.XDir, brep.V3(1, 0, 0)), Radius: d.positive("radius", d.r.Radius)}
	case "ellipse":
		return &Ellipse{Base: base, Center: d.point("origin", d.r.Origin), Z: d.vecOr(d.r.Axis, brep.V3(0, 0, 1)),
			X: d.vecOr(d.r.XDir, brep.V3(1, 0, 0)), Radius: d.positive("radius", d.r.Radius),
			Radius2: d.positive("radius2", d.r.Radius2)}
	case "bspline_curve":
		ctrl := make([]brep.Point3, len(d.r.Control))
		for i, c := range d.r.Control {
			ctrl[i] = d.point("control", c)
		}
		return &BSplineCurve{Base: base, Degree: d.r.Degree, Control: ctrl, Knots: d.r.Knots, Mults: d.r.Mults, Weights: d.r.Weights}
	case "matrix4":
		return d.matrix()
	case "shell":
		s := &Shell{Base: base, Closed: d.r.Closed, Style: d.style()}
		for _, f := range d.r.Faces {
			if face, ok := d.child(withKind(f, "face")).(*Face); ok {
				s.Faces = append(s.Faces, face)
			} else {
				d.fail("shell faces must be faces")
			}
		}
		return s
	case "plane":
		return &PlaneSurface{Base: base, Origin: d.point("origin", d.r.Origin),
			Normal: d.vecOr(d.r.Normal, brep.V3(0, 0, 1)), XDir: d.vecOr(d.r.XDir, brep.Vec3{})}
	case "cylinder":
		return &CylinderSurface{Base: base, Origin: d.point("origin", d.r.Origin),
			Axis: d.vecOr(d.r.Axis, brep.V3(0, 0, 1)), XDir: d.vecOr(d.r.XDir, brep.Vec3{}),
			Radius: d.positive("radius", d.r.Radius)}
	}
	d.fail("unknown kind %q", d.r.Kind)
	return nil
}

func (d *decoder) extrusion(base Base) *Extrusion {
	e := &Extrusion{
		Base:      base,
		Direction: d.vecOr(d.r.Direction, brep.V3(0, 0, 1)),
		Depth:     d.r.Depth,
		Matrix:    d.matrix(),
		Style:     d.style(),
	}
	face, ok := d.child(withKind(d.r.Basis, "face")).(*Face)
	if !ok {
		d.fail("extrusion basis must be a face")
		return e
	}
	// Loops of a swept profile are closed explicitly.
	for _, l := range face.Loops {
		l.Profile = true
	}
	e.Basis = face
	return e
}

func (d *decoder) face(base Base) *Face {
	f := &Face{Base: base, Style: d.style()}
	for _, l := range d.r.Loops {
		if loop, ok := d.child(withKind(l, "loop")).(*Loop); ok {
			f.Loops = append(f.Loops, loop)
		} else {
			d.fail("face loops must be loops")
		}
	}
	if d.r.Basis != nil {
		s, ok := d.child(d.r.Basis).(Surface)
		if !ok {
			d.fail("face basis must be a surface")
		}
		f.Basis = s
	}
	return f
}

func (d *decoder) loop(base Base) *Loop {
	l := &Loop{Base: base, External: d.r.External, Orientation: d.r.Orientation, Profile: d.r.Profile}
	for _, e := range d.r.Edges {
		if edge, ok := d.child(e).(*Edge); ok {
			l.Edges = append(l.Edges, edge)
		} else {
			d.fail("loop edges must be edges")
		}
	}
	return l
}

func (d *decoder) edge(base Base) *Edge {
	e := &Edge{
		Base:        base,
		Start:       d.point("start", d.r.Start),
		End:         d.point("end", d.r.End),
		Orientation: d.r.Orientation == nil || *d.r.Orientation,
	}
	if d.r.Basis != nil {
		c, ok := d.child(d.r.Basis).(Curve)
		if !ok {
			d.fail("edge basis must be a curve")
		}
		e.Basis = c
	}
	return e
}

// matrix reads the "matrix" field: 3 or 4 rows of 4 values. Missing
// matrices are the identity.
func (d *decoder) matrix() *Matrix4 {
	m := &Matrix4{Base: Base{ID: d.r.Instance}, M: brep.Identity4()}
	if d.r.Matrix == nil {
		return m
	}
	if len(d.r.Matrix) != 3 && len(d.r.Matrix) != 4 {
		d.fail("matrix needs 3 or 4 rows, got %d", len(d.r.Matrix))
		return m
	}
	rows := [4][4]float64{3: {0, 0, 0, 1}}
	for i, row := range d.r.Matrix {
		if len(row) != 4 {
			d.fail("matrix row %d needs 4 values, got %d", i, len(row))
			return m
		}
		copy(rows[i][:], row)
	}
	m.M = brep.FromRows(rows)
	return m
}

func (d *decoder) style() *Style {
	if d.r.Style == nil {
		return nil
	}
	return &Style{Name: d.r.Style.Name, Color: d.r.Style.Color, Transparency: d.r.Style.Transparency}
}

func (d *decoder) child(v any) Item {
	if d.err != nil {
		return nil
	}
	it, err := DecodeItem(v)
	if err != nil {
		d.err = err
		return nil
	}
	return it
}

func (d *decoder) point(field string, v []float64) brep.Point3 {
	if len(v) != 3 {
		d.fail("%s needs 3 coordinates, got %d", field, len(v))
		return brep.Point3{}
	}
	return brep.Pt3(v[0], v[1], v[2])
}

func (d *decoder) vec(field string, v []float64) brep.Vec3 {
	return d.point(field, v).Vec()
}

func (d *decoder) vecOr(v []float64, def brep.Vec3) brep.Vec3 {
	if v == nil {
		return def
	}
	return d.vec("direction", v)
}

func (d *decoder) positive(field string, v float64) float64 {
	if v <= 0 {
		d.fail("%s must be positive, got %v", field, v)
	}
	return v
}

// withKind fills in a default kind for nested maps that omit it.
func withKind(v any, kind string) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if _, ok := m["kind"]; ok {
		return v
	}
	out := make(map[string]any, len(m)+1)
	for k, val := range m {
		out[k] = val
	}
	out["kind"] = kind
	return out
}
