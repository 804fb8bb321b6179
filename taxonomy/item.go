// Package taxonomy defines the geometric description tree consumed by the
// conversion kernel: extrusions, faces, loops, edges, analytic curves and
// placements. Items are read-only input owned by the caller.
package taxonomy

import (
	"github.com/gogpu/brep"
)

// Kind identifies an item variant.
type Kind int

const (
	KindExtrusion Kind = iota
	KindFace
	KindLoop
	KindEdge
	KindLine
	KindCircle
	KindEllipse
	KindBSplineCurve
	KindMatrix4
	KindShell
	KindPlane
	KindCylinder
)

var kindNames = [...]string{
	KindExtrusion:    "extrusion",
	KindFace:         "face",
	KindLoop:         "loop",
	KindEdge:         "edge",
	KindLine:         "line",
	KindCircle:       "circle",
	KindEllipse:      "ellipse",
	KindBSplineCurve: "bspline_curve",
	KindMatrix4:      "matrix4",
	KindShell:        "shell",
	KindPlane:        "plane",
	KindCylinder:     "cylinder",
}

// String returns the name used for the kind in documents.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Item is a node of the taxonomy tree. The variants are the pointer types
// declared in this package.
type Item interface {
	// Instance returns the identifier of the source entity, possibly empty.
	Instance() string
	Kind() Kind
	isItem()
}

// Curve is an item usable as the basis of an edge.
type Curve interface {
	Item
	isCurve()
}

// Surface is an item usable as the basis of a face.
type Surface interface {
	Item
	isSurface()
}

// Base carries the source entity identifier shared by all items.
type Base struct {
	ID string
}

// Instance returns the source entity identifier.
func (b Base) Instance() string { return b.ID }

// Style is the visual style attached to a conversion result.
type Style struct {
	Name         string
	Color        [3]float64
	Transparency float64
}

// Matrix4 is a placement. The zero value is not the identity; use
// Identity.
type Matrix4 struct {
	Base
	M brep.Matrix4
}

// Identity returns an identity placement.
func Identity() *Matrix4 { return &Matrix4{M: brep.Identity4()} }

// Extrusion sweeps Basis along Direction by Depth, then moves the result
// by Matrix.
type Extrusion struct {
	Base
	Basis     *Face
	Direction brep.Vec3
	Depth     float64
	Matrix    *Matrix4
	Style     *Style
}

// Face is a surface region bounded by loops.
type Face struct {
	Base
	Loops []*Loop
	// Basis is the supporting surface. When nil it is inferred from the
	// outer loop.
	Basis Surface
	Style *Style
}

// Loop is a closed boundary.
type Loop struct {
	Base
	Edges []*Edge
	// External marks the outer boundary. nil counts as false.
	External *bool
	// Orientation reports whether the loop runs in the same sense as the
	// face. nil counts as true.
	Orientation *bool
	// Profile marks a loop bounding a swept profile; such loops are
	// always closed back to their start. Loops of an Extrusion basis are
	// closed whether or not the flag is set.
	Profile bool
}

// IsExternal reports whether the loop is flagged as outer boundary.
func (l *Loop) IsExternal() bool { return l.External != nil && *l.External }

// SameSense reports whether the loop agrees with the face orientation.
func (l *Loop) SameSense() bool { return l.Orientation == nil || *l.Orientation }

// IsPolyhedral reports whether every edge is straight.
func (l *Loop) IsPolyhedral() bool {
	for _, e := range l.Edges {
		if e.Basis != nil && e.Basis.Kind() != KindLine {
			return false
		}
	}
	return true
}

// Edge is a curve segment from Start to End. A nil Basis means a straight
// segment. Orientation false traverses the segment from End to Start.
type Edge struct {
	Base
	Start, End  brep.Point3
	Basis       Curve
	Orientation bool
}

// Line is an infinite line.
type Line struct {
	Base
	Origin    brep.Point3
	Direction brep.Vec3
}

// Circle lies in the plane through Center orthogonal to Z, starting at X.
type Circle struct {
	Base
	Center brep.Point3
	Z, X   brep.Vec3
	Radius float64
}

// Ellipse is like Circle with a second semi-axis along Z × X.
type Ellipse struct {
	Base
	Center  brep.Point3
	Z, X    brep.Vec3
	Radius  float64
	Radius2 float64
}

// BSplineCurve is a (rational) B-spline in knot/multiplicity form.
type BSplineCurve struct {
	Base
	Degree  int
	Control []brep.Point3
	Knots   []float64
	Mults   []int
	Weights []float64
}

// PlaneSurface is an unbounded plane.
type PlaneSurface struct {
	Base
	Origin brep.Point3
	Normal brep.Vec3
	XDir   brep.Vec3
}

// CylinderSurface is an unbounded circular cylinder.
type CylinderSurface struct {
	Base
	Origin brep.Point3
	Axis   brep.Vec3
	XDir   brep.Vec3
	Radius float64
}

// Shell is a connected set of faces.
type Shell struct {
	Base
	Faces  []*Face
	Closed bool
	Style  *Style
}

func (*Extrusion) isItem()       {}
func (*Face) isItem()            {}
func (*Loop) isItem()            {}
func (*Edge) isItem()            {}
func (*Line) isItem()            {}
func (*Circle) isItem()          {}
func (*Ellipse) isItem()         {}
func (*BSplineCurve) isItem()    {}
func (*Matrix4) isItem()         {}
func (*Shell) isItem()           {}
func (*PlaneSurface) isItem()    {}
func (*CylinderSurface) isItem() {}

func (*Line) isCurve()         {}
func (*Circle) isCurve()       {}
func (*Ellipse) isCurve()      {}
func (*BSplineCurve) isCurve() {}

func (*PlaneSurface) isSurface()    {}
func (*CylinderSurface) isSurface() {}

func (*Extrusion) Kind() Kind       { return KindExtrusion }
func (*Face) Kind() Kind            { return KindFace }
func (*Loop) Kind() Kind            { return KindLoop }
func (*Edge) Kind() Kind            { return KindEdge }
func (*Line) Kind() Kind            { return KindLine }
func (*Circle) Kind() Kind          { return KindCircle }
func (*Ellipse) Kind() Kind         { return KindEllipse }
func (*BSplineCurve) Kind() Kind    { return KindBSplineCurve }
func (*Matrix4) Kind() Kind         { return KindMatrix4 }
func (*Shell) Kind() Kind           { return KindShell }
func (*PlaneSurface) Kind() Kind    { return KindPlane }
func (*CylinderSurface) Kind() Kind { return KindCylinder }
