package taxonomy

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/brep"
)

func ptr[T any](v T) *T { return &v }

func TestDecode_Extrusion(t *testing.T) {
	doc := `
kind: extrusion
instance: "#42"
depth: 3
direction: [0, 0, 1]
matrix:
  - [1, 0, 0, 5]
  - [0, 1, 0, 0]
  - [0, 0, 1, 0]
style: {name: concrete, color: [0.5, 0.5, 0.5]}
basis:
  instance: "#41"
  loops:
    - external: true
      edges:
        - {start: [0, 0, 0], end: [1, 0, 0]}
        - {start: [1, 0, 0], end: [0, 1, 0], orientation: false}
        - start: [0, 1, 0]
          end: [0, 0, 0]
          basis: {kind: line, origin: [0, 1, 0], direction: [0, -1, 0]}
`
	items, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	want := &Extrusion{
		Base:      Base{ID: "#42"},
		Direction: brep.V3(0, 0, 1),
		Depth:     3,
		Matrix:    &Matrix4{Base: Base{ID: "#42"}, M: brep.Translation(brep.V3(5, 0, 0))},
		Style:     &Style{Name: "concrete", Color: [3]float64{0.5, 0.5, 0.5}},
		Basis: &Face{
			Base: Base{ID: "#41"},
			Loops: []*Loop{{
				External: ptr(true),
				Profile:  true,
				Edges: []*Edge{
					{Start: brep.Pt3(0, 0, 0), End: brep.Pt3(1, 0, 0), Orientation: true},
					{Start: brep.Pt3(1, 0, 0), End: brep.Pt3(0, 1, 0), Orientation: false},
					{
						Start: brep.Pt3(0, 1, 0), End: brep.Pt3(0, 0, 0), Orientation: true,
						Basis: &Line{Origin: brep.Pt3(0, 1, 0), Direction: brep.V3(0, -1, 0)},
					},
				},
			}},
		},
	}
	if diff := cmp.Diff(want, items[0]); diff != "" {
		t.Errorf("decoded extrusion mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_MultipleDocuments(t *testing.T) {
	doc := `
items:
  - {kind: circle, origin: [0, 0, 0], radius: 2}
  - {kind: matrix4}
---
- {kind: shell, closed: true, faces: [{loops: []}]}
`
	items, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var kinds []Kind
	for _, it := range items {
		kinds = append(kinds, it.Kind())
	}
	if diff := cmp.Diff([]Kind{KindCircle, KindMatrix4, KindShell}, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	if c := items[0].(*Circle); c.Z != brep.V3(0, 0, 1) || c.X != brep.V3(1, 0, 0) {
		t.Errorf("circle frame defaults = %v, %v", c.Z, c.X)
	}
	if m := items[1].(*Matrix4); !m.M.IsIdentity() {
		t.Error("missing matrix must decode as identity")
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown kind", "kind: torus"},
		{"short point", "{start: [0, 0], end: [1, 0, 0]}"},
		{"matrix rows", "{kind: matrix4, matrix: [[1, 0, 0, 0]]}"},
		{"matrix columns", "{kind: matrix4, matrix: [[1, 0, 0], [0, 1, 0], [0, 0, 1]]}"},
		{"negative radius", "{kind: circle, origin: [0, 0, 0], radius: -1}"},
		{"basis not a face", "{kind: extrusion, depth: 1, basis: {kind: line, origin: [0, 0, 0], direction: [1, 0, 0]}}"},
		{"nested error", "{kind: face, loops: [{edges: [{start: [0, 0, 0]}]}]}"},
		{"scalar document", "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("err = %v, want ErrInvalidDocument", err)
			}
		})
	}
}

func TestDecode_ErrorNamesInstance(t *testing.T) {
	_, err := Decode(strings.NewReader(`{kind: circle, instance: "#7", origin: [0, 0, 0]}`))
	if err == nil || !strings.Contains(err.Error(), "#7") {
		t.Errorf("err = %v, want it to name instance #7", err)
	}
}

func TestLoop_Flags(t *testing.T) {
	l := &Loop{Edges: []*Edge{{}, {Basis: &Line{}}}}
	if l.IsExternal() {
		t.Error("nil External must count as inner")
	}
	if !l.SameSense() {
		t.Error("nil Orientation must count as same sense")
	}
	if !l.IsPolyhedral() {
		t.Error("straight and line edges are polyhedral")
	}
	l.Edges = append(l.Edges, &Edge{Basis: &Circle{Radius: 1}})
	if l.IsPolyhedral() {
		t.Error("a circular edge is not polyhedral")
	}
}

func TestKind_String(t *testing.T) {
	if got := KindBSplineCurve.String(); got != "bspline_curve" {
		t.Errorf("String = %q", got)
	}
	if got := Kind(99).String(); got != "unknown" {
		t.Errorf("String = %q", got)
	}
}
