package brep

import (
	"math"
	"testing"
)

func TestMatrix4_IsTranslation(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix4
		want bool
	}{
		{"identity", Identity4(), true},
		{"pure translation", Translation(V3(1, 2, 3)), true},
		{"rotated placement", Placement(Pt3(0, 0, 0), V3(0, 0, 1), V3(0, 1, 0)), false},
		{"zero matrix", Matrix4{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsTranslation(); got != tt.want {
				t.Errorf("IsTranslation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatrix4_Placement(t *testing.T) {
	// Local X maps to world Y, local Z stays world Z.
	m := Placement(Pt3(10, 0, 0), V3(0, 0, 1), V3(0, 1, 0))

	got := m.TransformPoint(Pt3(1, 0, 0))
	if !got.Approx(Pt3(10, 1, 0), 1e-12) {
		t.Errorf("TransformPoint(1,0,0) = %v, want (10,1,0)", got)
	}
	got = m.TransformPoint(Pt3(0, 1, 0))
	if !got.Approx(Pt3(9, 0, 0), 1e-12) {
		t.Errorf("TransformPoint(0,1,0) = %v, want (9,0,0)", got)
	}
	if m.ReversesOrientation() {
		t.Error("placement should be right-handed")
	}
}

func TestMatrix4_PlacementNonOrthogonalRef(t *testing.T) {
	m := Placement(Pt3(0, 0, 0), V3(0, 0, 2), V3(1, 0, 1))
	x := m.TransformVector(V3(1, 0, 0))
	if !x.Approx(V3(1, 0, 0), 1e-12) {
		t.Errorf("X axis = %v, want (1,0,0)", x)
	}
}

func TestMatrix4_MultiplyOrder(t *testing.T) {
	rot := Placement(Pt3(0, 0, 0), V3(0, 0, 1), V3(0, 1, 0))
	tr := Translation(V3(5, 0, 0))

	// tr applied after rot.
	got := tr.Multiply(rot).TransformPoint(Pt3(1, 0, 0))
	if !got.Approx(Pt3(5, 1, 0), 1e-12) {
		t.Errorf("tr*rot = %v, want (5,1,0)", got)
	}
	// rot applied after tr.
	got = rot.Multiply(tr).TransformPoint(Pt3(1, 0, 0))
	if !got.Approx(Pt3(0, 6, 0), 1e-12) {
		t.Errorf("rot*tr = %v, want (0,6,0)", got)
	}
}

func TestMatrix4_Invert(t *testing.T) {
	m := Placement(Pt3(3, -2, 7), V3(1, 1, 0), V3(0, 0, 1)).Multiply(Translation(V3(0.5, 0.25, -1)))
	inv := m.Invert()
	p := Pt3(1.5, -4, 9)
	back := inv.TransformPoint(m.TransformPoint(p))
	if !back.Approx(p, 1e-9) {
		t.Errorf("inverse round trip = %v, want %v", back, p)
	}
	if !m.Multiply(inv).IsIdentity() {
		// Allow floating noise; compare componentwise.
		id := m.Multiply(inv)
		for i := range 3 {
			for j := range 4 {
				want := 0.0
				if i == j {
					want = 1
				}
				if math.Abs(id.M[i][j]-want) > 1e-9 {
					t.Fatalf("m*inv[%d][%d] = %v, want %v", i, j, id.M[i][j], want)
				}
			}
		}
	}
}

func TestMatrix4_InvertSingular(t *testing.T) {
	if got := (Matrix4{}).Invert(); !got.IsIdentity() {
		t.Errorf("singular Invert() = %v, want identity", got)
	}
}

func TestFromRows(t *testing.T) {
	rows := [4][4]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{0, 0, 0, 1},
	}
	m := FromRows(rows)
	for i := range 4 {
		for j := range 4 {
			if got := m.At(i, j); got != rows[i][j] {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, got, rows[i][j])
			}
		}
	}
}
