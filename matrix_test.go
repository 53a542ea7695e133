package vg

import (
	"math"
	"testing"
)

func TestMatrixTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		p    Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Translate(10, -5), Pt(1, 1), Pt(11, -4)},
		{"scale", Scale(2, 3), Pt(1, 1), Pt(2, 3)},
		{"rotate 90", Rotate(math.Pi / 2), Pt(1, 0), Pt(0, 1)},
		{"rotate 180", Rotate(math.Pi), Pt(1, 0), Pt(-1, 0)},
		{"composed", Translate(10, 0).Multiply(Scale(2, 2)), Pt(1, 1), Pt(12, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformPoint(tt.p)
			if !pointsClose(got, tt.want, eps) {
				t.Errorf("TransformPoint = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMatrixTransformVectorIgnoresTranslation(t *testing.T) {
	m := Translate(100, 100).Multiply(Rotate(math.Pi / 2))
	got := m.TransformVector(Pt(1, 0))
	if !pointsClose(got, Pt(0, 1), eps) {
		t.Errorf("TransformVector = %+v, want (0,1)", got)
	}
}

func TestMatrixInvert(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"translate", Translate(7, -3)},
		{"scale", Scale(2, 0.5)},
		{"rotate", Rotate(1.2)},
		{"composed", Translate(5, 5).Multiply(Rotate(0.7)).Multiply(Scale(3, 2))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pt(3.5, -1.25)
			back := tt.m.Invert().TransformPoint(tt.m.TransformPoint(p))
			if !pointsClose(back, p, 1e-9) {
				t.Errorf("round trip = %+v, want %+v", back, p)
			}
		})
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	if got := Scale(0, 0).Invert(); !got.IsIdentity() {
		t.Errorf("Invert(singular) = %+v, want identity", got)
	}
}
