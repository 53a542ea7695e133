package vg

import (
	"errors"
	"math"
	"testing"
)

func TestPathLength(t *testing.T) {
	tests := []struct {
		name string
		path *Path
		want float64
	}{
		{"empty", NewPath(), 0},
		{"single line", NewPath().MoveTo(0, 0).LineTo(3, 4), 5},
		{"closed triangle", NewPath().MoveTo(0, 0).LineTo(10, 0).LineTo(10, 10).Close(), 10 + 10 + 10*math.Sqrt2},
		{"two figures", NewPath().MoveTo(0, 0).LineTo(10, 0).MoveTo(0, 5).LineTo(0, 15), 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.Length(); !almostEqual(got, tt.want) {
				t.Errorf("Length = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPathLengthInvalidation(t *testing.T) {
	p := NewPath().MoveTo(0, 0).LineTo(10, 0)
	if got := p.Length(); !almostEqual(got, 10) {
		t.Fatalf("Length = %v, want 10", got)
	}
	p.LineTo(10, 10)
	if got := p.Length(); !almostEqual(got, 20) {
		t.Errorf("Length after append = %v, want 20", got)
	}
}

func TestPathPointAtFraction(t *testing.T) {
	// Square minus the bottom edge: 30 units of perimeter.
	p := NewPath().MoveTo(0, 0).LineTo(10, 0).LineTo(10, 10).LineTo(0, 10)
	tests := []struct {
		name string
		frac float64
		want Point
	}{
		{"start", 0, Pt(0, 0)},
		{"first corner", 1.0 / 3, Pt(10, 0)},
		{"middle of second edge", 0.5, Pt(10, 5)},
		{"end", 1, Pt(0, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.PointAtFraction(tt.frac)
			if err != nil {
				t.Fatalf("PointAtFraction: %v", err)
			}
			if !pointsClose(got, tt.want, eps) {
				t.Errorf("PointAtFraction(%v) = %+v, want %+v", tt.frac, got, tt.want)
			}
		})
	}
}

func TestPathCloseIsMeasured(t *testing.T) {
	p := NewPath().MoveTo(0, 0).LineTo(10, 0).LineTo(10, 10).LineTo(0, 10).Close()
	if got := p.Length(); !almostEqual(got, 40) {
		t.Fatalf("Length = %v, want 40", got)
	}
	// Arc length 35 lies on the closing edge.
	got, err := p.PointAt(35)
	if err != nil {
		t.Fatalf("PointAt: %v", err)
	}
	if !pointsClose(got, Pt(0, 5), eps) {
		t.Errorf("PointAt(35) = %+v, want (0,5)", got)
	}
}

func TestPathExtrapolation(t *testing.T) {
	p := NewPath().MoveTo(0, 0).LineTo(10, 0)
	before, err := p.PointAt(-5)
	if err != nil {
		t.Fatalf("PointAt(-5): %v", err)
	}
	if !pointsClose(before, Pt(-5, 0), eps) {
		t.Errorf("PointAt(-5) = %+v, want (-5,0)", before)
	}
	after, err := p.PointAt(15)
	if err != nil {
		t.Fatalf("PointAt(15): %v", err)
	}
	if !pointsClose(after, Pt(15, 0), eps) {
		t.Errorf("PointAt(15) = %+v, want (15,0)", after)
	}
}

func TestPathTangentAt(t *testing.T) {
	p := NewPath().MoveTo(0, 0).LineTo(10, 0).LineTo(10, 10)
	tan, err := p.TangentAt(15)
	if err != nil {
		t.Fatalf("TangentAt: %v", err)
	}
	if !pointsClose(tan, Pt(0, 1), eps) {
		t.Errorf("TangentAt(15) = %+v, want (0,1)", tan)
	}
}

func TestEmptyPathQueries(t *testing.T) {
	p := NewPath()
	if _, err := p.PointAt(0); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("PointAt on empty path: err = %v, want ErrEmptyPath", err)
	}
	if _, err := p.MoveTo(1, 1).PointAt(0); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("PointAt on move-only path: err = %v, want ErrEmptyPath", err)
	}
}

func TestQuadraticToMatchesQuadratic(t *testing.T) {
	p := NewPath().MoveTo(0, 0).QuadraticTo(5, 10, 10, 0)
	// The symmetric quadratic peaks at (5,5); by symmetry that is also the
	// arc-length midpoint.
	got, err := p.PointAtFraction(0.5)
	if err != nil {
		t.Fatalf("PointAtFraction: %v", err)
	}
	if !pointsClose(got, Pt(5, 5), 1e-3) {
		t.Errorf("midpoint = %+v, want (5,5)", got)
	}
}

func TestCircleLength(t *testing.T) {
	p := NewPath().Circle(0, 0, 10)
	want := 2 * math.Pi * 10
	if got := p.Length(); math.Abs(got-want)/want > 1e-3 {
		t.Errorf("Length = %v, want %v", got, want)
	}
}

func TestArcAutoMoveTo(t *testing.T) {
	p := NewPath().Arc(0, 0, 5, 0, math.Pi/2)
	segs := p.Segments()
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want MoveTo + Arc", len(segs))
	}
	mv, ok := segs[0].(MoveTo)
	if !ok || !pointsClose(mv.Point, Pt(5, 0), eps) {
		t.Errorf("first segment = %+v, want MoveTo(5,0)", segs[0])
	}
	if !pointsClose(p.CurrentPoint(), Pt(0, 5), eps) {
		t.Errorf("current point = %+v, want (0,5)", p.CurrentPoint())
	}
}

func TestFlatten(t *testing.T) {
	p := NewPath().Circle(0, 0, 10)
	flat, err := p.Flatten(0.1)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	for _, seg := range flat.Segments() {
		switch seg.(type) {
		case MoveTo, LineTo, Close:
		default:
			t.Fatalf("flattened path contains %T", seg)
		}
	}
	want := 2 * math.Pi * 10
	if got := flat.Length(); math.Abs(got-want)/want > 1e-2 {
		t.Errorf("flattened length = %v, want about %v", got, want)
	}
}

func TestFlattenBadResolution(t *testing.T) {
	if _, err := NewPath().Flatten(0); !errors.Is(err, ErrNonPositiveResolution) {
		t.Errorf("Flatten(0): err = %v, want ErrNonPositiveResolution", err)
	}
}

func TestTransformTranslate(t *testing.T) {
	p := NewPath().MoveTo(0, 0).LineTo(10, 0).Close()
	moved := p.Transform(Translate(5, 7))
	mv := moved.Segments()[0].(MoveTo)
	if !pointsClose(mv.Point, Pt(5, 7), eps) {
		t.Errorf("moved start = %+v, want (5,7)", mv.Point)
	}
	if !almostEqual(p.Length(), moved.Length()) {
		t.Errorf("translation changed length: %v vs %v", p.Length(), moved.Length())
	}
}

func TestTransformConvertsArcs(t *testing.T) {
	p := NewPath().Arc(0, 0, 5, 0, math.Pi/2)
	scaled := p.Transform(Scale(2, 1))
	for _, seg := range scaled.Segments() {
		if _, ok := seg.(Arc); ok {
			t.Fatal("transformed path still contains an Arc segment")
		}
	}
	// Non-uniform scaling maps the quarter circle onto a quarter ellipse;
	// the endpoint must land exactly.
	end := scaled.CurrentPoint()
	if !pointsClose(end, Pt(0, 5), 1e-9) {
		t.Errorf("endpoint = %+v, want (0,5)", end)
	}
}

func TestRectangleAndRoundedRectangle(t *testing.T) {
	r := NewPath().Rectangle(0, 0, 4, 3)
	if got := r.Length(); !almostEqual(got, 14) {
		t.Errorf("rectangle perimeter = %v, want 14", got)
	}
	rr := NewPath().RoundedRectangle(0, 0, 10, 10, 20)
	// Radius clamps to half the short side, so this is a circle.
	want := 2 * math.Pi * 5
	if got := rr.Length(); math.Abs(got-want)/want > 1e-2 {
		t.Errorf("rounded rectangle perimeter = %v, want about %v", got, want)
	}
}

func TestClone(t *testing.T) {
	p := NewPath().MoveTo(0, 0).LineTo(10, 0)
	c := p.Clone()
	c.LineTo(10, 10)
	if len(p.Segments()) != 2 || len(c.Segments()) != 3 {
		t.Errorf("clone shares segment storage: %d vs %d", len(p.Segments()), len(c.Segments()))
	}
}
