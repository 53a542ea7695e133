package vg

import "math"

// Path represents a vector path: an ordered sequence of segments forming
// one or more figures (subpaths). Each figure starts at a MoveTo and
// optionally ends with a Close.
//
// The total arc length is memoized on first use and invalidated by every
// mutating builder method, so Length and the sampling methods are always
// consistent with the current segment list.
type Path struct {
	segments []Segment
	start    Point // starting point of current figure
	current  Point // current point
	length   float64
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		segments: make([]Segment, 0, 16),
		length:   math.NaN(),
	}
}

// invalidate drops the memoized length after a mutation.
func (p *Path) invalidate() {
	p.length = math.NaN()
}

// Segments returns the path's segment list. The slice must not be mutated;
// use the builder methods so length memoization stays valid.
func (p *Path) Segments() []Segment {
	return p.segments
}

// CurrentPoint returns the current point.
func (p *Path) CurrentPoint() Point {
	return p.current
}

// MoveTo starts a new figure at (x, y) without drawing.
func (p *Path) MoveTo(x, y float64) *Path {
	pt := Pt(x, y)
	p.segments = append(p.segments, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
	p.invalidate()
	return p
}

// LineTo draws a straight line to (x, y).
func (p *Path) LineTo(x, y float64) *Path {
	pt := Pt(x, y)
	if len(p.segments) == 0 {
		p.start = pt
	}
	p.segments = append(p.segments, LineTo{Point: pt})
	p.current = pt
	p.invalidate()
	return p
}

// CubicTo draws a cubic Bezier curve to (x, y) with control points
// (c1x, c1y) and (c2x, c2y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *Path {
	pt := Pt(x, y)
	if len(p.segments) == 0 {
		p.start = pt
	}
	p.segments = append(p.segments, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    pt,
	})
	p.current = pt
	p.invalidate()
	return p
}

// QuadraticTo draws a quadratic Bezier curve to (x, y) with control point
// (cx, cy). The curve is stored as its exact cubic elevation.
func (p *Path) QuadraticTo(cx, cy, x, y float64) *Path {
	p0 := p.current
	ctrl := Pt(cx, cy)
	pt := Pt(x, y)
	// Degree elevation: C1 = P0 + 2/3 (P1-P0), C2 = P2 + 2/3 (P1-P2).
	c1 := p0.Add(ctrl.Sub(p0).Mul(2.0 / 3.0))
	c2 := pt.Add(ctrl.Sub(pt).Mul(2.0 / 3.0))
	return p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, pt.X, pt.Y)
}

// Arc draws a circular arc around (cx, cy) with the given radius from
// startAngle to endAngle (radians; a decreasing angle draws in the negative
// direction). If the path is empty the arc starts a new figure at the arc's
// start point; otherwise a connecting line from the current point is part
// of the arc segment.
func (p *Path) Arc(cx, cy, radius, startAngle, endAngle float64) *Path {
	a := Arc{Center: Pt(cx, cy), Radius: radius, StartAngle: startAngle, EndAngle: endAngle}
	if len(p.segments) == 0 {
		sp := a.startPoint()
		p.MoveTo(sp.X, sp.Y)
	}
	p.segments = append(p.segments, a)
	p.current = a.endPoint()
	p.invalidate()
	return p
}

// Close closes the current figure with a straight line back to its start.
func (p *Path) Close() *Path {
	p.segments = append(p.segments, Close{})
	p.current = p.start
	p.invalidate()
	return p
}

// Rectangle adds a rectangle to the path as a closed figure.
func (p *Path) Rectangle(x, y, w, h float64) *Path {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	return p.Close()
}

// Circle adds a circle to the path using cubic Bezier curves.
func (p *Path) Circle(cx, cy, r float64) *Path {
	return p.Ellipse(cx, cy, r, r)
}

// Ellipse adds an ellipse to the path using cubic Bezier curves.
func (p *Path) Ellipse(cx, cy, rx, ry float64) *Path {
	ox := rx * arcKappa
	oy := ry * arcKappa

	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	return p.Close()
}

// RoundedRectangle adds a rectangle with rounded corners.
func (p *Path) RoundedRectangle(x, y, w, h, r float64) *Path {
	maxR := math.Min(w, h) / 2
	if r > maxR {
		r = maxR
	}
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.Arc(x+w-r, y+r, r, -math.Pi/2, 0)
	p.LineTo(x+w, y+h-r)
	p.Arc(x+w-r, y+h-r, r, 0, math.Pi/2)
	p.LineTo(x+r, y+h)
	p.Arc(x+r, y+h-r, r, math.Pi/2, math.Pi)
	p.LineTo(x, y+r)
	p.Arc(x+r, y+r, r, math.Pi, 3*math.Pi/2)
	return p.Close()
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	result := NewPath()
	result.segments = make([]Segment, len(p.segments))
	copy(result.segments, p.segments)
	result.start = p.start
	result.current = p.current
	result.length = p.length
	return result
}

// Transform returns a copy of the path with the affine transformation
// applied to every point. The original path is unchanged.
func (p *Path) Transform(m Matrix) *Path {
	return p.TransformFunc(m.TransformPoint)
}

// TransformFunc returns a copy of the path with fn applied to every point.
// Arc segments are converted to cubic Bezier segments first, since an
// arbitrary point transformation does not map circles to circles.
func (p *Path) TransformFunc(fn func(Point) Point) *Path {
	result := NewPath()
	cur := Point{}
	figStart := Point{}
	for _, seg := range p.segments {
		switch s := seg.(type) {
		case MoveTo:
			pt := fn(s.Point)
			result.MoveTo(pt.X, pt.Y)
			cur = s.Point
			figStart = s.Point
		case LineTo:
			pt := fn(s.Point)
			result.LineTo(pt.X, pt.Y)
			cur = s.Point
		case CubicTo:
			c1, c2, pt := fn(s.Control1), fn(s.Control2), fn(s.Point)
			result.CubicTo(c1.X, c1.Y, c2.X, c2.Y, pt.X, pt.Y)
			cur = s.Point
		case Arc:
			for _, sub := range s.ToCubicSegments(cur) {
				switch c := sub.(type) {
				case LineTo:
					pt := fn(c.Point)
					result.LineTo(pt.X, pt.Y)
				case CubicTo:
					c1, c2, pt := fn(c.Control1), fn(c.Control2), fn(c.Point)
					result.CubicTo(c1.X, c1.Y, c2.X, c2.Y, pt.X, pt.Y)
				}
			}
			cur = s.endPoint()
		case Close:
			result.Close()
			cur = figStart
		}
	}
	return result
}
