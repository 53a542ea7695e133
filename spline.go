package vg

// AddSmoothSpline appends a smooth curve passing through every given point.
// Tangents are estimated from neighboring points (Catmull-Rom style) and the
// curve is emitted as cubic Bezier segments, so the result is C1-continuous
// at the interior points. A tension of 0.5 gives the classic Catmull-Rom
// rounding; smaller values tighten the curve toward the polyline.
//
// If the path has no current figure the spline starts one at points[0];
// otherwise a line connects the current point to points[0] first.
func (p *Path) AddSmoothSpline(points []Point, tension float64) *Path {
	switch len(points) {
	case 0:
		return p
	case 1:
		if len(p.segments) == 0 {
			return p.MoveTo(points[0].X, points[0].Y)
		}
		return p.LineTo(points[0].X, points[0].Y)
	}

	if len(p.segments) == 0 {
		p.MoveTo(points[0].X, points[0].Y)
	} else {
		p.LineTo(points[0].X, points[0].Y)
	}

	n := len(points)
	tangents := make([]Point, n)
	for i := range points {
		switch i {
		case 0:
			tangents[i] = points[1].Sub(points[0]).Mul(tension)
		case n - 1:
			tangents[i] = points[n-1].Sub(points[n-2]).Mul(tension)
		default:
			tangents[i] = points[i+1].Sub(points[i-1]).Mul(tension)
		}
	}

	for i := 0; i < n-1; i++ {
		c1 := points[i].Add(tangents[i].Div(3))
		c2 := points[i+1].Sub(tangents[i+1].Div(3))
		p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, points[i+1].X, points[i+1].Y)
	}
	return p
}
