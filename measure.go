package vg

import "math"

// walkStep is one traversal step over a path: the segment with its start
// point resolved, its measured length, and the figure start active at that
// point. Close segments are resolved into the equivalent LineTo back to the
// figure start so callers can sample them uniformly.
type walkStep struct {
	seg      Segment // Close is rewritten to LineTo
	raw      Segment // the original segment
	prev     Point
	length   float64
	figStart Point
}

// walk resolves every segment against its predecessor and the active
// figure start, measuring each as it goes.
func (p *Path) walk() []walkStep {
	steps := make([]walkStep, 0, len(p.segments))
	cur := Point{}
	figStart := Point{}
	for i, seg := range p.segments {
		st := walkStep{raw: seg, prev: cur, figStart: figStart}
		switch s := seg.(type) {
		case MoveTo:
			st.seg = s
			cur = s.Point
			figStart = s.Point
			st.figStart = figStart
		case LineTo:
			if i == 0 {
				figStart = s.Point
				st.figStart = figStart
			}
			st.seg = s
			st.length = s.Length(cur)
			cur = s.Point
		case CubicTo:
			if i == 0 {
				figStart = s.Point
				st.figStart = figStart
			}
			st.seg = s
			st.length = s.Length(cur)
			cur = s.Point
		case Arc:
			st.seg = s
			st.length = s.Length(cur)
			cur = s.endPoint()
		case Close:
			st.seg = LineTo{Point: figStart}
			st.length = cur.Distance(figStart)
			cur = figStart
		}
		steps = append(steps, st)
	}
	return steps
}

// Length returns the total arc length of the path. The result is memoized;
// mutating builder methods invalidate it.
func (p *Path) Length() float64 {
	if !math.IsNaN(p.length) {
		return p.length
	}
	total := 0.0
	for _, st := range p.walk() {
		total += st.length
	}
	p.length = total
	return total
}

// locate finds the segment containing absolute arc length s and the local
// arc-length fraction within it. The three regimes:
//   - s in [0, total]: the located segment with t in [0,1];
//   - s > total: the last measurable segment with t > 1 (extrapolation);
//   - s < 0: the first measurable segment with t < 0 (extrapolation).
func (p *Path) locate(s float64) (walkStep, float64, error) {
	steps := p.walk()
	var measurable []walkStep
	total := 0.0
	for _, st := range steps {
		if st.length > 0 {
			measurable = append(measurable, st)
			total += st.length
		}
	}
	if len(measurable) == 0 {
		return walkStep{}, 0, ErrEmptyPath
	}
	if s < 0 {
		first := measurable[0]
		return first, s / first.length, nil
	}
	if s > total {
		last := measurable[len(measurable)-1]
		return last, 1 + (s-total)/last.length, nil
	}
	acc := 0.0
	for _, st := range measurable {
		if s <= acc+st.length {
			return st, (s - acc) / st.length, nil
		}
		acc += st.length
	}
	last := measurable[len(measurable)-1]
	return last, 1, nil
}

// PointAt returns the point at absolute arc length s along the path.
// Lengths beyond the path extrapolate linearly past the nearest endpoint.
func (p *Path) PointAt(s float64) (Point, error) {
	st, t, err := p.locate(s)
	if err != nil {
		return Point{}, err
	}
	return segmentPointAt(st.seg, st.prev, t)
}

// TangentAt returns the unit tangent at absolute arc length s.
func (p *Path) TangentAt(s float64) (Point, error) {
	st, t, err := p.locate(s)
	if err != nil {
		return Point{}, err
	}
	return segmentTangentAt(st.seg, st.prev, t)
}

// PointAtFraction returns the point at fraction t of the path's total
// length; t=0 is the start, t=1 the end, values outside extrapolate.
func (p *Path) PointAtFraction(t float64) (Point, error) {
	return p.PointAt(t * p.Length())
}

// TangentAtFraction returns the unit tangent at fraction t of the path's
// total length.
func (p *Path) TangentAtFraction(t float64) (Point, error) {
	return p.TangentAt(t * p.Length())
}

// segmentPointAt dispatches a point query to the segment variant.
func segmentPointAt(seg Segment, prev Point, t float64) (Point, error) {
	switch s := seg.(type) {
	case LineTo:
		return s.PointAt(prev, t)
	case CubicTo:
		return s.PointAt(prev, t)
	case Arc:
		return s.PointAt(prev, t)
	default:
		return Point{}, ErrInvalidSegmentQuery
	}
}

// segmentTangentAt dispatches a tangent query to the segment variant.
func segmentTangentAt(seg Segment, prev Point, t float64) (Point, error) {
	switch s := seg.(type) {
	case LineTo:
		return s.TangentAt(prev, t)
	case CubicTo:
		return s.TangentAt(prev, t)
	case Arc:
		return s.TangentAt(prev, t)
	default:
		return Point{}, ErrInvalidSegmentQuery
	}
}

// Flatten returns a copy of the path in which every curve and arc segment
// is replaced by straight line segments sampled at approximately resolution
// arc-length spacing. Move, line and close segments pass through unchanged.
// The resolution must be positive.
func (p *Path) Flatten(resolution float64) (*Path, error) {
	if resolution <= 0 {
		return nil, ErrNonPositiveResolution
	}
	out := NewPath()
	for _, st := range p.walk() {
		switch s := st.raw.(type) {
		case MoveTo:
			out.MoveTo(s.Point.X, s.Point.Y)
		case LineTo:
			out.LineTo(s.Point.X, s.Point.Y)
		case Close:
			out.Close()
		case CubicTo:
			flattenInto(out, s, st.prev, st.length, resolution)
		case Arc:
			flattenInto(out, s, st.prev, st.length, resolution)
		}
	}
	return out, nil
}

// flattenInto samples a curve segment at ceil(length/resolution) points and
// appends the corresponding line segments.
func flattenInto(out *Path, seg Segment, prev Point, length, resolution float64) {
	n := int(math.Ceil(length / resolution))
	if n < 1 {
		n = 1
	}
	for i := 1; i <= n; i++ {
		pt, err := segmentPointAt(seg, prev, float64(i)/float64(n))
		if err != nil {
			continue
		}
		out.LineTo(pt.X, pt.Y)
	}
}
