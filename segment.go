package vg

import "math"

// Segment represents a single element of a path. It is a closed sum over
// MoveTo, LineTo, CubicTo, Arc and Close; consumers dispatch with a type
// switch.
//
// A segment only stores its own geometry. Every operation that depends on
// where the segment starts takes the endpoint of the previous segment as an
// explicit argument, so segments can be evaluated without knowing their
// absolute position in the path.
type Segment interface {
	isSegment()
}

// MoveTo starts a new figure at a point without drawing.
type MoveTo struct {
	Point Point
}

func (MoveTo) isSegment() {}

// LineTo draws a straight line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isSegment() {}

// CubicTo draws a cubic Bezier curve to Point with control points
// Control1 and Control2.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isSegment() {}

// Arc draws a circular arc around Center with the given Radius, from
// StartAngle to EndAngle (radians). The sign of EndAngle-StartAngle selects
// the direction of travel; sweeps beyond 2π are honored as given.
//
// If the previous point does not coincide with the arc's start point, the
// connecting straight line is part of the segment's geometry.
type Arc struct {
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

func (Arc) isSegment() {}

// Close closes the current figure with a straight line back to the figure's
// starting point. It stores no geometry of its own; the path resolves it
// against the active figure start.
type Close struct{}

func (Close) isSegment() {}

// startPoint returns the point the arc begins at.
func (a Arc) startPoint() Point {
	return Point{
		X: a.Center.X + a.Radius*math.Cos(a.StartAngle),
		Y: a.Center.Y + a.Radius*math.Sin(a.StartAngle),
	}
}

// endPoint returns the point the arc ends at.
func (a Arc) endPoint() Point {
	return Point{
		X: a.Center.X + a.Radius*math.Cos(a.EndAngle),
		Y: a.Center.Y + a.Radius*math.Sin(a.EndAngle),
	}
}

// Length returns the arc length of the move segment, which is always zero.
func (MoveTo) Length(Point) float64 { return 0 }

// Length returns the straight-line distance from prev to the endpoint.
func (s LineTo) Length(prev Point) float64 {
	return prev.Distance(s.Point)
}

// Length returns the arc length of the curve starting at prev, estimated by
// adaptive polyline refinement.
func (s CubicTo) Length(prev Point) float64 {
	return newCubicTable(prev, s).total
}

// Length returns the length of the arc plus the connecting line from prev
// to the arc's start point, if they do not coincide.
func (a Arc) Length(prev Point) float64 {
	return a.connectorLength(prev) + a.sweepLength()
}

func (a Arc) connectorLength(prev Point) float64 {
	d := prev.Distance(a.startPoint())
	if d < degenerateEps {
		return 0
	}
	return d
}

func (a Arc) sweepLength() float64 {
	return a.Radius * math.Abs(a.EndAngle-a.StartAngle)
}

// degenerateEps is the threshold below which connecting geometry is
// considered coincident.
const degenerateEps = 1e-7

// PointAt returns the point at arc-length fraction t along the line.
// Values of t outside [0,1] extrapolate along the line's direction.
func (s LineTo) PointAt(prev Point, t float64) (Point, error) {
	return prev.Lerp(s.Point, t), nil
}

// TangentAt returns the unit tangent of the line, which is constant.
func (s LineTo) TangentAt(prev Point, t float64) (Point, error) {
	d := s.Point.Sub(prev)
	if d.Modulus() < degenerateEps {
		return Point{}, ErrInvalidSegmentQuery
	}
	return d.Normalize(), nil
}

// PointAt returns the point at arc-length fraction t along the curve
// starting at prev. The Bezier parameter is reparametrized so that equal
// increments of t travel equal distances. Values of t outside [0,1]
// extrapolate linearly along the tangent at the nearest endpoint.
func (s CubicTo) PointAt(prev Point, t float64) (Point, error) {
	tab := newCubicTable(prev, s)
	return tab.pointAt(t), nil
}

// TangentAt returns the unit tangent at arc-length fraction t.
// Outside [0,1] the tangent at the nearest endpoint is returned.
func (s CubicTo) TangentAt(prev Point, t float64) (Point, error) {
	tab := newCubicTable(prev, s)
	return tab.tangentAt(t), nil
}

// PointAt returns the point at arc-length fraction t along the arc segment,
// including any connecting line from prev to the arc start. Values of t
// outside [0,1] extrapolate along the tangent at the nearest endpoint.
func (a Arc) PointAt(prev Point, t float64) (Point, error) {
	conn := a.connectorLength(prev)
	total := conn + a.sweepLength()
	if total < degenerateEps {
		return a.endPoint(), nil
	}
	if t < 0 {
		tan, err := a.TangentAt(prev, 0)
		if err != nil {
			return Point{}, err
		}
		start := a.startPoint()
		if conn > 0 {
			start = prev
		}
		return start.Add(tan.Mul(t * total)), nil
	}
	if t > 1 {
		tan, err := a.TangentAt(prev, 1)
		if err != nil {
			return Point{}, err
		}
		return a.endPoint().Add(tan.Mul((t - 1) * total)), nil
	}
	s := t * total
	if s < conn {
		return prev.Lerp(a.startPoint(), s/conn), nil
	}
	sweep := a.EndAngle - a.StartAngle
	frac := 0.0
	if a.sweepLength() > 0 {
		frac = (s - conn) / a.sweepLength()
	}
	angle := a.StartAngle + sweep*frac
	return Point{
		X: a.Center.X + a.Radius*math.Cos(angle),
		Y: a.Center.Y + a.Radius*math.Sin(angle),
	}, nil
}

// TangentAt returns the unit tangent at arc-length fraction t along the arc
// segment. Outside [0,1] the tangent at the nearest endpoint is returned.
func (a Arc) TangentAt(prev Point, t float64) (Point, error) {
	conn := a.connectorLength(prev)
	total := conn + a.sweepLength()
	if total < degenerateEps {
		return Point{}, ErrInvalidSegmentQuery
	}
	dir := 1.0
	if a.EndAngle < a.StartAngle {
		dir = -1
	}
	angleTangent := func(angle float64) Point {
		return Point{X: -math.Sin(angle) * dir, Y: math.Cos(angle) * dir}
	}
	if t <= 0 {
		if conn > 0 {
			return a.startPoint().Sub(prev).Normalize(), nil
		}
		return angleTangent(a.StartAngle), nil
	}
	if t >= 1 {
		if a.sweepLength() < degenerateEps {
			return a.startPoint().Sub(prev).Normalize(), nil
		}
		return angleTangent(a.EndAngle), nil
	}
	s := t * total
	if s < conn {
		return a.startPoint().Sub(prev).Normalize(), nil
	}
	sweep := a.EndAngle - a.StartAngle
	frac := 0.0
	if a.sweepLength() > 0 {
		frac = (s - conn) / a.sweepLength()
	}
	return angleTangent(a.StartAngle + sweep*frac), nil
}

// arcKappa is the control-point distance factor for a 90 degree circular
// arc approximated by a single cubic Bezier.
const arcKappa = 0.55191496

// ToCubicSegments converts the arc into cubic Bezier segments starting at
// prev. Sweeps beyond 90 degrees are chunked so each produced Bezier spans
// at most a quarter turn; chunk boundaries preserve tangent continuity.
// Arcs with a negative sweep are built in the positive direction and then
// reversed segment by segment with control points swapped.
//
// If prev does not coincide with the arc's start point, a connecting LineTo
// is emitted first.
func (a Arc) ToCubicSegments(prev Point) []Segment {
	var out []Segment
	start := a.startPoint()
	if prev.Distance(start) >= degenerateEps {
		out = append(out, LineTo{Point: start})
	}
	if a.EndAngle >= a.StartAngle {
		return append(out, a.positiveSweepCubics(a.StartAngle, a.EndAngle)...)
	}
	// Build the same geometry in the positive direction, then walk it
	// backwards swapping control points.
	forward := Arc{Center: a.Center, Radius: a.Radius, StartAngle: a.EndAngle, EndAngle: a.StartAngle}
	segs := forward.positiveSweepCubics(forward.StartAngle, forward.EndAngle)
	cur := forward.startPoint()
	starts := make([]Point, len(segs))
	for i, s := range segs {
		starts[i] = cur
		cur = s.(CubicTo).Point
	}
	for i := len(segs) - 1; i >= 0; i-- {
		c := segs[i].(CubicTo)
		out = append(out, CubicTo{
			Control1: c.Control2,
			Control2: c.Control1,
			Point:    starts[i],
		})
	}
	return out
}

// positiveSweepCubics builds the cubic chunks for a non-negative sweep from
// a1 to a2.
func (a Arc) positiveSweepCubics(a1, a2 float64) []Segment {
	sweep := a2 - a1
	if sweep < degenerateEps {
		return nil
	}
	n := int(math.Ceil(sweep / (math.Pi / 2)))
	delta := sweep / float64(n)
	// Control distance for a quarter turn is kappa*r; shorter chunks
	// scale it by their fraction of a quarter turn.
	k := a.Radius * arcKappa * (delta / (math.Pi / 2))
	segs := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		t1 := a1 + float64(i)*delta
		t2 := t1 + delta
		cos1, sin1 := math.Cos(t1), math.Sin(t1)
		cos2, sin2 := math.Cos(t2), math.Sin(t2)
		p1 := Point{X: a.Center.X + a.Radius*cos1, Y: a.Center.Y + a.Radius*sin1}
		p2 := Point{X: a.Center.X + a.Radius*cos2, Y: a.Center.Y + a.Radius*sin2}
		segs = append(segs, CubicTo{
			Control1: Point{X: p1.X - k*sin1, Y: p1.Y + k*cos1},
			Control2: Point{X: p2.X + k*sin2, Y: p2.Y - k*cos2},
			Point:    p2,
		})
	}
	return segs
}

// eval evaluates the cubic Bezier with start point p0 at parameter u.
func (s CubicTo) eval(p0 Point, u float64) Point {
	mu := 1 - u
	mu2 := mu * mu
	mu3 := mu2 * mu
	u2 := u * u
	u3 := u2 * u
	return Point{
		X: mu3*p0.X + 3*mu2*u*s.Control1.X + 3*mu*u2*s.Control2.X + u3*s.Point.X,
		Y: mu3*p0.Y + 3*mu2*u*s.Control1.Y + 3*mu*u2*s.Control2.Y + u3*s.Point.Y,
	}
}

// deriv evaluates the derivative of the cubic Bezier at parameter u.
func (s CubicTo) deriv(p0 Point, u float64) Point {
	d0 := s.Control1.Sub(p0)
	d1 := s.Control2.Sub(s.Control1)
	d2 := s.Point.Sub(s.Control2)
	mu := 1 - u
	return Point{
		X: 3 * (d0.X*mu*mu + 2*d1.X*mu*u + d2.X*u*u),
		Y: 3 * (d0.Y*mu*mu + 2*d1.Y*mu*u + d2.Y*u*u),
	}
}

// unitTangent returns the unit tangent at parameter u, falling back to the
// chord direction when the derivative degenerates (coincident control
// points at an endpoint).
func (s CubicTo) unitTangent(p0 Point, u float64) Point {
	d := s.deriv(p0, u)
	if d.Modulus() >= degenerateEps {
		return d.Normalize()
	}
	// Nudge away from the degenerate parameter.
	const h = 1e-4
	switch {
	case u < 0.5:
		d = s.eval(p0, u+h).Sub(s.eval(p0, u))
	default:
		d = s.eval(p0, u).Sub(s.eval(p0, u-h))
	}
	if d.Modulus() < degenerateEps {
		d = s.Point.Sub(p0)
	}
	if d.Modulus() < degenerateEps {
		return Point{}
	}
	return d.Normalize()
}
