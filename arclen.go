package vg

import (
	"math"
	"sort"
)

// Arc-length parametrization for cubic Bezier segments.
//
// The Bezier parameter u does not advance at constant speed, so sampling a
// curve "at half its length" needs a reparametrization. A cubicTable caches
// an adaptive polyline subdivision of the curve: cumulative lengths at
// uniformly spaced u values, refined by doubling the sample count until the
// total length estimate stabilizes. Queries then invert arc length to u by
// bisecting the cumulative table.

const (
	// cubicLengthRelTol stops refinement once the total length changes by
	// less than this relative amount between doublings.
	cubicLengthRelTol = 1e-4
	// cubicLengthAbsTol is the absolute refinement floor.
	cubicLengthAbsTol = 1e-5
	// cubicMaxSamples caps the subdivision count.
	cubicMaxSamples = 1 << 12
)

type cubicTable struct {
	p0    Point
	seg   CubicTo
	n     int       // number of polyline cells; n+1 sample points
	cum   []float64 // cum[i] = arc length from u=0 to u=i/n
	total float64
}

func newCubicTable(p0 Point, s CubicTo) *cubicTable {
	t := &cubicTable{p0: p0, seg: s}
	n := 16
	prevLen := t.polylineLength(n)
	for n < cubicMaxSamples {
		n *= 2
		l := t.polylineLength(n)
		if math.Abs(l-prevLen) < math.Max(cubicLengthRelTol*l, cubicLengthAbsTol) {
			prevLen = l
			break
		}
		prevLen = l
	}
	t.n = n
	t.cum = make([]float64, n+1)
	prev := p0
	acc := 0.0
	for i := 1; i <= n; i++ {
		p := s.eval(p0, float64(i)/float64(n))
		acc += prev.Distance(p)
		t.cum[i] = acc
		prev = p
	}
	t.total = acc
	return t
}

func (t *cubicTable) polylineLength(n int) float64 {
	prev := t.p0
	acc := 0.0
	for i := 1; i <= n; i++ {
		p := t.seg.eval(t.p0, float64(i)/float64(n))
		acc += prev.Distance(p)
		prev = p
	}
	return acc
}

// paramAt converts an arc length s in [0,total] to a Bezier parameter u by
// bisecting the cumulative table and interpolating within the located cell.
func (t *cubicTable) paramAt(s float64) float64 {
	if t.total <= 0 {
		return 0
	}
	if s <= 0 {
		return 0
	}
	if s >= t.total {
		return 1
	}
	i := sort.SearchFloat64s(t.cum, s)
	if i == 0 {
		i = 1
	}
	lo, hi := t.cum[i-1], t.cum[i]
	frac := 0.0
	if hi > lo {
		frac = (s - lo) / (hi - lo)
	}
	return (float64(i-1) + frac) / float64(t.n)
}

// pointAt returns the point at arc-length fraction tf. Fractions outside
// [0,1] extrapolate along the endpoint tangents.
func (t *cubicTable) pointAt(tf float64) Point {
	if tf < 0 {
		tan := t.seg.unitTangent(t.p0, 0)
		return t.p0.Add(tan.Mul(tf * t.total))
	}
	if tf > 1 {
		tan := t.seg.unitTangent(t.p0, 1)
		return t.seg.Point.Add(tan.Mul((tf - 1) * t.total))
	}
	u := t.paramAt(tf * t.total)
	return t.seg.eval(t.p0, u)
}

// tangentAt returns the unit tangent at arc-length fraction tf, clamped to
// the endpoint tangents outside [0,1].
func (t *cubicTable) tangentAt(tf float64) Point {
	switch {
	case tf <= 0:
		return t.seg.unitTangent(t.p0, 0)
	case tf >= 1:
		return t.seg.unitTangent(t.p0, 1)
	}
	u := t.paramAt(tf * t.total)
	return t.seg.unitTangent(t.p0, u)
}
