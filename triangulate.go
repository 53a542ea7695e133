package vg

import (
	"math"
	"sort"
)

// Polygon triangulation by monotone decomposition.
//
// The path is flattened, its figures are collected as polygon rings, and a
// sweep over the vertices inserts diagonals at split and merge vertices
// (the classic monotone-partition sweep). The diagonal-augmented graph is
// then walked into faces by taking the maximal-angle turn at every vertex,
// and each resulting monotone polygon is triangulated with the standard
// two-chain stack scan.
//
// Vertices are ordered by a strict total order on (y, x, insertion index);
// coordinates are never perturbed, so coincident sweep coordinates cannot
// produce ambiguous comparisons.

// Triangulate flattens the path at the given resolution and partitions the
// covered region into triangles. Figures oriented opposite to their
// enclosing figure are treated as holes. Every returned path is a single
// closed triangle whose winding matches the clockwise flag (positive
// shoelace area in the y-down coordinate system when clockwise is true).
//
// A figure that degenerates to fewer than three distinct vertices yields no
// triangles. Figures must be simple polygons; self-intersecting input
// surfaces as ErrPathTopology.
func (p *Path) Triangulate(resolution float64, clockwise bool) ([]*Path, error) {
	if resolution <= 0 {
		return nil, ErrNonPositiveResolution
	}
	flat, err := p.Flatten(resolution)
	if err != nil {
		return nil, err
	}
	rings := collectRings(flat)
	if len(rings) == 0 {
		return nil, nil
	}
	orientRings(rings)

	verts, err := sweepPartition(rings)
	if err != nil {
		return nil, err
	}
	faces, err := extractFaces(verts)
	if err != nil {
		return nil, err
	}

	var out []*Path
	for _, face := range faces {
		tris, err := triangulateMonotone(face)
		if err != nil {
			return nil, err
		}
		for _, tri := range tris {
			out = append(out, trianglePath(tri, clockwise))
		}
	}
	Logger().Debug("triangulated path", "figures", len(rings), "faces", len(faces), "triangles", len(out))
	return out, nil
}

// collectRings gathers the flattened path's figures as deduplicated vertex
// rings, dropping rings with fewer than three distinct vertices.
func collectRings(flat *Path) [][]Point {
	var rings [][]Point
	var ring []Point
	push := func() {
		ring = cleanRing(ring)
		if len(ring) >= 3 {
			rings = append(rings, ring)
		}
		ring = nil
	}
	for _, seg := range flat.Segments() {
		switch s := seg.(type) {
		case MoveTo:
			push()
			ring = append(ring, s.Point)
		case LineTo:
			ring = append(ring, s.Point)
		case Close:
			push()
		}
	}
	push()
	return rings
}

// cleanRing removes consecutive duplicate vertices, including a duplicate
// closing vertex, and drops exactly collinear zero-area spikes at the seam.
func cleanRing(ring []Point) []Point {
	if len(ring) == 0 {
		return nil
	}
	out := ring[:0:0]
	for _, pt := range ring {
		if len(out) > 0 && out[len(out)-1].Distance(pt) < degenerateEps {
			continue
		}
		out = append(out, pt)
	}
	for len(out) > 1 && out[0].Distance(out[len(out)-1]) < degenerateEps {
		out = out[:len(out)-1]
	}
	return out
}

// ringArea2 returns twice the signed shoelace area of a ring.
func ringArea2(ring []Point) float64 {
	acc := 0.0
	j := len(ring) - 1
	for i := range ring {
		acc += ring[j].X*ring[i].Y - ring[i].X*ring[j].Y
		j = i
	}
	return acc
}

// pointInRing reports whether p is strictly inside the ring (even-odd rule).
func pointInRing(p Point, ring []Point) bool {
	in := false
	j := len(ring) - 1
	for i := range ring {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xint := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < xint {
				in = !in
			}
		}
		j = i
	}
	return in
}

// orientRings normalizes winding: rings contained in an even number of
// other rings are outer boundaries and get positive area; odd-depth rings
// are holes and get negative area. After this every directed edge has the
// filled region on its left.
func orientRings(rings [][]Point) {
	for i, ring := range rings {
		depth := 0
		for j, other := range rings {
			if i != j && pointInRing(ring[0], other) {
				depth++
			}
		}
		area := ringArea2(ring)
		hole := depth%2 == 1
		if (area < 0) != hole {
			reverseRing(ring)
		}
	}
}

func reverseRing(ring []Point) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}

type vertType uint8

const (
	vertRegular vertType = iota
	vertStart
	vertEnd
	vertSplit
	vertMerge
)

type tvert struct {
	pt         Point
	idx        int
	prev, next *tvert
	typ        vertType
	out        *tedge // ring edge from this vertex to next
}

type tedge struct {
	from, to *tvert
	helper   *tvert
	inStatus bool
}

// vertBefore is the strict sweep order: larger y first, then smaller x,
// then insertion index as a stable tie-break.
func vertBefore(a, b *tvert) bool {
	if a.pt.Y != b.pt.Y {
		return a.pt.Y > b.pt.Y
	}
	if a.pt.X != b.pt.X {
		return a.pt.X < b.pt.X
	}
	return a.idx < b.idx
}

// sweepPartition builds linked vertex rings, classifies every vertex, runs
// the monotone-partition sweep, and returns the vertices with the inserted
// diagonals attached.
func sweepPartition(rings [][]Point) (*partition, error) {
	part := &partition{}
	idx := 0
	for _, ring := range rings {
		n := len(ring)
		vs := make([]*tvert, n)
		for i, pt := range ring {
			vs[i] = &tvert{pt: pt, idx: idx}
			idx++
		}
		for i, v := range vs {
			v.prev = vs[(i+n-1)%n]
			v.next = vs[(i+1)%n]
			v.out = &tedge{from: v, to: vs[(i+1)%n]}
		}
		part.verts = append(part.verts, vs...)
	}
	for _, v := range part.verts {
		classify(v)
	}

	order := make([]*tvert, len(part.verts))
	copy(order, part.verts)
	sort.Slice(order, func(i, j int) bool { return vertBefore(order[i], order[j]) })

	sw := &sweep{part: part}
	for _, v := range order {
		var err error
		switch v.typ {
		case vertStart:
			sw.insert(v.out, v)
		case vertEnd:
			err = sw.finishEdge(v.prev.out, v)
		case vertSplit:
			err = sw.handleSplit(v)
		case vertMerge:
			err = sw.handleMerge(v)
		default:
			err = sw.handleRegular(v)
		}
		if err != nil {
			return nil, err
		}
	}
	return part, nil
}

type partition struct {
	verts []*tvert
	diags [][2]*tvert
}

// classify assigns the sweep vertex type by comparing the neighbors'
// positions and the interior angle against pi. Rings are oriented with the
// interior on the left, so a positive cross product marks a convex corner.
func classify(v *tvert) {
	prevAfter := vertBefore(v, v.prev)
	nextAfter := vertBefore(v, v.next)
	convex := v.pt.Sub(v.prev.pt).Cross(v.next.pt.Sub(v.pt)) >= 0
	switch {
	case prevAfter && nextAfter:
		if convex {
			v.typ = vertStart
		} else {
			v.typ = vertSplit
		}
	case !prevAfter && !nextAfter:
		if convex {
			v.typ = vertEnd
		} else {
			v.typ = vertMerge
		}
	default:
		v.typ = vertRegular
	}
}

type sweep struct {
	part   *partition
	status []*tedge
}

func (sw *sweep) insert(e *tedge, helper *tvert) {
	e.helper = helper
	e.inStatus = true
	sw.status = append(sw.status, e)
}

func (sw *sweep) remove(e *tedge) error {
	for i, se := range sw.status {
		if se == e {
			sw.status = append(sw.status[:i], sw.status[i+1:]...)
			e.inStatus = false
			return nil
		}
	}
	return ErrPathTopology
}

// finishEdge closes out the edge ending at v, first connecting any pending
// merge helper.
func (sw *sweep) finishEdge(e *tedge, v *tvert) error {
	if !e.inStatus {
		return ErrPathTopology
	}
	if e.helper != nil && e.helper.typ == vertMerge {
		sw.part.diags = append(sw.part.diags, [2]*tvert{v, e.helper})
	}
	return sw.remove(e)
}

// edgeXAt returns the x coordinate of the status edge at the sweep position
// of v, clamped to the edge's span.
func edgeXAt(e *tedge, v *tvert) float64 {
	p, q := e.from.pt, e.to.pt
	if p.Y == q.Y {
		return math.Min(p.X, q.X)
	}
	t := (p.Y - v.pt.Y) / (p.Y - q.Y)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.X + t*(q.X-p.X)
}

// leftEdge finds the status edge directly left of v.
func (sw *sweep) leftEdge(v *tvert) *tedge {
	var best *tedge
	bestX := math.Inf(-1)
	for _, e := range sw.status {
		x := edgeXAt(e, v)
		if x <= v.pt.X && x > bestX {
			best = e
			bestX = x
		}
	}
	return best
}

func (sw *sweep) handleSplit(v *tvert) error {
	ej := sw.leftEdge(v)
	if ej == nil {
		return ErrPathTopology
	}
	sw.part.diags = append(sw.part.diags, [2]*tvert{v, ej.helper})
	ej.helper = v
	sw.insert(v.out, v)
	return nil
}

func (sw *sweep) handleMerge(v *tvert) error {
	if err := sw.finishEdge(v.prev.out, v); err != nil {
		return err
	}
	ej := sw.leftEdge(v)
	if ej == nil {
		return ErrPathTopology
	}
	if ej.helper != nil && ej.helper.typ == vertMerge {
		sw.part.diags = append(sw.part.diags, [2]*tvert{v, ej.helper})
	}
	ej.helper = v
	return nil
}

func (sw *sweep) handleRegular(v *tvert) error {
	interiorRight := vertBefore(v.prev, v) && vertBefore(v, v.next)
	if interiorRight {
		if err := sw.finishEdge(v.prev.out, v); err != nil {
			return err
		}
		sw.insert(v.out, v)
		return nil
	}
	ej := sw.leftEdge(v)
	if ej == nil {
		return ErrPathTopology
	}
	if ej.helper != nil && ej.helper.typ == vertMerge {
		sw.part.diags = append(sw.part.diags, [2]*tvert{v, ej.helper})
	}
	ej.helper = v
	return nil
}

// dart is a directed edge of the diagonal-augmented graph.
type dart struct {
	from, to *tvert
	used     bool
}

// extractFaces partitions the diagonal-augmented graph into faces by
// walking darts and taking, at each vertex, the outgoing dart with the
// maximal counter-clockwise turn from the incoming direction. Faces with
// positive area are the monotone polygons; the outer faces are discarded.
func extractFaces(part *partition) ([][]Point, error) {
	outs := make(map[*tvert][]*dart)
	var darts []*dart
	add := func(a, b *tvert) {
		d := &dart{from: a, to: b}
		outs[a] = append(outs[a], d)
		darts = append(darts, d)
	}
	for _, v := range part.verts {
		add(v, v.next)
	}
	for _, dg := range part.diags {
		add(dg[0], dg[1])
		add(dg[1], dg[0])
	}

	var faces [][]Point
	for _, start := range darts {
		if start.used {
			continue
		}
		var face []Point
		cur := start
		for steps := 0; ; steps++ {
			if steps > len(darts) {
				return nil, ErrPathTopology
			}
			cur.used = true
			face = append(face, cur.from.pt)
			next := nextDart(outs, cur)
			if next == nil {
				return nil, ErrPathTopology
			}
			cur = next
			if cur == start {
				break
			}
		}
		face = cleanRing(face)
		if len(face) >= 3 && ringArea2(face) > 0 {
			faces = append(faces, face)
		}
	}
	return faces, nil
}

// nextDart picks the outgoing dart at cur.to making the maximal
// counter-clockwise turn relative to the incoming direction. The exact
// reverse dart is only taken when it is the sole continuation.
func nextDart(outs map[*tvert][]*dart, cur *dart) *dart {
	in := cur.from.pt.Sub(cur.to.pt) // reversed incoming direction
	inAngle := math.Atan2(in.Y, in.X)
	var best *dart
	bestTurn := math.Inf(1)
	var reverse *dart
	for _, cand := range outs[cur.to] {
		if cand.to == cur.from {
			if reverse == nil {
				reverse = cand
			}
			continue
		}
		d := cand.to.pt.Sub(cur.to.pt)
		turn := inAngle - math.Atan2(d.Y, d.X)
		for turn <= 0 {
			turn += 2 * math.Pi
		}
		for turn > 2*math.Pi {
			turn -= 2 * math.Pi
		}
		// Smallest clockwise angle from the reversed incoming direction
		// is the maximal counter-clockwise turn of the face boundary.
		if turn < bestTurn {
			best = cand
			bestTurn = turn
		}
	}
	if best == nil && reverse != nil && !reverse.used {
		return reverse
	}
	return best
}

// area2 returns twice the signed area of triangle (a, b, c).
func area2(a, b, c Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// triangulateMonotone triangulates one y-monotone polygon (vertices in
// counter-clockwise ring order, positive area) with the two-chain stack
// scan, producing exactly len(ring)-2 triangles.
func triangulateMonotone(ring []Point) ([][3]Point, error) {
	n := len(ring)
	if n < 3 {
		return nil, nil
	}
	if n == 3 {
		return [][3]Point{{ring[0], ring[1], ring[2]}}, nil
	}

	pointBefore := func(i, j int) bool {
		a, b := ring[i], ring[j]
		if a.Y != b.Y {
			return a.Y > b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return i < j
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return pointBefore(order[i], order[j]) })

	top, bottom := order[0], order[n-1]
	// With counter-clockwise orientation the chain following next pointers
	// from the top runs down the left side.
	onLeft := make([]bool, n)
	for k := top; k != bottom; k = (k + 1) % n {
		onLeft[k] = true
	}

	var tris [][3]Point
	emit := func(a, b, c int) {
		tris = append(tris, [3]Point{ring[a], ring[b], ring[c]})
	}

	stack := []int{order[0], order[1]}
	for j := 2; j < n-1; j++ {
		uj := order[j]
		if onLeft[uj] != onLeft[stack[len(stack)-1]] {
			for len(stack) > 1 {
				emit(uj, stack[len(stack)-1], stack[len(stack)-2])
				stack = stack[:len(stack)-1]
			}
			stack = []int{order[j-1], uj}
			continue
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for len(stack) > 0 {
			w := stack[len(stack)-1]
			a2 := area2(ring[uj], ring[v], ring[w])
			inside := (onLeft[uj] && a2 < 0) || (!onLeft[uj] && a2 > 0)
			if !inside {
				break
			}
			emit(uj, v, w)
			v = w
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, v, uj)
	}

	last := order[n-1]
	if len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for len(stack) > 0 {
			emit(last, v, stack[len(stack)-1])
			v = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}
	}

	if len(tris) != n-2 {
		return nil, ErrPathTopology
	}
	return tris, nil
}

// trianglePath builds a closed triangular path with the requested winding.
// Winding is measured by the shoelace sign: positive area corresponds to
// clockwise on a y-down screen.
func trianglePath(tri [3]Point, clockwise bool) *Path {
	a, b, c := tri[0], tri[1], tri[2]
	if (area2(a, b, c) > 0) != clockwise {
		b, c = c, b
	}
	tp := NewPath()
	tp.MoveTo(a.X, a.Y)
	tp.LineTo(b.X, b.Y)
	tp.LineTo(c.X, c.Y)
	return tp.Close()
}
