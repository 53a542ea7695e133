package truetype

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
)

// GlyfTable provides access to raw glyph descriptions through loca offsets.
type GlyfTable struct {
	data []byte
	loca *LocaTable
}

func parseGlyf(b []byte, loca *LocaTable) (*GlyfTable, error) {
	last := loca.Offsets[len(loca.Offsets)-1]
	if uint32(len(b)) < last {
		return nil, fmt.Errorf("%w: glyf table shorter than loca extent", ErrInvalidFontData)
	}
	return &GlyfTable{data: b, loca: loca}, nil
}

// glyphData returns the raw description bytes for a glyph. Empty glyphs
// (equal consecutive loca offsets) return a nil slice.
func (t *GlyfTable) glyphData(gid GlyphID) ([]byte, error) {
	if int(gid)+1 >= len(t.loca.Offsets) {
		return nil, fmt.Errorf("%w: glyph %d", ErrGlyphNotFound, gid)
	}
	start, end := t.loca.Offsets[gid], t.loca.Offsets[gid+1]
	if start == end {
		return nil, nil
	}
	return t.data[start:end], nil
}

// Component flags in composite glyph descriptions.
const (
	flagArg1And2AreWords uint16 = 0x0001
	flagArgsAreXYValues  uint16 = 0x0002
	flagRoundXYToGrid    uint16 = 0x0004
	flagWeHaveAScale     uint16 = 0x0008
	flagMoreComponents   uint16 = 0x0020
	flagWeHaveXYScale    uint16 = 0x0040
	flagWeHaveTwoByTwo   uint16 = 0x0080
	flagWeHaveInstr      uint16 = 0x0100
)

// Simple glyph point flags.
const (
	flagOnCurve      uint8 = 0x01
	flagXShortVector uint8 = 0x02
	flagYShortVector uint8 = 0x04
	flagRepeat       uint8 = 0x08
	flagXSame        uint8 = 0x10
	flagYSame        uint8 = 0x20
)

// GlyphPoint is one decoded outline point in font units.
type GlyphPoint struct {
	X, Y    int16
	OnCurve bool
}

// GlyphComponent is one component record of a composite glyph. The 2x2
// transform follows the spec reading order: x' = XScale*x + Scale10*y,
// y' = Scale01*x + YScale*y.
type GlyphComponent struct {
	Flags      uint16
	GlyphIndex GlyphID
	Arg1, Arg2 int16
	XScale     float64
	Scale01    float64
	Scale10    float64
	YScale     float64
}

// Glyph is a decoded glyph description: either a simple outline, a list of
// component references, or empty (no outline, e.g. the space glyph).
type Glyph struct {
	NumContours int16 // negative marks a composite glyph
	XMin, YMin  int16
	XMax, YMax  int16

	// Simple glyphs.
	EndPts       []uint16
	Instructions []byte
	Points       []GlyphPoint

	// Composite glyphs.
	Components []GlyphComponent
}

// IsComposite reports whether the glyph is built from component references.
func (g *Glyph) IsComposite() bool { return g.NumContours < 0 }

// IsEmpty reports whether the glyph has no outline at all.
func (g *Glyph) IsEmpty() bool { return g == nil }

// Glyph decodes the description of a glyph. Empty glyphs return nil.
func (f *Font) Glyph(gid GlyphID) (*Glyph, error) {
	b, err := f.Glyf.glyphData(gid)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	return decodeGlyph(b)
}

func decodeGlyph(b []byte) (*Glyph, error) {
	if len(b) < 10 {
		return nil, fmt.Errorf("%w: glyph header truncated", ErrInvalidFontData)
	}
	r := parse.NewBinaryReader(b)
	g := &Glyph{
		NumContours: r.ReadInt16(),
		XMin:        r.ReadInt16(),
		YMin:        r.ReadInt16(),
		XMax:        r.ReadInt16(),
		YMax:        r.ReadInt16(),
	}
	if g.NumContours < 0 {
		return g, decodeComposite(r, g)
	}
	return g, decodeSimple(r, g)
}

func decodeSimple(r *parse.BinaryReader, g *Glyph) error {
	n := int(g.NumContours)
	if r.Len() < uint32(2*n+2) {
		return fmt.Errorf("%w: simple glyph truncated", ErrInvalidFontData)
	}
	g.EndPts = make([]uint16, n)
	for i := 0; i < n; i++ {
		g.EndPts[i] = r.ReadUint16()
		if i > 0 && g.EndPts[i] < g.EndPts[i-1] {
			return fmt.Errorf("%w: contour end points not monotonic", ErrInvalidFontData)
		}
	}
	instrLen := r.ReadUint16()
	if r.Len() < uint32(instrLen) {
		return fmt.Errorf("%w: glyph instructions truncated", ErrInvalidFontData)
	}
	g.Instructions = r.ReadBytes(uint32(instrLen))

	numPoints := 0
	if n > 0 {
		numPoints = int(g.EndPts[n-1]) + 1
	}
	flags := make([]uint8, 0, numPoints)
	for len(flags) < numPoints {
		if r.Len() < 1 {
			return fmt.Errorf("%w: glyph flags truncated", ErrInvalidFontData)
		}
		flag := r.ReadUint8()
		flags = append(flags, flag)
		if flag&flagRepeat != 0 {
			if r.Len() < 1 {
				return fmt.Errorf("%w: glyph flags truncated", ErrInvalidFontData)
			}
			repeat := int(r.ReadUint8())
			for j := 0; j < repeat && len(flags) < numPoints; j++ {
				flags = append(flags, flag)
			}
		}
	}

	g.Points = make([]GlyphPoint, numPoints)
	x := int16(0)
	for i, flag := range flags {
		switch {
		case flag&flagXShortVector != 0:
			if r.Len() < 1 {
				return fmt.Errorf("%w: glyph x coordinates truncated", ErrInvalidFontData)
			}
			d := int16(r.ReadUint8())
			if flag&flagXSame == 0 {
				d = -d
			}
			x += d
		case flag&flagXSame == 0:
			if r.Len() < 2 {
				return fmt.Errorf("%w: glyph x coordinates truncated", ErrInvalidFontData)
			}
			x += r.ReadInt16()
		}
		g.Points[i].X = x
		g.Points[i].OnCurve = flag&flagOnCurve != 0
	}
	y := int16(0)
	for i, flag := range flags {
		switch {
		case flag&flagYShortVector != 0:
			if r.Len() < 1 {
				return fmt.Errorf("%w: glyph y coordinates truncated", ErrInvalidFontData)
			}
			d := int16(r.ReadUint8())
			if flag&flagYSame == 0 {
				d = -d
			}
			y += d
		case flag&flagYSame == 0:
			if r.Len() < 2 {
				return fmt.Errorf("%w: glyph y coordinates truncated", ErrInvalidFontData)
			}
			y += r.ReadInt16()
		}
		g.Points[i].Y = y
	}
	return nil
}

const f2dot14 = 1.0 / (1 << 14)

func decodeComposite(r *parse.BinaryReader, g *Glyph) error {
	for {
		if r.Len() < 4 {
			return fmt.Errorf("%w: composite glyph truncated", ErrInvalidFontData)
		}
		c := GlyphComponent{
			Flags:      r.ReadUint16(),
			GlyphIndex: GlyphID(r.ReadUint16()),
			XScale:     1,
			YScale:     1,
		}
		if c.Flags&flagArg1And2AreWords != 0 {
			if r.Len() < 4 {
				return fmt.Errorf("%w: composite arguments truncated", ErrInvalidFontData)
			}
			c.Arg1 = r.ReadInt16()
			c.Arg2 = r.ReadInt16()
		} else {
			if r.Len() < 2 {
				return fmt.Errorf("%w: composite arguments truncated", ErrInvalidFontData)
			}
			if c.Flags&flagArgsAreXYValues != 0 {
				c.Arg1 = int16(int8(r.ReadUint8()))
				c.Arg2 = int16(int8(r.ReadUint8()))
			} else {
				c.Arg1 = int16(r.ReadUint8())
				c.Arg2 = int16(r.ReadUint8())
			}
		}
		switch {
		case c.Flags&flagWeHaveAScale != 0:
			if r.Len() < 2 {
				return fmt.Errorf("%w: composite transform truncated", ErrInvalidFontData)
			}
			s := float64(r.ReadInt16()) * f2dot14
			c.XScale, c.YScale = s, s
		case c.Flags&flagWeHaveXYScale != 0:
			if r.Len() < 4 {
				return fmt.Errorf("%w: composite transform truncated", ErrInvalidFontData)
			}
			c.XScale = float64(r.ReadInt16()) * f2dot14
			c.YScale = float64(r.ReadInt16()) * f2dot14
		case c.Flags&flagWeHaveTwoByTwo != 0:
			if r.Len() < 8 {
				return fmt.Errorf("%w: composite transform truncated", ErrInvalidFontData)
			}
			c.XScale = float64(r.ReadInt16()) * f2dot14
			c.Scale01 = float64(r.ReadInt16()) * f2dot14
			c.Scale10 = float64(r.ReadInt16()) * f2dot14
			c.YScale = float64(r.ReadInt16()) * f2dot14
		}
		g.Components = append(g.Components, c)
		if c.Flags&flagMoreComponents == 0 {
			break
		}
	}
	return nil
}

// ContourPoint is an outline point in font units (y up), with the
// quadratic on/off-curve flag.
type ContourPoint struct {
	X, Y    float64
	OnCurve bool
}

// Contour is one closed outline loop. After reconstruction the first point
// is always on-curve and consecutive off-curve points never occur: implied
// on-curve midpoints have been inserted.
type Contour []ContourPoint

// GlyphContours reconstructs the outline of a glyph in font units.
// Composite glyphs are resolved recursively against their component
// glyphs; a component referencing itself or an ancestor is reported as
// ErrGlyphCycle. Empty glyphs yield no contours.
func (f *Font) GlyphContours(gid GlyphID) ([]Contour, error) {
	cs, _, err := f.glyphContours(gid, map[GlyphID]bool{})
	return cs, err
}

// glyphContours returns both the normalized contours and the raw outline
// points in glyph point order. Point-index matching in composites refers to
// the raw numbering, which normalization (midpoint insertion, rotation to
// an on-curve start) does not preserve.
func (f *Font) glyphContours(gid GlyphID, visiting map[GlyphID]bool) ([]Contour, []ContourPoint, error) {
	if visiting[gid] {
		return nil, nil, fmt.Errorf("%w: glyph %d", ErrGlyphCycle, gid)
	}
	g, err := f.Glyph(gid)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, nil
	}
	if !g.IsComposite() {
		return simpleContours(g), rawPoints(g), nil
	}

	visiting[gid] = true
	defer delete(visiting, gid)

	var out []Contour
	var assembled []ContourPoint // raw points of processed components
	for _, c := range g.Components {
		sub, subRaw, err := f.glyphContours(c.GlyphIndex, visiting)
		if err != nil {
			return nil, nil, err
		}
		scaled := transformContours(sub, c)
		raw := transformPoints(subRaw, c)
		var dx, dy float64
		if c.Flags&flagArgsAreXYValues != 0 {
			dx, dy = float64(c.Arg1), float64(c.Arg2)
		} else {
			// Point-index matching: Arg1 numbers the raw points assembled
			// from all previous components, Arg2 the raw points of this
			// component; the component shifts so the two coincide.
			a1, a2 := int(c.Arg1), int(c.Arg2)
			if a1 >= len(assembled) || a2 >= len(raw) {
				return nil, nil, fmt.Errorf("%w: composite point match out of range", ErrInvalidFontData)
			}
			dx = assembled[a1].X - raw[a2].X
			dy = assembled[a1].Y - raw[a2].Y
		}
		for i := range scaled {
			for j := range scaled[i] {
				scaled[i][j].X += dx
				scaled[i][j].Y += dy
			}
		}
		for i := range raw {
			raw[i].X += dx
			raw[i].Y += dy
		}
		out = append(out, scaled...)
		assembled = append(assembled, raw...)
	}
	return out, assembled, nil
}

// rawPoints converts the decoded points of a simple glyph without changing
// their order.
func rawPoints(g *Glyph) []ContourPoint {
	pts := make([]ContourPoint, len(g.Points))
	for i, p := range g.Points {
		pts[i] = ContourPoint{X: float64(p.X), Y: float64(p.Y), OnCurve: p.OnCurve}
	}
	return pts
}

// simpleContours converts decoded points into normalized contours,
// inserting the implied on-curve midpoints between consecutive off-curve
// control points and rotating each contour to start on-curve.
func simpleContours(g *Glyph) []Contour {
	var out []Contour
	start := 0
	for _, end := range g.EndPts {
		pts := g.Points[start : int(end)+1]
		start = int(end) + 1
		if len(pts) == 0 {
			continue
		}
		ctr := normalizeContour(pts)
		if len(ctr) > 0 {
			out = append(out, ctr)
		}
	}
	return out
}

func normalizeContour(pts []GlyphPoint) Contour {
	n := len(pts)
	// Rotate so the contour starts on-curve. If every point is
	// off-curve, the contour starts at the implied midpoint of the
	// first two control points.
	first := -1
	for i, p := range pts {
		if p.OnCurve {
			first = i
			break
		}
	}
	var ctr Contour
	if first == -1 {
		mid := ContourPoint{
			X:       (float64(pts[0].X) + float64(pts[n-1].X)) / 2,
			Y:       (float64(pts[0].Y) + float64(pts[n-1].Y)) / 2,
			OnCurve: true,
		}
		ctr = append(ctr, mid)
		first = 0
	}
	prevOn := true
	for k := 0; k < n; k++ {
		p := pts[(first+k)%n]
		cp := ContourPoint{X: float64(p.X), Y: float64(p.Y), OnCurve: p.OnCurve}
		if k == 0 && first >= 0 && p.OnCurve {
			ctr = append(ctr, cp)
			prevOn = true
			continue
		}
		if !cp.OnCurve && !prevOn {
			last := ctr[len(ctr)-1]
			ctr = append(ctr, ContourPoint{
				X:       (last.X + cp.X) / 2,
				Y:       (last.Y + cp.Y) / 2,
				OnCurve: true,
			})
		}
		ctr = append(ctr, cp)
		prevOn = cp.OnCurve
	}
	// Guarantee the contour also ends on-curve: close the quadratic with
	// the implied midpoint back toward the starting point if needed.
	if len(ctr) > 0 && !ctr[len(ctr)-1].OnCurve {
		last := ctr[len(ctr)-1]
		ctr = append(ctr, ContourPoint{
			X:       (last.X + ctr[0].X) / 2,
			Y:       (last.Y + ctr[0].Y) / 2,
			OnCurve: true,
		})
	}
	return ctr
}

func transformContours(cs []Contour, c GlyphComponent) []Contour {
	out := make([]Contour, len(cs))
	for i, ctr := range cs {
		nc := make(Contour, len(ctr))
		for j, p := range ctr {
			nc[j] = ContourPoint{
				X:       c.XScale*p.X + c.Scale10*p.Y,
				Y:       c.Scale01*p.X + c.YScale*p.Y,
				OnCurve: p.OnCurve,
			}
		}
		out[i] = nc
	}
	return out
}

func transformPoints(pts []ContourPoint, c GlyphComponent) []ContourPoint {
	out := make([]ContourPoint, len(pts))
	for i, p := range pts {
		out[i] = ContourPoint{
			X:       c.XScale*p.X + c.Scale10*p.Y,
			Y:       c.Scale01*p.X + c.YScale*p.Y,
			OnCurve: p.OnCurve,
		}
	}
	return out
}

// componentClosure walks the component references of a glyph, adding every
// transitively referenced glyph to set.
func (f *Font) componentClosure(gid GlyphID, set map[GlyphID]bool) error {
	if set[gid] {
		return nil
	}
	set[gid] = true
	g, err := f.Glyph(gid)
	if err != nil || g == nil {
		return err
	}
	for _, c := range g.Components {
		if err := f.componentClosure(c.GlyphIndex, set); err != nil {
			return err
		}
	}
	return nil
}
