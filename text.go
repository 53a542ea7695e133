package vg

import "github.com/gogpu/vg/truetype"

// TextAnchor controls horizontal placement of text relative to its origin.
type TextAnchor int

const (
	AnchorStart TextAnchor = iota
	AnchorMiddle
	AnchorEnd
)

// TextBaseline controls vertical placement of text relative to its origin.
type TextBaseline int

const (
	BaselineAlphabetic TextBaseline = iota
	BaselineTop
	BaselineMiddle
	BaselineBottom
)

type textOptions struct {
	anchor   TextAnchor
	baseline TextBaseline
	tracking float64
	kerning  bool
}

// TextOption configures AddText.
type TextOption func(*textOptions)

// WithAnchor sets the horizontal anchor. The default is AnchorStart.
func WithAnchor(a TextAnchor) TextOption {
	return func(o *textOptions) { o.anchor = a }
}

// WithBaseline sets the vertical reference. The default is
// BaselineAlphabetic: the origin sits on the text baseline.
func WithBaseline(b TextBaseline) TextOption {
	return func(o *textOptions) { o.baseline = b }
}

// WithTracking adds extra space between consecutive glyphs, in the same
// units as the font size.
func WithTracking(t float64) TextOption {
	return func(o *textOptions) { o.tracking = t }
}

// WithoutKerning disables pair kerning even when the font carries it.
func WithoutKerning() TextOption {
	return func(o *textOptions) { o.kerning = false }
}

// AddText appends the outlines of text to the path, one figure per glyph
// contour. Glyph outlines are scaled to the given size (in path units per
// em) and placed left to right from origin, with pair kerning applied when
// the font provides it. The font's y-up outlines are flipped into the
// path's y-down frame.
func (p *Path) AddText(text string, font *truetype.Font, size float64, origin Point, opts ...TextOption) error {
	o := textOptions{kerning: true}
	for _, opt := range opts {
		opt(&o)
	}
	scale := size / float64(font.UnitsPerEm())

	pen := origin
	switch o.anchor {
	case AnchorMiddle:
		pen.X -= textWidth(text, font, scale, o) / 2
	case AnchorEnd:
		pen.X -= textWidth(text, font, scale, o)
	}
	m := font.Metrics()
	switch o.baseline {
	case BaselineTop:
		pen.Y += m.Ascent / 1000 * size
	case BaselineMiddle:
		pen.Y += (m.Ascent - m.Descent) / 2 / 1000 * size
	case BaselineBottom:
		pen.Y -= m.Descent / 1000 * size
	}

	prev := truetype.GlyphID(0)
	hasPrev := false
	for _, c := range text {
		gid := font.GlyphIndex(c)
		if hasPrev && o.kerning {
			if adj, ok := font.Gpos.Kerning(prev, gid); ok {
				pen.X += float64(adj.First.XAdvance+adj.Second.XAdvance) * scale
			}
		}
		contours, err := font.GlyphContours(gid)
		if err != nil {
			return err
		}
		for _, ctr := range contours {
			p.addContour(ctr, pen, scale)
		}
		pen.X += float64(font.Hmtx.Advance(gid))*scale + o.tracking
		prev, hasPrev = gid, true
	}
	return nil
}

// addContour appends one glyph contour as a closed figure. Contours arrive
// normalized: they start on-curve and never hold two consecutive off-curve
// points, so each off-curve point is the control of one quadratic whose end
// is the following (or wrapping first) point.
func (p *Path) addContour(ctr truetype.Contour, pen Point, scale float64) {
	if len(ctr) == 0 {
		return
	}
	at := func(cp truetype.ContourPoint) Point {
		return Pt(pen.X+cp.X*scale, pen.Y-cp.Y*scale)
	}
	start := at(ctr[0])
	p.MoveTo(start.X, start.Y)
	for i := 1; i < len(ctr); i++ {
		cp := ctr[i]
		if cp.OnCurve {
			pt := at(cp)
			p.LineTo(pt.X, pt.Y)
			continue
		}
		ctrl := at(cp)
		end := start
		if i+1 < len(ctr) {
			end = at(ctr[i+1])
			i++
		}
		p.QuadraticTo(ctrl.X, ctrl.Y, end.X, end.Y)
	}
	p.Close()
}

// textWidth measures the pen advance of text at the given glyph scale,
// honoring the kerning and tracking options.
func textWidth(text string, font *truetype.Font, scale float64, o textOptions) float64 {
	w := 0.0
	prev := truetype.GlyphID(0)
	hasPrev := false
	n := 0
	for _, c := range text {
		gid := font.GlyphIndex(c)
		if hasPrev && o.kerning {
			if adj, ok := font.Gpos.Kerning(prev, gid); ok {
				w += float64(adj.First.XAdvance+adj.Second.XAdvance) * scale
			}
		}
		w += float64(font.Hmtx.Advance(gid)) * scale
		prev, hasPrev = gid, true
		n++
	}
	if n > 1 {
		w += o.tracking * float64(n-1)
	}
	return w
}
