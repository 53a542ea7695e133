package truetype

import "sync"

// CharMetrics are the metrics of one character, normalized to a 1000-unit
// em regardless of the font's design grid. Ascent and Descent come from the
// glyph's bounding box: Ascent is the extent above the baseline, Descent
// the extent below it (positive when the glyph reaches under the baseline,
// zero or negative otherwise).
type CharMetrics struct {
	AdvanceWidth     float64
	LeftSideBearing  float64
	RightSideBearing float64
	Ascent           float64
	Descent          float64
}

// FontMetrics are the font-wide vertical metrics, normalized to a
// 1000-unit em.
type FontMetrics struct {
	Ascent  float64
	Descent float64 // positive distance below the baseline
	LineGap float64
}

const metricsEm = 1000.0

// fsSelection bit 7: the OS/2 typographic metrics are authoritative.
const fsSelectionUseTypoMetrics = 0x0080

// metricsStore memoizes per-character metrics. The Latin-1 range is
// computed eagerly at construction so the common case never takes the
// lock; everything else fills a map lazily.
type metricsStore struct {
	font  *Font
	scale float64

	latin [256]CharMetrics

	mu    sync.Mutex
	extra map[rune]CharMetrics
}

func newMetricsStore(f *Font) *metricsStore {
	s := &metricsStore{
		font:  f,
		scale: metricsEm / float64(f.Head.UnitsPerEm),
		extra: make(map[rune]CharMetrics),
	}
	for c := rune(0); c < 256; c++ {
		s.latin[c] = s.compute(c)
	}
	return s
}

func (s *metricsStore) metrics(c rune) CharMetrics {
	if c >= 0 && c < 256 {
		return s.latin[c]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.extra[c]; ok {
		return m
	}
	m := s.compute(c)
	s.extra[c] = m
	return m
}

func (s *metricsStore) compute(c rune) CharMetrics {
	f := s.font
	gid := f.Cmap.Lookup(c)
	advance := float64(f.Hmtx.Advance(gid))
	lsb := float64(f.Hmtx.LeftSideBearing(gid))
	width, ymax, ymin := 0.0, 0.0, 0.0
	if g, err := f.Glyph(gid); err == nil && g != nil {
		width = float64(g.XMax) - float64(g.XMin)
		ymax = float64(g.YMax)
		ymin = float64(g.YMin)
	}
	return CharMetrics{
		AdvanceWidth:     advance * s.scale,
		LeftSideBearing:  lsb * s.scale,
		RightSideBearing: (advance - lsb - width) * s.scale,
		Ascent:           ymax * s.scale,
		Descent:          -ymin * s.scale,
	}
}

// CharMetrics returns the horizontal metrics for a rune on a 1000-unit em.
// Unmapped runes report the .notdef glyph's metrics.
func (f *Font) CharMetrics(c rune) CharMetrics {
	return f.metrics.metrics(c)
}

// TextAdvance returns the advance of a string on a 1000-unit em, including
// pair kerning when the font carries it.
func (f *Font) TextAdvance(text string) float64 {
	total := 0.0
	prev := GlyphID(0)
	hasPrev := false
	for _, c := range text {
		total += f.metrics.metrics(c).AdvanceWidth
		gid := f.Cmap.Lookup(c)
		if hasPrev {
			if adj, ok := f.Gpos.Kerning(prev, gid); ok {
				total += float64(adj.First.XAdvance+adj.Second.XAdvance) * f.metrics.scale
			}
		}
		prev, hasPrev = gid, true
	}
	return total
}

// Metrics returns the font-wide vertical metrics on a 1000-unit em. The
// OS/2 typographic values win when the font marks them authoritative, then
// the Windows clipping values, then the hhea values.
func (f *Font) Metrics() FontMetrics {
	scale := f.metrics.scale
	m := FontMetrics{
		Ascent:  float64(f.Hhea.Ascent) * scale,
		Descent: float64(-f.Hhea.Descent) * scale,
		LineGap: float64(f.Hhea.LineGap) * scale,
	}
	if f.OS2 == nil {
		return m
	}
	if f.OS2.FsSelection&fsSelectionUseTypoMetrics != 0 {
		m.Ascent = float64(f.OS2.STypoAscender) * scale
		m.Descent = float64(-f.OS2.STypoDescender) * scale
		m.LineGap = float64(f.OS2.STypoLineGap) * scale
		return m
	}
	if f.OS2.UsWinAscent != 0 || f.OS2.UsWinDescent != 0 {
		m.Ascent = float64(f.OS2.UsWinAscent) * scale
		m.Descent = float64(f.OS2.UsWinDescent) * scale
	}
	return m
}
