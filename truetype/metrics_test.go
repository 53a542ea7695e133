package truetype

import (
	"math"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	xsfnt "golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func TestCharMetricsMatchOracle(t *testing.T) {
	f := parseGoRegular(t)
	oracle := oracleFont(t)
	var buf xsfnt.Buffer

	upem := fixed.I(int(oracle.UnitsPerEm()))
	for _, c := range "AWimx0 ." {
		gid, err := oracle.GlyphIndex(&buf, c)
		if err != nil {
			t.Fatalf("oracle GlyphIndex(%q): %v", c, err)
		}
		// At ppem == unitsPerEm the oracle advance is in font units.
		adv, err := oracle.GlyphAdvance(&buf, gid, upem, font.HintingNone)
		if err != nil {
			t.Fatalf("oracle GlyphAdvance(%q): %v", c, err)
		}
		wantUnits := float64(adv) / 64
		want := wantUnits * metricsEm / float64(f.UnitsPerEm())
		got := f.CharMetrics(c).AdvanceWidth
		if math.Abs(got-want) > 0.5 {
			t.Errorf("AdvanceWidth(%q) = %v, want %v", c, got, want)
		}
	}
}

func TestCharMetricsBearings(t *testing.T) {
	f := parseGoRegular(t)
	m := f.CharMetrics('H')
	if m.AdvanceWidth <= 0 {
		t.Fatalf("AdvanceWidth = %v", m.AdvanceWidth)
	}
	g, err := f.Glyph(f.GlyphIndex('H'))
	if err != nil || g == nil {
		t.Fatalf("Glyph: %v", err)
	}
	scale := metricsEm / float64(f.UnitsPerEm())
	width := (float64(g.XMax) - float64(g.XMin)) * scale
	if got := m.AdvanceWidth - m.LeftSideBearing - m.RightSideBearing; math.Abs(got-width) > 1e-9 {
		t.Errorf("advance - bearings = %v, want glyph width %v", got, width)
	}
}

func TestCharMetricsVertical(t *testing.T) {
	f := parseGoRegular(t)
	scale := metricsEm / float64(f.UnitsPerEm())
	for _, c := range "Agy." {
		g, err := f.Glyph(f.GlyphIndex(c))
		if err != nil || g == nil {
			t.Fatalf("Glyph(%q): %v", c, err)
		}
		m := f.CharMetrics(c)
		if want := float64(g.YMax) * scale; math.Abs(m.Ascent-want) > 1e-9 {
			t.Errorf("Ascent(%q) = %v, want %v", c, m.Ascent, want)
		}
		if want := float64(-g.YMin) * scale; math.Abs(m.Descent-want) > 1e-9 {
			t.Errorf("Descent(%q) = %v, want %v", c, m.Descent, want)
		}
	}
	if f.CharMetrics('g').Descent <= 0 {
		t.Error("descender letter reports no extent below the baseline")
	}
	if f.CharMetrics('A').Ascent <= 0 {
		t.Error("cap letter reports no extent above the baseline")
	}
}

func TestCharMetricsUnmapped(t *testing.T) {
	f := parseGoRegular(t)
	// Unmapped runes resolve to .notdef and must not panic; the memo above
	// the Latin-1 range goes through the locked path.
	m := f.CharMetrics(0x4E2D)
	if m.AdvanceWidth < 0 {
		t.Errorf("AdvanceWidth = %v", m.AdvanceWidth)
	}
	if f.CharMetrics(0x4E2D) != m {
		t.Error("memoized lookup disagrees with first computation")
	}
}

func TestTextAdvance(t *testing.T) {
	f := parseGoRegular(t)
	single := f.CharMetrics('A').AdvanceWidth
	if got := f.TextAdvance("A"); math.Abs(got-single) > 1e-9 {
		t.Errorf("TextAdvance(A) = %v, want %v", got, single)
	}
	if f.TextAdvance("AA") <= f.TextAdvance("A") {
		t.Error("TextAdvance not increasing with length")
	}
	if got := f.TextAdvance(""); got != 0 {
		t.Errorf("TextAdvance(empty) = %v", got)
	}
}

func TestFontMetrics(t *testing.T) {
	f := parseGoRegular(t)
	m := f.Metrics()
	if m.Ascent <= 0 || m.Descent <= 0 {
		t.Errorf("Metrics = %+v, want positive ascent and descent", m)
	}
	if m.Ascent < m.Descent {
		t.Errorf("ascent %v below descent %v", m.Ascent, m.Descent)
	}
}

func TestMetricsSurviveReparse(t *testing.T) {
	f := parseGoRegular(t)
	g, err := Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.CharMetrics('x') != g.CharMetrics('x') {
		t.Error("independent parses disagree on metrics")
	}
}
