package truetype

import (
	"testing"
)

func TestGlyphContoursSimple(t *testing.T) {
	f := parseGoRegular(t)
	gid := f.GlyphIndex('A')
	if gid == 0 {
		t.Fatal("'A' is not mapped")
	}
	contours, err := f.GlyphContours(gid)
	if err != nil {
		t.Fatalf("GlyphContours: %v", err)
	}
	// 'A' has an outer contour and the counter of the crossbar triangle.
	if len(contours) != 2 {
		t.Errorf("got %d contours, want 2", len(contours))
	}
	for ci, ctr := range contours {
		if len(ctr) < 3 {
			t.Errorf("contour %d has %d points", ci, len(ctr))
		}
		if !ctr[0].OnCurve {
			t.Errorf("contour %d does not start on-curve", ci)
		}
		for i := 1; i < len(ctr); i++ {
			if !ctr[i].OnCurve && !ctr[i-1].OnCurve {
				t.Errorf("contour %d has consecutive off-curve points at %d", ci, i)
			}
		}
		if !ctr[len(ctr)-1].OnCurve {
			t.Errorf("contour %d does not end on-curve", ci)
		}
	}
}

func TestGlyphContoursStayInBounds(t *testing.T) {
	f := parseGoRegular(t)
	for _, c := range "HxOq8@" {
		gid := f.GlyphIndex(c)
		g, err := f.Glyph(gid)
		if err != nil {
			t.Fatalf("Glyph(%q): %v", c, err)
		}
		contours, err := f.GlyphContours(gid)
		if err != nil {
			t.Fatalf("GlyphContours(%q): %v", c, err)
		}
		xMin, yMin := float64(g.XMin)-1, float64(g.YMin)-1
		xMax, yMax := float64(g.XMax)+1, float64(g.YMax)+1
		for _, ctr := range contours {
			for _, p := range ctr {
				// Implied midpoints stay inside the control bounds too.
				if p.X < xMin || p.X > xMax || p.Y < yMin || p.Y > yMax {
					t.Errorf("%q: point (%v,%v) outside bbox [%v,%v]x[%v,%v]",
						c, p.X, p.Y, xMin, xMax, yMin, yMax)
				}
			}
		}
	}
}

func TestEmptyGlyph(t *testing.T) {
	f := parseGoRegular(t)
	gid := f.GlyphIndex(' ')
	if gid == 0 {
		t.Fatal("space is not mapped")
	}
	g, err := f.Glyph(gid)
	if err != nil {
		t.Fatalf("Glyph: %v", err)
	}
	if g != nil {
		t.Errorf("space glyph has an outline: %+v", g)
	}
	contours, err := f.GlyphContours(gid)
	if err != nil {
		t.Fatalf("GlyphContours: %v", err)
	}
	if len(contours) != 0 {
		t.Errorf("space produced %d contours", len(contours))
	}
}

func TestCompositeGlyph(t *testing.T) {
	f := parseGoRegular(t)
	// Find a composite glyph among the accented Latin-1 characters.
	var composite GlyphID
	for _, c := range "ÀÁÂÃÄÅÈÉÊËÌÍÎÏ" {
		gid := f.GlyphIndex(c)
		if gid == 0 {
			continue
		}
		g, err := f.Glyph(gid)
		if err != nil {
			t.Fatalf("Glyph(%q): %v", c, err)
		}
		if g != nil && g.IsComposite() {
			composite = gid
			break
		}
	}
	if composite == 0 {
		t.Skip("no composite glyph found in test range")
	}
	contours, err := f.GlyphContours(composite)
	if err != nil {
		t.Fatalf("GlyphContours: %v", err)
	}
	// Base letter plus accent means at least two contours.
	if len(contours) < 2 {
		t.Errorf("composite produced %d contours", len(contours))
	}
	set := map[GlyphID]bool{}
	if err := f.componentClosure(composite, set); err != nil {
		t.Fatalf("componentClosure: %v", err)
	}
	if len(set) < 3 {
		t.Errorf("closure of composite has %d glyphs, want the composite plus components", len(set))
	}
}

func TestCompositePointMatching(t *testing.T) {
	w := func(vals ...int16) []byte {
		var b []byte
		for _, v := range vals {
			b = append(b, byte(uint16(v)>>8), byte(uint16(v)))
		}
		return b
	}

	// Glyph 0: one contour whose raw point 0 is the off-curve control
	// (50,50). Normalization rotates the contour to start at the on-curve
	// (0,0), so raw numbering and contour order disagree.
	var g0 []byte
	g0 = append(g0, w(1, 0, 0, 100, 50)...) // header
	g0 = append(g0, w(2)...)                // endPtsOfContours
	g0 = append(g0, w(0)...)                // instructionLength
	g0 = append(g0, 0x00, 0x01, 0x01)       // flags: off, on, on
	g0 = append(g0, w(50, -50, 100)...)     // x deltas
	g0 = append(g0, w(50, -50, 0)...)       // y deltas

	// Glyph 1: all-on-curve triangle (0,0) (100,0) (50,80).
	var g1 []byte
	g1 = append(g1, w(1, 0, 0, 100, 80)...)
	g1 = append(g1, w(2)...)
	g1 = append(g1, w(0)...)
	g1 = append(g1, 0x01, 0x01, 0x01)
	g1 = append(g1, w(0, 100, -50)...)
	g1 = append(g1, w(0, 0, 80)...)

	// Glyph 2: glyph 0 at the origin, then glyph 1 attached by matching
	// its raw point 0 to raw point 0 of the assembled outline, the
	// off-curve (50,50).
	var g2 []byte
	g2 = append(g2, w(-1, 0, 0, 150, 130)...)
	g2 = append(g2, w(int16(flagArgsAreXYValues|flagMoreComponents), 0)...)
	g2 = append(g2, 0, 0) // dx, dy
	g2 = append(g2, w(0, 1)...)
	g2 = append(g2, 0, 0) // point indices

	data := append(append(append([]byte(nil), g0...), g1...), g2...)
	f := &Font{Glyf: &GlyfTable{
		data: data,
		loca: &LocaTable{Offsets: []uint32{
			0, uint32(len(g0)), uint32(len(g0) + len(g1)), uint32(len(data)),
		}},
	}}

	contours, err := f.GlyphContours(2)
	if err != nil {
		t.Fatalf("GlyphContours: %v", err)
	}
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want 2", len(contours))
	}
	// The second component must land on the raw off-curve point, not on
	// the rotated contour's first point (0,0).
	got := contours[1][0]
	if got.X != 50 || got.Y != 50 || !got.OnCurve {
		t.Errorf("matched component starts at (%v,%v), want (50,50)", got.X, got.Y)
	}
}

func TestGlyphOutOfRange(t *testing.T) {
	f := parseGoRegular(t)
	if _, err := f.Glyph(GlyphID(f.NumGlyphs() + 10)); err == nil {
		t.Error("Glyph beyond numGlyphs did not fail")
	}
}
