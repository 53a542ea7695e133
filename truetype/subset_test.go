package truetype

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSubsetKeepsRequestedGlyphs(t *testing.T) {
	f := parseGoRegular(t)
	sub, err := f.Subset("Hello, World!")
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	if sub.NumGlyphs() >= f.NumGlyphs() {
		t.Errorf("subset has %d glyphs, original %d", sub.NumGlyphs(), f.NumGlyphs())
	}
	for _, c := range "Helo, Wrd!" {
		if sub.GlyphIndex(c) == 0 {
			t.Errorf("subset lost %q", c)
		}
	}
	if sub.GlyphIndex('z') != 0 {
		t.Error("subset still maps a character that was not requested")
	}
	if _, ok := sub.Table("GPOS"); ok {
		t.Error("subset still carries GPOS")
	}
}

func TestSubsetPreservesMetrics(t *testing.T) {
	f := parseGoRegular(t)
	sub, err := f.Subset("AWm")
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	for _, c := range "AWm" {
		if diff := cmp.Diff(f.CharMetrics(c), sub.CharMetrics(c)); diff != "" {
			t.Errorf("metrics of %q changed (-orig +subset):\n%s", c, diff)
		}
	}
	if sub.UnitsPerEm() != f.UnitsPerEm() {
		t.Errorf("UnitsPerEm changed: %d vs %d", sub.UnitsPerEm(), f.UnitsPerEm())
	}
}

func TestSubsetPreservesOutlines(t *testing.T) {
	f := parseGoRegular(t)
	sub, err := f.Subset("Q")
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	orig, err := f.GlyphContours(f.GlyphIndex('Q'))
	if err != nil {
		t.Fatalf("original contours: %v", err)
	}
	got, err := sub.GlyphContours(sub.GlyphIndex('Q'))
	if err != nil {
		t.Fatalf("subset contours: %v", err)
	}
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Errorf("outline of 'Q' changed (-orig +subset):\n%s", diff)
	}
}

func TestSubsetResolvesComposites(t *testing.T) {
	f := parseGoRegular(t)
	sub, err := f.Subset("Ä")
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	gid := sub.GlyphIndex('Ä')
	if gid == 0 {
		t.Fatal("subset lost 'Ä'")
	}
	contours, err := sub.GlyphContours(gid)
	if err != nil {
		t.Fatalf("GlyphContours: %v", err)
	}
	orig, err := f.GlyphContours(f.GlyphIndex('Ä'))
	if err != nil {
		t.Fatalf("original contours: %v", err)
	}
	if len(contours) != len(orig) {
		t.Errorf("subset composite has %d contours, original %d", len(contours), len(orig))
	}
}

func TestSubsetConsolidated(t *testing.T) {
	f := parseGoRegular(t)
	sub, remap, err := f.SubsetConsolidated("ba")
	if err != nil {
		t.Fatalf("SubsetConsolidated: %v", err)
	}
	// Codes are reassigned in rune order from U+0021.
	if remap['a'] != 0x21 || remap['b'] != 0x22 {
		t.Errorf("remap = %v, want a->0x21, b->0x22", remap)
	}
	for orig, packed := range remap {
		if sub.GlyphIndex(packed) == 0 {
			t.Errorf("packed code %#x for %q is unmapped", packed, orig)
		}
		if math.Abs(sub.CharMetrics(packed).AdvanceWidth-f.CharMetrics(orig).AdvanceWidth) > 1e-9 {
			t.Errorf("advance of %q changed through consolidation", orig)
		}
	}
	if sub.GlyphIndex('a') != 0 {
		t.Error("original code still mapped after consolidation")
	}
}

func TestSubsetRoundTripSerializes(t *testing.T) {
	f := parseGoRegular(t)
	sub, err := f.Subset("abc")
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	if _, err := Parse(sub.Bytes()); err != nil {
		t.Fatalf("subset does not reparse: %v", err)
	}
}

func TestSubsetIgnoresUnmappedChars(t *testing.T) {
	f := parseGoRegular(t)
	sub, err := f.Subset("A￾B")
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	if sub.GlyphIndex('A') == 0 || sub.GlyphIndex('B') == 0 {
		t.Error("subset lost mapped characters")
	}
}
