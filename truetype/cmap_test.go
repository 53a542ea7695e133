package truetype

import (
	"testing"

	xsfnt "golang.org/x/image/font/sfnt"
)

func TestCmapLookupMatchesOracle(t *testing.T) {
	f := parseGoRegular(t)
	oracle := oracleFont(t)
	var buf xsfnt.Buffer

	runes := f.Cmap.Format4.MappedRunes()
	if len(runes) == 0 {
		t.Fatal("no mapped runes")
	}
	for _, c := range runes {
		want, err := oracle.GlyphIndex(&buf, c)
		if err != nil {
			t.Fatalf("oracle GlyphIndex(%q): %v", c, err)
		}
		if got := f.Cmap.Lookup(c); got != GlyphID(want) {
			t.Errorf("Lookup(%#x) = %d, want %d", c, got, want)
		}
	}
}

func TestCmapUnmapped(t *testing.T) {
	f := parseGoRegular(t)
	tests := []struct {
		name string
		c    rune
	}{
		{"unassigned BMP", 0xFFFE},
		{"catch-all", 0xFFFF},
		{"outside BMP", 0x1F600},
		{"negative", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Cmap.Lookup(tt.c); got != 0 {
				t.Errorf("Lookup(%#x) = %d, want 0", tt.c, got)
			}
		})
	}
}

func TestCmapSubtableOffsetOverflow(t *testing.T) {
	// A subtable offset near the uint32 maximum must not wrap the bounds
	// check and slice out of range.
	b := []byte{
		0, 0, // version
		0, 1, // one subtable
		0, 3, 0, 1, // platform, encoding
		0xFF, 0xFF, 0xFF, 0xFF, // offset
	}
	if _, err := parseCmap(b); err == nil {
		t.Error("parseCmap accepted an out-of-range subtable offset")
	}
}

func TestCmapFormat4HonorsLength(t *testing.T) {
	// Non-consecutive glyph ids force the idRangeOffset path, so the
	// subtable carries a glyph index array whose extent the length field
	// defines. Trailing bytes after the subtable must not be absorbed.
	table := buildCmap4(map[rune]GlyphID{'a': 5, 'b': 9})
	table = append(table, 0xDE, 0xAD, 0xBE, 0xEF)
	cm, err := parseCmap(table)
	if err != nil {
		t.Fatalf("parseCmap: %v", err)
	}
	if cm.Format4 == nil {
		t.Fatal("no format 4 subtable")
	}
	if got := len(cm.Format4.GlyphIDArray); got != 2 {
		t.Errorf("GlyphIDArray has %d entries, want 2", got)
	}
	if got := cm.Lookup('a'); got != 5 {
		t.Errorf("Lookup('a') = %d, want 5", got)
	}
	if got := cm.Lookup('b'); got != 9 {
		t.Errorf("Lookup('b') = %d, want 9", got)
	}
}

func TestMappedRunesAscending(t *testing.T) {
	f := parseGoRegular(t)
	runes := f.Cmap.Format4.MappedRunes()
	for i := 1; i < len(runes); i++ {
		if runes[i-1] >= runes[i] {
			t.Fatalf("runes not strictly ascending at %d: %#x >= %#x", i, runes[i-1], runes[i])
		}
	}
	found := false
	for _, c := range runes {
		if c == 'A' {
			found = true
			break
		}
	}
	if !found {
		t.Error("MappedRunes does not contain 'A'")
	}
}
