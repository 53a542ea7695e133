package truetype

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBytesRoundTrip(t *testing.T) {
	f := parseGoRegular(t)
	out := f.Bytes()
	g, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if diff := cmp.Diff(f.TableTags(), g.TableTags()); diff != "" {
		t.Errorf("table tags changed (-orig +rewritten):\n%s", diff)
	}
	if g.NumGlyphs() != f.NumGlyphs() || g.UnitsPerEm() != f.UnitsPerEm() {
		t.Errorf("glyphs/em changed: %d/%d vs %d/%d",
			g.NumGlyphs(), g.UnitsPerEm(), f.NumGlyphs(), f.UnitsPerEm())
	}
	for c := rune(0x20); c < 0x80; c++ {
		if f.GlyphIndex(c) != g.GlyphIndex(c) {
			t.Errorf("GlyphIndex(%q) changed", c)
		}
	}
	for _, tag := range []string{"head", "hhea", "maxp"} {
		a, _ := f.Table(tag)
		b, _ := g.Table(tag)
		if tag == "head" {
			// checksumAdjustment is recomputed for the new file layout.
			a = append([]byte(nil), a...)
			b = append([]byte(nil), b...)
			putUint32(a[8:], 0)
			putUint32(b[8:], 0)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("%s table changed across the round trip", tag)
		}
	}
}

func TestBytesWholeFileChecksum(t *testing.T) {
	f := parseGoRegular(t)
	out := f.Bytes()
	if got := calcChecksum(out); got != checksumAdjustmentBase {
		t.Errorf("whole-file checksum = %#x, want %#x", got, uint32(checksumAdjustmentBase))
	}
}

func TestBytesTableChecksums(t *testing.T) {
	f := parseGoRegular(t)
	out := f.Bytes()
	numTables := int(uint16(out[4])<<8 | uint16(out[5]))
	for i := 0; i < numTables; i++ {
		rec := out[12+16*i:]
		tag := string(rec[:4])
		sum := uint32(rec[4])<<24 | uint32(rec[5])<<16 | uint32(rec[6])<<8 | uint32(rec[7])
		off := uint32(rec[8])<<24 | uint32(rec[9])<<16 | uint32(rec[10])<<8 | uint32(rec[11])
		length := uint32(rec[12])<<24 | uint32(rec[13])<<16 | uint32(rec[14])<<8 | uint32(rec[15])
		data := out[off : off+length]
		want := calcChecksum(data)
		if tag == "head" {
			adj := uint32(data[8])<<24 | uint32(data[9])<<16 | uint32(data[10])<<8 | uint32(data[11])
			want -= adj
		}
		if sum != want {
			t.Errorf("table %q: stored checksum %#x, computed %#x", tag, sum, want)
		}
	}
}

func TestBytesDirectorySorted(t *testing.T) {
	f := parseGoRegular(t)
	out := f.Bytes()
	numTables := int(uint16(out[4])<<8 | uint16(out[5]))
	prev := ""
	for i := 0; i < numTables; i++ {
		tag := string(out[12+16*i : 16+16*i])
		if tag <= prev {
			t.Fatalf("directory not sorted: %q after %q", tag, prev)
		}
		prev = tag
	}
}
