package truetype

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
)

// CmapTable maps character codes to glyph indices. Lookup prefers a
// format-4 (segmented delta) subtable and falls back to format 0 (byte
// array); other subtable formats are ignored.
type CmapTable struct {
	Format4 *CmapFormat4
	Format0 *CmapFormat0
}

// CmapFormat4 is the segment-mapping-to-delta subtable.
type CmapFormat4 struct {
	EndCodes      []uint16
	StartCodes    []uint16
	IDDeltas      []int16
	IDRangeOffset []uint16
	GlyphIDArray  []uint16 // storage following the idRangeOffset array
}

// CmapFormat0 is the byte-encoding subtable for the first 256 codes.
type CmapFormat0 struct {
	GlyphIDs [256]uint8
}

func parseCmap(b []byte) (*CmapTable, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("%w: cmap table too short", ErrInvalidFontData)
	}
	r := parse.NewBinaryReader(b)
	_ = r.ReadUint16() // version
	numSubtables := r.ReadUint16()
	if r.Len() < 8*uint32(numSubtables) {
		return nil, fmt.Errorf("%w: cmap directory truncated", ErrInvalidFontData)
	}

	t := &CmapTable{}
	for i := 0; i < int(numSubtables); i++ {
		_ = r.ReadUint16() // platformID
		_ = r.ReadUint16() // platformSpecificID
		offset := r.ReadUint32()
		// Guard the subtraction: offset near the uint32 maximum must not
		// wrap the bounds check.
		if uint32(len(b)) < 2 || offset > uint32(len(b))-2 {
			continue
		}
		sub := parse.NewBinaryReader(b[offset:])
		switch format := sub.ReadUint16(); format {
		case 0:
			if t.Format0 == nil {
				f0, err := parseCmap0(sub)
				if err != nil {
					return nil, err
				}
				t.Format0 = f0
			}
		case 4:
			if t.Format4 == nil {
				f4, err := parseCmap4(sub)
				if err != nil {
					return nil, err
				}
				t.Format4 = f4
			}
		}
	}
	if t.Format4 == nil && t.Format0 == nil {
		return nil, fmt.Errorf("%w: cmap has no format 0 or 4 subtable", ErrInvalidFontData)
	}
	return t, nil
}

func parseCmap0(r *parse.BinaryReader) (*CmapFormat0, error) {
	_ = r.ReadUint16() // length
	_ = r.ReadUint16() // language
	if r.Len() < 256 {
		return nil, fmt.Errorf("%w: cmap format 0 truncated", ErrInvalidFontData)
	}
	f := &CmapFormat0{}
	copy(f.GlyphIDs[:], r.ReadBytes(256))
	return f, nil
}

func parseCmap4(r *parse.BinaryReader) (*CmapFormat4, error) {
	length := r.ReadUint16()
	_ = r.ReadUint16() // language
	segCountX2 := r.ReadUint16()
	segCount := int(segCountX2 / 2)
	if segCount == 0 {
		return nil, fmt.Errorf("%w: cmap format 4 has no segments", ErrInvalidFontData)
	}
	_ = r.ReadUint16() // searchRange
	_ = r.ReadUint16() // entrySelector
	_ = r.ReadUint16() // rangeShift
	if r.Len() < uint32(8*segCount+2) {
		return nil, fmt.Errorf("%w: cmap format 4 truncated", ErrInvalidFontData)
	}
	f := &CmapFormat4{
		EndCodes:      make([]uint16, segCount),
		StartCodes:    make([]uint16, segCount),
		IDDeltas:      make([]int16, segCount),
		IDRangeOffset: make([]uint16, segCount),
	}
	for i := 0; i < segCount; i++ {
		f.EndCodes[i] = r.ReadUint16()
	}
	_ = r.ReadUint16() // reservedPad
	for i := 0; i < segCount; i++ {
		f.StartCodes[i] = r.ReadUint16()
	}
	for i := 0; i < segCount; i++ {
		f.IDDeltas[i] = r.ReadInt16()
	}
	for i := 0; i < segCount; i++ {
		f.IDRangeOffset[i] = r.ReadUint16()
	}
	// The glyph index storage is whatever the declared subtable length
	// leaves after the header and the four segment arrays. Reading to the
	// end of the table instead would absorb bytes belonging to sibling
	// subtables.
	glyphIDBytes := int(length) - 16 - 8*segCount
	if glyphIDBytes < 0 {
		glyphIDBytes = 0
	}
	if uint32(glyphIDBytes) > r.Len() {
		glyphIDBytes = int(r.Len())
	}
	f.GlyphIDArray = make([]uint16, glyphIDBytes/2)
	for i := range f.GlyphIDArray {
		f.GlyphIDArray[i] = r.ReadUint16()
	}
	return f, nil
}

// Lookup returns the glyph index for a rune, or 0 when unmapped.
func (t *CmapTable) Lookup(c rune) GlyphID {
	if t.Format4 != nil {
		if gid := t.Format4.Lookup(c); gid != 0 {
			return gid
		}
	}
	if t.Format0 != nil && c >= 0 && c < 256 {
		return GlyphID(t.Format0.GlyphIDs[c])
	}
	return 0
}

// Lookup resolves a rune through the segment arrays: binary search for the
// smallest end code >= c, confirm the segment's start code covers c, then
// either apply idDelta directly or walk idRangeOffset into the glyph index
// array.
func (f *CmapFormat4) Lookup(c rune) GlyphID {
	if c < 0 || c > 0xFFFF {
		return 0
	}
	code := uint16(c)
	lo, hi := 0, len(f.EndCodes)
	for lo < hi {
		mid := (lo + hi) / 2
		if f.EndCodes[mid] < code {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == len(f.EndCodes) || f.StartCodes[lo] > code {
		return 0
	}
	if f.IDRangeOffset[lo] == 0 {
		return GlyphID(uint16(int(code) + int(f.IDDeltas[lo])))
	}
	// idRangeOffset is a byte offset from its own position within the
	// idRangeOffset array into the glyph index storage.
	idx := int(f.IDRangeOffset[lo])/2 + int(code-f.StartCodes[lo]) - (len(f.IDRangeOffset) - lo)
	if idx < 0 || idx >= len(f.GlyphIDArray) {
		return 0
	}
	gid := f.GlyphIDArray[idx]
	if gid == 0 {
		return 0
	}
	return GlyphID(uint16(int(gid) + int(f.IDDeltas[lo])))
}

// MappedRunes returns every rune the format-4 subtable maps to a nonzero
// glyph, in ascending order. The final 0xFFFF catch-all is excluded.
func (f *CmapFormat4) MappedRunes() []rune {
	var runes []rune
	for i, start := range f.StartCodes {
		end := f.EndCodes[i]
		if start == 0xFFFF {
			continue
		}
		for c := int(start); c <= int(end) && c < 0xFFFF; c++ {
			if f.Lookup(rune(c)) != 0 {
				runes = append(runes, rune(c))
			}
		}
	}
	return runes
}
