package truetype

import (
	"fmt"
	"sort"

	"github.com/tdewolff/parse/v2"
)

// Subset returns a font containing only the glyphs needed to render chars
// (plus .notdef and any glyphs referenced by composites), with glyf, loca,
// hmtx, maxp and cmap rebuilt for the reduced glyph set. Character codes
// keep their original values. Layout tables (GPOS) are dropped: pair
// positioning indexes glyphs that no longer exist after renumbering.
//
// Fonts without a format-4 cmap subtable cannot be subset; the original
// font is returned unchanged.
func (f *Font) Subset(chars string) (*Font, error) {
	sub, _, err := f.subset(chars, false)
	return sub, err
}

// SubsetConsolidated subsets like Subset but additionally remaps the kept
// characters onto a compact code range starting at U+0021. The returned map
// translates original runes to their new codes; text must be rewritten
// through it before shaping against the subset font.
func (f *Font) SubsetConsolidated(chars string) (*Font, map[rune]rune, error) {
	return f.subset(chars, true)
}

func (f *Font) subset(chars string, consolidate bool) (*Font, map[rune]rune, error) {
	if f.Cmap.Format4 == nil {
		logger().Warn("font has no format-4 cmap, returning unsubset font")
		identity := make(map[rune]rune)
		for _, c := range chars {
			identity[c] = c
		}
		return f, identity, nil
	}

	// Unique mapped runes, sorted.
	seen := make(map[rune]bool)
	var runes []rune
	for _, c := range chars {
		if !seen[c] && f.Cmap.Lookup(c) != 0 {
			seen[c] = true
			runes = append(runes, c)
		}
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	// Glyph closure: requested glyphs plus composite components, plus
	// .notdef.
	keep := map[GlyphID]bool{0: true}
	for _, c := range runes {
		if err := f.componentClosure(f.Cmap.Lookup(c), keep); err != nil {
			return nil, nil, err
		}
	}
	oldGIDs := make([]GlyphID, 0, len(keep))
	for gid := range keep {
		oldGIDs = append(oldGIDs, gid)
	}
	sort.Slice(oldGIDs, func(i, j int) bool { return oldGIDs[i] < oldGIDs[j] })
	newGID := make(map[GlyphID]GlyphID, len(oldGIDs))
	for i, gid := range oldGIDs {
		newGID[gid] = GlyphID(i)
	}
	numGlyphs := uint16(len(oldGIDs))

	// Character mapping for the rebuilt cmap.
	remap := make(map[rune]rune, len(runes))
	charToGID := make(map[rune]GlyphID, len(runes))
	for i, c := range runes {
		nc := c
		if consolidate {
			nc = rune(0x21 + i)
		}
		remap[c] = nc
		charToGID[nc] = newGID[f.Cmap.Lookup(c)]
	}

	glyfData, locaOffsets, err := f.rebuildGlyf(oldGIDs, newGID)
	if err != nil {
		return nil, nil, err
	}
	locaData, shortLoca := buildLoca(locaOffsets)

	tables := make(map[string][]byte, len(f.tables))
	for tag, b := range f.tables {
		if tag == "GPOS" {
			continue
		}
		tables[tag] = b
	}
	tables["glyf"] = glyfData
	tables["loca"] = locaData
	tables["hmtx"] = f.rebuildHmtx(oldGIDs)
	tables["cmap"] = buildCmap4(charToGID)

	head := append([]byte(nil), f.tables["head"]...)
	if shortLoca {
		putUint16(head[50:], 0)
	} else {
		putUint16(head[50:], 1)
	}
	tables["head"] = head

	// Every glyph gets a full metric record in the rebuilt hmtx.
	hhea := append([]byte(nil), f.tables["hhea"]...)
	putUint16(hhea[34:], numGlyphs)
	tables["hhea"] = hhea

	maxp := append([]byte(nil), f.tables["maxp"]...)
	putUint16(maxp[4:], numGlyphs)
	tables["maxp"] = maxp

	// Serialize and reparse: the round trip validates the rebuilt tables
	// and leaves the subset font with consistent parsed state.
	out, err := Parse((&Font{tables: tables}).Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("truetype: subset round trip failed: %w", err)
	}
	logger().Debug("subset font", "chars", len(runes), "glyphs", numGlyphs, "of", f.Maxp.NumGlyphs)
	return out, remap, nil
}

// rebuildGlyf concatenates the kept glyph descriptions in new-glyph order,
// renumbering composite component references and padding each description
// to a two-byte boundary so short loca offsets stay representable.
func (f *Font) rebuildGlyf(oldGIDs []GlyphID, newGID map[GlyphID]GlyphID) ([]byte, []uint32, error) {
	w := parse.NewBinaryWriter([]byte{})
	offsets := make([]uint32, 0, len(oldGIDs)+1)
	offsets = append(offsets, 0)
	for _, gid := range oldGIDs {
		data, err := f.Glyf.glyphData(gid)
		if err != nil {
			return nil, nil, err
		}
		if data != nil {
			data = append([]byte(nil), data...)
			if err := patchComposite(data, newGID); err != nil {
				return nil, nil, err
			}
			w.WriteBytes(data)
			if w.Len()%2 != 0 {
				w.WriteByte(0)
			}
		}
		offsets = append(offsets, w.Len())
	}
	return w.Bytes(), offsets, nil
}

// patchComposite rewrites component glyph indices in place. Simple glyphs
// pass through untouched.
func patchComposite(data []byte, newGID map[GlyphID]GlyphID) error {
	if len(data) < 10 || int16(uint16(data[0])<<8|uint16(data[1])) >= 0 {
		return nil
	}
	o := 10
	for {
		if o+4 > len(data) {
			return fmt.Errorf("%w: composite glyph truncated", ErrInvalidFontData)
		}
		flags := uint16(data[o])<<8 | uint16(data[o+1])
		old := GlyphID(uint16(data[o+2])<<8 | uint16(data[o+3]))
		ng, ok := newGID[old]
		if !ok {
			return fmt.Errorf("%w: component glyph %d not in subset", ErrInvalidFontData, old)
		}
		putUint16(data[o+2:], uint16(ng))
		o += 4
		if flags&flagArg1And2AreWords != 0 {
			o += 4
		} else {
			o += 2
		}
		switch {
		case flags&flagWeHaveAScale != 0:
			o += 2
		case flags&flagWeHaveXYScale != 0:
			o += 4
		case flags&flagWeHaveTwoByTwo != 0:
			o += 8
		}
		if flags&flagMoreComponents == 0 {
			return nil
		}
	}
}

// buildLoca encodes offsets using the short format when they fit.
func buildLoca(offsets []uint32) ([]byte, bool) {
	short := offsets[len(offsets)-1]/2 <= 0xFFFF
	w := parse.NewBinaryWriter([]byte{})
	for _, off := range offsets {
		if short {
			w.WriteUint16(uint16(off / 2))
		} else {
			w.WriteUint32(off)
		}
	}
	return w.Bytes(), short
}

// rebuildHmtx emits a full advance/bearing record for every kept glyph.
func (f *Font) rebuildHmtx(oldGIDs []GlyphID) []byte {
	w := parse.NewBinaryWriter(make([]byte, 0, 4*len(oldGIDs)))
	for _, gid := range oldGIDs {
		w.WriteUint16(f.Hmtx.Advance(gid))
		w.WriteInt16(f.Hmtx.LeftSideBearing(gid))
	}
	return w.Bytes()
}

// buildCmap4 encodes a character-to-glyph mapping as a single format-4
// subtable on the Windows Unicode BMP platform.
func buildCmap4(charToGID map[rune]GlyphID) []byte {
	codes := make([]rune, 0, len(charToGID))
	for c := range charToGID {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	type segment struct {
		start, end uint16
		idDelta    int16
		gids       []uint16 // non-nil forces the idRangeOffset path
	}
	var segs []segment
	for i := 0; i < len(codes); {
		j := i + 1
		for j < len(codes) && codes[j] == codes[j-1]+1 {
			j++
		}
		run := codes[i:j]
		consecutive := true
		for k := 1; k < len(run); k++ {
			if charToGID[run[k]] != charToGID[run[k-1]]+1 {
				consecutive = false
				break
			}
		}
		seg := segment{start: uint16(run[0]), end: uint16(run[len(run)-1])}
		if consecutive {
			seg.idDelta = int16(uint16(charToGID[run[0]]) - uint16(run[0]))
		} else {
			seg.gids = make([]uint16, len(run))
			for k, c := range run {
				seg.gids[k] = uint16(charToGID[c])
			}
		}
		segs = append(segs, seg)
		i = j
	}
	// Required terminator mapping 0xFFFF to .notdef.
	segs = append(segs, segment{start: 0xFFFF, end: 0xFFFF, idDelta: 1})

	segCount := len(segs)
	glyphIDCount := 0
	for _, s := range segs {
		glyphIDCount += len(s.gids)
	}
	subLen := 16 + 8*segCount + 2*glyphIDCount

	w := parse.NewBinaryWriter(make([]byte, 0, 12+subLen))
	w.WriteUint16(0) // version
	w.WriteUint16(1) // one encoding record
	w.WriteUint16(3) // Windows
	w.WriteUint16(1) // Unicode BMP
	w.WriteUint32(12)

	w.WriteUint16(4) // format
	w.WriteUint16(uint16(subLen))
	w.WriteUint16(0) // language
	w.WriteUint16(uint16(2 * segCount))
	entrySelector := uint16(0)
	for 1<<(entrySelector+1) <= segCount {
		entrySelector++
	}
	searchRange := uint16(2 << entrySelector)
	w.WriteUint16(searchRange)
	w.WriteUint16(entrySelector)
	w.WriteUint16(uint16(2*segCount) - searchRange)
	for _, s := range segs {
		w.WriteUint16(s.end)
	}
	w.WriteUint16(0) // reservedPad
	for _, s := range segs {
		w.WriteUint16(s.start)
	}
	for _, s := range segs {
		w.WriteInt16(s.idDelta)
	}
	gidPos := 0
	for i, s := range segs {
		if s.gids == nil {
			w.WriteUint16(0)
		} else {
			// Byte distance from this idRangeOffset slot to the
			// segment's block in the glyph index array.
			w.WriteUint16(uint16(2 * (segCount - i + gidPos)))
			gidPos += len(s.gids)
		}
	}
	for _, s := range segs {
		for _, gid := range s.gids {
			w.WriteUint16(gid)
		}
	}
	return w.Bytes()
}
