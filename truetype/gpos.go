package truetype

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
)

// GposTable carries the pair-adjustment subtables reachable from the
// "kern" feature of the GPOS table. Only lookup type 2 (pair adjustment)
// is interpreted, including type-9 extension wrappers around it; other
// positioning lookups are skipped.
type GposTable struct {
	pairs []*pairPosSubtable
}

// ValueRecord is one side of a pair adjustment, in font units.
type ValueRecord struct {
	XPlacement int16
	YPlacement int16
	XAdvance   int16
	YAdvance   int16
}

// PairAdjustment positions a glyph pair: First applies to the left glyph,
// Second to the right.
type PairAdjustment struct {
	First  ValueRecord
	Second ValueRecord
}

type pairPosSubtable struct {
	coverage coverage

	// Format 1: per-glyph pair sets keyed by the second glyph.
	pairSets map[GlyphID][]pairValue

	// Format 2: class matrix.
	classDef1 classDef
	classDef2 classDef
	class1Cnt uint16
	class2Cnt uint16
	matrix    []PairAdjustment // class1Count*class2Count records
}

type pairValue struct {
	second GlyphID
	adj    PairAdjustment
}

// Kerning returns the pair adjustment for two consecutive glyphs and
// whether any subtable covered the pair.
func (t *GposTable) Kerning(first, second GlyphID) (PairAdjustment, bool) {
	if t == nil {
		return PairAdjustment{}, false
	}
	for _, sub := range t.pairs {
		if _, ok := sub.coverage.index(first); !ok {
			continue
		}
		if sub.pairSets != nil {
			for _, pv := range sub.pairSets[first] {
				if pv.second == second {
					return pv.adj, true
				}
			}
			continue
		}
		c1 := sub.classDef1.class(first)
		c2 := sub.classDef2.class(second)
		if c1 < sub.class1Cnt && c2 < sub.class2Cnt {
			return sub.matrix[int(c1)*int(sub.class2Cnt)+int(c2)], true
		}
	}
	return PairAdjustment{}, false
}

func parseGpos(b []byte) (*GposTable, error) {
	if len(b) < 10 {
		return nil, fmt.Errorf("%w: GPOS table too short", ErrInvalidFontData)
	}
	r := parse.NewBinaryReader(b)
	major := r.ReadUint16()
	_ = r.ReadUint16() // minor
	if major != 1 {
		return nil, fmt.Errorf("%w: GPOS version %d", ErrUnsupportedFormat, major)
	}
	_ = r.ReadUint16() // scriptListOffset
	featureOff := r.ReadUint16()
	lookupOff := r.ReadUint16()
	if int(featureOff) > len(b) || int(lookupOff) > len(b) {
		return nil, fmt.Errorf("%w: GPOS offsets out of bounds", ErrInvalidFontData)
	}

	lookups, err := kernLookupIndices(b[featureOff:])
	if err != nil {
		return nil, err
	}
	t := &GposTable{}
	if len(lookups) == 0 {
		return t, nil
	}

	lookupList := b[lookupOff:]
	lr := parse.NewBinaryReader(lookupList)
	if lr.Len() < 2 {
		return nil, fmt.Errorf("%w: GPOS lookup list truncated", ErrInvalidFontData)
	}
	lookupCount := lr.ReadUint16()
	offsets := make([]uint16, lookupCount)
	if lr.Len() < 2*uint32(lookupCount) {
		return nil, fmt.Errorf("%w: GPOS lookup list truncated", ErrInvalidFontData)
	}
	for i := range offsets {
		offsets[i] = lr.ReadUint16()
	}
	for _, li := range lookups {
		if int(li) >= len(offsets) {
			continue
		}
		if int(offsets[li]) > len(lookupList) {
			return nil, fmt.Errorf("%w: GPOS lookup offset out of bounds", ErrInvalidFontData)
		}
		if err := t.parseLookup(lookupList[offsets[li]:]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// kernLookupIndices scans the feature list for "kern" features and collects
// their lookup indices.
func kernLookupIndices(b []byte) ([]uint16, error) {
	r := parse.NewBinaryReader(b)
	if r.Len() < 2 {
		return nil, fmt.Errorf("%w: GPOS feature list truncated", ErrInvalidFontData)
	}
	count := r.ReadUint16()
	if r.Len() < 6*uint32(count) {
		return nil, fmt.Errorf("%w: GPOS feature list truncated", ErrInvalidFontData)
	}
	var out []uint16
	for i := 0; i < int(count); i++ {
		tag := r.ReadString(4)
		off := r.ReadUint16()
		if tag != "kern" {
			continue
		}
		if int(off)+4 > len(b) {
			return nil, fmt.Errorf("%w: GPOS feature record out of bounds", ErrInvalidFontData)
		}
		fr := parse.NewBinaryReader(b[off:])
		_ = fr.ReadUint16() // featureParamsOffset
		lookupCount := fr.ReadUint16()
		if fr.Len() < 2*uint32(lookupCount) {
			return nil, fmt.Errorf("%w: GPOS feature table truncated", ErrInvalidFontData)
		}
		for j := 0; j < int(lookupCount); j++ {
			out = append(out, fr.ReadUint16())
		}
	}
	return out, nil
}

const (
	lookupTypePair      = 2
	lookupTypeExtension = 9
)

func (t *GposTable) parseLookup(b []byte) error {
	r := parse.NewBinaryReader(b)
	if r.Len() < 6 {
		return fmt.Errorf("%w: GPOS lookup truncated", ErrInvalidFontData)
	}
	lookupType := r.ReadUint16()
	_ = r.ReadUint16() // lookupFlag
	subCount := r.ReadUint16()
	if r.Len() < 2*uint32(subCount) {
		return fmt.Errorf("%w: GPOS lookup truncated", ErrInvalidFontData)
	}
	for i := 0; i < int(subCount); i++ {
		off := r.ReadUint16()
		if int(off) > len(b) {
			return fmt.Errorf("%w: GPOS subtable offset out of bounds", ErrInvalidFontData)
		}
		sub := b[off:]
		switch lookupType {
		case lookupTypePair:
			if err := t.parsePairPos(sub); err != nil {
				return err
			}
		case lookupTypeExtension:
			er := parse.NewBinaryReader(sub)
			if er.Len() < 8 {
				return fmt.Errorf("%w: GPOS extension truncated", ErrInvalidFontData)
			}
			_ = er.ReadUint16() // format
			extType := er.ReadUint16()
			extOff := er.ReadUint32()
			if extType != lookupTypePair || extOff > uint32(len(sub)) {
				continue
			}
			if err := t.parsePairPos(sub[extOff:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// valueFormat bits. Bits beyond yAdvance contribute to record size but are
// not interpreted.
const (
	valueXPlacement uint16 = 0x0001
	valueYPlacement uint16 = 0x0002
	valueXAdvance   uint16 = 0x0004
	valueYAdvance   uint16 = 0x0008
)

func valueRecordSize(format uint16) uint32 {
	n := uint32(0)
	for f := format; f != 0; f >>= 1 {
		if f&1 != 0 {
			n += 2
		}
	}
	return n
}

func readValueRecord(r *parse.BinaryReader, format uint16) ValueRecord {
	var v ValueRecord
	if format&valueXPlacement != 0 {
		v.XPlacement = r.ReadInt16()
	}
	if format&valueYPlacement != 0 {
		v.YPlacement = r.ReadInt16()
	}
	if format&valueXAdvance != 0 {
		v.XAdvance = r.ReadInt16()
	}
	if format&valueYAdvance != 0 {
		v.YAdvance = r.ReadInt16()
	}
	// Device table offsets and anything else in the format mask occupy
	// space but carry no value here.
	for f := format >> 4; f != 0; f >>= 1 {
		if f&1 != 0 {
			_ = r.ReadUint16()
		}
	}
	return v
}

func (t *GposTable) parsePairPos(b []byte) error {
	r := parse.NewBinaryReader(b)
	if r.Len() < 8 {
		return fmt.Errorf("%w: GPOS pair subtable truncated", ErrInvalidFontData)
	}
	format := r.ReadUint16()
	covOff := r.ReadUint16()
	vf1 := r.ReadUint16()
	vf2 := r.ReadUint16()
	if int(covOff) > len(b) {
		return fmt.Errorf("%w: GPOS coverage offset out of bounds", ErrInvalidFontData)
	}
	cov, err := parseCoverage(b[covOff:])
	if err != nil {
		return err
	}
	recSize := valueRecordSize(vf1) + valueRecordSize(vf2)

	switch format {
	case 1:
		if r.Len() < 2 {
			return fmt.Errorf("%w: GPOS pair subtable truncated", ErrInvalidFontData)
		}
		setCount := r.ReadUint16()
		if r.Len() < 2*uint32(setCount) {
			return fmt.Errorf("%w: GPOS pair subtable truncated", ErrInvalidFontData)
		}
		sub := &pairPosSubtable{coverage: cov, pairSets: make(map[GlyphID][]pairValue, setCount)}
		for i := 0; i < int(setCount); i++ {
			setOff := r.ReadUint16()
			if int(setOff) > len(b) {
				return fmt.Errorf("%w: GPOS pair set out of bounds", ErrInvalidFontData)
			}
			first, ok := cov.glyphAt(i)
			if !ok {
				continue
			}
			sr := parse.NewBinaryReader(b[setOff:])
			if sr.Len() < 2 {
				return fmt.Errorf("%w: GPOS pair set truncated", ErrInvalidFontData)
			}
			pairCount := sr.ReadUint16()
			if sr.Len() < uint32(pairCount)*(2+recSize) {
				return fmt.Errorf("%w: GPOS pair set truncated", ErrInvalidFontData)
			}
			values := make([]pairValue, pairCount)
			for j := range values {
				values[j].second = GlyphID(sr.ReadUint16())
				values[j].adj.First = readValueRecord(sr, vf1)
				values[j].adj.Second = readValueRecord(sr, vf2)
			}
			sub.pairSets[first] = values
		}
		t.pairs = append(t.pairs, sub)
	case 2:
		if r.Len() < 8 {
			return fmt.Errorf("%w: GPOS pair subtable truncated", ErrInvalidFontData)
		}
		cd1Off := r.ReadUint16()
		cd2Off := r.ReadUint16()
		c1Count := r.ReadUint16()
		c2Count := r.ReadUint16()
		if int(cd1Off) > len(b) || int(cd2Off) > len(b) {
			return fmt.Errorf("%w: GPOS class def out of bounds", ErrInvalidFontData)
		}
		cd1, err := parseClassDef(b[cd1Off:])
		if err != nil {
			return err
		}
		cd2, err := parseClassDef(b[cd2Off:])
		if err != nil {
			return err
		}
		total := uint32(c1Count) * uint32(c2Count)
		if r.Len() < total*recSize {
			return fmt.Errorf("%w: GPOS class matrix truncated", ErrInvalidFontData)
		}
		matrix := make([]PairAdjustment, total)
		for i := range matrix {
			matrix[i].First = readValueRecord(r, vf1)
			matrix[i].Second = readValueRecord(r, vf2)
		}
		t.pairs = append(t.pairs, &pairPosSubtable{
			coverage:  cov,
			classDef1: cd1,
			classDef2: cd2,
			class1Cnt: c1Count,
			class2Cnt: c2Count,
			matrix:    matrix,
		})
	default:
		logger().Debug("skipping GPOS pair subtable", "format", format)
	}
	return nil
}

// coverage resolves glyphs to coverage indices. Format 1 lists glyphs,
// format 2 lists ranges with a running start index.
type coverage struct {
	glyphs []GlyphID    // format 1
	ranges []coverRange // format 2
}

type coverRange struct {
	start, end GlyphID
	startIdx   uint16
}

func parseCoverage(b []byte) (coverage, error) {
	r := parse.NewBinaryReader(b)
	if r.Len() < 4 {
		return coverage{}, fmt.Errorf("%w: coverage table truncated", ErrInvalidFontData)
	}
	format := r.ReadUint16()
	count := r.ReadUint16()
	switch format {
	case 1:
		if r.Len() < 2*uint32(count) {
			return coverage{}, fmt.Errorf("%w: coverage table truncated", ErrInvalidFontData)
		}
		glyphs := make([]GlyphID, count)
		for i := range glyphs {
			glyphs[i] = GlyphID(r.ReadUint16())
		}
		return coverage{glyphs: glyphs}, nil
	case 2:
		if r.Len() < 6*uint32(count) {
			return coverage{}, fmt.Errorf("%w: coverage table truncated", ErrInvalidFontData)
		}
		ranges := make([]coverRange, count)
		for i := range ranges {
			ranges[i].start = GlyphID(r.ReadUint16())
			ranges[i].end = GlyphID(r.ReadUint16())
			ranges[i].startIdx = r.ReadUint16()
		}
		return coverage{ranges: ranges}, nil
	default:
		return coverage{}, fmt.Errorf("%w: coverage format %d", ErrUnsupportedFormat, format)
	}
}

func (c coverage) index(g GlyphID) (uint16, bool) {
	if c.glyphs != nil {
		lo, hi := 0, len(c.glyphs)
		for lo < hi {
			mid := (lo + hi) / 2
			if c.glyphs[mid] < g {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo < len(c.glyphs) && c.glyphs[lo] == g {
			return uint16(lo), true
		}
		return 0, false
	}
	for _, rg := range c.ranges {
		if g >= rg.start && g <= rg.end {
			return rg.startIdx + uint16(g-rg.start), true
		}
	}
	return 0, false
}

// glyphAt inverts the coverage: the glyph at a given coverage index.
func (c coverage) glyphAt(idx int) (GlyphID, bool) {
	if c.glyphs != nil {
		if idx < len(c.glyphs) {
			return c.glyphs[idx], true
		}
		return 0, false
	}
	for _, rg := range c.ranges {
		n := int(rg.end-rg.start) + 1
		if idx >= int(rg.startIdx) && idx < int(rg.startIdx)+n {
			return rg.start + GlyphID(idx-int(rg.startIdx)), true
		}
	}
	return 0, false
}

// classDef assigns glyphs to classes; unlisted glyphs are class 0.
type classDef struct {
	startGlyph GlyphID  // format 1
	classes    []uint16 // format 1
	ranges     []classRange
}

type classRange struct {
	start, end GlyphID
	class      uint16
}

func parseClassDef(b []byte) (classDef, error) {
	r := parse.NewBinaryReader(b)
	if r.Len() < 4 {
		return classDef{}, fmt.Errorf("%w: class definition truncated", ErrInvalidFontData)
	}
	switch format := r.ReadUint16(); format {
	case 1:
		startGlyph := GlyphID(r.ReadUint16())
		if r.Len() < 2 {
			return classDef{}, fmt.Errorf("%w: class definition truncated", ErrInvalidFontData)
		}
		count := r.ReadUint16()
		if r.Len() < 2*uint32(count) {
			return classDef{}, fmt.Errorf("%w: class definition truncated", ErrInvalidFontData)
		}
		classes := make([]uint16, count)
		for i := range classes {
			classes[i] = r.ReadUint16()
		}
		return classDef{startGlyph: startGlyph, classes: classes}, nil
	case 2:
		count := r.ReadUint16()
		if r.Len() < 6*uint32(count) {
			return classDef{}, fmt.Errorf("%w: class definition truncated", ErrInvalidFontData)
		}
		ranges := make([]classRange, count)
		for i := range ranges {
			ranges[i].start = GlyphID(r.ReadUint16())
			ranges[i].end = GlyphID(r.ReadUint16())
			ranges[i].class = r.ReadUint16()
		}
		return classDef{ranges: ranges}, nil
	default:
		return classDef{}, fmt.Errorf("%w: class definition format %d", ErrUnsupportedFormat, format)
	}
}

func (d classDef) class(g GlyphID) uint16 {
	if d.classes != nil {
		if g >= d.startGlyph && int(g-d.startGlyph) < len(d.classes) {
			return d.classes[g-d.startGlyph]
		}
		return 0
	}
	for _, rg := range d.ranges {
		if g >= rg.start && g <= rg.end {
			return rg.class
		}
	}
	return 0
}
