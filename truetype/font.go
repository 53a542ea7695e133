package truetype

import (
	"fmt"
	"os"
	"sort"

	"github.com/tdewolff/parse/v2"
)

// GlyphID identifies a glyph within a font.
type GlyphID uint16

// sfnt scalar types accepted by Parse.
const (
	scalarTrueType  = 0x00010000
	scalarAppleTrue = 0x74727565 // 'true'
	scalarOpenType  = 0x4F54544F // 'OTTO', CFF outlines
)

// mandatoryTags are the tables a TrueType font must carry.
var mandatoryTags = []string{"head", "hhea", "maxp", "hmtx", "cmap", "loca", "glyf"}

// Font is a parsed TrueType font. It is immutable after construction; the
// only internal mutability is the per-character metrics memo, which is
// guarded by its own lock.
type Font struct {
	tables map[string][]byte // raw table bytes by tag

	Head *HeadTable
	Hhea *HheaTable
	Maxp *MaxpTable
	Hmtx *HmtxTable
	Cmap *CmapTable
	Loca *LocaTable
	Glyf *GlyfTable
	OS2  *OS2Table  // optional
	Post *PostTable // optional
	Name *NameTable // optional
	Gpos *GposTable // optional

	metrics *metricsStore
}

// Parse constructs a Font from the bytes of a TrueType file. The buffer is
// fully retained; no further I/O happens after Parse returns.
func Parse(data []byte) (*Font, error) {
	if len(data) < 12 {
		return nil, ErrInvalidFontData
	}
	r := parse.NewBinaryReader(data)
	scalar := r.ReadUint32()
	switch scalar {
	case scalarTrueType, scalarAppleTrue:
	case scalarOpenType:
		return nil, fmt.Errorf("%w: CFF outlines", ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%w: bad sfnt version 0x%08x", ErrInvalidFontData, scalar)
	}
	numTables := r.ReadUint16()
	_ = r.ReadUint16() // searchRange
	_ = r.ReadUint16() // entrySelector
	_ = r.ReadUint16() // rangeShift
	if r.Len() < 16*uint32(numTables) {
		return nil, ErrInvalidFontData
	}

	tables := make(map[string][]byte, numTables)
	for i := 0; i < int(numTables); i++ {
		tag := r.ReadString(4)
		_ = r.ReadUint32() // checksum, recomputed on write
		offset := r.ReadUint32()
		length := r.ReadUint32()
		if uint32(len(data)) < offset || uint32(len(data))-offset < length {
			return nil, fmt.Errorf("%w: table %q out of bounds", ErrInvalidFontData, tag)
		}
		tables[tag] = data[offset : offset+length : offset+length]
	}
	for _, tag := range mandatoryTags {
		if _, ok := tables[tag]; !ok {
			return nil, &MissingTableError{Tag: tag}
		}
	}

	f := &Font{tables: tables}
	// head and maxp carry the parameters the dependent tables need, so
	// they go first; loca before glyf.
	var err error
	if f.Head, err = parseHead(tables["head"]); err != nil {
		return nil, err
	}
	if f.Maxp, err = parseMaxp(tables["maxp"]); err != nil {
		return nil, err
	}
	if f.Hhea, err = parseHhea(tables["hhea"]); err != nil {
		return nil, err
	}
	if f.Hmtx, err = parseHmtx(tables["hmtx"], f.Hhea.NumberOfHMetrics, f.Maxp.NumGlyphs); err != nil {
		return nil, err
	}
	if f.Loca, err = parseLoca(tables["loca"], f.Maxp.NumGlyphs, f.Head.IndexToLocFormat); err != nil {
		return nil, err
	}
	if f.Glyf, err = parseGlyf(tables["glyf"], f.Loca); err != nil {
		return nil, err
	}
	if f.Cmap, err = parseCmap(tables["cmap"]); err != nil {
		return nil, err
	}
	if b, ok := tables["OS/2"]; ok {
		if f.OS2, err = parseOS2(b); err != nil {
			return nil, err
		}
	}
	if b, ok := tables["post"]; ok {
		if f.Post, err = parsePost(b); err != nil {
			return nil, err
		}
	}
	if b, ok := tables["name"]; ok {
		if f.Name, err = parseName(b); err != nil {
			return nil, err
		}
	}
	if b, ok := tables["GPOS"]; ok {
		gpos, err := parseGpos(b)
		if err != nil {
			// A positioning table the parser cannot interpret only costs
			// kerning, not the font.
			logger().Warn("ignoring GPOS table", "err", err)
		} else {
			f.Gpos = gpos
		}
	}
	f.metrics = newMetricsStore(f)
	logger().Debug("parsed font", "tables", len(tables), "glyphs", f.Maxp.NumGlyphs, "unitsPerEm", f.Head.UnitsPerEm)
	return f, nil
}

// ParseFile reads and parses a font file from disk.
func ParseFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("truetype: reading %s: %w", path, err)
	}
	return Parse(data)
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return int(f.Maxp.NumGlyphs)
}

// UnitsPerEm returns the font's design grid size.
func (f *Font) UnitsPerEm() int {
	return int(f.Head.UnitsPerEm)
}

// GlyphIndex returns the glyph index for a rune, or 0 (.notdef) when the
// rune is not mapped.
func (f *Font) GlyphIndex(r rune) GlyphID {
	return f.Cmap.Lookup(r)
}

// Table returns the raw bytes of a table by tag.
func (f *Font) Table(tag string) ([]byte, bool) {
	b, ok := f.tables[tag]
	return b, ok
}

// TableTags returns the tags of all tables present, sorted.
func (f *Font) TableTags() []string {
	tags := make([]string, 0, len(f.tables))
	for tag := range f.tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
