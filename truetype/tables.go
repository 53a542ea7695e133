package truetype

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
)

// Fixed-layout tables: head, hhea, maxp, hmtx, loca, OS/2, post.
// Layouts follow the OpenType specification; all fields are big-endian.

// HeadTable is the font header.
type HeadTable struct {
	Version            uint32
	FontRevision       uint32
	ChecksumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64
	XMin, YMin         int16
	XMax, YMax         int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16
	GlyphDataFormat    int16
}

func parseHead(b []byte) (*HeadTable, error) {
	if len(b) < 54 {
		return nil, fmt.Errorf("%w: head table too short", ErrInvalidFontData)
	}
	r := parse.NewBinaryReader(b)
	t := &HeadTable{
		Version:            r.ReadUint32(),
		FontRevision:       r.ReadUint32(),
		ChecksumAdjustment: r.ReadUint32(),
		MagicNumber:        r.ReadUint32(),
		Flags:              r.ReadUint16(),
		UnitsPerEm:         r.ReadUint16(),
		Created:            int64(r.ReadUint64()),
		Modified:           int64(r.ReadUint64()),
		XMin:               r.ReadInt16(),
		YMin:               r.ReadInt16(),
		XMax:               r.ReadInt16(),
		YMax:               r.ReadInt16(),
		MacStyle:           r.ReadUint16(),
		LowestRecPPEM:      r.ReadUint16(),
		FontDirectionHint:  r.ReadInt16(),
		IndexToLocFormat:   r.ReadInt16(),
		GlyphDataFormat:    r.ReadInt16(),
	}
	if t.UnitsPerEm == 0 {
		return nil, fmt.Errorf("%w: head.unitsPerEm is zero", ErrInvalidFontData)
	}
	return t, nil
}

// HheaTable is the horizontal header.
type HheaTable struct {
	Version             uint32
	Ascent              int16
	Descent             int16
	LineGap             int16
	AdvanceWidthMax     uint16
	MinLeftSideBearing  int16
	MinRightSideBearing int16
	XMaxExtent          int16
	CaretSlopeRise      int16
	CaretSlopeRun       int16
	CaretOffset         int16
	MetricDataFormat    int16
	NumberOfHMetrics    uint16
}

func parseHhea(b []byte) (*HheaTable, error) {
	if len(b) < 36 {
		return nil, fmt.Errorf("%w: hhea table too short", ErrInvalidFontData)
	}
	r := parse.NewBinaryReader(b)
	t := &HheaTable{
		Version:             r.ReadUint32(),
		Ascent:              r.ReadInt16(),
		Descent:             r.ReadInt16(),
		LineGap:             r.ReadInt16(),
		AdvanceWidthMax:     r.ReadUint16(),
		MinLeftSideBearing:  r.ReadInt16(),
		MinRightSideBearing: r.ReadInt16(),
		XMaxExtent:          r.ReadInt16(),
		CaretSlopeRise:      r.ReadInt16(),
		CaretSlopeRun:       r.ReadInt16(),
		CaretOffset:         r.ReadInt16(),
	}
	// four reserved int16 fields
	for i := 0; i < 4; i++ {
		_ = r.ReadInt16()
	}
	t.MetricDataFormat = r.ReadInt16()
	t.NumberOfHMetrics = r.ReadUint16()
	return t, nil
}

// MaxpTable holds the glyph count and, for version 1.0, rasterizer limits.
// The trailing fields beyond NumGlyphs are retained raw so the table can be
// copied through unchanged.
type MaxpTable struct {
	Version   uint32
	NumGlyphs uint16
	Rest      []byte
}

func parseMaxp(b []byte) (*MaxpTable, error) {
	if len(b) < 6 {
		return nil, fmt.Errorf("%w: maxp table too short", ErrInvalidFontData)
	}
	r := parse.NewBinaryReader(b)
	t := &MaxpTable{
		Version:   r.ReadUint32(),
		NumGlyphs: r.ReadUint16(),
	}
	t.Rest = b[6:]
	return t, nil
}

// HmtxTable holds per-glyph horizontal metrics. Glyphs beyond
// NumberOfHMetrics share the last advance width.
type HmtxTable struct {
	Advances     []uint16 // len == numberOfHMetrics
	LeftBearings []int16  // len == numGlyphs
}

func parseHmtx(b []byte, numMetrics, numGlyphs uint16) (*HmtxTable, error) {
	if numMetrics == 0 || numMetrics > numGlyphs {
		return nil, fmt.Errorf("%w: bad hhea.numberOfHMetrics", ErrInvalidFontData)
	}
	need := 4*uint32(numMetrics) + 2*uint32(numGlyphs-numMetrics)
	if uint32(len(b)) < need {
		return nil, fmt.Errorf("%w: hmtx table too short", ErrInvalidFontData)
	}
	r := parse.NewBinaryReader(b)
	t := &HmtxTable{
		Advances:     make([]uint16, numMetrics),
		LeftBearings: make([]int16, numGlyphs),
	}
	for i := uint16(0); i < numMetrics; i++ {
		t.Advances[i] = r.ReadUint16()
		t.LeftBearings[i] = r.ReadInt16()
	}
	for i := numMetrics; i < numGlyphs; i++ {
		t.LeftBearings[i] = r.ReadInt16()
	}
	return t, nil
}

// Advance returns the advance width of a glyph in font units.
func (t *HmtxTable) Advance(gid GlyphID) uint16 {
	if int(gid) < len(t.Advances) {
		return t.Advances[gid]
	}
	return t.Advances[len(t.Advances)-1]
}

// LeftSideBearing returns the left side bearing of a glyph in font units.
func (t *HmtxTable) LeftSideBearing(gid GlyphID) int16 {
	if int(gid) < len(t.LeftBearings) {
		return t.LeftBearings[gid]
	}
	return 0
}

// LocaTable maps glyph indices to byte ranges in the glyf table. Offsets
// are stored expanded to 32 bits regardless of the source format.
type LocaTable struct {
	Offsets []uint32 // numGlyphs+1 entries
	Long    bool
}

func parseLoca(b []byte, numGlyphs uint16, format int16) (*LocaTable, error) {
	n := uint32(numGlyphs) + 1
	t := &LocaTable{Offsets: make([]uint32, n), Long: format != 0}
	r := parse.NewBinaryReader(b)
	if t.Long {
		if uint32(len(b)) < 4*n {
			return nil, fmt.Errorf("%w: loca table too short", ErrInvalidFontData)
		}
		for i := uint32(0); i < n; i++ {
			t.Offsets[i] = r.ReadUint32()
		}
	} else {
		if uint32(len(b)) < 2*n {
			return nil, fmt.Errorf("%w: loca table too short", ErrInvalidFontData)
		}
		for i := uint32(0); i < n; i++ {
			t.Offsets[i] = 2 * uint32(r.ReadUint16())
		}
	}
	for i := uint32(1); i < n; i++ {
		if t.Offsets[i] < t.Offsets[i-1] {
			return nil, fmt.Errorf("%w: loca offsets not monotonic", ErrInvalidFontData)
		}
	}
	return t, nil
}

// OS2Table holds the OS/2 and Windows metrics relevant here; the full raw
// table is carried through on write.
type OS2Table struct {
	Version        uint16
	XAvgCharWidth  int16
	UsWeightClass  uint16
	UsWidthClass   uint16
	FsType         uint16
	STypoAscender  int16
	STypoDescender int16
	STypoLineGap   int16
	UsWinAscent    uint16
	UsWinDescent   uint16
	FsSelection    uint16
	SxHeight       int16
	SCapHeight     int16
}

func parseOS2(b []byte) (*OS2Table, error) {
	if len(b) < 78 {
		return nil, fmt.Errorf("%w: OS/2 table too short", ErrInvalidFontData)
	}
	r := parse.NewBinaryReader(b)
	t := &OS2Table{
		Version:       r.ReadUint16(),
		XAvgCharWidth: r.ReadInt16(),
		UsWeightClass: r.ReadUint16(),
		UsWidthClass:  r.ReadUint16(),
		FsType:        r.ReadUint16(),
	}
	// Skip subscript/superscript/strikeout metrics and family class
	// (11 int16), PANOSE (10 bytes), Unicode ranges (4 uint32).
	_ = r.ReadBytes(11*2 + 10 + 4*4)
	_ = r.ReadUint32() // achVendID
	t.FsSelection = r.ReadUint16()
	_ = r.ReadUint16() // usFirstCharIndex
	_ = r.ReadUint16() // usLastCharIndex
	t.STypoAscender = r.ReadInt16()
	t.STypoDescender = r.ReadInt16()
	t.STypoLineGap = r.ReadInt16()
	t.UsWinAscent = r.ReadUint16()
	t.UsWinDescent = r.ReadUint16()
	if t.Version >= 2 && len(b) >= 90 {
		_ = r.ReadUint32() // ulCodePageRange1
		_ = r.ReadUint32() // ulCodePageRange2
		t.SxHeight = r.ReadInt16()
		t.SCapHeight = r.ReadInt16()
	}
	return t, nil
}

// PostTable holds PostScript-related metadata.
type PostTable struct {
	Version            uint32
	ItalicAngle        float64
	UnderlinePosition  int16
	UnderlineThickness int16
	IsFixedPitch       uint32
}

func parsePost(b []byte) (*PostTable, error) {
	if len(b) < 16 {
		return nil, fmt.Errorf("%w: post table too short", ErrInvalidFontData)
	}
	r := parse.NewBinaryReader(b)
	t := &PostTable{Version: r.ReadUint32()}
	t.ItalicAngle = float64(int32(r.ReadUint32())) / (1 << 16)
	t.UnderlinePosition = r.ReadInt16()
	t.UnderlineThickness = r.ReadInt16()
	t.IsFixedPitch = r.ReadUint32()
	return t, nil
}
