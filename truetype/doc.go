// Package truetype parses TrueType and TrueType-flavored OpenType font
// files, reconstructs glyph outlines, and produces subset fonts.
//
// A Font is constructed once from a byte buffer with Parse (or ParseFile)
// and is immutable afterwards. It exposes:
//
//   - character to glyph index mapping (cmap formats 0 and 4)
//   - glyph outlines as contours of on/off-curve points, with composite
//     glyphs resolved recursively
//   - horizontal metrics and OS/2 vertical metrics, normalized per 1000
//     units of em, memoized per character
//   - GPOS pair kerning (pair adjustment lookups under the "kern" feature)
//   - subsetting: a new font containing only the glyphs needed for a set
//     of characters, with rebuilt cmap/glyf/loca/hmtx tables, canonical
//     table ordering and recomputed checksums
//
// All multi-byte fields in the sfnt container are big-endian; parsing uses
// seek-by-offset semantics throughout, never assuming tables are stored in
// directory order.
package truetype
