// Package vg provides a 2D vector-graphics document model for Go.
//
// # Overview
//
// vg models drawings as paths built from move, line, cubic Bezier and arc
// segments. Paths can be measured by arc length, sampled at absolute or
// relative positions, flattened to line segments, and triangulated for fill
// rendering on backends without native polygon fill.
//
// The truetype subpackage parses TrueType/OpenType font files, reconstructs
// glyph outlines (including composite glyphs), resolves character-to-glyph
// mappings, looks up GPOS pair kerning, and produces subset fonts with
// recomputed checksums. Path.AddText couples the two: it converts glyph
// outlines into cubic Bezier path segments appended to a path.
//
// # Quick Start
//
//	p := vg.NewPath()
//	p.MoveTo(0, 0)
//	p.LineTo(10, 0)
//	p.LineTo(10, 10)
//	p.Close()
//
//	length := p.Length() // 10 + 10 + 10*math.Sqrt2
//	mid, _ := p.PointAtFraction(0.5)
//	tris, _ := p.Triangulate(0.1, false)
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians
package vg
