package truetype

import (
	"errors"
	"fmt"
)

// Sentinel errors for the truetype package.
var (
	// ErrInvalidFontData is returned when the byte stream is not a valid
	// sfnt container or a table is truncated.
	ErrInvalidFontData = errors.New("truetype: invalid font data")

	// ErrUnsupportedFormat is returned for sfnt flavors this package does
	// not handle, such as CFF-outline OpenType or font collections.
	ErrUnsupportedFormat = errors.New("truetype: unsupported font format")

	// ErrMissingTable is returned when a mandatory table is absent.
	// Errors carrying a specific tag are *MissingTableError values
	// wrapping this sentinel.
	ErrMissingTable = errors.New("truetype: missing mandatory table")

	// ErrGlyphNotFound is returned when a glyph index is out of range.
	ErrGlyphNotFound = errors.New("truetype: glyph index out of range")

	// ErrGlyphCycle is returned when composite glyph resolution detects a
	// component referencing itself or an ancestor. Such fonts are
	// malformed.
	ErrGlyphCycle = errors.New("truetype: composite glyph reference cycle")
)

// MissingTableError reports an absent mandatory table by tag.
type MissingTableError struct {
	Tag string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("truetype: missing mandatory table %q", e.Tag)
}

// Unwrap makes the error match ErrMissingTable in errors.Is checks.
func (e *MissingTableError) Unwrap() error { return ErrMissingTable }
