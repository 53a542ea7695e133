package truetype

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Name record identifiers used by the convenience accessors.
const (
	nameIDFamily     = 1
	nameIDSubfamily  = 2
	nameIDFullName   = 4
	nameIDPostScript = 6
)

// NameRecord is one decoded naming-table entry.
type NameRecord struct {
	PlatformID uint16
	LanguageID uint16
	NameID     uint16
	Value      string
}

// NameTable holds the decoded naming table. Records on the Unicode and
// Windows platforms are decoded as UTF-16BE, Macintosh records as Mac
// Roman; records in other encodings are dropped.
type NameTable struct {
	Records []NameRecord
}

func parseName(b []byte) (*NameTable, error) {
	if len(b) < 6 {
		return nil, fmt.Errorf("%w: name table too short", ErrInvalidFontData)
	}
	r := parse.NewBinaryReader(b)
	_ = r.ReadUint16() // format
	count := r.ReadUint16()
	stringOffset := r.ReadUint16()
	if r.Len() < 12*uint32(count) || int(stringOffset) > len(b) {
		return nil, fmt.Errorf("%w: name table truncated", ErrInvalidFontData)
	}
	storage := b[stringOffset:]

	utf16be := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	t := &NameTable{}
	for i := 0; i < int(count); i++ {
		platformID := r.ReadUint16()
		encodingID := r.ReadUint16()
		languageID := r.ReadUint16()
		nameID := r.ReadUint16()
		length := r.ReadUint16()
		offset := r.ReadUint16()
		if int(offset)+int(length) > len(storage) {
			continue
		}
		raw := storage[offset : offset+length]

		var value string
		switch platformID {
		case 0, 3: // Unicode, Windows
			decoded, err := utf16be.Bytes(raw)
			if err != nil {
				continue
			}
			value = string(decoded)
		case 1: // Macintosh
			if encodingID != 0 {
				continue
			}
			decoded, err := charmap.Macintosh.NewDecoder().Bytes(raw)
			if err != nil {
				continue
			}
			value = string(decoded)
		default:
			continue
		}
		t.Records = append(t.Records, NameRecord{
			PlatformID: platformID,
			LanguageID: languageID,
			NameID:     nameID,
			Value:      value,
		})
	}
	return t, nil
}

// lookup returns the first record with the given name ID, preferring the
// Windows platform, then Unicode, then Macintosh.
func (t *NameTable) lookup(nameID uint16) string {
	if t == nil {
		return ""
	}
	best := ""
	bestRank := -1
	for _, rec := range t.Records {
		if rec.NameID != nameID {
			continue
		}
		rank := 0
		switch rec.PlatformID {
		case 3:
			rank = 2
		case 0:
			rank = 1
		}
		if rank > bestRank {
			best, bestRank = rec.Value, rank
		}
	}
	return best
}

// FamilyName returns the font family name, or "" when absent.
func (f *Font) FamilyName() string { return f.Name.lookup(nameIDFamily) }

// SubfamilyName returns the font subfamily (style) name, or "" when absent.
func (f *Font) SubfamilyName() string { return f.Name.lookup(nameIDSubfamily) }

// FullName returns the full font name, falling back to the family name.
func (f *Font) FullName() string {
	if s := f.Name.lookup(nameIDFullName); s != "" {
		return s
	}
	return f.FamilyName()
}

// PostScriptName returns the PostScript name of the font, or "" when absent.
func (f *Font) PostScriptName() string { return f.Name.lookup(nameIDPostScript) }
