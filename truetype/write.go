package truetype

import (
	"sort"

	"github.com/tdewolff/parse/v2"
)

// checksumAdjustmentBase is the constant the whole-font checksum is
// subtracted from to produce head.checksumAdjustment.
const checksumAdjustmentBase = 0xB1B0AFBA

// tableWriteOrder is the recommended physical ordering of table data for
// TrueType fonts. Tables not listed follow in alphabetical order.
var tableWriteOrder = []string{
	"OS/2", "cmap", "glyf", "head", "hhea", "hmtx", "loca", "maxp", "name", "post",
}

// Bytes serializes the font back into sfnt binary form. Table data is laid
// out in the recommended order, the directory is sorted by tag, every table
// checksum is recomputed, and head.checksumAdjustment is patched so the
// whole-file checksum comes out at the defined constant.
func (f *Font) Bytes() []byte {
	rank := make(map[string]int, len(tableWriteOrder))
	for i, tag := range tableWriteOrder {
		rank[tag] = i
	}
	ordered := make([]string, 0, len(f.tables))
	for tag := range f.tables {
		ordered = append(ordered, tag)
	}
	sort.Slice(ordered, func(i, j int) bool {
		ri, iOK := rank[ordered[i]]
		rj, jOK := rank[ordered[j]]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return ordered[i] < ordered[j]
		}
	})

	numTables := len(ordered)
	headerLen := uint32(12 + 16*numTables)

	// Offsets follow the physical layout; each table is padded to a
	// four-byte boundary.
	offsets := make(map[string]uint32, numTables)
	pos := headerLen
	for _, tag := range ordered {
		offsets[tag] = pos
		pos += uint32(len(f.tables[tag]))
		pos = (pos + 3) &^ 3
	}

	w := parse.NewBinaryWriter(make([]byte, 0, pos))
	w.WriteUint32(scalarTrueType)
	w.WriteUint16(uint16(numTables))
	entrySelector := uint16(0)
	for 1<<(entrySelector+1) <= numTables {
		entrySelector++
	}
	searchRange := uint16(16 << entrySelector)
	w.WriteUint16(searchRange)
	w.WriteUint16(entrySelector)
	w.WriteUint16(uint16(16*numTables) - searchRange)

	// The directory must be sorted by tag regardless of data layout.
	dirTags := append([]string(nil), ordered...)
	sort.Strings(dirTags)
	var headOffset uint32
	for _, tag := range dirTags {
		data := f.tables[tag]
		sum := calcChecksum(data)
		if tag == "head" {
			headOffset = offsets[tag]
			// checksumAdjustment is treated as zero while summing.
			if len(data) >= 12 {
				sum -= uint32(data[8])<<24 | uint32(data[9])<<16 | uint32(data[10])<<8 | uint32(data[11])
			}
		}
		w.WriteString(tag)
		w.WriteUint32(sum)
		w.WriteUint32(offsets[tag])
		w.WriteUint32(uint32(len(data)))
	}
	for _, tag := range ordered {
		w.WriteBytes(f.tables[tag])
		for w.Len()%4 != 0 {
			w.WriteByte(0)
		}
	}

	buf := w.Bytes()
	// Zero the stored adjustment before computing the file checksum, then
	// patch the final value in place.
	if headOffset != 0 && int(headOffset)+12 <= len(buf) {
		putUint32(buf[headOffset+8:], 0)
		putUint32(buf[headOffset+8:], checksumAdjustmentBase-calcChecksum(buf))
	}
	return buf
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func putUint16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}
