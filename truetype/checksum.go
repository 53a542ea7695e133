package truetype

// calcChecksum sums a table as big-endian 32-bit words, padding the tail
// with zeros. Overflow wraps, per the sfnt checksum definition.
func calcChecksum(b []byte) uint32 {
	var sum uint32
	n := len(b) / 4 * 4
	for i := 0; i < n; i += 4 {
		sum += uint32(b[i])<<24 | uint32(b[i+1])<<16 | uint32(b[i+2])<<8 | uint32(b[i+3])
	}
	if n < len(b) {
		var last uint32
		for i, shift := n, 24; i < len(b); i, shift = i+1, shift-8 {
			last |= uint32(b[i]) << shift
		}
		sum += last
	}
	return sum
}
