package truetype

import "testing"

func TestCalcChecksum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"empty", nil, 0},
		{"one word", []byte{0, 0, 0, 1}, 1},
		{"two words", []byte{0, 0, 0, 1, 0, 0, 0, 2}, 3},
		{"big endian", []byte{0x12, 0x34, 0x56, 0x78}, 0x12345678},
		{"padded tail", []byte{0x01}, 0x01000000},
		{"three byte tail", []byte{0, 0, 0, 1, 0xAA, 0xBB, 0xCC}, 1 + 0xAABBCC00},
		{"overflow wraps", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calcChecksum(tt.data); got != tt.want {
				t.Errorf("calcChecksum = %#x, want %#x", got, tt.want)
			}
		})
	}
}
