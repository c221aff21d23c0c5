// SPDX-License-Identifier: MIT

package packet

import "testing"

func TestCrc8_Empty(t *testing.T) {
	if crc := Crc8(0, nil); crc != 0 {
		t.Errorf("CRC of empty data should be the seed, got 0x%02X", crc)
	}
	if crc := Crc8(0x5A, nil); crc != 0x5A {
		t.Errorf("CRC of empty data should be the seed, got 0x%02X", crc)
	}
}

func TestCrc8_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint8
	}{
		{
			name:     "single 0x01",
			data:     []byte{0x01},
			expected: 0x07,
		},
		{
			name:     "0x01 0x02",
			data:     []byte{0x01, 0x02},
			expected: 0x1B,
		},
		{
			name:     "0x01 0x02 0x03",
			data:     []byte{0x01, 0x02, 0x03},
			expected: 0x48,
		},
		{
			name:     "ASCII '123456789'",
			data:     []byte("123456789"),
			expected: 0xF4, // Standard CRC-8 check value
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crc := Crc8(0, tt.data)
			if crc != tt.expected {
				t.Errorf("CRC mismatch: expected 0x%02X, got 0x%02X", tt.expected, crc)
			}
		})
	}
}

func TestCrc8_SeedChaining(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0xC0, 0xDB}
	whole := Crc8(0, data)
	chained := Crc8(Crc8(0, data[:2]), data[2:])
	if whole != chained {
		t.Errorf("seed chaining should match one-shot CRC: 0x%02X != 0x%02X", whole, chained)
	}
}
