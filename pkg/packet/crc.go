// SPDX-License-Identifier: MIT

package packet

// CRC-8 configuration (poly 0x07, init 0x00, no reflection)
const crcPolynomial = 0x07

// Crc8 folds data into a running CRC-8 register seeded with seed.
// Chaining the result of one call as the seed of the next is equivalent
// to a single call over the concatenated input.
func Crc8(seed uint8, data []byte) uint8 {
	crc := seed
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ crcPolynomial
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
