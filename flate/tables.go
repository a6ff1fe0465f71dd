// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

const (
	maxWindowSize = 1 << 15 // 32 KiB sliding window (RFC 1951 §2.2)
	maxMatchLen   = 258     // Longest possible length/distance copy
	endOfBlockSym = 256

	maxNumCLenSyms  = 19
	maxNumLitSyms   = 288
	maxNumDistSyms  = 32
	maxValidDistSym = 30 // Distance codes 30 and 31 are reserved (RFC 1951 §3.2.5)

	litTableBits   = 9 // direct table width for the 288-symbol literal/length alphabet
	smallTableBits = 7 // direct table width for the smaller 19/32-symbol alphabets
)

// RFC 1951 §3.2.5: length code 257..285 maps to (base length, extra bits).
var extraLengthBits = [29]uint32{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
	3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

var lengthBase = [29]uint32{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}

// RFC 1951 §3.2.5: distance code 0..29 maps to (base distance, extra bits).
// Entries 30 and 31 are reserved and must never be referenced.
var distanceBase = [32]uint32{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
	257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
	0, 0,
}

// RFC 1951 §3.2.7: the order in which HCLEN code lengths are transmitted.
var codeLengthOrder = [maxNumCLenSyms]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

var (
	reverseLUT [256]byte

	// staticLitLengths and staticDistLengths are the fixed code-length
	// vectors from RFC 1951 §3.2.6, used to build the singleton static
	// trees and shared by every Reader that hits a BTYPE=01 block.
	staticLitLengths  [maxNumLitSyms]uint8
	staticDistLengths [maxNumDistSyms]uint8

	litTree, distTree huffmanTable
)

func init() {
	for i := range reverseLUT {
		b := uint8(i)
		b = (b&0xaa)>>1 | (b&0x55)<<1
		b = (b&0xcc)>>2 | (b&0x33)<<2
		b = (b&0xf0)>>4 | (b&0x0f)<<4
		reverseLUT[i] = b
	}

	for i := 0; i < 144; i++ {
		staticLitLengths[i] = 8
	}
	for i := 144; i < 256; i++ {
		staticLitLengths[i] = 9
	}
	for i := 256; i < 280; i++ {
		staticLitLengths[i] = 7
	}
	for i := 280; i < maxNumLitSyms; i++ {
		staticLitLengths[i] = 8
	}
	for i := range staticDistLengths {
		staticDistLengths[i] = 5
	}

	if err := litTree.init(staticLitLengths[:], litTableBits); err != nil {
		panic(err) // The fixed tables are a package invariant, never attacker input
	}
	if err := distTree.init(staticDistLengths[:], smallTableBits); err != nil {
		panic(err)
	}
}

// reverseByte reverses all 8 bits of b.
func reverseByte(b byte) byte { return reverseLUT[b] }

// reverseBits reverses the lower n bits of v (1 <= n <= 16); the result is
// placed back in the low n bits. This is the operation that lets a raw
// LSB-first input read index straight into a canonical-code table built
// with MSB-first code assignment (RFC 1951 §3.2.2).
func reverseBits(v uint32, n uint) uint32 {
	x := uint32(reverseByte(byte(v>>0))) << 24
	x |= uint32(reverseByte(byte(v >> 8))) << 16
	x |= uint32(reverseByte(byte(v >> 16))) << 8
	x |= uint32(reverseByte(byte(v >> 24))) << 0
	return x >> (32 - n)
}
