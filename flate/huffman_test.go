// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"bytes"
	"testing"
)

// TestHuffmanRoundTrip builds a table for a handful of representative
// code-length vectors and checks that encoding each symbol's canonical
// code (computed independently here) and decoding it through the table
// recovers the original symbol.
func TestHuffmanRoundTrip(t *testing.T) {
	vectors := [][]uint8{
		staticLitLengths[:],
		staticDistLengths[:],
		{3, 3, 3, 3, 3, 2, 4, 4}, // A small 8-symbol canonical tree
		{1, 1},                  // Degenerate 1-bit single-use alphabet
		{2, 0, 0, 2, 3, 3, 3, 3}, // Gaps from unused symbols, as in a real dynamic block
	}

	for vi, cl := range vectors {
		for _, tableBits := range []uint8{smallTableBits, litTableBits} {
			var h huffmanTable
			if err := h.init(cl, tableBits); err != nil {
				t.Fatalf("vector %d: init error: %v", vi, err)
			}

			codes := canonicalCodes(cl)
			for sym, code := range codes {
				if cl[sym] == 0 {
					continue
				}
				br := packCode(code, cl[sym])
				got, err := h.decodeSymbol(br)
				if err != nil {
					t.Fatalf("vector %d, sym %d: decode error: %v", vi, sym, err)
				}
				if int(got) != sym {
					t.Fatalf("vector %d, sym %d: decoded %d", vi, sym, got)
				}
			}
		}
	}
}

// canonicalCodes independently recomputes the canonical code for each
// symbol in cl, used as an oracle against huffmanTable's own construction.
func canonicalCodes(cl []uint8) []uint32 {
	var count [maxPrefixBits + 1]int
	for _, l := range cl {
		count[l]++
	}
	count[0] = 0
	var next [maxPrefixBits + 1]uint32
	for b := 1; b <= maxPrefixBits; b++ {
		next[b] = (next[b-1] + uint32(count[b-1])) << 1
	}
	codes := make([]uint32, len(cl))
	for sym, l := range cl {
		if l == 0 {
			continue
		}
		codes[sym] = next[l]
		next[l]++
	}
	return codes
}

// packCode returns a bitReader staged with the bit-reversed code for
// (code, length), as it would appear on the wire.
func packCode(code uint32, length uint8) *bitReader {
	rcode := reverseBits(code, uint(length))
	var buf [4]byte
	v := rcode
	for i := range buf {
		buf[i] = byte(v)
		v >>= 8
	}
	br := new(bitReader)
	br.init(bytes.NewReader(buf[:]))
	return br
}

func TestHuffmanOverfull(t *testing.T) {
	// Three symbols of length 1 is an overfull code: only two 1-bit codes
	// exist, so the canonical assignment runs out of codespace at the third.
	cl := []uint8{1, 1, 1}
	var h huffmanTable
	if err := h.init(cl, smallTableBits); err != ErrInvalidHuffmanData {
		t.Fatalf("got %v, want ErrInvalidHuffmanData", err)
	}
}
