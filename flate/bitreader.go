// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import "github.com/dsnet/deflate"

// bitReader is a 32-bit staging register, least-significant-bit first
// (RFC 1951 §3.1.1). It never reads more bytes from rd than a given
// request actually requires: ensure only pulls in whole bytes while the
// register is short of the bit count asked for, so a caller sitting right
// at the end of the DEFLATE stream never drags trailing bytes (e.g. a
// ZLIB trailer) into the register.
type bitReader struct {
	rd    deflate.ByteReader
	bits  uint32
	nbits uint
}

func (br *bitReader) init(r deflate.ByteReader) {
	br.rd = r
	br.bits = 0
	br.nbits = 0
}

// ensure tops up the staging register, one byte at a time, until at least
// n bits are buffered or the underlying reader is exhausted. It reads no
// more bytes than necessary to reach n.
func (br *bitReader) ensure(n uint) bool {
	for br.nbits < n {
		b, err := br.rd.ReadByte()
		if err != nil {
			return false
		}
		br.bits |= uint32(b) << br.nbits
		br.nbits += 8
	}
	return true
}

// need is ensure, but a failure to reach n bits is a stream error.
func (br *bitReader) need(n uint) {
	if !br.ensure(n) {
		panic(ErrEndOfStream)
	}
}

// availableBits reports how many bits are currently staged. Unlike peek
// and get, it never reads from rd.
func (br *bitReader) availableBits() uint {
	return br.nbits
}

// window returns the low n bits of the staging register without reading
// more input and without consuming them. Positions beyond what has
// actually been staged read as zero; huffmanTable.decodeSymbol relies on
// this to speculatively probe a table/tree slot before it knows whether
// enough real bits are staged to trust the result.
func (br *bitReader) window(n uint) uint32 {
	return br.bits & (1<<n - 1)
}

// peek ensures n bits are staged (panicking with ErrEndOfStream if the
// stream is too short) and returns them without consuming them.
func (br *bitReader) peek(n uint) uint32 {
	br.need(n)
	return br.window(n)
}

// get reads and consumes the low n bits.
func (br *bitReader) get(n uint) uint32 {
	v := br.peek(n)
	br.skip(n)
	return v
}

// skip discards n already-staged bits. Callers must already know n bits
// are staged (peek/get, or the ensure/window pair, establish this).
func (br *bitReader) skip(n uint) {
	br.bits >>= n
	br.nbits -= n
}

// skipToByteBoundary discards whatever fraction of the current input byte
// remains staged, so the next read starts at a byte boundary of the
// underlying stream (RFC 1951 §3.2.4, used before a stored block).
func (br *bitReader) skipToByteBoundary() {
	n := br.nbits % 8
	br.bits >>= n
	br.nbits -= n
}

// readByte returns one raw byte, bypassing bit-oriented decoding. Only
// valid to call immediately after skipToByteBoundary, where nbits is a
// multiple of 8.
func (br *bitReader) readByte() (byte, error) {
	if br.nbits == 0 {
		return br.rd.ReadByte()
	}
	b := byte(br.bits)
	br.bits >>= 8
	br.nbits -= 8
	return b, nil
}

// residualBytes drains and returns whole bytes currently staged in the
// register, clearing them from it. Any leftover fewer-than-8 bits are
// padding within the stream's final byte and are dropped. A caller that
// needs to keep reading the underlying rd past the end of the bit stream
// (ZLIB's trailer, following the DEFLATE body) must consume these first:
// they were already pulled out of rd and cannot be put back.
func (br *bitReader) residualBytes() []byte {
	n := br.nbits / 8
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(br.bits)
		br.bits >>= 8
	}
	br.nbits -= 8 * uint(len(buf))
	return buf
}
