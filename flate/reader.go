// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package flate implements a streaming decoder for the DEFLATE compressed
// data format, as described in RFC 1951.
package flate

import (
	"io"

	"github.com/dsnet/deflate"
)

// blockState names the states of the per-block decode loop.
type blockState int

const (
	stateFinalBit blockState = iota
	stateBlockType
	stateStoredLen
	stateStoredData
	stateDecodeBlock
	stateBlockDone
	stateDone
)

// Reader is a streaming DEFLATE decoder. The zero value is not usable;
// construct one with NewReader or Reset.
type Reader struct {
	br  bitReader
	win window

	state blockState
	final bool // BFINAL bit of the block currently in progress

	litTable, distTable *huffmanTable
	dynLit, dynDist     huffmanTable
	codeLenTable        huffmanTable

	storedLen  int
	scratch    [4096]byte
	lenScratch [maxNumLitSyms + maxNumDistSyms]uint8

	checksum func(uint32)
	checkset bool // whether checksum has already fired for this stream

	err error
}

// NewReader creates a Reader that decodes DEFLATE data read from r.
func NewReader(r deflate.ByteReader) *Reader {
	z := new(Reader)
	z.Reset(r)
	return z
}

// Reset discards any state and configures z to decode a fresh DEFLATE
// stream read from r. Any checksum callback registered with OnChecksum is
// preserved across Reset and fires again at the end of the new stream.
func (z *Reader) Reset(r deflate.ByteReader) {
	z.br.init(r)
	z.win.reset()
	z.state = stateFinalBit
	z.final = false
	z.litTable, z.distTable = nil, nil
	z.storedLen = 0
	z.checkset = false
	z.err = nil
}

// Residual drains and returns any whole bytes that the bit reader had
// already pulled from the underlying reader but did not end up consuming.
// Call it once Read has returned io.EOF: a wrapper format like ZLIB that
// appends a trailer right after the DEFLATE body must prepend these bytes
// to whatever it reads next from the same underlying reader, since they
// were already taken from it and cannot be put back.
func (z *Reader) Residual() []byte {
	return z.br.residualBytes()
}

// OnChecksum registers a callback invoked exactly once, the first time the
// Reader observes the end of the compressed stream, with the Adler-32 of
// everything decoded. zlib.Reader uses this to validate the trailer.
func (z *Reader) OnChecksum(fn func(uint32)) {
	z.checksum = fn
}

// Read implements io.Reader.
func (z *Reader) Read(p []byte) (n int, err error) {
	defer func() { err = z.err }()
	defer errRecover(&z.err)
	for len(p) > 0 {
		if z.win.pending > 0 {
			m := z.win.read(p)
			n += m
			p = p[m:]
			continue
		}
		if z.err != nil {
			break
		}
		if z.state == stateDone {
			z.err = io.EOF
			break
		}
		z.step()
	}
	return n, nil
}

// ReadByte implements io.ByteReader.
func (z *Reader) ReadByte() (byte, error) {
	var buf [1]byte
	for {
		n, err := z.Read(buf[:])
		if n == 1 {
			return buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// step advances the block state machine by one unit of work: it either
// consumes header bits, decodes exactly one literal/length-distance
// symbol, or copies one chunk of a stored block. It panics with one of the
// sentinel Error values on malformed or truncated input; Read recovers this
// into z.err.
func (z *Reader) step() {
	switch z.state {
	case stateFinalBit:
		z.final = z.br.get(1) == 1
		z.state = stateBlockType

	case stateBlockType:
		switch z.br.get(2) {
		case 0:
			z.br.skipToByteBoundary()
			z.state = stateStoredLen
		case 1:
			z.litTable, z.distTable = &litTree, &distTree
			z.state = stateDecodeBlock
		case 2:
			z.readDynamicHeader()
			z.litTable, z.distTable = &z.dynLit, &z.dynDist
			z.state = stateDecodeBlock
		default:
			panic(ErrInvalidBlockType)
		}

	case stateStoredLen:
		z.readStoredLen()
		z.state = stateStoredData

	case stateStoredData:
		z.copyStoredChunk()

	case stateDecodeBlock:
		if z.win.availSize() <= maxMatchLen {
			return // Let the caller drain pending output before continuing
		}
		z.decodeBlockSymbol()

	case stateBlockDone:
		if z.final {
			z.finish()
		} else {
			z.state = stateFinalBit
		}

	case stateDone:
		// Nothing left to do; Read handles this case directly.
	}
}

func (z *Reader) finish() {
	z.state = stateDone
	if !z.checkset {
		z.checkset = true
		if z.checksum != nil {
			z.checksum(z.win.adler.sum32())
		}
	}
}

func (z *Reader) readStoredLen() {
	var b [4]byte
	for i := range b {
		v, err := z.br.readByte()
		if err != nil {
			panic(ErrEndOfStream)
		}
		b[i] = v
	}
	length := uint16(b[0]) | uint16(b[1])<<8
	nlength := uint16(b[2]) | uint16(b[3])<<8
	if nlength != ^length {
		panic(ErrInvalidStoredLength)
	}
	z.storedLen = int(length)
}

func (z *Reader) copyStoredChunk() {
	if z.storedLen == 0 {
		z.state = stateBlockDone
		return
	}
	n := z.storedLen
	if n > z.win.availSize() {
		n = z.win.availSize()
	}
	if n > len(z.scratch) {
		n = len(z.scratch)
	}
	if n == 0 {
		return
	}
	buf := z.scratch[:n]
	for i := range buf {
		b, err := z.br.readByte()
		if err != nil {
			panic(ErrEndOfStream)
		}
		buf[i] = b
	}
	z.win.putRaw(buf)
	z.storedLen -= n
	if z.storedLen == 0 {
		z.state = stateBlockDone
	}
}

// decodeBlockSymbol decodes exactly one literal/length (and, for matches,
// its paired distance) symbol per RFC 1951 §3.2.5.
func (z *Reader) decodeBlockSymbol() {
	sym, err := z.litTable.decodeSymbol(&z.br)
	if err != nil {
		panic(err)
	}

	switch {
	case sym < endOfBlockSym:
		z.win.putLiteral(byte(sym))

	case sym == endOfBlockSym:
		z.state = stateBlockDone

	case sym <= 285:
		lenIdx := sym - 257
		length := int(lengthBase[lenIdx] + z.br.get(uint(extraLengthBits[lenIdx])))

		distSym, err := z.distTable.decodeSymbol(&z.br)
		if err != nil {
			panic(err)
		}
		if distSym >= maxValidDistSym {
			panic(ErrInvalidData)
		}
		var extra uint
		if distSym >= 4 {
			extra = uint(distSym)>>1 - 1
		}
		distance := int(distanceBase[distSym] + z.br.get(extra))
		if int64(distance) > z.win.total {
			panic(ErrInvalidData) // Back-reference points before the start of the output
		}
		z.win.putCopy(length, distance)

	default:
		panic(ErrInvalidData)
	}
}

// readDynamicHeader decodes a dynamic block's Huffman table description
// (RFC 1951 §3.2.7) and installs z.dynLit/z.dynDist.
func (z *Reader) readDynamicHeader() {
	numLit := int(z.br.get(5)) + 257
	numDist := int(z.br.get(5)) + 1
	numCLen := int(z.br.get(4)) + 4

	var clLengths [maxNumCLenSyms]uint8
	for i := 0; i < numCLen; i++ {
		clLengths[codeLengthOrder[i]] = uint8(z.br.get(3))
	}
	if err := z.codeLenTable.init(clLengths[:], smallTableBits); err != nil {
		panic(err)
	}

	total := numLit + numDist
	lengths := z.lenScratch[:total]
	var prev uint8
	for i := 0; i < total; {
		sym, err := z.codeLenTable.decodeSymbol(&z.br)
		if err != nil {
			panic(err)
		}
		switch {
		case sym < 16:
			lengths[i] = uint8(sym)
			prev = uint8(sym)
			i++
		case sym == 16:
			if i == 0 {
				panic(ErrInvalidRepeatCode)
			}
			count := int(z.br.get(2)) + 3
			if i+count > total {
				panic(ErrInvalidRepeatCode)
			}
			for j := 0; j < count; j++ {
				lengths[i] = prev
				i++
			}
		case sym == 17:
			count := int(z.br.get(3)) + 3
			if i+count > total {
				panic(ErrInvalidRepeatCode)
			}
			for j := 0; j < count; j++ {
				lengths[i] = 0
				i++
			}
			prev = 0
		case sym == 18:
			count := int(z.br.get(7)) + 11
			if i+count > total {
				panic(ErrInvalidRepeatCode)
			}
			for j := 0; j < count; j++ {
				lengths[i] = 0
				i++
			}
			prev = 0
		default:
			panic(ErrInvalidRepeatCode)
		}
	}

	litLengths := lengths[:numLit]
	distLengths := lengths[numLit:]
	if litLengths[endOfBlockSym] == 0 {
		panic(ErrMissingEndOfBlock)
	}
	if err := z.dynLit.init(litLengths, litTableBits); err != nil {
		panic(err)
	}
	if err := z.dynDist.init(distLengths, smallTableBits); err != nil {
		panic(err)
	}
}
