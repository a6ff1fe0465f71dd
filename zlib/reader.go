// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package zlib implements a streaming decoder for the ZLIB compressed data
// format, as described in RFC 1950. It is a thin wrapper around the flate
// package: a 2-byte header selects the compression method and window size,
// the body is plain DEFLATE, and a trailing big-endian Adler-32 checksum
// covers the decompressed output.
package zlib

import (
	"io"

	"github.com/dsnet/deflate"
	"github.com/dsnet/deflate/flate"
)

// Reader decodes a ZLIB stream. The zero value is not usable; construct one
// with NewReader.
type Reader struct {
	br deflate.ByteReader
	fr *flate.Reader

	sum    uint32
	sumSet bool

	verified bool
}

// NewReader parses the 2-byte ZLIB header from r and returns a Reader ready
// to decode the DEFLATE body that follows. The header is validated eagerly
// (method, window size, FCHECK, and the absence of a preset dictionary),
// matching the way the standard library's own zlib reader front-loads
// header errors into the constructor.
func NewReader(r io.Reader) (*Reader, error) {
	z := new(Reader)
	if err := z.Reset(r); err != nil {
		return nil, err
	}
	return z, nil
}

// Reset reconfigures z to decode a new ZLIB stream read from r, re-parsing
// and validating the header.
func (z *Reader) Reset(r io.Reader) error {
	br := deflate.AsByteReader(r)

	cmf, err := br.ReadByte()
	if err != nil {
		return err
	}
	flg, err := br.ReadByte()
	if err != nil {
		return err
	}
	if cmf&0x0f != 8 {
		return ErrUnsupportedMethod
	}
	if cmf>>4 > 7 {
		return ErrInvalidWindowSize
	}
	if (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		return ErrInvalidHeaderCheck
	}
	if flg&0x20 != 0 {
		return ErrUnsupportedPreset // FDICT set
	}

	z.br = br
	z.sum, z.sumSet, z.verified = 0, false, false
	if z.fr == nil {
		z.fr = flate.NewReader(br)
	} else {
		z.fr.Reset(br)
	}
	z.fr.OnChecksum(func(sum uint32) {
		z.sum = sum
		z.sumSet = true
	})
	return nil
}

// Read implements io.Reader. Once the underlying DEFLATE stream reports
// io.EOF, Read additionally consumes and verifies the 4-byte trailer before
// propagating io.EOF itself, so a caller who checks the error from the
// final Read learns about a checksum mismatch without an extra call.
func (z *Reader) Read(p []byte) (int, error) {
	n, err := z.fr.Read(p)
	if err == io.EOF {
		if verr := z.verifyTrailer(); verr != nil {
			return n, verr
		}
	}
	return n, err
}

// verifyTrailer reads the 4-byte big-endian Adler-32 trailer and checks it
// against the checksum z.fr computed. The flate.Reader's bit reader may
// already have pulled one or more of these bytes out of z.br while
// satisfying its last few bits of DEFLATE data (it reads whole bytes at a
// time even when a request needs only a handful of bits), so those bytes
// must be recovered through z.fr.Residual rather than re-read from z.br,
// which would otherwise skip past them entirely.
func (z *Reader) verifyTrailer() error {
	if z.verified {
		return nil
	}
	z.verified = true

	var b [4]byte
	n := copy(b[:], z.fr.Residual())
	for ; n < len(b); n++ {
		v, err := z.br.ReadByte()
		if err != nil {
			return io.ErrUnexpectedEOF
		}
		b[n] = v
	}
	want := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	if !z.sumSet || want != z.sum {
		return ErrAdlerMismatch
	}
	return nil
}
