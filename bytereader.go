// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package deflate implements a streaming decoder for the DEFLATE
// compressed data format (RFC 1951) and the ZLIB container format
// (RFC 1950) built on top of it.
//
// The core of the work is done by the flate and zlib subpackages; this
// package only holds the byte-producer contract shared by both.
package deflate

import (
	"bufio"
	"io"
)

// ByteReader is the "byte producer" both subpackages consume: a lazy
// sequence of bytes that signals exhaustion through io.EOF from ReadByte.
// Most callers can pass a *bytes.Reader, *bytes.Buffer, *strings.Reader, or
// a *bufio.Reader directly, since all of them already satisfy this
// interface without any wrapping.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// AsByteReader adapts an arbitrary io.Reader into a ByteReader, wrapping it
// in a bufio.Reader only if it does not already satisfy the interface.
func AsByteReader(r io.Reader) ByteReader {
	if br, ok := r.(ByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}
