// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

// Adler-32 (RFC 1950 Annex) constants. adlerNMAX is the standard bound on
// how many bytes s2 can accumulate between modulo reductions before it
// risks overflowing a uint32 at the maximum byte value.
const (
	adlerMod  = 65521
	adlerNMAX = 5552
)

// adler32State is the running checksum the window keeps over every byte of
// decompressed output, so the zlib wrapper can compare it against the
// stream's trailer without re-reading the output.
type adler32State struct {
	s1, s2 uint32
}

func (a *adler32State) reset() {
	a.s1, a.s2 = 1, 0
}

func (a *adler32State) update(p []byte) {
	s1, s2 := a.s1, a.s2
	for len(p) > 0 {
		n := len(p)
		if n > adlerNMAX {
			n = adlerNMAX
		}
		for _, b := range p[:n] {
			s1 += uint32(b)
			s2 += s1
		}
		s1 %= adlerMod
		s2 %= adlerMod
		p = p[n:]
	}
	a.s1, a.s2 = s1, s2
}

func (a *adler32State) sum32() uint32 {
	return a.s2<<16 | a.s1
}
