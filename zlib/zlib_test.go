// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlib

import (
	"bytes"
	"io/ioutil"
	"testing"

	"github.com/klauspost/compress/zlib"

	"github.com/dsnet/deflate/internal/testutil"
)

func compress(t *testing.T, input []byte) []byte {
	var buf bytes.Buffer
	wr := zlib.NewWriter(&buf)
	if _, err := wr.Write(input); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if err := wr.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	r := testutil.NewRand(7)
	sizes := []int{0, 1, 100, 70000}
	for _, n := range sizes {
		input := r.Bytes(n)

		stream := compress(t, input)
		rd, err := NewReader(bytes.NewReader(stream))
		if err != nil {
			t.Fatalf("size %d: NewReader error: %v", n, err)
		}
		output, err := ioutil.ReadAll(rd)
		if err != nil {
			t.Fatalf("size %d: read error: %v", n, err)
		}
		if !bytes.Equal(output, input) {
			t.Fatalf("size %d: output mismatch", n)
		}
	}
}

func TestInvalidHeaderCheck(t *testing.T) {
	stream := compress(t, []byte("hello"))
	stream[1] ^= 0xff // Corrupt FCHECK
	if _, err := NewReader(bytes.NewReader(stream)); err != ErrInvalidHeaderCheck {
		t.Fatalf("got %v, want ErrInvalidHeaderCheck", err)
	}
}

func TestUnsupportedMethod(t *testing.T) {
	stream := compress(t, []byte("hello"))
	stream[0] = stream[0]&0xf0 | 0x09 // CM = 9, method checked before FCHECK
	if _, err := NewReader(bytes.NewReader(stream)); err != ErrUnsupportedMethod {
		t.Fatalf("got %v, want ErrUnsupportedMethod", err)
	}
}

func TestAdlerMismatch(t *testing.T) {
	stream := compress(t, []byte("hello, world"))
	stream[len(stream)-1] ^= 0xff // Corrupt the trailing Adler-32

	rd, err := NewReader(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	if _, err := ioutil.ReadAll(rd); err != ErrAdlerMismatch {
		t.Fatalf("got %v, want ErrAdlerMismatch", err)
	}
}

func TestPresetDictionaryRejected(t *testing.T) {
	var buf bytes.Buffer
	wr, err := zlib.NewWriterLevelDict(&buf, zlib.DefaultCompression, []byte("dict"))
	if err != nil {
		t.Fatalf("NewWriterLevelDict error: %v", err)
	}
	wr.Write([]byte("hello"))
	wr.Close()

	if _, err := NewReader(bytes.NewReader(buf.Bytes())); err != ErrUnsupportedPreset {
		t.Fatalf("got %v, want ErrUnsupportedPreset", err)
	}
}
