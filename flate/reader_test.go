// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"testing"

	"github.com/dsnet/deflate"
	"github.com/dsnet/deflate/internal/testutil"
)

func TestReader(t *testing.T) {
	db := testutil.MustDecodeBitGen
	dh := testutil.MustDecodeHex

	vectors := []struct {
		desc   string
		input  []byte
		output []byte
		err    error
	}{{
		desc: "empty input",
		err:  ErrEndOfStream,
	}, {
		desc: "stored block, truncated after block header",
		input: db(`<<<
			< 0 00 0*5 # Non-last, stored block, padding
		`),
		err: ErrEndOfStream,
	}, {
		desc: "stored block, truncated in size field",
		input: db(`<<<
			< 0 00 0*5 # Non-last, stored block, padding
			X:0c       # Partial RawSize
		`),
		err: ErrEndOfStream,
	}, {
		desc: "stored block, LEN/NLEN mismatch",
		input: db(`<<<
			< 1 00 0*5          # Final, stored block, padding
			X:0500fafe          # RawSize: 5, NLEN does not complement it
		`),
		err: ErrInvalidStoredLength,
	}, {
		desc: "stored block, truncated before raw data",
		input: db(`<<<
			< 1 00 0*5          # Final, stored block, padding
			X:0500faff          # RawSize: 5, NLEN = ^5
		`),
		err: ErrEndOfStream,
	}, {
		desc: "stored block, exact data",
		input: db(`<<<
			< 1 00 0*5          # Final, stored block, padding
			X:0500faff          # RawSize: 5, NLEN = ^5
			X:68656c6c6f        # "hello"
		`),
		output: dh("68656c6c6f"),
	}, {
		desc: "reserved block type",
		input: db(`<<<
			< 1 11 # Final, reserved BTYPE
		`),
		err: ErrInvalidBlockType,
	}}

	for i, v := range vectors {
		rd := NewReader(bytes.NewReader(v.input))
		output, err := ioutil.ReadAll(rd)
		if err == io.EOF {
			err = nil
		}
		if err != v.err {
			t.Errorf("test %d (%s): error mismatch: got %v, want %v", i, v.desc, err, v.err)
		}
		if v.err == nil && !bytes.Equal(output, v.output) {
			t.Errorf("test %d (%s): output mismatch: got %x, want %x", i, v.desc, output, v.output)
		}
	}
}

// TestUnderlyingReadError checks that a mid-stream I/O failure from the
// underlying reader (as opposed to a clean io.EOF) is reported as
// ErrEndOfStream rather than panicking or silently truncating the output.
func TestUnderlyingReadError(t *testing.T) {
	db := testutil.MustDecodeBitGen
	header := db(`<<<
		< 1 00 0*5   # Final, stored block, padding
		X:3200cdff   # RawSize: 50
	`)
	stream := append(header, bytes.Repeat([]byte{0xab}, 50)...)

	buggy := &testutil.BuggyReader{
		R:   bytes.NewReader(stream),
		N:   10,
		Err: errors.New("injected read failure"),
	}
	rd := NewReader(deflate.AsByteReader(buggy))
	if _, err := ioutil.ReadAll(rd); err != ErrEndOfStream {
		t.Fatalf("got %v, want ErrEndOfStream", err)
	}
}

func TestResetReuse(t *testing.T) {
	db := testutil.MustDecodeBitGen
	stream := db(`<<<
		< 1 00 0*5   # Final, stored block, padding
		X:0300fcff   # RawSize: 3
		X:616263     # "abc"
	`)

	rd := NewReader(bytes.NewReader(stream))
	out1, err := ioutil.ReadAll(rd)
	if err != nil {
		t.Fatalf("first decode: unexpected error: %v", err)
	}

	rd.Reset(bytes.NewReader(stream))
	out2, err := ioutil.ReadAll(rd)
	if err != nil {
		t.Fatalf("second decode: unexpected error: %v", err)
	}
	if !bytes.Equal(out1, out2) {
		t.Fatalf("reused Reader produced different output: %x vs %x", out1, out2)
	}
}
