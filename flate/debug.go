// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build debug

package flate

import (
	"fmt"
	"strings"
)

func lenBase10(n int) int { return len(fmt.Sprintf("%d", n)) }

func padBase10(n interface{}, m int) string {
	s := fmt.Sprintf("%d", n)
	if pad := m - len(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}

// String renders the direct table and overflow tree for manual inspection
// while debugging a canonical Huffman code construction.
func (h huffmanTable) String() string {
	maxSymStr := lenBase10(int(h.numSyms) - 1)

	var ss []string
	ss = append(ss, "{")
	ss = append(ss, fmt.Sprintf("\tnumSyms: %d,", h.numSyms))
	ss = append(ss, fmt.Sprintf("\tmaxLen: %d,", h.maxLen))
	ss = append(ss, fmt.Sprintf("\ttableBits: %d,", h.tableBits))

	ss = append(ss, "\ttable: {")
	for i, e := range h.table {
		if e == unset {
			continue
		}
		kind := "sym"
		if e >= h.numSyms {
			kind = "node"
		}
		ss = append(ss, fmt.Sprintf("\t\t%s:  {%s: %s},",
			padBase10(i, len(h.table)-1), kind, padBase10(e, maxSymStr)))
	}
	ss = append(ss, "\t},")

	ss = append(ss, "\tleft/right: {")
	for i := range h.left {
		if h.left[i] == unset && h.right[i] == unset {
			continue
		}
		ss = append(ss, fmt.Sprintf("\t\tnode %s:  {left: %s, right: %s},",
			padBase10(int(h.numSyms)+i, 4),
			padBase10(h.left[i], maxSymStr),
			padBase10(h.right[i], maxSymStr),
		))
	}
	ss = append(ss, "\t},")
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}
