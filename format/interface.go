/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package format

import (
	"bufio"
	"io"
)

// Parse maps a user-provided format name (CLI flag, config file) to an
// Algorithm, case-insensitively. Unknown input yields None.
func Parse(s string) Algorithm {
	var alg = None
	if e := alg.UnmarshalText([]byte(s)); e != nil {
		return None
	} else {
		return alg
	}
}

// Detect sniffs r's leading bytes and returns the matching Algorithm already
// wrapped in its decompressing Reader.
func Detect(r io.Reader) (Algorithm, io.ReadCloser, error) {
	var (
		err error
		alg Algorithm
		rdr io.ReadCloser
	)

	if alg, rdr, err = DetectOnly(r); err != nil {
		return None, nil, err
	} else if rdr, err = alg.Reader(rdr); err != nil {
		return None, nil, err
	} else {
		return alg, rdr, nil
	}
}

// DetectOnly sniffs r's leading bytes against every known magic number and
// returns the matched Algorithm (None if the prefix matches nothing, e.g.
// plain data destined for pass-through) alongside a reader that still sees
// the peeked bytes. A short read (fewer than 6 bytes total, e.g. a tiny
// input smaller than the longest magic) is not itself an error: whatever
// prefix is available is still matched against the magic table.
func DetectOnly(r io.Reader) (Algorithm, io.ReadCloser, error) {
	var (
		alg Algorithm
		bfr = bufio.NewReader(r)
	)

	buf, err := bfr.Peek(6)
	if err != nil && len(buf) == 0 {
		return None, nil, err
	}

	switch {
	case Zstd.DetectHeader(buf):
		alg = Zstd
	case Gzip.DetectHeader(buf):
		alg = Gzip
	case Xz.DetectHeader(buf):
		alg = Xz
	case Lzma.DetectHeader(buf):
		alg = Lzma
	case LZ4.DetectHeader(buf):
		alg = LZ4
	default:
		alg = None
	}

	return alg, io.NopCloser(bfr), nil
}
