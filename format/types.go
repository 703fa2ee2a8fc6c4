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

import "bytes"

// Algorithm identifies one of the compiled-in compression backends.
type Algorithm uint8

const (
	None Algorithm = iota
	Zstd
	Gzip
	Xz
	Lzma
	LZ4
)

// List returns every Algorithm the build supports, None included.
func List() []Algorithm {
	return []Algorithm{
		None,
		Zstd,
		Gzip,
		Xz,
		Lzma,
		LZ4,
	}
}

func ListString() []string {
	var (
		lst = List()
		res = make([]string, len(lst))
	)
	for i := range lst {
		res[i] = lst[i].String()
	}
	return res
}

func (a Algorithm) IsNone() bool {
	return a == None
}

func (a Algorithm) String() string {
	switch a {
	case Zstd:
		return "zstd"
	case Gzip:
		return "gzip"
	case Xz:
		return "xz"
	case Lzma:
		return "lzma"
	case LZ4:
		return "lz4"
	default:
		return "none"
	}
}

// Extension returns the canonical output suffix appended on encode.
func (a Algorithm) Extension() string {
	switch a {
	case Zstd:
		return ".zst"
	case Gzip:
		return ".gz"
	case Xz:
		return ".xz"
	case Lzma:
		return ".lzma"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// zstdMagic is the little-endian magic number every zstd frame starts with.
// klauspost/compress/zstd validates it internally but does not export it, so
// it is restated here for header sniffing ahead of opening a full streaming
// decoder (see interface.go's DetectOnly).
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// skippableMagicLo and skippableMagicHi bound the little-endian magic range
// reserved for zstd skippable frames (0x184D2A50..0x184D2A5F).
var (
	skippableMagicLo = []byte{0x50, 0x2A, 0x4D, 0x18}
	skippableMagicHi = []byte{0x5F, 0x2A, 0x4D, 0x18}
)

// DetectHeader reports whether the leading bytes of h match this Algorithm's
// magic number. h must carry at least 6 bytes (the longest magic, xz's).
func (a Algorithm) DetectHeader(h []byte) bool {
	if len(h) < 6 {
		return false
	}

	switch a {
	case Zstd:
		return bytes.Equal(h[0:4], zstdMagic)
	case Gzip:
		exp := []byte{0x1F, 0x8B}
		return bytes.Equal(h[0:2], exp)
	case Xz:
		exp := []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
		return bytes.Equal(h[0:6], exp)
	case Lzma:
		// Raw (alone-format) lzma has no self-describing magic; fileio.c
		// treats the properties byte 0x5D followed by a zero high byte of
		// the dictionary size as the de-facto signature, so we do too.
		return h[0] == 0x5D && h[1] == 0x00
	case LZ4:
		exp := []byte{0x04, 0x22, 0x4D, 0x18}
		return bytes.Equal(h[0:4], exp)
	default:
		return false
	}
}

// IsSkippableFrame reports whether h opens with a zstd skippable-frame magic
// (0x184D2A50..0x184D2A5F), used by the --list frame walker to account for
// user-data frames without treating them as a decode error.
func IsSkippableFrame(h []byte) bool {
	if len(h) < 4 {
		return false
	}
	// Little-endian: only the low nibble of the first byte varies.
	return h[0] >= skippableMagicLo[0] && h[0] <= skippableMagicHi[0] && bytes.Equal(h[1:4], skippableMagicLo[1:4])
}
