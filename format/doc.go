/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package format identifies the compiled-in compression backends (zstd,
// gzip, xz, lzma, lz4), sniffs which one produced a given byte stream from
// its magic number, and hands back the matching stdlib/ecosystem
// Reader/Writer for it.
//
// # Supported algorithms
//
//	None  no compression (pass-through)
//	Zstd  primary format; github.com/klauspost/compress/zstd
//	Gzip  compress/gzip (stdlib)
//	Xz    github.com/ulikunitz/xz
//	Lzma  github.com/ulikunitz/xz/lzma (raw/alone format, no container)
//	LZ4   github.com/pierrec/lz4/v4
//
// # Magic numbers
//
//	Zstd: 28 B5 2F FD (little-endian 0xFD2FB528)
//	Gzip: 1F 8B
//	Xz:   FD 37 7A 58 5A 00
//	Lzma: 5D 00 .. (properties byte + zero dictionary-size high byte; the
//	      raw/alone format has no self-describing magic of its own)
//	LZ4:  04 22 4D 18
//
// Detection needs at least 6 bytes (xz's magic is the longest); see
// DetectHeader, Detect, and DetectOnly.
//
// Skippable zstd frames (0x184D2A50..0x184D2A5F) are not a backend of their
// own; IsSkippableFrame exists for callers that need to walk past them
// (the decompression dispatch loop, the list command's frame walker)
// without treating them as a decode error.
package format
