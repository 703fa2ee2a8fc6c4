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

// Package decomp is the Decompression Engine (§4.8): a magic-number
// dispatcher supporting multi-frame concatenation and a pass-through mode
// for unrecognized input on stdout, grounded on the reference tool's
// FIO_decompressFrame / FIO_decompressZstdFrame.
package decomp

import (
	"bufio"
	"compress/gzip"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	"github.com/nabbar/zcomp/format"
	"github.com/nabbar/zcomp/internal/clog"
	"github.com/nabbar/zcomp/internal/xerr"
	"github.com/nabbar/zcomp/prefs"
	"github.com/nabbar/zcomp/sparse"
)

// passThroughBlock is the chunk size used by the pass-through copy loop
// (§4.8.6).
const passThroughBlock = 64 * 1024

// Result carries the byte totals a decode run produced.
type Result struct {
	BytesIn  uint64
	BytesOut uint64
}

// countingReader tracks how many bytes have been pulled from the
// underlying reader, used to report BytesIn.
type countingReader struct {
	r io.Reader
	n uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += uint64(n)
	return n, err
}

// countingSparseWriter tracks bytes handed to the sparse writer.
type countingSparseWriter struct {
	w *sparse.Writer
	n uint64
}

func (c *countingSparseWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}

// Decode dispatches src (already wrapped in a bufio.Reader so magic peeks
// and held-over bytes survive across frame boundaries) through the
// recognized formats in sequence, writing decoded bytes to out. allowPass
// enables §4.8.6 pass-through for unrecognized input (decode to stdout with
// overwrite set).
func Decode(log clog.Logger, p *prefs.Preferences, dictBuf []byte, src *bufio.Reader, out *sparse.Writer, allowPass bool, maxWindow uint64) (Result, error) {
	cr := &countingReader{r: src}
	cw := &countingSparseWriter{w: out}

	framesConsumed := 0

	for {
		head, err := src.Peek(6)
		if err != nil && len(head) == 0 {
			if framesConsumed == 0 {
				return Result{cr.n, cw.n}, xerr.Wrapf(xerr.FormatError, "empty input")
			}
			break
		}

		alg := detectAlgorithm(head)

		switch alg {
		case format.Zstd:
			if err := decodeZstdRun(p, dictBuf, src, cw, maxWindow); err != nil {
				return Result{cr.n, cw.n}, err
			}
			framesConsumed++
			// klauspost's Decoder consumes every concatenated zstd frame
			// it can find contiguously (satisfying the §8 zstd
			// concatenation property); once it stops, nothing recognizable
			// remains for this dispatcher to continue on, so the loop
			// below naturally hits io.EOF on the next Peek. Mixed-format
			// concatenation immediately following a zstd run is therefore
			// not supported by this port — see DESIGN.md.
			continue
		case format.Gzip:
			if err := decodeGzipMember(src, cw); err != nil {
				return Result{cr.n, cw.n}, err
			}
			framesConsumed++
			continue
		case format.Xz:
			if err := decodeOneShot(src, cw, func(r io.Reader) (io.Reader, error) { return xz.NewReader(r) }); err != nil {
				return Result{cr.n, cw.n}, err
			}
			framesConsumed++
			continue
		case format.Lzma:
			if err := decodeOneShot(src, cw, func(r io.Reader) (io.Reader, error) { return lzma.NewReader(r) }); err != nil {
				return Result{cr.n, cw.n}, err
			}
			framesConsumed++
			continue
		case format.LZ4:
			if err := decodeOneShot(src, cw, func(r io.Reader) (io.Reader, error) { return lz4.NewReader(r), nil }); err != nil {
				return Result{cr.n, cw.n}, err
			}
			framesConsumed++
			continue
		default:
			if format.IsSkippableFrame(head) {
				if err := skipSkippableFrame(src); err != nil {
					return Result{cr.n, cw.n}, err
				}
				framesConsumed++
				continue
			}
			if allowPass {
				if err := passThrough(src, cw); err != nil {
					return Result{cr.n, cw.n}, err
				}
				framesConsumed++
				continue
			}
			return Result{cr.n, cw.n}, xerr.Wrapf(xerr.FormatError, "unsupported format (unrecognized magic number)")
		}
	}

	if err := out.End(); err != nil {
		return Result{cr.n, cw.n}, err
	}

	return Result{cr.n, cw.n}, nil
}

// detectAlgorithm matches head (at least 6 bytes, short input padded with
// whatever is available) against every known magic number, mirroring
// format.DetectOnly's own switch: that helper re-wraps its argument in a
// fresh bufio.Reader to do its peeking, which would silently swallow bytes
// already buffered in src, so the dispatch loop does its own peek and
// reuses only the pure per-algorithm matchers.
func detectAlgorithm(head []byte) format.Algorithm {
	switch {
	case format.Zstd.DetectHeader(head):
		return format.Zstd
	case format.Gzip.DetectHeader(head):
		return format.Gzip
	case format.Xz.DetectHeader(head):
		return format.Xz
	case format.Lzma.DetectHeader(head):
		return format.Lzma
	case format.LZ4.DetectHeader(head):
		return format.LZ4
	default:
		return format.None
	}
}

// decodeZstdRun decodes every contiguous zstd frame available in src,
// writing decoded bytes through out. maxWindow bounds decode memory
// (Preferences.MemLimit / --long); exceeding it surfaces the §4.8.2
// "window too large" help text.
func decodeZstdRun(p *prefs.Preferences, dictBuf []byte, src io.Reader, out io.Writer, maxWindow uint64) error {
	opts := []zstd.DOption{}
	if maxWindow > 0 {
		opts = append(opts, zstd.WithDecoderMaxWindow(maxWindow))
	}
	if len(dictBuf) > 0 {
		opts = append(opts, zstd.WithDecoderDicts(dictBuf))
	}

	dec, err := zstd.NewReader(src, opts...)
	if err != nil {
		return xerr.Wrap(xerr.CodecError, err)
	}
	defer dec.Close()

	if _, err := io.Copy(out, dec); err != nil {
		if isWindowTooLarge(err) {
			return xerr.Wrapf(xerr.CodecError, "window size too large; retry with --long=N or --memory=NMB: %w", err)
		}
		return xerr.Wrap(xerr.CodecError, err)
	}
	return nil
}

// isWindowTooLarge is a best-effort match against klauspost's window-size
// sentinel; the library surfaces this as a plain error without an exported
// sentinel we can errors.Is against, so this does a message match, mirroring
// how the reference tool keys off ZSTD_error_frameParameter_windowTooLarge.
func isWindowTooLarge(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return containsFold(msg, "window") && containsFold(msg, "large")
}

func containsFold(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if equalFold(s[i:i+len(substr)], substr) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// decodeGzipMember decodes exactly one gzip member, leaving any bytes past
// it in src for the next dispatch iteration (stdlib gzip.Reader decodes
// every concatenated member by default; disabling multistream here is what
// lets the outer §4.8.1 loop keep dispatching on a per-frame basis for
// this format, including a member followed by a different algorithm).
func decodeGzipMember(src io.Reader, out io.Writer) error {
	gr, err := gzip.NewReader(src)
	if err != nil {
		return xerr.Wrap(xerr.CodecError, err)
	}
	gr.Multistream(false)
	defer gr.Close()

	if _, err := io.Copy(out, gr); err != nil {
		return xerr.Wrap(xerr.CodecError, err)
	}
	return nil
}

// decodeOneShot decodes a single frame using newReader, for formats whose
// Go library exposes no multistream toggle (xz/lzma/lz4): in practice a
// single frame per file is the overwhelmingly common case for these
// formats.
func decodeOneShot(src io.Reader, out io.Writer, newReader func(io.Reader) (io.Reader, error)) error {
	r, err := newReader(src)
	if err != nil {
		return xerr.Wrap(xerr.CodecError, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		return xerr.Wrap(xerr.CodecError, err)
	}
	return nil
}

// skipSkippableFrame consumes a zstd skippable frame (§6: magic range
// 0x184D2A50..0x184D2A5F) without decoding it: 4 bytes magic, 4 bytes
// little-endian length, then that many bytes of user data.
func skipSkippableFrame(src *bufio.Reader) error {
	hdr := make([]byte, 8)
	if _, err := io.ReadFull(src, hdr); err != nil {
		return xerr.Wrap(xerr.Truncation, err)
	}
	size := uint32(hdr[4]) | uint32(hdr[5])<<8 | uint32(hdr[6])<<16 | uint32(hdr[7])<<24
	if _, err := io.CopyN(io.Discard, src, int64(size)); err != nil {
		return xerr.Wrap(xerr.Truncation, err)
	}
	return nil
}

// passThrough forwards the remainder of src verbatim through the sparse
// writer (§4.8.6), used when decoding unrecognized input to stdout with
// overwrite set.
func passThrough(src io.Reader, out io.Writer) error {
	buf := make([]byte, passThroughBlock)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return xerr.Wrap(xerr.IoError, werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return xerr.Wrap(xerr.IoError, err)
		}
	}
}
