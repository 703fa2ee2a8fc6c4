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

// Package engine is the Compression Engine (§4.7): a streaming zstd encode
// loop with adaptive level control and patch-from support, plus the
// auxiliary gzip/xz/lzma/lz4 backends of §4.7.5. It is grounded on the
// reference tool's FIO_compressZstdFrame / FIO_compressFilename_srcFile and
// klauspost/compress/zstd's streaming Encoder.
package engine

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/nabbar/zcomp/display"
	"github.com/nabbar/zcomp/format"
	"github.com/nabbar/zcomp/internal/clog"
	"github.com/nabbar/zcomp/internal/xerr"
	"github.com/nabbar/zcomp/prefs"
)

// srcBufSize mirrors the codec's recommended input buffer size used by the
// reference tool's streaming resources (it asks the library for
// ZSTD_CStreamInSize(); this port uses a fixed 1 MiB chunk instead, which
// klauspost's Encoder is equally happy to consume in arbitrary slices).
const srcBufSize = 1 << 20

// adaptTickBytes is how many source bytes the compress loop reads between
// adaptive-control ticks.
const adaptTickBytes = 4 << 20

// Result carries the byte counts a compress/decompress run produced, fed
// into prefs.Context.Advance by the Job Orchestrator.
type Result struct {
	BytesIn  uint64
	BytesOut uint64
}

// countingWriter tracks how many bytes have actually reached the
// destination, standing in for the reference library's "flushed" counter.
type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	if err != nil {
		return n, xerr.Wrap(xerr.IoError, err)
	}
	return n, nil
}

// CompressZstd streams src into dst as one or more zstd frames (one per
// adaptive level change, see Controller), honoring the checksum preference,
// cp.WindowLog and patch-from referencing. Preferences.DictID and
// Preferences.ContentSize are not applied to the frame header. srcSize is
// the pledged source size; pass -1 when unknown (stdin with no --stream-size).
func CompressZstd(log clog.Logger, disp *display.Display, p *prefs.Preferences, cp prefs.CParams, dictBuf []byte, level int, src io.Reader, dst io.Writer, srcSize int64) (Result, error) {
	out := &countingWriter{w: dst}

	ctrl := NewController(p, level, 1, 22)

	enc, err := newZstdEncoder(p, cp, dictBuf, level, out)
	if err != nil {
		return Result{}, xerr.Wrap(xerr.CodecError, err)
	}

	buf := make([]byte, srcBufSize)
	var (
		bytesIn       uint64
		sinceTick     uint64
		jobID         int
	)

	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			bytesIn += uint64(n)
			sinceTick += uint64(n)

			if _, werr := enc.Write(buf[:n]); werr != nil {
				_ = enc.Close()
				return Result{BytesIn: bytesIn, BytesOut: out.n}, xerr.Wrap(xerr.CodecError, werr)
			}

			if ctrl.Enabled() && sinceTick >= adaptTickBytes {
				jobID++
				// Ingested==Consumed and Produced==Flushed here because
				// this loop only ever has the two counters below (bytesIn,
				// out.n); klauspost/compress/zstd's streaming Encoder
				// exposes no separate consumed/flushed figures the way
				// ZSTD_frameProgression does. That collapses classifySlower
				// to its ActiveWorkers==0 branch only (never true mid-tick)
				// and leaves classifyFaster free to fire every tick once
				// past warm-up, i.e. level can drift down but effectively
				// never back up — a feedback loop in form, not in effect.
				// See DESIGN.md for the underlying library-API gap.
				newLevel := ctrl.Tick(Progression{
					Ingested: bytesIn, Consumed: bytesIn,
					Produced: out.n, Flushed: out.n,
					CurrentJobID: jobID, ActiveWorkers: p.Workers,
				})
				if newLevel != level {
					level = newLevel
					log.Debug("adaptive level change", "level", level)
					if err := enc.Close(); err != nil {
						return Result{BytesIn: bytesIn, BytesOut: out.n}, xerr.Wrap(xerr.CodecError, err)
					}
					enc, err = newZstdEncoder(p, cp, dictBuf, level, out)
					if err != nil {
						return Result{BytesIn: bytesIn, BytesOut: out.n}, xerr.Wrap(xerr.CodecError, err)
					}
				}
				sinceTick = 0
			}

			disp.Progress("compress", bytesIn, uint64max(srcSize))
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			_ = enc.Close()
			return Result{BytesIn: bytesIn, BytesOut: out.n}, xerr.Wrap(xerr.IoError, rerr)
		}
	}

	if srcSize >= 0 && bytesIn != uint64(srcSize) {
		_ = enc.Close()
		return Result{BytesIn: bytesIn, BytesOut: out.n}, xerr.Wrapf(xerr.IoError, "incomplete read: expected %d bytes, got %d", srcSize, bytesIn)
	}

	if err := enc.Close(); err != nil {
		return Result{BytesIn: bytesIn, BytesOut: out.n}, xerr.Wrap(xerr.CodecError, err)
	}

	disp.ProgressDone()
	return Result{BytesIn: bytesIn, BytesOut: out.n}, nil
}

func uint64max(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}

// newZstdEncoder translates Preferences/CParams into klauspost/compress/zstd
// encoder options. The reference library's explicit pledged-content-size
// API (ZSTD_CCtx_setPledgedSrcSize) has no equivalent on klauspost's
// streaming Encoder, so unlike the C tool the produced frame header never
// carries a content-size field from this path — a documented limitation,
// see DESIGN.md.
//
// §4.7.4 asks a patch-from dictionary to be referenced as a prefix, not
// loaded as a persistent dictionary (it shouldn't be retained or reused
// beyond this one frame). klauspost/compress/zstd has no API distinct from
// WithEncoderDict for that — it is the only dictionary-referencing
// mechanism the encoder exposes — so patch-from still goes through
// WithEncoderDict, with cp.WindowLog carrying the window adjustment
// engine.PlanPatchFromPreferences computed for this file. The plan's
// MemLimit and EnableLDM are not applied to the encoder.
func newZstdEncoder(p *prefs.Preferences, cp prefs.CParams, dictBuf []byte, level int, dst io.Writer) (*zstd.Encoder, error) {
	opts := []zstd.EOption{
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderCRC(p.Checksum),
	}

	if p.Workers > 0 {
		opts = append(opts, zstd.WithEncoderConcurrency(p.Workers))
	}
	if wl, ok := cp.WindowLog.Get(); ok {
		opts = append(opts, zstd.WithWindowSize(1<<uint(wl)))
	}
	if len(dictBuf) > 0 {
		opts = append(opts, zstd.WithEncoderDict(dictBuf))
	}

	return zstd.NewWriter(dst, opts...)
}

// WriteAux streams src through the requested auxiliary backend (gzip, xz,
// lzma, lz4) at level, per §4.7.5. srcSize is the pledged source size, or
// -1 when unknown (mirrors CompressZstd's srcSize contract). These formats
// have no progression counters to expose, so no adaptive control applies
// to them.
func WriteAux(alg format.Algorithm, level int, src io.Reader, dst io.Writer, srcSize int64) (Result, error) {
	out := &countingWriter{w: dst}

	w, err := alg.WriterAtLevel(nopCloseWriter{out}, level, srcSize)
	if err != nil {
		return Result{}, xerr.Wrap(xerr.CodecError, err)
	}

	n, err := io.Copy(w, src)
	if err != nil {
		_ = w.Close()
		return Result{BytesIn: uint64(n), BytesOut: out.n}, xerr.Wrap(xerr.CodecError, err)
	}
	if err := w.Close(); err != nil {
		return Result{BytesIn: uint64(n), BytesOut: out.n}, xerr.Wrap(xerr.CodecError, err)
	}

	return Result{BytesIn: uint64(n), BytesOut: out.n}, nil
}

type nopCloseWriter struct{ io.Writer }

func (nopCloseWriter) Close() error { return nil }
