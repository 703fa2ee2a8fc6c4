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

// Package sparse detects runs of zero bytes in a decoded output stream and
// converts them into file holes via relative seeks, instead of writing the
// zeroes, grounded on the reference tool's FIO_fwriteSparse /
// FIO_fwriteSparseEnd. The byte stream observed by the underlying file is
// always equal to what was passed to Write; only the on-disk representation
// changes.
package sparse

import (
	"io"

	"github.com/nabbar/zcomp/internal/xerr"
)

// gigabyte bounds a single relative seek so the skip count never risks
// overflowing a signed offset type on platforms with a 32-bit long (§4.6
// step 2); Go's int64 seek offsets don't need this on any real platform,
// but the chunked skip is kept to mirror the reference algorithm exactly.
const gigabyte = 1 << 30

// segmentSize is the granularity at which the writer checks for an
// all-zero run before deciding to keep accumulating pending skip bytes
// (§4.6 step 3). The reference implementation walks this segment in
// native machine words and handles a non-multiple tail separately; this
// port scans at byte granularity instead, which needs no portable "native
// word size" and yields an identical (in fact strictly as precise) result.
const segmentSize = 32 * 1024

// Writer wraps an io.WriteSeeker, realizing long zero runs as holes when
// enabled. A Writer must not be reused across files; construct one per
// destination.
type Writer struct {
	dst     io.WriteSeeker
	enabled bool
	pending uint64
}

// New returns a sparse Writer over dst. enabled should be false when sparse
// mode resolved to disabled (including the auto-on-stdout degrade from
// prefs.Preferences.WithSparse) or when running in test mode (§4.6 step 1).
func New(dst io.WriteSeeker, enabled bool) *Writer {
	return &Writer{dst: dst, enabled: enabled}
}

// Write realizes buf onto the destination, converting leading zero runs
// into pending seeks rather than writing them, per §4.6's algorithm.
func (s *Writer) Write(buf []byte) (int, error) {
	if !s.enabled {
		n, err := s.dst.Write(buf)
		if err != nil {
			return n, xerr.Wrap(xerr.IoError, err)
		}
		return n, nil
	}

	if s.pending > gigabyte {
		if _, err := s.dst.Seek(gigabyte, io.SeekCurrent); err != nil {
			return 0, xerr.Wrapf(xerr.IoError, "1 GiB sparse skip: %w", err)
		}
		s.pending -= gigabyte
	}

	total := len(buf)
	for i := 0; i < total; {
		end := i + segmentSize
		if end > total {
			end = total
		}
		seg := buf[i:end]

		z := 0
		for z < len(seg) && seg[z] == 0 {
			z++
		}
		s.pending += uint64(z)

		if z != len(seg) {
			if _, err := s.dst.Seek(int64(s.pending), io.SeekCurrent); err != nil {
				return 0, xerr.Wrapf(xerr.IoError, "sparse skip: %w", err)
			}
			if _, err := s.dst.Write(seg[z:]); err != nil {
				return 0, xerr.Wrapf(xerr.IoError, "sparse write: %w", err)
			}
			s.pending = 0
		}

		i = end
	}

	return total, nil
}

// End finalizes the sparse stream: if any skip is still pending, it seeks
// to one byte before the true end of file and writes a single zero byte,
// so the underlying filesystem records the file's real length instead of
// silently truncating a trailing hole at EOF.
func (s *Writer) End() error {
	if s.pending == 0 {
		return nil
	}
	if _, err := s.dst.Seek(int64(s.pending-1), io.SeekCurrent); err != nil {
		return xerr.Wrapf(xerr.IoError, "final sparse skip: %w", err)
	}
	if _, err := s.dst.Write([]byte{0}); err != nil {
		return xerr.Wrapf(xerr.IoError, "final sparse byte: %w", err)
	}
	s.pending = 0
	return nil
}
