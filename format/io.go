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
	"compress/gzip"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// zstdDecoderCloser adapts *zstd.Decoder's Close (no error) to io.ReadCloser.
type zstdDecoderCloser struct {
	*zstd.Decoder
}

func (d *zstdDecoderCloser) Close() error {
	d.Decoder.Close()
	return nil
}

// Reader wraps r with this Algorithm's decompressing reader. It is the
// single-shot counterpart of the streaming decoder the Decompression Engine
// drives directly for Zstd; auxiliary backends have no progression counters
// to expose so this plain Reader/Writer pair is sufficient for them.
func (a Algorithm) Reader(r io.Reader) (io.ReadCloser, error) {
	switch a {
	case Zstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &zstdDecoderCloser{d}, nil
	case Gzip:
		return gzip.NewReader(r)
	case Xz:
		c, e := xz.NewReader(r)
		return io.NopCloser(c), e
	case Lzma:
		c, e := lzma.NewReader(r)
		return io.NopCloser(c), e
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// Writer wraps w with this Algorithm's compressing writer, at the library's
// default level. The Compression Engine opens zstd encoders itself (it needs
// level control, dictionaries, and progression stats that this factory
// method does not expose) and uses WriterAtLevel for every auxiliary backend.
func (a Algorithm) Writer(w io.WriteCloser) (io.WriteCloser, error) {
	switch a {
	case Zstd:
		return zstd.NewWriter(w)
	case Gzip:
		return gzip.NewWriter(w), nil
	case Xz:
		return xz.NewWriter(w)
	case Lzma:
		return lzma.NewWriter(w), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return w, nil
	}
}

// lzmaDictCapExps maps a [0..9] preset to the dictionary-capacity exponent
// the reference xz/lzma tool (gxz) uses for that preset.
var lzmaDictCapExps = []uint{18, 20, 21, 22, 22, 23, 23, 24, 25, 26}

// clampPreset clamps level to [0, 9], the §4.7.5 gzip/xz/lzma level range.
func clampPreset(level int) int {
	if level < 0 {
		return 0
	}
	if level > 9 {
		return 9
	}
	return level
}

// WriterAtLevel wraps w with this Algorithm's compressing writer honoring
// level, per §4.7.5 (gzip clamp [0..9]; xz easy-encoder with CRC64 and an
// lzma-style preset-derived dictionary capacity; lzma alone-encoder at the
// same preset table; lz4's frame writer at the requested compression
// level). contentSize is the pledged source size, or -1 when unknown.
//
// pierrec/lz4/v4's Option set (as used elsewhere in this retrieval pack)
// only covers compression level and worker concurrency, not the frame
// descriptor's block-size/block-linkage/content-size fields §4.7.5 also
// asks for, so those three stay at the library's frame defaults here — a
// documented gap, see DESIGN.md, rather than a best-guess at an unattested
// API.
func (a Algorithm) WriterAtLevel(w io.WriteCloser, level int, contentSize int64) (io.WriteCloser, error) {
	preset := clampPreset(level)

	switch a {
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	case Gzip:
		return gzip.NewWriterLevel(w, preset)
	case Xz:
		p := xz.WriterDefaults
		p.DictCap = 1 << lzmaDictCapExps[preset]
		return xz.NewWriterParams(w, &p)
	case Lzma:
		lz := lzma.NewWriter(w)
		lz.Properties = lzma.Properties{LC: 3, LP: 0, PB: 2}
		lz.DictCap = 1 << lzmaDictCapExps[preset]
		lz.Size = contentSize
		lz.EOSMarker = contentSize < 0
		return lz, nil
	case LZ4:
		zw := lz4.NewWriter(w)
		if err := zw.Apply(lz4WriterLevel(preset)); err != nil {
			return nil, err
		}
		return zw, nil
	default:
		return w, nil
	}
}

// lz4WriterLevel maps a [0..9] preset onto pierrec/lz4/v4's named
// compression levels (Fast, Level1..Level9).
func lz4WriterLevel(preset int) lz4.Option {
	levels := [...]lz4.CompressionLevel{
		lz4.Fast,
		lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
		lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
	}
	return lz4.CompressionLevelOption(levels[preset])
}
