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

package engine_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/zcomp/display"
	"github.com/nabbar/zcomp/engine"
	"github.com/nabbar/zcomp/format"
	"github.com/nabbar/zcomp/internal/clog"
	"github.com/nabbar/zcomp/prefs"
)

var _ = Describe("CompressZstd", func() {
	var disp *display.Display
	var log clog.Logger

	BeforeEach(func() {
		disp = display.New(0, prefs.ProgressNever, false)
		log = clog.Discard()
	})

	It("produces a zstd frame carrying the recognizable magic number", func() {
		p := prefs.New()
		src := bytes.NewReader([]byte(strings.Repeat("payload line\n", 200)))
		dst := &bytes.Buffer{}

		res, err := engine.CompressZstd(log, disp, p, prefs.CParams{}, nil, 3, src, dst, int64(src.Len()))
		Expect(err).ToNot(HaveOccurred())
		Expect(res.BytesIn).To(Equal(uint64(src.Size())))
		Expect(res.BytesOut).To(Equal(uint64(dst.Len())))

		alg, _, err := format.DetectOnly(bytes.NewReader(dst.Bytes()))
		Expect(err).ToNot(HaveOccurred())
		Expect(alg).To(Equal(format.Zstd))
	})

	It("rejects a run that reads fewer bytes than the pledged source size", func() {
		p := prefs.New()
		src := bytes.NewReader([]byte("short"))
		dst := &bytes.Buffer{}

		_, err := engine.CompressZstd(log, disp, p, prefs.CParams{}, nil, 3, src, dst, 1000)
		Expect(err).To(HaveOccurred())
	})

	It("consumes the whole source with adaptive control enabled", func() {
		p := prefs.New()
		Expect(p.WithWorkers(2)).To(Succeed())
		Expect(p.WithAdaptive(true, prefs.Set(1), prefs.Set(19))).To(Succeed())

		src := bytes.NewReader(bytes.Repeat([]byte("x"), 9<<20))
		dst := &bytes.Buffer{}

		res, err := engine.CompressZstd(log, disp, p, prefs.CParams{}, nil, 3, src, dst, int64(src.Len()))
		Expect(err).ToNot(HaveOccurred())
		Expect(res.BytesIn).To(Equal(uint64(9 << 20)))
	})
})

var _ = Describe("WriteAux", func() {
	It("streams through the gzip backend", func() {
		src := bytes.NewReader([]byte(strings.Repeat("aux payload\n", 50)))
		dst := &bytes.Buffer{}

		res, err := engine.WriteAux(format.Gzip, 6, src, dst, -1)
		Expect(err).ToNot(HaveOccurred())
		Expect(res.BytesOut).To(Equal(uint64(dst.Len())))

		alg, _, err := format.DetectOnly(bytes.NewReader(dst.Bytes()))
		Expect(err).ToNot(HaveOccurred())
		Expect(alg).To(Equal(format.Gzip))
	})

	It("streams through the lz4 backend", func() {
		src := bytes.NewReader([]byte(strings.Repeat("aux payload\n", 50)))
		dst := &bytes.Buffer{}

		_, err := engine.WriteAux(format.LZ4, 1, src, dst, -1)
		Expect(err).ToNot(HaveOccurred())

		alg, _, err := format.DetectOnly(bytes.NewReader(dst.Bytes()))
		Expect(err).ToNot(HaveOccurred())
		Expect(alg).To(Equal(format.LZ4))
	})
})
