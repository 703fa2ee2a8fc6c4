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

package main

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/zcomp/format"
	"github.com/nabbar/zcomp/prefs"
)

func TestMain_(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "cmd/zcomp suite")
}

var _ = Describe("parseFormat", func() {
	It("accepts every compiled-in backend name", func() {
		for _, name := range []string{"zstd", "gzip", "xz", "lzma", "lz4"} {
			a, err := parseFormat(name)
			Expect(err).ToNot(HaveOccurred())
			Expect(a.String()).To(Equal(name))
		}
	})

	It("rejects an unknown name", func() {
		_, err := parseFormat("rar")
		Expect(err).To(HaveOccurred())
	})

	It("rejects \"none\" (not a selectable backend)", func() {
		_, err := parseFormat("none")
		Expect(err).To(HaveOccurred())
		Expect(format.None.String()).To(Equal("none"))
	})
})

var _ = Describe("resolveSparseMode", func() {
	It("maps always/never/anything-else", func() {
		Expect(resolveSparseMode("always")).To(Equal(prefs.SparseForced))
		Expect(resolveSparseMode("never")).To(Equal(prefs.SparseDisabled))
		Expect(resolveSparseMode("auto")).To(Equal(prefs.SparseAuto))
		Expect(resolveSparseMode("")).To(Equal(prefs.SparseAuto))
	})
})

var _ = Describe("resolveProgressMode", func() {
	It("maps always/never/anything-else", func() {
		Expect(resolveProgressMode("always")).To(Equal(prefs.ProgressAlways))
		Expect(resolveProgressMode("never")).To(Equal(prefs.ProgressNever))
		Expect(resolveProgressMode("auto")).To(Equal(prefs.ProgressAuto))
	})
})

var _ = Describe("buildPreferences", func() {
	It("defaults to zstd format and overwrite=false", func() {
		flags = globalFlags{format: "zstd", level: 3, progress: "auto", sparse: "auto"}
		p, err := buildPreferences(false)
		Expect(err).ToNot(HaveOccurred())
		Expect(p.Format).To(Equal(format.Zstd))
		Expect(p.Overwrite).To(BeFalse())
	})

	It("maps --force onto both Overwrite and AllowBlockDevices", func() {
		flags = globalFlags{format: "zstd", level: 3, progress: "auto", sparse: "auto", force: true}
		p, err := buildPreferences(false)
		Expect(err).ToNot(HaveOccurred())
		Expect(p.Overwrite).To(BeTrue())
		Expect(p.AllowBlockDevices).To(BeTrue())
	})

	It("rejects an unknown --format", func() {
		flags = globalFlags{format: "rar", progress: "auto", sparse: "auto"}
		_, err := buildPreferences(false)
		Expect(err).To(HaveOccurred())
	})
})
