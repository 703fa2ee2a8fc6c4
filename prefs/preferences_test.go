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

package prefs_test

import (
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/zcomp/internal/xerr"
	"github.com/nabbar/zcomp/prefs"
)

func TestPrefs(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "prefs suite")
}

var _ = Describe("Preferences invariants", func() {
	It("rejects adaptive mode with workers=0", func() {
		p := prefs.New()
		err := p.WithAdaptive(true, prefs.Optional[int]{}, prefs.Optional[int]{})
		Expect(err).To(HaveOccurred())
		Expect(err).To(MatchError(xerr.ConfigError))
	})

	It("rejects rsyncable mode with workers=0", func() {
		p := prefs.New()
		err := p.WithRsyncable(true)
		Expect(err).To(HaveOccurred())
	})

	It("accepts adaptive mode once workers>0", func() {
		p := prefs.New()
		Expect(p.WithWorkers(4)).To(Succeed())
		Expect(p.WithAdaptive(true, prefs.Set(1), prefs.Set(19))).To(Succeed())
		Expect(p.Adaptive.Enabled).To(BeTrue())
	})

	It("rejects dropping workers to 0 while adaptive is active", func() {
		p := prefs.New()
		Expect(p.WithWorkers(4)).To(Succeed())
		Expect(p.WithAdaptive(true, prefs.Optional[int]{}, prefs.Optional[int]{})).To(Succeed())
		Expect(p.WithWorkers(0)).To(HaveOccurred())
	})

	It("degrades sparse=auto to disabled on stdout", func() {
		p := prefs.New()
		p.WithSparse(prefs.SparseAuto, true)
		Expect(p.Sparse).To(Equal(prefs.SparseDisabled))
	})

	It("keeps sparse=auto on a regular file destination", func() {
		p := prefs.New()
		p.WithSparse(prefs.SparseAuto, false)
		Expect(p.Sparse).To(Equal(prefs.SparseAuto))
	})

	It("rejects a src-size-hint above int32 max", func() {
		p := prefs.New()
		err := p.WithSrcSizeHint(uint64(math.MaxInt32) + 1)
		Expect(err).To(HaveOccurred())
	})

	It("accepts a src-size-hint at int32 max", func() {
		p := prefs.New()
		Expect(p.WithSrcSizeHint(uint64(math.MaxInt32))).To(Succeed())
		v, ok := p.SrcSizeHint.Get()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(uint32(math.MaxInt32)))
	})

	It("returns the patch-from dictionary cap when enabled", func() {
		p := prefs.New()
		p.MemLimit = 64 << 20
		Expect(p.DictCap()).To(Equal(uint32(prefs.DictSizeMax)))
		Expect(p.WithPatchFrom(true)).To(Succeed())
		Expect(p.DictCap()).To(Equal(uint32(64 << 20)))
	})
})
