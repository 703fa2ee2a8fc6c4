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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/zcomp/engine"
)

var _ = Describe("PlanPatchFrom", func() {
	It("rejects an unknown max source size", func() {
		_, err := engine.PlanPatchFrom(0, 0, 0, 16, 6, 10, 27)
		Expect(err).To(HaveOccurred())
	})

	It("raises mem_limit to the largest of mem_limit/dict/source size", func() {
		plan, err := engine.PlanPatchFrom(1<<20, 1<<22, 1<<18, 16, 6, 10, 27)
		Expect(err).ToNot(HaveOccurred())
		Expect(plan.MemLimit).To(Equal(uint32(1 << 22)))
	})

	It("clamps window_log to the codec's own bounds", func() {
		plan, err := engine.PlanPatchFrom(1<<30, 0, 0, 16, 6, 10, 27)
		Expect(err).ToNot(HaveOccurred())
		Expect(plan.WindowLog).To(Equal(27))
	})

	It("enables long-distance matching when file_window_log exceeds cycle_log", func() {
		// maxSrcSize=1<<20 -> fileWindowLog = 21; chainLog=16, strategy>=btlazy2 -> cycleLog=15
		plan, err := engine.PlanPatchFrom(1<<20, 0, 0, 16, 6, 10, 27)
		Expect(err).ToNot(HaveOccurred())
		Expect(plan.EnableLDM).To(BeTrue())
	})

	It("leaves long-distance matching off when file_window_log is within cycle_log", func() {
		// maxSrcSize=1<<10 -> fileWindowLog = 11; chainLog=16, strategy<btlazy2 -> cycleLog=16
		plan, err := engine.PlanPatchFrom(1<<10, 0, 0, 16, 0, 10, 27)
		Expect(err).ToNot(HaveOccurred())
		Expect(plan.EnableLDM).To(BeFalse())
	})
})
