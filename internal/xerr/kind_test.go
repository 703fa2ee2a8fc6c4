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

package xerr_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/zcomp/internal/xerr"
)

func TestXerr(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "xerr suite")
}

var _ = Describe("Kind wrapping", func() {
	It("matches the wrapped kind via errors.Is", func() {
		cause := errors.New("disk full")
		err := xerr.Wrap(xerr.IoError, cause)

		Expect(errors.Is(err, xerr.IoError)).To(BeTrue())
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(errors.Is(err, xerr.CodecError)).To(BeFalse())
	})

	It("returns nil when wrapping a nil error", func() {
		Expect(xerr.Wrap(xerr.CodecError, nil)).To(BeNil())
	})

	It("formats a message with Wrapf", func() {
		err := xerr.Wrapf(xerr.FormatError, "unrecognized magic %x", 0xDEAD)
		Expect(err.Error()).To(ContainSubstring("unrecognized magic"))
		Expect(errors.Is(err, xerr.FormatError)).To(BeTrue())
	})
})
