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

package dict_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/zcomp/dict"
)

func TestDict(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "dict suite")
}

var _ = Describe("Load", func() {
	It("returns nil, nil for an empty path", func() {
		b, err := dict.Load("", 1024)
		Expect(err).ToNot(HaveOccurred())
		Expect(b).To(BeNil())
	})

	It("reads a small dictionary file in full", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "dict.bin")
		Expect(os.WriteFile(path, []byte("hello dictionary"), 0o644)).To(Succeed())

		b, err := dict.Load(path, 1024)
		Expect(err).ToNot(HaveOccurred())
		Expect(b).To(Equal([]byte("hello dictionary")))
	})

	It("rejects a dictionary larger than the cap", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "dict.bin")
		Expect(os.WriteFile(path, make([]byte, 2048), 0o644)).To(Succeed())

		_, err := dict.Load(path, 1024)
		Expect(err).To(HaveOccurred())
	})
})
