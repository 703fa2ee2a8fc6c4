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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/nabbar/zcomp/format"
)

// frameInfo accumulates the per-file totals the `list` command reports,
// per SPEC_FULL.md §C.1.
type frameInfo struct {
	zstdRuns          int
	skippableFrames   int
	compressedBytes   uint64
	decompressedBytes uint64
	decompUnavailable bool
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list FILE...",
		Short: "Report frame counts and sizes without writing any output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var total frameInfo
			failures := 0

			for _, path := range args {
				fi, err := inspectFile(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %s\n", path, err)
					failures++
					continue
				}
				printFrameInfo(path, fi)
				total.zstdRuns += fi.zstdRuns
				total.skippableFrames += fi.skippableFrames
				total.compressedBytes += fi.compressedBytes
				total.decompressedBytes += fi.decompressedBytes
			}

			if len(args) > 1 {
				printFrameInfo("(total)", total)
			}

			if failures > 0 {
				exitCode = 1
			}
			return nil
		},
	}
}

// inspectFile walks path's frame sequence: skippable frames are skipped by
// their declared length without touching their payload; zstd runs are
// decoded (klauspost exposes no header-only content-size peek, the same
// limitation already noted for decomp.Decode) to recover a decompressed
// total; any other recognized or unrecognized format is reported by size
// alone, with decompUnavailable set.
func inspectFile(path string) (frameInfo, error) {
	var fi frameInfo

	f, err := os.Open(path)
	if err != nil {
		return fi, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fi, err
	}
	fi.compressedBytes = uint64(st.Size())

	r := bufio.NewReader(f)
	for {
		head, err := r.Peek(6)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return fi, nil
			}
			return fi, err
		}

		if format.IsSkippableFrame(head) {
			if err := skipListableFrame(r); err != nil {
				return fi, err
			}
			fi.skippableFrames++
			continue
		}

		if format.Zstd.DetectHeader(head) {
			n, err := countZstdRun(r)
			fi.decompressedBytes += n
			fi.zstdRuns++
			if err != nil {
				fi.decompUnavailable = true
			}
			return fi, nil
		}

		// Any other recognized or unrecognized format: report size only.
		fi.decompUnavailable = true
		return fi, nil
	}
}

func skipListableFrame(r *bufio.Reader) error {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return err
	}
	length := binary.LittleEndian.Uint32(header[4:8])
	_, err := io.CopyN(io.Discard, r, int64(length))
	return err
}

func countZstdRun(r io.Reader) (uint64, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return 0, err
	}
	defer dec.Close()
	n, err := io.Copy(io.Discard, dec)
	return uint64(n), err
}

func printFrameInfo(label string, fi frameInfo) {
	status := "ok"
	if fi.decompUnavailable {
		status = "size-only"
	}
	fmt.Printf("%s: %d zstd run(s), %d skippable frame(s), %d -> %d bytes [%s]\n",
		label, fi.zstdRuns, fi.skippableFrames, fi.compressedBytes, fi.decompressedBytes, status)
}
