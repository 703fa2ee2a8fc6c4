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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nabbar/zcomp/dict"
	"github.com/nabbar/zcomp/job"
)

// newTestCmd implements §6's "test" operation: decompress to a discarded
// sink, verifying integrity without writing any destination.
func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test SRC...",
		Short: "Verify one or more compressed files decode cleanly, without writing output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPreferences(true)
			if err != nil {
				return err
			}

			log, disp := newLogger()
			g := newGuard(log)

			var dictBuf []byte
			if flags.patchFrom != "" {
				dictBuf, err = dict.Load(flags.patchFrom, p.DictCap())
				if err != nil {
					return err
				}
			}

			o := job.New(log, disp, p, g, dictBuf, len(args))
			outcomes := make([]job.Outcome, 0, len(args))
			for _, src := range args {
				out := o.DecompressOne(src, "", true)
				outcomes = append(outcomes, out)
				if out.Skipped {
					fmt.Fprintf(os.Stderr, "%s: FAILED (%s)\n", src, out.Reason)
				} else {
					fmt.Fprintf(os.Stdout, "%s: OK\n", src)
				}
			}

			exitCode = job.ExitCode(outcomes)
			return nil
		},
	}
	return cmd
}
