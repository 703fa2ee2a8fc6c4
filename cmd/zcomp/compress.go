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

func newCompressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compress SRC...",
		Short: "Compress one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(args, false)
		},
	}
	cmd.Flags().StringVarP(&explicitDst, "output", "o", "", "explicit destination (concatenates when multiple sources are given)")
	return cmd
}

// runBatch is shared by compress and decompress: both resolve a Plan list,
// drive an Orchestrator over it, and fold the outcomes into exitCode.
func runBatch(args []string, decode bool) error {
	p, err := buildPreferences(decode)
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

	plans, err := job.ResolveBatch(log, args, explicitDst, flags.outputDirFlat, flags.outputDirMirror,
		p.Format.Extension(), decode, flags.removeSrc, flags.force, explicitDst == job.StdoutSentinel)
	if err != nil {
		return err
	}

	o := job.New(log, disp, p, g, dictBuf, len(plans))
	outcomes := make([]job.Outcome, 0, len(plans))
	for _, pl := range plans {
		var out job.Outcome
		if decode {
			out = o.DecompressOne(pl.Src, pl.Dst, false)
		} else {
			out = o.CompressOne(pl.Src, pl.Dst)
		}
		outcomes = append(outcomes, out)
		if out.Skipped {
			fmt.Fprintf(os.Stderr, "%s: %s\n", pl.Src, out.Reason)
		}
	}

	exitCode = job.ExitCode(outcomes)
	return nil
}

// explicitDst backs the --output flag shared by compress and decompress.
var explicitDst string
