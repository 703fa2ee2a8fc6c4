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

package job

import (
	"path/filepath"

	"github.com/nabbar/zcomp/internal/clog"
	"github.com/nabbar/zcomp/internal/xerr"
	"github.com/nabbar/zcomp/pathsvc"
)

// Plan is a resolved (src, dst) pairing for one file of a batch, produced by
// ResolveBatch.
type Plan struct {
	Src string
	Dst string
}

// ResolveBatch validates and expands a batch request into per-file Plans,
// per §4.9's batch rules: a single explicit output with multiple inputs
// implies concatenation (warned about, rejected with remove_src unless
// forced, rejected outright with stdout); output_dir_mirror reproduces the
// source tree under mirrorRoot instead of flattening into outDir.
func ResolveBatch(log clog.Logger, srcs []string, explicitDst string, outDir string, mirrorRoot string, suffix string, decode bool, removeSrc, forced, toStdout bool) ([]Plan, error) {
	if explicitDst != "" && len(srcs) > 1 {
		log.Warn("multiple inputs concatenated into one output", "dst", explicitDst, "count", len(srcs))
		if toStdout {
			return nil, xerr.Wrapf(xerr.ConfigError, "cannot concatenate multiple inputs to stdout")
		}
		if removeSrc && !forced {
			return nil, xerr.Wrapf(xerr.ConfigError, "refusing to remove sources of a concatenated batch without --force")
		}
		plans := make([]Plan, len(srcs))
		for i, s := range srcs {
			plans[i] = Plan{Src: s, Dst: explicitDst}
		}
		return plans, nil
	}

	if explicitDst != "" {
		return []Plan{{Src: srcs[0], Dst: explicitDst}}, nil
	}

	plans := make([]Plan, 0, len(srcs))
	names := make([]string, 0, len(srcs))

	for _, s := range srcs {
		dir := outDir
		if mirrorRoot != "" {
			dir = mirrorDir(s, mirrorRoot)
		}

		var dst string
		if decode {
			derived, ok := pathsvc.DeriveDecompressedName(s, dir)
			if !ok {
				return nil, xerr.Wrapf(xerr.FormatError, "%s: unrecognized suffix, cannot derive a decompressed name", s)
			}
			dst = derived
		} else {
			dst = pathsvc.DeriveCompressedName(s, dir, suffix)
		}

		plans = append(plans, Plan{Src: s, Dst: dst})
		names = append(names, dst)
	}

	pathsvc.CheckFilenameCollisions(log, names)
	return plans, nil
}

// mirrorDir reproduces src's own directory under mirrorRoot, per
// output_dir_mirror (§4.9).
func mirrorDir(src, mirrorRoot string) string {
	return filepath.Join(mirrorRoot, filepath.Dir(src))
}
