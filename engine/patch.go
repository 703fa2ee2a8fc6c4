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

package engine

import (
	"math/bits"

	"github.com/nabbar/zcomp/internal/xerr"
	"github.com/nabbar/zcomp/prefs"
)

// btLazy2 mirrors the reference library's ZSTD_btlazy2 strategy ordinal:
// cycleLog subtracts one from chainLog when strategy is at or above this,
// per §4.7.4.
const btLazy2 = 6

// zstdMinWindowLog/zstdMaxWindowLog are klauspost/compress/zstd's own
// window-log bounds (mirroring the reference library's ZSTD_WINDOWLOG_MIN/
// ZSTD_WINDOWLOG_MAX), used to clamp the window_log a patch-from plan
// derives from the source size.
const (
	zstdMinWindowLog = 10
	zstdMaxWindowLog = 27
)

// patchFromChainLog/patchFromStrategy approximate the chain_log/strategy a
// real per-level ZSTD_getCParams lookup would supply. klauspost/compress/zstd
// exposes no public equivalent of that table, so PlanPatchFromPreferences
// uses the values the reference library's own table converges to at its
// highest levels (btultra2-class search depth), which is enough to decide
// EnableLDM without needing the real per-level numbers.
const (
	patchFromChainLog = 30
	patchFromStrategy = btLazy2
)

// PlanPatchFromPreferences resolves a §4.7.4 PatchPlan for one file: it
// converts Preferences.MemLimit and a concrete (maxSrcSize, dictSize) pair
// into a PlanPatchFrom call, approximating chain_log/strategy per the
// patchFromChainLog/patchFromStrategy comment above. Callers resolve
// maxSrcSize themselves (real file size, or Preferences.StreamSrcSize for
// stdin) and must reject patch-from before calling this when neither is
// known.
func PlanPatchFromPreferences(p *prefs.Preferences, maxSrcSize, dictSize uint64) (PatchPlan, error) {
	return PlanPatchFrom(maxSrcSize, dictSize, p.MemLimit, patchFromChainLog, patchFromStrategy, zstdMinWindowLog, zstdMaxWindowLog)
}

// PatchPlan is the resolved set of adjustments §4.7.4 makes to the encoder
// configuration when patch-from mode is active.
type PatchPlan struct {
	WindowLog int
	MemLimit  uint32
	EnableLDM bool
}

// highBit returns floor(log2(v)) for v>0; callers add 1 themselves to match
// the reference FIO_highbit usage ("file_window_log = highbit(size)+1").
func highBit(v uint64) int {
	if v == 0 {
		return 0
	}
	return bits.Len64(v) - 1
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// cycleLog returns chainLog adjusted down by one when strategy is at least
// btLazy2, per §4.7.4's "cycle_log = chain_log - (strategy >= btlazy2 ? 1 : 0)".
func cycleLog(chainLog, strategy int) int {
	if strategy >= btLazy2 {
		return chainLog - 1
	}
	return chainLog
}

// PlanPatchFrom computes the §4.7.4 adjustments for a patch-from run.
// maxSrcSize is the larger of the real source size and (if the source size
// is otherwise unknown, e.g. stdin) Preferences.StreamSrcSize; if neither
// is available the caller must reject patch-from before calling this (see
// Preferences.WithPatchFrom's documentation).
func PlanPatchFrom(maxSrcSize uint64, dictSize uint64, memLimit uint32, chainLog, strategy, codecMinWindowLog, codecMaxWindowLog int) (PatchPlan, error) {
	if maxSrcSize == 0 {
		return PatchPlan{}, xerr.Wrapf(xerr.ConfigError, "patch-from requires a known maximum source size")
	}

	fileWindowLog := highBit(maxSrcSize) + 1

	newMemLimit := uint64(memLimit)
	if dictSize > newMemLimit {
		newMemLimit = dictSize
	}
	if maxSrcSize > newMemLimit {
		newMemLimit = maxSrcSize
	}

	windowLog := clampInt(fileWindowLog, codecMinWindowLog, codecMaxWindowLog)

	enableLDM := fileWindowLog > cycleLog(chainLog, strategy)

	return PatchPlan{
		WindowLog: windowLog,
		MemLimit:  capToUint32(newMemLimit),
		EnableLDM: enableLDM,
	}, nil
}

func capToUint32(v uint64) uint32 {
	const max32 = 1<<32 - 1
	if v > max32 {
		return max32
	}
	return uint32(v)
}
