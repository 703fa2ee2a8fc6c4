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

package prefs

import (
	"math"

	"github.com/nabbar/zcomp/format"
	"github.com/nabbar/zcomp/internal/xerr"
)

// DictSizeMax bounds a loaded (non patch-from) dictionary at 32 MiB, per
// §4.5.
const DictSizeMax = 32 << 20

// Preferences is the user-configurable, read-mostly bag threaded through a
// batch run. Build one with New and adjust it through the With* setters,
// each of which validates cross-field invariants immediately (§3's
// invariant list) instead of deferring to run time.
type Preferences struct {
	Format format.Algorithm

	Overwrite           bool
	RemoveSrc           bool
	TestMode            bool
	AllowBlockDevices   bool
	ExcludeCompressed   bool

	Sparse SparseMode

	Checksum    bool
	DictID      bool
	ContentSize bool

	MemLimit uint32

	Workers int

	BlockSize  Optional[int]
	OverlapLog Optional[int]
	LDM        LDM

	Adaptive Adapt

	Rsyncable         bool
	StreamSrcSize     Optional[uint64]
	TargetCBlockSize  Optional[uint64]
	SrcSizeHint       Optional[uint32]

	LiteralCompressionMode TriState
	UseRowMatchFinder      TriState

	PatchFrom bool

	Progress ProgressMode
	Level    int
}

// New returns Preferences at the library's defaults: zstd format, level 3,
// sparse auto, single-threaded, progress auto.
func New() *Preferences {
	return &Preferences{
		Format:   format.Zstd,
		Sparse:   SparseAuto,
		Level:    3,
		Progress: ProgressAuto,
		MemLimit: DictSizeMax,
	}
}

// WithWorkers sets the worker count. Per §3's invariant, enabling adaptive
// or rsyncable with workers==0 is a ConfigError, so this setter rejects
// dropping workers to 0 while either is already on, and the Adaptive/
// Rsyncable setters reject turning either on while workers==0.
func (p *Preferences) WithWorkers(n int) error {
	if n == 0 && (p.Adaptive.Enabled || p.Rsyncable) {
		return xerr.Wrapf(xerr.ConfigError, "workers=0 is incompatible with adaptive or rsyncable mode")
	}
	p.Workers = n
	return nil
}

// WithAdaptive enables adaptive level control within [min, max]. Requires
// workers > 0 (§3 invariant).
func (p *Preferences) WithAdaptive(enabled bool, min, max Optional[int]) error {
	if enabled && p.Workers == 0 {
		return xerr.Wrapf(xerr.ConfigError, "adaptive compression requires workers > 0")
	}
	if lo, ok := min.Get(); ok {
		if hi, ok2 := max.Get(); ok2 && lo > hi {
			return xerr.Wrapf(xerr.ConfigError, "adapt min (%d) exceeds adapt max (%d)", lo, hi)
		}
	}
	p.Adaptive = Adapt{Enabled: enabled, Min: min, Max: max}
	return nil
}

// WithRsyncable records the rsync-friendly chunk boundary preference.
// Requires workers > 0 (§3 invariant). No encoder in the engine package
// reads Rsyncable.
func (p *Preferences) WithRsyncable(enabled bool) error {
	if enabled && p.Workers == 0 {
		return xerr.Wrapf(xerr.ConfigError, "rsyncable mode requires workers > 0")
	}
	p.Rsyncable = enabled
	return nil
}

// WithSparse resolves sparse_mode against the destination: auto degrades
// silently to disabled when writing to stdout, per §3.
func (p *Preferences) WithSparse(mode SparseMode, dstIsStdout bool) {
	if mode == SparseAuto && dstIsStdout {
		mode = SparseDisabled
	}
	p.Sparse = mode
}

// WithSrcSizeHint stores the hint, rejecting values that would not fit a
// signed 32-bit int rather than silently truncating, per the specification's
// explicit resolution of this ambiguity (DESIGN.md "src_size_hint clamp").
func (p *Preferences) WithSrcSizeHint(v uint64) error {
	if v > math.MaxInt32 {
		return xerr.Wrapf(xerr.ConfigError, "src-size-hint %d exceeds the maximum representable hint (%d)", v, math.MaxInt32)
	}
	p.SrcSizeHint = Set(uint32(v))
	return nil
}

// WithPatchFrom enables patch-from mode. Whether a max source size is
// actually available (real file size, or StreamSrcSize for stdin) is
// checked per-file at compress time (see engine.PlanPatchFromPreferences
// and job.Orchestrator.CompressOne), since a batch can mix stdin with
// regular files.
func (p *Preferences) WithPatchFrom(enabled bool) error {
	p.PatchFrom = enabled
	return nil
}

// DictCap returns the maximum dictionary size this run accepts: MemLimit
// when patch-from is active, else the fixed 32 MiB ceiling (§4.5).
func (p *Preferences) DictCap() uint32 {
	if p.PatchFrom {
		return p.MemLimit
	}
	return DictSizeMax
}
