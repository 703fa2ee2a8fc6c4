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

// Package prefs holds the batch-wide, mostly-immutable configuration bag
// (Preferences) and the mutable per-batch progress counters (Context) that
// every engine component reads from, per the specification's data model.
package prefs

// SparseMode selects whether decoded zero-runs are realized as file holes.
type SparseMode uint8

const (
	SparseDisabled SparseMode = iota
	SparseAuto
	SparseForced
)

// ProgressMode overrides the Display component's auto-detection of whether
// a progress bar makes sense for the current stdout/stderr wiring.
type ProgressMode uint8

const (
	ProgressAuto ProgressMode = iota
	ProgressAlways
	ProgressNever
)

// TriState distinguishes "let the codec decide" from an explicit yes/no,
// replacing the reference tool's NOTSET=9999 sentinel convention for
// boolean-shaped codec parameters.
type TriState uint8

const (
	TriDefault TriState = iota
	TriNo
	TriYes
)

// Optional holds a value the user may or may not have set explicitly. The
// zero Optional[T] means "not set" (library default applies), replacing the
// reference tool's NOTSET=9999 sentinel for numeric LDM/overlap parameters.
type Optional[T any] struct {
	set bool
	val T
}

// Set returns an Optional carrying v, marked as explicitly provided.
func Set[T any](v T) Optional[T] { return Optional[T]{set: true, val: v} }

// IsSet reports whether the value was explicitly provided.
func (o Optional[T]) IsSet() bool { return o.set }

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) { return o.val, o.set }

// GetOr returns the value if set, else def.
func (o Optional[T]) GetOr(def T) T {
	if o.set {
		return o.val
	}
	return def
}

// LDM groups the long-distance-matching tuning parameters, all optional.
type LDM struct {
	Flag          Optional[bool]
	HashLog       Optional[int]
	MinMatch      Optional[int]
	BucketSizeLog Optional[int]
	HashRateLog   Optional[int]
}

// Adapt groups the adaptive-level bounds used by the Compression Engine's
// §4.7.3 feedback loop.
type Adapt struct {
	Enabled bool
	Min     Optional[int]
	Max     Optional[int]
}

// CParams groups the low-level codec knobs that mirror the zstd library's
// advanced parameter set (§6's per-parameter setter contract).
type CParams struct {
	WindowLog         Optional[int]
	ChainLog          Optional[int]
	HashLog           Optional[int]
	SearchLog         Optional[int]
	MinMatch          Optional[int]
	TargetLength      Optional[int]
	Strategy          Optional[int]
	OverlapLog        Optional[int]
	BlockSize         Optional[int]
	LiteralCompMode   TriState
	UseRowMatchFinder TriState
	EnableDedicatedDictSearch bool
}
