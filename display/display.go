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

// Package display is the level-gated console output and throttled progress
// bar component (§4.1). It replaces the reference tool's global DISPLAYLEVEL
// macro state with an explicit, constructed value threaded by the caller,
// per the specification's dependency-injection design note.
package display

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"

	"github.com/nabbar/zcomp/prefs"
)

// refreshInterval is the progress throttle: at most one refresh per tick
// unless the verbosity level is 4 or higher (§4.1).
const refreshInterval = time.Second / 6

// Display gates leveled messages to stderr and plain output to stdout, and
// throttles progress refreshes.
type Display struct {
	level int
	mode  prefs.ProgressMode
	isTTY bool

	out io.Writer
	err io.Writer

	mu   sync.Mutex
	last time.Time
}

// New returns a Display at the given 0..6 verbosity level. mode resolves
// progress visibility per §4.1/SPEC_FULL.md §C.2: Auto follows isTTY (the
// stderr-is-a-terminal check the CLI performs with golang.org/x/term),
// Always forces progress on, Never forces it off.
func New(level int, mode prefs.ProgressMode, isTTY bool) *Display {
	return &Display{
		level: level,
		mode:  mode,
		isTTY: isTTY,
		out:   os.Stdout,
		err:   os.Stderr,
	}
}

// progressEnabled resolves the effective on/off state for this run.
func (d *Display) progressEnabled() bool {
	switch d.mode {
	case prefs.ProgressAlways:
		return true
	case prefs.ProgressNever:
		return false
	default:
		return d.isTTY
	}
}

// Msg writes a leveled message to stderr, gated by lvl <= d.level, colored
// by severity the way the reference stack's console package tagged its
// output (warn=yellow, error=red).
func (d *Display) Msg(lvl int, format string, args ...any) {
	if lvl > d.level {
		return
	}
	line := fmt.Sprintf(format, args...)
	switch {
	case lvl <= 1:
		color.New(color.FgRed).Fprintln(d.err, line)
	case lvl == 2:
		color.New(color.FgYellow).Fprintln(d.err, line)
	default:
		fmt.Fprintln(d.err, line)
	}
}

// Print writes unconditionally to stdout (result data, not a log line).
func (d *Display) Print(format string, args ...any) {
	fmt.Fprintf(d.out, format, args...)
}

// Progress reports bytesDone out of bytesTotal (bytesTotal==0 means
// unknown) under label, throttled to refreshInterval unless the verbosity
// level is >=4, in which case every call is flushed immediately.
func (d *Display) Progress(label string, bytesDone, bytesTotal uint64) {
	if !d.progressEnabled() {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if d.level < 4 && now.Sub(d.last) < refreshInterval {
		return
	}
	d.last = now

	if bytesTotal > 0 {
		pct := float64(bytesDone) / float64(bytesTotal) * 100
		fmt.Fprintf(d.err, "\r%s: %.1f%% (%d/%d bytes)", label, pct, bytesDone, bytesTotal)
	} else {
		fmt.Fprintf(d.err, "\r%s: %d bytes", label, bytesDone)
	}
}

// ProgressDone emits the final newline that ends a progress line.
func (d *Display) ProgressDone() {
	if d.progressEnabled() {
		fmt.Fprintln(d.err)
	}
}

// LevelToHCLog maps the CLI's 0..6 verbosity counter onto an hclog level,
// so the same -v/-q count that gates Display also gates the shared
// internal/clog.Logger (SPEC_FULL.md §A.1).
func LevelToHCLog(level int) hclog.Level {
	switch {
	case level <= 0:
		return hclog.Error
	case level == 1:
		return hclog.Warn
	case level <= 3:
		return hclog.Info
	case level <= 5:
		return hclog.Debug
	default:
		return hclog.Trace
	}
}
