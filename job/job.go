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

// Package job is the Job Orchestrator (§4.9): it drives one file at a time
// through open-src/open-dst/invoke-engine/close/finalize, ties that into the
// signal guard, and tallies batch-wide success/failure into a process exit
// code, grounded on the reference tool's FIO_compressFilename /
// FIO_decompressFilename.
package job

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/nabbar/zcomp/decomp"
	"github.com/nabbar/zcomp/display"
	"github.com/nabbar/zcomp/engine"
	"github.com/nabbar/zcomp/format"
	"github.com/nabbar/zcomp/guard"
	"github.com/nabbar/zcomp/internal/clog"
	"github.com/nabbar/zcomp/internal/xerr"
	"github.com/nabbar/zcomp/pathsvc"
	"github.com/nabbar/zcomp/prefs"
	"github.com/nabbar/zcomp/sparse"
)

// StdinSentinel and StdoutSentinel are the conventional "-" path names that
// redirect a job's source/destination to the process's standard streams.
const (
	StdinSentinel  = "-"
	StdoutSentinel = "-"
)

// Outcome reports what happened to one file.
type Outcome struct {
	Src      string
	Dst      string
	Skipped  bool
	Reason   string
	BytesIn  uint64
	BytesOut uint64
}

// Orchestrator drives a batch of files through the engine using a shared
// Preferences, dictionary buffer, and signal guard.
type Orchestrator struct {
	log   clog.Logger
	disp  *display.Display
	pref  *prefs.Preferences
	guard *guard.Guard
	dict  []byte
	ctx   *prefs.Context
}

// New returns an Orchestrator for a batch of fileCount inputs.
func New(log clog.Logger, disp *display.Display, p *prefs.Preferences, g *guard.Guard, dictBuf []byte, fileCount int) *Orchestrator {
	return &Orchestrator{log: log, disp: disp, pref: p, guard: g, dict: dictBuf, ctx: prefs.NewContext(fileCount)}
}

// Context returns the batch progress counters, updated after every file.
func (o *Orchestrator) Context() *prefs.Context { return o.ctx }

// CompressOne runs the full §4.9 per-file compress lifecycle for src,
// writing to the derived or explicit dst.
func (o *Orchestrator) CompressOne(src, dst string) Outcome {
	if fi, err := os.Stat(src); err == nil && fi.IsDir() {
		o.log.Warn("skipping directory", "src", src)
		return Outcome{Src: src, Skipped: true, Reason: "source is a directory"}
	}

	if o.pref.ExcludeCompressed && pathsvc.IsKnownCompressedSuffix(src) {
		return Outcome{Src: src, Skipped: true, Reason: "already compressed"}
	}

	if sameFile(src, dst) {
		o.log.Error("refusing to overwrite source with destination", "path", src)
		return Outcome{Src: src, Skipped: true, Reason: "source and destination are the same file"}
	}

	srcFile, srcSize, err := o.openSrc(src)
	if err != nil {
		o.log.Error("cannot open source", "src", src, "error", err)
		return Outcome{Src: src, Skipped: true, Reason: err.Error()}
	}
	if srcFile != os.Stdin {
		defer srcFile.Close()
	}

	dstFile, isStdout, err := o.openDst(dst)
	if err != nil {
		o.log.Error("cannot open destination", "dst", dst, "error", err)
		return Outcome{Src: src, Skipped: true, Reason: err.Error()}
	}

	if !isStdout {
		o.guard.Register(dst)
	}

	var (
		res engine.Result
		cp  prefs.CParams
	)
	if o.pref.Format == format.Zstd {
		if o.pref.PatchFrom {
			maxSrcSize := srcSize
			if maxSrcSize < 0 {
				if v, ok := o.pref.StreamSrcSize.Get(); ok {
					maxSrcSize = int64(v)
				}
			}
			if maxSrcSize <= 0 {
				o.closeSkippedDst(dstFile, dst, isStdout)
				o.log.Error("patch-from requires a known source size", "src", src)
				return Outcome{Src: src, Dst: dst, Skipped: true, Reason: "patch-from requires a known maximum source size (use --stream-size for stdin)"}
			}
			plan, perr := engine.PlanPatchFromPreferences(o.pref, uint64(maxSrcSize), uint64(len(o.dict)))
			if perr != nil {
				o.closeSkippedDst(dstFile, dst, isStdout)
				o.log.Error("patch-from planning failed", "src", src, "error", perr)
				return Outcome{Src: src, Dst: dst, Skipped: true, Reason: perr.Error()}
			}
			cp.WindowLog = prefs.Set(plan.WindowLog)
			o.log.Debug("patch-from plan", "window_log", plan.WindowLog, "mem_limit", plan.MemLimit, "long_distance_matching", plan.EnableLDM)
		}
		res, err = engine.CompressZstd(o.log, o.disp, o.pref, cp, o.dict, o.pref.Level, srcFile, dstFile, srcSize)
	} else {
		res, err = engine.WriteAux(o.pref.Format, o.pref.Level, srcFile, dstFile, srcSize)
	}

	closeErr := dstFile.Close()
	if !isStdout {
		o.guard.Clear()
	}

	if err != nil || (closeErr != nil && !isStdout) {
		if !isStdout {
			_ = os.Remove(dst)
		}
		if err == nil {
			err = xerr.Wrap(xerr.IoError, closeErr)
		}
		o.log.Error("compress failed", "src", src, "error", err)
		o.ctx.Advance(res.BytesIn, 0)
		return Outcome{Src: src, Dst: dst, Skipped: true, Reason: err.Error(), BytesIn: res.BytesIn}
	}

	if !isStdout {
		transferMetadata(src, dst)
		if o.pref.RemoveSrc && srcFile != os.Stdin {
			_ = os.Remove(src)
		}
	}

	o.ctx.Advance(res.BytesIn, res.BytesOut)
	return Outcome{Src: src, Dst: dst, BytesIn: res.BytesIn, BytesOut: res.BytesOut}
}

// DecompressOne runs the full §4.9 per-file decompress lifecycle for src.
// testMode discards output to io.Discard instead of writing dst (the `test`
// CLI operation, §6).
func (o *Orchestrator) DecompressOne(src, dst string, testMode bool) Outcome {
	if fi, err := os.Stat(src); err == nil && fi.IsDir() {
		o.log.Warn("skipping directory", "src", src)
		return Outcome{Src: src, Skipped: true, Reason: "source is a directory"}
	}

	if sameFile(src, dst) && !testMode {
		o.log.Error("refusing to overwrite source with destination", "path", src)
		return Outcome{Src: src, Skipped: true, Reason: "source and destination are the same file"}
	}

	srcFile, _, err := o.openSrc(src)
	if err != nil {
		o.log.Error("cannot open source", "src", src, "error", err)
		return Outcome{Src: src, Skipped: true, Reason: err.Error()}
	}
	if srcFile != os.Stdin {
		defer srcFile.Close()
	}

	var (
		dstFile  io.WriteSeeker
		isStdout bool
		realDst  *os.File
	)
	if testMode {
		dstFile = discardSeeker{}
	} else {
		realDst, isStdout, err = o.openDst(dst)
		if err != nil {
			o.log.Error("cannot open destination", "dst", dst, "error", err)
			return Outcome{Src: src, Skipped: true, Reason: err.Error()}
		}
		dstFile = realDst
		if !isStdout {
			o.guard.Register(dst)
		}
	}

	sparseEnabled := o.pref.Sparse == prefs.SparseForced || (o.pref.Sparse == prefs.SparseAuto && !isStdout && !testMode)
	sw := sparse.New(dstFile, sparseEnabled)

	var maxWindow uint64
	if o.pref.MemLimit > 0 {
		maxWindow = uint64(o.pref.MemLimit)
	}

	// §4.8.1 restricts unrecognized-data pass-through to overwrite mode AND
	// a stdout destination; elsewhere unrecognized input is always a
	// FormatError, even with --overwrite set.
	allowPass := o.pref.Overwrite && isStdout
	res, derr := decomp.Decode(o.log, o.pref, o.dict, bufio.NewReader(srcFile), sw, allowPass, maxWindow)

	var closeErr error
	if realDst != nil {
		closeErr = realDst.Close()
	}
	if !testMode && !isStdout {
		o.guard.Clear()
	}

	if derr != nil || (closeErr != nil && !testMode && !isStdout) {
		if !testMode && !isStdout {
			_ = os.Remove(dst)
		}
		if derr == nil {
			derr = xerr.Wrap(xerr.IoError, closeErr)
		}
		o.log.Error("decompress failed", "src", src, "error", derr)
		o.ctx.Advance(res.BytesIn, 0)
		return Outcome{Src: src, Dst: dst, Skipped: true, Reason: derr.Error(), BytesIn: res.BytesIn}
	}

	if !testMode && !isStdout {
		transferMetadata(src, dst)
		if o.pref.RemoveSrc && srcFile != os.Stdin {
			_ = os.Remove(src)
		}
	}

	o.ctx.Advance(res.BytesIn, res.BytesOut)
	return Outcome{Src: src, Dst: dst, BytesIn: res.BytesIn, BytesOut: res.BytesOut}
}

// ExitCode ORs a batch's per-file outcomes into the process exit code
// (§6/§7): 0 when every file succeeded, 1 if any file was skipped or
// errored. Interrupt handling bypasses this entirely via guard.ExitInterrupted.
func ExitCode(outcomes []Outcome) int {
	for _, o := range outcomes {
		if o.Skipped {
			return 1
		}
	}
	return 0
}

// openSrc resolves the stdin sentinel or opens src as a regular file, FIFO,
// or (if AllowBlockDevices) a block device, per §4.9. It returns the
// pledged size when known (regular file size, or StreamSrcSize for stdin),
// -1 otherwise.
func (o *Orchestrator) openSrc(src string) (*os.File, int64, error) {
	if src == StdinSentinel {
		size := int64(-1)
		if v, ok := o.pref.StreamSrcSize.Get(); ok {
			size = int64(v)
		}
		return os.Stdin, size, nil
	}

	fi, err := os.Stat(src)
	if err != nil {
		return nil, -1, xerr.Wrap(xerr.SrcOpenError, err)
	}

	mode := fi.Mode()
	isBlockDevice := mode&os.ModeDevice != 0 && mode&os.ModeCharDevice == 0
	if !mode.IsRegular() && mode&os.ModeNamedPipe == 0 {
		if !(isBlockDevice && o.pref.AllowBlockDevices) {
			return nil, -1, xerr.Wrapf(xerr.SrcOpenError, "%s is not a regular file, FIFO, or allowed block device", src)
		}
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, -1, xerr.Wrap(xerr.SrcOpenError, err)
	}

	size := int64(-1)
	if mode.IsRegular() {
		size = fi.Size()
	}
	return f, size, nil
}

// openDst resolves the stdout sentinel or creates dst, refusing an existing
// file unless Overwrite is set, per §4.9.
func (o *Orchestrator) openDst(dst string) (*os.File, bool, error) {
	if dst == StdoutSentinel {
		return os.Stdout, true, nil
	}

	if _, err := os.Stat(dst); err == nil && !o.pref.Overwrite {
		return nil, false, xerr.Wrapf(xerr.DstOpenError, "%s already exists (use --overwrite)", dst)
	}

	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, false, xerr.Wrap(xerr.DstOpenError, err)
		}
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, false, xerr.Wrap(xerr.DstOpenError, err)
	}
	return f, false, nil
}

// closeSkippedDst unwinds an already-opened destination when a file is
// rejected before the engine ever ran, mirroring the cleanup CompressOne's
// engine-error path otherwise performs.
func (o *Orchestrator) closeSkippedDst(dstFile *os.File, dst string, isStdout bool) {
	_ = dstFile.Close()
	if !isStdout {
		o.guard.Clear()
		_ = os.Remove(dst)
	}
}

// sameFile reports whether src and dst name the identical on-disk file,
// guarding against a self-overwrite (§4.9, §8's self-overwrite-refusal
// property). Sentinel paths never alias a real file.
func sameFile(src, dst string) bool {
	if src == StdinSentinel || dst == StdoutSentinel || src == "" || dst == "" {
		return false
	}
	si, err1 := os.Stat(src)
	di, err2 := os.Stat(dst)
	if err1 != nil || err2 != nil {
		return false
	}
	return os.SameFile(si, di)
}

// transferMetadata copies src's mtime and mode onto dst after a successful
// run, per §4.9. Failures here are non-fatal (logged at trace by the
// caller's discretion, ignored here, mirroring the reference tool's
// best-effort chmod/utime calls).
func transferMetadata(src, dst string) {
	fi, err := os.Stat(src)
	if err != nil {
		return
	}
	_ = os.Chmod(dst, fi.Mode().Perm())
	_ = os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}

// discardSeeker adapts io.Discard into the io.WriteSeeker sparse.Writer
// requires, for the `test` operation's decode-without-persisting mode.
type discardSeeker struct{}

func (discardSeeker) Write(p []byte) (int, error)          { return len(p), nil }
func (discardSeeker) Seek(int64, int) (int64, error) { return 0, nil }
