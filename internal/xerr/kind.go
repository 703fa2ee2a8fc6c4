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

// Package xerr defines the error-kind taxonomy every engine component
// reports through, in place of the reference tool's EXM_THROW(exitCode, ...)
// macro: callers return a plain error wrapping one of these sentinels and
// test it with errors.Is, instead of a process exiting from deep inside a
// library call.
package xerr

import (
	"errors"
	"fmt"
)

// Kind is a sentinel error identifying one of the taxonomy buckets a
// component's failure falls into. It is never returned bare: it is always
// wrapped with context via Wrap/Wrapf so errors.Is(err, xerr.CodecError)
// keeps working after wrapping.
type Kind error

var (
	// ConfigError marks an incompatible preference combination, caught at
	// set time. Fatal: the process aborts rather than skipping a file.
	ConfigError Kind = errors.New("config error")

	// SrcOpenError marks a source file that could not be opened for this
	// job: stat failure, non-regular rejection, permission denied.
	SrcOpenError Kind = errors.New("source open error")

	// DstOpenError marks a destination file that could not be opened:
	// same-as-source, existing without overwrite, mkdir failure.
	DstOpenError Kind = errors.New("destination open error")

	// CodecError marks any error surfaced by the underlying codec library
	// mid-stream, including checksum mismatches on decode.
	CodecError Kind = errors.New("codec error")

	// IoError marks a short read, short write, or failed seek. Treated
	// identically to CodecError by the orchestrator's error tally.
	IoError Kind = errors.New("io error")

	// FormatError marks an unrecognized magic number with no pass-through
	// option available.
	FormatError Kind = errors.New("format error")

	// Truncation marks a read of 0 bytes mid-frame (concatenated stream
	// cut short).
	Truncation Kind = errors.New("truncated input")

	// Interrupt marks a SIGINT-driven abort; the artifact guard already
	// removed the in-progress destination by the time this is observed.
	Interrupt Kind = errors.New("interrupted")
)

// Wrap associates kind with err, producing an error that both
// errors.Is(result, kind) and errors.Is(result, err) succeed against.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, cause: err}
}

// Wrapf is Wrap with a formatted message instead of an existing error.
func Wrapf(kind Kind, format string, args ...any) error {
	return Wrap(kind, fmt.Errorf(format, args...))
}

type kindError struct {
	kind  Kind
	cause error
}

func (e *kindError) Error() string { return e.kind.Error() + ": " + e.cause.Error() }

func (e *kindError) Unwrap() []error { return []error{e.kind, e.cause} }

// Is reports whether target is this error's Kind, so errors.Is(err,
// xerr.CodecError) works without needing the exact wrapped instance.
func (e *kindError) Is(target error) bool {
	return target == e.kind
}
