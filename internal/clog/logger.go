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

// Package clog wraps hashicorp/go-hclog behind a small interface so the
// engine threads a logger explicitly through constructors instead of
// reaching for a package-level global, per the dependency-injection note in
// the specification's design notes.
package clog

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Logger is the subset of hclog.Logger the engine packages consume.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Named(name string) Logger
	With(args ...any) Logger
	IsDebug() bool
}

type logger struct {
	hclog.Logger
}

// New builds a root logger named "zcomp" writing to w at the given hclog
// level. level is usually derived once from the CLI's -v/-q verbosity
// count (see display.LevelToHCLog).
func New(w io.Writer, level hclog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &logger{hclog.New(&hclog.LoggerOptions{
		Name:  "zcomp",
		Level: level,
		Output: w,
	})}
}

// Discard returns a logger that drops everything, used by tests and by
// library callers who do not want console output.
func Discard() Logger {
	return &logger{hclog.NewNullLogger()}
}

func (l *logger) Named(name string) Logger { return &logger{l.Logger.Named(name)} }

func (l *logger) With(args ...any) Logger { return &logger{l.Logger.With(args...)} }

func (l *logger) IsDebug() bool { return l.Logger.IsDebug() }
