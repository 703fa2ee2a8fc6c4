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

// Package guard is the process-wide signal/artifact guard: it remembers
// the path of the destination file currently being written so a SIGINT can
// delete the partial artifact before the process exits, per §4.2. The
// guarded path itself lives in a lock-free atomic.Value so the signal
// handler goroutine never contends with the engine's write path.
package guard

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nabbar/zcomp/atomic"
	"github.com/nabbar/zcomp/internal/clog"
)

// ExitInterrupted is the process exit code used after a SIGINT-driven
// artifact cleanup, per §6.
const ExitInterrupted = 2

// Guard holds at most one in-progress destination path and installs a
// SIGINT handler for the lifetime of that registration.
type Guard struct {
	log  clog.Logger
	path atomic.Value[string]

	mu      sync.Mutex
	sigCh   chan os.Signal
	active  bool
	onExit  func(code int)
}

// New returns a Guard. onExit defaults to os.Exit when nil; tests inject a
// recorder instead so SIGINT handling can be exercised without killing the
// test binary.
func New(log clog.Logger, onExit func(code int)) *Guard {
	if log == nil {
		log = clog.Discard()
	}
	if onExit == nil {
		onExit = os.Exit
	}
	g := &Guard{log: log, onExit: onExit}
	g.path = atomic.NewValue[string]()
	return g
}

// Register sets path as the artifact in progress and installs the SIGINT
// handler, iff path currently names a regular file. Calling Register again
// replaces the previously guarded path.
func (g *Guard) Register(path string) {
	if fi, err := os.Stat(path); err != nil || !fi.Mode().IsRegular() {
		return
	}

	g.path.Store(path)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active {
		return
	}
	g.active = true
	g.sigCh = make(chan os.Signal, 1)
	signal.Notify(g.sigCh, syscall.SIGINT)
	go g.wait()
}

// Clear uninstalls the handler and forgets the guarded path. Idempotent.
func (g *Guard) Clear() {
	g.path.Store("")

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.active {
		return
	}
	g.active = false
	signal.Stop(g.sigCh)
	close(g.sigCh)
	g.sigCh = nil
}

func (g *Guard) wait() {
	g.mu.Lock()
	ch := g.sigCh
	g.mu.Unlock()
	if ch == nil {
		return
	}

	if _, ok := <-ch; !ok {
		return
	}

	path := g.path.Load()
	if path != "" {
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			_ = os.Remove(path)
		}
	}
	g.log.Warn("interrupted, partial artifact removed", "path", path)
	os.Stdout.WriteString("\n")
	g.onExit(ExitInterrupted)
}
