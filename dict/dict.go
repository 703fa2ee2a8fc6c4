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

// Package dict loads a dictionary file into memory, bounded by the run's
// memory limit, grounded on the reference tool's FIO_createDictBuffer.
package dict

import (
	"io"
	"os"

	"github.com/nabbar/zcomp/internal/xerr"
)

// Load reads path entirely into memory, capped at max bytes. An empty path
// returns a nil slice with no error (§4.5: "absent path" case). The file's
// size must be knowable up front (a regular file or equivalent); a short
// read against the observed size is fatal, matching the reference tool's
// treatment of a dictionary read as an unrecoverable setup error.
func Load(path string, max uint32) ([]byte, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, xerr.Wrap(xerr.ConfigError, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, xerr.Wrapf(xerr.ConfigError, "dictionary %s: size unknown: %v", path, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, xerr.Wrapf(xerr.ConfigError, "dictionary %s: size unknown (not a regular file)", path)
	}

	size := fi.Size()
	if size < 0 || uint64(size) > uint64(max) {
		return nil, xerr.Wrapf(xerr.ConfigError, "dictionary %s is too large (> %d bytes)", path, max)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, xerr.Wrapf(xerr.IoError, "dictionary %s: short read: %v", path, err)
	}

	return buf, nil
}
