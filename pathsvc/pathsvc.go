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

// Package pathsvc derives destination file names for compress/decompress
// operations and flags filename collisions within a batch, grounded on the
// reference tool's FIO_determineCompressedFilename / FIO_determineDstName.
package pathsvc

import (
	"path"
	"strings"

	"github.com/nabbar/zcomp/format"
	"github.com/nabbar/zcomp/internal/clog"
)

// tarShorthand maps a short decode suffix to the ".tar" stem it implies
// (§4.3: ".tgz"/".txz"/".tzst"/".tlz4" additionally append ".tar").
var tarShorthand = map[string]bool{
	".tzst": true,
	".tgz":  true,
	".txz":  true,
	".tlz4": true,
}

// suffixAlgorithm is the recognized decode suffix table, ordered the way
// the reference tool's suffixList is (zstd's own suffixes first).
var suffixAlgorithm = []struct {
	suffix string
	alg    format.Algorithm
}{
	{".zst", format.Zstd},
	{".tzst", format.Zstd},
	{".gz", format.Gzip},
	{".tgz", format.Gzip},
	{".xz", format.Xz},
	{".txz", format.Xz},
	{".lzma", format.Lzma},
	{".lz4", format.LZ4},
	{".tlz4", format.LZ4},
}

// basename extracts the final path component of p, accepting both '/' and
// '\' as separators so the derivation behaves the same when fed a path
// produced on a different platform (§4.3).
func basename(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return path.Base(p)
}

// DeriveCompressedName returns "[outDir/]basename(src)+suffix". When outDir
// is non-empty the source's own directory is dropped entirely, so no part
// of src's path leaks into the destination beyond its basename.
func DeriveCompressedName(src, outDir, suffix string) string {
	base := basename(src) + suffix
	if outDir == "" {
		return path.Join(path.Dir(strings.ReplaceAll(src, "\\", "/")), base)
	}
	return path.Join(outDir, base)
}

// DeriveDecompressedName strips one recognized suffix from src and returns
// it with ok=true, or ok=false if src's suffix is not recognized. Short
// forms (.tgz, .txz, .tzst, .tlz4) additionally append ".tar" to the
// stripped stem.
func DeriveDecompressedName(src, outDir string) (string, bool) {
	normalized := strings.ReplaceAll(src, "\\", "/")
	base := path.Base(normalized)

	for _, entry := range suffixAlgorithm {
		if !strings.HasSuffix(base, entry.suffix) {
			continue
		}
		stem := strings.TrimSuffix(base, entry.suffix)
		if stem == "" {
			continue
		}
		if tarShorthand[entry.suffix] {
			stem += ".tar"
		}
		if outDir != "" {
			return path.Join(outDir, stem), true
		}
		return path.Join(path.Dir(normalized), stem), true
	}
	return "", false
}

// IsKnownCompressedSuffix reports whether src ends in a recognized
// compressed suffix (including tar shorthands), used by the Job
// Orchestrator's exclude_compressed skip (§4.9).
func IsKnownCompressedSuffix(src string) bool {
	base := basename(src)
	for _, entry := range suffixAlgorithm {
		if strings.HasSuffix(base, entry.suffix) {
			return true
		}
	}
	return false
}

// CheckFilenameCollisions warns (non-fatal) on duplicate destination
// basenames within a batch, e.g. "a/x.txt" and "b/x.txt" both compressing
// to "x.txt.zst" in a flattened output directory.
func CheckFilenameCollisions(log clog.Logger, names []string) {
	seen := make(map[string]string, len(names))
	for _, n := range names {
		b := basename(n)
		if prev, ok := seen[b]; ok {
			log.Warn("filename collision", "basename", b, "first", prev, "second", n)
			continue
		}
		seen[b] = n
	}
}
