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

// Command zcomp is the CLI front-end for the compression engine: compress,
// decompress, test, and list operations over zstd/gzip/xz/lzma/lz4, driven
// by spf13/cobra with spf13/viper backing a "~/.zcomprc" defaults overlay,
// per SPEC_FULL.md §A.3.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/nabbar/zcomp/display"
	"github.com/nabbar/zcomp/guard"
	"github.com/nabbar/zcomp/internal/clog"
	"github.com/nabbar/zcomp/prefs"
)

// globalFlags holds the persistent flag values shared by every subcommand,
// translated once into a prefs.Preferences per invocation (§A.3: "nothing
// downstream touches viper or cobra directly").
type globalFlags struct {
	level             int
	workers           int
	format            string
	overwrite         bool
	force             bool
	removeSrc         bool
	sparse            string
	long              int
	memory            int
	adaptMin          int
	adaptMax          int
	adaptive          bool
	patchFrom         string
	outputDirFlat     string
	outputDirMirror   string
	streamSize        int64
	excludeCompressed bool
	rsyncable         bool
	checksum          bool
	progress          string
	verbosity         int
	quiet             int
}

var flags globalFlags

// Execute builds the command tree and runs it, returning the process exit
// code (§6: 0 success, 1 per-file error, 2 interrupted).
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// exitCode is set by whichever subcommand ran, since cobra's RunE only
// reports error/no-error, not the §7 three-way exit taxonomy.
var exitCode int

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "zcomp",
		Short: "Stream files through zstd, gzip, xz, lzma, or lz4",
	}

	root.PersistentFlags().IntVarP(&flags.level, "level", "l", 3, "compression level")
	root.PersistentFlags().IntVarP(&flags.workers, "workers", "T", 0, "worker threads (0 = single-threaded)")
	root.PersistentFlags().StringVar(&flags.format, "format", "zstd", "compression format: zstd, gzip, xz, lzma, lz4")
	root.PersistentFlags().BoolVar(&flags.overwrite, "overwrite", false, "overwrite an existing destination")
	root.PersistentFlags().BoolVarP(&flags.force, "force", "f", false, "like --overwrite, also allow block devices as sources")
	root.PersistentFlags().BoolVar(&flags.removeSrc, "rm", false, "remove the source file after success")
	root.PersistentFlags().StringVar(&flags.sparse, "sparse", "auto", "sparse file writing: auto, always, never")
	root.PersistentFlags().IntVar(&flags.long, "long", 0, "decode: raise the memory limit to a 2^N window (long-distance matching is not applied when compressing)")
	root.PersistentFlags().IntVar(&flags.memory, "memory", 0, "decoder memory limit in MiB (0 = default)")
	root.PersistentFlags().BoolVar(&flags.adaptive, "adapt", false, "adapt compression level to the destination's throughput")
	root.PersistentFlags().IntVar(&flags.adaptMin, "adapt-min", 0, "adapt: minimum level (0 = no bound)")
	root.PersistentFlags().IntVar(&flags.adaptMax, "adapt-max", 0, "adapt: maximum level (0 = no bound)")
	root.PersistentFlags().StringVar(&flags.patchFrom, "patch-from", "", "reference file for dictionary-style patch compression")
	root.PersistentFlags().StringVar(&flags.outputDirFlat, "output-dir-flat", "", "write every output into this directory, flattened")
	root.PersistentFlags().StringVar(&flags.outputDirMirror, "output-dir-mirror", "", "write outputs under this directory, mirroring source paths")
	root.PersistentFlags().Int64Var(&flags.streamSize, "stream-size", 0, "pledged size in bytes for a stdin source")
	root.PersistentFlags().BoolVar(&flags.excludeCompressed, "exclude-compressed", false, "skip sources already bearing a known compressed suffix")
	root.PersistentFlags().BoolVar(&flags.rsyncable, "rsyncable", false, "record the rsyncable preference (requires --workers > 0; no encoder applies it)")
	root.PersistentFlags().BoolVar(&flags.checksum, "check", true, "embed a content checksum")
	root.PersistentFlags().StringVar(&flags.progress, "progress", "auto", "progress bar: auto, always, never")
	root.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", "increase verbosity (repeatable)")
	root.PersistentFlags().CountVarP(&flags.quiet, "quiet", "q", "decrease verbosity (repeatable)")

	viper.SetEnvPrefix("ZCOMP")
	viper.AutomaticEnv()
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetConfigName(".zcomprc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(home)
		_ = viper.ReadInConfig()
	}
	_ = viper.BindPFlags(root.PersistentFlags())

	root.AddCommand(newCompressCmd())
	root.AddCommand(newDecompressCmd())
	root.AddCommand(newTestCmd())
	root.AddCommand(newListCmd())

	return root
}

// buildPreferences translates the resolved flag state into Preferences,
// §A.3's one-shot boundary between the CLI layer and the engine.
func buildPreferences(decode bool) (*prefs.Preferences, error) {
	p := prefs.New()
	alg, err := parseFormat(flags.format)
	if err != nil {
		return nil, err
	}
	p.Format = alg
	p.Level = flags.level
	p.Overwrite = flags.overwrite || flags.force
	p.AllowBlockDevices = flags.force
	p.RemoveSrc = flags.removeSrc
	p.ExcludeCompressed = flags.excludeCompressed
	p.Checksum = flags.checksum

	if err := p.WithWorkers(flags.workers); err != nil {
		return nil, err
	}
	if flags.adaptive {
		min, max := prefs.Optional[int]{}, prefs.Optional[int]{}
		if flags.adaptMin != 0 {
			min = prefs.Set(flags.adaptMin)
		}
		if flags.adaptMax != 0 {
			max = prefs.Set(flags.adaptMax)
		}
		if err := p.WithAdaptive(true, min, max); err != nil {
			return nil, err
		}
	}
	if err := p.WithRsyncable(flags.rsyncable); err != nil {
		return nil, err
	}
	if flags.streamSize > 0 {
		if err := p.WithSrcSizeHint(uint64(flags.streamSize)); err != nil {
			return nil, err
		}
		p.StreamSrcSize = prefs.Set(uint64(flags.streamSize))
	}
	if flags.patchFrom != "" {
		if err := p.WithPatchFrom(true); err != nil {
			return nil, err
		}
	}
	if flags.memory > 0 {
		p.MemLimit = uint32(flags.memory) << 20
	}
	if decode && flags.long > 0 && flags.long <= 31 {
		if w := uint32(1) << uint(flags.long); w > p.MemLimit {
			p.MemLimit = w
		}
	}

	p.WithSparse(resolveSparseMode(flags.sparse), false)
	p.Progress = resolveProgressMode(flags.progress)
	return p, nil
}

func resolveSparseMode(s string) prefs.SparseMode {
	switch s {
	case "always":
		return prefs.SparseForced
	case "never":
		return prefs.SparseDisabled
	default:
		return prefs.SparseAuto
	}
}

func resolveProgressMode(s string) prefs.ProgressMode {
	switch s {
	case "always":
		return prefs.ProgressAlways
	case "never":
		return prefs.ProgressNever
	default:
		return prefs.ProgressAuto
	}
}

// newLogger builds the root logger from the resolved -v/-q verbosity count
// (§A.1).
func newLogger() (clog.Logger, *display.Display) {
	level := flags.verbosity - flags.quiet + 2
	disp := display.New(level, resolveProgressMode(flags.progress), isStderrTTY())
	hlevel := display.LevelToHCLog(level)
	return clog.New(os.Stderr, hclog.Level(hlevel)), disp
}

// isStderrTTY backs the §C.2 "auto" progress/display resolution.
func isStderrTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func newGuard(log clog.Logger) *guard.Guard {
	return guard.New(log, func(code int) {
		os.Exit(code)
	})
}
