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

package engine

import "github.com/nabbar/zcomp/prefs"

// Progression mirrors the six codec-reported counters §4.7.3 names
// (ZSTD_frameProgression in the reference library): ingested/consumed/
// produced/flushed byte totals plus the current job id and active worker
// count. klauspost/compress/zstd does not expose an equivalent counter
// set for a running Encoder, so the compression loop (see compress.go)
// synthesizes this snapshot itself from the bytes it has read from src and
// written to dst — an approximation documented in DESIGN.md, but one that
// keeps the §4.7.3 classification logic below testable in isolation against
// exactly the counter semantics the specification describes.
type Progression struct {
	Ingested      uint64
	Consumed      uint64
	Produced      uint64
	Flushed       uint64
	CurrentJobID  int
	ActiveWorkers int
}

// tick is the per-adaptive-tick bookkeeping the controller resets at the
// end of every Tick, whether or not the level changed.
type tick struct {
	inputBlocked   uint64
	inputPresented uint64
	flushWaiting   bool
}

// Controller runs the §4.7.3 adaptive level feedback loop: classify the
// latest Progression snapshot against two remembered baselines, decide
// slower/faster, and clamp the resulting level.
type Controller struct {
	enabled bool
	workers int

	min, max int // already intersected with the codec's own [min,max] by the caller

	level int

	prevUpdate     Progression
	prevCorrection Progression
	lastJobID      int

	cur tick
}

// NewController builds a Controller. codecMin/codecMax are the codec
// library's own level bounds; the effective range is the intersection of
// those with Preferences.Adaptive.Min/Max (§4.7.3).
func NewController(p *prefs.Preferences, startLevel, codecMin, codecMax int) *Controller {
	lo := codecMin
	if v, ok := p.Adaptive.Min.Get(); ok && v > lo {
		lo = v
	}
	hi := codecMax
	if v, ok := p.Adaptive.Max.Get(); ok && v < hi {
		hi = v
	}
	return &Controller{
		enabled: p.Adaptive.Enabled && p.Workers > 0,
		workers: p.Workers,
		min:     lo,
		max:     hi,
		level:   startLevel,
	}
}

// Enabled reports whether adaptive control is active for this run (§4.7.3:
// "Only active when adaptive is set and workers>0").
func (c *Controller) Enabled() bool { return c.enabled }

// Level returns the controller's current level.
func (c *Controller) Level() int { return c.level }

// NoteInputPresented accumulates a tick's input-side bookkeeping: how many
// bytes were offered to the encoder (inputPresented) and how many of those
// were blocked behind a full buffer (inputBlocked), feeding the "Faster"
// classification's balanced-pipeline branch.
func (c *Controller) NoteInputPresented(presented, blocked uint64) {
	c.cur.inputPresented += presented
	c.cur.inputBlocked += blocked
}

// NoteFlushWaiting records that a flush-waiting event was observed since
// the last tick (used by the "Slower" classification's outrun branch).
func (c *Controller) NoteFlushWaiting() { c.cur.flushWaiting = true }

// clampSkipZero clamps v to [c.min, c.max], then nudges away from 0 (the
// codec reserves level 0 for "use the library default", per §4.7.3).
func (c *Controller) clampSkipZero(v int) int {
	if v < c.min {
		v = c.min
	}
	if v > c.max {
		v = c.max
	}
	if v == 0 {
		if c.level > 0 {
			v = 1
		} else {
			v = -1
		}
	}
	return v
}

// Tick classifies cur against the remembered baselines and returns the new
// level (which may equal the old one). It is a no-op returning the current
// level unchanged if Enabled() is false.
func (c *Controller) Tick(cur Progression) int {
	if !c.enabled {
		return c.level
	}

	if classifySlower(c.prevUpdate, cur, c.cur.flushWaiting) {
		c.level = c.clampSkipZero(c.level + 1)
	} else if cur.CurrentJobID != c.lastJobID && classifyFaster(c.prevCorrection, cur, c.workers, c.cur.inputBlocked, c.cur.inputPresented) {
		c.level = c.clampSkipZero(c.level - 1)
	}

	c.prevUpdate = cur
	if cur.CurrentJobID != c.lastJobID {
		c.prevCorrection = cur
		c.lastJobID = cur.CurrentJobID
	}
	c.cur = tick{}

	return c.level
}

// classifySlower implements §4.7.3's "Slower" branch: compression should
// increment its level when either the pipeline is truly stuck (no
// consumption progress and no active worker), or the encoder is outrunning
// the sink (produced keeps climbing well past what's been flushed) without
// having seen a flush-waiting event since the last tick.
func classifySlower(prev, cur Progression, flushWaitingSeen bool) bool {
	stuck := cur.Consumed == prev.Consumed && cur.ActiveWorkers == 0
	newlyProduced := cur.Produced - prev.Produced
	newlyFlushed := cur.Flushed - prev.Flushed
	outrunning := newlyProduced*8 > newlyFlushed*9 && !flushWaitingSeen
	return stuck || outrunning
}

// classifyFaster implements §4.7.3's "Faster" branch: only once a fresh job
// has completed past warm-up (current job id > workers+1), and either the
// input side shows no back-pressure (inputBlocked == 0) or the pipeline
// is balanced (flush/ingest both keeping
// up within a 33/32 margin, meaning a cheaper level may raise throughput).
func classifyFaster(prevCorrection, cur Progression, workers int, inputBlocked, inputPresented uint64) bool {
	if cur.CurrentJobID <= workers+1 {
		return false
	}
	if inputBlocked == 0 {
		return true
	}
	if inputBlocked > inputPresented/8 {
		flushedOK := cur.Produced*32 <= cur.Flushed*33
		ingestedOK := cur.Consumed*32 <= cur.Ingested*33
		return flushedOK && ingestedOK
	}
	return false
}
