// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package acf

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/cpv/interval"
)

// Walker visits every interval of one chromosome together with its
// neighborhood: the contiguous run of intervals within maxLag of it.
//
// Two indices, lo and hi, only ever move forward.  For each focal interval f,
// lo advances past intervals ending more than maxLag before f starts; hi then
// advances while the interval at hi starts less than maxLag after f ends.  The
// neighborhood is [lo, hi).  When hi is already at the end of the input it is
// first stepped back by one, so the last interval is retested against f.
//
// lo <= f <= hi always holds, but f == hi is possible (a zero-length or
// inverted focal interval, or the step-back above), in which case f is not
// part of its own neighborhood.  Callers must not assume it is.
//
// Walker reads its Scanner lazily and only buffers intervals from lo onward.
type Walker struct {
	w      *interval.Window
	maxLag int
	lo, hi int
	// focal is the index of the current focal interval, -1 before the first
	// Scan.
	focal   int
	focalIv interval.Interval
	nbhd    []interval.Interval
}

// NewWalker returns a walker over s, which must yield intervals of a single
// chromosome sorted by start.
func NewWalker(s interval.Scanner, maxLag int) *Walker {
	return &Walker{w: interval.NewWindow(s), maxLag: maxLag, focal: -1}
}

// Scan advances to the next focal interval.  It returns false at the end of
// the input.
func (wk *Walker) Scan() bool {
	next := wk.focal + 1
	if !wk.w.Has(next) {
		wk.nbhd = nil
		return false
	}
	wk.focal = next
	x := wk.w.At(next)
	wk.focalIv = x

	for wk.w.Has(wk.lo) && x.Start-wk.w.At(wk.lo).End > wk.maxLag {
		wk.lo++
	}
	if !wk.w.Has(wk.hi) {
		wk.hi--
	}
	for wk.w.Has(wk.hi) && wk.w.At(wk.hi).Start-x.End < wk.maxLag {
		wk.hi++
	}
	if wk.lo > wk.focal || wk.focal > wk.hi {
		log.Panicf("acf.Walker: window [%d, %d) does not bracket focal interval %d (%v)", wk.lo, wk.hi, wk.focal, x)
	}
	wk.w.Release(wk.lo)
	wk.nbhd = wk.w.Slice(wk.lo, wk.hi)
	return true
}

// Focal returns the current focal interval.
func (wk *Walker) Focal() interval.Interval { return wk.focalIv }

// Neighborhood returns the current neighborhood in input order.  The slice
// is only valid until the next call to Scan.
func (wk *Walker) Neighborhood() []interval.Interval { return wk.nbhd }

// Bounds returns the current window [lo, hi) and the focal index, all
// counted from the first interval of the input.
func (wk *Walker) Bounds() (lo, focal, hi int) { return wk.lo, wk.focal, wk.hi }

// Err returns the error, if any, that stopped the underlying scanner.
func (wk *Walker) Err() error { return wk.w.Err() }
