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

package interval

// minCompact is the smallest number of released intervals that triggers a
// compaction of the window buffer.
const minCompact = 256

// Window gives indexed access to the intervals of a Scanner.  Interval #k
// (numbering from zero in scan order) is read from the scanner the first time
// an index >= k is requested, and kept until the caller releases it.  Memory
// use is therefore bounded by the span between the lowest unreleased index and
// the highest requested one.
type Window struct {
	s Scanner
	// buf[head:] holds intervals base .. base+len(buf)-head-1.
	buf  []Interval
	head int
	base int
	eof  bool
}

// NewWindow returns a Window reading from s.
func NewWindow(s Scanner) *Window {
	return &Window{s: s}
}

// Has reports whether interval i exists and has not been released, reading
// ahead as needed.
func (w *Window) Has(i int) bool {
	for !w.eof && i >= w.limit() {
		if !w.s.Scan() {
			w.eof = true
			break
		}
		w.buf = append(w.buf, w.s.Interval())
	}
	return i >= w.base && i < w.limit()
}

// At returns interval i.  Has(i) must have returned true.
func (w *Window) At(i int) Interval {
	return w.buf[w.head+i-w.base]
}

// Slice returns intervals [lo, hi).  All of them must be buffered.  The
// result aliases the window's buffer and is valid until the next call to Has
// or Release.
func (w *Window) Slice(lo, hi int) []Interval {
	return w.buf[w.head+lo-w.base : w.head+hi-w.base]
}

// Release discards all intervals before index i, which must not be past the
// end of what has been read.
func (w *Window) Release(i int) {
	n := i - w.base
	if n <= 0 {
		return
	}
	if live := len(w.buf) - w.head; n > live {
		n = live
	}
	w.head += n
	w.base += n
	if w.head >= minCompact && w.head*2 >= len(w.buf) {
		w.buf = w.buf[:copy(w.buf, w.buf[w.head:])]
		w.head = 0
	}
}

// Exhausted reports whether the underlying scanner has been read to the end.
func (w *Window) Exhausted() bool { return w.eof }

// Err returns the underlying scanner's error, if any.
func (w *Window) Err() error { return w.s.Err() }

func (w *Window) limit() int {
	return w.base + len(w.buf) - w.head
}
