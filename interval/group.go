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

// GroupScanner splits a Scanner into runs of consecutive intervals on the same
// chromosome.  Call NextChrom to move to the next run; the GroupScanner is then
// itself a Scanner whose Scan returns false at the end of the run.
//
//	g := interval.NewGroupScanner(s)
//	for g.NextChrom() {
//	  for g.Scan() {
//	    ... g.Interval() ...
//	  }
//	}
//	if err := g.Err(); err != nil { ... }
//
// A chromosome that reappears after another one starts a new run.
type GroupScanner struct {
	s          Scanner
	chrom      string
	cur        Interval
	pending    Interval
	hasPending bool
	inGroup    bool
}

// NewGroupScanner wraps s.
func NewGroupScanner(s Scanner) *GroupScanner {
	return &GroupScanner{s: s}
}

// NextChrom skips what remains of the current run and positions the scanner
// at the start of the next one.  It returns false at the end of the input.
func (g *GroupScanner) NextChrom() bool {
	for g.inGroup && g.Scan() {
	}
	if !g.hasPending {
		if !g.s.Scan() {
			return false
		}
		g.pending = g.s.Interval()
		g.hasPending = true
	}
	g.chrom = g.pending.Chrom
	g.inGroup = true
	return true
}

// Chrom returns the chromosome of the current run.
func (g *GroupScanner) Chrom() string { return g.chrom }

// Scan implements Scanner.
func (g *GroupScanner) Scan() bool {
	if !g.inGroup {
		return false
	}
	if !g.hasPending {
		if !g.s.Scan() {
			g.inGroup = false
			return false
		}
		g.pending = g.s.Interval()
		g.hasPending = true
	}
	if g.pending.Chrom != g.chrom {
		g.inGroup = false
		return false
	}
	g.cur = g.pending
	g.hasPending = false
	return true
}

// Interval implements Scanner.
func (g *GroupScanner) Interval() Interval { return g.cur }

// Err implements Scanner.
func (g *GroupScanner) Err() error { return g.s.Err() }

// Close closes the underlying scanner.
func (g *GroupScanner) Close() error { return g.s.Close() }
