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

import (
	"context"
	"fmt"
)

// Interval is one scored BED record.
type Interval struct {
	Chrom string
	Start int
	End   int
	// Score is the per-interval statistic, usually a p-value.
	Score float64
}

// GapTo returns the distance from the end of i to the start of next.  It is
// negative when the two intervals overlap.
func (i Interval) GapTo(next Interval) int {
	return next.Start - i.End
}

func (i Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", i.Chrom, i.Start, i.End)
}

// Scanner iterates over intervals in file order.  The Scan method advances to
// the next interval, returning false at the end of the stream or on error;
// after that, Err reports the error, if any.  Scanners are not threadsafe.
type Scanner interface {
	Scan() bool
	Interval() Interval
	Err() error
	Close() error
}

// Source produces a fresh Scanner over the same intervals on each call to
// Open.  Estimating and then adjusting takes two passes over every source.
type Source interface {
	Open(ctx context.Context) (Scanner, error)
	Name() string
}

// SliceSource serves intervals held in memory.
type SliceSource struct {
	Label     string
	Intervals []Interval
}

// Name implements Source.
func (s SliceSource) Name() string { return s.Label }

// Open implements Source.
func (s SliceSource) Open(context.Context) (Scanner, error) {
	return NewSliceScanner(s.Intervals), nil
}

type sliceScanner struct {
	intervals []Interval
	next      int
	cur       Interval
}

// NewSliceScanner returns a Scanner over the given intervals.
func NewSliceScanner(intervals []Interval) Scanner {
	return &sliceScanner{intervals: intervals}
}

func (s *sliceScanner) Scan() bool {
	if s.next >= len(s.intervals) {
		return false
	}
	s.cur = s.intervals[s.next]
	s.next++
	return true
}

func (s *sliceScanner) Interval() Interval { return s.cur }
func (s *sliceScanner) Err() error         { return nil }
func (s *sliceScanner) Close() error       { return nil }
