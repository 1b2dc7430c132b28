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
	"math/rand"
	"testing"

	"github.com/grailbio/cpv/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refWindows computes the [lo, hi) window of every focal index over a
// materialized list.
func refWindows(l []interval.Interval, maxLag int) [][2]int {
	n := len(l)
	lo, hi := 0, 0
	var r [][2]int
	for _, x := range l {
		for x.Start-l[lo].End > maxLag {
			lo++
		}
		if hi == n {
			hi--
		}
		for l[hi].Start-x.End < maxLag {
			hi++
			if hi == n {
				break
			}
		}
		r = append(r, [2]int{lo, hi})
	}
	return r
}

type walkStep struct {
	lo, focal, hi int
	focalIv       interval.Interval
	nbhd          []interval.Interval
}

func walkAll(t *testing.T, ivs []interval.Interval, maxLag int) []walkStep {
	w := NewWalker(interval.NewSliceScanner(ivs), maxLag)
	var steps []walkStep
	for w.Scan() {
		lo, focal, hi := w.Bounds()
		steps = append(steps, walkStep{
			lo: lo, focal: focal, hi: hi,
			focalIv: w.Focal(),
			nbhd:    append([]interval.Interval(nil), w.Neighborhood()...),
		})
	}
	require.NoError(t, w.Err())
	assert.False(t, w.Scan())
	return steps
}

func TestWalkerThreeIntervals(t *testing.T) {
	steps := walkAll(t, threeIntervals, 15)
	require.Len(t, steps, 3)
	// Gaps are 10, so each interval sees its immediate neighbors only.
	assert.Equal(t, threeIntervals[0:2], steps[0].nbhd)
	assert.Equal(t, threeIntervals[0:3], steps[1].nbhd)
	assert.Equal(t, threeIntervals[1:3], steps[2].nbhd)
	for i, s := range steps {
		assert.Equal(t, i, s.focal)
		assert.Equal(t, threeIntervals[i], s.focalIv)
	}
}

func TestWalkerEmpty(t *testing.T) {
	assert.Empty(t, walkAll(t, nil, 100))
}

func TestWalkerFocalExcluded(t *testing.T) {
	// With maxLag 0, the empty interval at 20 is more than 0 past the end of
	// the first one, and fails the "start - end < 0" test against itself.
	ivs := []interval.Interval{
		{Chrom: "chr1", Start: 0, End: 10, Score: 0.1},
		{Chrom: "chr1", Start: 20, End: 20, Score: 0.2},
	}
	steps := walkAll(t, ivs, 0)
	require.Len(t, steps, 2)
	assert.Equal(t, walkStep{lo: 0, focal: 0, hi: 1, focalIv: ivs[0], nbhd: ivs[:1]}, steps[0])
	assert.Equal(t, 1, steps[1].lo)
	assert.Equal(t, 1, steps[1].focal)
	assert.Equal(t, 1, steps[1].hi)
	assert.Equal(t, ivs[1], steps[1].focalIv)
	assert.Empty(t, steps[1].nbhd)
}

func TestWalkerStepBackAtEnd(t *testing.T) {
	// The first interval spans everything, so hi reaches the end at once.
	// The second then retests the last interval, which is too far from it.
	ivs := []interval.Interval{
		{Chrom: "chr1", Start: 0, End: 100},
		{Chrom: "chr1", Start: 10, End: 20},
		{Chrom: "chr1", Start: 95, End: 96},
	}
	steps := walkAll(t, ivs, 10)
	require.Len(t, steps, 3)
	assert.Equal(t, [3]int{0, 0, 3}, [3]int{steps[0].lo, steps[0].focal, steps[0].hi})
	assert.Equal(t, [3]int{0, 1, 2}, [3]int{steps[1].lo, steps[1].focal, steps[1].hi})
	assert.Equal(t, [3]int{0, 2, 3}, [3]int{steps[2].lo, steps[2].focal, steps[2].hi})
}

func TestWalkerMatchesReference(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for trial := 0; trial < 50; trial++ {
		n := 1 + r.Intn(500)
		ivs := make([]interval.Interval, n)
		pos := 0
		for i := range ivs {
			start := pos + r.Intn(60)
			end := start + r.Intn(30)
			ivs[i] = interval.Interval{Chrom: "chr1", Start: start, End: end, Score: r.Float64()}
			pos = end
		}
		maxLag := 1 + r.Intn(200)
		want := refWindows(ivs, maxLag)
		steps := walkAll(t, ivs, maxLag)
		require.Len(t, steps, n)
		for i, s := range steps {
			assert.True(t, s.lo <= s.focal && s.focal <= s.hi, "trial %d focal %d: [%d, %d)", trial, i, s.lo, s.hi)
			assert.Equal(t, i, s.focal)
			assert.Equal(t, want[i], [2]int{s.lo, s.hi}, "trial %d focal %d", trial, i)
			assert.Equal(t, ivs[s.lo:s.hi], s.nbhd)
			for _, y := range s.nbhd {
				// Every member is within maxLag on the near side.
				assert.True(t, s.focalIv.Start-y.End <= maxLag)
				assert.True(t, y.Start-s.focalIv.End < maxLag)
			}
		}
	}
}
