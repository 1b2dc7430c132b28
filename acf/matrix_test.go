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
	"math"
	"math/rand"
	"testing"

	"github.com/grailbio/cpv/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatrix(t *testing.T) {
	cache := NewCache(testTable)
	sigma := BuildMatrix(threeIntervals, cache)
	require.Equal(t, 3, sigma.SymmetricDim())
	// Gaps 10, 10 (clamped to the first bin) and 30.
	want := [][]float64{
		{1, 0.5, 0.5},
		{0.5, 1, 0.5},
		{0.5, 0.5, 1},
	}
	for i := range want {
		for j := range want[i] {
			assert.Equal(t, want[i][j], sigma.At(i, j), "(%d, %d)", i, j)
		}
	}
	assert.Equal(t, 2, cache.Len())
}

func TestBuildMatrixSingle(t *testing.T) {
	sigma := BuildMatrix(threeIntervals[:1], NewCache(testTable))
	require.Equal(t, 1, sigma.SymmetricDim())
	assert.Equal(t, 1.0, sigma.At(0, 0))
}

func TestBuildMatrixSymmetricUnitDiagonal(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	cache := NewCache(testTable)
	for trial := 0; trial < 20; trial++ {
		nbhd := randomIntervals(r, 1+r.Intn(40))
		for i := range nbhd {
			nbhd[i].Chrom = "chr1"
		}
		sigma := BuildMatrix(nbhd, cache)
		n := sigma.SymmetricDim()
		require.Equal(t, len(nbhd), n)
		for i := 0; i < n; i++ {
			assert.Equal(t, 1.0, sigma.At(i, i))
			for j := 0; j < n; j++ {
				assert.Equal(t, sigma.At(i, j), sigma.At(j, i))
				assert.False(t, math.IsNaN(sigma.At(i, j)))
			}
		}
	}
}

func TestCache(t *testing.T) {
	cache := NewCache(testTable)
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0.5, cache.Correlation(3))
	assert.Equal(t, 0.5, cache.Correlation(3))
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 0.25, cache.Correlation(100))
	// The NaN bin is stored as uncorrelated.
	assert.Equal(t, 0.0, cache.Correlation(120))
	assert.Equal(t, 0.0, cache.Correlation(1000))
	assert.Equal(t, 4, cache.Len())
	// Unlike the table itself.
	assert.True(t, math.IsNaN(testTable.Correlation(120)))
}

func TestBuildMatrixSharedCache(t *testing.T) {
	cache := NewCache(testTable)
	ivs := []interval.Interval{
		{Chrom: "chr1", Start: 0, End: 10},
		{Chrom: "chr1", Start: 80, End: 90},
		{Chrom: "chr1", Start: 160, End: 170},
	}
	BuildMatrix(ivs[:2], cache)
	assert.Equal(t, 1, cache.Len())
	sigma := BuildMatrix(ivs[1:], cache)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 0.25, sigma.At(0, 1))
}
