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

	"github.com/grailbio/base/log"
	"github.com/grailbio/cpv/interval"
	"gonum.org/v1/gonum/mat"
)

// Cache memoizes Table.Correlation for one table.  Nearby neighborhoods share
// most of their pairwise lags, so one Cache should live for a whole
// adjustment run.  Lags whose bin is NaN are stored as 0: an undefined
// estimate is treated as no correlation.  A Cache is not threadsafe.
type Cache struct {
	table Table
	corr  map[int]float64
}

// NewCache returns an empty cache over t.  t must not change while the cache
// is in use.
func NewCache(t Table) *Cache {
	return &Cache{table: t, corr: make(map[int]float64)}
}

// Correlation returns the correlation for lag dist.
func (c *Cache) Correlation(dist int) float64 {
	if v, ok := c.corr[dist]; ok {
		return v
	}
	v := c.table.Correlation(dist)
	if math.IsNaN(v) {
		log.Debug.Printf("acf.Cache: correlation at lag %d is undefined, using 0", dist)
		v = 0
	}
	c.corr[dist] = v
	return v
}

// Len returns the number of distinct lags looked up so far.
func (c *Cache) Len() int { return len(c.corr) }

// BuildMatrix returns the correlation matrix of a neighborhood.  Entry (i, j)
// for i < j is the correlation at lag nbhd[j].Start - nbhd[i].End; the
// diagonal is 1.  nbhd must not be empty.
func BuildMatrix(nbhd []interval.Interval, cache *Cache) *mat.SymDense {
	n := len(nbhd)
	sigma := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sigma.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			sigma.SetSym(i, j, cache.Correlation(nbhd[i].GapTo(nbhd[j])))
		}
	}
	return sigma
}
