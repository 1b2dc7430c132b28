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

import "math"

// Bin is the correlation estimate for one lag range.  Both ends of the range
// are inclusive.
type Bin struct {
	LagMin, LagMax int
	// Corr is the Pearson correlation of the scores of all pairs whose lag
	// falls in [LagMin, LagMax].  NaN when fewer than two pairs were found or
	// the scores had no variance.
	Corr float64
	// N is the number of pairs.
	N int
}

// Table holds one Bin per consecutive pair of lag boundaries, in increasing
// order of LagMin.  A Table is never modified after Estimate returns it.
type Table []Bin

// Correlation maps a lag to a correlation:
//
//   - below the first bin, the first bin's value (close intervals are assumed
//     at least as correlated as the closest ones measured);
//   - inside a bin, that bin's value (the first match if bins share a boundary);
//   - beyond the last bin, 0.
//
// NaN bins are returned as NaN.
func (t Table) Correlation(dist int) float64 {
	if len(t) == 0 {
		return 0
	}
	if dist < t[0].LagMin {
		return t[0].Corr
	}
	for _, b := range t {
		if b.LagMin <= dist && dist <= b.LagMax {
			return b.Corr
		}
	}
	return 0
}

// MaxLag returns the upper end of the last bin.  t must not be empty.
func (t Table) MaxLag() int {
	return t[len(t)-1].LagMax
}

// HasNaN reports whether any bin's correlation is undefined.
func (t Table) HasNaN() bool {
	for _, b := range t {
		if math.IsNaN(b.Corr) {
			return true
		}
	}
	return false
}
