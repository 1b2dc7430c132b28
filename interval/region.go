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
	"math"
	"strconv"
	"strings"
)

// Region is a chromosome range with 0-based, half-open coordinates.
type Region struct {
	Chrom string
	Start int
	End   int
}

// Overlaps reports whether iv intersects the region.  Empty intervals count
// as overlapping when they lie inside it.
func (r Region) Overlaps(iv Interval) bool {
	if iv.Chrom != r.Chrom {
		return false
	}
	if iv.Start == iv.End {
		return iv.Start >= r.Start && iv.Start < r.End
	}
	return iv.Start < r.End && iv.End > r.Start
}

// ParseRegionString parses a region string of one of the forms
//
//	[chrom]:[1-based first pos]-[last pos]
//	[chrom]:[1-based pos]
//	[chrom]
//
// returning 0-based boundaries.  The range extends to math.MaxInt32 when no
// position is given.
func ParseRegionString(region string) (result Region, err error) {
	if len(region) == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		result = Region{Chrom: region, Start: 0, End: math.MaxInt32}
		return
	}
	if colonPos == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty chromosome in %q", region)
		return
	}
	result.Chrom = region[:colonPos]
	rangeStr := strings.Replace(region[colonPos+1:], ",", "", -1)
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int
		if pos1, err = strconv.Atoi(rangeStr); err != nil {
			return
		}
		if pos1 <= 0 {
			err = fmt.Errorf("interval.ParseRegionString: position %v out of range", rangeStr)
			return
		}
		result.Start, result.End = pos1-1, pos1
		return
	}
	var start1, end int
	if start1, err = strconv.Atoi(rangeStr[:dashPos]); err != nil {
		return
	}
	if start1 <= 0 {
		err = fmt.Errorf("interval.ParseRegionString: position %v out of range", rangeStr[:dashPos])
		return
	}
	if end, err = strconv.Atoi(rangeStr[dashPos+1:]); err != nil {
		return
	}
	if end < start1 {
		err = fmt.Errorf("interval.ParseRegionString: invalid range %v", rangeStr)
		return
	}
	result.Start, result.End = start1-1, end
	return
}

// RegionSource restricts a Source to intervals overlapping a region.
type RegionSource struct {
	Source
	Region Region
}

// Open implements Source.
func (s RegionSource) Open(ctx context.Context) (Scanner, error) {
	sc, err := s.Source.Open(ctx)
	if err != nil {
		return nil, err
	}
	return &FilterScanner{Scanner: sc, Keep: s.Region.Overlaps}, nil
}

// FilterScanner passes through the intervals for which Keep returns true.
type FilterScanner struct {
	Scanner
	Keep func(Interval) bool
}

// Scan implements Scanner.
func (f *FilterScanner) Scan() bool {
	for f.Scanner.Scan() {
		if f.Keep(f.Scanner.Interval()) {
			return true
		}
	}
	return false
}
