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
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// LagRange returns the lag boundaries start, start+step, ... below stop.
func LagRange(start, stop, step int) ([]int, error) {
	if step <= 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("acf.LagRange: step must be positive, got %d", step))
	}
	var lags []int
	for lag := start; lag < stop; lag += step {
		lags = append(lags, lag)
	}
	if err := checkLags(lags); err != nil {
		return nil, err
	}
	return lags, nil
}

// ParseLagSpec parses "start:stop:step" into lag boundaries; see LagRange.
func ParseLagSpec(spec string) ([]int, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("acf.ParseLagSpec: %q is not of the form start:stop:step", spec))
	}
	var vals [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("acf.ParseLagSpec: %q", spec))
		}
		vals[i] = v
	}
	return LagRange(vals[0], vals[1], vals[2])
}

// checkLags verifies that lags defines at least one bin and is strictly
// increasing.
func checkLags(lags []int) error {
	if len(lags) < 2 {
		return errors.E(errors.Invalid, fmt.Sprintf("acf: need at least two lag boundaries to form a bin, got %v", lags))
	}
	for i := 1; i < len(lags); i++ {
		if lags[i] <= lags[i-1] {
			return errors.E(errors.Invalid, fmt.Sprintf("acf: lag boundaries must be strictly increasing, got %v", lags))
		}
	}
	return nil
}
