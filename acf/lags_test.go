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
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLagSpec(t *testing.T) {
	lags, err := ParseLagSpec("15:500:50")
	require.NoError(t, err)
	assert.Equal(t, []int{15, 65, 115, 165, 215, 265, 315, 365, 415, 465}, lags)

	lags, err = ParseLagSpec("0:101:100")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 100}, lags)

	lags, err = ParseLagSpec("-10: 10 :10")
	require.NoError(t, err)
	assert.Equal(t, []int{-10, 0}, lags)
}

func TestParseLagSpecErrors(t *testing.T) {
	for _, spec := range []string{
		"",
		"15:500",
		"15:500:50:1",
		"a:500:50",
		"15:500:0",
		"15:500:-50",
		// Only one boundary: no bin.
		"15:16:50",
		// Empty range.
		"500:15:50",
	} {
		_, err := ParseLagSpec(spec)
		require.Error(t, err, spec)
		assert.True(t, errors.Is(errors.Invalid, err), spec)
	}
}

func TestCheckLags(t *testing.T) {
	assert.NoError(t, checkLags([]int{0, 100}))
	assert.Error(t, checkLags(nil))
	assert.Error(t, checkLags([]int{5}))
	assert.Error(t, checkLags([]int{0, 10, 10}))
	assert.Error(t, checkLags([]int{0, 20, 10}))
}
