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
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/cpv/interval"
	"github.com/grailbio/cpv/stouffer"
)

// Opts holds the command-line configuration of a run.
type Opts struct {
	// LagSpec is "start:stop:step"; see ParseLagSpec.
	LagSpec string
	// ScoreCol is the 1-based column holding the score.
	ScoreCol int
	// Region optionally restricts input to one region; see
	// interval.ParseRegionString.
	Region      string
	Parallelism int
	RejectNaN   bool
}

// DefaultOpts holds the defaults for the command line.
var DefaultOpts = Opts{
	LagSpec:     "15:500:50",
	ScoreCol:    4,
	Parallelism: 0,
	RejectNaN:   false,
}

// Sources returns one FileSource per path, restricted to opts.Region if set.
func Sources(paths []string, opts *Opts) ([]interval.Source, error) {
	if len(paths) == 0 {
		return nil, errors.E(errors.Invalid, "acf: no input files")
	}
	if opts.ScoreCol < 1 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("acf: score column must be >= 1, got %d", opts.ScoreCol))
	}
	var region *interval.Region
	if opts.Region != "" {
		r, err := interval.ParseRegionString(opts.Region)
		if err != nil {
			return nil, errors.E(errors.Invalid, err)
		}
		region = &r
	}
	sources := make([]interval.Source, len(paths))
	for i, path := range paths {
		var src interval.Source = interval.FileSource{Path: path, ScoreCol: opts.ScoreCol - 1}
		if region != nil {
			src = interval.RegionSource{Source: src, Region: *region}
		}
		sources[i] = src
	}
	return sources, nil
}

// Run estimates the autocorrelation table of the files at paths and writes it
// to tableOut.  If recordOut is non-nil, it then adjusts every interval's
// score with stouffer.Combine and writes the records to recordOut.
// Configuration errors are reported before any file is read.
func Run(ctx context.Context, paths []string, opts *Opts, tableOut, recordOut io.Writer) error {
	lags, err := ParseLagSpec(opts.LagSpec)
	if err != nil {
		return err
	}
	sources, err := Sources(paths, opts)
	if err != nil {
		return err
	}
	log.Printf("acf: estimating %d lag bin(s) over %d file(s)", len(lags)-1, len(sources))
	table, err := Estimate(ctx, sources, lags, EstimateOpts{Parallelism: opts.Parallelism})
	if err != nil {
		return err
	}
	if err = WriteTable(tableOut, table); err != nil {
		return err
	}
	if recordOut == nil {
		return nil
	}
	log.Printf("acf: adjusting scores, max lag %d", table.MaxLag())
	rw := NewRecordWriter(recordOut)
	if err = Adjust(ctx, sources, table, stouffer.Combiner{}, AdjustOpts{RejectNaN: opts.RejectNaN}, rw.Write); err != nil {
		return err
	}
	return rw.Flush()
}
