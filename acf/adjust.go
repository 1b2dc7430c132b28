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
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/cpv/interval"
	"github.com/grailbio/cpv/stouffer"
	"gonum.org/v1/gonum/mat"
)

// Combiner turns the p-values of a neighborhood and their correlation matrix
// into one adjusted p-value.  stouffer.Combiner is the usual implementation.
type Combiner interface {
	Combine(pvals []float64, sigma mat.Symmetric) (stouffer.Result, error)
}

// Record is the adjusted result for one input interval.
type Record struct {
	Chrom    string
	Start    int
	End      int
	Score    float64
	Adjusted float64
}

// AdjustOpts controls Adjust.
type AdjustOpts struct {
	// RejectNaN makes Adjust fail when the table has an undefined bin,
	// instead of treating such bins as uncorrelated.
	RejectNaN bool
}

// Adjust emits one Record per interval of sources, in input order.  Each
// interval's adjusted score combines the scores of its neighborhood (see
// Walker, with maxLag = table.MaxLag()) using correlations looked up in table.
// An interval with an empty neighborhood gets a NaN adjusted score.  The first
// error from the sources, the combiner or emit stops the run.
func Adjust(ctx context.Context, sources []interval.Source, table Table, combiner Combiner, opts AdjustOpts, emit func(Record) error) error {
	if len(sources) == 0 {
		return errors.E(errors.Invalid, "acf.Adjust: no interval sources")
	}
	if len(table) == 0 {
		return errors.E(errors.Invalid, "acf.Adjust: empty correlation table")
	}
	if opts.RejectNaN && table.HasNaN() {
		return errors.E(errors.Precondition, "acf.Adjust: correlation table has undefined bins")
	}
	a := adjuster{
		cache:    NewCache(table),
		maxLag:   table.MaxLag(),
		combiner: combiner,
		emit:     emit,
	}
	for _, src := range sources {
		if err := a.adjustSource(ctx, src); err != nil {
			return err
		}
	}
	log.Debug.Printf("acf.Adjust: %d record(s), %d distinct lag(s)", a.nRecord, a.cache.Len())
	return nil
}

// adjuster holds the state shared by all sources of one Adjust call.
type adjuster struct {
	cache    *Cache
	maxLag   int
	combiner Combiner
	emit     func(Record) error
	pvals    []float64
	nRecord  int
}

func (a *adjuster) adjustSource(ctx context.Context, src interval.Source) (err error) {
	sc, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sc.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	groups := interval.NewGroupScanner(sc)
	for groups.NextChrom() {
		if err = ctx.Err(); err != nil {
			return err
		}
		walker := NewWalker(groups, a.maxLag)
		for walker.Scan() {
			if err = a.adjustOne(walker.Focal(), walker.Neighborhood()); err != nil {
				return err
			}
		}
		if err = walker.Err(); err != nil {
			return errors.E(err, fmt.Sprintf("acf.Adjust: %s, chromosome %s", src.Name(), groups.Chrom()))
		}
	}
	if err = groups.Err(); err != nil {
		return errors.E(err, fmt.Sprintf("acf.Adjust: %s", src.Name()))
	}
	return nil
}

func (a *adjuster) adjustOne(focal interval.Interval, nbhd []interval.Interval) error {
	rec := Record{
		Chrom:    focal.Chrom,
		Start:    focal.Start,
		End:      focal.End,
		Score:    focal.Score,
		Adjusted: math.NaN(),
	}
	if len(nbhd) > 0 {
		sigma := BuildMatrix(nbhd, a.cache)
		a.pvals = a.pvals[:0]
		for _, iv := range nbhd {
			a.pvals = append(a.pvals, iv.Score)
		}
		res, err := a.combiner.Combine(a.pvals, sigma)
		if err != nil {
			return errors.E(err, fmt.Sprintf("acf.Adjust: combining the %d-interval neighborhood of %v", len(nbhd), focal))
		}
		rec.Adjusted = res.P
	} else {
		log.Debug.Printf("acf.Adjust: %v has an empty neighborhood", focal)
	}
	a.nRecord++
	return a.emit(rec)
}
