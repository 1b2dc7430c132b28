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
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/cpv/interval"
	"gonum.org/v1/gonum/stat"
)

// EstimateOpts controls Estimate.
type EstimateOpts struct {
	// Parallelism bounds the number of sources scanned at once; 0 means
	// runtime.NumCPU().
	Parallelism int
}

// pairSamples accumulates, for every lag bin, the scores of the upstream (xs)
// and downstream (ys) member of each pair falling in the bin.
type pairSamples struct {
	lags   []int
	xs, ys [][]float64
	// open[k] is false once a downstream interval beyond lags[k+1] has been
	// seen for the current upstream interval.
	open []bool
}

func newPairSamples(lags []int) *pairSamples {
	nBin := len(lags) - 1
	return &pairSamples{
		lags: lags,
		xs:   make([][]float64, nBin),
		ys:   make([][]float64, nBin),
		open: make([]bool, nBin),
	}
}

// addChrom collects the pairs of one chromosome.  For every upstream interval
// x, downstream intervals y are visited in order; in each bin, y is skipped if
// it is too close and ends the bin's scan for x if it is too far.  Since the
// input is sorted by start, later y can only be farther.  All bins share one
// pass, which stops as soon as every bin has been closed.
func (p *pairSamples) addChrom(s interval.Scanner) error {
	w := interval.NewWindow(s)
	nBin := len(p.open)
	for i := 0; w.Has(i); i++ {
		x := w.At(i)
		for k := range p.open {
			p.open[k] = true
		}
		nOpen := nBin
		for j := i + 1; nOpen > 0 && w.Has(j); j++ {
			y := w.At(j)
			gap := x.GapTo(y)
			for k := 0; k < nBin; k++ {
				if !p.open[k] {
					continue
				}
				if gap < p.lags[k] {
					continue
				}
				if gap > p.lags[k+1] {
					p.open[k] = false
					nOpen--
					continue
				}
				p.xs[k] = append(p.xs[k], x.Score)
				p.ys[k] = append(p.ys[k], y.Score)
			}
		}
		w.Release(i + 1)
	}
	return w.Err()
}

// addSource collects the pairs of every chromosome run of src.
func (p *pairSamples) addSource(ctx context.Context, src interval.Source) (err error) {
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
	nChrom := 0
	for groups.NextChrom() {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = p.addChrom(groups); err != nil {
			return errors.E(err, fmt.Sprintf("acf.Estimate: %s, chromosome %s", src.Name(), groups.Chrom()))
		}
		nChrom++
	}
	if err = groups.Err(); err != nil {
		return errors.E(err, fmt.Sprintf("acf.Estimate: %s", src.Name()))
	}
	log.Debug.Printf("acf.Estimate: %s: %d chromosome run(s) scanned", src.Name(), nChrom)
	return nil
}

// Estimate computes the binned autocorrelation of interval scores.  lags must
// be strictly increasing; bin k covers lags [lags[k], lags[k+1]], both ends
// inclusive, so a pair whose lag equals an inner boundary counts in both
// adjacent bins.  Pairs are only formed within a chromosome run of a single
// source.
func Estimate(ctx context.Context, sources []interval.Source, lags []int, opts EstimateOpts) (Table, error) {
	if len(sources) == 0 {
		return nil, errors.E(errors.Invalid, "acf.Estimate: no interval sources")
	}
	if err := checkLags(lags); err != nil {
		return nil, err
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(sources) {
		parallelism = len(sources)
	}
	samples := make([]*pairSamples, len(sources))
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(sources)) / parallelism
		endIdx := ((jobIdx + 1) * len(sources)) / parallelism
		for i := startIdx; i < endIdx; i++ {
			samples[i] = newPairSamples(lags)
			if err := samples[i].addSource(ctx, sources[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	table := make(Table, len(lags)-1)
	for k := range table {
		var xs, ys []float64
		for _, s := range samples {
			xs = append(xs, s.xs[k]...)
			ys = append(ys, s.ys[k]...)
		}
		table[k] = Bin{
			LagMin: lags[k],
			LagMax: lags[k+1],
			Corr:   pearson(xs, ys),
			N:      len(xs),
		}
		log.Debug.Printf("acf.Estimate: lag %d-%d: %d pair(s), correlation %.4g", lags[k], lags[k+1], len(xs), table[k].Corr)
	}
	return table, nil
}

// pearson returns the correlation coefficient of xs and ys, or NaN if there
// are fewer than two samples.
func pearson(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
