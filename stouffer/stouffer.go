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

// Package stouffer combines correlated p-values into one with the
// Stouffer-Liptak method: each p-value is turned into a z-score, the z-scores
// are decorrelated with the Cholesky factor of their correlation matrix, and
// the sum of the decorrelated scores is turned back into a p-value.
package stouffer

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// pMax replaces p-values of exactly 1, whose z-score would be -Inf.
const pMax = 1.0 - 9e-16

// shrinkStart is the first weight given to the identity matrix when a
// correlation matrix is not positive definite.  The weight doubles on every
// failed attempt; 1 (the identity itself) always succeeds.
const shrinkStart = 0.01

// Result is a combined p-value.
type Result struct {
	// P is the combined p-value.
	P float64
	// Z is the combined z-score; P is its upper-tail probability.
	Z float64
	// Shrinkage is the weight of the identity matrix mixed into the
	// correlation matrix to make it factorable; 0 if it factored as given.
	Shrinkage float64
}

// Combiner adapts Combine to interfaces expecting a method.
type Combiner struct{}

// Combine calls the package-level Combine.
func (Combiner) Combine(pvals []float64, sigma mat.Symmetric) (Result, error) {
	return Combine(pvals, sigma)
}

// Combine returns the Stouffer-Liptak combination of pvals, whose pairwise
// correlations are given by sigma.  A nil sigma means independence.  sigma
// must have a unit diagonal.
func Combine(pvals []float64, sigma mat.Symmetric) (Result, error) {
	n := len(pvals)
	if n == 0 {
		return Result{}, errors.New("stouffer: no p-values to combine")
	}
	if sigma != nil && sigma.SymmetricDim() != n {
		return Result{}, errors.Errorf("stouffer: %d p-values but a %dx%d correlation matrix", n, sigma.SymmetricDim(), sigma.SymmetricDim())
	}
	z := mat.NewVecDense(n, nil)
	for i, p := range pvals {
		q, err := zScore(p)
		if err != nil {
			return Result{}, errors.Wrapf(err, "stouffer: p-value #%d", i)
		}
		z.SetVec(i, q)
	}
	var res Result
	if sigma != nil {
		l, shrinkage, err := factor(sigma)
		if err != nil {
			return Result{}, err
		}
		res.Shrinkage = shrinkage
		var decorrelated mat.VecDense
		if err := decorrelated.SolveVec(l, z); err != nil {
			// A Condition error still comes with a solution.
			if _, ok := err.(mat.Condition); !ok {
				return Result{}, errors.Wrap(err, "stouffer: decorrelating z-scores")
			}
		}
		z = &decorrelated
	}
	res.Z = floats.Sum(z.RawVector().Data) / math.Sqrt(float64(n))
	res.P = distuv.UnitNormal.Survival(res.Z)
	return res, nil
}

// zScore returns the upper-tail normal quantile of p.
func zScore(p float64) (float64, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, errors.Errorf("%v is not a probability", p)
	}
	if p == 1 {
		p = pMax
	}
	// isf(p) = -ppf(p); computing it this way keeps precision for tiny p.
	q := -distuv.UnitNormal.Quantile(p)
	if math.IsInf(q, 0) {
		return 0, errors.Errorf("p-value %v has an infinite z-score", p)
	}
	return q, nil
}

// factor returns the lower Cholesky factor of sigma, shrinking sigma toward
// the identity until it is positive definite.
func factor(sigma mat.Symmetric) (*mat.TriDense, float64, error) {
	var chol mat.Cholesky
	var l mat.TriDense
	if chol.Factorize(sigma) {
		chol.LTo(&l)
		return &l, 0, nil
	}
	n := sigma.SymmetricDim()
	shrunk := mat.NewSymDense(n, nil)
	for lambda := shrinkStart; ; lambda *= 2 {
		if lambda > 1 {
			lambda = 1
		}
		for i := 0; i < n; i++ {
			shrunk.SetSym(i, i, 1)
			for j := i + 1; j < n; j++ {
				v := 0.0
				if lambda < 1 {
					v = (1 - lambda) * sigma.At(i, j)
				}
				shrunk.SetSym(i, j, v)
			}
		}
		if chol.Factorize(shrunk) {
			chol.LTo(&l)
			return &l, lambda, nil
		}
		if lambda == 1 {
			return nil, 0, errors.New("stouffer: correlation matrix cannot be factored")
		}
	}
}
