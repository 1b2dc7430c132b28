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

/*
Package acf estimates how a per-interval score (usually a p-value) is
correlated between intervals as a function of their genomic distance, and
uses that estimate to adjust every score for its correlated neighbors.

Estimation bins interval pairs by lag (the distance from the end of the
upstream interval to the start of the downstream one) and computes one
Pearson correlation per bin.  Adjustment walks each chromosome with a sliding
window holding all intervals within the largest lag of the focal interval,
builds the pairwise correlation matrix of that neighborhood from the binned
estimates, and hands the neighborhood's scores and matrix to a Combiner
(Stouffer-Liptak in practice).

Input must be sorted by start within each chromosome.  Nothing here checks
that; unsorted input yields wrong answers, not errors.
*/
package acf
