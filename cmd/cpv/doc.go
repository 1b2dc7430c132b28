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
cpv estimates the spatial autocorrelation of per-interval p-values in sorted
BED files, and adjusts every p-value for its correlated neighbors with the
Stouffer-Liptak method.

Sample usage:

	cpv acf -d 15:500:50 -c 4 my.bed > acf.tsv
	cpv adjust -d 15:500:50 -c 4 my.bed > adjusted.bed 2> acf.tsv

Input files must be sorted by chromosome and start.  Lines starting with '#'
are skipped.
*/
package main
