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
	"io"
	"math"
	"strconv"

	"github.com/grailbio/base/tsv"
)

// TableHeader is the first line written by WriteTable.
const TableHeader = "lag_min-lag_max\tcorrelation\tN"

// formatG formats v with prec significant digits, printf %g style, spelling
// NaN and infinities as "nan", "inf" and "-inf".
func formatG(v float64, prec int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', prec, 64)
}

// WriteTable writes t as TSV: a header line, then one
// "lagMin-lagMax, correlation, N" line per bin.
func WriteTable(w io.Writer, t Table) (err error) {
	outTSV := tsv.NewWriter(w)
	outTSV.WriteString(TableHeader)
	if err = outTSV.EndLine(); err != nil {
		return
	}
	for _, b := range t {
		outTSV.WriteString(fmt.Sprintf("%d-%d", b.LagMin, b.LagMax))
		outTSV.WriteString(formatG(b.Corr, 4))
		outTSV.WriteInt64(int64(b.N))
		if err = outTSV.EndLine(); err != nil {
			return
		}
	}
	return outTSV.Flush()
}

// RecordWriter writes Records as "chrom, start, end, score, adjusted" TSV
// lines, with both scores to three significant digits.
type RecordWriter struct {
	w *tsv.Writer
}

// NewRecordWriter returns a RecordWriter on w.  Call Flush when done.
func NewRecordWriter(w io.Writer) *RecordWriter {
	return &RecordWriter{w: tsv.NewWriter(w)}
}

// Write writes one record.  Its signature fits Adjust's emit argument.
func (rw *RecordWriter) Write(rec Record) error {
	rw.w.WriteString(rec.Chrom)
	rw.w.WriteInt64(int64(rec.Start))
	rw.w.WriteInt64(int64(rec.End))
	rw.w.WriteString(formatG(rec.Score, 3))
	rw.w.WriteString(formatG(rec.Adjusted, 3))
	return rw.w.EndLine()
}

// Flush writes any buffered output.
func (rw *RecordWriter) Flush() error { return rw.w.Flush() }
