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
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
)

// FileSource reads intervals from a sorted, tab-separated BED-like file.
// Gzipped files (by extension) are decompressed on the fly.
type FileSource struct {
	Path string
	// ScoreCol is the 0-based index of the column holding the score.
	ScoreCol int
}

// Name implements Source.
func (s FileSource) Name() string { return s.Path }

// Open implements Source.
func (s FileSource) Open(ctx context.Context) (Scanner, error) {
	infile, err := file.Open(ctx, s.Path)
	if err != nil {
		return nil, err
	}
	closeFile := func() error { return infile.Close(ctx) }
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(s.Path) {
	case fileio.Gzip:
		gz, err := gzip.NewReader(reader)
		if err != nil {
			_ = closeFile()
			return nil, errors.E(err, "opening", s.Path)
		}
		reader = gz
		closeFile = func() error {
			err := gz.Close()
			if cerr := infile.Close(ctx); cerr != nil && err == nil {
				err = cerr
			}
			return err
		}
	}
	sc := NewBEDScanner(reader, s.Path, s.ScoreCol)
	sc.closer = closeFile
	return sc, nil
}

// BEDScanner parses intervals from tab-separated text.  Columns 0-2 are
// chrom, start and end; the score is taken from a caller-chosen column.
// Lines starting with '#' and empty lines are skipped.  Any other line that
// can't be parsed stops the scan with an errors.Invalid error.
type BEDScanner struct {
	r        *tsv.Reader
	name     string
	scoreCol int
	nRecord  int
	cur      Interval
	err      error
	closer   func() error
}

// NewBEDScanner returns a scanner reading from r.  name is used in error
// messages only.
func NewBEDScanner(r io.Reader, name string, scoreCol int) *BEDScanner {
	tr := tsv.NewReader(r)
	tr.Comment = '#'
	// BED rows may carry a variable number of trailing columns.
	tr.FieldsPerRecord = -1
	tr.LazyQuotes = true
	return &BEDScanner{r: tr, name: name, scoreCol: scoreCol}
}

// Scan implements Scanner.
func (s *BEDScanner) Scan() bool {
	if s.err != nil {
		return false
	}
	fields, err := s.r.Reader.Read()
	if err != nil {
		if err == io.EOF {
			s.err = io.EOF
		} else {
			s.err = errors.E(errors.Invalid, err, s.name)
		}
		return false
	}
	s.nRecord++
	if s.err = s.parse(fields); s.err != nil {
		return false
	}
	return true
}

func (s *BEDScanner) parse(fields []string) error {
	minFields := 3
	if s.scoreCol >= minFields {
		minFields = s.scoreCol + 1
	}
	if len(fields) < minFields {
		return errors.E(errors.Invalid, fmt.Sprintf("%s: record %d has %d field(s), expected at least %d", s.name, s.nRecord, len(fields), minFields))
	}
	start, err := strconv.Atoi(fields[1])
	if err != nil {
		return errors.E(errors.Invalid, err, fmt.Sprintf("%s: record %d: bad start", s.name, s.nRecord))
	}
	end, err := strconv.Atoi(fields[2])
	if err != nil {
		return errors.E(errors.Invalid, err, fmt.Sprintf("%s: record %d: bad end", s.name, s.nRecord))
	}
	score, err := strconv.ParseFloat(fields[s.scoreCol], 64)
	if err != nil {
		return errors.E(errors.Invalid, err, fmt.Sprintf("%s: record %d: bad score in column %d", s.name, s.nRecord, s.scoreCol+1))
	}
	s.cur = Interval{Chrom: fields[0], Start: start, End: end, Score: score}
	return nil
}

// Interval implements Scanner.
func (s *BEDScanner) Interval() Interval { return s.cur }

// Err implements Scanner.
func (s *BEDScanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

// Close implements Scanner.
func (s *BEDScanner) Close() error {
	if s.closer == nil {
		return nil
	}
	closer := s.closer
	s.closer = nil
	return closer()
}
