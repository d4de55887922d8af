/* Copyright (C) 2016 Philipp Benner
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package butlr

/* -------------------------------------------------------------------------- */

// Matrix ingestion strategies, per spec §4.3.4 and Design Note (§9): two
// input shapes share the same sparse-store -> writer pipeline by both
// implementing MatrixSource, rather than duplicating the writer per input
// kind.

import "bufio"
import "math"
import "os"
import "strconv"
import "strings"

import "github.com/pkg/errors"
import "github.com/sirupsen/logrus"

/* -------------------------------------------------------------------------- */

// Triple is one (row bin, col bin, value) reading produced by a
// MatrixSource, prior to sorting or triangular normalization.
type Triple struct {
	Row   uint32
	Col   uint32
	Value float32
}

// MatrixSource produces the triples for one chromosome or chromosome-pair
// matrix. Implementations read their own backing file; Triples may be
// called at most once.
type MatrixSource interface {
	Triples() ([]Triple, error)
}

/* coordinate-list input
 * -------------------------------------------------------------------------- */

// CoordinateListSource reads lines of "i j v" (whitespace-separated,
// column positions configurable). i and j are base-pair coordinates, which
// this source converts to bin indices by floor division with Resolution.
type CoordinateListSource struct {
	Path       string
	Resolution uint32
	// ColI, ColJ, ColV select which whitespace-separated fields hold i, j
	// and v; 0-indexed. Zero value selects the default 0, 1, 2.
	ColI, ColJ, ColV int
	// Swap exchanges i and j after parsing, before emitting. The sourceFor
	// callback given to WriteManifest sets this when a manifest line lists
	// an interchromosomal pair in the non-canonical order (spec §4.3.4).
	Swap bool
}

func (s *CoordinateListSource) cols() (int, int, int) {
	if s.ColI == 0 && s.ColJ == 0 && s.ColV == 0 {
		return 0, 1, 2
	}
	return s.ColI, s.ColJ, s.ColV
}

// Triples implements MatrixSource.
func (s *CoordinateListSource) Triples() ([]Triple, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening coordinate-list matrix `%s'", s.Path)
	}
	defer f.Close()

	ci, cj, cv := s.cols()
	need := ci
	if cj > need {
		need = cj
	}
	if cv > need {
		need = cv
	}

	var triples []Triple
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) <= need {
			return nil, errors.Errorf("%s:%d: expected at least %d columns, got %d", s.Path, lineNo, need+1, len(fields))
		}
		i, err := strconv.ParseUint(fields[ci], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: invalid coordinate `%s'", s.Path, lineNo, fields[ci])
		}
		j, err := strconv.ParseUint(fields[cj], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: invalid coordinate `%s'", s.Path, lineNo, fields[cj])
		}
		v, err := strconv.ParseFloat(fields[cv], 32)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: invalid value `%s'", s.Path, lineNo, fields[cv])
		}
		row := uint32(i) / s.Resolution
		col := uint32(j) / s.Resolution
		if s.Swap {
			row, col = col, row
		}
		triples = append(triples, Triple{Row: row, Col: col, Value: float32(v)})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading coordinate-list matrix `%s'", s.Path)
	}
	return triples, nil
}

/* dense tab-delimited input
 * -------------------------------------------------------------------------- */

// DenseMatrixSource reads a square (intrachromosomal) or rectangular
// (interchromosomal) tab-delimited dense matrix. Row i of the data (after
// SkipRows header lines) and column j of the data (after SkipCols leading
// columns) become bin (i, j).
type DenseMatrixSource struct {
	Path string
	// Intra keeps only the upper triangle (col >= row) when true.
	Intra bool
	// MCV cells are omitted from the sparse store.
	MCV float32
	// SkipRows leading lines (e.g. column headers) to discard.
	SkipRows int
	// SkipCols leading columns (e.g. row labels) to discard on every
	// remaining line.
	SkipCols int
}

// Triples implements MatrixSource.
func (s *DenseMatrixSource) Triples() ([]Triple, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening dense matrix `%s'", s.Path)
	}
	defer f.Close()

	var triples []Triple
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	lineNo := 0
	row := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= s.SkipRows {
			continue
		}
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= s.SkipCols {
			return nil, errors.Errorf("%s:%d: expected more than %d columns", s.Path, lineNo, s.SkipCols)
		}
		fields = fields[s.SkipCols:]
		for col, field := range fields {
			if s.Intra && col < row {
				continue
			}
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, ok := parseDenseCell(field, s.Path, lineNo, col)
			if !ok || v == s.MCV {
				continue
			}
			triples = append(triples, Triple{Row: uint32(row), Col: uint32(col), Value: v})
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading dense matrix `%s'", s.Path)
	}
	return triples, nil
}

// parseDenseCell applies spec §4.3.4's substitution rules: NaN -> 0.0,
// +-Inf -> +-1e38, non-numeric -> 0.0 with a warning. The bool result is
// false only when the caller should skip the cell entirely (never the case
// here, kept for symmetry with future substitution rules).
func parseDenseCell(field, path string, line, col int) (float32, bool) {
	f, err := strconv.ParseFloat(field, 32)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"file": path, "line": line, "column": col, "token": field,
		}).Warn("non-numeric matrix cell, substituting 0.0")
		return 0.0, true
	}
	switch {
	case math.IsNaN(f):
		return 0.0, true
	case math.IsInf(f, 1):
		return 1.0e38, true
	case math.IsInf(f, -1):
		return -1.0e38, true
	default:
		return float32(f), true
	}
}
