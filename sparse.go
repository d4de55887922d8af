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

// Sparse row store: accepts (rowBin, colBin, value) triples for one
// chromosome or chromosome pair and emits them grouped by row, sorted by
// (row, col), per spec §4.2.

import "sort"

import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

// SparseCell is one stored cell of a matrix.
type SparseCell struct {
	Row   uint32
	Col   uint32
	Value float32
}

/* explicit sort.Interface, following the teacher's sortIntPairs idiom
 * -------------------------------------------------------------------------- */

type sparseCellsByRowCol []SparseCell

func (s sparseCellsByRowCol) Len() int      { return len(s) }
func (s sparseCellsByRowCol) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s sparseCellsByRowCol) Less(i, j int) bool {
	if s[i].Row != s[j].Row {
		return s[i].Row < s[j].Row
	}
	return s[i].Col < s[j].Col
}

/* -------------------------------------------------------------------------- */

// RowStore collects sparse triples for one intrachromosomal or
// interchromosomal matrix.
type RowStore struct {
	// Intra selects the normalization rule: when true, a triple with
	// Row > Col is swapped so that Row <= Col always holds (upper
	// triangle, diagonal included).
	Intra bool

	cells  []SparseCell
	sorted bool
}

// NewRowStore allocates an empty store for an intrachromosomal (intra=true)
// or interchromosomal (intra=false) matrix.
func NewRowStore(intra bool) *RowStore {
	return &RowStore{Intra: intra}
}

// Add appends one triple, normalizing row<=col for intrachromosomal stores.
func (s *RowStore) Add(row, col uint32, value float32) {
	if s.Intra && row > col {
		row, col = col, row
	}
	s.cells = append(s.cells, SparseCell{Row: row, Col: col, Value: value})
	s.sorted = false
}

// Len returns the number of triples accumulated so far.
func (s *RowStore) Len() int {
	return len(s.cells)
}

// Sort orders the accumulated cells by (row, col) and rejects duplicate
// (row, col) pairs, per SPEC_FULL.md §9 (Open Question: reject at write
// time).
func (s *RowStore) Sort() error {
	sort.Sort(sparseCellsByRowCol(s.cells))
	for i := 1; i < len(s.cells); i++ {
		if s.cells[i].Row == s.cells[i-1].Row && s.cells[i].Col == s.cells[i-1].Col {
			return errors.Wrapf(ErrDuplicateCell, "(%d, %d)", s.cells[i].Row, s.cells[i].Col)
		}
	}
	s.sorted = true
	return nil
}

// Rows groups the sorted cells into rowCount row spans, in ascending row
// order, calling Sort first if the cells are not sorted yet. Rows with no
// cells are represented by a nil slice. A row index >= rowCount, or for an
// intrachromosomal store a column index >= rowCount, is reported as
// ErrBinOutOfRange.
func (s *RowStore) Rows(rowCount int) ([][]SparseCell, error) {
	if !s.sorted {
		if err := s.Sort(); err != nil {
			return nil, err
		}
	}
	rows := make([][]SparseCell, rowCount)
	i := 0
	for i < len(s.cells) {
		row := s.cells[i].Row
		if int(row) >= rowCount {
			return nil, errors.Wrapf(ErrBinOutOfRange, "row %d >= bin count %d", row, rowCount)
		}
		j := i
		for j < len(s.cells) && s.cells[j].Row == row {
			j++
		}
		if s.Intra && int(s.cells[j-1].Col) >= rowCount {
			return nil, errors.Wrapf(ErrBinOutOfRange, "col %d >= bin count %d", s.cells[j-1].Col, rowCount)
		}
		rows[row] = s.cells[i:j]
		i = j
	}
	return rows, nil
}
