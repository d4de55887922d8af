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

// Sparse cell region + row-offset table codec, per spec §4.3.1 and the Row-
// offset table entry in §3. A matrix body is the concatenation of:
//
//   cells: (colBin:u32 | value:f32) pairs, grouped by row in ascending order
//   table: (rowCount+1) absolute u64 offsets, entry i = start of row i's
//           cells or 0 if row i is empty; entry rowCount is the sentinel,
//           equal to the absolute offset of the table itself.

import "io"

import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

const cellSize = 4 + 4 // colBin:u32 + value:f32

// writeMatrixBody writes one matrix's sparse cell region followed by its
// row-offset table, and returns the body offset to store in the directory
// entry: the absolute position of the row-offset table itself (per
// write-protocol step 6 — "the body offset stored is the start of the
// row-offset table, not the start of the cell region").
func writeMatrixBody(w io.WriteSeeker, rows [][]SparseCell) (uint64, error) {
	offsets := make([]uint64, len(rows)+1)
	for i, row := range rows {
		if len(row) == 0 {
			offsets[i] = 0
			continue
		}
		pos, err := w.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		offsets[i] = uint64(pos)
		for _, cell := range row {
			if err := putUint32(w, cell.Col); err != nil {
				return 0, err
			}
			if err := putFloat32(w, cell.Value); err != nil {
				return 0, err
			}
		}
	}
	tablePos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	offsets[len(rows)] = uint64(tablePos)

	for _, off := range offsets {
		if err := putUint64(w, off); err != nil {
			return 0, err
		}
	}
	return uint64(tablePos), nil
}

/* read
 * -------------------------------------------------------------------------- */

// readRowOffsetEntry reads a single row-offset table entry at logical
// index idx (0..rowCount, where rowCount is the sentinel).
func readRowOffsetEntry(r io.ReadSeeker, bodyOffset uint64, idx int) (uint64, error) {
	var v uint64
	if err := fileReadAt(r, int64(bodyOffset)+8*int64(idx), &v); err != nil {
		return 0, errors.Wrapf(ErrTruncatedFile, "row-offset entry %d: %v", idx, err)
	}
	return v, nil
}

// rowSpan returns the [start, end) byte range of row rowIdx's cells. If the
// row is empty, start==end==0 is returned as a signal to contribute no
// cells, per the retrieval algorithm in spec §4.4.2 step 2. end is found by
// scanning forward past any intervening empty rows to the next non-zero
// offset, per the Row-offset table definition in spec §3; the sentinel at
// index rowCount guarantees that scan terminates.
func rowSpan(r io.ReadSeeker, bodyOffset uint64, rowIdx, rowCount int) (start, end uint64, err error) {
	if rowIdx < 0 || rowIdx >= rowCount {
		return 0, 0, errors.Wrapf(ErrTruncatedFile, "row %d out of range [0,%d)", rowIdx, rowCount)
	}
	start, err = readRowOffsetEntry(r, bodyOffset, rowIdx)
	if err != nil {
		return 0, 0, err
	}
	if start == 0 {
		return 0, 0, nil
	}
	for i := rowIdx + 1; i <= rowCount; i++ {
		v, err := readRowOffsetEntry(r, bodyOffset, i)
		if err != nil {
			return 0, 0, err
		}
		if v != 0 {
			return start, v, nil
		}
	}
	return 0, 0, errors.Wrap(ErrTruncatedFile, "row-offset table has no non-zero sentinel")
}

// readRowCells reads every (colBin, value) pair in [start, end) from r.
func readRowCells(r io.ReadSeeker, start, end uint64) ([]SparseCell, error) {
	if start == end {
		return nil, nil
	}
	if _, err := r.Seek(int64(start), io.SeekStart); err != nil {
		return nil, err
	}
	n := int(end-start) / cellSize
	if n*cellSize != int(end-start) {
		return nil, errors.Wrap(ErrTruncatedFile, "row cell region is not a whole number of cells")
	}
	cells := make([]SparseCell, n)
	for i := 0; i < n; i++ {
		col, err := getUint32(r)
		if err != nil {
			return nil, errors.Wrap(ErrTruncatedFile, "reading cell column")
		}
		val, err := getFloat32(r)
		if err != nil {
			return nil, errors.Wrap(ErrTruncatedFile, "reading cell value")
		}
		cells[i] = SparseCell{Col: col, Value: val}
	}
	return cells, nil
}
