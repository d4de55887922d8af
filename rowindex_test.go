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

import "os"
import "testing"

/* -------------------------------------------------------------------------- */

func tmpFile(t *testing.T) *os.File {
	f, err := os.CreateTemp("", "butlr-rowindex-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		f.Close()
		os.Remove(f.Name())
	})
	return f
}

func TestWriteMatrixBodySentinelNeverZero(t *testing.T) {

	f := tmpFile(t)

	rows := [][]SparseCell{
		nil,
		{{Row: 1, Col: 1, Value: 1.0}},
		nil,
	}
	bodyOffset, err := writeMatrixBody(f, rows)
	if err != nil {
		t.Fatal(err)
	}

	sentinel, err := readRowOffsetEntry(f, bodyOffset, len(rows))
	if err != nil {
		t.Fatal(err)
	}
	if sentinel == 0 {
		t.Error("TestWriteMatrixBodySentinelNeverZero failed: sentinel must never be 0")
	}
	if sentinel != bodyOffset {
		t.Errorf("TestWriteMatrixBodySentinelNeverZero failed: sentinel %d != body offset %d", sentinel, bodyOffset)
	}
}

func TestWriteMatrixBodyEmptyRowIsZero(t *testing.T) {

	f := tmpFile(t)

	rows := [][]SparseCell{
		nil,
		{{Row: 1, Col: 3, Value: 9.0}},
		nil,
		nil,
	}
	bodyOffset, err := writeMatrixBody(f, rows)
	if err != nil {
		t.Fatal(err)
	}

	entry0, err := readRowOffsetEntry(f, bodyOffset, 0)
	if err != nil {
		t.Fatal(err)
	}
	if entry0 != 0 {
		t.Errorf("TestWriteMatrixBodyEmptyRowIsZero failed: empty row 0 has offset %d, expected 0", entry0)
	}

	start, end, err := rowSpan(f, bodyOffset, 2, len(rows))
	if err != nil {
		t.Fatal(err)
	}
	if start != 0 || end != 0 {
		t.Errorf("TestWriteMatrixBodyEmptyRowIsZero failed: empty row span (%d,%d), expected (0,0)", start, end)
	}
}

func TestRowSpanSkipsEmptyRows(t *testing.T) {

	f := tmpFile(t)

	rows := [][]SparseCell{
		{{Row: 0, Col: 1, Value: 1.0}, {Row: 0, Col: 2, Value: 2.0}},
		nil,
		nil,
		{{Row: 3, Col: 3, Value: 3.0}},
	}
	// In a real file the body follows the header, so no row starts at
	// offset 0, which the table reserves for empty rows.
	if _, err := f.Write(make([]byte, 8)); err != nil {
		t.Fatal(err)
	}
	bodyOffset, err := writeMatrixBody(f, rows)
	if err != nil {
		t.Fatal(err)
	}

	start, end, err := rowSpan(f, bodyOffset, 0, len(rows))
	if err != nil {
		t.Fatal(err)
	}
	cells, err := readRowCells(f, start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 2 {
		t.Fatalf("TestRowSpanSkipsEmptyRows failed: got %d cells, expected 2", len(cells))
	}
	if cells[0].Col != 1 || cells[1].Col != 2 {
		t.Errorf("TestRowSpanSkipsEmptyRows failed: got %v", cells)
	}
}
