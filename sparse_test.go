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

import "testing"

/* -------------------------------------------------------------------------- */

func TestRowStoreNormalization(t *testing.T) {

	s := NewRowStore(true)
	s.Add(5, 2, 1.0)

	if s.cells[0].Row != 2 || s.cells[0].Col != 5 {
		t.Errorf("TestRowStoreNormalization failed: got (%d,%d), expected (2,5)", s.cells[0].Row, s.cells[0].Col)
	}
}

func TestRowStoreNoNormalizationForInter(t *testing.T) {

	s := NewRowStore(false)
	s.Add(5, 2, 1.0)

	if s.cells[0].Row != 5 || s.cells[0].Col != 2 {
		t.Error("TestRowStoreNoNormalizationForInter failed: interchromosomal cells must not be swapped")
	}
}

func TestRowStoreDuplicateRejected(t *testing.T) {

	s := NewRowStore(true)
	s.Add(1, 2, 1.0)
	s.Add(1, 2, 2.0)

	if err := s.Sort(); err == nil {
		t.Error("TestRowStoreDuplicateRejected failed: expected a duplicate-cell error")
	}
}

func TestRowStoreRowsOrdering(t *testing.T) {

	s := NewRowStore(true)
	s.Add(0, 2, 1.0)
	s.Add(0, 1, 2.0)
	s.Add(1, 1, 3.0)

	rows, err := s.Rows(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("TestRowStoreRowsOrdering failed: got %d rows, expected 3", len(rows))
	}
	if len(rows[0]) != 2 || rows[0][0].Col != 1 || rows[0][1].Col != 2 {
		t.Errorf("TestRowStoreRowsOrdering failed: row 0 not sorted by column: %v", rows[0])
	}
	if len(rows[2]) != 0 {
		t.Error("TestRowStoreRowsOrdering failed: row 2 should be empty")
	}
}

func TestRowStoreBinOutOfRange(t *testing.T) {

	s := NewRowStore(true)
	s.Add(0, 5, 1.0)

	if _, err := s.Rows(3); err == nil {
		t.Error("TestRowStoreBinOutOfRange failed: expected an out-of-range error")
	}
}
