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

func writeTmpFile(t *testing.T, content string) string {
	f, err := os.CreateTemp("", "butlr-ingest-*")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

func TestCoordinateListSourceBinConversion(t *testing.T) {

	path := writeTmpFile(t, "1000\t2000\t3.5\n0\t5000\t1.0\n")
	src := &CoordinateListSource{Path: path, Resolution: 1000}

	triples, err := src.Triples()
	if err != nil {
		t.Fatal(err)
	}
	if len(triples) != 2 {
		t.Fatalf("TestCoordinateListSourceBinConversion failed: got %d triples", len(triples))
	}
	if triples[0].Row != 1 || triples[0].Col != 2 || triples[0].Value != 3.5 {
		t.Errorf("TestCoordinateListSourceBinConversion failed: got %+v", triples[0])
	}
}

func TestCoordinateListSourceSwap(t *testing.T) {

	path := writeTmpFile(t, "1000\t2000\t3.5\n")
	src := &CoordinateListSource{Path: path, Resolution: 1000, Swap: true}

	triples, err := src.Triples()
	if err != nil {
		t.Fatal(err)
	}
	if triples[0].Row != 2 || triples[0].Col != 1 {
		t.Errorf("TestCoordinateListSourceSwap failed: got %+v", triples[0])
	}
}

func TestDenseMatrixSourceIntraUpperTriangleOnly(t *testing.T) {

	path := writeTmpFile(t, "1.0\t2.0\t3.0\n2.0\t4.0\t5.0\n3.0\t5.0\t6.0\n")
	src := &DenseMatrixSource{Path: path, Intra: true}

	triples, err := src.Triples()
	if err != nil {
		t.Fatal(err)
	}
	for _, tr := range triples {
		if tr.Row > tr.Col {
			t.Errorf("TestDenseMatrixSourceIntraUpperTriangleOnly failed: lower-triangle cell %+v leaked through", tr)
		}
	}
	if len(triples) != 6 {
		t.Errorf("TestDenseMatrixSourceIntraUpperTriangleOnly failed: got %d cells, expected 6", len(triples))
	}
}

func TestDenseMatrixSourceSkipsMCV(t *testing.T) {

	path := writeTmpFile(t, "0.0\t0.0\n0.0\t9.0\n")
	src := &DenseMatrixSource{Path: path, MCV: 0.0}

	triples, err := src.Triples()
	if err != nil {
		t.Fatal(err)
	}
	if len(triples) != 1 || triples[0].Value != 9.0 {
		t.Errorf("TestDenseMatrixSourceSkipsMCV failed: got %+v", triples)
	}
}

func TestDenseMatrixSourceSkipsHeaderAndLabels(t *testing.T) {

	path := writeTmpFile(t, "header\tbin1\tbin2\nlabel\t1.0\t2.0\n")
	src := &DenseMatrixSource{Path: path, SkipRows: 1, SkipCols: 1}

	triples, err := src.Triples()
	if err != nil {
		t.Fatal(err)
	}
	if len(triples) != 2 {
		t.Fatalf("TestDenseMatrixSourceSkipsHeaderAndLabels failed: got %d cells", len(triples))
	}
	if triples[0].Row != 0 || triples[0].Col != 0 || triples[0].Value != 1.0 {
		t.Errorf("TestDenseMatrixSourceSkipsHeaderAndLabels failed: got %+v", triples[0])
	}
}
