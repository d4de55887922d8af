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

func testGenome() Genome {
	return NewGenome([]string{"chr1", "chr2", "chrX"}, []uint32{3000, 2000, 1000})
}

func TestWriteManifestAtomicOnFailure(t *testing.T) {

	genome := testGenome()
	path := "writer_test.atomic.tmp.butlr"

	manifest := []ManifestEntry{{ChromA: "chrDoesNotExist", Path: "/dev/null"}}
	err := WriteManifest(path, genome, WriteOpts{Assembly: "test", Resolution: 1000}, manifest,
		func(entry ManifestEntry, row, col string) (MatrixSource, error) {
			return &CoordinateListSource{Path: entry.Path, Resolution: 1000}, nil
		})
	if err == nil {
		t.Fatal("TestWriteManifestAtomicOnFailure failed: expected an error for an unknown chromosome")
	}
	if _, statErr := os.Stat(path); statErr == nil {
		os.Remove(path)
		t.Error("TestWriteManifestAtomicOnFailure failed: partial file was not deleted")
	}
}

func TestWriteManifestIntraAndInter(t *testing.T) {

	genome := testGenome()
	path := "writer_test.roundtrip.tmp.butlr"
	defer os.Remove(path)

	chr1 := writeTmpFile(t, "0\t1000\t1.0\n1000\t2000\t2.0\n")
	chr1chrX := writeTmpFile(t, "0\t0\t9.0\n")

	manifest := []ManifestEntry{
		{ChromA: "chr1", Path: chr1},
		{ChromA: "chr1", ChromB: "chrX", Path: chr1chrX},
	}

	err := WriteManifest(path, genome, WriteOpts{Assembly: "test", Resolution: 1000}, manifest,
		func(entry ManifestEntry, row, col string) (MatrixSource, error) {
			return &CoordinateListSource{
				Path:       entry.Path,
				Resolution: 1000,
				Swap:       !entry.Intra() && entry.ChromA != row,
			}, nil
		})
	if err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if !r.HasChrom("chr1") {
		t.Error("TestWriteManifestIntraAndInter failed: chr1 body missing")
	}
	if !r.HasPair("chr1", "chrX") {
		t.Error("TestWriteManifestIntraAndInter failed: chr1/chrX pair missing")
	}
	v, ok, err := r.GetIntra("chr1", 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != 1.0 {
		t.Errorf("TestWriteManifestIntraAndInter failed: got (%v,%v)", v, ok)
	}
}
