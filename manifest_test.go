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

func TestLoadManifestMixedEntries(t *testing.T) {

	path := writeTmpFile(t, "chr1\tchr1.coo\nchr1\tchr2\tchr1_chr2.coo\n")

	entries, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("TestLoadManifestMixedEntries failed: got %d entries", len(entries))
	}
	if !entries[0].Intra() {
		t.Error("TestLoadManifestMixedEntries failed: two-field entry should be intrachromosomal")
	}
	if entries[1].Intra() {
		t.Error("TestLoadManifestMixedEntries failed: distinct chromA/chromB entry should be interchromosomal")
	}
}

func TestLoadManifestRejectsMalformedLine(t *testing.T) {

	path := writeTmpFile(t, "chr1\tchr2\tchr3\tpath\n")

	if _, err := LoadManifest(path); err == nil {
		t.Error("TestLoadManifestRejectsMalformedLine failed: expected an error for a 4-field line")
	}
}
