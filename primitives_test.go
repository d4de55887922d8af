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

import "bytes"
import "testing"

/* -------------------------------------------------------------------------- */

func TestNulStringRoundTrip(t *testing.T) {

	var buf bytes.Buffer
	if err := writeNulString(&buf, "chr1"); err != nil {
		t.Fatal(err)
	}
	// a second string immediately after must not be disturbed by an
	// over-read of the first.
	if err := writeNulString(&buf, "chr2"); err != nil {
		t.Fatal(err)
	}

	s1, err := readNulString(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if s1 != "chr1" {
		t.Errorf("TestNulStringRoundTrip failed: got `%s'", s1)
	}
	s2, err := readNulString(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if s2 != "chr2" {
		t.Errorf("TestNulStringRoundTrip failed: got `%s'", s2)
	}
}

func TestNulStringPadded(t *testing.T) {

	var buf bytes.Buffer
	if err := writeNulStringPadded(&buf, "BUTLR1", VersionFieldSize); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != VersionFieldSize {
		t.Errorf("TestNulStringPadded failed: wrote %d bytes, expected %d", buf.Len(), VersionFieldSize)
	}
	s, err := readNulStringFixed(&buf, VersionFieldSize)
	if err != nil {
		t.Fatal(err)
	}
	if s != "BUTLR1" {
		t.Errorf("TestNulStringPadded failed: got `%s'", s)
	}
}

func TestUint32RoundTrip(t *testing.T) {

	var buf bytes.Buffer
	if err := putUint32(&buf, 123456789); err != nil {
		t.Fatal(err)
	}
	v, err := getUint32(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if v != 123456789 {
		t.Errorf("TestUint32RoundTrip failed: got %d", v)
	}
}

func TestFloat32RoundTrip(t *testing.T) {

	var buf bytes.Buffer
	if err := putFloat32(&buf, 3.5); err != nil {
		t.Fatal(err)
	}
	v, err := getFloat32(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if v != 3.5 {
		t.Errorf("TestFloat32RoundTrip failed: got %v", v)
	}
}
