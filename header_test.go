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

import "io"
import "testing"

/* -------------------------------------------------------------------------- */

func TestHeaderBackpatching(t *testing.T) {

	f := tmpFile(t)

	h := &Header{Version: "BUTLR1", Assembly: "hg19", Resolution: 10000, MCV: 0.0}
	if err := writeHeaderPlaceholders(f, h); err != nil {
		t.Fatal(err)
	}
	if err := patchIntraDirOffset(f, 42); err != nil {
		t.Fatal(err)
	}
	if err := patchInterDirOffset(f, 99); err != nil {
		t.Fatal(err)
	}
	if err := patchHeaderSize(f, 123); err != nil {
		t.Fatal(err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	got, err := ReadHeader(f)
	if err != nil {
		t.Fatal(err)
	}
	if got.HeaderSize != 123 || got.IntraDirOffset != 42 || got.InterDirOffset != 99 {
		t.Errorf("TestHeaderBackpatching failed: got %+v", got)
	}
	if got.Assembly != "hg19" || got.Resolution != 10000 {
		t.Errorf("TestHeaderBackpatching failed: got %+v", got)
	}
}

func TestReadHeaderRejectsUnbackpatched(t *testing.T) {

	f := tmpFile(t)

	h := &Header{Version: "BUTLR1"}
	if err := writeHeaderPlaceholders(f, h); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadHeader(f); err == nil {
		t.Error("TestReadHeaderRejectsUnbackpatched failed: expected an error for an unbackpatched header")
	}
}
