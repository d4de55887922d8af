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

package resolution

/* -------------------------------------------------------------------------- */

import "testing"

/* -------------------------------------------------------------------------- */

func TestParse(t *testing.T) {

	cases := []struct {
		in   string
		want uint32
	}{
		{"5000", 5000},
		{"5k", 5000},
		{"5K", 5000},
		{"1m", 1000000},
		{"1M", 1000000},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseRejectsZeroAndGarbage(t *testing.T) {

	for _, in := range []string{"0", "0k", "abc", ""} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) should have failed", in)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {

	for _, bp := range []uint32{5000, 1000000, 123} {
		s := Format(bp)
		got, err := Parse(s)
		if err != nil {
			t.Fatal(err)
		}
		if got != bp {
			t.Errorf("Format(%d) -> Parse(%q) = %d, want %d", bp, s, got, bp)
		}
	}
}
