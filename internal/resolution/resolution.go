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

// Package resolution parses the compact resolution strings accepted by the
// BUTLR command-line tools: a bare base-pair count, or a count suffixed
// with k/m (case-insensitive) for *1000/*1000000, per spec §6.
package resolution

import "strconv"
import "strings"

import "github.com/pkg/errors"

// Parse converts s into a bin size in base pairs. Accepted forms: "5000",
// "5k" (5000), "1m" (1000000). The result must be strictly positive.
func Parse(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty resolution string")
	}

	mult := uint64(1)
	numeric := s
	switch s[len(s)-1] {
	case 'k', 'K':
		mult = 1000
		numeric = s[:len(s)-1]
	case 'm', 'M':
		mult = 1000000
		numeric = s[:len(s)-1]
	}

	n, err := strconv.ParseUint(numeric, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid resolution `%s'", s)
	}
	if n == 0 {
		return 0, errors.Errorf("invalid resolution `%s': must be positive", s)
	}
	v := n * mult
	if v > 0xFFFFFFFF {
		return 0, errors.Errorf("resolution `%s' overflows a 32-bit bin size", s)
	}
	return uint32(v), nil
}

// Format renders a bin size back into the compact form Parse accepts,
// preferring the largest suffix that divides evenly.
func Format(bp uint32) string {
	switch {
	case bp != 0 && bp%1000000 == 0:
		return strconv.FormatUint(uint64(bp)/1000000, 10) + "m"
	case bp != 0 && bp%1000 == 0:
		return strconv.FormatUint(uint64(bp)/1000, 10) + "k"
	default:
		return strconv.FormatUint(uint64(bp), 10)
	}
}
