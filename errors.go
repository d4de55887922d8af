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

// Error taxonomy per spec §7. These are sentinels to be compared with
// errors.Is/errors.Cause; callers get additional context wrapped around
// them via github.com/pkg/errors.

import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

var (
	// ErrUnknownChromosome is returned when a chromosome referenced by a
	// manifest or query is not present in the genome or file directory.
	ErrUnknownChromosome = errors.New("unknown chromosome")

	// ErrUnknownPair is returned when a query requests an interchromosomal
	// pair that is not stored in the file.
	ErrUnknownPair = errors.New("chromosome pair not present in file")

	// ErrInvertedRange is returned when a query's end bound precedes its
	// start bound.
	ErrInvertedRange = errors.New("inverted query range")

	// ErrNegativeBin is returned when a query location has a negative
	// bound. Source coordinates are parsed as unsigned integers and fail
	// with a parse error instead.
	ErrNegativeBin = errors.New("negative bin index")

	// ErrBinOutOfRange is returned when a source coordinate's bin index is
	// not strictly less than the chromosome's bin count.
	ErrBinOutOfRange = errors.New("bin index out of range")

	// ErrDuplicateCell is returned when a matrix source contains two
	// triples with the same (row, col) pair (see SPEC_FULL.md §9).
	ErrDuplicateCell = errors.New("duplicate (row, col) cell")

	// ErrTruncatedFile is returned when a read runs past the declared
	// extent of a structure (short read, truncated directory, truncated
	// row-offset table).
	ErrTruncatedFile = errors.New("truncated BUTLR file")

	// ErrNotBUTLR is returned when a file's header does not match the
	// expected layout.
	ErrNotBUTLR = errors.New("not a valid BUTLR file")
)
