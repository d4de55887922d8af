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

// Reader retrieves matrix regions from a BUTLR file, per spec §4.4. It
// opens the directories once and re-derives a Genome from the chromosome
// directory, so a file can be read back without a separate genome size
// file.

import "io"
import "os"

import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

// Reader is a read-only, single-threaded handle on a BUTLR file. Concurrent
// use from more than one goroutine is not supported, per SPEC_FULL.md §5.
type Reader struct {
	f      *os.File
	Header *Header
	genome Genome

	chroms map[string]ChromEntry
	pairs  map[string]PairEntry
}

// Open parses a BUTLR file's header and both directories.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening BUTLR file `%s'", path)
	}
	r := &Reader{f: f, chroms: map[string]ChromEntry{}, pairs: map[string]PairEntry{}}

	h, err := ReadHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.Header = h

	if _, err := f.Seek(int64(h.IntraDirOffset), io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	chromDirEnd := int64(h.HeaderSize)
	if h.InterDirOffset != 0 {
		chromDirEnd = int64(h.InterDirOffset)
	}
	chromEntries, err := readChromDirectory(f, chromDirEnd)
	if err != nil {
		f.Close()
		return nil, err
	}

	seqnames := make([]string, len(chromEntries))
	lengths := make([]uint32, len(chromEntries))
	for i, e := range chromEntries {
		r.chroms[e.Name] = e
		seqnames[i] = e.Name
		lengths[i] = e.Size
	}
	r.genome = NewGenome(seqnames, lengths)

	if h.InterDirOffset != 0 {
		if _, err := f.Seek(int64(h.InterDirOffset), io.SeekStart); err != nil {
			f.Close()
			return nil, err
		}
		pairEntries, err := readPairDirectory(f, int64(h.HeaderSize))
		if err != nil {
			f.Close()
			return nil, err
		}
		for _, p := range pairEntries {
			r.pairs[p.PairKey()] = p
		}
	}
	return r, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.f.Close()
}

// Genome returns the chromosome set recovered from the file's directory.
func (r *Reader) Genome() Genome {
	return r.genome
}

// HasChrom reports whether an intrachromosomal matrix is stored for name.
func (r *Reader) HasChrom(name string) bool {
	_, ok := r.chroms[name]
	return ok
}

// HasPair reports whether an interchromosomal matrix is stored for the
// unordered pair {a, b}.
func (r *Reader) HasPair(a, b string) bool {
	row, col := CanonicalPair(r.genome, a, b)
	_, ok := r.pairs[row+"\t"+col]
	return ok
}

// Chromosomes returns the file's intrachromosomal directory entries in
// genome sort order, for tools that print the directory without issuing a
// query (spec §4.4.1 header-only form).
func (r *Reader) Chromosomes() []ChromEntry {
	sorted := r.genome.SortedChromosomes()
	entries := make([]ChromEntry, 0, len(sorted))
	for _, name := range sorted {
		entries = append(entries, r.chroms[name])
	}
	return entries
}

// Pairs returns the file's interchromosomal directory entries in canonical
// iteration order (spec §4.3.3), for the same header-only directory dump.
func (r *Reader) Pairs() []PairEntry {
	sorted := r.genome.SortedChromosomes()
	var pairs []PairEntry
	for i := 0; i < len(sorted); i++ {
		for j := 0; j < i; j++ {
			row, col := CanonicalPair(r.genome, sorted[i], sorted[j])
			if e, ok := r.pairs[row+"\t"+col]; ok {
				pairs = append(pairs, e)
			}
		}
	}
	return pairs
}

/* row access
 * -------------------------------------------------------------------------- */

// readRow returns rowIdx's stored cells for chromEntry, whose matrix body
// has rowCount rows.
func (r *Reader) readRow(e ChromEntry, rowIdx, rowCount int) ([]SparseCell, error) {
	start, end, err := rowSpan(r.f, e.BodyOffset, rowIdx, rowCount)
	if err != nil {
		return nil, errors.Wrapf(err, "chromosome `%s', row %d", e.Name, rowIdx)
	}
	cells, err := readRowCells(r.f, start, end)
	if err != nil {
		return nil, errors.Wrapf(err, "chromosome `%s', row %d", e.Name, rowIdx)
	}
	for i := range cells {
		cells[i].Row = uint32(rowIdx)
	}
	return cells, nil
}

// filterByCol keeps the cells whose Col lies in [colStart, colEnd), relying
// on cells already being sorted ascending by Col within a row to stop early
// once the upper bound is passed (spec §4.4.2).
func filterByCol(cells []SparseCell, colStart, colEnd uint32) []SparseCell {
	var out []SparseCell
	for _, c := range cells {
		if c.Col >= colEnd {
			break
		}
		if c.Col >= colStart {
			out = append(out, c)
		}
	}
	return out
}

func checkRange(start, end uint32) error {
	if start > end {
		return ErrInvertedRange
	}
	return nil
}

/* intrachromosomal queries
 * -------------------------------------------------------------------------- */

// unionRanges merges two (possibly overlapping, possibly empty) [start,end)
// ranges into the minimal set of disjoint ranges covering both, so a caller
// that must visit every row touched by either range can do so without
// visiting any row twice.
func unionRanges(aStart, aEnd, bStart, bEnd uint32) [][2]uint32 {
	switch {
	case aEnd <= aStart && bEnd <= bStart:
		return nil
	case aEnd <= aStart:
		return [][2]uint32{{bStart, bEnd}}
	case bEnd <= bStart:
		return [][2]uint32{{aStart, aEnd}}
	}
	if aStart > bStart {
		aStart, bStart = bStart, aStart
		aEnd, bEnd = bEnd, aEnd
	}
	if bStart > aEnd {
		return [][2]uint32{{aStart, aEnd}, {bStart, bEnd}}
	}
	hi := aEnd
	if bEnd > hi {
		hi = bEnd
	}
	return [][2]uint32{{aStart, hi}}
}

// QueryIntra returns every stored cell of chrom's matrix whose (row, col)
// falls in [rowStart, rowEnd) x [colStart, colEnd), reconstructing the
// lower triangle from the stored upper triangle by reflection (spec
// §4.4.3): a stored cell (s, t) answers a query for (s, t) and,
// symmetrically, for (t, s), independently of one another -- both can fall
// inside the requested box at once, which is the common case for a query
// whose row and column ranges coincide or overlap.
func (r *Reader) QueryIntra(chrom string, rowStart, rowEnd, colStart, colEnd uint32) ([]SparseCell, error) {
	e, ok := r.chroms[chrom]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownChromosome, "%s", chrom)
	}
	if err := checkRange(rowStart, rowEnd); err != nil {
		return nil, err
	}
	if err := checkRange(colStart, colEnd); err != nil {
		return nil, err
	}
	rowCount := int(e.Size)/int(r.Header.Resolution) + 1

	var out []SparseCell
	for _, span := range unionRanges(rowStart, rowEnd, colStart, colEnd) {
		for row := span[0]; row < span[1] && int(row) < rowCount; row++ {
			cells, err := r.readRow(e, int(row), rowCount)
			if err != nil {
				return nil, err
			}
			for _, c := range cells {
				if c.Row >= rowStart && c.Row < rowEnd && c.Col >= colStart && c.Col < colEnd {
					out = append(out, c)
				}
				if c.Col >= rowStart && c.Col < rowEnd && c.Row >= colStart && c.Row < colEnd && c.Row != c.Col {
					out = append(out, SparseCell{Row: c.Col, Col: c.Row, Value: c.Value})
				}
			}
		}
	}
	return out, nil
}

// GetIntra returns the value stored at (i, j) of chrom's matrix, or
// ok == false if the cell is absent (implicit zero). Reconstructs the
// lower triangle by transposing the point query when i > j (spec §4.4.3).
func (r *Reader) GetIntra(chrom string, i, j uint32) (value float32, ok bool, err error) {
	if i > j {
		i, j = j, i
	}
	e, present := r.chroms[chrom]
	if !present {
		return 0, false, errors.Wrapf(ErrUnknownChromosome, "%s", chrom)
	}
	rowCount := int(e.Size)/int(r.Header.Resolution) + 1
	if int(i) >= rowCount || int(j) >= rowCount {
		return 0, false, errors.Wrapf(ErrBinOutOfRange, "chromosome `%s': (%d,%d)", chrom, i, j)
	}
	cells, err := r.readRow(e, int(i), rowCount)
	if err != nil {
		return 0, false, err
	}
	for _, c := range cells {
		if c.Col == j {
			return c.Value, true, nil
		}
		if c.Col > j {
			break
		}
	}
	return 0, false, nil
}

/* interchromosomal queries
 * -------------------------------------------------------------------------- */

// pairBounds returns the directory entry of the canonical orientation of
// {a, b}, together with the bin counts of its stored row and column
// chromosomes.
func (r *Reader) pairBounds(a, b string) (e PairEntry, rowCount, colCount int, err error) {
	row, col := CanonicalPair(r.genome, a, b)
	e, ok := r.pairs[row+"\t"+col]
	if !ok {
		return PairEntry{}, 0, 0, errors.Wrapf(ErrUnknownPair, "%s, %s", a, b)
	}
	rowChromEntry, ok := r.chroms[row]
	if !ok {
		return PairEntry{}, 0, 0, errors.Wrapf(ErrUnknownChromosome, "%s", row)
	}
	colChromEntry, ok := r.chroms[col]
	if !ok {
		return PairEntry{}, 0, 0, errors.Wrapf(ErrUnknownChromosome, "%s", col)
	}
	rowCount = int(rowChromEntry.Size)/int(r.Header.Resolution) + 1
	colCount = int(colChromEntry.Size)/int(r.Header.Resolution) + 1
	return e, rowCount, colCount, nil
}

func (r *Reader) readPairRow(e PairEntry, rowIdx, rowCount int) ([]SparseCell, error) {
	start, end, err := rowSpan(r.f, e.BodyOffset, rowIdx, rowCount)
	if err != nil {
		return nil, errors.Wrapf(err, "pair `%s', row %d", e.PairKey(), rowIdx)
	}
	cells, err := readRowCells(r.f, start, end)
	if err != nil {
		return nil, errors.Wrapf(err, "pair `%s', row %d", e.PairKey(), rowIdx)
	}
	for i := range cells {
		cells[i].Row = uint32(rowIdx)
	}
	return cells, nil
}

// QueryInter returns every stored cell of the interchromosomal matrix for
// {chromX, chromY} whose bin falls in [xStart, xEnd) along chromX and
// [yStart, yEnd) along chromY, in the caller's (chromX, chromY) axis
// orientation regardless of which chromosome is the canonical row (spec
// §4.4.4): when chromX is the canonical column, the stored rectangle is
// read by the canonical row's range and every returned cell is transposed
// before being reported.
func (r *Reader) QueryInter(chromX, chromY string, xStart, xEnd, yStart, yEnd uint32) ([]SparseCell, error) {
	if err := checkRange(xStart, xEnd); err != nil {
		return nil, err
	}
	if err := checkRange(yStart, yEnd); err != nil {
		return nil, err
	}
	rowChrom, _ := CanonicalPair(r.genome, chromX, chromY)
	e, rowCount, _, err := r.pairBounds(chromX, chromY)
	if err != nil {
		return nil, err
	}

	transpose := chromX != rowChrom
	storedRowStart, storedRowEnd := xStart, xEnd
	storedColStart, storedColEnd := yStart, yEnd
	if transpose {
		storedRowStart, storedRowEnd = yStart, yEnd
		storedColStart, storedColEnd = xStart, xEnd
	}

	var out []SparseCell
	for row := storedRowStart; row < storedRowEnd && int(row) < rowCount; row++ {
		cells, err := r.readPairRow(e, int(row), rowCount)
		if err != nil {
			return nil, err
		}
		for _, c := range filterByCol(cells, storedColStart, storedColEnd) {
			if transpose {
				out = append(out, SparseCell{Row: c.Col, Col: c.Row, Value: c.Value})
			} else {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// GetInter returns the value stored for (chromX bin x, chromY bin y), or
// ok == false if the cell is absent.
func (r *Reader) GetInter(chromX, chromY string, x, y uint32) (value float32, ok bool, err error) {
	rowChrom, _ := CanonicalPair(r.genome, chromX, chromY)
	e, rowCount, colCount, err := r.pairBounds(chromX, chromY)
	if err != nil {
		return 0, false, err
	}

	rowBin, colBin := x, y
	if chromX != rowChrom {
		rowBin, colBin = y, x
	}
	if int(rowBin) >= rowCount || int(colBin) >= colCount {
		return 0, false, errors.Wrapf(ErrBinOutOfRange, "pair `%s': (%d,%d)", e.PairKey(), rowBin, colBin)
	}
	cells, err := r.readPairRow(e, int(rowBin), rowCount)
	if err != nil {
		return 0, false, err
	}
	for _, c := range cells {
		if c.Col == colBin {
			return c.Value, true, nil
		}
		if c.Col > colBin {
			break
		}
	}
	return 0, false, nil
}
