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

// Writer implements the two-pass, seek-and-patch write protocol of spec
// §4.3.2. Grounded on the teacher's BigWigWriter.Create/WriteChromList/
// WriteIndex/Close sequence (bigWig.go): remember the write cursor before
// writing a placeholder, then fileWriteAt the real value back once it is
// known.

import "io"
import "os"

import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

// WriteOpts configures a new BUTLR file.
type WriteOpts struct {
	Assembly   string
	Resolution uint32
	// Version defaults to DefaultVersion when empty.
	Version string
	// MCV defaults to 0.0, the only value this implementation supports on
	// read (SPEC_FULL.md §9).
	MCV float32
}

func (o *WriteOpts) setDefaults() {
	if o.Version == "" {
		o.Version = DefaultVersion
	}
}

/* -------------------------------------------------------------------------- */

// Writer produces a single BUTLR file through the ordered sequence of
// calls documented on each method below. Every exit path -- success or
// failure -- must end in either Close or Abort; SPEC_FULL.md §5 requires
// the partial file be deleted on any failure path.
type Writer struct {
	path   string
	f      *os.File
	genome Genome
	opts   WriteOpts

	chromEntries map[string]*ChromEntry
	pairEntries  map[string]*PairEntry

	closed bool
}

// NewWriter creates path and writes the fixed header prefix (write-protocol
// step 1) followed by the intrachromosomal-directory offset backpatch
// (step 2). The genome is used only to look up chromosome sizes; it is not
// itself encoded in the header beyond the chromosome entries callers write
// via WriteChromosomes.
//
// NewWriter never returns a non-nil *Writer alongside a non-nil error: a
// failure partway through the header prefix unlinks path itself, so a
// caller that bails out on error without registering its own cleanup never
// leaves a partial file behind (spec §4.3.5/§5).
func NewWriter(path string, genome Genome, opts WriteOpts) (*Writer, error) {
	opts.setDefaults()

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating BUTLR file `%s'", path)
	}
	fail := func(err error) (*Writer, error) {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}

	h := &Header{
		Version:    opts.Version,
		Assembly:   opts.Assembly,
		Resolution: opts.Resolution,
		MCV:        opts.MCV,
	}
	if err := writeHeaderPlaceholders(f, h); err != nil {
		return fail(errors.Wrap(err, "writing header"))
	}
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return fail(err)
	}
	if err := patchIntraDirOffset(f, uint32(pos)); err != nil {
		return fail(errors.Wrap(err, "patching intrachromosomal directory offset"))
	}
	return &Writer{
		path:         path,
		f:            f,
		genome:       genome,
		opts:         opts,
		chromEntries: map[string]*ChromEntry{},
		pairEntries:  map[string]*PairEntry{},
	}, nil
}

// WriteChromosomes writes the intrachromosomal directory (write-protocol
// step 3): one placeholder ChromEntry per name, in the order given. Callers
// pass names in SortedChromosomes order, restricted to chromosomes present
// in the manifest, per spec §4.3.1.
func (w *Writer) WriteChromosomes(names []string) error {
	for _, name := range names {
		size, err := w.genome.SeqLength(name)
		if err != nil {
			return errors.Wrapf(ErrUnknownChromosome, "%s", name)
		}
		e := &ChromEntry{Name: name, Size: size}
		if err := writeChromEntry(w.f, e); err != nil {
			return errors.Wrapf(err, "writing chromosome directory entry `%s'", name)
		}
		w.chromEntries[name] = e
	}
	return nil
}

// WritePairs writes the interchromosomal directory, if any pairs are given
// (write-protocol step 4). pairs must already be in canonical row/col form
// and in canonical iteration order (see CanonicalPairOrder).
func (w *Writer) WritePairs(pairs []PairEntry) error {
	if len(pairs) == 0 {
		return nil
	}
	pos, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if err := patchInterDirOffset(w.f, uint32(pos)); err != nil {
		return errors.Wrap(err, "patching interchromosomal directory offset")
	}
	for _, p := range pairs {
		e := &PairEntry{RowChrom: p.RowChrom, ColChrom: p.ColChrom}
		if err := writePairEntry(w.f, e); err != nil {
			return errors.Wrapf(err, "writing pair directory entry `%s'", e.PairKey())
		}
		w.pairEntries[e.PairKey()] = e
	}
	return nil
}

// FinishDirectories backpatches the header size field with the current
// write cursor, i.e. the offset one past both directories (write-protocol
// step 5). It must be called exactly once, after WriteChromosomes and
// WritePairs and before any body is written.
func (w *Writer) FinishDirectories() error {
	pos, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	return errors.Wrap(patchHeaderSize(w.f, uint32(pos)), "patching header size")
}

/* body writes
 * -------------------------------------------------------------------------- */

// WriteChromBody streams source's triples into the intrachromosomal matrix
// body for name and backpatches its directory entry (write-protocol step
// 6).
func (w *Writer) WriteChromBody(name string, source MatrixSource) error {
	e, ok := w.chromEntries[name]
	if !ok {
		return errors.Wrapf(ErrUnknownChromosome, "`%s' has no directory entry", name)
	}
	rowCount, err := w.genome.NumBins(name, w.opts.Resolution)
	if err != nil {
		return err
	}
	triples, err := source.Triples()
	if err != nil {
		return errors.Wrapf(err, "reading source matrix for `%s'", name)
	}
	store := NewRowStore(true)
	for _, t := range triples {
		if int(t.Row) >= rowCount || int(t.Col) >= rowCount {
			return errors.Wrapf(ErrBinOutOfRange, "chromosome `%s': cell (%d,%d), bin count %d", name, t.Row, t.Col, rowCount)
		}
		store.Add(t.Row, t.Col, t.Value)
	}
	rows, err := store.Rows(rowCount)
	if err != nil {
		return errors.Wrapf(err, "chromosome `%s'", name)
	}
	bodyOffset, err := writeMatrixBody(w.f, rows)
	if err != nil {
		return errors.Wrapf(err, "writing matrix body for `%s'", name)
	}
	return patchBodyOffset(w.f, e.bodyOffsetPos, bodyOffset)
}

// WritePairBody streams source's triples into the interchromosomal matrix
// body for the canonical pair (rowChrom, colChrom) and backpatches its
// directory entry (write-protocol step 7).
func (w *Writer) WritePairBody(rowChrom, colChrom string, source MatrixSource) error {
	key := rowChrom + "\t" + colChrom
	e, ok := w.pairEntries[key]
	if !ok {
		return errors.Wrapf(ErrUnknownPair, "`%s' has no directory entry", key)
	}
	rowCount, err := w.genome.NumBins(rowChrom, w.opts.Resolution)
	if err != nil {
		return err
	}
	colCount, err := w.genome.NumBins(colChrom, w.opts.Resolution)
	if err != nil {
		return err
	}
	triples, err := source.Triples()
	if err != nil {
		return errors.Wrapf(err, "reading source matrix for `%s'", key)
	}
	store := NewRowStore(false)
	for _, t := range triples {
		if int(t.Row) >= rowCount {
			return errors.Wrapf(ErrBinOutOfRange, "pair `%s': row %d, bin count %d", key, t.Row, rowCount)
		}
		if int(t.Col) >= colCount {
			return errors.Wrapf(ErrBinOutOfRange, "pair `%s': col %d, bin count %d", key, t.Col, colCount)
		}
		store.Add(t.Row, t.Col, t.Value)
	}
	rows, err := store.Rows(rowCount)
	if err != nil {
		return errors.Wrapf(err, "pair `%s'", key)
	}
	bodyOffset, err := writeMatrixBody(w.f, rows)
	if err != nil {
		return errors.Wrapf(err, "writing matrix body for `%s'", key)
	}
	return patchBodyOffset(w.f, e.bodyOffsetPos, bodyOffset)
}

/* close / abort
 * -------------------------------------------------------------------------- */

// Close closes the output file (write-protocol step 8). It does not
// validate that every directory entry was backpatched; callers that detect
// a failure partway through the protocol must call Abort instead.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.f.Close()
}

// Abort closes the output file (best effort) and deletes it, per the
// mandatory unlink-on-failure semantics of spec §4.3.5/§5.
func (w *Writer) Abort() error {
	_ = w.Close()
	return os.Remove(w.path)
}

/* -------------------------------------------------------------------------- */

// CanonicalPairOrder returns the interchromosomal pairs present in
// manifest, in canonical iteration order (spec §4.3.3): for all (i, j) with
// i > j in genome.SortedChromosomes(), the pair (sorted[i], sorted[j]) is
// considered if present, in either orientation, in manifest.
func CanonicalPairOrder(genome Genome, manifest []ManifestEntry) []PairEntry {
	present := map[string]bool{}
	for _, e := range manifest {
		if e.Intra() {
			continue
		}
		row, col := CanonicalPair(genome, e.ChromA, e.ChromB)
		present[row+"\t"+col] = true
	}

	sorted := genome.SortedChromosomes()
	var pairs []PairEntry
	for i := 0; i < len(sorted); i++ {
		for j := 0; j < i; j++ {
			row, col := CanonicalPair(genome, sorted[i], sorted[j])
			if present[row+"\t"+col] {
				pairs = append(pairs, PairEntry{RowChrom: row, ColChrom: col})
			}
		}
	}
	return pairs
}

// WriteManifest drives the full write protocol end to end: it writes a
// chromosome entry for every chromosome the manifest names (with an empty
// matrix body for one named only by an interchromosomal pair), then every
// interchromosomal pair in canonical order. A manifest chromosome absent
// from genome fails with ErrUnknownChromosome. The partial output file is
// deleted on any failure (spec §4.3.5). sourceFor is called once per matrix,
// with the manifest line that produced it and the canonical (row, col)
// chromosome names; it is responsible for constructing a MatrixSource that
// emits triples already in (row, col) orientation -- for a
// CoordinateListSource this means setting Swap when entry.ChromA is not
// the canonical row.
func WriteManifest(path string, genome Genome, opts WriteOpts, manifest []ManifestEntry, sourceFor func(entry ManifestEntry, row, col string) (MatrixSource, error)) error {
	intra := map[string]ManifestEntry{}
	pairSrc := map[string]ManifestEntry{}
	referenced := map[string]bool{}
	for _, e := range manifest {
		referenced[e.ChromA] = true
		if e.Intra() {
			intra[e.ChromA] = e
			continue
		}
		referenced[e.ChromB] = true
		row, col := CanonicalPair(genome, e.ChromA, e.ChromB)
		pairSrc[row+"\t"+col] = e
	}

	var chromNames []string
	for _, name := range genome.SortedChromosomes() {
		if referenced[name] {
			chromNames = append(chromNames, name)
		}
	}
	pairs := CanonicalPairOrder(genome, manifest)

	w, err := NewWriter(path, genome, opts)
	if err != nil {
		return err
	}
	ok := false
	defer func() {
		if !ok {
			_ = w.Abort()
		}
	}()

	for name := range referenced {
		if _, err := genome.SeqLength(name); err != nil {
			return errors.Wrapf(ErrUnknownChromosome, "manifest references `%s'", name)
		}
	}
	if err := w.WriteChromosomes(chromNames); err != nil {
		return err
	}
	if err := w.WritePairs(pairs); err != nil {
		return err
	}
	if err := w.FinishDirectories(); err != nil {
		return err
	}

	for _, name := range chromNames {
		entry, found := intra[name]
		if !found {
			// Named only by a pair: an empty body still lets the reader size it.
			e := w.chromEntries[name]
			bodyOffset, err := writeMatrixBody(w.f, make([][]SparseCell, e.Size/opts.Resolution+1))
			if err == nil {
				err = patchBodyOffset(w.f, e.bodyOffsetPos, bodyOffset)
			}
			if err != nil {
				return err
			}
			continue
		}
		src, err := sourceFor(entry, name, name)
		if err != nil {
			return err
		}
		if err := w.WriteChromBody(name, src); err != nil {
			return err
		}
	}
	for _, p := range pairs {
		entry := pairSrc[p.RowChrom+"\t"+p.ColChrom]
		src, err := sourceFor(entry, p.RowChrom, p.ColChrom)
		if err != nil {
			return err
		}
		if err := w.WritePairBody(p.RowChrom, p.ColChrom, src); err != nil {
			return err
		}
	}

	if err := w.Close(); err != nil {
		return err
	}
	ok = true
	return nil
}
