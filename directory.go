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

import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

// ChromEntry is one entry of the intrachromosomal directory:
// name\0 | size:u32 | bodyOffset:u64.
type ChromEntry struct {
	Name       string
	Size       uint32
	BodyOffset uint64

	// bodyOffsetPos is the absolute file position of the BodyOffset field,
	// remembered at write time so it can be backpatched once the body has
	// been written. Zero for entries read back from a file.
	bodyOffsetPos int64
}

// PairEntry is one entry of the interchromosomal directory:
// "rowChrom\tcolChrom"\0 | bodyOffset:u64. Sizes are not duplicated here;
// they are looked up from the chromosome directory.
type PairEntry struct {
	RowChrom   string
	ColChrom   string
	BodyOffset uint64

	bodyOffsetPos int64
}

// PairKey returns the canonical "row\tcol" string used both as the on-disk
// key and as a map key for lookups.
func (p PairEntry) PairKey() string {
	return p.RowChrom + "\t" + p.ColChrom
}

/* canonical pair key
 * -------------------------------------------------------------------------- */

// CanonicalPair returns (row, col) for the unordered pair {a, b}: the
// chromosome outranked by IsChromAhead is the row, the other the column.
// Per spec §4.2/§4.3.3/GLOSSARY: the outranked chromosome is the row, the
// higher-priority (ahead) chromosome is the column.
func CanonicalPair(genome Genome, a, b string) (row, col string) {
	if genome.IsChromAhead(a, b) {
		return b, a
	}
	return a, b
}

/* directory write
 * -------------------------------------------------------------------------- */

// writeChromEntry writes a placeholder ChromEntry (bodyOffset = 0) and
// records the file position of the bodyOffset field for later patching.
func writeChromEntry(w io.WriteSeeker, e *ChromEntry) error {
	if err := writeNulString(w, e.Name); err != nil {
		return err
	}
	if err := putUint32(w, e.Size); err != nil {
		return err
	}
	pos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	e.bodyOffsetPos = pos
	return putUint64(w, 0)
}

// writePairEntry writes a placeholder PairEntry (bodyOffset = 0) and
// records the file position of the bodyOffset field for later patching.
func writePairEntry(w io.WriteSeeker, e *PairEntry) error {
	if err := writeNulString(w, e.PairKey()); err != nil {
		return err
	}
	pos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	e.bodyOffsetPos = pos
	return putUint64(w, 0)
}

// patchBodyOffset backpatches a previously-written directory entry's
// bodyOffset field once the matrix body has been written.
func patchBodyOffset(w io.WriteSeeker, pos int64, offset uint64) error {
	if pos == 0 {
		return errors.New("directory entry was never assigned a backpatch position")
	}
	return fileWriteAt(w, pos, offset)
}

/* directory read
 * -------------------------------------------------------------------------- */

// readChromDirectory reads ChromEntry records starting at the reader's
// current position (expected to be header.IntraDirOffset) until end is
// reached. Neither directory stores an explicit entry count; end (the
// interchromosomal directory's offset, or the header size if there is no
// interchromosomal directory) is what bounds the scan, per spec §4.3.1.
func readChromDirectory(r io.ReadSeeker, end int64) ([]ChromEntry, error) {
	var entries []ChromEntry
	for {
		pos, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		if pos >= end {
			break
		}
		i := len(entries)
		name, err := readNulString(r)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedFile, "chromosome directory entry %d: %v", i, err)
		}
		size, err := getUint32(r)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedFile, "chromosome directory entry %d: %v", i, err)
		}
		offset, err := getUint64(r)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedFile, "chromosome directory entry %d: %v", i, err)
		}
		if offset == 0 {
			return nil, errors.Wrapf(ErrNotBUTLR, "chromosome `%s' directory entry was never backpatched", name)
		}
		entries = append(entries, ChromEntry{Name: name, Size: size, BodyOffset: offset})
	}
	return entries, nil
}

// readPairDirectory reads PairEntry records starting at the reader's
// current position (expected to be header.InterDirOffset) until end
// (the header size) is reached. Sizes are resolved by the caller from the
// chromosome directory.
func readPairDirectory(r io.ReadSeeker, end int64) ([]PairEntry, error) {
	var entries []PairEntry
	for {
		pos, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		if pos >= end {
			break
		}
		i := len(entries)
		key, err := readNulString(r)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedFile, "pair directory entry %d: %v", i, err)
		}
		offset, err := getUint64(r)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedFile, "pair directory entry %d: %v", i, err)
		}
		if offset == 0 {
			return nil, errors.Wrapf(ErrNotBUTLR, "pair `%s' directory entry was never backpatched", key)
		}
		row, col, err := splitPairKey(key)
		if err != nil {
			return nil, err
		}
		entries = append(entries, PairEntry{RowChrom: row, ColChrom: col, BodyOffset: offset})
	}
	return entries, nil
}

func splitPairKey(key string) (row, col string, err error) {
	for i := 0; i < len(key); i++ {
		if key[i] == '\t' {
			return key[:i], key[i+1:], nil
		}
	}
	return "", "", errors.Errorf("malformed pair key `%s': missing tab separator", key)
}
