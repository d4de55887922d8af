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

// BUTLR file header, laid out per spec §4.3.1:
//
//   0..3    header size in bytes (u32), patched last
//   4..19   version string, NUL-terminated, zero-padded to 16 bytes
//   20..23  offset of intrachromosomal directory (u32), patched
//   24..27  offset of interchromosomal directory (u32), 0 if absent, patched
//   28..    assembly name, NUL-terminated
//           resolution in bp (u32)
//           most-common value (f32)
//           four reserved u32 fields, all 0
//
// Reads and patches follow the teacher's BbiHeader idiom: remember the
// file offset of each placeholder field when writing it, then come back
// with fileWriteAt once the real value is known.

import "io"

import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

const (
	headerSizePos    int64 = 0
	headerVersionPos int64 = 4
	headerIntraDirPos int64 = 20
	headerInterDirPos int64 = 24
)

/* -------------------------------------------------------------------------- */

// Header holds the fixed, directory-independent fields of a BUTLR file.
type Header struct {
	HeaderSize     uint32
	Version        string
	IntraDirOffset uint32
	InterDirOffset uint32
	Assembly       string
	Resolution     uint32
	MCV            float32
	Reserved       [4]uint32
}

/* write
 * -------------------------------------------------------------------------- */

// writeHeaderPlaceholders writes the fixed prefix with zeroed offsets, per
// write-protocol step 1. The caller's writer must be positioned at byte 0.
func writeHeaderPlaceholders(w io.WriteSeeker, h *Header) error {
	if err := putUint32(w, 0); err != nil { // headerSize placeholder
		return err
	}
	if err := writeNulStringPadded(w, h.Version, VersionFieldSize); err != nil {
		return err
	}
	if err := putUint32(w, 0); err != nil { // intraDirOffset placeholder
		return err
	}
	if err := putUint32(w, 0); err != nil { // interDirOffset placeholder
		return err
	}
	if err := writeNulString(w, h.Assembly); err != nil {
		return err
	}
	if err := putUint32(w, h.Resolution); err != nil {
		return err
	}
	if err := putFloat32(w, h.MCV); err != nil {
		return err
	}
	for i := 0; i < 4; i++ {
		if err := putUint32(w, 0); err != nil {
			return err
		}
	}
	return nil
}

// patchIntraDirOffset backpatches the intrachromosomal directory offset
// field, per write-protocol step 2.
func patchIntraDirOffset(w io.WriteSeeker, offset uint32) error {
	return fileWriteAt(w, headerIntraDirPos, offset)
}

// patchInterDirOffset backpatches the interchromosomal directory offset
// field, per write-protocol step 4.
func patchInterDirOffset(w io.WriteSeeker, offset uint32) error {
	return fileWriteAt(w, headerInterDirPos, offset)
}

// patchHeaderSize backpatches the header size field, per write-protocol
// step 5.
func patchHeaderSize(w io.WriteSeeker, size uint32) error {
	return fileWriteAt(w, headerSizePos, size)
}

/* read
 * -------------------------------------------------------------------------- */

// ReadHeader parses the fixed header prefix starting at the current
// position of r (expected to be offset 0).
func ReadHeader(r io.ReadSeeker) (*Header, error) {
	h := &Header{}

	size, err := getUint32(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading header size")
	}
	h.HeaderSize = size

	version, err := readNulStringFixed(r, VersionFieldSize)
	if err != nil {
		return nil, errors.Wrap(err, "reading version string")
	}
	h.Version = version

	if h.IntraDirOffset, err = getUint32(r); err != nil {
		return nil, errors.Wrap(err, "reading intrachromosomal directory offset")
	}
	if h.InterDirOffset, err = getUint32(r); err != nil {
		return nil, errors.Wrap(err, "reading interchromosomal directory offset")
	}

	assembly, err := readNulString(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading assembly name")
	}
	h.Assembly = assembly

	if h.Resolution, err = getUint32(r); err != nil {
		return nil, errors.Wrap(err, "reading resolution")
	}
	if h.MCV, err = getFloat32(r); err != nil {
		return nil, errors.Wrap(err, "reading most-common value")
	}
	for i := 0; i < 4; i++ {
		if h.Reserved[i], err = getUint32(r); err != nil {
			return nil, errors.Wrap(err, "reading reserved header field")
		}
	}

	if h.HeaderSize == 0 || h.IntraDirOffset == 0 {
		return nil, errors.Wrap(ErrNotBUTLR, "header was never backpatched")
	}
	return h, nil
}
