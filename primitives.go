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

// Fixed-width primitives shared by the header, directory and sparse-body
// codecs. All multi-byte integers are little-endian; strings are
// NUL-terminated ASCII with no length prefix, per spec.

import "bytes"
import "encoding/binary"
import "io"
import "math"

import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

// VersionFieldSize is the fixed width, in bytes, of the header's
// NUL-padded version string.
const VersionFieldSize = 16

// DefaultVersion is the version string written by this implementation.
const DefaultVersion = "BUTLR1"

/* -------------------------------------------------------------------------- */

// fileReadAt seeks to offset, reads data with binary.Read, and restores the
// original file position. Mirrors the teacher's fileReadAt/fileWriteAt
// helpers, generalized to any io.ReadSeeker.
func fileReadAt(r io.ReadSeeker, offset int64, data interface{}) error {
	cur, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return err
	}
	_, err = r.Seek(cur, io.SeekStart)
	return err
}

// fileWriteAt seeks to offset, writes data with binary.Write, and restores
// the original file position.
func fileWriteAt(w io.WriteSeeker, offset int64, data interface{}) error {
	cur, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := w.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		return err
	}
	_, err = w.Seek(cur, io.SeekStart)
	return err
}

/* -------------------------------------------------------------------------- */

// writeNulString writes s followed by a single 0x00 terminator. s must not
// contain an embedded NUL.
func writeNulString(w io.Writer, s string) error {
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return errors.Errorf("string `%s' contains an embedded NUL", s)
	}
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	_, err := w.Write([]byte{0})
	return err
}

// writeNulStringPadded writes s zero-padded to exactly width bytes,
// including the terminator. Used for the header's fixed-width version
// field.
func writeNulStringPadded(w io.Writer, s string, width int) error {
	if len(s)+1 > width {
		return errors.Errorf("string `%s' does not fit in %d bytes", s, width)
	}
	buf := make([]byte, width)
	copy(buf, s)
	_, err := w.Write(buf)
	return err
}

// readNulString reads bytes from r, one at a time so as not to over-read
// past the terminator, until a 0x00 terminator and returns the string with
// the terminator stripped.
func readNulString(r io.Reader) (string, error) {
	var buf bytes.Buffer
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return "", err
		}
		if b[0] == 0 {
			return buf.String(), nil
		}
		buf.WriteByte(b[0])
	}
}

// readNulStringFixed reads exactly width bytes and returns the portion
// before the first 0x00.
func readNulStringFixed(r io.Reader, width int) (string, error) {
	buf := make([]byte, width)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	if idx := bytes.IndexByte(buf, 0); idx >= 0 {
		buf = buf[:idx]
	}
	return string(buf), nil
}

/* -------------------------------------------------------------------------- */

func putUint32(w io.Writer, v uint32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func putUint64(w io.Writer, v uint64) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func putFloat32(w io.Writer, v float32) error {
	return binary.Write(w, binary.LittleEndian, math.Float32bits(v))
}

func getUint32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func getUint64(r io.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func getFloat32(r io.Reader) (float32, error) {
	var bits uint32
	if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}
