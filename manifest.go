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

// Matrix manifest file parser, per spec §6: one entry per line, either
// "chr<tab>path" (intrachromosomal) or "chrA<tab>chrB<tab>path"
// (interchromosomal, or intrachromosomal if chrA == chrB).

import "bufio"
import "os"
import "strings"

import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

// ManifestEntry describes one source matrix file.
type ManifestEntry struct {
	ChromA string
	ChromB string // equal to ChromA, or empty, for an intrachromosomal line
	Path   string
}

// Intra reports whether this entry describes an intrachromosomal matrix.
func (e ManifestEntry) Intra() bool {
	return e.ChromB == "" || e.ChromB == e.ChromA
}

// LoadManifest parses a matrix manifest file.
func LoadManifest(filename string) ([]ManifestEntry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening manifest `%s'", filename)
	}
	defer f.Close()

	var entries []ManifestEntry
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(scanner.Text(), "\t")
		switch len(fields) {
		case 2:
			entries = append(entries, ManifestEntry{ChromA: fields[0], Path: fields[1]})
		case 3:
			entries = append(entries, ManifestEntry{ChromA: fields[0], ChromB: fields[1], Path: fields[2]})
		default:
			return nil, errors.Errorf("%s:%d: expected 2 or 3 tab-separated fields, got %d", filename, lineNo, len(fields))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading manifest `%s'", filename)
	}
	return entries, nil
}
