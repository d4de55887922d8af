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

import "bufio"
import "bytes"
import "fmt"
import "os"
import "sort"
import "strconv"
import "strings"

import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

// Genome holds the name-to-size mapping for a named assembly, in the order
// chromosomes were loaded.
type Genome struct {
	Seqnames []string
	Lengths  []uint32
}

/* constructor
 * -------------------------------------------------------------------------- */

// NewGenome builds a Genome from parallel name/length slices.
func NewGenome(seqnames []string, lengths []uint32) Genome {
	if len(seqnames) != len(lengths) {
		panic("NewGenome(): invalid parameters")
	}
	return Genome{seqnames, lengths}
}

/* -------------------------------------------------------------------------- */

// Length returns the number of chromosomes known to the genome.
func (genome Genome) Length() int {
	return len(genome.Seqnames)
}

// SeqLength returns the size in base pairs of the given chromosome.
func (genome Genome) SeqLength(seqname string) (uint32, error) {
	for i, s := range genome.Seqnames {
		if seqname == s {
			return genome.Lengths[i], nil
		}
	}
	return 0, errors.Errorf("chromosome `%s' not found in genome", seqname)
}

// GetIdx returns the position of seqname within the genome's slices.
func (genome Genome) GetIdx(seqname string) (int, error) {
	for i, s := range genome.Seqnames {
		if seqname == s {
			return i, nil
		}
	}
	return -1, errors.Errorf("chromosome `%s' not found in genome", seqname)
}

// NumBins returns the number of bins a chromosome is divided into at the
// given resolution: floor(size/res) + 1.
func (genome Genome) NumBins(seqname string, resolution uint32) (int, error) {
	size, err := genome.SeqLength(seqname)
	if err != nil {
		return 0, err
	}
	return int(size/resolution) + 1, nil
}

/* canonical ordering
 * -------------------------------------------------------------------------- */

// IsChromAhead reports whether chromosome a outranks chromosome b: bigger
// size first, ties broken by ascending lexicographic name. It is used only
// to decide canonical row/column assignment for an unordered chromosome
// pair.
func (genome Genome) IsChromAhead(a, b string) bool {
	sa, errA := genome.SeqLength(a)
	sb, errB := genome.SeqLength(b)
	if errA != nil || errB != nil {
		// Fall back to a total order even if one name is unknown; callers
		// are expected to validate names before reaching here.
		return a < b
	}
	if sa != sb {
		return sa > sb
	}
	return a < b
}

// SortedChromosomes returns the genome's chromosome names ordered by
// descending size, then ascending name -- the order in which BUTLR writes
// intrachromosomal directory entries.
func (genome Genome) SortedChromosomes() []string {
	names := make([]string, len(genome.Seqnames))
	copy(names, genome.Seqnames)
	sort.Slice(names, func(i, j int) bool {
		return genome.IsChromAhead(names[i], names[j])
	})
	return names
}

/* convert to string
 * -------------------------------------------------------------------------- */

func (genome Genome) String() string {
	var buffer bytes.Buffer

	buffer.WriteString(fmt.Sprintf("%10s %10s\n", "seqnames", "lengths"))
	for i := 0; i < genome.Length(); i++ {
		if i != 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(fmt.Sprintf("%10s %10d", genome.Seqnames[i], genome.Lengths[i]))
	}
	return buffer.String()
}

/* i/o
 * -------------------------------------------------------------------------- */

// LoadGenome reads chromosome sizes from a whitespace-delimited two-column
// text file (name, size). It fails if the file cannot be opened or a size
// fails to parse as a non-negative integer.
func LoadGenome(filename string) (Genome, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Genome{}, errors.Wrapf(err, "opening genome size file `%s'", filename)
	}
	defer f.Close()

	seqnames := []string{}
	lengths := []uint32{}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return Genome{}, errors.Errorf("%s:%d: expected `name<ws>size'", filename, lineNo)
		}
		size, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return Genome{}, errors.Wrapf(err, "%s:%d: invalid chromosome size `%s'", filename, lineNo, fields[1])
		}
		seqnames = append(seqnames, fields[0])
		lengths = append(lengths, uint32(size))
	}
	if err := scanner.Err(); err != nil {
		return Genome{}, errors.Wrapf(err, "reading genome size file `%s'", filename)
	}
	return NewGenome(seqnames, lengths), nil
}
