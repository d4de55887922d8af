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

package main

/* -------------------------------------------------------------------------- */

import "bufio"
import "fmt"
import "log"
import "os"
import "strconv"
import "strings"

import "github.com/pborman/getopt"
import "github.com/pkg/errors"

import "gonum.org/v1/plot"
import "gonum.org/v1/plot/palette/moreland"
import "gonum.org/v1/plot/plotter"
import "gonum.org/v1/plot/vg"

import "github.com/hicbutlr/butlr"

/* -------------------------------------------------------------------------- */

type Config struct {
	Verbose      int
	Query        string
	Bins         bool
	OutputPrefix string
	Plot         string
}

/* -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
	if config.Verbose >= level {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

/* location-string query parsing (spec §4.4.1)
 * -------------------------------------------------------------------------- */

// location is one "chrom" or "chrom:start-end" term of a --query value.
type location struct {
	chrom    string
	start    int
	end      int
	hasRange bool
}

func parseLocation(s string) (location, error) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return location{chrom: s}, nil
	}
	chrom, rng := s[:i], s[i+1:]
	j := strings.IndexByte(rng, '-')
	if j < 0 {
		return location{}, errors.Errorf("malformed location `%s': expected chrom:start-end", s)
	}
	start, err := strconv.Atoi(rng[:j])
	if err != nil {
		return location{}, errors.Wrapf(err, "malformed location `%s'", s)
	}
	end, err := strconv.Atoi(rng[j+1:])
	if err != nil {
		return location{}, errors.Wrapf(err, "malformed location `%s'", s)
	}
	if start < 0 || end < 0 {
		return location{}, errors.Wrapf(butlr.ErrNegativeBin, "location `%s'", s)
	}
	return location{chrom: chrom, start: start, end: end, hasRange: true}, nil
}

// resolveBounds turns a location's (possibly absent) range into a bin range
// [binStart, binEnd), converting from base pairs unless config.Bins is set,
// and defaulting a missing range to the whole chromosome (spec §4.4.1:
// "missing bounds default to (0, chromBins - 1)").
func resolveBounds(r *butlr.Reader, config Config, loc location) (start, end uint32, err error) {
	numBins, err := r.Genome().NumBins(loc.chrom, r.Header.Resolution)
	if err != nil {
		return 0, 0, err
	}
	if !loc.hasRange {
		return 0, uint32(numBins), nil
	}
	if config.Bins {
		return uint32(loc.start), uint32(loc.end), nil
	}
	return uint32(loc.start) / r.Header.Resolution, uint32(loc.end) / r.Header.Resolution, nil
}

// query is a fully resolved --query value: either one chromosome
// (chrom2 == "") or a pair, ready to hand to QueryIntra/QueryInter.
type query struct {
	chrom, chrom2            string
	start, end, start2, end2 uint32
}

func resolveQuery(r *butlr.Reader, config Config) (query, error) {
	terms := strings.Split(config.Query, ",")
	if len(terms) > 2 {
		return query{}, errors.Errorf("malformed query `%s': at most one comma expected", config.Query)
	}

	first, err := parseLocation(terms[0])
	if err != nil {
		return query{}, err
	}
	start, end, err := resolveBounds(r, config, first)
	if err != nil {
		return query{}, err
	}
	q := query{chrom: first.chrom, start: start, end: end}
	if len(terms) == 1 {
		return q, nil
	}

	second, err := parseLocation(terms[1])
	if err != nil {
		return query{}, err
	}
	start2, end2, err := resolveBounds(r, config, second)
	if err != nil {
		return query{}, err
	}
	q.chrom2, q.start2, q.end2 = second.chrom, start2, end2
	return q, nil
}

/* -------------------------------------------------------------------------- */

// cellGrid adapts a dense region of a query result to plotter.GridXYZ so it
// can be rendered with plotter.NewHeatMap.
type cellGrid struct {
	rowStart, colStart uint32
	nRows, nCols       int
	values             []float32
}

func newCellGrid(rowStart, rowEnd, colStart, colEnd uint32, cells []butlr.SparseCell) *cellGrid {
	g := &cellGrid{
		rowStart: rowStart,
		colStart: colStart,
		nRows:    int(rowEnd - rowStart),
		nCols:    int(colEnd - colStart),
	}
	g.values = make([]float32, g.nRows*g.nCols)
	for _, c := range cells {
		r := int(c.Row - rowStart)
		k := int(c.Col - colStart)
		if r >= 0 && r < g.nRows && k >= 0 && k < g.nCols {
			g.values[r*g.nCols+k] = c.Value
		}
	}
	return g
}

func (g *cellGrid) Dims() (c, r int) { return g.nCols, g.nRows }
func (g *cellGrid) X(c int) float64  { return float64(int(g.colStart) + c) }
func (g *cellGrid) Y(r int) float64  { return float64(int(g.rowStart) + r) }
func (g *cellGrid) Z(c, r int) float64 {
	return float64(g.values[r*g.nCols+c])
}

func savePlot(filename string, grid *cellGrid) error {
	p := plot.New()
	p.Title.Text = "BUTLR matrix region"
	p.X.Label.Text = "column bin"
	p.Y.Label.Text = "row bin"

	h := plotter.NewHeatMap(grid, moreland.ExtendedBlackBody().Palette(255))
	p.Add(h)
	return p.Save(8*vg.Inch, 8*vg.Inch, filename)
}

/* -------------------------------------------------------------------------- */

// textOutput returns the writer text output should go to, and a flush
// function to call before exit: stdout by default, or "<prefix>.txt" when
// an output prefix was given (spec §6 CLI surface #2's "output prefix").
func textOutput(config Config) (*bufio.Writer, func()) {
	if config.OutputPrefix == "" {
		w := bufio.NewWriter(os.Stdout)
		return w, func() { w.Flush() }
	}
	path := config.OutputPrefix + ".txt"
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	w := bufio.NewWriter(f)
	return w, func() {
		w.Flush()
		f.Close()
	}
}

// dumpDirectory implements the header-only query form: with no --query, the
// tool parses and emits the chromosome and pair directories (spec §4.4.1).
func dumpDirectory(w *bufio.Writer, r *butlr.Reader) {
	fmt.Fprintf(w, "# assembly\t%s\n", r.Header.Assembly)
	fmt.Fprintf(w, "# resolution\t%d\n", r.Header.Resolution)
	for _, e := range r.Chromosomes() {
		fmt.Fprintf(w, "chrom\t%s\t%d\n", e.Name, e.Size)
	}
	for _, p := range r.Pairs() {
		fmt.Fprintf(w, "pair\t%s\t%s\n", p.RowChrom, p.ColChrom)
	}
}

func dump(config Config, filenameIn string) {
	r, err := butlr.Open(filenameIn)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	w, flush := textOutput(config)
	defer flush()

	if config.Query == "" {
		dumpDirectory(w, r)
		return
	}

	q, err := resolveQuery(r, config)
	if err != nil {
		log.Fatal(err)
	}

	var cells []butlr.SparseCell
	if q.chrom2 == "" {
		cells, err = r.QueryIntra(q.chrom, q.start, q.end, q.start, q.end)
		if err != nil {
			log.Fatal(err)
		}
		for _, c := range cells {
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%g\n", q.chrom, c.Row, q.chrom, c.Col, c.Value)
		}
		if config.Plot != "" {
			grid := newCellGrid(q.start, q.end, q.start, q.end, cells)
			if err := savePlot(config.Plot, grid); err != nil {
				log.Fatal(err)
			}
			PrintStderr(config, 1, "Wrote heatmap to `%s'\n", config.Plot)
		}
	} else if q.chrom2 == q.chrom {
		// Same chromosome named twice with (possibly distinct) row/col
		// ranges: an intrachromosomal rectangle, not the whole-chromosome
		// square the single-term form produces (spec §4.4.1).
		cells, err = r.QueryIntra(q.chrom, q.start, q.end, q.start2, q.end2)
		if err != nil {
			log.Fatal(err)
		}
		for _, c := range cells {
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%g\n", q.chrom, c.Row, q.chrom, c.Col, c.Value)
		}
		if config.Plot != "" {
			grid := newCellGrid(q.start, q.end, q.start2, q.end2, cells)
			if err := savePlot(config.Plot, grid); err != nil {
				log.Fatal(err)
			}
			PrintStderr(config, 1, "Wrote heatmap to `%s'\n", config.Plot)
		}
	} else {
		cells, err = r.QueryInter(q.chrom, q.chrom2, q.start, q.end, q.start2, q.end2)
		if err != nil {
			log.Fatal(err)
		}
		for _, c := range cells {
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%g\n", q.chrom, c.Row, q.chrom2, c.Col, c.Value)
		}
		if config.Plot != "" {
			grid := newCellGrid(q.start, q.end, q.start2, q.end2, cells)
			if err := savePlot(config.Plot, grid); err != nil {
				log.Fatal(err)
			}
			PrintStderr(config, 1, "Wrote heatmap to `%s'\n", config.Plot)
		}
	}
}

/* -------------------------------------------------------------------------- */

func main() {

	config := Config{}

	options := getopt.New()

	optQuery := options.StringLong("query", 'q', "", "chrom or chrom:start-end, or chromA:start-end,chromB:start-end for a pair; omit to print the directory")
	optBins := options.BoolLong("bins", 0, "interpret --query bounds as bin indices rather than base pairs")
	optOutputPrefix := options.StringLong("output-prefix", 'o', "", "write text output to <prefix>.txt instead of stdout")
	optPlot := options.StringLong("plot", 0, "", "write a heatmap PNG of the queried region to this path")
	optHelp := options.BoolLong("help", 'h', "print help")
	optVerbose := options.CounterLong("verbose", 'v', "be verbose")

	options.SetParameters("<INPUT.butlr>")
	options.Parse(os.Args)

	if *optHelp {
		options.PrintUsage(os.Stdout)
		os.Exit(0)
	}
	if len(options.Args()) != 1 {
		options.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	config.Verbose = *optVerbose
	config.Query = *optQuery
	config.Bins = *optBins
	config.OutputPrefix = *optOutputPrefix
	config.Plot = *optPlot

	filenameIn := options.Args()[0]

	dump(config, filenameIn)
}
