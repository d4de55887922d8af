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

import "fmt"
import "log"
import "os"
import "path/filepath"
import "strconv"
import "strings"

import "github.com/pborman/getopt"
import "github.com/pkg/errors"

import "github.com/hicbutlr/butlr"
import "github.com/hicbutlr/butlr/internal/resolution"

/* -------------------------------------------------------------------------- */

type Config struct {
	Verbose  int
	Assembly string
	Format   string
	MCV      float32
	SkipRows int
	SkipCols int
	ColI     int
	ColJ     int
	ColV     int
}

/* -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
	if config.Verbose >= level {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

/* -------------------------------------------------------------------------- */

// parseColumns parses "--columns i,j,v" into three 0-indexed field
// positions for CoordinateListSource.
func parseColumns(s string) (i, j, v int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, errors.Errorf("malformed --columns `%s': expected i,j,v", s)
	}
	fields := make([]int, 3)
	for k, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, errors.Wrapf(err, "malformed --columns `%s'", s)
		}
		fields[k] = n
	}
	return fields[0], fields[1], fields[2], nil
}

// sourceFor builds the MatrixSource for one manifest line, reorienting a
// coordinate-list file's columns when the manifest lists an
// interchromosomal pair in the non-canonical order.
func sourceFor(config Config, res uint32) func(entry butlr.ManifestEntry, row, col string) (butlr.MatrixSource, error) {
	return func(entry butlr.ManifestEntry, row, col string) (butlr.MatrixSource, error) {
		switch config.Format {
		case "dense":
			return &butlr.DenseMatrixSource{
				Path:     entry.Path,
				Intra:    entry.Intra(),
				MCV:      config.MCV,
				SkipRows: config.SkipRows,
				SkipCols: config.SkipCols,
			}, nil
		default:
			return &butlr.CoordinateListSource{
				Path:       entry.Path,
				Resolution: res,
				ColI:       config.ColI,
				ColJ:       config.ColJ,
				ColV:       config.ColV,
				Swap:       !entry.Intra() && entry.ChromA != row,
			}, nil
		}
	}
}

// defaultOutput derives spec.md §6's default output path,
// "<manifest-basename>.<resolution>.btr", when -o/--output is omitted.
func defaultOutput(filenameManifest string, res uint32) string {
	base := strings.TrimSuffix(filepath.Base(filenameManifest), filepath.Ext(filenameManifest))
	return base + "." + resolution.Format(res) + ".btr"
}

func build(config Config, filenameGenome, filenameManifest, resStr, filenameOut string) {
	genome, err := butlr.LoadGenome(filenameGenome)
	if err != nil {
		log.Fatal(err)
	}
	PrintStderr(config, 1, "Loaded genome with %d chromosomes\n", genome.Length())

	manifest, err := butlr.LoadManifest(filenameManifest)
	if err != nil {
		log.Fatal(err)
	}
	PrintStderr(config, 1, "Loaded manifest with %d entries\n", len(manifest))

	res, err := resolution.Parse(resStr)
	if err != nil {
		log.Fatal(err)
	}

	if filenameOut == "" {
		filenameOut = defaultOutput(filenameManifest, res)
	}

	opts := butlr.WriteOpts{
		Assembly:   config.Assembly,
		Resolution: res,
		MCV:        config.MCV,
	}

	PrintStderr(config, 1, "Writing `%s'... ", filenameOut)
	if err := butlr.WriteManifest(filenameOut, genome, opts, manifest, sourceFor(config, res)); err != nil {
		PrintStderr(config, 1, "failed\n")
		log.Fatal(err)
	}
	PrintStderr(config, 1, "done\n")
}

/* -------------------------------------------------------------------------- */

func main() {

	config := Config{}

	options := getopt.New()

	optGenome := options.StringLong("genome-sizes", 'g', "", "genome size file")
	optManifest := options.StringLong("manifest", 'm', "", "matrix manifest file")
	optResolution := options.StringLong("resolution", 'r', "", "bin resolution, e.g. 10000, 10k, 1m")
	optOutput := options.StringLong("output", 'o', "", "output path, default <manifest-basename>.<resolution>.btr")
	optAssembly := options.StringLong("assembly", 'a', "", "assembly name recorded in the file header")
	optFormat := options.StringLong("format", 'f', "coo", "matrix input format: coo (default) or dense")
	optMCV := options.StringLong("mcv", 0, "0", "most common value, omitted from dense input and recorded in the header")
	optSkip := options.IntLong("skip", 0, 0, "header lines to skip in dense input")
	optSkipCols := options.IntLong("skip-cols", 0, 0, "leading label columns to skip in dense input")
	optColumns := options.StringLong("columns", 0, "0,1,2", "i,j,v column indices for coordinate-list input")
	optHelp := options.BoolLong("help", 'h', "print help")
	optVerbose := options.CounterLong("verbose", 'v', "be verbose")

	options.SetParameters("")
	options.Parse(os.Args)

	if *optHelp {
		options.PrintUsage(os.Stdout)
		os.Exit(0)
	}
	if len(options.Args()) != 0 || *optGenome == "" || *optManifest == "" || *optResolution == "" {
		options.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	mcv, err := strconv.ParseFloat(*optMCV, 32)
	if err != nil {
		log.Fatalf("parsing --mcv failed: %v", err)
	}
	colI, colJ, colV, err := parseColumns(*optColumns)
	if err != nil {
		log.Fatal(err)
	}

	config.Verbose = *optVerbose
	config.Assembly = *optAssembly
	config.Format = *optFormat
	config.MCV = float32(mcv)
	config.SkipRows = *optSkip
	config.SkipCols = *optSkipCols
	config.ColI = colI
	config.ColJ = colJ
	config.ColV = colV

	build(config, *optGenome, *optManifest, *optResolution, *optOutput)
}
