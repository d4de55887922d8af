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

// Converts a Homer whole-genome dense matrix (header row and label column
// of "chrom-startBP" bin labels) into one coordinate-list file per
// chromosome and chromosome pair, plus a manifest file consumable by
// cmd/butlrBuild.

import "bufio"
import "fmt"
import "log"
import "os"
import "path/filepath"
import "strconv"
import "strings"

import "github.com/pborman/getopt"
import "github.com/sirupsen/logrus"

import "github.com/hicbutlr/butlr"

/* -------------------------------------------------------------------------- */

type Config struct {
	Verbose int
}

func PrintStderr(config Config, level int, format string, args ...interface{}) {
	if config.Verbose >= level {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

/* -------------------------------------------------------------------------- */

// binLabel is a parsed "chrom-startBP" Homer axis label.
type binLabel struct {
	chrom   string
	startBP uint32
}

// parseBinLabel splits a Homer axis label at its last hyphen: everything
// before is the chromosome name, everything after the base-pair start of
// the bin.
func parseBinLabel(s string) (binLabel, error) {
	i := strings.LastIndex(s, "-")
	if i < 0 {
		return binLabel{}, fmt.Errorf("malformed Homer bin label `%s'", s)
	}
	bp, err := strconv.ParseUint(s[i+1:], 10, 32)
	if err != nil {
		return binLabel{}, fmt.Errorf("malformed Homer bin label `%s': %v", s, err)
	}
	return binLabel{chrom: s[:i], startBP: uint32(bp)}, nil
}

/* -------------------------------------------------------------------------- */

type pairWriter struct {
	chromA, chromB string
	path           string
	f              *os.File
	w              *bufio.Writer
}

func convert(config Config, filenameGenome, filenameIn, outDir, filenameManifest string) {
	genome, err := butlr.LoadGenome(filenameGenome)
	if err != nil {
		log.Fatal(err)
	}
	PrintStderr(config, 1, "Loaded genome with %d chromosomes\n", genome.Length())

	f, err := os.Open(filenameIn)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<28)

	if !scanner.Scan() {
		log.Fatalf("empty Homer matrix `%s'", filenameIn)
	}
	header := strings.Split(scanner.Text(), "\t")
	if len(header) < 2 {
		log.Fatalf("%s: expected a header row with at least one bin label", filenameIn)
	}
	colLabels := make([]binLabel, len(header)-1)
	for i, h := range header[1:] {
		lbl, err := parseBinLabel(h)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := genome.SeqLength(lbl.chrom); err != nil {
			log.Fatalf("%s: column %d: %v", filenameIn, i, err)
		}
		colLabels[i] = lbl
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Fatal(err)
	}

	writers := map[string]*pairWriter{}
	manifestFile, err := os.Create(filenameManifest)
	if err != nil {
		log.Fatal(err)
	}
	defer manifestFile.Close()
	manifestW := bufio.NewWriter(manifestFile)
	defer manifestW.Flush()

	getWriter := func(chromA, chromB string) (*pairWriter, error) {
		key := chromA + "\t" + chromB
		if pw, ok := writers[key]; ok {
			return pw, nil
		}
		name := chromA + ".coo"
		if chromB != chromA {
			name = chromA + "__" + chromB + ".coo"
		}
		path := filepath.Join(outDir, name)
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		pw := &pairWriter{chromA: chromA, chromB: chromB, path: path, f: f, w: bufio.NewWriter(f)}
		writers[key] = pw
		if chromA == chromB {
			fmt.Fprintf(manifestW, "%s\t%s\n", chromA, path)
		} else {
			fmt.Fprintf(manifestW, "%s\t%s\t%s\n", chromA, chromB, path)
		}
		return pw, nil
	}

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != len(header) {
			log.Fatalf("%s:%d: expected %d columns, got %d", filenameIn, lineNo, len(header), len(fields))
		}
		rowLabel, err := parseBinLabel(fields[0])
		if err != nil {
			log.Fatal(err)
		}
		if _, err := genome.SeqLength(rowLabel.chrom); err != nil {
			log.Fatalf("%s:%d: %v", filenameIn, lineNo, err)
		}
		for col, field := range fields[1:] {
			colLabel := colLabels[col]
			// Keep only the upper triangle of each intrachromosomal matrix;
			// interchromosomal matrices are stored in full.
			if rowLabel.chrom == colLabel.chrom && colLabel.startBP < rowLabel.startBP {
				continue
			}
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"file": filenameIn, "line": lineNo, "column": col, "token": field,
				}).Warn("non-numeric matrix cell, skipping")
				continue
			}
			pw, err := getWriter(rowLabel.chrom, colLabel.chrom)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Fprintf(pw.w, "%d\t%d\t%g\n", rowLabel.startBP, colLabel.startBP, v)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}

	for _, pw := range writers {
		if err := pw.w.Flush(); err != nil {
			log.Fatal(err)
		}
		if err := pw.f.Close(); err != nil {
			log.Fatal(err)
		}
	}
	PrintStderr(config, 1, "Wrote %d matrix file(s) and manifest `%s'\n", len(writers), filenameManifest)
}

/* -------------------------------------------------------------------------- */

func main() {

	config := Config{}

	options := getopt.New()

	optGenome := options.StringLong("genome-sizes", 'g', "", "genome size file, used to validate Homer's bin labels")
	optHelp := options.BoolLong("help", 'h', "print help")
	optVerbose := options.CounterLong("verbose", 'v', "be verbose")

	options.SetParameters("<HOMER.matrix> <OUTPUT-DIR> <MANIFEST.tsv>")
	options.Parse(os.Args)

	if *optHelp {
		options.PrintUsage(os.Stdout)
		os.Exit(0)
	}
	if len(options.Args()) != 3 || *optGenome == "" {
		options.PrintUsage(os.Stderr)
		os.Exit(1)
	}
	config.Verbose = *optVerbose

	filenameIn := options.Args()[0]
	outDir := options.Args()[1]
	filenameManifest := options.Args()[2]

	convert(config, *optGenome, filenameIn, outDir, filenameManifest)
}
