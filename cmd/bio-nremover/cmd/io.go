// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/genofilter/encoding/bgi"
	"github.com/grailbio/genofilter/encoding/fasta"
	"github.com/grailbio/genofilter/encoding/locus"
	"github.com/grailbio/genofilter/encoding/phylip"
	"github.com/grailbio/genofilter/encoding/popmap"
	"github.com/grailbio/genofilter/genotype"
	"github.com/klauspost/compress/gzip"
)

// guessFormat picks the alignment format from the file extension, ignoring a
// trailing .gz.
func guessFormat(path string) genotype.Format {
	switch strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ".gz"))) {
	case ".phy", ".phylip":
		return genotype.FormatPhylip
	case ".fa", ".fas", ".fasta", ".fna":
		return genotype.FormatFasta
	}
	return genotype.FormatUnknown
}

// readFile opens path, decompressing it if its name ends in .gz, and passes
// the contents to read.
func readFile(ctx context.Context, path string, read func(io.Reader) error) (err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	r := io.Reader(in.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if r, err = gzip.NewReader(r); err != nil {
			return errors.E(err, path)
		}
	}
	if err = read(r); err != nil {
		return errors.E(err, path)
	}
	return nil
}

// writeFile creates path and passes it to write.
func writeFile(ctx context.Context, path string, write func(io.Writer) error) (err error) {
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	return write(out.Writer(ctx))
}

// readStore loads the alignment at path together with the population map and
// coordinate source named by c.
func readStore(ctx context.Context, c RunConfig, path string) (*genotype.Store, error) {
	format := guessFormat(path)
	if c.Format != "" {
		var err error
		if format, err = genotype.ParseFormat(c.Format); err != nil {
			return nil, err
		}
	}
	opts := genotype.StoreOpts{Format: format}
	err := readFile(ctx, path, func(r io.Reader) error {
		switch format {
		case genotype.FormatPhylip:
			a, err := phylip.Read(r)
			if err != nil {
				return err
			}
			opts.Samples, opts.Rows = a.Samples, a.Rows
		case genotype.FormatFasta:
			a, err := fasta.Read(r)
			if err != nil {
				return err
			}
			opts.Samples, opts.Rows = a.Samples, a.Rows
		default:
			return errors.E(errors.NotSupported, fmt.Sprintf("cannot read %s alignments; use -format=phylip or -format=fasta", format))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if c.PopMap != "" {
		if err := readFile(ctx, c.PopMap, func(r io.Reader) (err error) {
			opts.PopMap, err = popmap.Read(r)
			return err
		}); err != nil {
			return nil, err
		}
	}
	switch {
	case c.Coords != "":
		opts.Coordinates = locus.TSVSource{Path: c.Coords}
	case c.BGI != "":
		opts.Coordinates = bgi.Source{Path: c.BGI}
	}
	if opts.Coordinates != nil {
		// A coordinate source makes the input behave like a VCF-derived
		// alignment.
		opts.Format = genotype.FormatVCF
	}
	store, err := genotype.NewStore(opts)
	if err != nil {
		return nil, err
	}
	log.Printf("read %d samples x %d loci from %s", len(opts.Samples), store.Alignment().NLoci(), path)
	return store, nil
}

func parseFloats(s string) ([]float64, error) {
	var v []float64
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f == "" {
			continue
		}
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		v = append(v, x)
	}
	return v, nil
}

func formatFloats(v []float64) string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(s, ",")
}
