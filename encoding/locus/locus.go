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

// Package locus reads and writes per-locus coordinate tables.  A table is a
// TSV file with a header row naming the columns CHROM and POS,
// one row per alignment column in alignment order.  Files ending in .gz are
// decompressed transparently.
package locus

import (
	"context"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/genofilter/genotype"
	"github.com/klauspost/compress/gzip"
)

// Row is one line of a coordinate table.
type Row struct {
	Chrom string           `tsv:"CHROM"`
	Pos   genotype.PosType `tsv:"POS"`
}

// TSVSource is a genotype.CoordinateSource backed by a coordinate table file.
type TSVSource struct {
	Path string
}

// LoadCoordinates implements genotype.CoordinateSource.
func (s TSVSource) LoadCoordinates(ctx context.Context) (table *genotype.CoordinateTable, err error) {
	var in file.File
	if in, err = file.Open(ctx, s.Path); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(in.Reader(ctx))
	switch fileio.DetermineType(s.Path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return nil, errors.E(err, s.Path)
		}
	}
	if table, err = Read(reader); err != nil {
		return nil, errors.E(err, s.Path)
	}
	return table, nil
}

// Read parses a coordinate table.
func Read(r io.Reader) (*genotype.CoordinateTable, error) {
	reader := tsv.NewReader(r)
	reader.HasHeaderRow = true
	reader.UseHeaderNames = true
	reader.Comment = '#'
	table := &genotype.CoordinateTable{}
	for {
		var row Row
		if err := reader.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Integrity, err, "locus: malformed coordinate table")
		}
		table.Chromosomes = append(table.Chromosomes, row.Chrom)
		table.Positions = append(table.Positions, row.Pos)
	}
	return table, nil
}

// Write writes table to w, with a header row.
func Write(w io.Writer, table *genotype.CoordinateTable) error {
	out := tsv.NewWriter(w)
	out.WriteString("CHROM\tPOS")
	if err := out.EndLine(); err != nil {
		return err
	}
	for i, chrom := range table.Chromosomes {
		out.WriteString(chrom)
		out.WriteString(strconv.FormatInt(table.Positions[i], 10))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
