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

// Package bgi reads locus coordinates from BGEN index (.bgi) files.  A .bgi
// file is a SQLite database whose Variant table holds one row per variant of
// the indexed BGEN file.
package bgi

import (
	"context"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/genofilter/genotype"
	"github.com/jmoiron/sqlx"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"
)

// Variant is the part of a Variant row used for coordinates.
type Variant struct {
	Chromosome string           `db:"chromosome"`
	Position   genotype.PosType `db:"position"`
}

// Query selects variants in file order, which is the alignment column order.
const Query = "SELECT chromosome, position FROM Variant ORDER BY file_start_position ASC"

// Source is a genotype.CoordinateSource backed by a .bgi file.
type Source struct {
	Path string
}

// Open connects read-only to the index at path.  The caller must close the
// result.
func Open(path string) (*sqlx.DB, error) {
	// SQLite URI filenames must begin with "file:".
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	if !strings.Contains(path, "?") {
		path += "?mode=ro"
	}
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, errors.E(errors.NotExist, err, "bgi: opening index", path)
	}
	return db, nil
}

// LoadCoordinates implements genotype.CoordinateSource.
func (s Source) LoadCoordinates(ctx context.Context) (table *genotype.CoordinateTable, err error) {
	db, err := Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	var variants []Variant
	if err := db.SelectContext(ctx, &variants, Query); err != nil {
		return nil, errors.E(errors.Integrity, err, "bgi: reading variants", s.Path)
	}
	table = &genotype.CoordinateTable{
		Chromosomes: make([]string, len(variants)),
		Positions:   make([]genotype.PosType, len(variants)),
	}
	for i, v := range variants {
		table.Chromosomes[i] = v.Chromosome
		table.Positions[i] = v.Position
	}
	return table, nil
}
