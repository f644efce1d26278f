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

package bgi_test

import (
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/genofilter/encoding/bgi"
	"github.com/grailbio/genofilter/genotype"
	"github.com/grailbio/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIndex(t *testing.T, path string) {
	db, err := sqlx.Connect("sqlite", "file:"+path)
	require.NoError(t, err)
	defer db.Close()
	db.MustExec(`CREATE TABLE Variant (
		chromosome TEXT NOT NULL,
		position INT NOT NULL,
		rsid TEXT NOT NULL,
		number_of_alleles INT NOT NULL,
		allele1 TEXT NOT NULL,
		allele2 TEXT NULL,
		file_start_position INT NOT NULL,
		size_in_bytes INT NOT NULL
	)`)
	for _, v := range []struct {
		chrom string
		pos   int
		rsid  string
		start int
	}{
		{"02", 900, "rs3", 300},
		{"01", 10, "rs1", 100},
		{"01", 2000, "rs2", 200},
	} {
		db.MustExec(`INSERT INTO Variant VALUES (?, ?, ?, 2, 'A', 'G', ?, 100)`,
			v.chrom, v.pos, v.rsid, v.start)
	}
}

func TestLoadCoordinates(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tempDir, "test.bgen.bgi")
	writeIndex(t, path)

	table, err := bgi.Source{Path: path}.LoadCoordinates(vcontext.Background())
	require.NoError(t, err)
	assert.Equal(t, &genotype.CoordinateTable{
		Chromosomes: []string{"01", "01", "02"},
		Positions:   []genotype.PosType{10, 2000, 900},
	}, table)
	assert.NoError(t, table.Validate(3))
}

func TestMissingIndex(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	_, err := bgi.Source{Path: filepath.Join(tempDir, "absent.bgi")}.LoadCoordinates(vcontext.Background())
	assert.Error(t, err)
}
