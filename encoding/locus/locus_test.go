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

package locus_test

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/genofilter/encoding/locus"
	"github.com/grailbio/genofilter/genotype"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const tableData = "CHROM\tPOS\nchr1\t100\nchr1\t250\nchr2\t7\n"

var want = &genotype.CoordinateTable{
	Chromosomes: []string{"chr1", "chr1", "chr2"},
	Positions:   []genotype.PosType{100, 250, 7},
}

func TestRead(t *testing.T) {
	table, err := locus.Read(strings.NewReader(tableData))
	assert.NoError(t, err)
	expect.EQ(t, table, want)

	_, err = locus.Read(strings.NewReader("CHROM\tPOS\nchr1\tabc\n"))
	if err == nil {
		t.Error("expected an error for a non-numeric position")
	}
}

func TestTSVSource(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()

	plain := filepath.Join(tempDir, "loci.tsv")
	assert.NoError(t, ioutil.WriteFile(plain, []byte(tableData), 0644))
	table, err := locus.TSVSource{Path: plain}.LoadCoordinates(ctx)
	assert.NoError(t, err)
	expect.EQ(t, table, want)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write([]byte(tableData))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	compressed := filepath.Join(tempDir, "loci.tsv.gz")
	assert.NoError(t, ioutil.WriteFile(compressed, buf.Bytes(), 0644))
	table, err = locus.TSVSource{Path: compressed}.LoadCoordinates(ctx)
	assert.NoError(t, err)
	expect.EQ(t, table, want)

	_, err = locus.TSVSource{Path: filepath.Join(tempDir, "missing.tsv")}.LoadCoordinates(ctx)
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, locus.Write(&buf, want))
	assert.EQ(t, buf.String(), "CHROM\tPOS\nchr1\t100\nchr1\t250\nchr2\t7\n")
}
