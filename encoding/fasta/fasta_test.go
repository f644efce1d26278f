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

package fasta_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/genofilter/encoding/fasta"
	"github.com/grailbio/genofilter/genotype"
	"github.com/grailbio/testutil/assert"
)

const fastaData = ">s1\nACGTA\nCGTAC\nGT\n>s2 A second sample\nACGTN\nRYTAC\nG-\n"

func TestRead(t *testing.T) {
	a, err := fasta.Read(strings.NewReader(fastaData))
	assert.NoError(t, err)
	assert.EQ(t, a.Samples, []string{"s1", "s2"})
	assert.EQ(t, string(a.Rows[0]), "ACGTACGTACGT")
	assert.EQ(t, string(a.Rows[1]), "ACGTNRYTACG-")
}

func TestReadErrors(t *testing.T) {
	for _, data := range []string{
		"ACGT\n>s1\nACGT\n",
		">s1\nACGT\n>s2\nACG\n",
		"> s1\nACGT\n",
	} {
		if _, err := fasta.Read(strings.NewReader(data)); err == nil {
			t.Errorf("%q: expected an error", data)
		}
	}
}

func TestWrite(t *testing.T) {
	a, err := fasta.Read(strings.NewReader(fastaData))
	assert.NoError(t, err)
	store, err := genotype.NewStore(genotype.StoreOpts{Samples: a.Samples, Rows: a.Rows})
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, fasta.Write(&buf, store, 5))
	assert.EQ(t, buf.String(), ">s1\nACGTA\nCGTAC\nGT\n>s2\nACGTN\nRYTAC\nG-\n")

	buf.Reset()
	assert.NoError(t, fasta.Write(&buf, store, 0))
	assert.EQ(t, buf.String(), ">s1\nACGTACGTACGT\n>s2\nACGTNRYTACG-\n")
}
