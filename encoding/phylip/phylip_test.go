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

package phylip_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/genofilter/encoding/phylip"
	"github.com/grailbio/genofilter/genotype"
	"github.com/grailbio/testutil/assert"
)

func TestRead(t *testing.T) {
	a, err := phylip.Read(strings.NewReader("3 4\ns1 ACGT\n\ns2\tAC-T\ns3   nRYT\n"))
	assert.NoError(t, err)
	assert.EQ(t, a.Samples, []string{"s1", "s2", "s3"})
	assert.EQ(t, string(a.Rows[1]), "AC-T")
	assert.EQ(t, string(a.Rows[2]), "nRYT")
}

func TestReadErrors(t *testing.T) {
	for _, data := range []string{
		"",
		"3\n",
		"x 4\ns1 ACGT\n",
		"1 4\ns1 ACG\n",
		"2 4\ns1 ACGT\n",
		"1 4\ns1 AC GT\n",
	} {
		if _, err := phylip.Read(strings.NewReader(data)); err == nil {
			t.Errorf("%q: expected an error", data)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	store, err := genotype.NewStore(genotype.StoreOpts{
		Samples: []string{"a", "b"},
		Rows:    [][]byte{[]byte("acgN"), []byte("RYT?")},
	})
	assert.NoError(t, err)
	var buf bytes.Buffer
	assert.NoError(t, phylip.Write(&buf, store))
	assert.EQ(t, buf.String(), "2 4\na\tACGN\nb\tRYT?\n")

	a, err := phylip.Read(&buf)
	assert.NoError(t, err)
	assert.EQ(t, a.Samples, store.Samples())
	assert.EQ(t, a.Rows, store.Alignment().Rows())
}
