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

package popmap_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/genofilter/encoding/popmap"
	"github.com/grailbio/genofilter/genotype"
	"github.com/grailbio/testutil/assert"
)

func TestRead(t *testing.T) {
	m, err := popmap.Read(strings.NewReader("# sample\tpop\ns1\tnorth\ns2\tsouth\ns3\tnorth\n"))
	assert.NoError(t, err)
	assert.EQ(t, m, map[string]string{"s1": "north", "s2": "south", "s3": "north"})

	_, err = popmap.Read(strings.NewReader("s1\tnorth\ns1\tsouth\n"))
	if err == nil {
		t.Error("expected an error for a duplicate sample")
	}
}

func TestWrite(t *testing.T) {
	pm := genotype.NewPopulationMap(map[string]string{"s1": "north", "s3": "south"})
	var buf bytes.Buffer
	assert.NoError(t, popmap.Write(&buf, []string{"s3", "s2", "s1"}, pm))
	assert.EQ(t, buf.String(), "s3\tsouth\ns1\tnorth\n")

	m, err := popmap.Read(&buf)
	assert.NoError(t, err)
	assert.EQ(t, m, pm.Map())
}
