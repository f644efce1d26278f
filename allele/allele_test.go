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

package allele_test

import (
	"testing"

	"github.com/grailbio/genofilter/allele"
	"github.com/grailbio/genofilter/genotype"
	"github.com/stretchr/testify/assert"
)

func TestAmbiguitySplit(t *testing.T) {
	col := []byte("AAAAAAATTW")
	c := allele.ValidAlleleCounts(col)
	assert.Equal(t, 7.5, c[genotype.BaseA])
	assert.Equal(t, 2.5, c[genotype.BaseT])
	assert.Equal(t, 0.0, c[genotype.BaseC])
	assert.Equal(t, 10.0, c.Total())
	assert.InDelta(t, 0.25, allele.MinorAlleleFrequency(col), 1e-12)
	assert.Equal(t, 2.5, allele.MinorAlleleCount(col))
}

func TestMinorAllele(t *testing.T) {
	tests := []struct {
		col      string
		maf, mac float64
	}{
		{"", 0, 0},
		{"NNN-", 0, 0},
		{"AAAA", 0, 0},
		{"AAAC", 0.25, 1},
		{"AACCG", 0.4, 2},
		{"AAAR", 0.125, 0.5},
		{"UUUA", 0, 0},
		{"A?C.", 0.5, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.maf, allele.MinorAlleleFrequency([]byte(tt.col)), 1e-12, "col %s", tt.col)
		assert.Equal(t, tt.mac, allele.MinorAlleleCount([]byte(tt.col)), "col %s", tt.col)
	}
}

func TestUniqueValidAlleles(t *testing.T) {
	tests := []struct {
		col        string
		excludeHet bool
		want       int
	}{
		{"AACCG", false, 3},
		{"AACC", false, 2},
		{"AAAA", false, 1},
		{"NN-?", false, 0},
		{"AAAR", false, 2},
		{"AAAR", true, 1},
		{"RRRR", true, 0},
		{"RY", false, 4},
		{"AU", false, 2},
		{"AU", true, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, allele.UniqueValidAlleles([]byte(tt.col), tt.excludeHet),
			"col %s excludeHet %v", tt.col, tt.excludeHet)
	}
}

func TestTallyAlleles(t *testing.T) {
	tally := allele.TallyAlleles([]byte("AAAAAAAAAT"), false)
	assert.Equal(t, 9, tally[genotype.BaseA])
	assert.Equal(t, 1, tally[genotype.BaseT])
	assert.Equal(t, 2, tally.Distinct())
	assert.Equal(t, 1, tally.Min())

	tally = allele.TallyAlleles([]byte("AAAW"), false)
	assert.Equal(t, 4, tally[genotype.BaseA])
	assert.Equal(t, 1, tally[genotype.BaseT])

	tally = allele.TallyAlleles([]byte("AAAW"), true)
	assert.Equal(t, 3, tally[genotype.BaseA])
	assert.Equal(t, 0, tally[genotype.BaseT])

	// Missing markers never count; U is an allele of its own.
	tally = allele.TallyAlleles([]byte("N-.?RU"), false)
	assert.Equal(t, allele.Tally{1, 0, 1, 0, 1}, tally)
	assert.Equal(t, 3, tally.Distinct())
	tally = allele.TallyAlleles([]byte("N-.?RU"), true)
	assert.Equal(t, allele.Tally{0, 0, 0, 0, 1}, tally)

	var empty allele.Tally
	assert.Equal(t, 0, empty.Min())
}
