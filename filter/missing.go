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

package filter

import "github.com/grailbio/genofilter/genotype"

// MissingGlobal drops loci whose missing fraction across active samples
// exceeds max.
func MissingGlobal(v *View, max float64) []bool {
	keep := make([]bool, len(v.Loci))
	for i, p := range v.LocusMissing() {
		keep[i] = p <= max
	}
	return keep
}

// MissingPerSample drops samples whose missing fraction across active loci
// exceeds max.
func MissingPerSample(v *View, max float64) []bool {
	keep := make([]bool, len(v.Samples))
	for i, p := range v.SampleMissing() {
		keep[i] = p <= max
	}
	return keep
}

// populationRows groups the active samples by population.  Positions index
// v.Samples.  Samples without a population are skipped, and populations
// without active members do not appear.
func populationRows(v *View) [][]int {
	var (
		groups [][]int
		index  = map[string]int{}
	)
	for i, s := range v.Samples {
		pop, ok := v.PopMap.Population(v.SampleIDs[s])
		if !ok {
			continue
		}
		g, seen := index[pop]
		if !seen {
			g = len(groups)
			index[pop] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

// MissingPerPopulation keeps a locus only if, in every population with an
// active member, the missing fraction among that population's active samples
// is at most max.  A population with fewer than two active samples counts as
// entirely missing.
func MissingPerPopulation(v *View, max float64) []bool {
	groups := populationRows(v)
	keep := make([]bool, len(v.Loci))
	v.eachColumn(func(i int, col []byte) {
		keep[i] = true
		for _, rows := range groups {
			frac := 1.0
			if len(rows) >= 2 {
				n := 0
				for _, r := range rows {
					if genotype.IsMissing(col[r]) {
						n++
					}
				}
				frac = float64(n) / float64(len(rows))
			}
			if frac > max {
				keep[i] = false
				return
			}
		}
	})
	return keep
}
