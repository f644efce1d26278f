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

import (
	"math/rand"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/genofilter/genotype"
)

// byChromosome groups active loci by chromosome, in order of first
// appearance.  Positions index v.Loci.
func byChromosome(v *View) [][]int {
	var (
		groups [][]int
		index  = map[string]int{}
	)
	for i, l := range v.Loci {
		chrom := v.Coords.Chromosomes[l]
		g, ok := index[chrom]
		if !ok {
			g = len(groups)
			index[chrom] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

func checkCoords(v *View, op string) error {
	if v.Coords == nil {
		return errors.E(errors.NotExist, "filter."+op+": locus coordinates are required")
	}
	return v.Coords.Validate(v.Alignment.NLoci())
}

// UnlinkedOnly keeps exactly one randomly chosen active locus per chromosome.
func UnlinkedOnly(v *View, rng *rand.Rand) ([]bool, error) {
	if err := checkCoords(v, "UnlinkedOnly"); err != nil {
		return nil, err
	}
	keep := make([]bool, len(v.Loci))
	for _, group := range byChromosome(v) {
		keep[group[rng.Intn(len(group))]] = true
	}
	return keep, nil
}

// Thin scans the active loci of each chromosome in position order, keeping a
// locus and then dropping every following locus that lies within window bases
// of it.  The first locus of each chromosome is always kept.
func Thin(v *View, window genotype.PosType) ([]bool, error) {
	if err := checkCoords(v, "Thin"); err != nil {
		return nil, err
	}
	keep := make([]bool, len(v.Loci))
	for _, group := range byChromosome(v) {
		sort.SliceStable(group, func(a, b int) bool {
			return v.Coords.Positions[v.Loci[group[a]]] < v.Coords.Positions[v.Loci[group[b]]]
		})
		last := v.Coords.Positions[v.Loci[group[0]]]
		keep[group[0]] = true
		for _, i := range group[1:] {
			pos := v.Coords.Positions[v.Loci[i]]
			if pos-last <= window {
				continue
			}
			keep[i] = true
			last = pos
		}
	}
	return keep, nil
}
