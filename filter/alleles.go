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
	"github.com/grailbio/genofilter/allele"
)

func locusFilter(v *View, pred func(col []byte) bool) []bool {
	keep := make([]bool, len(v.Loci))
	v.eachColumn(func(i int, col []byte) {
		keep[i] = pred(col)
	})
	return keep
}

// MinorAlleleFrequency keeps loci whose minor-allele frequency is at least
// min.
func MinorAlleleFrequency(v *View, min float64) []bool {
	return locusFilter(v, func(col []byte) bool {
		return allele.MinorAlleleFrequency(col) >= min
	})
}

// MinorAlleleCount keeps loci whose minor-allele count is at least min.
func MinorAlleleCount(v *View, min float64) []bool {
	return locusFilter(v, func(col []byte) bool {
		return allele.MinorAlleleCount(col) >= min
	})
}

// Biallelic keeps loci with exactly two distinct valid alleles.
func Biallelic(v *View, excludeHet bool) []bool {
	return locusFilter(v, func(col []byte) bool {
		return allele.UniqueValidAlleles(col, excludeHet) == 2
	})
}

// Monomorphic drops loci with at most one distinct valid allele.
func Monomorphic(v *View, excludeHet bool) []bool {
	return locusFilter(v, func(col []byte) bool {
		return allele.UniqueValidAlleles(col, excludeHet) > 1
	})
}

// Singleton drops biallelic loci whose rarer allele is observed exactly once.
// Loci with any other number of alleles are kept.
func Singleton(v *View, excludeHet bool) []bool {
	return locusFilter(v, func(col []byte) bool {
		t := allele.TallyAlleles(col, excludeHet)
		return !(t.Distinct() == 2 && t.Min() == 1)
	})
}
