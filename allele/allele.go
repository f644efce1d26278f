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

// Package allele computes per-locus allele statistics over a column of
// genotype symbols.
//
// Frequency and count statistics always split a heterozygous (ambiguity-coded)
// call evenly between its two bases.  Distinct-allele statistics can instead
// ignore heterozygous calls entirely.
package allele

import (
	"github.com/grailbio/genofilter/genotype"
)

// Counts holds allele counts indexed by genotype.BaseA..genotype.BaseT.
type Counts [genotype.NBase]float64

// Total returns the sum of the counts.
func (c Counts) Total() float64 {
	return c[0] + c[1] + c[2] + c[3]
}

// Top2 returns the largest and second-largest counts, and the number of
// nonzero counts.
func (c Counts) Top2() (major, minor float64, nonzero int) {
	for _, v := range c {
		if v <= 0 {
			continue
		}
		nonzero++
		if v > major {
			major, minor = v, major
		} else if v > minor {
			minor = v
		}
	}
	return
}

// ValidAlleleCounts counts the four canonical bases in col.  Each ambiguity
// code adds 0.5 to each of its two bases.  U and missing markers are ignored.
func ValidAlleleCounts(col []byte) Counts {
	var c Counts
	for _, sym := range col {
		if e := genotype.BaseEnum(sym); e < genotype.NBase {
			c[e]++
			continue
		}
		if lo, hi, ok := genotype.Constituents(sym); ok {
			c[lo] += 0.5
			c[hi] += 0.5
		}
	}
	return c
}

// MinorAlleleFrequency returns the frequency of the second most common base
// in col, or 0 if fewer than two bases are observed.
func MinorAlleleFrequency(col []byte) float64 {
	c := ValidAlleleCounts(col)
	_, minor, nonzero := c.Top2()
	if nonzero < 2 {
		return 0
	}
	return minor / c.Total()
}

// MinorAlleleCount returns the count of the second most common base in col.
// Counts are multiples of 0.5.
func MinorAlleleCount(col []byte) float64 {
	_, minor, _ := ValidAlleleCounts(col).Top2()
	return minor
}

// Tally holds occurrence counts indexed by genotype.BaseA..genotype.BaseU.
type Tally [genotype.NAllele]int

// Distinct returns the number of alleles with a nonzero count.
func (t Tally) Distinct() int {
	n := 0
	for _, v := range t {
		if v > 0 {
			n++
		}
	}
	return n
}

// Min returns the smallest nonzero count, or 0 if t is empty.
func (t Tally) Min() int {
	m := 0
	for _, v := range t {
		if v > 0 && (m == 0 || v < m) {
			m = v
		}
	}
	return m
}

// TallyAlleles counts allele occurrences in col.  If excludeHet, ambiguity
// codes are skipped; otherwise each one adds one occurrence to each of its two
// bases.  Missing markers are always skipped.
func TallyAlleles(col []byte, excludeHet bool) Tally {
	var t Tally
	for _, sym := range col {
		if e := genotype.BaseEnum(sym); e < genotype.NAllele {
			t[e]++
			continue
		}
		if excludeHet || !genotype.IsAmbiguous(sym) {
			continue
		}
		lo, hi, _ := genotype.Constituents(sym)
		t[lo]++
		t[hi]++
	}
	return t
}

// UniqueValidAlleles returns the number of distinct valid alleles in col, under
// the same heterozygote handling as TallyAlleles.
func UniqueValidAlleles(col []byte, excludeHet bool) int {
	return TallyAlleles(col, excludeHet).Distinct()
}
