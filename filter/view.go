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

// Package filter implements the locus and sample filters applied by a filter
// chain.
//
// Each filter is a pure function of a View.  It returns a keep mask whose
// length equals the number of active loci (or active samples, for sample
// filters); keep[i] is true iff the i'th active locus (sample) is retained.
// Filters never modify the View.
package filter

import (
	"github.com/grailbio/genofilter/genotype"
)

// View is the active part of an alignment.  Samples and Loci hold original
// row/column indices in ascending order.
type View struct {
	Alignment *genotype.Alignment
	Samples   []int
	Loci      []int
	// SampleIDs holds the ID of every original row.
	SampleIDs []string
	PopMap    *genotype.PopulationMap
	// Coords is indexed by original locus.  It is nil unless the source
	// carries coordinates.
	Coords *genotype.CoordinateTable
}

// NewView returns a view covering all of store.
func NewView(store *genotype.Store) *View {
	aln := store.Alignment()
	v := &View{
		Alignment: aln,
		Samples:   make([]int, aln.NSamples()),
		Loci:      make([]int, aln.NLoci()),
		SampleIDs: store.Samples(),
		PopMap:    store.PopulationMap(),
	}
	for i := range v.Samples {
		v.Samples[i] = i
	}
	for i := range v.Loci {
		v.Loci[i] = i
	}
	return v
}

// column appends the symbols of the i'th active locus over active samples to
// dst.
func (v *View) column(i int, dst []byte) []byte {
	return v.Alignment.Column(v.Loci[i], v.Samples, dst)
}

// eachColumn calls fn for every active locus.  The column slice is reused
// across calls.
func (v *View) eachColumn(fn func(i int, col []byte)) {
	buf := make([]byte, 0, len(v.Samples))
	for i := range v.Loci {
		buf = v.column(i, buf[:0])
		fn(i, buf)
	}
}

// LocusMissing returns the missing fraction of each active locus over active
// samples.
func (v *View) LocusMissing() []float64 {
	props := make([]float64, len(v.Loci))
	v.eachColumn(func(i int, col []byte) {
		props[i] = missingFraction(col)
	})
	return props
}

// SampleMissing returns the missing fraction of each active sample over
// active loci.
func (v *View) SampleMissing() []float64 {
	props := make([]float64, len(v.Samples))
	for i, s := range v.Samples {
		row := v.Alignment.Row(s)
		if len(v.Loci) == 0 {
			props[i] = 1
			continue
		}
		n := 0
		for _, l := range v.Loci {
			if genotype.IsMissing(row[l]) {
				n++
			}
		}
		props[i] = float64(n) / float64(len(v.Loci))
	}
	return props
}

// MissingFraction returns the missing fraction over the whole view.
func (v *View) MissingFraction() float64 {
	return v.Alignment.MissingFraction(v.Samples, v.Loci)
}

// missingFraction returns the missing fraction of col.  An empty column is
// entirely missing.
func missingFraction(col []byte) float64 {
	if len(col) == 0 {
		return 1
	}
	n := 0
	for _, c := range col {
		if genotype.IsMissing(c) {
			n++
		}
	}
	return float64(n) / float64(len(col))
}

// Count returns the number of true entries in keep.
func Count(keep []bool) int {
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	return n
}
