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

package genotype

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Alignment is a fixed-shape samples x loci matrix of genotype symbols,
// stored row-major.  Rows are samples and columns are loci.
type Alignment struct {
	nSamples, nLoci int
	data            []byte
}

// NewAlignment copies rows into a new Alignment.  All rows must have the same
// length, and every symbol must be in the genotype alphabet.  Lower-case
// symbols are upper-cased.
func NewAlignment(rows [][]byte) (*Alignment, error) {
	a := &Alignment{nSamples: len(rows)}
	if len(rows) > 0 {
		a.nLoci = len(rows[0])
	}
	a.data = make([]byte, a.nSamples*a.nLoci)
	for i, row := range rows {
		if len(row) != a.nLoci {
			return nil, errors.E(errors.Integrity,
				fmt.Sprintf("genotype.NewAlignment: row %d has %d loci, expected %d", i, len(row), a.nLoci))
		}
		dst := a.data[i*a.nLoci : (i+1)*a.nLoci]
		for j, c := range row {
			n, ok := Normalize(c)
			if !ok {
				return nil, errors.E(errors.Invalid,
					fmt.Sprintf("genotype.NewAlignment: invalid symbol %q at row %d, locus %d", c, i, j))
			}
			dst[j] = n
		}
	}
	return a, nil
}

// NSamples returns the number of rows.
func (a *Alignment) NSamples() int { return a.nSamples }

// NLoci returns the number of columns.
func (a *Alignment) NLoci() int { return a.nLoci }

// At returns the symbol for the given sample and locus.
func (a *Alignment) At(sample, locus int) byte {
	return a.data[sample*a.nLoci+locus]
}

// Row returns the symbols of one sample.  The result aliases the alignment and
// must not be modified.
func (a *Alignment) Row(sample int) []byte {
	return a.data[sample*a.nLoci : (sample+1)*a.nLoci]
}

// Column appends the symbols of the given locus, restricted to samples, to
// dst.  If samples is nil, all samples are used.
func (a *Alignment) Column(locus int, samples []int, dst []byte) []byte {
	if samples == nil {
		for s := 0; s < a.nSamples; s++ {
			dst = append(dst, a.data[s*a.nLoci+locus])
		}
		return dst
	}
	for _, s := range samples {
		dst = append(dst, a.data[s*a.nLoci+locus])
	}
	return dst
}

// Clone returns a deep copy of the alignment.
func (a *Alignment) Clone() *Alignment {
	data := make([]byte, len(a.data))
	copy(data, a.data)
	return &Alignment{nSamples: a.nSamples, nLoci: a.nLoci, data: data}
}

// Subset returns a new alignment containing the given rows and columns, in the
// given order.
func (a *Alignment) Subset(samples, loci []int) *Alignment {
	out := &Alignment{
		nSamples: len(samples),
		nLoci:    len(loci),
		data:     make([]byte, len(samples)*len(loci)),
	}
	for i, s := range samples {
		src := a.Row(s)
		dst := out.data[i*out.nLoci : (i+1)*out.nLoci]
		for j, l := range loci {
			dst[j] = src[l]
		}
	}
	return out
}

// Rows returns a copy of the matrix as one byte slice per sample.
func (a *Alignment) Rows() [][]byte {
	rows := make([][]byte, a.nSamples)
	for i := range rows {
		rows[i] = append([]byte(nil), a.Row(i)...)
	}
	return rows
}

// MissingFraction returns the fraction of missing symbols over the given
// samples and loci.  A nil index slice selects every row (or column).  An empty
// selection has missing fraction 0.
func (a *Alignment) MissingFraction(samples, loci []int) float64 {
	var missing, total int
	visit := func(s int) {
		row := a.Row(s)
		if loci == nil {
			for _, c := range row {
				if IsMissing(c) {
					missing++
				}
			}
			total += len(row)
			return
		}
		for _, l := range loci {
			if IsMissing(row[l]) {
				missing++
			}
		}
		total += len(loci)
	}
	if samples == nil {
		for s := 0; s < a.nSamples; s++ {
			visit(s)
		}
	} else {
		for _, s := range samples {
			visit(s)
		}
	}
	if total == 0 {
		return 0
	}
	return float64(missing) / float64(total)
}
