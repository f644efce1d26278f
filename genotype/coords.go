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
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
)

// PosType is the integer type used to represent genomic positions.
type PosType = int64

// CoordinateTable holds the (chromosome, position) of each locus, indexed by
// locus.
type CoordinateTable struct {
	Chromosomes []string
	Positions   []PosType
}

// CoordinateSource supplies the coordinate table of a coordinate-bearing
// alignment.  It is read at most once per filter run.
type CoordinateSource interface {
	LoadCoordinates(ctx context.Context) (*CoordinateTable, error)
}

// LoadCoordinates implements CoordinateSource, so an in-memory table can be
// used directly as a source.
func (t *CoordinateTable) LoadCoordinates(ctx context.Context) (*CoordinateTable, error) {
	return t, nil
}

// Len returns the number of loci in the table.
func (t *CoordinateTable) Len() int {
	return len(t.Positions)
}

// Validate checks that the table is well formed and describes exactly nLoci
// loci.
func (t *CoordinateTable) Validate(nLoci int) error {
	if t == nil {
		return errors.E(errors.NotExist, "genotype: coordinate table is missing")
	}
	if len(t.Chromosomes) != len(t.Positions) {
		return errors.E(errors.Integrity,
			fmt.Sprintf("genotype: coordinate table has %d chromosomes but %d positions",
				len(t.Chromosomes), len(t.Positions)))
	}
	if len(t.Positions) != nLoci {
		return errors.E(errors.Integrity,
			fmt.Sprintf("genotype: coordinate table has %d loci, alignment has %d", len(t.Positions), nLoci))
	}
	for i, chrom := range t.Chromosomes {
		if chrom == "" {
			return errors.E(errors.Integrity, fmt.Sprintf("genotype: locus %d has an empty chromosome name", i))
		}
		if t.Positions[i] < 0 {
			return errors.E(errors.Integrity,
				fmt.Sprintf("genotype: locus %d has negative position %d", i, t.Positions[i]))
		}
	}
	return nil
}

// Subset returns the coordinates of the given loci, renumbered from 0.
func (t *CoordinateTable) Subset(loci []int) *CoordinateTable {
	out := &CoordinateTable{
		Chromosomes: make([]string, len(loci)),
		Positions:   make([]PosType, len(loci)),
	}
	for i, l := range loci {
		out.Chromosomes[i] = t.Chromosomes[l]
		out.Positions[i] = t.Positions[l]
	}
	return out
}
