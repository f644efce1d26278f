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

// Package genotype holds genotype alignments: a samples x loci symbol matrix
// together with the sample list, population map, and (for sources parsed from
// variant calls) per-locus genomic coordinates.
package genotype

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
)

// Format identifies the file format an alignment was parsed from.
type Format int

const (
	// FormatUnknown is the zero Format.
	FormatUnknown Format = iota
	// FormatPhylip is a (sequential) PHYLIP alignment.
	FormatPhylip
	// FormatFasta is an aligned FASTA file.
	FormatFasta
	// FormatStructure is a STRUCTURE genotype file.
	FormatStructure
	// Format012 is an integer-coded 0/1/2 genotype file.
	Format012
	// FormatVCF is a variant-call file.  Only this format carries per-locus
	// coordinates.
	FormatVCF
)

var formatNames = [...]string{"unknown", "phylip", "fasta", "structure", "012", "vcf"}

// String implements fmt.Stringer.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// HasCoordinates reports whether alignments of this format carry per-locus
// genomic coordinates.
func (f Format) HasCoordinates() bool {
	return f == FormatVCF
}

// ParseFormat converts a format name, as returned by Format.String, to a
// Format.
func ParseFormat(name string) (Format, error) {
	for i, n := range formatNames {
		if strings.EqualFold(n, name) {
			return Format(i), nil
		}
	}
	return FormatUnknown, errors.E(errors.Invalid, fmt.Sprintf("genotype: unknown format %q", name))
}

// StoreOpts describes the parsed contents of an alignment file.
type StoreOpts struct {
	// Samples lists sample IDs, one per row.
	Samples []string
	// Rows holds the genotype symbols of each sample.
	Rows [][]byte
	// PopMap maps sample ID -> population ID.  Entries for samples that are
	// not in Samples are dropped.  May be empty.
	PopMap map[string]string
	// Format is the format the rows were parsed from.
	Format Format
	// Coordinates supplies per-locus coordinates.  Only consulted when
	// Format.HasCoordinates().
	Coordinates CoordinateSource
}

// Store is an immutable genotype alignment with its metadata.
type Store struct {
	aln     *Alignment
	samples []string
	popmap  *PopulationMap
	format  Format
	coords  CoordinateSource
}

// NewStore validates opts and builds a Store.  The rows are copied.
func NewStore(opts StoreOpts) (*Store, error) {
	if len(opts.Samples) != len(opts.Rows) {
		return nil, errors.E(errors.Integrity,
			fmt.Sprintf("genotype.NewStore: %d sample IDs for %d rows", len(opts.Samples), len(opts.Rows)))
	}
	seen := make(map[string]struct{}, len(opts.Samples))
	for _, s := range opts.Samples {
		if s == "" {
			return nil, errors.E(errors.Invalid, "genotype.NewStore: empty sample ID")
		}
		if _, ok := seen[s]; ok {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("genotype.NewStore: duplicate sample ID %q", s))
		}
		seen[s] = struct{}{}
	}
	aln, err := NewAlignment(opts.Rows)
	if err != nil {
		return nil, err
	}
	pm := make(map[string]string, len(opts.PopMap))
	for s, pop := range opts.PopMap {
		if _, ok := seen[s]; !ok {
			continue
		}
		if pop == "" {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("genotype.NewStore: sample %q has an empty population ID", s))
		}
		pm[s] = pop
	}
	return &Store{
		aln:     aln,
		samples: append([]string(nil), opts.Samples...),
		popmap:  NewPopulationMap(pm),
		format:  opts.Format,
		coords:  opts.Coordinates,
	}, nil
}

// Alignment returns the genotype matrix.  It must not be modified.
func (s *Store) Alignment() *Alignment { return s.aln }

// Samples returns the sample IDs, one per row.  It must not be modified.
func (s *Store) Samples() []string { return s.samples }

// PopulationMap returns the population map.
func (s *Store) PopulationMap() *PopulationMap { return s.popmap }

// Format returns the source format.
func (s *Store) Format() Format { return s.format }

// Coordinates returns the coordinate source, or nil if the store has none or
// its format does not carry coordinates.
func (s *Store) Coordinates() CoordinateSource {
	if !s.format.HasCoordinates() {
		return nil
	}
	return s.coords
}

// Clone returns a deep copy of the store.  The coordinate source is shared,
// since it is only ever read.
func (s *Store) Clone() *Store {
	return &Store{
		aln:     s.aln.Clone(),
		samples: append([]string(nil), s.samples...),
		popmap:  NewPopulationMap(s.popmap.Map()),
		format:  s.format,
		coords:  s.coords,
	}
}

// Subset returns a store holding the given rows and columns, renumbered from
// 0.  The population map is restricted to the retained samples.  coords, if
// non-nil, is the coordinate table of s; it is restricted to the retained loci
// and becomes the coordinate source of the result.
func (s *Store) Subset(samples, loci []int, coords *CoordinateTable) *Store {
	ids := make([]string, len(samples))
	for i, idx := range samples {
		ids[i] = s.samples[idx]
	}
	out := &Store{
		aln:     s.aln.Subset(samples, loci),
		samples: ids,
		popmap:  s.popmap.Subset(ids),
		format:  s.format,
	}
	if coords != nil {
		out.coords = coords.Subset(loci)
	}
	return out
}
