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

package filterchain

import (
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
)

// RandomSubset sizes the random-subset stage.  Exactly one field must be set.
type RandomSubset struct {
	// Count is the number of loci to keep.
	Count int `toml:"count"`
	// Fraction is the fraction of active loci to keep, in (0, 1].
	Fraction float64 `toml:"fraction"`
}

// Size returns the number of loci to draw from active loci.
func (r RandomSubset) Size(active int) int {
	if r.Count > 0 {
		return r.Count
	}
	n := int(math.Round(float64(active) * r.Fraction))
	if n < 1 {
		n = 1
	}
	return n
}

func (r RandomSubset) value() float64 {
	if r.Count > 0 {
		return float64(r.Count)
	}
	return r.Fraction
}

// Opts configures a filter chain run.  Start from DefaultOpts: the missing-data
// stages are disabled by a threshold of 1, not by the zero value.
type Opts struct {
	// UnlinkedOnly keeps a single random locus per chromosome.  Requires a
	// coordinate-bearing source.
	UnlinkedOnly bool `toml:"unlinked_only"`
	// ThinWindow drops loci within this many bases of the previous retained
	// locus on the same chromosome.  0 disables.  Requires a
	// coordinate-bearing source.
	ThinWindow int64 `toml:"thin_window"`
	// RandomSubset, if non-nil, keeps a random subset of loci.
	RandomSubset *RandomSubset `toml:"random_subset"`
	// MaxMissingSample is the largest missing fraction a sample may have.
	// 1 disables.
	MaxMissingSample float64 `toml:"max_missing_sample"`

	Monomorphic bool `toml:"monomorphic"`
	Singletons  bool `toml:"singletons"`
	Biallelic   bool `toml:"biallelic"`
	// *ExcludeHet make the corresponding allele-identity filter ignore
	// heterozygous calls instead of expanding them into both bases.
	MonomorphicExcludeHet bool `toml:"monomorphic_exclude_het"`
	SingletonsExcludeHet  bool `toml:"singletons_exclude_het"`
	BiallelicExcludeHet   bool `toml:"biallelic_exclude_het"`

	// MaxMissingGlobal is the largest missing fraction a locus may have.
	// 1 disables.
	MaxMissingGlobal float64 `toml:"max_missing_global"`
	// MaxMissingPop is the largest missing fraction a locus may have within
	// any population.  1 disables.
	MaxMissingPop float64 `toml:"max_missing_pop"`
	// MinMAF is the smallest minor-allele frequency a locus may have.  0
	// disables.
	MinMAF float64 `toml:"min_maf"`
	// MinMAC is the smallest minor-allele count a locus may have.  0 disables.
	MinMAC float64 `toml:"min_mac"`

	// SearchMode turns a stage that would remove every locus or sample into a
	// logged no-op.  Otherwise such a stage fails the run.
	SearchMode bool `toml:"search_mode"`
	// Seed seeds the random stages.  Nil means a time-based seed.
	Seed *int64 `toml:"seed"`
}

// DefaultOpts disables every stage.
var DefaultOpts = Opts{
	MaxMissingSample: 1.0,
	MaxMissingGlobal: 1.0,
	MaxMissingPop:    1.0,
}

// stage returns whether s is enabled and, if it has one, its numeric
// threshold.
func (o *Opts) stage(s Stage) (enabled, hasThreshold bool, threshold float64) {
	switch s {
	case StageUnlinked:
		return o.UnlinkedOnly, false, 0
	case StageThin:
		return o.ThinWindow > 0, true, float64(o.ThinWindow)
	case StageRandomSubset:
		if o.RandomSubset == nil {
			return false, true, 0
		}
		return true, true, o.RandomSubset.value()
	case StageMissingSample:
		return o.MaxMissingSample < 1, true, o.MaxMissingSample
	case StageMonomorphic:
		return o.Monomorphic, false, 0
	case StageSingleton:
		return o.Singletons, false, 0
	case StageBiallelic:
		return o.Biallelic, false, 0
	case StageMissingGlobal:
		return o.MaxMissingGlobal < 1, true, o.MaxMissingGlobal
	case StageMissingPop:
		return o.MaxMissingPop < 1, true, o.MaxMissingPop
	case StageMAF:
		return o.MinMAF > 0, true, o.MinMAF
	case StageMAC:
		return o.MinMAC > 0, true, o.MinMAC
	}
	panic(s)
}

func invalid(s Stage, param string, format string, args ...interface{}) error {
	return errors.E(errors.Invalid,
		fmt.Sprintf("filterchain: %s: %s %s", s, param, fmt.Sprintf(format, args...)))
}

func checkFraction(s Stage, param string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return invalid(s, param, "must be in [0, 1], got %v", v)
	}
	return nil
}

// Validate checks every threshold.  The error names the offending stage and
// parameter.
func (o *Opts) Validate() error {
	if o.ThinWindow < 0 {
		return invalid(StageThin, "thin_window", "must be non-negative, got %d", o.ThinWindow)
	}
	if r := o.RandomSubset; r != nil {
		switch {
		case r.Count < 0:
			return invalid(StageRandomSubset, "count", "must be positive, got %d", r.Count)
		case r.Count > 0 && r.Fraction != 0:
			return invalid(StageRandomSubset, "count", "and fraction are mutually exclusive")
		case r.Count == 0 && (math.IsNaN(r.Fraction) || r.Fraction <= 0 || r.Fraction > 1):
			return invalid(StageRandomSubset, "fraction", "must be in (0, 1], got %v", r.Fraction)
		}
	}
	if err := checkFraction(StageMissingSample, "max_missing_sample", o.MaxMissingSample); err != nil {
		return err
	}
	if err := checkFraction(StageMissingGlobal, "max_missing_global", o.MaxMissingGlobal); err != nil {
		return err
	}
	if err := checkFraction(StageMissingPop, "max_missing_pop", o.MaxMissingPop); err != nil {
		return err
	}
	if math.IsNaN(o.MinMAF) || o.MinMAF < 0 || o.MinMAF > 0.5 {
		return invalid(StageMAF, "min_maf", "must be in [0, 0.5], got %v", o.MinMAF)
	}
	if math.IsNaN(o.MinMAC) || math.IsInf(o.MinMAC, 0) || o.MinMAC < 0 {
		return invalid(StageMAC, "min_mac", "must be a non-negative number, got %v", o.MinMAC)
	}
	return nil
}

// Enabled returns the stages o turns on, in chain order.
func (o *Opts) Enabled() []Stage {
	var stages []Stage
	for _, s := range Stages {
		if enabled, _, _ := o.stage(s); enabled {
			stages = append(stages, s)
		}
	}
	return stages
}
