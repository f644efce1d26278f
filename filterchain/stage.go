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

import "fmt"

// Stage identifies one step of the filter chain.  Stages run in the order of
// their values.
type Stage int

const (
	// StageNone marks an entry that no stage removed.
	StageNone Stage = iota - 1
	// StageUnlinked keeps one random locus per chromosome.
	StageUnlinked
	// StageThin drops loci closer than a window to the previous kept locus.
	StageThin
	// StageRandomSubset keeps a random subset of loci.
	StageRandomSubset
	// StageMissingSample drops samples with too much missing data.
	StageMissingSample
	// StageMonomorphic drops loci with at most one allele.
	StageMonomorphic
	// StageSingleton drops loci whose minor allele is seen once.
	StageSingleton
	// StageBiallelic drops loci that do not have exactly two alleles.
	StageBiallelic
	// StageMissingGlobal drops loci with too much missing data.
	StageMissingGlobal
	// StageMissingPop drops loci with too much missing data in any population.
	StageMissingPop
	// StageMAF drops loci with a low minor-allele frequency.
	StageMAF
	// StageMAC drops loci with a low minor-allele count.
	StageMAC

	// NStage is the number of stages.
	NStage = int(StageMAC) + 1
)

// Stages lists every stage in execution order.
var Stages = [NStage]Stage{
	StageUnlinked,
	StageThin,
	StageRandomSubset,
	StageMissingSample,
	StageMonomorphic,
	StageSingleton,
	StageBiallelic,
	StageMissingGlobal,
	StageMissingPop,
	StageMAF,
	StageMAC,
}

var stageNames = [NStage]string{
	"unlinked",
	"thin",
	"random_subset",
	"missing_sample",
	"monomorphic",
	"singleton",
	"biallelic",
	"missing_global",
	"missing_pop",
	"maf",
	"mac",
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	if s == StageNone {
		return "none"
	}
	if s < 0 || int(s) >= NStage {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Granularity is the axis a stage filters.
type Granularity int

const (
	// Loci stages drop columns.
	Loci Granularity = iota
	// Samples stages drop rows.
	Samples
)

// String implements fmt.Stringer.
func (g Granularity) String() string {
	if g == Samples {
		return "samples"
	}
	return "loci"
}

// Granularity returns the axis the stage filters.
func (s Stage) Granularity() Granularity {
	if s == StageMissingSample {
		return Samples
	}
	return Loci
}

// NeedsCoordinates reports whether the stage reads locus coordinates.
func (s Stage) NeedsCoordinates() bool {
	return s == StageUnlinked || s == StageThin
}
