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
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/genofilter/filter"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SweepOpts configures SearchThresholds.  The i'th grid point pairs
// MissingThresholds[i] with MAFThresholds[i]; the shorter list bounds the
// sweep.
type SweepOpts struct {
	MissingThresholds []float64
	MAFThresholds     []float64
	// Biallelic, Monomorphic and Singleton heterozygote handling for the
	// one-off allele-identity counts.
	ExcludeHet bool
}

// DefaultSweepOpts sweeps missingness over 5 evenly spaced thresholds in
// [0.1, 1] and MAF over 10 in [0, 0.2].
var DefaultSweepOpts = SweepOpts{
	MissingThresholds: floats.Span(make([]float64, 5), 0.1, 1),
	MAFThresholds:     floats.Span(make([]float64, 10), 0, 0.2),
}

// SweepPoint reports what each threshold filter would retain at one grid
// point.
type SweepPoint struct {
	MissingThreshold float64
	MAFThreshold     float64

	// LociMissingGlobal is the number of loci the global missingness filter
	// retains.  LociMissingMean and LociMissingStdDev summarize the missing
	// fraction of the retained loci.
	LociMissingGlobal                  int
	LociMissingMean, LociMissingStdDev float64

	// LociMissingPop is the number of loci the per-population filter retains.
	// It is -1 if the alignment has no population map.
	LociMissingPop int

	// SamplesMissing is the number of samples the per-sample filter retains.
	SamplesMissing                           int
	SamplesMissingMean, SamplesMissingStdDev float64

	// LociMAF is the number of loci the MAF filter retains.
	LociMAF int
}

// Sweep is the result of SearchThresholds.
type Sweep struct {
	// ActiveLoci and ActiveSamples are the sizes of the view that was swept.
	ActiveLoci, ActiveSamples int
	Points                    []SweepPoint

	// Loci retained by each allele-identity filter.
	Monomorphic, Biallelic, Singleton int
}

func meanStdDev(props []float64, keep []bool) (mean, std float64) {
	var kept []float64
	for i, k := range keep {
		if k {
			kept = append(kept, props[i])
		}
	}
	if len(kept) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(kept, nil)
}

// SearchThresholds evaluates the threshold filters over a grid of thresholds,
// against the loci and samples currently retained by the chain.  It does not
// change the chain.  Grid points are evaluated in parallel.
func (c *Chain) SearchThresholds(ctx context.Context, opts SweepOpts) (*Sweep, error) {
	n := len(opts.MissingThresholds)
	if len(opts.MAFThresholds) < n {
		n = len(opts.MAFThresholds)
	}
	if n == 0 {
		return nil, errors.E(errors.Invalid, "filterchain.SearchThresholds: empty threshold grid")
	}
	for i := 0; i < n; i++ {
		if t := opts.MissingThresholds[i]; math.IsNaN(t) || t < 0 || t > 1 {
			return nil, errors.E(errors.Invalid,
				fmt.Sprintf("filterchain.SearchThresholds: missing threshold %v is not in [0, 1]", t))
		}
		if t := opts.MAFThresholds[i]; math.IsNaN(t) || t < 0 || t > 1 {
			return nil, errors.E(errors.Invalid,
				fmt.Sprintf("filterchain.SearchThresholds: MAF threshold %v is not in [0, 1]", t))
		}
	}
	v := c.view()
	hasPops := len(v.PopMap.Populations()) > 0
	locusMissing := v.LocusMissing()
	sampleMissing := v.SampleMissing()

	sweep := &Sweep{
		ActiveLoci:    len(v.Loci),
		ActiveSamples: len(v.Samples),
		Points:        make([]SweepPoint, n),
		Monomorphic:   filter.Count(filter.Monomorphic(v, opts.ExcludeHet)),
		Biallelic:     filter.Count(filter.Biallelic(v, opts.ExcludeHet)),
		Singleton:     filter.Count(filter.Singleton(v, opts.ExcludeHet)),
	}
	err := traverse.Each(n, func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := SweepPoint{
			MissingThreshold: opts.MissingThresholds[i],
			MAFThreshold:     opts.MAFThresholds[i],
			LociMissingPop:   -1,
		}
		keep := filter.MissingGlobal(v, p.MissingThreshold)
		p.LociMissingGlobal = filter.Count(keep)
		p.LociMissingMean, p.LociMissingStdDev = meanStdDev(locusMissing, keep)

		keep = filter.MissingPerSample(v, p.MissingThreshold)
		p.SamplesMissing = filter.Count(keep)
		p.SamplesMissingMean, p.SamplesMissingStdDev = meanStdDev(sampleMissing, keep)

		if hasPops {
			p.LociMissingPop = filter.Count(filter.MissingPerPopulation(v, p.MissingThreshold))
		}
		p.LociMAF = filter.Count(filter.MinorAlleleFrequency(v, p.MAFThreshold))
		sweep.Points[i] = p
		log.Debug.Printf("filterchain: sweep point %d: missing<=%v maf>=%v", i, p.MissingThreshold, p.MAFThreshold)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sweep, nil
}

// WriteTSV writes one row per grid point.  The allele-identity counts do not
// depend on the thresholds and repeat on every row.
func (s *Sweep) WriteTSV(w io.Writer) error {
	out := tsv.NewWriter(w)
	out.WriteString("MISSING_THRESHOLD\tMAF_THRESHOLD\tLOCI_MISSING_GLOBAL\tLOCI_MISSING_MEAN\tLOCI_MISSING_SD\t" +
		"LOCI_MISSING_POP\tSAMPLES_MISSING\tSAMPLES_MISSING_MEAN\tSAMPLES_MISSING_SD\tLOCI_MAF\t" +
		"LOCI_MONOMORPHIC\tLOCI_BIALLELIC\tLOCI_SINGLETON")
	if err := out.EndLine(); err != nil {
		return err
	}
	for _, p := range s.Points {
		out.WriteString(formatFloat(p.MissingThreshold))
		out.WriteString(formatFloat(p.MAFThreshold))
		out.WriteString(strconv.Itoa(p.LociMissingGlobal))
		out.WriteString(formatFloat(p.LociMissingMean))
		out.WriteString(formatFloat(p.LociMissingStdDev))
		if p.LociMissingPop < 0 {
			out.WriteString(".")
		} else {
			out.WriteString(strconv.Itoa(p.LociMissingPop))
		}
		out.WriteString(strconv.Itoa(p.SamplesMissing))
		out.WriteString(formatFloat(p.SamplesMissingMean))
		out.WriteString(formatFloat(p.SamplesMissingStdDev))
		out.WriteString(strconv.Itoa(p.LociMAF))
		out.WriteString(strconv.Itoa(s.Monomorphic))
		out.WriteString(strconv.Itoa(s.Biallelic))
		out.WriteString(strconv.Itoa(s.Singleton))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
