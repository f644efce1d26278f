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

// Package filterchain runs the fixed, ordered sequence of locus and sample
// filters over a genotype alignment.
//
// A Chain owns a private copy of the alignment and two retention masks over
// the original locus and sample indices.  Each enabled stage evaluates its
// filter against the loci and samples that survived the earlier stages, and
// the result is committed into the masks.  Masks only shrink.  Finalize builds
// a new genotype.Store from what is left.
//
// Example:
//
//	c, err := filterchain.New(store)
//	opts := filterchain.DefaultOpts
//	opts.MaxMissingGlobal = 0.5
//	opts.Biallelic = true
//	err = c.Run(ctx, opts)
//	res, err := c.Finalize(ctx)
package filterchain

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/genofilter/filter"
	"github.com/grailbio/genofilter/genotype"
)

// Chain filters one alignment.  A Chain is not safe for concurrent use, but
// any number of Chains may share one genotype.Store.
type Chain struct {
	state   *genotype.Store
	loci    *RetentionMask
	samples *RetentionMask
	// sampleIDs is the pruned list of retained sample IDs.
	sampleIDs []string

	// coords is loaded at most once per chain.
	coords       *genotype.CoordinateTable
	coordsLoaded bool

	lociBy, samplesBy []Stage
	steps             []Step
	summary           Summary
	ran               bool
	// err is the error that aborted Run, if any.
	err error

	// afterStage, if set, is called after each stage's step is recorded.
	afterStage func(Stage)
}

// Result is the outcome of a chain run.
type Result struct {
	// Store holds the retained samples and loci, renumbered from 0.
	Store *genotype.Store
	Steps []Step
	// LociMask and SampleMask are indexed by original locus and sample.
	LociMask, SampleMask []bool
	// LociProvenance and SampleProvenance name the stage that removed each
	// original locus and sample, or StageNone if it was retained.
	LociProvenance, SampleProvenance []Stage
	Summary                          Summary

	// samples and coords describe the unfiltered input, for WriteMask.
	samples []string
	coords  *genotype.CoordinateTable
}

// New creates a chain over a private copy of store.
func New(store *genotype.Store) (*Chain, error) {
	if store == nil {
		return nil, errors.E(errors.Invalid, "filterchain.New: nil store")
	}
	state := store.Clone()
	aln := state.Alignment()
	c := &Chain{
		state:     state,
		loci:      NewRetentionMask(aln.NLoci()),
		samples:   NewRetentionMask(aln.NSamples()),
		sampleIDs: append([]string(nil), state.Samples()...),
		lociBy:    make([]Stage, aln.NLoci()),
		samplesBy: make([]Stage, aln.NSamples()),
	}
	for i := range c.lociBy {
		c.lociBy[i] = StageNone
	}
	for i := range c.samplesBy {
		c.samplesBy[i] = StageNone
	}
	return c, nil
}

// LociMask returns the current locus retention mask, indexed by original
// locus.
func (c *Chain) LociMask() []bool { return c.loci.Bools() }

// SampleMask returns the current sample retention mask, indexed by original
// sample.
func (c *Chain) SampleMask() []bool { return c.samples.Bools() }

// SampleIDs returns the IDs of the retained samples.
func (c *Chain) SampleIDs() []string { return c.sampleIDs }

// Steps returns the step records produced so far.
func (c *Chain) Steps() []Step { return c.steps }

// view returns the active part of the alignment.
func (c *Chain) view() *filter.View {
	return &filter.View{
		Alignment: c.state.Alignment(),
		Samples:   c.samples.Active(),
		Loci:      c.loci.Active(),
		SampleIDs: c.state.Samples(),
		PopMap:    c.state.PopulationMap(),
		Coords:    c.coords,
	}
}

// loadCoordinates reads the coordinate table on first use.
func (c *Chain) loadCoordinates(ctx context.Context) error {
	if c.coordsLoaded {
		return nil
	}
	src := c.state.Coordinates()
	if src == nil {
		return errors.E(errors.NotExist, "filterchain: the alignment has no coordinate source")
	}
	table, err := src.LoadCoordinates(ctx)
	if err != nil {
		return errors.E(err, "filterchain: loading locus coordinates")
	}
	if err := table.Validate(c.state.Alignment().NLoci()); err != nil {
		return err
	}
	c.coords = table
	c.coordsLoaded = true
	return nil
}

// checkConfig fails if an enabled stage cannot run against this alignment.
func (c *Chain) checkConfig(ctx context.Context, opts *Opts) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	for _, s := range Stages {
		enabled, _, _ := opts.stage(s)
		if !enabled {
			continue
		}
		if s.NeedsCoordinates() {
			if f := c.state.Format(); !f.HasCoordinates() {
				return errors.E(errors.Invalid,
					fmt.Sprintf("filterchain: %s: requires locus coordinates, which %s input does not carry", s, f))
			}
			if err := c.loadCoordinates(ctx); err != nil {
				return errors.E(err, fmt.Sprintf("filterchain: %s:", s))
			}
		}
		if s == StageMissingPop && len(c.state.PopulationMap().Populations()) == 0 {
			return errors.E(errors.Invalid,
				fmt.Sprintf("filterchain: %s: requires a population map", s))
		}
	}
	return nil
}

// Run executes every stage in order.  Configuration errors are reported before
// any stage runs.  Run may be called once per Chain.
func (c *Chain) Run(ctx context.Context, opts Opts) error {
	if c.ran {
		return errors.E(errors.Precondition, "filterchain: Run called twice")
	}
	if err := c.checkConfig(ctx, &opts); err != nil {
		return err
	}
	c.ran = true
	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	c.summary = Summary{
		LociBefore:    c.loci.Count(),
		SamplesBefore: c.samples.Count(),
		MissingBefore: 100 * c.view().MissingFraction(),
	}
	for _, s := range Stages {
		if err := c.runStage(s, &opts, rng); err != nil {
			c.err = err
			return err
		}
		if c.afterStage != nil {
			c.afterStage(s)
		}
	}
	c.summary.LociAfter = c.loci.Count()
	c.summary.SamplesAfter = c.samples.Count()
	c.summary.MissingAfter = 100 * c.view().MissingFraction()
	c.summary.NoOp = isNoOp(c.steps, c.summary)
	logReport(c.steps, c.summary)
	return nil
}

// apply evaluates the filter of stage s against the current view.
func (c *Chain) apply(s Stage, v *filter.View, opts *Opts, rng *rand.Rand) ([]bool, error) {
	switch s {
	case StageUnlinked:
		return filter.UnlinkedOnly(v, rng)
	case StageThin:
		return filter.Thin(v, opts.ThinWindow)
	case StageRandomSubset:
		return filter.RandomSubset(v, opts.RandomSubset.Size(len(v.Loci)), rng), nil
	case StageMissingSample:
		return filter.MissingPerSample(v, opts.MaxMissingSample), nil
	case StageMonomorphic:
		return filter.Monomorphic(v, opts.MonomorphicExcludeHet), nil
	case StageSingleton:
		return filter.Singleton(v, opts.SingletonsExcludeHet), nil
	case StageBiallelic:
		return filter.Biallelic(v, opts.BiallelicExcludeHet), nil
	case StageMissingGlobal:
		return filter.MissingGlobal(v, opts.MaxMissingGlobal), nil
	case StageMissingPop:
		return filter.MissingPerPopulation(v, opts.MaxMissingPop), nil
	case StageMAF:
		return filter.MinorAlleleFrequency(v, opts.MinMAF), nil
	case StageMAC:
		return filter.MinorAlleleCount(v, opts.MinMAC), nil
	}
	panic(s)
}

func (c *Chain) runStage(s Stage, opts *Opts, rng *rand.Rand) error {
	enabled, hasThreshold, threshold := opts.stage(s)
	step := Step{Stage: s, Enabled: enabled, HasThreshold: hasThreshold, Threshold: threshold}
	if !enabled {
		c.steps = append(c.steps, step)
		return nil
	}
	mask, provenance := c.loci, c.lociBy
	if s.Granularity() == Samples {
		mask, provenance = c.samples, c.samplesBy
	}
	keep, err := c.apply(s, c.view(), opts, rng)
	if err != nil {
		return err
	}
	before := mask.Count()
	if filter.Count(keep) == 0 {
		desc := s.String()
		if hasThreshold {
			desc = fmt.Sprintf("%s (threshold %v)", s, threshold)
		}
		if !opts.SearchMode {
			return errors.E(errors.Precondition,
				fmt.Sprintf("filterchain: %s would remove all %d remaining %s", desc, before, s.Granularity()))
		}
		log.Printf("filterchain: warning: %s would remove all %d remaining %s; skipping the stage",
			desc, before, s.Granularity())
		step.Skipped = true
		c.steps = append(c.steps, step)
		return nil
	}
	removed, err := mask.Commit(keep)
	if err != nil {
		return err
	}
	for _, idx := range removed {
		provenance[idx] = s
	}
	if s.Granularity() == Samples && len(removed) > 0 {
		ids := c.state.Samples()
		c.sampleIDs = c.sampleIDs[:0]
		for _, idx := range c.samples.Active() {
			c.sampleIDs = append(c.sampleIDs, ids[idx])
		}
	}
	step.Removed = len(removed)
	if before > 0 {
		step.RemovedFraction = float64(step.Removed) / float64(before)
	}
	c.steps = append(c.steps, step)
	log.Debug.Printf("filterchain: %s: %d -> %d %s", s, before, mask.Count(), s.Granularity())
	return nil
}

// Finalize builds the filtered store.  It must be called after Run.
func (c *Chain) Finalize(ctx context.Context) (*Result, error) {
	if !c.ran {
		return nil, errors.E(errors.Precondition, "filterchain: Finalize called before Run")
	}
	if c.err != nil {
		return nil, errors.E(errors.Precondition, c.err, "filterchain: Finalize after a failed run")
	}
	if c.state.Coordinates() != nil {
		if err := c.loadCoordinates(ctx); err != nil {
			return nil, err
		}
	}
	return &Result{
		Store:            c.state.Subset(c.samples.Active(), c.loci.Active(), c.coords),
		Steps:            append([]Step(nil), c.steps...),
		LociMask:         c.loci.Bools(),
		SampleMask:       c.samples.Bools(),
		LociProvenance:   append([]Stage(nil), c.lociBy...),
		SampleProvenance: append([]Stage(nil), c.samplesBy...),
		Summary:          c.summary,
		samples:          c.state.Samples(),
		coords:           c.coords,
	}, nil
}
