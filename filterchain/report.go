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
	"io"
	"strconv"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// Step records the effect of one stage.  A run produces one Step per stage,
// in stage order, whether or not the stage was enabled.
type Step struct {
	Stage   Stage
	Enabled bool
	// Skipped is set when, in search mode, the stage would have removed every
	// remaining locus or sample and was rolled back.
	Skipped bool
	// HasThreshold is false for stages without a numeric threshold.
	HasThreshold bool
	Threshold    float64
	// Removed is the number of loci (or samples) the stage removed.
	Removed int
	// RemovedFraction is Removed divided by the active count before the stage.
	RemovedFraction float64
}

// Summary describes a whole run.
type Summary struct {
	LociBefore, LociAfter       int
	SamplesBefore, SamplesAfter int
	// MissingBefore and MissingAfter are overall missing-data percentages.
	MissingBefore, MissingAfter float64
	// NoOp is set when no stage removed anything and missingness did not
	// change.
	NoOp bool
}

// SamplesRemoved returns the number of samples removed by the run.
func (s Summary) SamplesRemoved() int {
	return s.SamplesBefore - s.SamplesAfter
}

func isNoOp(steps []Step, s Summary) bool {
	for _, step := range steps {
		if step.Removed != 0 {
			return false
		}
	}
	return s.SamplesBefore == s.SamplesAfter && s.MissingBefore == s.MissingAfter
}

func logReport(steps []Step, s Summary) {
	log.Printf("filterchain: loci before filtering: %d", s.LociBefore)
	log.Printf("filterchain: samples before filtering: %d", s.SamplesBefore)
	for _, step := range steps {
		if !step.Enabled {
			continue
		}
		what := step.Stage.Granularity()
		if step.Skipped {
			log.Printf("filterchain: %s: skipped", step.Stage)
			continue
		}
		log.Printf("filterchain: %s: removed %d %s (%.2f%%)",
			step.Stage, step.Removed, what, 100*step.RemovedFraction)
	}
	log.Printf("filterchain: samples removed: %d", s.SamplesRemoved())
	log.Printf("filterchain: loci remaining: %d", s.LociAfter)
	log.Printf("filterchain: samples remaining: %d", s.SamplesAfter)
	log.Printf("filterchain: missing data before filtering: %.2f%%", s.MissingBefore)
	log.Printf("filterchain: missing data after filtering: %.2f%%", s.MissingAfter)
	if s.NoOp {
		log.Printf("filterchain: warning: the alignment was unchanged by filtering; check the thresholds")
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteReport writes one TSV row per step to w.
func WriteReport(w io.Writer, steps []Step) error {
	out := tsv.NewWriter(w)
	out.WriteString("STAGE\tENABLED\tSKIPPED\tTHRESHOLD\tREMOVED\tREMOVED_FRACTION")
	if err := out.EndLine(); err != nil {
		return err
	}
	for _, step := range steps {
		out.WriteString(step.Stage.String())
		out.WriteString(strconv.FormatBool(step.Enabled))
		out.WriteString(strconv.FormatBool(step.Skipped))
		if step.HasThreshold && step.Enabled {
			out.WriteString(formatFloat(step.Threshold))
		} else {
			out.WriteString(".")
		}
		out.WriteString(strconv.Itoa(step.Removed))
		out.WriteString(formatFloat(step.RemovedFraction))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

// WriteSummary writes s to w as a METRIC/VALUE TSV.
func WriteSummary(w io.Writer, s Summary) error {
	out := tsv.NewWriter(w)
	out.WriteString("METRIC\tVALUE")
	if err := out.EndLine(); err != nil {
		return err
	}
	metrics := []struct {
		name  string
		value string
	}{
		{"loci_before", strconv.Itoa(s.LociBefore)},
		{"loci_after", strconv.Itoa(s.LociAfter)},
		{"samples_before", strconv.Itoa(s.SamplesBefore)},
		{"samples_after", strconv.Itoa(s.SamplesAfter)},
		{"missing_pct_before", formatFloat(s.MissingBefore)},
		{"missing_pct_after", formatFloat(s.MissingAfter)},
		{"noop", strconv.FormatBool(s.NoOp)},
	}
	for _, m := range metrics {
		out.WriteString(m.name)
		out.WriteString(m.value)
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

// WriteMask writes one TSV row per original locus and sample: whether it was
// kept and, if not, the stage that removed it.  Loci are identified by
// CHROM:POS when coordinates were loaded.
func (r *Result) WriteMask(w io.Writer) error {
	out := tsv.NewWriter(w)
	out.WriteString("KIND\tINDEX\tID\tKEPT\tREMOVED_BY")
	if err := out.EndLine(); err != nil {
		return err
	}
	row := func(kind Granularity, i int, id string, kept bool, by Stage) error {
		out.WriteString(kind.String())
		out.WriteString(strconv.Itoa(i))
		out.WriteString(id)
		out.WriteString(strconv.FormatBool(kept))
		if kept {
			out.WriteString(".")
		} else {
			out.WriteString(by.String())
		}
		return out.EndLine()
	}
	for i, kept := range r.LociMask {
		id := "."
		if r.coords != nil {
			id = fmt.Sprintf("%s:%d", r.coords.Chromosomes[i], r.coords.Positions[i])
		}
		if err := row(Loci, i, id, kept, r.LociProvenance[i]); err != nil {
			return err
		}
	}
	for i, kept := range r.SampleMask {
		if err := row(Samples, i, r.samples[i], kept, r.SampleProvenance[i]); err != nil {
			return err
		}
	}
	return out.Flush()
}
