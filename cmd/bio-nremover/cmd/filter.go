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

package cmd

import (
	"context"
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/genofilter/encoding/fasta"
	"github.com/grailbio/genofilter/encoding/locus"
	"github.com/grailbio/genofilter/encoding/phylip"
	"github.com/grailbio/genofilter/encoding/popmap"
	"github.com/grailbio/genofilter/filterchain"
)

// runFilter runs the filter chain over the alignment at path and writes the
// filtered alignment and the reports under c.Out.
func runFilter(ctx context.Context, c RunConfig, path string) error {
	store, err := readStore(ctx, c, path)
	if err != nil {
		return err
	}
	chain, err := filterchain.New(store)
	if err != nil {
		return err
	}
	if err = chain.Run(ctx, c.Filter); err != nil {
		return err
	}
	res, err := chain.Finalize(ctx)
	if err != nil {
		return err
	}
	filtered := res.Store

	type output struct {
		suffix string
		write  func(io.Writer) error
	}
	outputs := []output{
		{".popmap", func(w io.Writer) error { return popmap.Write(w, filtered.Samples(), filtered.PopulationMap()) }},
		{".report.tsv", func(w io.Writer) error { return filterchain.WriteReport(w, res.Steps) }},
		{".summary.tsv", func(w io.Writer) error { return filterchain.WriteSummary(w, res.Summary) }},
		{".mask.tsv", res.WriteMask},
	}
	if c.FastaWidth > 0 {
		outputs = append(outputs, output{".fasta", func(w io.Writer) error { return fasta.Write(w, filtered, c.FastaWidth) }})
	} else {
		outputs = append(outputs, output{".phy", func(w io.Writer) error { return phylip.Write(w, filtered) }})
	}
	if src := filtered.Coordinates(); src != nil {
		coords, err := src.LoadCoordinates(ctx)
		if err != nil {
			return err
		}
		outputs = append(outputs, output{".loci.tsv", func(w io.Writer) error { return locus.Write(w, coords) }})
	}
	err = traverse.Each(len(outputs), func(i int) error {
		return writeFile(ctx, c.Out+outputs[i].suffix, outputs[i].write)
	})
	if err != nil {
		return err
	}
	log.Printf("wrote %d samples x %d loci to %s.*", filtered.Alignment().NSamples(), filtered.Alignment().NLoci(), c.Out)
	return nil
}
