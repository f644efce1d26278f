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

	"github.com/grailbio/base/log"
	"github.com/grailbio/genofilter/filterchain"
)

// runSearch sweeps the threshold grid over the alignment at path, after the
// configured stages (if any) have run, and writes c.Out + ".sweep.tsv".
func runSearch(ctx context.Context, c RunConfig, path string) error {
	store, err := readStore(ctx, c, path)
	if err != nil {
		return err
	}
	chain, err := filterchain.New(store)
	if err != nil {
		return err
	}
	if stages := c.Filter.Enabled(); len(stages) > 0 {
		log.Printf("running %d stages before the sweep", len(stages))
		if err = chain.Run(ctx, c.Filter); err != nil {
			return err
		}
	}
	sweep, err := chain.SearchThresholds(ctx, c.Sweep.SweepOpts())
	if err != nil {
		return err
	}
	log.Printf("swept %d threshold pairs over %d samples x %d loci",
		len(sweep.Points), sweep.ActiveSamples, sweep.ActiveLoci)
	log.Printf("loci retained: monomorphic filter %d, biallelic filter %d, singleton filter %d",
		sweep.Monomorphic, sweep.Biallelic, sweep.Singleton)
	return writeFile(ctx, c.Out+".sweep.tsv", sweep.WriteTSV)
}
