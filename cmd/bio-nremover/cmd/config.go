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
	"flag"
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/genofilter/filterchain"
)

// RunConfig is everything a filter or search invocation needs besides the
// input alignment path.  It can be read from a TOML file; flags given on the
// command line override the file.
type RunConfig struct {
	// Format of the input alignment: phylip, fasta or vcf.  Empty means
	// guess from the file name.
	Format string `toml:"format"`
	PopMap string `toml:"popmap"`
	// Coords and BGI name a CHROM/POS table or a BGEN index that supplies
	// locus coordinates.  Either one makes the input coordinate-bearing.
	Coords string `toml:"coords"`
	BGI    string `toml:"bgi"`
	// Out is the output path prefix.
	Out string `toml:"out"`
	// FastaWidth wraps FASTA output lines.  0 writes PHYLIP instead.
	FastaWidth int `toml:"fasta_width"`

	Filter filterchain.Opts `toml:"filter"`
	Sweep  SweepConfig      `toml:"sweep"`
}

// SweepConfig configures the threshold search.
type SweepConfig struct {
	MissingThresholds []float64 `toml:"missing_thresholds"`
	MAFThresholds     []float64 `toml:"maf_thresholds"`
	ExcludeHet        bool      `toml:"exclude_het"`
}

// DefaultRunConfig is the configuration used when no file is given.
var DefaultRunConfig = RunConfig{
	Out:    "bio-nremover",
	Filter: filterchain.DefaultOpts,
	Sweep: SweepConfig{
		MissingThresholds: filterchain.DefaultSweepOpts.MissingThresholds,
		MAFThresholds:     filterchain.DefaultSweepOpts.MAFThresholds,
	},
}

// SweepOpts converts c to filterchain.SweepOpts.
func (c SweepConfig) SweepOpts() filterchain.SweepOpts {
	return filterchain.SweepOpts{
		MissingThresholds: c.MissingThresholds,
		MAFThresholds:     c.MAFThresholds,
		ExcludeHet:        c.ExcludeHet,
	}
}

// randomSubsetFlag sets one field of an optional RandomSubset.
type randomSubsetFlag struct {
	p        **filterchain.RandomSubset
	fraction bool
}

func (f randomSubsetFlag) String() string {
	if f.p == nil || *f.p == nil {
		return ""
	}
	if f.fraction {
		return strconv.FormatFloat((*f.p).Fraction, 'g', -1, 64)
	}
	return strconv.Itoa((*f.p).Count)
}

// Set replaces any subset from the config file, so that a count and a
// fraction are never both set.
func (f randomSubsetFlag) Set(s string) error {
	if f.fraction {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f.p = &filterchain.RandomSubset{Fraction: v}
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f.p = &filterchain.RandomSubset{Count: n}
	return nil
}

// seedFlag sets an optional seed.
type seedFlag struct{ p **int64 }

func (f seedFlag) String() string {
	if f.p == nil || *f.p == nil {
		return ""
	}
	return strconv.FormatInt(**f.p, 10)
}

func (f seedFlag) Set(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f.p = &v
	return nil
}

// sweepFlag sets a comma-separated threshold list.
type sweepFlag struct{ p *[]float64 }

func (f sweepFlag) String() string {
	if f.p == nil {
		return ""
	}
	return formatFloats(*f.p)
}

func (f sweepFlag) Set(s string) error {
	v, err := parseFloats(s)
	if err != nil {
		return err
	}
	*f.p = v
	return nil
}

// registerFlags binds the flags shared by filter and search to the fields of
// c.  Flag defaults are the current field values.
func registerFlags(fs *flag.FlagSet, c *RunConfig) {
	o := &c.Filter
	fs.StringVar(&c.Format, "format", c.Format, "Input format: phylip, fasta or vcf. By default guessed from the file extension")
	fs.StringVar(&c.PopMap, "popmap", c.PopMap, "Population map TSV (sample<TAB>population)")
	fs.StringVar(&c.Coords, "coords", c.Coords, "Locus coordinate TSV with CHROM and POS columns, one row per alignment column")
	fs.StringVar(&c.BGI, "bgi", c.BGI, "BGEN index (.bgi) supplying locus coordinates; this xor -coords")
	fs.StringVar(&c.Out, "out", c.Out, "Output path prefix")
	fs.IntVar(&c.FastaWidth, "fasta-width", c.FastaWidth, "Write the filtered alignment as FASTA wrapped at this width; 0 writes PHYLIP")

	fs.BoolVar(&o.UnlinkedOnly, "unlinked", o.UnlinkedOnly, "Keep one random locus per chromosome")
	fs.Int64Var(&o.ThinWindow, "thin", o.ThinWindow, "Drop loci within this many bases of the previous retained locus; 0 disables")
	fs.Var(randomSubsetFlag{p: &o.RandomSubset}, "random-count", "Keep this many random loci")
	fs.Var(randomSubsetFlag{p: &o.RandomSubset, fraction: true}, "random-fraction", "Keep this fraction of loci, chosen at random")
	fs.Float64Var(&o.MaxMissingSample, "max-missing-sample", o.MaxMissingSample, "Drop samples with a larger missing fraction; 1 disables")
	fs.BoolVar(&o.Monomorphic, "monomorphic", o.Monomorphic, "Drop monomorphic loci")
	fs.BoolVar(&o.Singletons, "singletons", o.Singletons, "Drop singleton loci")
	fs.BoolVar(&o.Biallelic, "biallelic", o.Biallelic, "Keep only biallelic loci")
	fs.BoolVar(&o.MonomorphicExcludeHet, "monomorphic-exclude-het", o.MonomorphicExcludeHet, "Ignore heterozygous calls when testing for monomorphic loci")
	fs.BoolVar(&o.SingletonsExcludeHet, "singletons-exclude-het", o.SingletonsExcludeHet, "Ignore heterozygous calls when testing for singletons")
	fs.BoolVar(&o.BiallelicExcludeHet, "biallelic-exclude-het", o.BiallelicExcludeHet, "Ignore heterozygous calls when testing for biallelic loci")
	fs.Float64Var(&o.MaxMissingGlobal, "max-missing-global", o.MaxMissingGlobal, "Drop loci with a larger missing fraction; 1 disables")
	fs.Float64Var(&o.MaxMissingPop, "max-missing-pop", o.MaxMissingPop, "Drop loci with a larger missing fraction in any population; 1 disables")
	fs.Float64Var(&o.MinMAF, "min-maf", o.MinMAF, "Drop loci with a smaller minor allele frequency; 0 disables")
	fs.Float64Var(&o.MinMAC, "min-mac", o.MinMAC, "Drop loci with a smaller minor allele count; 0 disables")
	fs.BoolVar(&o.SearchMode, "search-mode", o.SearchMode, "Skip, rather than fail on, a stage that would remove everything")
	fs.Var(seedFlag{p: &o.Seed}, "seed", "Seed for the random stages. By default time-based")

	fs.Var(sweepFlag{p: &c.Sweep.MissingThresholds}, "sweep-missing", "Comma-separated missing-data thresholds for search")
	fs.Var(sweepFlag{p: &c.Sweep.MAFThresholds}, "sweep-maf", "Comma-separated MAF thresholds for search")
	fs.BoolVar(&c.Sweep.ExcludeHet, "sweep-exclude-het", c.Sweep.ExcludeHet, "Ignore heterozygous calls in the search's allele-identity counts")
}

// loadConfig builds the effective configuration: defaults, then the TOML file
// at path (if any), then every flag explicitly set in set.
func loadConfig(path string, set *flag.FlagSet) (RunConfig, error) {
	c := DefaultRunConfig
	c.Sweep.MissingThresholds = append([]float64(nil), c.Sweep.MissingThresholds...)
	c.Sweep.MAFThresholds = append([]float64(nil), c.Sweep.MAFThresholds...)
	if path != "" {
		if _, err := toml.DecodeFile(path, &c); err != nil {
			return c, errors.E(errors.Invalid, err, "reading config", path)
		}
	}
	apply := flag.NewFlagSet("config", flag.ContinueOnError)
	registerFlags(apply, &c)
	var err error
	set.Visit(func(f *flag.Flag) {
		if err != nil || apply.Lookup(f.Name) == nil {
			return
		}
		if e := apply.Set(f.Name, f.Value.String()); e != nil {
			err = fmt.Errorf("flag -%s: %v", f.Name, e)
		}
	})
	if err == nil && c.Coords != "" && c.BGI != "" {
		err = errors.E(errors.Invalid, "-coords and -bgi are mutually exclusive")
	}
	return c, err
}
