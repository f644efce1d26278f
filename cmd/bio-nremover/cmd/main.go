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
	"fmt"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

const configHelp = `TOML file with the run configuration. Top-level keys match the flag
names with underscores (format, popmap, coords, bgi, out, fasta_width); stage
settings go in a [filter] table (max_missing_global, min_maf, random_subset.count,
...) and sweep grids in a [sweep] table. Flags set on the command line override
the file.`

// newCmd builds a subcommand that loads its configuration and passes it, with
// the alignment path, to run.
func newCmd(name, short, long string, run func(context.Context, RunConfig, string) error) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     name,
		Short:    short,
		Long:     long,
		ArgsName: "alignment",
	}
	flagConfig := DefaultRunConfig
	registerFlags(&cmd.Flags, &flagConfig)
	configPath := cmd.Flags.String("config", "", configHelp)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("%s takes one alignment path, but got %v", name, argv)
		}
		c, err := loadConfig(*configPath, &cmd.Flags)
		if err != nil {
			return err
		}
		return run(vcontext.Background(), c, argv[0])
	})
	return cmd
}

func newCmdFilter() *cmdline.Command {
	return newCmd("filter", "Filter loci and samples of a genotype alignment",
		`Filter runs the enabled stages, in a fixed order: unlinked, thin,
random subset, per-sample missingness, monomorphic, singletons, biallelic,
global missingness, per-population missingness, MAF and MAC. It writes the
filtered alignment, its population map and the filtering reports under -out.`,
		runFilter)
}

func newCmdSearch() *cmdline.Command {
	return newCmd("search", "Report what the threshold filters would retain over a grid of thresholds",
		`Search evaluates the missingness and MAF filters over paired grids of
thresholds (-sweep-missing, -sweep-maf) without filtering, after running the
enabled stages, if any. It writes <out>.sweep.tsv.`,
		runSearch)
}

// Run is the bio-nremover entry point.
func Run() {
	shutdown := grail.Init()
	cmdline.HideGlobalFlagsExcept()
	err := cmdline.ParseAndRun(&cmdline.Command{
		Name:     "bio-nremover",
		Short:    "Filter genotype alignments by missing data and allele statistics",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdFilter(),
			newCmdSearch(),
		},
	}, cmdline.EnvFromOS(), os.Args[1:])
	shutdown()
	if err != nil {
		os.Exit(cmdline.ExitCode(err, os.Stderr))
	}
}
