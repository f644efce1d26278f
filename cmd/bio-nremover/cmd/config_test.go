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
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/genofilter/filterchain"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
out = "from-config"
popmap = "pops.tsv"

[filter]
max_missing_global = 0.5
min_maf = 0.05
biallelic = true
seed = 11

[filter.random_subset]
count = 20

[sweep]
missing_thresholds = [0.2, 0.4]
maf_thresholds = [0.0, 0.1, 0.2]
`

func parseFlags(t *testing.T, args ...string) *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c := DefaultRunConfig
	registerFlags(fs, &c)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfig(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tempDir, "run.toml")
	require.NoError(t, ioutil.WriteFile(path, []byte(testConfig), 0644))

	c, err := loadConfig(path, parseFlags(t, "-min-maf=0.1", "-out=from-flag", "-sweep-missing=0.3,0.6"))
	require.NoError(t, err)
	expect.EQ(t, c.Out, "from-flag")
	expect.EQ(t, c.PopMap, "pops.tsv")
	expect.EQ(t, c.Filter.MaxMissingGlobal, 0.5)
	expect.EQ(t, c.Filter.MinMAF, 0.1)
	expect.EQ(t, c.Filter.MaxMissingSample, 1.0)
	assert.True(t, c.Filter.Biallelic)
	require.NotNil(t, c.Filter.Seed)
	expect.EQ(t, *c.Filter.Seed, int64(11))
	assert.Equal(t, &filterchain.RandomSubset{Count: 20}, c.Filter.RandomSubset)
	assert.Equal(t, []float64{0.3, 0.6}, c.Sweep.MissingThresholds)
	assert.Equal(t, []float64{0, 0.1, 0.2}, c.Sweep.MAFThresholds)
	assert.Equal(t, []filterchain.Stage{
		filterchain.StageRandomSubset,
		filterchain.StageBiallelic,
		filterchain.StageMissingGlobal,
		filterchain.StageMAF,
	}, c.Filter.Enabled())

	// The defaults are not modified by decoding.
	assert.Len(t, filterchain.DefaultSweepOpts.MissingThresholds, 5)
	assert.InDelta(t, 0.1, filterchain.DefaultSweepOpts.MissingThresholds[0], 1e-12)
	assert.Nil(t, DefaultRunConfig.Filter.RandomSubset)
}

func TestLoadConfigRandomSubsetOverride(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tempDir, "run.toml")
	require.NoError(t, ioutil.WriteFile(path, []byte(testConfig), 0644))

	c, err := loadConfig(path, parseFlags(t, "-random-fraction=0.5"))
	require.NoError(t, err)
	assert.Equal(t, &filterchain.RandomSubset{Fraction: 0.5}, c.Filter.RandomSubset)
	assert.NoError(t, c.Filter.Validate())

	c, err = loadConfig(path, parseFlags(t, "-random-count=7"))
	require.NoError(t, err)
	assert.Equal(t, &filterchain.RandomSubset{Count: 7}, c.Filter.RandomSubset)
	assert.NoError(t, c.Filter.Validate())
}

func TestLoadConfigFlagsOnly(t *testing.T) {
	c, err := loadConfig("", parseFlags(t, "-random-fraction=0.5", "-seed=3", "-coords=loci.tsv"))
	require.NoError(t, err)
	assert.Equal(t, &filterchain.RandomSubset{Fraction: 0.5}, c.Filter.RandomSubset)
	expect.EQ(t, *c.Filter.Seed, int64(3))
	expect.EQ(t, c.Coords, "loci.tsv")
	expect.EQ(t, c.Out, "bio-nremover")
	assert.Equal(t, filterchain.DefaultSweepOpts.MAFThresholds, c.Sweep.MAFThresholds)

	_, err = loadConfig("", parseFlags(t, "-coords=loci.tsv", "-bgi=x.bgi"))
	assert.Error(t, err)

	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	bad := filepath.Join(tempDir, "bad.toml")
	require.NoError(t, ioutil.WriteFile(bad, []byte("[filter\nmin_maf = \n"), 0644))
	_, err = loadConfig(bad, parseFlags(t))
	assert.Error(t, err)
}
