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
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/genofilter/genotype"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPhylip = "5 6\ns1 AAANAT\ns2 AACNRT\ns3 CAGNA-\ns4 CAAAA-\ns5 NAACAC\n"
	testPopMap = "s1\tp1\ns2\tp1\ns3\tp2\ns4\tp2\ns5\tp2\n"
	testCoords = "CHROM\tPOS\nchr1\t100\nchr1\t150\nchr1\t400\nchr2\t10\nchr2\t20\nchr2\t900\n"
)

func writeTestFile(t *testing.T, path, data string) {
	require.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))
}

func readTestFile(t *testing.T, path string) string {
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGuessFormat(t *testing.T) {
	expect.EQ(t, guessFormat("a/b.phy"), genotype.FormatPhylip)
	expect.EQ(t, guessFormat("b.PHYLIP.gz"), genotype.FormatPhylip)
	expect.EQ(t, guessFormat("b.fasta.gz"), genotype.FormatFasta)
	expect.EQ(t, guessFormat("b.fa"), genotype.FormatFasta)
	expect.EQ(t, guessFormat("b.vcf"), genotype.FormatUnknown)
}

func TestRunFilter(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	aln := filepath.Join(tempDir, "in.phy")
	writeTestFile(t, aln, testPhylip)
	writeTestFile(t, filepath.Join(tempDir, "pops.tsv"), testPopMap)

	c := DefaultRunConfig
	c.PopMap = filepath.Join(tempDir, "pops.tsv")
	c.Out = filepath.Join(tempDir, "out")
	c.Filter.Biallelic = true
	c.Filter.MaxMissingGlobal = 0.5
	require.NoError(t, runFilter(ctx, c, aln))

	expect.EQ(t, readTestFile(t, c.Out+".phy"), "5 3\ns1\tAAT\ns2\tART\ns3\tCA-\ns4\tCA-\ns5\tNAC\n")
	expect.EQ(t, readTestFile(t, c.Out+".popmap"), testPopMap)
	report := readTestFile(t, c.Out+".report.tsv")
	assert.Contains(t, report, "biallelic\ttrue\tfalse\t.\t2\t")
	assert.Contains(t, report, "missing_global\ttrue\tfalse\t0.5\t1\t0.25\n")
	assert.Contains(t, readTestFile(t, c.Out+".summary.tsv"), "loci_after\t3\n")
	assert.Contains(t, readTestFile(t, c.Out+".mask.tsv"), "loci\t1\t.\tfalse\tbiallelic\n")
}

func TestRunFilterWithCoordinates(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(">s1\nAAANAT\n>s2\nAACNRT\n>s3\nCAGNA-\n>s4\nCAAAA-\n>s5\nNAACAC\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	aln := filepath.Join(tempDir, "in.fasta.gz")
	require.NoError(t, ioutil.WriteFile(aln, buf.Bytes(), 0644))
	writeTestFile(t, filepath.Join(tempDir, "loci.tsv"), testCoords)

	c := DefaultRunConfig
	c.Coords = filepath.Join(tempDir, "loci.tsv")
	c.Out = filepath.Join(tempDir, "out")
	c.FastaWidth = 2
	c.Filter.ThinWindow = 100
	require.NoError(t, runFilter(ctx, c, aln))

	// Thinning keeps chr1:100, chr1:400, chr2:10 and chr2:900.
	expect.EQ(t, readTestFile(t, c.Out+".loci.tsv"), "CHROM\tPOS\nchr1\t100\nchr1\t400\nchr2\t10\nchr2\t900\n")
	fa := readTestFile(t, c.Out+".fasta")
	assert.True(t, strings.HasPrefix(fa, ">s1\nAA\nNT\n>s2\n"), fa)
	assert.Contains(t, readTestFile(t, c.Out+".mask.tsv"), "loci\t1\tchr1:150\tfalse\tthin\n")
	expect.EQ(t, readTestFile(t, c.Out+".popmap"), "")

	// Without coordinates the thinning stage is a configuration error.
	c.Coords = ""
	assert.Error(t, runFilter(ctx, c, aln))
}

func TestRunSearch(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	aln := filepath.Join(tempDir, "in.phy")
	writeTestFile(t, aln, testPhylip)

	c := DefaultRunConfig
	c.Out = filepath.Join(tempDir, "out")
	c.Sweep = SweepConfig{MissingThresholds: []float64{0.2, 1}, MAFThresholds: []float64{0, 0.3}}
	require.NoError(t, runSearch(ctx, c, aln))

	lines := strings.Split(strings.TrimSpace(readTestFile(t, c.Out+".sweep.tsv")), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "MISSING_THRESHOLD\tMAF_THRESHOLD\t"))
	fields := strings.Split(lines[2], "\t")
	// At missing threshold 1 every locus and sample is retained.
	expect.EQ(t, fields[2], "6")
	expect.EQ(t, fields[5], ".")
	expect.EQ(t, fields[6], "5")
	// Allele-identity counts: L1 is monomorphic, L2 has three alleles, and
	// L3, L4 and L5 have a singleton minor allele.
	assert.True(t, strings.HasSuffix(lines[0], "\tLOCI_MONOMORPHIC\tLOCI_BIALLELIC\tLOCI_SINGLETON"))
	for _, line := range lines[1:] {
		assert.Equal(t, []string{"5", "4", "3"}, strings.Split(line, "\t")[10:])
	}
}
