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

// Package phylip reads and writes sequential PHYLIP alignments.  A file
// starts with a header line holding the number of samples and the number of
// loci, followed by one line per sample: the sample ID, whitespace, and the
// genotype string.  For example:
//
// 2 4
// s1	ACGT
// s2	ACNT
package phylip

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/genofilter/genotype"
	"github.com/pkg/errors"
)

const bufferMaxSize = 1024 * 1024 * 300 // 300 MB

// Alignment is the content of a PHYLIP file.
type Alignment struct {
	Samples []string
	Rows    [][]byte
}

// Read parses a PHYLIP alignment from r.  Blank lines are ignored.  The
// header counts must agree with the data.
func Read(r io.Reader) (*Alignment, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferMaxSize)
	var (
		a               Alignment
		nSamples, nLoci int
		sawHeader       bool
		lineNo          int
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		fields := strings.Fields(line)
		if !sawHeader {
			if len(fields) < 2 {
				return nil, errors.Errorf("phylip: line %d: malformed header %q", lineNo, line)
			}
			var err error
			if nSamples, err = strconv.Atoi(fields[0]); err != nil {
				return nil, errors.Wrapf(err, "phylip: line %d: sample count", lineNo)
			}
			if nLoci, err = strconv.Atoi(fields[1]); err != nil {
				return nil, errors.Wrapf(err, "phylip: line %d: locus count", lineNo)
			}
			sawHeader = true
			continue
		}
		if len(fields) != 2 {
			return nil, errors.Errorf("phylip: line %d: expected \"<sample> <genotypes>\", got %d fields", lineNo, len(fields))
		}
		if len(fields[1]) != nLoci {
			return nil, errors.Errorf("phylip: line %d: sample %s has %d loci, header says %d",
				lineNo, fields[0], len(fields[1]), nLoci)
		}
		a.Samples = append(a.Samples, fields[0])
		a.Rows = append(a.Rows, []byte(fields[1]))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "phylip: couldn't read alignment")
	}
	if !sawHeader {
		return nil, errors.New("phylip: empty input")
	}
	if len(a.Samples) != nSamples {
		return nil, errors.Errorf("phylip: found %d samples, header says %d", len(a.Samples), nSamples)
	}
	return &a, nil
}

// Write writes the alignment held by store to w.
func Write(w io.Writer, store *genotype.Store) error {
	aln := store.Alignment()
	out := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(out, "%d %d\n", aln.NSamples(), aln.NLoci()); err != nil {
		return err
	}
	for s, id := range store.Samples() {
		out.WriteString(id)
		out.WriteByte('\t')
		out.Write(aln.Row(s))
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
	return out.Flush()
}
