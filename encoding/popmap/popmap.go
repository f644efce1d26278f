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

// Package popmap reads and writes population maps: headerless two-column TSV
// files mapping a sample ID to its population.  Lines starting with '#' are
// ignored.
package popmap

import (
	"io"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/genofilter/genotype"
	"github.com/pkg/errors"
)

// Row is one line of a population map.
type Row struct {
	Sample     string `tsv:"sample"`
	Population string `tsv:"population"`
}

// Read parses a population map.  A sample may appear only once.
func Read(r io.Reader) (map[string]string, error) {
	reader := tsv.NewReader(r)
	reader.Comment = '#'
	m := map[string]string{}
	for {
		var row Row
		if err := reader.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "popmap: couldn't read population map")
		}
		if row.Sample == "" || row.Population == "" {
			return nil, errors.Errorf("popmap: empty field in row %+v", row)
		}
		if pop, ok := m[row.Sample]; ok {
			return nil, errors.Errorf("popmap: sample %s is listed twice (%s, %s)", row.Sample, pop, row.Population)
		}
		m[row.Sample] = row.Population
	}
	return m, nil
}

// Write writes the population of each sample that has one, in the order of
// samples.
func Write(w io.Writer, samples []string, pm *genotype.PopulationMap) error {
	out := tsv.NewWriter(w)
	for _, s := range samples {
		pop, ok := pm.Population(s)
		if !ok {
			continue
		}
		out.WriteString(s)
		out.WriteString(pop)
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
