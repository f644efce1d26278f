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

// Package fasta reads and writes genotype alignments in FASTA form: one
// record per sample, named by the sample ID, whose sequence may be
// interrupted by newlines.  For example:
//
// >s1
// ACGTAC
// GAG
// >s2 second sample
// ACNTACGAG
//
// Note: Sample IDs are the stretch of characters excluding spaces immediately
// after '>'.  Any text after a space is ignored.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/grailbio/genofilter/genotype"
	"github.com/pkg/errors"
)

const bufferInitSize = 1024 * 1024 * 300 // 300 MB

// Alignment is the content of a FASTA alignment.
type Alignment struct {
	Samples []string
	Rows    [][]byte
}

// Read parses a FASTA alignment from r.  Every record must have the same
// sequence length.
func Read(r io.Reader) (*Alignment, error) {
	a := &Alignment{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)
	var (
		name string
		seq  strings.Builder
	)
	flush := func() error {
		if name == "" {
			if seq.Len() != 0 {
				return errors.Errorf("fasta: sequence data before the first record")
			}
			return nil
		}
		if len(a.Rows) > 0 && len(a.Rows[0]) != seq.Len() {
			return errors.Errorf("fasta: record %s has length %d, expected %d", name, seq.Len(), len(a.Rows[0]))
		}
		a.Samples = append(a.Samples, name)
		a.Rows = append(a.Rows, []byte(seq.String()))
		seq.Reset()
		return nil
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			if name = strings.Split(line[1:], " ")[0]; name == "" {
				return nil, errors.Errorf("fasta: record without a name")
			}
			continue
		}
		seq.WriteString(line)
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return a, nil
}

// Write writes the alignment held by store to w, wrapping sequences at width
// symbols per line.  A width <= 0 writes each sequence on one line.
func Write(w io.Writer, store *genotype.Store, width int) error {
	aln := store.Alignment()
	out := bufio.NewWriter(w)
	for s, id := range store.Samples() {
		out.WriteByte('>')
		out.WriteString(id)
		out.WriteByte('\n')
		row := aln.Row(s)
		for len(row) > 0 {
			n := len(row)
			if width > 0 && n > width {
				n = width
			}
			out.Write(row[:n])
			if err := out.WriteByte('\n'); err != nil {
				return err
			}
			row = row[n:]
		}
	}
	return out.Flush()
}
