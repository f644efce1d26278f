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

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/grailbio/base/errors"
)

// RetentionMask is the set of retained indices in an original index space of
// fixed length.  Indices only ever leave the set.
type RetentionMask struct {
	n  int
	rb *roaring.Bitmap
}

// NewRetentionMask returns a mask of length n with every index retained.
func NewRetentionMask(n int) *RetentionMask {
	rb := roaring.New()
	rb.AddRange(0, uint64(n))
	return &RetentionMask{n: n, rb: rb}
}

// Len returns the length of the original index space.
func (m *RetentionMask) Len() int { return m.n }

// Count returns the number of retained indices.
func (m *RetentionMask) Count() int { return int(m.rb.GetCardinality()) }

// Contains reports whether index i is retained.
func (m *RetentionMask) Contains(i int) bool { return m.rb.Contains(uint32(i)) }

// Active returns the retained indices in ascending order.
func (m *RetentionMask) Active() []int {
	active := make([]int, 0, m.Count())
	it := m.rb.Iterator()
	for it.HasNext() {
		active = append(active, int(it.Next()))
	}
	return active
}

// Commit clears the retained indices whose position in Active() has
// keep[pos] == false, and returns the cleared indices.  len(keep) must equal
// Count().
func (m *RetentionMask) Commit(keep []bool) ([]int, error) {
	active := m.Active()
	if len(keep) != len(active) {
		return nil, errors.E(errors.Integrity,
			fmt.Sprintf("filterchain: mask of length %d applied to %d active entries", len(keep), len(active)))
	}
	var removed []int
	for pos, idx := range active {
		if !keep[pos] {
			removed = append(removed, idx)
		}
	}
	for _, idx := range removed {
		m.rb.Remove(uint32(idx))
	}
	return removed, nil
}

// Bools returns the mask as one bool per original index.
func (m *RetentionMask) Bools() []bool {
	b := make([]bool, m.n)
	it := m.rb.Iterator()
	for it.HasNext() {
		b[it.Next()] = true
	}
	return b
}
