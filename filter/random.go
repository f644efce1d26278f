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

package filter

import "math/rand"

// RandomSubset draws n of the active loci.  If n does not exceed the number of
// active loci, the draw is without replacement and exactly n loci are kept.
// Otherwise the draw is with replacement, and the distinct loci drawn are kept.
func RandomSubset(v *View, n int, rng *rand.Rand) []bool {
	active := len(v.Loci)
	keep := make([]bool, active)
	if active == 0 || n <= 0 {
		return keep
	}
	if n <= active {
		for _, i := range rng.Perm(active)[:n] {
			keep[i] = true
		}
		return keep
	}
	for j := 0; j < n; j++ {
		keep[rng.Intn(active)] = true
	}
	return keep
}
