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

package genotype

import "sort"

// PopulationMap maps sample IDs to population IDs, and keeps the inverse
// mapping.  It is immutable once built.
type PopulationMap struct {
	bySample map[string]string
	byPop    map[string][]string
	pops     []string
}

// NewPopulationMap builds a PopulationMap from sample -> population.
// Populations are reported in sorted order, and members of a population in
// sorted sample order.
func NewPopulationMap(m map[string]string) *PopulationMap {
	p := &PopulationMap{
		bySample: make(map[string]string, len(m)),
		byPop:    make(map[string][]string),
	}
	samples := make([]string, 0, len(m))
	for s := range m {
		samples = append(samples, s)
	}
	sort.Strings(samples)
	for _, s := range samples {
		pop := m[s]
		p.bySample[s] = pop
		if _, ok := p.byPop[pop]; !ok {
			p.pops = append(p.pops, pop)
		}
		p.byPop[pop] = append(p.byPop[pop], s)
	}
	sort.Strings(p.pops)
	return p
}

// Len returns the number of samples in the map.
func (p *PopulationMap) Len() int {
	if p == nil {
		return 0
	}
	return len(p.bySample)
}

// Population returns the population of the sample.
func (p *PopulationMap) Population(sample string) (string, bool) {
	if p == nil {
		return "", false
	}
	pop, ok := p.bySample[sample]
	return pop, ok
}

// Populations returns the population IDs in sorted order.
func (p *PopulationMap) Populations() []string {
	if p == nil {
		return nil
	}
	return p.pops
}

// Members returns the samples in the population.  The caller must not modify
// the result.
func (p *PopulationMap) Members(pop string) []string {
	if p == nil {
		return nil
	}
	return p.byPop[pop]
}

// Map returns a copy of the sample -> population mapping.
func (p *PopulationMap) Map() map[string]string {
	m := make(map[string]string, p.Len())
	if p != nil {
		for s, pop := range p.bySample {
			m[s] = pop
		}
	}
	return m
}

// Subset returns a map restricted to the given samples.  Samples that are not
// in p are ignored.
func (p *PopulationMap) Subset(samples []string) *PopulationMap {
	m := make(map[string]string, len(samples))
	for _, s := range samples {
		if pop, ok := p.Population(s); ok {
			m[s] = pop
		}
	}
	return NewPopulationMap(m)
}
