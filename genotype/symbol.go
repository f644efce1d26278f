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

// Genotype alphabet.
//
// Every cell of an alignment is a single upper-case ASCII symbol that falls
// into exactly one class: a canonical base (A/C/G/T), uracil (U), one of the
// six two-base IUPAC ambiguity codes (heterozygous call), or one of the four
// missing-data markers.

// Class categorizes a genotype symbol.
type Class byte

const (
	// ClassInvalid is any byte outside the alphabet.
	ClassInvalid Class = iota
	// ClassBase is one of A, C, G, T.
	ClassBase
	// ClassUracil is U.  It is a valid allele, but it is not one of the four
	// canonical bases used for frequency arithmetic.
	ClassUracil
	// ClassAmbiguous is one of the two-base IUPAC codes R, Y, S, W, K, M.
	ClassAmbiguous
	// ClassMissing is one of N, -, ., ?.
	ClassMissing
)

const (
	// BaseA represents an A base.
	BaseA byte = iota
	// BaseC represents a C base.
	BaseC
	// BaseG represents a G base.
	BaseG
	// BaseT represents a T base.
	BaseT
	// BaseU represents uracil.
	BaseU
	// BaseX is a catch-all for anything that is not a single valid allele.
	BaseX
)

const (
	// NBase is the number of canonical bases.
	NBase = 4
	// NAllele counts BaseU as well as the canonical bases.
	NAllele = 5
)

// MissingSymbols lists the missing-data markers.
var MissingSymbols = []byte{'N', '-', '.', '?'}

type symbolInfo struct {
	class Class
	// enum is BaseA..BaseU for single alleles, BaseX otherwise.
	enum byte
	// lo, hi are the constituents of an ambiguity code.
	lo, hi byte
}

var symbolTable [256]symbolInfo

func init() {
	set := func(c byte, info symbolInfo) {
		symbolTable[c] = info
		if c >= 'A' && c <= 'Z' {
			symbolTable[c+'a'-'A'] = info
		}
	}
	set('A', symbolInfo{class: ClassBase, enum: BaseA})
	set('C', symbolInfo{class: ClassBase, enum: BaseC})
	set('G', symbolInfo{class: ClassBase, enum: BaseG})
	set('T', symbolInfo{class: ClassBase, enum: BaseT})
	set('U', symbolInfo{class: ClassUracil, enum: BaseU})
	set('R', symbolInfo{class: ClassAmbiguous, enum: BaseX, lo: BaseA, hi: BaseG})
	set('Y', symbolInfo{class: ClassAmbiguous, enum: BaseX, lo: BaseC, hi: BaseT})
	set('S', symbolInfo{class: ClassAmbiguous, enum: BaseX, lo: BaseC, hi: BaseG})
	set('W', symbolInfo{class: ClassAmbiguous, enum: BaseX, lo: BaseA, hi: BaseT})
	set('K', symbolInfo{class: ClassAmbiguous, enum: BaseX, lo: BaseG, hi: BaseT})
	set('M', symbolInfo{class: ClassAmbiguous, enum: BaseX, lo: BaseA, hi: BaseC})
	for _, c := range MissingSymbols {
		set(c, symbolInfo{class: ClassMissing, enum: BaseX})
	}
}

// Classify returns the class of symbol c.  Lower-case letters are accepted.
func Classify(c byte) Class {
	return symbolTable[c].class
}

// IsMissing reports whether c is a missing-data marker.
func IsMissing(c byte) bool {
	return symbolTable[c].class == ClassMissing
}

// IsAmbiguous reports whether c is a two-base IUPAC ambiguity code.
func IsAmbiguous(c byte) bool {
	return symbolTable[c].class == ClassAmbiguous
}

// BaseEnum returns BaseA..BaseU for a single-allele symbol, and BaseX for
// everything else.
func BaseEnum(c byte) byte {
	return symbolTable[c].enum
}

// Constituents returns the two base enums represented by an ambiguity code.
// ok is false if c is not an ambiguity code.
func Constituents(c byte) (lo, hi byte, ok bool) {
	info := symbolTable[c]
	if info.class != ClassAmbiguous {
		return BaseX, BaseX, false
	}
	return info.lo, info.hi, true
}

// Normalize upper-cases c.  It returns false if c is not in the alphabet.
func Normalize(c byte) (byte, bool) {
	if symbolTable[c].class == ClassInvalid {
		return c, false
	}
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return c, true
}
