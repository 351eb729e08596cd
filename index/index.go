// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package index builds and holds the in-memory Rule Index: the precomputed
// hash table, Aho-Corasick automaton, posting lists, and unknown-ngram
// automaton that the matchers (package matchers) query. An Index is built
// once and is safe for unlimited concurrent readers -- nothing in this
// package ever mutates an Index after Build returns.
package index

import (
	"crypto/sha1"
	"strings"

	"github.com/scancode-go/licensedcode/rules"
	"github.com/scancode-go/licensedcode/token"
)

// Posting records that rule Rid has token id at Pos in its token sequence.
type Posting struct {
	Rid int
	Pos int
}

// Index is the immutable, shared rule corpus.
type Index struct {
	Vocab *token.Vocabulary

	rules []*rules.Rule // indexed by Rid

	ridByHash map[[sha1.Size]byte]int

	rulesAutomaton *automaton

	// postings maps a legalese token id to every (rid, position) where it
	// occurs across the corpus, for candidate rule selection.
	postings map[token.ID][]Posting

	unknownAutomaton *unknownAutomaton

	falsePositiveRids map[int]bool

	spdxOf     map[string]string // internal key -> SPDX key (simple expressions only)
	internalOf map[string]string // SPDX key -> internal key
}

// Rules returns every rule in the corpus, indexed by Rid.
func (ix *Index) Rules() []*rules.Rule { return ix.rules }

// Rule returns the rule with the given id, or nil if out of range.
func (ix *Index) Rule(rid int) *rules.Rule {
	if rid < 0 || rid >= len(ix.rules) {
		return nil
	}
	return ix.rules[rid]
}

// RuleByHash resolves the whole-input hash matcher's lookup.
func (ix *Index) RuleByHash(h [sha1.Size]byte) (*rules.Rule, bool) {
	rid, ok := ix.ridByHash[h]
	if !ok {
		return nil, false
	}
	return ix.rules[rid], true
}

// RuleByExpression finds a rule whose license_expression equals expression,
// compared case-insensitively (used by the spdx-id matcher to resolve a
// rendered SPDX symbol, whose operators are upper-case, back to a rule whose
// loaded expression is lower-cased). Prefers an is_license_tag rule when more than one rule shares
// the expression, since tag rules are the canonical short-form match for
// an SPDX identifier line.
func (ix *Index) RuleByExpression(expression string) (*rules.Rule, bool) {
	var fallback *rules.Rule
	for _, r := range ix.rules {
		if !strings.EqualFold(r.LicenseExpression, expression) {
			continue
		}
		if r.IsLicenseTag {
			return r, true
		}
		if fallback == nil {
			fallback = r
		}
	}
	if fallback != nil {
		return fallback, true
	}
	return nil, false
}

// IsFalsePositive reports whether rid is in the explicit false-positive set.
func (ix *Index) IsFalsePositive(rid int) bool { return ix.falsePositiveRids[rid] }

// Postings returns the posting list for a legalese token id.
func (ix *Index) Postings(id token.ID) []Posting { return ix.postings[id] }

// AutomatonHit is one occurrence of a rule's full token sequence found
// inside a byte-encoded token stream.
type AutomatonHit struct {
	Rid   int
	Start int // byte offset into the encoded stream
	End   int // exclusive byte offset
}

// FindRules runs the rules_automaton over an encoded token stream (see
// EncodeTokens), returning every occurrence of any rule's full sequence.
func (ix *Index) FindRules(encoded []byte) []AutomatonHit {
	if ix.rulesAutomaton == nil {
		return nil
	}
	occs := ix.rulesAutomaton.find(encoded)
	hits := make([]AutomatonHit, len(occs))
	for i, o := range occs {
		hits[i] = AutomatonHit{Rid: o.PatternIdx, Start: o.Start, End: o.Start + ix.rulesAutomaton.patLen[o.PatternIdx]}
	}
	return hits
}

// CountUnknownNgramHits returns how many distinct legalese bigrams from the
// corpus occur in the given token ids, for the unknown matcher's heuristic.
func (ix *Index) CountUnknownNgramHits(ids []token.ID) int {
	return ix.unknownAutomaton.CountHits(ids)
}

// SPDXKey converts an internal (ScanCode-style) key to its SPDX equivalent,
// or synthesizes a LicenseRef-scancode-<key> when the corpus has no mapping.
func (ix *Index) SPDXKey(internalKey string) string {
	if spdx, ok := ix.spdxOf[internalKey]; ok {
		return spdx
	}
	return "LicenseRef-scancode-" + internalKey
}
