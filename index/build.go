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

package index

import (
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/scancode-go/licensedcode/expr"
	"github.com/scancode-go/licensedcode/internal/errs"
	"github.com/scancode-go/licensedcode/rules"
	"github.com/scancode-go/licensedcode/token"
)

// Build constructs an Index from a rule corpus. Rule ids are assigned in
// ascending Identifier order so that Build is deterministic regardless of
// the order corpus was loaded in. A per-rule problem (an unparsable
// license_expression, or a token sequence that hashes the same as another
// rule's) is reported as an *errs.IndexBuildError wrapped in a multierror;
// Build still returns a usable (if degenerate) Index alongside the error so
// callers can decide how strict to be. A completely empty corpus is always
// fatal: Build returns a nil Index and a bare *errs.IndexBuildError.
func Build(corpus []*rules.Rule) (*Index, error) {
	if len(corpus) == 0 {
		return nil, &errs.IndexBuildError{Reason: "empty rule corpus"}
	}

	ordered := append([]*rules.Rule(nil), corpus...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Identifier < ordered[j].Identifier })

	var buildErrs *multierror.Error

	vb := token.NewVocabBuilder()
	for _, r := range ordered {
		for _, w := range r.Words {
			vb.Observe(w)
		}
	}
	vocab := vb.Build()

	for rid, r := range ordered {
		r.Rid = rid
		r.Tokens = make([]token.ID, len(r.Words))
		high := 0
		for i, w := range r.Words {
			id, ok := vocab.Lookup(w)
			if !ok {
				// unreachable: every word was Observe()d above
				buildErrs = multierror.Append(buildErrs, &errs.IndexBuildError{Rule: r.Identifier, Reason: "word missing from vocabulary: " + w})
				continue
			}
			r.Tokens[i] = id
			if vocab.IsLegalese(id) {
				high++
			}
		}
		r.Length = len(r.Tokens)
		r.HighLength = high
	}

	ix, derivedErrs := buildFromTokenized(vocab, ordered)
	buildErrs = multierror.Append(buildErrs, derivedErrs)

	return ix, buildErrs.ErrorOrNil()
}

// buildFromTokenized assembles the derived structures (postings, both
// automatons, the hash table, the SPDX mappings) from rules whose Tokens are
// already populated -- the shared back half of Build, and the path a
// deserialized Index restores through without re-tokenizing rule text.
func buildFromTokenized(vocab *token.Vocabulary, ordered []*rules.Rule) (*Index, error) {
	var buildErrs *multierror.Error

	ix := &Index{
		Vocab:             vocab,
		rules:             ordered,
		ridByHash:         make(map[[20]byte]int),
		postings:          make(map[token.ID][]Posting),
		falsePositiveRids: make(map[int]bool),
		spdxOf:            make(map[string]string),
		internalOf:        make(map[string]string),
	}

	corpusTokens := make([][]token.ID, len(ordered))
	considerForUnknown := make([]bool, len(ordered))
	patterns := make([][]byte, len(ordered))

	for rid, r := range ordered {
		corpusTokens[rid] = r.Tokens
		considerForUnknown[rid] = r.IsLicenseText || r.IsLicenseNotice

		if r.IsFalsePositive {
			ix.falsePositiveRids[rid] = true
		}

		if _, err := expr.Parse(r.LicenseExpression); err != nil {
			buildErrs = multierror.Append(buildErrs, &errs.IndexBuildError{Rule: r.Identifier, Reason: "unparsable license_expression: " + err.Error()})
		}
		if isSimpleSymbol(r.LicenseExpression) {
			ix.spdxOf[r.LicenseExpression] = r.LicenseExpressionSPDX
			ix.internalOf[r.LicenseExpressionSPDX] = r.LicenseExpression
		}

		h := HashTokens(r.Tokens)
		if existing, ok := ix.ridByHash[h]; ok {
			buildErrs = multierror.Append(buildErrs, &errs.IndexBuildError{
				Rule:   r.Identifier,
				Reason: "duplicate token hash with rule " + ordered[existing].Identifier,
			})
		} else {
			ix.ridByHash[h] = rid
		}

		patterns[rid] = EncodeTokens(r.Tokens)

		for pos, id := range r.Tokens {
			if !vocab.IsLegalese(id) {
				continue
			}
			ix.postings[id] = append(ix.postings[id], Posting{Rid: rid, Pos: pos})
		}
	}

	for id := range ix.postings {
		list := ix.postings[id]
		sort.Slice(list, func(i, j int) bool {
			if list[i].Rid != list[j].Rid {
				return list[i].Rid < list[j].Rid
			}
			return list[i].Pos < list[j].Pos
		})
		ix.postings[id] = list
	}

	ix.rulesAutomaton = buildAutomaton(patterns)
	ix.unknownAutomaton = buildUnknownAutomaton(vocab, corpusTokens, considerForUnknown)

	return ix, buildErrs.ErrorOrNil()
}

// isSimpleSymbol reports whether expression is a single bare symbol with no
// AND/OR/WITH operators, i.e. safe to use as a direct internal<->SPDX key
// mapping entry.
func isSimpleSymbol(expression string) bool {
	n, err := expr.Parse(expression)
	if err != nil {
		return false
	}
	switch n.(type) {
	case expr.License, expr.LicenseRef:
		return true
	default:
		return false
	}
}
