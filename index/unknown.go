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
	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/scancode-go/licensedcode/token"
)

// unknownAutomaton detects "license-shaped" text: it only needs to report
// how many distinct legalese bigrams occur in a gap, not where, so it is
// built on github.com/cloudflare/ahocorasick's existence-only Matcher
// directly (a better fit here than the custom position-reporting automaton
// used for rules_automaton -- see automaton.go's doc comment).
type unknownAutomaton struct {
	matcher  *ahocorasick.Matcher
	ngramLen int
}

// buildUnknownAutomaton collects every adjacent pair of legalese words
// occurring in is_license_text/is_license_notice rule bodies and builds a
// byte-pattern matcher over their token-id encoding.
func buildUnknownAutomaton(vocab *token.Vocabulary, corpusTokens [][]token.ID, considerRule []bool) *unknownAutomaton {
	seen := make(map[string]bool)
	var patterns [][]byte
	for ri, toks := range corpusTokens {
		if !considerRule[ri] {
			continue
		}
		for i := 0; i+1 < len(toks); i++ {
			a, b := toks[i], toks[i+1]
			if !vocab.IsLegalese(a) || !vocab.IsLegalese(b) {
				continue
			}
			enc := EncodeTokens([]token.ID{a, b})
			key := string(enc)
			if seen[key] {
				continue
			}
			seen[key] = true
			patterns = append(patterns, enc)
		}
	}
	if len(patterns) == 0 {
		return &unknownAutomaton{ngramLen: 2}
	}
	return &unknownAutomaton{
		matcher:  ahocorasick.NewMatcher(patterns),
		ngramLen: 2,
	}
}

// CountHits returns the number of distinct legalese bigrams from the corpus
// found inside the token run ids.
func (u *unknownAutomaton) CountHits(ids []token.ID) int {
	if u.matcher == nil || len(ids) < u.ngramLen {
		return 0
	}
	hits := u.matcher.Match(EncodeTokens(ids))
	seen := make(map[int]bool, len(hits))
	for _, h := range hits {
		seen[h] = true
	}
	return len(seen)
}
