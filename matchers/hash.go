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

package matchers

import (
	"github.com/scancode-go/licensedcode/index"
	"github.com/scancode-go/licensedcode/query"
	"github.com/scancode-go/licensedcode/spanset"
)

// MatchHash checks whether the whole query's token vector hashes to a known
// rule, which happens when the input is (apart from incidental whitespace
// already normalized away by tokenization) exactly one rule's text.
func MatchHash(q *query.Query, ix *index.Index) []*Match {
	if q.Len() == 0 {
		return nil
	}
	h := index.HashTokens(q.Tokens)
	rule, ok := ix.RuleByHash(h)
	if !ok {
		return nil
	}

	qspan := spanset.Range(0, q.Len())
	ispan := spanset.Range(0, rule.Length)
	hispan := legaleseSpan(q, qspan, ix)

	return []*Match{New(Hash, qspan, ispan, hispan, rule, q.LineByPos)}
}

// legaleseSpan restricts qspan to the positions whose token is legalese.
func legaleseSpan(q *query.Query, qspan spanset.Span, ix *index.Index) spanset.Span {
	var pos []int
	for _, p := range qspan.Elements() {
		if p < 0 || p >= len(q.Tokens) {
			continue
		}
		if ix.Vocab.IsLegalese(q.Tokens[p]) {
			pos = append(pos, p)
		}
	}
	return spanset.New(pos...)
}
