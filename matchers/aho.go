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

// MatchAho runs the rules_automaton over the query's byte-encoded token
// stream and reports every hit whose start offset lands on a token boundary
// (even byte offset) and whose covered positions are all still matchable.
// An odd start offset means the automaton found a pattern straddling two
// tokens' byte representations, which is never a real token-level match.
func MatchAho(q *query.Query, ix *index.Index) []*Match {
	encoded := index.EncodeTokens(q.Tokens)
	hits := ix.FindRules(encoded)
	if len(hits) == 0 {
		return nil
	}

	matchable := q.MatchableHigh().Union(q.MatchableLow())

	var out []*Match
	for _, h := range hits {
		if h.Start%2 != 0 {
			continue
		}
		startPos, endPos := h.Start/2, h.End/2
		qspan := spanset.Range(startPos, endPos)
		if !matchable.Contains(qspan) {
			continue
		}
		rule := ix.Rule(h.Rid)
		if rule == nil {
			continue
		}
		ispan := spanset.Range(0, rule.Length)
		hispan := legaleseSpan(q, qspan, ix)
		out = append(out, New(Aho, qspan, ispan, hispan, rule, q.LineByPos))
	}
	return out
}
